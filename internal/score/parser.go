package score

import "fmt"

type Parser struct{ cfg ParserConfig }

func NewParser(cfg ParserConfig) *Parser { return &Parser{cfg: cfg} }

func (p *Parser) Config() ParserConfig { return p.cfg }

// Parse assembles and resolves a whole score. Any classification error
// aborts the parse; there is no partial result.
func (p *Parser) Parse(input string) (*Score, error) {
	tracks, err := Assemble(input)
	if err != nil {
		return nil, err
	}
	sc, err := ResolveAll(tracks, p.cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	return sc, nil
}
