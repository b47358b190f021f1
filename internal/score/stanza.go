package score

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// scoreLine is one usable line with its absolute 1-based line number.
type scoreLine struct {
	no   int
	text string
}

// stanzas splits text into blank-line separated paragraphs. Comment lines
// are dropped first, so they never split or extend a stanza.
func stanzas(text string) [][]scoreLine {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out [][]scoreLine
	var cur []scoreLine
	for i, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if trimmed == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, scoreLine{no: i + 1, text: raw})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

// Assemble tokenizes a score into one token stream per track. The first
// stanza fixes the track count; line j of every later stanza extends
// track j.
func Assemble(text string) ([][]Token, error) {
	paras := stanzas(text)
	if len(paras) == 0 {
		return nil, nil
	}
	tracks := make([][]Token, len(paras[0]))
	for k, para := range paras {
		stanza := k + 1
		if len(para) > len(tracks) {
			return nil, &StanzaError{Line: para[len(tracks)].no, Stanza: stanza, Tracks: len(tracks)}
		}
		for j, ln := range para {
			toks, err := TokenizeLine(ln.text, ln.no, stanza)
			if err != nil {
				return nil, err
			}
			tracks[j] = append(tracks[j], toks...)
		}
	}
	return tracks, nil
}
