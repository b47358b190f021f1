package score

import "github.com/cbegin/scoresheet-go/internal/music"

type TokenKind int

const (
	TokenNote TokenKind = iota + 1
	TokenRest
	TokenStrike
	TokenInterval
	TokenMeter
	TokenScale
	TokenVolume
	TokenInstrument
	TokenRepeat
	TokenMeasure
)

var tokenKindNames = map[TokenKind]string{
	TokenNote:       "note",
	TokenRest:       "rest",
	TokenStrike:     "strike",
	TokenInterval:   "interval",
	TokenMeter:      "meter",
	TokenScale:      "scale",
	TokenVolume:     "volume",
	TokenInstrument: "instrument",
	TokenRepeat:     "repeat",
	TokenMeasure:    "measure",
}

func (k TokenKind) String() string {
	if s, ok := tokenKindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Position locates a literal in the score text. Line and Char are 1-based;
// Stanza is 1-based too.
type Position struct {
	Line   int
	Stanza int
	Char   int
}

// Before orders positions by line, then character.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Char < q.Char
}

// Token is one classified literal. Only the fields belonging to Kind are
// meaningful. Count is music.UnknownCount when the literal left it to be
// inherited from the active meter.
type Token struct {
	Kind       TokenKind
	Literal    string
	Pos        Position
	Measure    int
	Count      music.Count
	Pitch      music.Pitch
	Sound      music.Sound
	Interval   music.Interval
	Meter      music.Meter
	Scale      music.Scale
	Volume     int
	Instrument music.Instrument
}

// IsBeat reports whether the token becomes a Beat during resolution.
func (t Token) IsBeat() bool {
	switch t.Kind {
	case TokenNote, TokenRest, TokenStrike, TokenInterval:
		return true
	}
	return false
}

type Track []music.Beat

// Score is a fully resolved score: one beat sequence per voice.
type Score struct {
	Tracks []Track
}

// BeatCount returns the number of beats across all tracks.
func (s *Score) BeatCount() int {
	n := 0
	for _, tr := range s.Tracks {
		n += len(tr)
	}
	return n
}

type ParserConfig struct {
	DefaultMeter      music.Meter
	DefaultInstrument string
	DefaultVolume     int
	DefaultKey        music.Pitch
	DefaultScale      music.Scale
	// DefaultBeatMs is the quarter-note length used while the active meter
	// has no reference duration.
	DefaultBeatMs float64
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultMeter:      music.DefaultMeter(),
		DefaultInstrument: music.DefaultInstrument,
		DefaultVolume:     music.DefaultVolume,
		DefaultKey:        music.C4,
		DefaultScale:      music.Major,
		DefaultBeatMs:     500,
	}
}
