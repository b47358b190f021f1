package score

import (
	"iter"
	"unicode"
)

// Span is a half-open rune range [Start, End) of one line. Bar is set for a
// lone '|' span.
type Span struct {
	Start int
	End   int
	Bar   bool
}

func isSeparator(r rune) bool {
	return r <= 0x20 || unicode.IsControl(r) || unicode.IsSpace(r) || r == ',' || r == '|'
}

// Spans lazily splits a line into literal spans. Offsets count runes.
// Separator runs collapse; each '|' is still yielded as its own span.
func Spans(line []rune) iter.Seq[Span] {
	return func(yield func(Span) bool) {
		start := -1
		for i, r := range line {
			if !isSeparator(r) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if !yield(Span{Start: start, End: i}) {
					return
				}
				start = -1
			}
			if r == '|' {
				if !yield(Span{Start: i, End: i + 1, Bar: true}) {
					return
				}
			}
		}
		if start >= 0 {
			yield(Span{Start: start, End: len(line)})
		}
	}
}

// TokenizeLine classifies every literal on one line. Measure numbers start at
// 1 and advance after each bar.
func TokenizeLine(line string, lineNo, stanza int) ([]Token, error) {
	runes := []rune(line)
	var out []Token
	measure := 1
	for sp := range Spans(runes) {
		lit := string(runes[sp.Start:sp.End])
		pos := Position{Line: lineNo, Stanza: stanza, Char: sp.Start + 1}
		tok, err := Classify(lit, pos)
		if err != nil {
			return nil, err
		}
		tok.Measure = measure
		if sp.Bar {
			measure++
		}
		out = append(out, tok)
	}
	return out, nil
}
