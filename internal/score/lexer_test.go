package score

import (
	"testing"

	"github.com/cbegin/scoresheet-go/internal/music"
)

func collect(line string) []Span {
	var out []Span
	for sp := range Spans([]rune(line)) {
		out = append(out, sp)
	}
	return out
}

func TestSpans(t *testing.T) {
	got := collect("a,,b|c")
	want := []Span{{0, 1, false}, {3, 4, false}, {4, 5, true}, {5, 6, false}}
	if len(got) != len(want) {
		t.Fatalf("spans = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("span %d = %v, want %v", i, got[i], want[i])
		}
	}
	if n := len(collect(" ,\t ,\x01 ")); n != 0 {
		t.Fatalf("all-separator line gave %d spans", n)
	}
	if n := len(collect("||")); n != 2 {
		t.Fatalf("two bars gave %d spans", n)
	}
}

func TestSpansStopEarly(t *testing.T) {
	n := 0
	for range Spans([]rune("a b c d")) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("iterated %d spans", n)
	}
}

func TestTokenizeLine(t *testing.T) {
	toks, err := TokenizeLine("C4.q r.h SNARE.e |", 1, 1)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	if len(toks) != 4 {
		t.Fatalf("got %d tokens, want 4", len(toks))
	}
	if toks[0].Kind != TokenNote || toks[0].Pitch != music.C4 || toks[0].Count != music.Quarter {
		t.Fatalf("token 0 = %+v", toks[0])
	}
	if toks[1].Kind != TokenRest || toks[1].Count != music.Half {
		t.Fatalf("token 1 = %+v", toks[1])
	}
	if toks[2].Kind != TokenStrike || toks[2].Sound != music.Snare || toks[2].Count != music.Eighth {
		t.Fatalf("token 2 = %+v", toks[2])
	}
	if toks[3].Kind != TokenMeasure {
		t.Fatalf("token 3 = %+v", toks[3])
	}
	if toks[2].Pos.Char != 10 {
		t.Fatalf("SNARE at char %d, want 10", toks[2].Pos.Char)
	}
}

func TestTokenizeLineMeasureNumbers(t *testing.T) {
	toks, err := TokenizeLine("C4 | D4 | E4", 3, 1)
	if err != nil {
		t.Fatalf("tokenize failed: %v", err)
	}
	want := []int{1, 1, 2, 2, 3}
	for i, tok := range toks {
		if tok.Measure != want[i] {
			t.Fatalf("token %d (%s) in measure %d, want %d", i, tok.Literal, tok.Measure, want[i])
		}
	}
}
