package score

import (
	"errors"
	"math"
	"testing"

	"github.com/cbegin/scoresheet-go/internal/music"
)

func parse(t *testing.T, input string) *Score {
	t.Helper()
	sc, err := NewParser(DefaultParserConfig()).Parse(input)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return sc
}

func TestParseDefaults(t *testing.T) {
	sc := parse(t, "C4 r.h SNARE.e")
	if len(sc.Tracks) != 1 || len(sc.Tracks[0]) != 3 {
		t.Fatalf("unexpected shape: %d tracks", len(sc.Tracks))
	}
	note, rest, strike := sc.Tracks[0][0], sc.Tracks[0][1], sc.Tracks[0][2]
	if note.Kind != music.NoteBeat || note.Count != music.Quarter || note.Key != 60 {
		t.Fatalf("note = %+v", note)
	}
	if note.Instrument.Name != "piano" || note.Volume != music.DefaultVolume || note.PlaySpeed != 500 {
		t.Fatalf("note defaults = %+v", note)
	}
	if rest.Kind != music.RestBeat || rest.Count != music.Half || rest.Volume != 0 {
		t.Fatalf("rest = %+v", rest)
	}
	if !strike.Percussion || strike.Key != 38 || strike.Count != music.Eighth {
		t.Fatalf("strike = %+v", strike)
	}
}

func TestParseCarriesContextForward(t *testing.T) {
	sc := parse(t, "C4.q 3/8:300 D4 violin v64 E4.h 2/4 F4")
	beats := sc.Tracks[0]
	if len(beats) != 4 {
		t.Fatalf("got %d beats", len(beats))
	}
	if beats[0].PlaySpeed != 500 || beats[0].Instrument.Name != "piano" {
		t.Fatalf("beat 0 saw later context: %+v", beats[0])
	}
	// 3/8:300 makes an eighth 300 ms, so a quarter is 600 ms.
	if beats[1].Count != music.Eighth || math.Abs(beats[1].PlaySpeed-600) > 1e-9 || beats[1].DurationMs() != 300 {
		t.Fatalf("beat 1 = %+v", beats[1])
	}
	if beats[2].Instrument.Name != "violin" || beats[2].Volume != 64 || beats[2].Count != music.Half {
		t.Fatalf("beat 2 = %+v", beats[2])
	}
	if beats[2].DurationMs() != 1200 {
		t.Fatalf("half at 600 ms/quarter = %d", beats[2].DurationMs())
	}
	if beats[3].Count != music.Quarter || beats[3].PlaySpeed != 500 {
		t.Fatalf("meter without duration should fall back: %+v", beats[3])
	}
}

func TestParseIntervalsFollowScale(t *testing.T) {
	sc := parse(t, "3 Ami 3 5 piano_E3 1")
	want := []music.Pitch{music.E4, music.C5, music.E5, music.E3}
	beats := sc.Tracks[0]
	if len(beats) != len(want) {
		t.Fatalf("got %d beats", len(beats))
	}
	for i, p := range want {
		if beats[i].Pitch != p {
			t.Fatalf("beat %d = %s, want %s", i, beats[i].Pitch, p)
		}
	}
}

func TestParseIntervalOutOfRange(t *testing.T) {
	_, err := NewParser(DefaultParserConfig()).Parse("C8m 15")
	var me *MarkingError
	if !errors.As(err, &me) || me.Reason != ReasonInterval {
		t.Fatalf("err = %v", err)
	}
}

func TestParseReportsEarliestResolveError(t *testing.T) {
	input := "C4\nD4\n\nC8m 12\nC8m 15\n\nC8m 13\nC8m 14"
	for i := 0; i < 50; i++ {
		_, err := NewParser(DefaultParserConfig()).Parse(input)
		var me *MarkingError
		if !errors.As(err, &me) {
			t.Fatalf("err = %v", err)
		}
		if me.Pos.Line != 4 || me.Literal != "12" {
			t.Fatalf("run %d reported line %d %q, want line 4 \"12\"", i, me.Pos.Line, me.Literal)
		}
	}
}

func TestEarliestPrefersPositionedErrors(t *testing.T) {
	plain := errors.New("plain")
	late := marking(ReasonInterval, "9", Position{Line: 7, Char: 3})
	early := marking(ReasonInterval, "8", Position{Line: 7, Char: 1})
	if got := earliest([]error{nil, plain, late, early}); got != early {
		t.Fatalf("earliest = %v", got)
	}
	if got := earliest([]error{nil, plain}); got != plain {
		t.Fatalf("earliest = %v", got)
	}
}

func TestParseTracksStayOrdered(t *testing.T) {
	sc := parse(t, "C4\nD4\nE4\nF4\n\nG4\nA4\nB4\nC5")
	want := [][]music.Pitch{{music.C4, music.G4}, {music.D4, music.A4}, {music.E4, music.B4}, {music.F4, music.C5}}
	for i, tr := range sc.Tracks {
		for j, b := range tr {
			if b.Pitch != want[i][j] {
				t.Fatalf("track %d beat %d = %s", i, j, b.Pitch)
			}
		}
	}
	if sc.BeatCount() != 8 {
		t.Fatalf("beat count = %d", sc.BeatCount())
	}
}

func TestParseFailsWhole(t *testing.T) {
	sc, err := NewParser(DefaultParserConfig()).Parse("C4 D4 E4.zz")
	if err == nil || sc != nil {
		t.Fatalf("expected no partial score, got %v / %v", sc, err)
	}
}
