package music

import (
	"math"
	"testing"
)

func TestCountUnitsMatchTable(t *testing.T) {
	want := map[string]int{
		"tht": 2, "t2ht": 4, "ht": 6, "dht": 9,
		"tsf": 4, "t2sf": 8, "sf": 12, "dsf": 18,
		"tt": 8, "t2t": 16, "t": 24, "dt": 36,
		"ts": 16, "t2s": 32, "s": 48, "ds": 72,
		"te": 32, "t2e": 64, "e": 96, "de": 144,
		"tq": 64, "t2q": 128, "q": 192, "dq": 288,
		"th": 128, "t2h": 256, "h": 384, "dh": 576,
		"tw": 256, "t2w": 512, "w": 768, "dw": 1152,
		"tw2": 512, "t2w2": 1024, "w2": 1536, "dw2": 2304,
		"tw4": 1024, "t2w4": 2048, "w4": 3072, "dw4": 4608,
	}
	if len(want) != int(UnknownCount) {
		t.Fatalf("table has %d entries, enum has %d", len(want), UnknownCount)
	}
	for alias, units := range want {
		c, err := ParseCount(alias)
		if err != nil {
			t.Fatalf("parse %q: %v", alias, err)
		}
		if c.Units() != units {
			t.Fatalf("%s units = %d, want %d", alias, c.Units(), units)
		}
		if c.Alias() != alias {
			t.Fatalf("alias round trip %q -> %q", alias, c.Alias())
		}
	}
	if UnknownCount.Units() != 0 {
		t.Fatalf("unknown count should carry no weight")
	}
}

func TestCountUnitsIncreaseWithinTierAndAcrossPlainValues(t *testing.T) {
	for c := TripletHundredTwentyEighth; c < UnknownCount; c++ {
		if c.Modifier() != Triplet && c.Units() <= (c-1).Units() {
			t.Fatalf("%s (%d) not above %s (%d)", c, c.Units(), c-1, (c - 1).Units())
		}
		if c.Modifier() == Plain && c.Tier() > 0 {
			prev := c - countsPerTier
			if c.Units() != 2*prev.Units() {
				t.Fatalf("%s should double %s", c, prev)
			}
		}
	}
}

func TestScaledDurationIdentity(t *testing.T) {
	for c := TripletHundredTwentyEighth; c < UnknownCount; c++ {
		for _, v := range []float64{1, 250, 499.5} {
			if got := ScaledDuration(c, c, v); got != v {
				t.Fatalf("ScaledDuration(%s, %s, %v) = %v", c, c, v, got)
			}
		}
	}
}

func TestScaledDurationKnownValues(t *testing.T) {
	cases := []struct {
		c, ref Count
		v      float64
		want   float64
	}{
		{Half, Quarter, 250, 500},
		{Eighth, Quarter, 250, 125},
		{UnknownCount, Quarter, 250, 0},
		{Quarter, UnknownCount, 250, 0},
		{DottedQuarter, Quarter, 200, 300},
		{TripletEighth, Eighth, 300, 100},
		{DoubleTripletEighth, Eighth, 300, 200},
		{Whole, Sixteenth, 10, 160},
	}
	for _, tc := range cases {
		if got := ScaledDuration(tc.c, tc.ref, tc.v); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("ScaledDuration(%s, %s, %v) = %v, want %v", tc.c, tc.ref, tc.v, got, tc.want)
		}
	}
}

func TestScaledDurationAgreesWithUnits(t *testing.T) {
	for c := TripletHundredTwentyEighth; c < UnknownCount; c++ {
		for ref := TripletHundredTwentyEighth; ref < UnknownCount; ref++ {
			want := 1000 * float64(c.Units()) / float64(ref.Units())
			if got := ScaledDuration(c, ref, 1000); math.Abs(got-want) > 1e-6 {
				t.Fatalf("ScaledDuration(%s, %s) = %v, units give %v", c, ref, got, want)
			}
		}
	}
}

func TestMeterCount(t *testing.T) {
	for denom, want := range map[string]Count{"4": Quarter, "8": Eighth, "2": Half, "6": DottedQuarter} {
		got, err := MeterCount(denom)
		if err != nil || got != want {
			t.Fatalf("MeterCount(%s) = %v, %v", denom, got, err)
		}
	}
	if _, err := MeterCount("5"); err == nil {
		t.Fatalf("expected error for 5")
	}
}

func TestRoundMs(t *testing.T) {
	if RoundMs(2.5) != 3 || RoundMs(2.49) != 2 || RoundMs(0) != 0 {
		t.Fatalf("unexpected rounding")
	}
}
