package music

import (
	"fmt"
	"math"
)

// Count is a note value. Variants are ordered by family tier (128th up to
// longa) and, inside a tier, by modifier: triplet, double triplet, plain,
// dotted. UnknownCount sorts last.
type Count uint8

const (
	TripletHundredTwentyEighth Count = iota
	DoubleTripletHundredTwentyEighth
	HundredTwentyEighth
	DottedHundredTwentyEighth
	TripletSixtyFourth
	DoubleTripletSixtyFourth
	SixtyFourth
	DottedSixtyFourth
	TripletThirtySecond
	DoubleTripletThirtySecond
	ThirtySecond
	DottedThirtySecond
	TripletSixteenth
	DoubleTripletSixteenth
	Sixteenth
	DottedSixteenth
	TripletEighth
	DoubleTripletEighth
	Eighth
	DottedEighth
	TripletQuarter
	DoubleTripletQuarter
	Quarter
	DottedQuarter
	TripletHalf
	DoubleTripletHalf
	Half
	DottedHalf
	TripletWhole
	DoubleTripletWhole
	Whole
	DottedWhole
	TripletDoubleWhole
	DoubleTripletDoubleWhole
	DoubleWhole
	DottedDoubleWhole
	TripletLonga
	DoubleTripletLonga
	Longa
	DottedLonga
	UnknownCount
)

// Modifier adjusts the length of a plain note value inside its tier.
type Modifier uint8

const (
	Triplet Modifier = iota
	DoubleTriplet
	Plain
	Dotted
)

// ratio is the modifier's length relative to the plain value.
func (m Modifier) ratio() float64 {
	switch m {
	case Triplet:
		return 1.0 / 3.0
	case DoubleTriplet:
		return 2.0 / 3.0
	case Dotted:
		return 1.5
	default:
		return 1
	}
}

// units is the modifier's length in units of a triplet 128th at tier 0.
func (m Modifier) units() int {
	switch m {
	case Triplet:
		return 2
	case DoubleTriplet:
		return 4
	case Dotted:
		return 9
	default:
		return 6
	}
}

const countsPerTier = 4

var tierAliases = [...]string{"ht", "sf", "t", "s", "e", "q", "h", "w", "w2", "w4"}

var countAliases = func() aliasTable[Count] {
	t := aliasTable[Count]{}
	for c := TripletHundredTwentyEighth; c < UnknownCount; c++ {
		t.add(c, c.Alias())
	}
	return t
}()

// Tier returns the family tier, 0 for 128ths through 9 for longas.
func (c Count) Tier() int {
	return int(c) / countsPerTier
}

// Modifier returns the variant's modifier inside its tier.
func (c Count) Modifier() Modifier {
	return Modifier(int(c) % countsPerTier)
}

// Units returns the variant's integer length; a quarter is 192.
func (c Count) Units() int {
	if c >= UnknownCount {
		return 0
	}
	return c.Modifier().units() << c.Tier()
}

// Alias returns the short score spelling of the count, such as "q" or "dq".
func (c Count) Alias() string {
	if c >= UnknownCount {
		return ""
	}
	base := tierAliases[c.Tier()]
	switch c.Modifier() {
	case Triplet:
		return "t" + base
	case DoubleTriplet:
		return "t2" + base
	case Dotted:
		return "d" + base
	default:
		return base
	}
}

func (c Count) String() string {
	if c >= UnknownCount {
		return "UNKC"
	}
	return c.Alias()
}

// ParseCount resolves a count alias case-insensitively.
func ParseCount(s string) (Count, error) {
	if c, ok := countAliases.lookup(s); ok {
		return c, nil
	}
	return UnknownCount, fmt.Errorf("unknown count %q", s)
}

var meterCounts = map[string]Count{
	"1":   Whole,
	"2":   Half,
	"3":   DottedHalf,
	"4":   Quarter,
	"6":   DottedQuarter,
	"8":   Eighth,
	"12":  DottedEighth,
	"16":  Sixteenth,
	"24":  DottedSixteenth,
	"32":  ThirtySecond,
	"48":  DottedThirtySecond,
	"64":  SixtyFourth,
	"96":  DottedSixtyFourth,
	"128": HundredTwentyEighth,
}

// MeterCount resolves the numeric denominator of a meter such as the 8 in
// 6/8.
func MeterCount(s string) (Count, error) {
	if c, ok := meterCounts[s]; ok {
		return c, nil
	}
	return UnknownCount, fmt.Errorf("unknown meter count %q", s)
}

// ScaledDuration rescales value, a duration expressed against reference
// count ref, into the duration of c. Either count being UnknownCount yields
// zero.
func ScaledDuration(c, ref Count, value float64) float64 {
	if c >= UnknownCount || ref >= UnknownCount {
		return 0
	}
	ratio := c.Modifier().ratio() / ref.Modifier().ratio()
	return math.Ldexp(value*ratio, c.Tier()-ref.Tier())
}

// RoundMs converts a fractional millisecond duration to whole milliseconds,
// rounding half away from zero.
func RoundMs(ms float64) int64 {
	return int64(math.Round(ms))
}
