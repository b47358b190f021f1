package music

import "fmt"

// Interval is a signed distance from a key pitch, read as a scale degree
// plus an accidental relative to the major scale.
type Interval uint8

const (
	UnknownInterval Interval = iota
	Unison
	MinorSecond
	MajorSecond
	MinorThird
	MajorThird
	PerfectFourth
	AugmentedFourth
	DiminishedFifth
	PerfectFifth
	AugmentedFifth
	MinorSixth
	MajorSixth
	MinorSeventh
	MajorSeventh
	Octave
	MinorNinth
	MajorNinth
	MinorTenth
	MajorTenth
	PerfectEleventh
	AugmentedEleventh
	PerfectTwelfth
	MinorThirteenth
	MajorThirteenth
	MinorFourteenth
	MajorFourteenth
	DoubleOctave
	// Below intervals land one octave under the key.
	SecondBelow
	ThirdBelow
	FourthBelow
	FifthBelow
	SixthBelow
	SeventhBelow
	OctaveBelow
)

type intervalInfo struct {
	name      string
	semitones int
	degree    int
	octave    int
	aliases   []string
}

// Accidental spellings exist only where the degree has a chromatic
// neighbour, so "3s" and "4f" are not intervals.
var intervals = [...]intervalInfo{
	UnknownInterval:   {"UNKI", 0, 0, 0, nil},
	Unison:            {"P1", 0, 1, 0, []string{"1"}},
	MinorSecond:       {"MI2", 1, 2, 0, []string{"2f", "1s"}},
	MajorSecond:       {"M2", 2, 2, 0, []string{"2"}},
	MinorThird:        {"MI3", 3, 3, 0, []string{"3f", "2s"}},
	MajorThird:        {"M3", 4, 3, 0, []string{"3"}},
	PerfectFourth:     {"P4", 5, 4, 0, []string{"4"}},
	AugmentedFourth:   {"AUG4", 6, 4, 0, []string{"4s"}},
	DiminishedFifth:   {"DIM5", 6, 5, 0, []string{"5f"}},
	PerfectFifth:      {"P5", 7, 5, 0, []string{"5"}},
	AugmentedFifth:    {"AUG5", 8, 5, 0, []string{"5s"}},
	MinorSixth:        {"MI6", 8, 6, 0, []string{"6f"}},
	MajorSixth:        {"M6", 9, 6, 0, []string{"6"}},
	MinorSeventh:      {"MI7", 10, 7, 0, []string{"7f", "6s"}},
	MajorSeventh:      {"M7", 11, 7, 0, []string{"7"}},
	Octave:            {"P8", 12, 8, 0, []string{"8"}},
	MinorNinth:        {"MI9", 13, 9, 0, []string{"9f", "8s"}},
	MajorNinth:        {"M9", 14, 9, 0, []string{"9"}},
	MinorTenth:        {"MI10", 15, 10, 0, []string{"10f", "9s"}},
	MajorTenth:        {"M10", 16, 10, 0, []string{"10"}},
	PerfectEleventh:   {"P11", 17, 11, 0, []string{"11"}},
	AugmentedEleventh: {"AUG11", 18, 11, 0, []string{"11s", "12f"}},
	PerfectTwelfth:    {"P12", 19, 12, 0, []string{"12"}},
	MinorThirteenth:   {"MI13", 20, 13, 0, []string{"13f", "12s"}},
	MajorThirteenth:   {"M13", 21, 13, 0, []string{"13"}},
	MinorFourteenth:   {"MI14", 22, 14, 0, []string{"14f", "13s"}},
	MajorFourteenth:   {"M14", 23, 14, 0, []string{"14"}},
	DoubleOctave:      {"P15", 24, 15, 0, []string{"15"}},
	SecondBelow:       {"I2", -1, 7, -1, nil},
	ThirdBelow:        {"I3", -3, 6, -1, nil},
	FourthBelow:       {"I4", -5, 5, -1, nil},
	FifthBelow:        {"I5", -7, 4, -1, nil},
	SixthBelow:        {"I6", -8, 3, -1, nil},
	SeventhBelow:      {"I7", -10, 2, -1, nil},
	OctaveBelow:       {"I8", -12, 1, -1, nil},
}

var intervalAliases = func() aliasTable[Interval] {
	t := aliasTable[Interval]{}
	for iv := Unison; iv <= OctaveBelow; iv++ {
		t.add(iv, intervals[iv].name)
		t.add(iv, intervals[iv].aliases...)
	}
	return t
}()

func (iv Interval) info() intervalInfo {
	if int(iv) >= len(intervals) {
		return intervals[UnknownInterval]
	}
	return intervals[iv]
}

// Semitones returns the signed half-step distance from the key.
func (iv Interval) Semitones() int { return iv.info().semitones }

// Degree returns the 1-based scale degree the interval is spelled on.
func (iv Interval) Degree() int { return iv.info().degree }

// OctaveShift is -1 for below intervals and 0 otherwise.
func (iv Interval) OctaveShift() int { return iv.info().octave }

func (iv Interval) Known() bool { return iv > UnknownInterval && iv <= OctaveBelow }

func (iv Interval) String() string { return iv.info().name }

// ParseInterval resolves an interval name, degree number or accidental
// spelling case-insensitively.
func ParseInterval(s string) (Interval, error) {
	if iv, ok := intervalAliases.lookup(s); ok {
		return iv, nil
	}
	return UnknownInterval, fmt.Errorf("unknown interval %q", s)
}
