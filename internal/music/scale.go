package music

import (
	"fmt"
	"sort"
	"strings"
)

// Scale is an ordered list of interval steps that maps scale degrees to
// pitches above a key.
type Scale uint8

const (
	UnknownScale Scale = iota
	Major
	NaturalMinor
	MelodicMinor
	HarmonicMinor
	Chromatic
	PentatonicMajor
	PentatonicMinor
	Octatonic
	OctatonicMinor
)

const (
	h  = MinorSecond
	w  = MajorSecond
	a2 = MinorThird
)

var scales = [...]struct {
	name     string
	suffixes []string
	steps    []Interval
}{
	UnknownScale:    {"UNKS", nil, nil},
	Major:           {"MAJOR", []string{"m"}, []Interval{w, w, h, w, w, w, h}},
	NaturalMinor:    {"NATURAL_MINOR", []string{"mi", "min"}, []Interval{w, h, w, w, h, w, w}},
	MelodicMinor:    {"MELODIC_MINOR", []string{"mim"}, []Interval{w, h, w, w, w, w, h}},
	HarmonicMinor:   {"HARMONIC_MINOR", []string{"mih"}, []Interval{w, h, w, w, h, a2, h}},
	Chromatic:       {"CHROMATIC", []string{"chr"}, []Interval{h, h, h, h, h, h, h, h, h, h, h, h}},
	PentatonicMajor: {"PENTATONIC_MAJOR", []string{"map"}, []Interval{w, w, a2, w, a2}},
	PentatonicMinor: {"PENTATONIC_MINOR", []string{"mip"}, []Interval{a2, w, w, a2, w}},
	Octatonic:       {"OCTATONIC", []string{"o"}, []Interval{h, w, h, w, h, w, h, w}},
	OctatonicMinor:  {"OCTATONIC_MINOR", []string{"mio"}, []Interval{w, h, w, h, w, h, w, h}},
}

var (
	scaleSuffixes = func() aliasTable[Scale] {
		t := aliasTable[Scale]{}
		for s := Major; s <= OctatonicMinor; s++ {
			t.add(s, scales[s].suffixes...)
		}
		return t
	}()
	// longest first
	suffixLengths = func() []int {
		seen := map[int]bool{}
		var out []int
		for s := Major; s <= OctatonicMinor; s++ {
			for _, suf := range scales[s].suffixes {
				if !seen[len(suf)] {
					seen[len(suf)] = true
					out = append(out, len(suf))
				}
			}
		}
		sort.Sort(sort.Reverse(sort.IntSlice(out)))
		return out
	}()
)

// Steps returns a copy of the scale's interval steps.
func (s Scale) Steps() []Interval {
	if int(s) >= len(scales) {
		return nil
	}
	return append([]Interval(nil), scales[s].steps...)
}

func (s Scale) String() string {
	if int(s) >= len(scales) {
		return scales[UnknownScale].name
	}
	return scales[s].name
}

// offset returns the half steps from the key to 1-based degree d, walking
// the steps cyclically.
func (s Scale) offset(d int) int {
	steps := scales[s].steps
	if len(steps) == 0 || d < 1 {
		return 0
	}
	total := 0
	for _, st := range steps {
		total += st.Semitones()
	}
	pos := d - 1
	off := (pos / len(steps)) * total
	for _, st := range steps[:pos%len(steps)] {
		off += st.Semitones()
	}
	return off
}

// below returns the half steps from the key down n scale steps, walking the
// steps backwards cyclically.
func (s Scale) below(n int) int {
	steps := scales[s].steps
	if len(steps) == 0 || n < 1 {
		return 0
	}
	off := 0
	for i := 0; i < n; i++ {
		off += steps[len(steps)-1-i%len(steps)].Semitones()
	}
	return off
}

// Pitch maps iv onto the scale around key. The interval's degree selects the
// scale step and any accidental it carries against the major scale is kept,
// so in major every interval lands at its own semitone distance. Below
// intervals walk the scale downward from the key; I8 is always the octave.
func (s Scale) Pitch(key Pitch, iv Interval) Pitch {
	if !iv.Known() || s == UnknownScale || int(s) >= len(scales) {
		return UnknownPitch
	}
	if iv.OctaveShift() < 0 {
		if iv == OctaveBelow {
			return key.Transpose(-12)
		}
		n := int(iv-SecondBelow) + 1
		accidental := iv.Semitones() + Major.below(n)
		return key.Transpose(accidental - s.below(n))
	}
	octave := 12 * iv.OctaveShift()
	accidental := iv.Semitones() - octave - Major.offset(iv.Degree())
	return key.Transpose(octave + s.offset(iv.Degree()) + accidental)
}

// ParseScaleKey splits a literal such as "Cmi" into a key pitch and a scale.
// Suffixes are tried longest first; the remaining prefix must be a pitch.
func ParseScaleKey(lit string) (Pitch, Scale, error) {
	for _, n := range suffixLengths {
		if len(lit) <= n {
			continue
		}
		base, suffix := lit[:len(lit)-n], lit[len(lit)-n:]
		sc, ok := scaleSuffixes.lookup(suffix)
		if !ok {
			continue
		}
		if key, err := ParsePitch(base); err == nil {
			return key, sc, nil
		}
	}
	return UnknownPitch, UnknownScale, fmt.Errorf("unknown scale %q", strings.TrimSpace(lit))
}
