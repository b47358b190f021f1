package music

import (
	"fmt"
	"math"
)

// Pitch is a key of the 88-key range A0..C8. The zero value is UnknownPitch.
type Pitch uint8

const UnknownPitch Pitch = 0

const (
	A0 Pitch = iota + 1
	As0
	B0
	C1
	Cs1
	D1
	Ds1
	E1
	F1
	Fs1
	G1
	Gs1
	A1
	As1
	B1
	C2
	Cs2
	D2
	Ds2
	E2
	F2
	Fs2
	G2
	Gs2
	A2
	As2
	B2
	C3
	Cs3
	D3
	Ds3
	E3
	F3
	Fs3
	G3
	Gs3
	A3
	As3
	B3
	C4
	Cs4
	D4
	Ds4
	E4
	F4
	Fs4
	G4
	Gs4
	A4
	As4
	B4
	C5
	Cs5
	D5
	Ds5
	E5
	F5
	Fs5
	G5
	Gs5
	A5
	As5
	B5
	C6
	Cs6
	D6
	Ds6
	E6
	F6
	Fs6
	G6
	Gs6
	A6
	As6
	B6
	C7
	Cs7
	D7
	Ds7
	E7
	F7
	Fs7
	G7
	Gs7
	A7
	As7
	B7
	C8
)

const lowestKey = 21

var (
	sharpNames = [...]string{"C", "Cs", "D", "Ds", "E", "F", "Fs", "G", "Gs", "A", "As", "B"}
	flatNames  = [...]string{"C", "Df", "D", "Ef", "E", "F", "Gf", "G", "Af", "A", "Bf", "B"}
)

var pitchAliases = func() aliasTable[Pitch] {
	t := aliasTable[Pitch]{}
	for p := A0; p <= C8; p++ {
		t.add(p, p.aliases()...)
	}
	return t
}()

// Key returns the MIDI note number, 21 for A0 through 108 for C8.
func (p Pitch) Key() int {
	if !p.Known() {
		return 0
	}
	return int(p) - 1 + lowestKey
}

// Frequency returns the equal-tempered frequency in Hz with A4 at 440.
func (p Pitch) Frequency() float64 {
	if !p.Known() {
		return 0
	}
	return 440 * math.Pow(2, float64(p.Key()-69)/12)
}

// Octave returns the scientific octave number.
func (p Pitch) Octave() int {
	return p.Key()/12 - 1
}

func (p Pitch) Known() bool {
	return p >= A0 && p <= C8
}

// Transpose moves the pitch by halfSteps. Results outside A0..C8 are
// UnknownPitch.
func (p Pitch) Transpose(halfSteps int) Pitch {
	if !p.Known() {
		return UnknownPitch
	}
	n := int(p) + halfSteps
	if n < int(A0) || n > int(C8) {
		return UnknownPitch
	}
	return Pitch(n)
}

func (p Pitch) String() string {
	if !p.Known() {
		return "UNK"
	}
	return fmt.Sprintf("%s%d", sharpNames[p.Key()%12], p.Octave())
}

// aliases lists every accepted spelling: sharp and flat names with their
// octave, plus octave-less nicknames for octaves 3 ("l"), 4 and 5 ("h").
func (p Pitch) aliases() []string {
	oct := p.Octave()
	sharp, flat := sharpNames[p.Key()%12], flatNames[p.Key()%12]
	out := []string{fmt.Sprintf("%s%d", sharp, oct)}
	if flat != sharp {
		out = append(out, fmt.Sprintf("%s%d", flat, oct))
	}
	var suffix string
	switch oct {
	case 3:
		suffix = "l"
	case 4:
	case 5:
		suffix = "h"
	default:
		return out
	}
	out = append(out, sharp+suffix)
	if flat != sharp {
		out = append(out, flat+suffix)
	}
	return out
}

// ParsePitch resolves a pitch spelling case-insensitively.
func ParsePitch(s string) (Pitch, error) {
	if p, ok := pitchAliases.lookup(s); ok {
		return p, nil
	}
	return UnknownPitch, fmt.Errorf("unknown pitch %q", s)
}
