package music

import "fmt"

// Sound is a named percussion hit on the General MIDI drum map.
type Sound uint8

const (
	UnknownSound Sound = iota
	Tum
	Pm
	Pum
	Rim
	Ba
	Snare
	Pop
	Clap
	Clp
	Ti
	Bum
	Tst
	Ts
	Bom
	Crash
	Bim
	Vibe
)

var sounds = [...]struct {
	name string
	key  int
}{
	UnknownSound: {"UNKS", 0},
	Tum:          {"TUM", 35},
	Pm:           {"PM", 36},
	Pum:          {"PUM", 36},
	Rim:          {"RIM", 37},
	Ba:           {"BA", 38},
	Snare:        {"SNARE", 38},
	Pop:          {"POP", 38},
	Clap:         {"CLAP", 39},
	Clp:          {"CLP", 39},
	Ti:           {"TI", 42}, // closed hi-hat
	Bum:          {"BUM", 43},
	Tst:          {"TST", 44}, // pedal hi-hat
	Ts:           {"TS", 46},
	Bom:          {"BOM", 47},
	Crash:        {"CRASH", 49},
	Bim:          {"BIM", 50},
	Vibe:         {"VIBE", 58},
}

var soundAliases = func() aliasTable[Sound] {
	t := aliasTable[Sound]{}
	for s := Tum; s <= Vibe; s++ {
		t.add(s, sounds[s].name)
	}
	return t
}()

// Key returns the drum map note number.
func (s Sound) Key() int {
	if int(s) >= len(sounds) {
		return 0
	}
	return sounds[s].key
}

func (s Sound) String() string {
	if int(s) >= len(sounds) {
		return sounds[UnknownSound].name
	}
	return sounds[s].name
}

// ParseSound resolves a percussion name case-insensitively.
func ParseSound(s string) (Sound, error) {
	if v, ok := soundAliases.lookup(s); ok {
		return v, nil
	}
	return UnknownSound, fmt.Errorf("unknown sound %q", s)
}
