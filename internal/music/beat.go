package music

import "fmt"

type BeatKind uint8

const (
	NoteBeat BeatKind = iota + 1
	RestBeat
	StrikeBeat
)

func (k BeatKind) String() string {
	switch k {
	case NoteBeat:
		return "note"
	case RestBeat:
		return "rest"
	case StrikeBeat:
		return "strike"
	default:
		return "unknown"
	}
}

// Beat is one fully resolved, playable unit of a track. Beats are values;
// nothing mutates one after it is built.
type Beat struct {
	Kind       BeatKind
	Count      Count
	Instrument Instrument
	Pitch      Pitch
	Sound      Sound
	Frequency  float64
	Key        int
	Volume     int
	Percussion bool
	// PlaySpeed is the length of a quarter note in milliseconds.
	PlaySpeed float64
}

// NewNote builds a pitched beat.
func NewNote(c Count, in Instrument, p Pitch, volume int, playSpeed float64) Beat {
	return Beat{
		Kind:       NoteBeat,
		Count:      c,
		Instrument: in,
		Pitch:      p,
		Frequency:  p.Frequency(),
		Key:        p.Key(),
		Volume:     volume,
		PlaySpeed:  playSpeed,
	}
}

// NewRest builds a silent beat. Rests carry no key and no volume.
func NewRest(c Count, in Instrument, playSpeed float64) Beat {
	return Beat{
		Kind:       RestBeat,
		Count:      c,
		Instrument: in,
		PlaySpeed:  playSpeed,
	}
}

// NewStrike builds a percussion beat. It reports middle C as its nominal
// frequency.
func NewStrike(c Count, in Instrument, s Sound, volume int, playSpeed float64) Beat {
	return Beat{
		Kind:       StrikeBeat,
		Count:      c,
		Instrument: in,
		Pitch:      C4,
		Sound:      s,
		Frequency:  C4.Frequency(),
		Key:        s.Key(),
		Volume:     volume,
		Percussion: true,
		PlaySpeed:  playSpeed,
	}
}

// DurationMs is the beat's length in whole milliseconds.
func (b Beat) DurationMs() int64 {
	return RoundMs(ScaledDuration(b.Count, Quarter, b.PlaySpeed))
}

func (b Beat) String() string {
	switch b.Kind {
	case NoteBeat:
		return fmt.Sprintf("%s.%s", b.Pitch, b.Count)
	case StrikeBeat:
		return fmt.Sprintf("%s.%s", b.Sound, b.Count)
	default:
		return fmt.Sprintf("r.%s", b.Count)
	}
}
