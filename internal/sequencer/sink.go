package sequencer

import "errors"

const (
	// PercussionChannel is reserved for strikes, as on General MIDI devices.
	PercussionChannel = 9
	MaxChannels       = 16
	maxVelocity       = 127
)

var (
	ErrInstrumentNotFound  = errors.New("instrument not found")
	ErrInstrumentAmbiguous = errors.New("instrument selection ambiguous")
)

// Patch is a concrete program on an output device.
type Patch struct {
	Name    string
	Bank    int
	Program int
}

// Sink receives channel-addressed note events. Calls may arrive from
// several track goroutines at once.
type Sink interface {
	NoteOn(channel, key, velocity int)
	NoteOff(channel, key int)
	ProgramChange(channel int, p Patch)
}

// InstrumentResolver maps a patch name and optional 1-based selection to a
// Patch. It returns ErrInstrumentNotFound when nothing matches the name and
// ErrInstrumentAmbiguous when the selection does not pick one match.
type InstrumentResolver interface {
	Resolve(name string, selection int) (Patch, error)
	Fallback() Patch
}
