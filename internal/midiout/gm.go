package midiout

import (
	"github.com/cbegin/scoresheet-go/internal/music"
	"github.com/cbegin/scoresheet-go/internal/sequencer"
)

// GeneralMIDI returns the 128 General MIDI level 1 programs as a resolver.
func GeneralMIDI() sequencer.PatchList {
	out := make(sequencer.PatchList, len(music.GeneralMIDINames))
	for i, name := range music.GeneralMIDINames {
		out[i] = sequencer.Patch{Name: name, Program: i}
	}
	return out
}
