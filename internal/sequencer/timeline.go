package sequencer

import (
	"errors"
	"time"

	"github.com/cbegin/scoresheet-go/internal/music"
)

var ErrEmptyTrack = errors.New("track has no events")

// Slot holds one pair's offsets from the shared origin.
type Slot struct {
	Start time.Duration
	Stop  time.Duration
}

// Timeline is one track's fully computed schedule.
type Timeline struct {
	Slots    []Slot
	Epilogue time.Duration
}

// Final returns the offset of the track's last event.
func (tl Timeline) Final() time.Duration {
	if len(tl.Slots) == 0 {
		return 0
	}
	return tl.Slots[len(tl.Slots)-1].Stop
}

// LegatoGap is how far a stop fires ahead of the following start: the length
// of a triplet 128th at one time unit per millisecond.
func LegatoGap() time.Duration {
	ms := music.ScaledDuration(music.TripletHundredTwentyEighth, music.Quarter, float64(music.Quarter.Units()))
	return time.Duration(music.RoundMs(ms)) * time.Millisecond
}

// Plan lays out a track. The first start is at startup; each later start
// follows the previous start by the previous pair's duration. Each stop
// fires one legato gap before the next start, and the epilogue follows the
// last stop.
func Plan(pairs []Pair, startup, epilogue time.Duration) (Timeline, error) {
	if len(pairs) == 0 {
		return Timeline{}, ErrEmptyTrack
	}
	gap := LegatoGap()
	slots := make([]Slot, len(pairs))
	at := startup
	for i, p := range pairs {
		slots[i].Start = at
		at += time.Duration(p.DurationMs) * time.Millisecond
		slots[i].Stop = max(at-gap, slots[i].Start)
	}
	return Timeline{Slots: slots, Epilogue: slots[len(slots)-1].Stop + epilogue}, nil
}
