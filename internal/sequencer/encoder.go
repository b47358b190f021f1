package sequencer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cbegin/scoresheet-go/internal/music"
)

var ErrChannelOverflow = errors.New("channel overflow")

// NoChannel marks a rest encoded before any melodic channel was opened.
const NoChannel = -1

// Pair binds one beat to its channel and the actions that sound and silence
// it.
type Pair struct {
	Beat       music.Beat
	Channel    int
	DurationMs int64
	Start      func()
	Stop       func()
}

// ChannelAllocator hands out melodic channels in order, skipping the
// percussion channel. One allocator is shared by all tracks of a score.
type ChannelAllocator struct {
	next int
}

func NewChannelAllocator() *ChannelAllocator { return &ChannelAllocator{} }

func (a *ChannelAllocator) Next() (int, error) {
	if a.next == PercussionChannel {
		a.next++
	}
	if a.next >= MaxChannels {
		return 0, ErrChannelOverflow
	}
	ch := a.next
	a.next++
	return ch, nil
}

type Encoder struct {
	sink     Sink
	resolver InstrumentResolver
	alloc    *ChannelAllocator
	log      *slog.Logger
}

func NewEncoder(sink Sink, resolver InstrumentResolver, alloc *ChannelAllocator, logger *slog.Logger) *Encoder {
	if logger == nil {
		logger = slog.Default()
	}
	if alloc == nil {
		alloc = NewChannelAllocator()
	}
	return &Encoder{sink: sink, resolver: resolver, alloc: alloc, log: logger}
}

// Encode turns one track's beats into event pairs. A melodic channel stays
// in use until a beat's instrument name differs from the previous beat's;
// the next melodic beat then opens a fresh channel. A rest takes the open
// channel, or NoChannel when none is open.
func (e *Encoder) Encode(beats []music.Beat) ([]Pair, error) {
	out := make([]Pair, 0, len(beats))
	channel := NoChannel
	for i, b := range beats {
		if i > 0 && !b.Instrument.SameName(beats[i-1].Instrument) {
			channel = NoChannel
		}
		ch := PercussionChannel
		switch {
		case b.Kind == music.RestBeat:
			// Rests keep their slot but never open a channel.
			ch = channel
		case !b.Percussion:
			if channel < 0 {
				var err error
				if channel, err = e.open(b.Instrument); err != nil {
					return nil, fmt.Errorf("beat %d (%s): %w", i+1, b, err)
				}
			}
			ch = channel
		}
		out = append(out, e.pair(b, ch))
	}
	return out, nil
}

func (e *Encoder) open(in music.Instrument) (int, error) {
	ch, err := e.alloc.Next()
	if err != nil {
		return 0, err
	}
	patch, err := e.resolver.Resolve(in.Name, in.Selection)
	switch {
	case errors.Is(err, ErrInstrumentNotFound), errors.Is(err, ErrInstrumentAmbiguous):
		fb := e.resolver.Fallback()
		e.log.Warn("instrument fallback", "instrument", in.String(), "err", err, "patch", fb.Name)
		patch = fb
	case err != nil:
		return 0, err
	}
	e.log.Debug("channel opened", "channel", ch, "instrument", in.String(), "patch", patch.Name, "program", patch.Program)
	e.sink.ProgramChange(ch, patch)
	return ch, nil
}

func (e *Encoder) pair(b music.Beat, ch int) Pair {
	p := Pair{Beat: b, Channel: ch, DurationMs: b.DurationMs(), Start: func() {}, Stop: func() {}}
	if b.Kind == music.RestBeat {
		return p
	}
	key, vel := b.Key, min(b.Volume, maxVelocity)
	sink := e.sink
	p.Start = func() { sink.NoteOn(ch, key, vel) }
	p.Stop = func() { sink.NoteOff(ch, key) }
	return p
}
