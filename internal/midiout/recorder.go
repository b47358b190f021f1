package midiout

import (
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cbegin/scoresheet-go/internal/sequencer"
)

const (
	resolution = 960
	tempoBPM   = 120
)

// Event is one recorded message with its offset from the recording origin.
type Event struct {
	At      time.Duration
	Channel int
	Msg     midi.Message
}

// Recorder is a sequencer.Sink that captures timestamped channel messages
// and writes them out as a Standard MIDI File.
type Recorder struct {
	mu     sync.Mutex
	origin time.Time
	manual bool
	at     time.Duration
	events []Event
}

// NewRecorder returns a recorder whose clock starts now.
func NewRecorder() *Recorder {
	return &Recorder{origin: time.Now()}
}

// Seek switches the recorder to a manual clock set to at. Offline renderers
// call it before replaying each action.
func (r *Recorder) Seek(at time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.manual = true
	r.at = at
}

func (r *Recorder) record(ch int, msg midi.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at := r.at
	if !r.manual {
		at = time.Since(r.origin)
	}
	r.events = append(r.events, Event{At: at, Channel: ch, Msg: msg})
}

func (r *Recorder) NoteOn(channel, key, velocity int) {
	r.record(channel, midi.NoteOn(uint8(channel), uint8(key), uint8(velocity)))
}

func (r *Recorder) NoteOff(channel, key int) {
	r.record(channel, midi.NoteOff(uint8(channel), uint8(key)))
}

func (r *Recorder) ProgramChange(channel int, p sequencer.Patch) {
	if channel == sequencer.PercussionChannel {
		return
	}
	r.record(channel, midi.ControlChange(uint8(channel), 0, uint8(p.Bank)))
	r.record(channel, midi.ProgramChange(uint8(channel), uint8(p.Program)))
}

// Events returns the recorded events ordered by time.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	out := append([]Event(nil), r.events...)
	r.mu.Unlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out
}

func ticks(d time.Duration) uint32 {
	return uint32(math.Round(d.Seconds() * tempoBPM / 60 * resolution))
}

// WriteTo writes a format 1 file: a tempo track, then one track per used
// channel.
func (r *Recorder) WriteTo(w io.Writer) (int64, error) {
	events := r.Events()
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(tempoBPM))
	tempo.Close(0)
	if err := s.Add(tempo); err != nil {
		return 0, fmt.Errorf("smf: %w", err)
	}

	byChannel := map[int][]Event{}
	var channels []int
	for _, ev := range events {
		if _, ok := byChannel[ev.Channel]; !ok {
			channels = append(channels, ev.Channel)
		}
		byChannel[ev.Channel] = append(byChannel[ev.Channel], ev)
	}
	sort.Ints(channels)
	for _, ch := range channels {
		var tr smf.Track
		tr.Add(0, smf.MetaTrackSequenceName(fmt.Sprintf("channel %d", ch+1)))
		var last uint32
		for _, ev := range byChannel[ch] {
			at := ticks(ev.At)
			tr.Add(at-last, ev.Msg)
			last = at
		}
		tr.Close(0)
		if err := s.Add(tr); err != nil {
			return 0, fmt.Errorf("smf: %w", err)
		}
	}
	return s.WriteTo(w)
}
