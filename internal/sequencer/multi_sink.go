package sequencer

import (
	"sync"
)

// MultiSink forwards every event to each registered sink in registration
// order. It implements Sink.
type MultiSink struct {
	mu    sync.Mutex
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	m := &MultiSink{}
	for _, s := range sinks {
		m.AddSink(s)
	}
	return m
}

// AddSink registers another sink. Nil sinks are ignored.
func (m *MultiSink) AddSink(s Sink) {
	if s == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, s)
}

// Sinks returns a snapshot of the registered sinks.
func (m *MultiSink) Sinks() []Sink {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Sink(nil), m.sinks...)
}

func (m *MultiSink) NoteOn(channel, key, velocity int) {
	for _, s := range m.Sinks() {
		s.NoteOn(channel, key, velocity)
	}
}

func (m *MultiSink) NoteOff(channel, key int) {
	for _, s := range m.Sinks() {
		s.NoteOff(channel, key)
	}
}

func (m *MultiSink) ProgramChange(channel int, p Patch) {
	for _, s := range m.Sinks() {
		s.ProgramChange(channel, p)
	}
}
