package synth

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	meltysynth "github.com/sinshu/go-meltysynth/meltysynth"

	"github.com/cbegin/scoresheet-go/internal/sequencer"
)

const (
	// block is the render size handed to meltysynth.
	block = 1024

	percussionBank = 128

	midiControl       = 0xB0
	midiProgram       = 0xC0
	ccBankSelect      = 0x00
	ccAllNotesOff     = 0x7B
	ccAllSoundOff     = 0x78
	defaultSampleRate = 44100
)

// synthesizer is the part of meltysynth.Synthesizer the sink drives.
type synthesizer interface {
	ProcessMidiMessage(channel int32, command int32, data1, data2 int32)
	NoteOn(channel, key, vel int32)
	NoteOff(channel, key int32)
	Render(left, right []float32)
}

var newSynthesizer = func(sf *meltysynth.SoundFont, settings *meltysynth.SynthesizerSettings) (synthesizer, error) {
	return meltysynth.NewSynthesizer(sf, settings)
}

// SoundFont plays note events through a SoundFont synthesizer and renders
// interleaved stereo float32 samples. It is a sequencer.Sink, a
// sequencer.InstrumentResolver over the font's melodic presets, and an
// audio sample source.
type SoundFont struct {
	mu         sync.Mutex
	syn        synthesizer
	sampleRate int
	patches    sequencer.PatchList
	left       []float32
	right      []float32
}

// LoadFile reads an .sf2 file and builds a synthesizer at sampleRate.
func LoadFile(path string, sampleRate int) (*SoundFont, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("soundfont: %w", err)
	}
	return Load(bytes.NewReader(data), sampleRate)
}

func Load(r io.Reader, sampleRate int) (*SoundFont, error) {
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	sf, err := meltysynth.NewSoundFont(r)
	if err != nil {
		return nil, fmt.Errorf("soundfont: %w", err)
	}
	settings := meltysynth.NewSynthesizerSettings(int32(sampleRate))
	settings.BlockSize = block
	syn, err := newSynthesizer(sf, settings)
	if err != nil {
		return nil, fmt.Errorf("synthesizer: %w", err)
	}
	return newSoundFont(syn, sampleRate, presetPatches(sf.Presets)), nil
}

func newSoundFont(syn synthesizer, sampleRate int, patches sequencer.PatchList) *SoundFont {
	return &SoundFont{syn: syn, sampleRate: sampleRate, patches: patches}
}

// presetPatches lists melodic presets ordered by bank then program.
func presetPatches(presets []*meltysynth.Preset) sequencer.PatchList {
	var out sequencer.PatchList
	for _, p := range presets {
		if p == nil || p.BankNumber >= percussionBank {
			continue
		}
		out = append(out, sequencer.Patch{Name: p.Name, Bank: int(p.BankNumber), Program: int(p.PatchNumber)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bank != out[j].Bank {
			return out[i].Bank < out[j].Bank
		}
		return out[i].Program < out[j].Program
	})
	return out
}

func (s *SoundFont) SampleRate() int { return s.sampleRate }

func (s *SoundFont) Patches() sequencer.PatchList { return s.patches }

func (s *SoundFont) Resolve(name string, selection int) (sequencer.Patch, error) {
	return s.patches.Resolve(name, selection)
}

func (s *SoundFont) Fallback() sequencer.Patch { return s.patches.Fallback() }

func (s *SoundFont) NoteOn(channel, key, velocity int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syn.NoteOn(int32(channel), int32(key), int32(velocity))
}

func (s *SoundFont) NoteOff(channel, key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syn.NoteOff(int32(channel), int32(key))
}

func (s *SoundFont) ProgramChange(channel int, p sequencer.Patch) {
	if channel == sequencer.PercussionChannel {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syn.ProcessMidiMessage(int32(channel), midiControl, ccBankSelect, int32(p.Bank))
	s.syn.ProcessMidiMessage(int32(channel), midiProgram, int32(p.Program), 0)
}

// Silence releases every sounding note on every channel.
func (s *SoundFont) Silence() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := int32(0); ch < sequencer.MaxChannels; ch++ {
		s.syn.ProcessMidiMessage(ch, midiControl, ccAllNotesOff, 0)
		s.syn.ProcessMidiMessage(ch, midiControl, ccAllSoundOff, 0)
	}
}

// Process renders len(dst)/2 interleaved stereo frames.
func (s *SoundFont) Process(dst []float32) {
	frames := len(dst) / 2
	s.mu.Lock()
	defer s.mu.Unlock()
	if cap(s.left) < frames {
		s.left = make([]float32, frames)
		s.right = make([]float32, frames)
	}
	left, right := s.left[:frames], s.right[:frames]
	s.syn.Render(left, right)
	for i := 0; i < frames; i++ {
		dst[2*i] = left[i]
		dst[2*i+1] = right[i]
	}
}

// RenderUntil appends frames to out until it holds the given number of
// stereo frames. Offline renderers call it between events.
func (s *SoundFont) RenderUntil(out []float32, frames int) []float32 {
	for len(out)/2 < frames {
		n := min(block, frames-len(out)/2)
		start := len(out)
		out = append(out, make([]float32, 2*n)...)
		s.Process(out[start:])
	}
	return out
}
