package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// bytesPerFrame is one interleaved stereo float32 frame.
const bytesPerFrame = 8

// SampleSource fills dst with interleaved stereo frames.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can signal when playback has ended.
// When Finished returns true, the stream returns io.EOF on the next Read.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

// StreamReader adapts a SampleSource to the little-endian float32 byte
// stream ebiten's audio player pulls from.
type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
	gain   atomic.Uint32
	closed atomic.Bool
}

func NewStreamReader(source SampleSource) *StreamReader {
	r := &StreamReader{source: source}
	r.SetGain(1)
	return r
}

// SetGain scales every sample. It is safe to call while audio is running.
func (r *StreamReader) SetGain(g float32) {
	if g < 0 {
		g = 0
	}
	r.gain.Store(math.Float32bits(g))
}

func (r *StreamReader) Gain() float32 { return math.Float32frombits(r.gain.Load()) }

func (r *StreamReader) Read(p []byte) (int, error) {
	if r.closed.Load() {
		return 0, io.EOF
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	gain := r.Gain()
	for i, s := range r.buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(s*gain))
	}
	n := frames * bytesPerFrame
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error {
	r.closed.Store(true)
	return nil
}

// Player streams a SampleSource to the system audio device.
type Player struct {
	player *ebitaudio.Player
	reader *StreamReader
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

// The ebiten audio context is process-wide and fixed to one sample rate.
func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

// NewPlayer opens an output stream. bufferSize of zero keeps ebiten's
// default.
func NewPlayer(sampleRate int, source SampleSource, bufferSize time.Duration) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, fmt.Errorf("audio player: %w", err)
	}
	if bufferSize > 0 {
		pl.SetBufferSize(bufferSize)
	}
	return &Player{player: pl, reader: reader}, nil
}

func (p *Player) Play()           { p.player.Play() }
func (p *Player) Pause()          { p.player.Pause() }
func (p *Player) IsPlaying() bool { return p.player.IsPlaying() }

func (p *Player) SetGain(g float32) { p.reader.SetGain(g) }

// Position returns what the listener is hearing now.
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	if err := p.player.Close(); err != nil {
		return err
	}
	return p.reader.Close()
}
