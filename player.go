package scoresheet

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	intaudio "github.com/cbegin/scoresheet-go/internal/audio"
	intmidi "github.com/cbegin/scoresheet-go/internal/midiout"
	intscore "github.com/cbegin/scoresheet-go/internal/score"
	intseq "github.com/cbegin/scoresheet-go/internal/sequencer"
	intsynth "github.com/cbegin/scoresheet-go/internal/synth"
)

const defaultSampleRate = 44100

// PlaybackEvent carries scheduler lifecycle events from Watch().
type PlaybackEvent struct {
	Kind  int // EventTrackStarted, EventTrackCompleted, or EventPlaybackEnded
	Track int
}

const (
	EventTrackStarted int = iota
	EventTrackCompleted
	EventPlaybackEnded
)

var ErrPlaying = errors.New("playback already in progress")

type PlayerOption func(*playerConfig)

type playerConfig struct {
	sampleRate int
	bufferSize time.Duration
	gain       float32
	soundFont  *intsynth.SoundFont
	sinks      []intseq.Sink
	resolver   intseq.InstrumentResolver
	parser     intscore.ParserConfig
	sched      intseq.Options
	audioOut   bool
	logger     *slog.Logger
}

func defaultPlayerConfig() playerConfig {
	return playerConfig{
		sampleRate: defaultSampleRate,
		gain:       1,
		parser:     intscore.DefaultParserConfig(),
		sched:      intseq.DefaultOptions(),
		audioOut:   true,
	}
}

func WithSampleRate(rate int) PlayerOption {
	return func(cfg *playerConfig) { cfg.sampleRate = rate }
}

func WithBufferSize(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.bufferSize = d }
}

func WithGain(g float32) PlayerOption {
	return func(cfg *playerConfig) { cfg.gain = g }
}

// WithSoundFont renders notes through sf. Its presets also become the
// instrument resolver unless WithResolver overrides it.
func WithSoundFont(sf *intsynth.SoundFont) PlayerOption {
	return func(cfg *playerConfig) { cfg.soundFont = sf }
}

// WithSink adds a sink that receives every note event, e.g. a
// midiout.Recorder.
func WithSink(s intseq.Sink) PlayerOption {
	return func(cfg *playerConfig) { cfg.sinks = append(cfg.sinks, s) }
}

func WithResolver(r intseq.InstrumentResolver) PlayerOption {
	return func(cfg *playerConfig) { cfg.resolver = r }
}

func WithParserConfig(pc intscore.ParserConfig) PlayerOption {
	return func(cfg *playerConfig) { cfg.parser = pc }
}

func WithStartupDelay(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.sched.StartupDelay = d }
}

func WithEpilogue(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.sched.Epilogue = d }
}

func WithSettle(d time.Duration) PlayerOption {
	return func(cfg *playerConfig) { cfg.sched.Settle = d }
}

// WithWorkers bounds how many tracks are set up at once. Zero means one per
// CPU.
func WithWorkers(n int) PlayerOption {
	return func(cfg *playerConfig) { cfg.sched.Workers = n }
}

// WithAudioOutput controls whether a SoundFont is streamed to the audio
// device. Disable it to drive the SoundFont from a sample tap instead.
func WithAudioOutput(enabled bool) PlayerOption {
	return func(cfg *playerConfig) { cfg.audioOut = enabled }
}

func WithLogger(l *slog.Logger) PlayerOption {
	return func(cfg *playerConfig) { cfg.logger = l }
}

type Player struct {
	mu        sync.Mutex
	cfg       playerConfig
	parser    *intscore.Parser
	sink      *intseq.MultiSink
	resolver  intseq.InstrumentResolver
	log       *slog.Logger
	audio     *intaudio.Player
	cancel    context.CancelFunc
	done      chan struct{}
	eventCh   chan PlaybackEvent
	eventChMu sync.Mutex
}

// synthSource streams the SoundFont until the scheduler reports the end of
// playback.
type synthSource struct {
	sf       *intsynth.SoundFont
	finished atomic.Bool
}

func (s *synthSource) Process(dst []float32) { s.sf.Process(dst) }

func (s *synthSource) Finished() bool { return s.finished.Load() }

func NewPlayer(opts ...PlayerOption) (*Player, error) {
	cfg := defaultPlayerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, errors.New("sampleRate must be positive")
	}
	if cfg.soundFont == nil && len(cfg.sinks) == 0 {
		return nil, errors.New("player needs a soundfont or at least one sink")
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg.sched.Logger = logger

	sink := intseq.NewMultiSink()
	if cfg.soundFont != nil {
		sink.AddSink(cfg.soundFont)
	}
	for _, s := range cfg.sinks {
		sink.AddSink(s)
	}
	resolver := cfg.resolver
	switch {
	case resolver != nil:
	case cfg.soundFont != nil:
		resolver = cfg.soundFont
	default:
		resolver = intmidi.GeneralMIDI()
	}
	return &Player{
		cfg:      cfg,
		parser:   intscore.NewParser(cfg.parser),
		sink:     sink,
		resolver: resolver,
		log:      logger,
	}, nil
}

// Compile parses a score with the default parser settings.
func Compile(text string) (*intscore.Score, error) {
	return intscore.NewParser(intscore.DefaultParserConfig()).Parse(text)
}

// Compile parses a score with this player's parser settings.
func (p *Player) Compile(text string) (*intscore.Score, error) {
	return p.parser.Parse(text)
}

func (p *Player) PlayScore(ctx context.Context, text string) (*intseq.Schedule, error) {
	sc, err := p.parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return p.Play(ctx, sc)
}

// Encode turns every track of sc into event pairs against this player's
// sinks.
func (p *Player) Encode(sc *intscore.Score) ([][]intseq.Pair, error) {
	return encodeTracks(sc, p.sink, p.resolver, p.log)
}

// Play schedules sc and blocks until the longest track has finished and
// settled, Stop is called, or ctx is cancelled.
func (p *Player) Play(ctx context.Context, sc *intscore.Score) (*intseq.Schedule, error) {
	p.mu.Lock()
	if p.done != nil {
		p.mu.Unlock()
		return nil, ErrPlaying
	}
	tracks, err := p.Encode(sc)
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	var src *synthSource
	if p.cfg.soundFont != nil && p.cfg.audioOut {
		src = &synthSource{sf: p.cfg.soundFont}
		backend, err := intaudio.NewPlayer(p.cfg.sampleRate, src, p.cfg.bufferSize)
		if err != nil {
			p.mu.Unlock()
			p.finish()
			return nil, err
		}
		backend.SetGain(p.cfg.gain)
		p.audio = backend
		backend.Play()
	}
	p.mu.Unlock()
	defer p.finish()

	opts := p.cfg.sched
	opts.OnEvent = func(ev intseq.Event) {
		if ev.Kind == intseq.EventPlaybackEnded && src != nil {
			src.finished.Store(true)
		}
		p.sendEvent(PlaybackEvent{Kind: int(ev.Kind), Track: ev.Track})
	}
	sched, err := intseq.New(opts).Run(ctx, tracks)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			p.sendEvent(PlaybackEvent{Kind: EventPlaybackEnded, Track: -1})
		}
		return sched, err
	}
	return sched, nil
}

// finish releases the audio device and wakes Wait.
func (p *Player) finish() {
	p.mu.Lock()
	a, done, cancel := p.audio, p.done, p.cancel
	p.audio, p.done, p.cancel = nil, nil, nil
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if p.cfg.soundFont != nil {
		p.cfg.soundFont.Silence()
	}
	if a != nil {
		if err := a.Stop(); err != nil {
			p.log.Warn("audio stop", "err", err)
		}
	}
	if done != nil {
		close(done)
	}
}

func (p *Player) sendEvent(ev PlaybackEvent) {
	p.eventChMu.Lock()
	ch := p.eventCh
	p.eventChMu.Unlock()
	if ch != nil {
		select {
		case ch <- ev:
		default:
			// Channel full; drop event
		}
	}
}

// Stop cancels the current playback. Play returns context.Canceled.
func (p *Player) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Wait blocks until the current playback ends. It returns immediately when
// nothing is playing.
func (p *Player) Wait() {
	p.mu.Lock()
	done := p.done
	p.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Watch returns a channel that receives playback events. The channel is
// buffered (cap 32); events are dropped when it is full. Only the most
// recent Watch() channel receives events; call Watch before Play.
func (p *Player) Watch() <-chan PlaybackEvent {
	ch := make(chan PlaybackEvent, 32)
	p.eventChMu.Lock()
	p.eventCh = ch
	p.eventChMu.Unlock()
	return ch
}

// Resolver returns the instrument resolver in use.
func (p *Player) Resolver() intseq.InstrumentResolver { return p.resolver }
