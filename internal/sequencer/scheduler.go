package sequencer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/remeh/sizedwaitgroup"
)

type TrackState int32

const (
	TrackPending TrackState = iota
	TrackRunning
	TrackComplete
)

func (s TrackState) String() string {
	switch s {
	case TrackPending:
		return "pending"
	case TrackRunning:
		return "running"
	case TrackComplete:
		return "complete"
	}
	return "unknown"
}

// EventKind identifies scheduler lifecycle events.
type EventKind int

const (
	EventTrackStarted EventKind = iota
	EventTrackCompleted
	EventPlaybackEnded
)

type Event struct {
	Kind  EventKind
	Track int
}

type Options struct {
	StartupDelay time.Duration
	Epilogue     time.Duration
	// Settle is waited after the longest track's epilogue before Run
	// returns.
	Settle  time.Duration
	Workers int
	// OnEvent runs on the firing track's goroutine; keep it brief.
	OnEvent func(Event)
	Logger  *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		StartupDelay: 3 * time.Second,
		Epilogue:     time.Second,
		Settle:       time.Second,
		Workers:      runtime.NumCPU(),
	}
}

// Schedule records what Run laid out. Each row is written once by its
// track's worker before the setup barrier releases.
type Schedule struct {
	Origin  time.Time
	Rows    [][]Slot
	Longest int
	states  []atomic.Int32
	done    atomic.Int64
}

func (s *Schedule) State(track int) TrackState {
	return TrackState(s.states[track].Load())
}

// Completed returns how many tracks have reached their epilogue.
func (s *Schedule) Completed() int {
	return int(s.done.Load())
}

// barrier releases once every worker has finished setup.
type barrier struct {
	pending atomic.Int64
	ready   chan struct{}
}

func newBarrier(n int) *barrier {
	b := &barrier{ready: make(chan struct{})}
	b.pending.Store(int64(n))
	if n == 0 {
		close(b.ready)
	}
	return b
}

func (b *barrier) arrive() {
	if b.pending.Add(-1) == 0 {
		close(b.ready)
	}
}

type Scheduler struct {
	opts Options
	log  *slog.Logger
}

func New(opts Options) *Scheduler {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{opts: opts, log: logger}
}

// Run plays every non-empty track concurrently from a shared origin. It
// returns after the longest track's epilogue and the settle delay, or when
// ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, tracks [][]Pair) (*Schedule, error) {
	var active []int
	for i, tr := range tracks {
		if len(tr) > 0 {
			active = append(active, i)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("no playable tracks: %w", ErrEmptyTrack)
	}

	sched := &Schedule{
		Origin:  time.Now(),
		Rows:    make([][]Slot, len(tracks)),
		Longest: -1,
		states:  make([]atomic.Int32, len(tracks)),
	}
	queues := make([]*delayQueue, len(tracks))
	finals := make([]time.Duration, len(tracks))
	errs := make([]error, len(tracks))
	setup := newBarrier(len(active))
	stopAll := func() {
		for _, q := range queues {
			if q != nil {
				q.stop()
			}
		}
	}

	wg := sizedwaitgroup.New(s.opts.Workers)
	for _, i := range active {
		queues[i] = newDelayQueue()
		wg.Add()
		go func() {
			defer wg.Done()
			defer setup.arrive()
			tl, err := s.register(i, tracks[i], queues[i], sched)
			if err != nil {
				errs[i] = err
				return
			}
			sched.Rows[i] = tl.Slots
			finals[i] = tl.Epilogue
			sched.states[i].Store(int32(TrackRunning))
			queues[i].start(sched.Origin)
		}()
	}

	select {
	case <-setup.ready:
	case <-ctx.Done():
		wg.Wait()
		stopAll()
		return sched, ctx.Err()
	}
	for _, i := range active {
		if errs[i] != nil {
			stopAll()
			return sched, fmt.Errorf("track %d: %w", i+1, errs[i])
		}
		if sched.Longest < 0 || finals[i] > finals[sched.Longest] {
			sched.Longest = i
		}
	}
	s.log.Info("playback scheduled", "tracks", len(active), "longest", sched.Longest+1,
		"ends", finals[sched.Longest])

	select {
	case <-queues[sched.Longest].fired:
	case <-ctx.Done():
		stopAll()
		return sched, ctx.Err()
	}
	select {
	case <-time.After(s.opts.Settle):
	case <-ctx.Done():
		stopAll()
		return sched, ctx.Err()
	}
	stopAll()
	s.emit(Event{Kind: EventPlaybackEnded, Track: sched.Longest})
	return sched, nil
}

// register plans one track and hands its actions to q.
func (s *Scheduler) register(track int, pairs []Pair, q *delayQueue, sched *Schedule) (Timeline, error) {
	tl, err := Plan(pairs, s.opts.StartupDelay, s.opts.Epilogue)
	if err != nil {
		return Timeline{}, err
	}
	for j, p := range pairs {
		slot := tl.Slots[j]
		start := p.Start
		if j == 0 {
			start = func() {
				s.emit(Event{Kind: EventTrackStarted, Track: track})
				p.Start()
			}
		}
		q.schedule(slot.Start, start)
		q.schedule(slot.Stop, p.Stop)
		s.log.Debug("slot", "track", track+1, "beat", j+1, "channel", p.Channel,
			"start", slot.Start, "stop", slot.Stop)
	}
	q.schedule(tl.Epilogue, func() {
		sched.states[track].Store(int32(TrackComplete))
		sched.done.Add(1)
		s.emit(Event{Kind: EventTrackCompleted, Track: track})
	})
	return tl, nil
}

func (s *Scheduler) emit(ev Event) {
	if s.opts.OnEvent != nil {
		s.opts.OnEvent(ev)
	}
}
