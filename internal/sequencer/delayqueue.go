package sequencer

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type delayed struct {
	at time.Duration
	fn func()
}

// delayQueue fires registered actions in offset order on a single goroutine.
// Actions with equal offsets fire in registration order.
type delayQueue struct {
	entries []delayed
	cancel  chan struct{}
	once    sync.Once
	started atomic.Bool
	fired   chan struct{} // closed after the last action ran
	exited  chan struct{}
}

func newDelayQueue() *delayQueue {
	return &delayQueue{
		cancel: make(chan struct{}),
		fired:  make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// schedule registers fn at offset at. It must not be called after start.
func (q *delayQueue) schedule(at time.Duration, fn func()) {
	q.entries = append(q.entries, delayed{at: at, fn: fn})
}

func (q *delayQueue) start(origin time.Time) {
	sort.SliceStable(q.entries, func(i, j int) bool { return q.entries[i].at < q.entries[j].at })
	q.started.Store(true)
	go q.run(origin)
}

func (q *delayQueue) run(origin time.Time) {
	defer close(q.exited)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()
	for _, e := range q.entries {
		if wait := time.Until(origin.Add(e.at)); wait > 0 {
			timer.Reset(wait)
			select {
			case <-timer.C:
			case <-q.cancel:
				return
			}
		} else {
			select {
			case <-q.cancel:
				return
			default:
			}
		}
		e.fn()
	}
	close(q.fired)
}

// stop cancels pending actions and waits for the queue goroutine to exit.
func (q *delayQueue) stop() {
	q.once.Do(func() { close(q.cancel) })
	if q.started.Load() {
		<-q.exited
	}
}
