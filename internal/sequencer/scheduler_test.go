package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func pairsOf(durs ...int64) []Pair {
	out := make([]Pair, len(durs))
	for i, d := range durs {
		out[i] = Pair{DurationMs: d, Start: func() {}, Stop: func() {}}
	}
	return out
}

func TestLegatoGap(t *testing.T) {
	if LegatoGap() != 2*time.Millisecond {
		t.Fatalf("gap = %v", LegatoGap())
	}
}

func TestPlanOffsets(t *testing.T) {
	const S = 3 * time.Second
	tl, err := Plan(pairsOf(500, 250, 1000), S, time.Second)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	wantStarts := []time.Duration{S, S + 500*time.Millisecond, S + 750*time.Millisecond}
	for i, want := range wantStarts {
		if tl.Slots[i].Start != want {
			t.Fatalf("start %d = %v, want %v", i, tl.Slots[i].Start, want)
		}
	}
	gap := LegatoGap()
	for i := 0; i+1 < len(tl.Slots); i++ {
		if tl.Slots[i+1].Start-tl.Slots[i].Stop != gap {
			t.Fatalf("stop %d is %v before next start", i, tl.Slots[i+1].Start-tl.Slots[i].Stop)
		}
	}
	if tl.Final() != S+1750*time.Millisecond-gap {
		t.Fatalf("final = %v", tl.Final())
	}
	if tl.Epilogue != tl.Final()+time.Second {
		t.Fatalf("epilogue = %v", tl.Epilogue)
	}
}

func TestPlanClampsShortBeats(t *testing.T) {
	tl, err := Plan(pairsOf(1, 0), 0, 0)
	if err != nil {
		t.Fatalf("plan failed: %v", err)
	}
	for i, s := range tl.Slots {
		if s.Stop < s.Start {
			t.Fatalf("slot %d stops before it starts: %+v", i, s)
		}
	}
}

func TestPlanRejectsEmptyTrack(t *testing.T) {
	if _, err := Plan(nil, 0, 0); !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("err = %v", err)
	}
}

func TestDelayQueueFiresInOrder(t *testing.T) {
	q := newDelayQueue()
	var mu sync.Mutex
	var got []int
	add := func(v int) func() {
		return func() {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		}
	}
	q.schedule(6*time.Millisecond, add(3))
	q.schedule(2*time.Millisecond, add(1))
	q.schedule(4*time.Millisecond, add(2))
	q.schedule(2*time.Millisecond, add(11))
	q.start(time.Now())
	select {
	case <-q.fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("queue never finished")
	}
	q.stop()
	mu.Lock()
	defer mu.Unlock()
	want := []int{1, 11, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestDelayQueueStopCancelsPending(t *testing.T) {
	q := newDelayQueue()
	fired := make(chan struct{}, 1)
	q.schedule(time.Hour, func() { fired <- struct{}{} })
	q.start(time.Now())
	q.stop()
	select {
	case <-fired:
		t.Fatalf("cancelled action fired")
	default:
	}
}

func fastOptions() Options {
	return Options{
		StartupDelay: 5 * time.Millisecond,
		Epilogue:     30 * time.Millisecond,
		Settle:       5 * time.Millisecond,
		Workers:      2,
	}
}

func TestRunWaitsForLongestTrack(t *testing.T) {
	var mu sync.Mutex
	var events []Event
	opts := fastOptions()
	opts.OnEvent = func(ev Event) {
		mu.Lock()
		events = append(events, ev)
		mu.Unlock()
	}
	tracks := [][]Pair{pairsOf(10), nil, pairsOf(40, 40), pairsOf(5, 5, 5)}
	begin := time.Now()
	sched, err := New(opts).Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	elapsed := time.Since(begin)
	if sched.Longest != 2 {
		t.Fatalf("longest = %d, want 2", sched.Longest)
	}
	if earliest := opts.StartupDelay + 80*time.Millisecond - LegatoGap() + opts.Epilogue + opts.Settle; elapsed < earliest {
		t.Fatalf("returned after %v, before longest epilogue at %v", elapsed, earliest)
	}
	if sched.State(2) != TrackComplete || sched.State(1) != TrackPending {
		t.Fatalf("states = %s %s", sched.State(2), sched.State(1))
	}
	if sched.Rows[1] != nil || len(sched.Rows[3]) != 3 {
		t.Fatalf("rows = %v", sched.Rows)
	}

	mu.Lock()
	defer mu.Unlock()
	completed := map[int]bool{}
	for _, ev := range events {
		if ev.Kind == EventTrackCompleted {
			completed[ev.Track] = true
		}
	}
	if !completed[2] {
		t.Fatalf("longest track's epilogue had not fired: %v", events)
	}
	if last := events[len(events)-1]; last.Kind != EventPlaybackEnded {
		t.Fatalf("last event = %+v", last)
	}
}

func TestRunStartsEveryTrackAtTheOrigin(t *testing.T) {
	var mu sync.Mutex
	starts := map[int]time.Time{}
	tracks := make([][]Pair, 3)
	for i := range tracks {
		tracks[i] = pairsOf(5)
		tracks[i][0].Start = func() {
			mu.Lock()
			starts[i] = time.Now()
			mu.Unlock()
		}
	}
	sched, err := New(fastOptions()).Run(context.Background(), tracks)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	for i := range tracks {
		at, ok := starts[i]
		if !ok {
			t.Fatalf("track %d never started", i)
		}
		if at.Before(sched.Origin.Add(fastOptions().StartupDelay)) {
			t.Fatalf("track %d started before the startup delay", i)
		}
	}
}

func TestRunRejectsAllEmpty(t *testing.T) {
	_, err := New(fastOptions()).Run(context.Background(), [][]Pair{nil, {}})
	if !errors.Is(err, ErrEmptyTrack) {
		t.Fatalf("err = %v", err)
	}
}

func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	stopped := make(chan struct{}, 1)
	tracks := [][]Pair{pairsOf(10_000)}
	tracks[0][0].Stop = func() { stopped <- struct{}{} }
	begin := time.Now()
	_, err := New(fastOptions()).Run(ctx, tracks)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
	if time.Since(begin) > 5*time.Second {
		t.Fatalf("cancel took %v", time.Since(begin))
	}
	select {
	case <-stopped:
		t.Fatalf("cancelled track kept playing")
	default:
	}
}

func TestReplayOrdersAcrossTracks(t *testing.T) {
	var order []string
	mk := func(name string, durs ...int64) []Pair {
		ps := pairsOf(durs...)
		for i := range ps {
			ps[i].Start = func() { order = append(order, name+"+") }
			ps[i].Stop = func() { order = append(order, name+"-") }
		}
		return ps
	}
	var clock []time.Duration
	end, err := Replay([][]Pair{mk("a", 100, 100), mk("b", 150)}, 0, time.Second, func(at time.Duration) {
		clock = append(clock, at)
	})
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	want := "[a+ b+ a- a+ b- a-]"
	if got := fmt.Sprint(order); got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
	for i := 1; i < len(clock); i++ {
		if clock[i] < clock[i-1] {
			t.Fatalf("clock went backwards: %v", clock)
		}
	}
	if end != 200*time.Millisecond-LegatoGap()+time.Second {
		t.Fatalf("end = %v", end)
	}
}
