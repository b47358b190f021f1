package sequencer

import (
	"fmt"
	"sort"
	"time"
)

// Replay runs every track's actions in timeline order without waiting,
// calling advance with each action's offset first. Offline renderers use it
// to move their clock. It returns the latest epilogue offset.
func Replay(tracks [][]Pair, startup, epilogue time.Duration, advance func(at time.Duration)) (time.Duration, error) {
	type step struct {
		at time.Duration
		fn func()
	}
	var steps []step
	var end time.Duration
	for _, pairs := range tracks {
		if len(pairs) == 0 {
			continue
		}
		tl, err := Plan(pairs, startup, epilogue)
		if err != nil {
			return 0, err
		}
		for j, p := range pairs {
			steps = append(steps, step{tl.Slots[j].Start, p.Start}, step{tl.Slots[j].Stop, p.Stop})
		}
		end = max(end, tl.Epilogue)
	}
	if len(steps) == 0 {
		return 0, fmt.Errorf("no playable tracks: %w", ErrEmptyTrack)
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].at < steps[j].at })
	for _, st := range steps {
		if advance != nil {
			advance(st.at)
		}
		st.fn()
	}
	if advance != nil {
		advance(end)
	}
	return end, nil
}
