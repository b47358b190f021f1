package sequencer

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/cbegin/scoresheet-go/internal/music"
)

// PatchList resolves instruments by case-insensitive substring match over
// patch names, in list order.
type PatchList []Patch

func (l PatchList) matches(name string) []Patch {
	want := cases.Fold().String(strings.TrimSpace(name))
	var out []Patch
	for _, p := range l {
		if strings.Contains(cases.Fold().String(p.Name), want) {
			out = append(out, p)
		}
	}
	return out
}

// Resolve returns the selection-th patch whose name contains name, or the
// first one when selection is unconfirmed.
func (l PatchList) Resolve(name string, selection int) (Patch, error) {
	found := l.matches(name)
	if len(found) == 0 {
		return Patch{}, fmt.Errorf("%w: %q", ErrInstrumentNotFound, name)
	}
	if selection == music.SelectionUnconfirmed {
		return found[0], nil
	}
	if selection < 1 || selection > len(found) {
		return Patch{}, fmt.Errorf("%w: %q has %d matches, selection %d", ErrInstrumentAmbiguous, name, len(found), selection)
	}
	return found[selection-1], nil
}

// Fallback is the first piano in the list, else the first patch.
func (l PatchList) Fallback() Patch {
	if found := l.matches(music.DefaultInstrument); len(found) > 0 {
		return found[0]
	}
	if len(l) > 0 {
		return l[0]
	}
	return Patch{Name: music.DefaultInstrument}
}
