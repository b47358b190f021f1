package music

import "golang.org/x/text/cases"

// fold returns the case-insensitive lookup key for an alias. A Caser keeps
// state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

// aliasTable maps folded spellings to values of one vocabulary.
type aliasTable[T any] map[string]T

func (t aliasTable[T]) add(v T, aliases ...string) {
	for _, a := range aliases {
		if a == "" {
			continue
		}
		t[fold(a)] = v
	}
}

func (t aliasTable[T]) lookup(s string) (T, bool) {
	v, ok := t[fold(s)]
	return v, ok
}
