package music

import (
	"fmt"
	"strings"
)

const (
	// SelectionUnconfirmed marks an instrument with no 1-based bank index.
	SelectionUnconfirmed = -1
	// VolumeUnconfirmed marks an instrument that keeps the carried volume.
	VolumeUnconfirmed = -1
	// DurationUndefined marks a meter without a reference duration.
	DurationUndefined = -1
	// MaxDurationMs bounds a meter's reference duration to one minute.
	MaxDurationMs = 60000

	DefaultVolume     = 100
	MaxVolume         = 9999
	DefaultInstrument = "piano"
	DefaultBeats      = 4
)

// Instrument names a patch, optionally pinned to the n-th bank match.
type Instrument struct {
	Name      string
	Selection int
	Home      Pitch
	Volume    int
}

// NewInstrument returns an instrument with no selection, home pitch or
// volume.
func NewInstrument(name string) Instrument {
	return Instrument{
		Name:      name,
		Selection: SelectionUnconfirmed,
		Volume:    VolumeUnconfirmed,
	}
}

// SameName reports whether two instruments share a name, ignoring case.
func (in Instrument) SameName(other Instrument) bool {
	return fold(in.Name) == fold(other.Name)
}

func (in Instrument) String() string {
	var b strings.Builder
	b.WriteString(in.Name)
	if in.Selection != SelectionUnconfirmed {
		fmt.Fprintf(&b, " #%d", in.Selection)
	}
	if in.Home.Known() {
		fmt.Fprintf(&b, " @%s", in.Home)
	}
	if in.Volume != VolumeUnconfirmed {
		fmt.Fprintf(&b, " v%d", in.Volume)
	}
	return b.String()
}

// Meter is a time signature with an optional reference duration such as
// 3/4:600, three quarter beats per measure at 600 ms each.
type Meter struct {
	Beats      int
	Ref        Count
	DurationMs int
}

// DefaultMeter is 4/4 with no reference duration.
func DefaultMeter() Meter {
	return Meter{Beats: DefaultBeats, Ref: Quarter, DurationMs: DurationUndefined}
}

// QuarterMs returns the length of a quarter note under m, falling back to
// fallbackMs when the meter has no reference duration.
func (m Meter) QuarterMs(fallbackMs float64) float64 {
	if m.DurationMs == DurationUndefined || m.Ref == UnknownCount {
		return fallbackMs
	}
	return ScaledDuration(Quarter, m.Ref, float64(m.DurationMs))
}

func (m Meter) String() string {
	if m.DurationMs == DurationUndefined {
		return fmt.Sprintf("%d/%s", m.Beats, m.Ref)
	}
	return fmt.Sprintf("%d/%s:%d", m.Beats, m.Ref, m.DurationMs)
}
