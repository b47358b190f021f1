package score

import (
	"errors"
	"fmt"
)

// Reason classifies why a literal could not be read.
type Reason int

const (
	ReasonNote Reason = iota + 1
	ReasonPitch
	ReasonCount
	ReasonInterval
	ReasonScale
	ReasonMeterBeat
	ReasonDuration
	ReasonInstrument
	ReasonSound
	ReasonVolumeSetting
	ReasonMeasure
)

var reasonNames = map[Reason]string{
	ReasonNote:          "NOTE",
	ReasonPitch:         "PITCH",
	ReasonCount:         "COUNT",
	ReasonInterval:      "INTERVAL",
	ReasonScale:         "SCALE",
	ReasonMeterBeat:     "METER_BEAT",
	ReasonDuration:      "DURATION",
	ReasonInstrument:    "INSTRUMENT",
	ReasonSound:         "SOUND",
	ReasonVolumeSetting: "VOLUME_SETTING",
	ReasonMeasure:       "MEASURE",
}

func (r Reason) String() string {
	if s, ok := reasonNames[r]; ok {
		return s
	}
	return "UNDEFINED"
}

var reasonText = map[Reason]string{
	ReasonNote:          "is not a valid note",
	ReasonPitch:         "does not use a valid pitch",
	ReasonCount:         "does not use a valid count",
	ReasonInterval:      "does not use a valid interval",
	ReasonScale:         "is not a valid scale/key marking",
	ReasonMeterBeat:     "does not use a valid meter beat-per-measure number",
	ReasonDuration:      "does not use a valid beat duration (whole milliseconds, 1 to 60000)",
	ReasonInstrument:    "does not use a valid instrument selection",
	ReasonSound:         "does not use a valid sound type",
	ReasonVolumeSetting: "does not use a valid volume setting",
	ReasonMeasure:       "is not a valid measure marker",
}

// MarkingError reports a literal that failed classification.
type MarkingError struct {
	Reason  Reason
	Literal string
	Pos     Position
}

func (e *MarkingError) Error() string {
	return fmt.Sprintf("line %d, stanza %d, character %d: %q %s (%s)",
		e.Pos.Line, e.Pos.Stanza, e.Pos.Char, e.Literal, reasonText[e.Reason], e.Reason)
}

func marking(r Reason, lit string, pos Position) *MarkingError {
	return &MarkingError{Reason: r, Literal: lit, Pos: pos}
}

// ErrTooManyLines is matched by every *StanzaError.
var ErrTooManyLines = errors.New("too many lines in stanza")

// StanzaError reports a stanza with more usable lines than the first one.
type StanzaError struct {
	Line   int
	Stanza int
	Tracks int
}

func (e *StanzaError) Error() string {
	return fmt.Sprintf("line %d: stanza %d has more lines than the %d tracks set by the first stanza",
		e.Line, e.Stanza, e.Tracks)
}

func (e *StanzaError) Unwrap() error { return ErrTooManyLines }
