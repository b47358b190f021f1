package score

import (
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/scoresheet-go/internal/music"
)

// foldState is the state carried left to right through one track. It is
// passed by value; every update yields a new state.
type foldState struct {
	meter      music.Meter
	instrument music.Instrument
	volume     int
	key        music.Pitch
	scale      music.Scale
}

func newFoldState(cfg ParserConfig) foldState {
	return foldState{
		meter:      cfg.DefaultMeter,
		instrument: music.NewInstrument(cfg.DefaultInstrument),
		volume:     cfg.DefaultVolume,
		key:        cfg.DefaultKey,
		scale:      cfg.DefaultScale,
	}
}

// apply folds a non-beat token into the state.
func (c foldState) apply(tok Token) foldState {
	switch tok.Kind {
	case TokenMeter:
		c.meter = tok.Meter
	case TokenVolume:
		c.volume = tok.Volume
	case TokenScale:
		c.key = tok.Pitch
		c.scale = tok.Scale
	case TokenInstrument:
		c.instrument = tok.Instrument
		if tok.Instrument.Volume != music.VolumeUnconfirmed {
			c.volume = tok.Instrument.Volume
		}
		if tok.Instrument.Home.Known() {
			c.key = tok.Instrument.Home
		}
	}
	return c
}

func (c foldState) beat(tok Token, defaultBeatMs float64) (music.Beat, error) {
	count := tok.Count
	if count == music.UnknownCount {
		count = c.meter.Ref
	}
	speed := c.meter.QuarterMs(defaultBeatMs)
	in := c.instrument
	in.Volume = c.volume

	switch tok.Kind {
	case TokenRest:
		return music.NewRest(count, in, speed), nil
	case TokenStrike:
		return music.NewStrike(count, in, tok.Sound, c.volume, speed), nil
	case TokenInterval:
		p := c.scale.Pitch(c.key, tok.Interval)
		if p == music.UnknownPitch {
			return music.Beat{}, marking(ReasonInterval, tok.Literal, tok.Pos)
		}
		return music.NewNote(count, in, p, c.volume, speed), nil
	default:
		return music.NewNote(count, in, tok.Pitch, c.volume, speed), nil
	}
}

// Resolve folds one track's tokens into beats. Each beat sees only the
// context set by tokens before it.
func Resolve(tokens []Token, cfg ParserConfig) (Track, error) {
	st := newFoldState(cfg)
	var out Track
	for _, tok := range tokens {
		if !tok.IsBeat() {
			st = st.apply(tok)
			continue
		}
		b, err := st.beat(tok, cfg.DefaultBeatMs)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ResolveAll resolves every track concurrently, keeping track order. When
// several tracks fail, the error earliest in the text is returned.
func ResolveAll(tracks [][]Token, cfg ParserConfig) (*Score, error) {
	out := make([]Track, len(tracks))
	errs := make([]error, len(tracks))
	var g errgroup.Group
	for i, toks := range tracks {
		g.Go(func() error {
			tr, err := Resolve(toks, cfg)
			errs[i] = err
			out[i] = tr
			return err
		})
	}
	if g.Wait() != nil {
		return nil, earliest(errs)
	}
	return &Score{Tracks: out}, nil
}

// earliest picks the failure with the lowest text position. Errors without
// a position rank after positioned ones, in track order.
func earliest(errs []error) error {
	var first error
	var at Position
	for _, err := range errs {
		if err == nil {
			continue
		}
		var me *MarkingError
		if !errors.As(err, &me) {
			if first == nil {
				first = err
			}
			continue
		}
		if first == nil || at == (Position{}) || me.Pos.Before(at) {
			first, at = err, me.Pos
		}
	}
	return first
}
