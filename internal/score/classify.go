package score

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/cbegin/scoresheet-go/internal/music"
)

// Classify turns one literal into a Token. The first matching shape wins:
// repeat, dotted beat, meter, scale, volume, instrument.
func Classify(lit string, pos Position) (Token, error) {
	tok := Token{Literal: lit, Pos: pos, Count: music.UnknownCount}
	switch {
	case lit == ":":
		tok.Kind = TokenRepeat
		return tok, nil
	case lit == "|":
		tok.Kind = TokenMeasure
		return tok, nil
	case strings.Contains(lit, "|"):
		return Token{}, marking(ReasonMeasure, lit, pos)
	}

	left, right, dotted := strings.Cut(lit, ".")
	if dotted && left == "" {
		return Token{}, marking(ReasonPitch, lit, pos)
	}
	if classifyBeat(&tok, left) {
		if right != "" {
			c, err := music.ParseCount(right)
			if err != nil {
				return Token{}, marking(ReasonCount, lit, pos)
			}
			tok.Count = c
		}
		return tok, nil
	}
	if dotted {
		return Token{}, marking(ReasonNote, lit, pos)
	}

	if strings.Contains(lit, "/") {
		return classifyMeter(tok)
	}
	if key, sc, err := music.ParseScaleKey(lit); err == nil {
		tok.Kind = TokenScale
		tok.Pitch = key
		tok.Scale = sc
		return tok, nil
	}
	if ok, err := classifyVolume(&tok); ok {
		return tok, err
	}
	if ok, err := classifyInstrument(&tok); ok {
		return tok, err
	}
	return Token{}, marking(ReasonNote, lit, pos)
}

func classifyBeat(tok *Token, left string) bool {
	if strings.EqualFold(left, "r") {
		tok.Kind = TokenRest
		return true
	}
	if p, err := music.ParsePitch(left); err == nil {
		tok.Kind = TokenNote
		tok.Pitch = p
		return true
	}
	if s, err := music.ParseSound(left); err == nil {
		tok.Kind = TokenStrike
		tok.Sound = s
		return true
	}
	if iv, err := music.ParseInterval(left); err == nil {
		tok.Kind = TokenInterval
		tok.Interval = iv
		return true
	}
	return false
}

// classifyMeter reads beats/denominator[:ms], as in 3/4:600.
func classifyMeter(tok Token) (Token, error) {
	beats, rest, _ := strings.Cut(tok.Literal, "/")
	denom, dur, hasDur := strings.Cut(rest, ":")
	n, err := strconv.Atoi(beats)
	if err != nil || n <= 0 || !allDigits(beats) {
		return Token{}, marking(ReasonMeterBeat, tok.Literal, tok.Pos)
	}
	ref, err := music.MeterCount(denom)
	if err != nil {
		return Token{}, marking(ReasonCount, tok.Literal, tok.Pos)
	}
	m := music.Meter{Beats: n, Ref: ref, DurationMs: music.DurationUndefined}
	if hasDur {
		ms, err := strconv.Atoi(dur)
		if err != nil || ms <= 0 || ms > music.MaxDurationMs || !allDigits(dur) {
			return Token{}, marking(ReasonDuration, tok.Literal, tok.Pos)
		}
		m.DurationMs = ms
	}
	tok.Kind = TokenMeter
	tok.Meter = m
	return tok, nil
}

func classifyVolume(tok *Token) (bool, error) {
	lit := tok.Literal
	if len(lit) < 2 || (lit[0] != 'v' && lit[0] != 'V') || !allDigits(lit[1:]) {
		return false, nil
	}
	if len(lit) > 5 {
		return true, marking(ReasonVolumeSetting, lit, tok.Pos)
	}
	v, _ := strconv.Atoi(lit[1:])
	tok.Kind = TokenVolume
	tok.Volume = v
	return true, nil
}

// classifyInstrument reads "name words [home] [selection] [volume]". Words
// are separated by spaces or underscores. A lone trailing number is the
// selection; two trailing numbers are selection then volume.
func classifyInstrument(tok *Token) (bool, error) {
	lit := tok.Literal
	if strings.ContainsAny(lit, ".:/") {
		return false, nil
	}
	words := strings.FieldsFunc(lit, func(r rune) bool { return r == '_' || unicode.IsSpace(r) })
	if len(words) == 0 {
		return false, nil
	}
	var nums []string
	for len(words) > 0 && len(nums) < 2 && allDigits(words[len(words)-1]) {
		nums = append([]string{words[len(words)-1]}, nums...)
		words = words[:len(words)-1]
	}
	if len(words) == 0 {
		return false, nil
	}
	for _, w := range words {
		if !unicode.IsLetter([]rune(w)[0]) {
			return false, nil
		}
	}
	if len(words) == 1 && len(nums) == 0 && !music.IsInstrumentWord(words[0]) {
		return false, nil
	}

	in := music.NewInstrument("")
	if len(words) > 1 {
		if p, err := music.ParsePitch(words[len(words)-1]); err == nil {
			in.Home = p
			words = words[:len(words)-1]
		}
	}
	in.Name = strings.Join(words, " ")
	if len(nums) > 0 {
		sel, err := strconv.Atoi(nums[0])
		if err != nil || sel < 1 {
			return true, marking(ReasonInstrument, lit, tok.Pos)
		}
		in.Selection = sel
	}
	if len(nums) > 1 {
		vol, err := strconv.Atoi(nums[1])
		if err != nil || vol > music.MaxVolume {
			return true, marking(ReasonVolumeSetting, lit, tok.Pos)
		}
		in.Volume = vol
	}
	tok.Kind = TokenInstrument
	tok.Instrument = in
	return true, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
