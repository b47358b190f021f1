package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"

	"github.com/cbegin/scoresheet-go"
	"github.com/cbegin/scoresheet-go/internal/midiout"
	"github.com/cbegin/scoresheet-go/internal/score"
	"github.com/cbegin/scoresheet-go/internal/synth"
)

const defaultScore = `// two voices
4/4:400 piano C4 E4 G4 C5.h
4/4:400 TUM.h SNARE CRASH`

var shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level, AddSource: debug})
	slog.SetDefault(slog.New(h))
}

func main() {
	var (
		scorePath  = flag.String("file", "", "path to a score sheet")
		scoreText  = flag.String("score", "", "inline score text")
		configPath = flag.String("config", "", "YAML player config")
		sfPath     = flag.String("soundfont", "", "SoundFont (.sf2) to play through; overrides config")
		midiOut    = flag.String("midi-out", "", "also record the performance to this .mid file")
		render     = flag.String("render", "", "render offline to a .mid or .wav file instead of playing")
		dump       = flag.Bool("dump", false, "print the resolved beats and exit")
		debug      = flag.Bool("debug", false, "debug logging")
	)
	flag.Parse()
	initLogger(*debug)

	cfg := scoresheet.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = scoresheet.LoadConfig(*configPath); err != nil {
			log.Fatal(err)
		}
	}
	if *sfPath != "" {
		cfg.SoundFont = *sfPath
	}
	if *midiOut != "" {
		cfg.MIDIOut = *midiOut
	}

	text, err := resolveScoreInput(*scorePath, *scoreText)
	if err != nil {
		log.Fatal(err)
	}
	pc, err := cfg.ParserConfig()
	if err != nil {
		log.Fatal(err)
	}
	sc, err := score.NewParser(pc).Parse(text)
	if err != nil {
		log.Fatal(err)
	}
	slog.Info("score parsed", "tracks", len(sc.Tracks), "beats", sc.BeatCount())

	if *dump {
		dumpScore(sc)
		return
	}
	if *render != "" {
		if err := renderOffline(sc, cfg, *render); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := play(sc, cfg); err != nil {
		log.Fatal(err)
	}
}

func play(sc *score.Score, cfg scoresheet.Config) error {
	opts, err := cfg.PlayerOptions()
	if err != nil {
		return err
	}
	opts = append(opts, scoresheet.WithLogger(slog.Default()))
	if cfg.SoundFont != "" {
		sf, err := loadSoundFont(cfg.SoundFont, cfg.SampleRate)
		if err != nil {
			return err
		}
		opts = append(opts, scoresheet.WithSoundFont(sf))
	}
	var rec *midiout.Recorder
	if cfg.MIDIOut != "" || cfg.SoundFont == "" {
		if cfg.SoundFont == "" {
			slog.Warn("no soundfont configured; events are recorded but not heard")
		}
		rec = midiout.NewRecorder()
		opts = append(opts, scoresheet.WithSink(rec))
	}
	pl, err := scoresheet.NewPlayer(opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	events := pl.Watch()
	go func() {
		for ev := range events {
			switch ev.Kind {
			case scoresheet.EventTrackStarted:
				fmt.Printf("track %d started\n", ev.Track+1)
			case scoresheet.EventTrackCompleted:
				fmt.Printf("track %d completed\n", ev.Track+1)
			case scoresheet.EventPlaybackEnded:
				fmt.Println("playback completed")
			}
		}
	}()

	started := time.Now()
	sched, err := pl.Play(ctx, sc)
	if err != nil {
		return err
	}
	fmt.Printf("played %d of %d tracks in %s\n", sched.Completed(), len(sched.Rows),
		durafmt.Parse(time.Since(started)).LimitFirstN(2).Format(shortUnits))

	if cfg.MIDIOut != "" && rec != nil {
		return writeMIDI(cfg.MIDIOut, rec)
	}
	return nil
}

func loadSoundFont(path string, sampleRate int) (*synth.SoundFont, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	sf, err := synth.LoadFile(path, sampleRate)
	if err != nil {
		return nil, err
	}
	slog.Info("soundfont loaded", "path", path, "size", humanize.Bytes(uint64(st.Size())),
		"presets", len(sf.Patches()), "took", durafmt.Parse(time.Since(started)).LimitFirstN(2).Format(shortUnits))
	return sf, nil
}

func writeMIDI(path string, rec *midiout.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	n, err := rec.WriteTo(f)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", path, humanize.Bytes(uint64(n)))
	return f.Close()
}

func renderOffline(sc *score.Score, cfg scoresheet.Config, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var length time.Duration
	var size int64
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mid", ".midi":
		cw := &countingWriter{w: f}
		if length, err = scoresheet.RenderMIDI(sc, cw); err != nil {
			return err
		}
		size = cw.n
	case ".wav":
		if cfg.SoundFont == "" {
			return fmt.Errorf("rendering %s needs -soundfont", path)
		}
		sf, err := loadSoundFont(cfg.SoundFont, cfg.SampleRate)
		if err != nil {
			return err
		}
		samples, err := scoresheet.RenderSamples(sc, sf)
		if err != nil {
			return err
		}
		wav := scoresheet.EncodeWAVFloat32LE(samples, sf.SampleRate(), 2)
		if _, err := f.Write(wav); err != nil {
			return err
		}
		length = time.Duration(len(samples)/2) * time.Second / time.Duration(sf.SampleRate())
		size = int64(len(wav))
	default:
		return fmt.Errorf("invalid -render %q (expected .mid or .wav)", path)
	}
	fmt.Printf("rendered %s of audio to %s (%s)\n",
		durafmt.Parse(length).LimitFirstN(2).Format(shortUnits), path, humanize.Bytes(uint64(size)))
	return f.Close()
}

func dumpScore(sc *score.Score) {
	for i, tr := range sc.Tracks {
		fmt.Printf("track %d\n", i+1)
		for j, b := range tr {
			fmt.Printf("  %3d  %-40s %5d ms\n", j+1, b, b.DurationMs())
		}
	}
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func resolveScoreInput(path string, inline string) (string, error) {
	if strings.TrimSpace(inline) != "" {
		return inline, nil
	}
	if strings.TrimSpace(path) != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	return defaultScore, nil
}
