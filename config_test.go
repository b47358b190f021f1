package scoresheet

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/scoresheet-go/internal/music"
)

func TestDefaultConfigRoundTrip(t *testing.T) {
	want := DefaultConfig()
	data, err := yaml.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Config
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip\nwant %+v\ngot  %+v", want, got)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scoresheet.yaml")
	body := "startup_delay: 250ms\nsettle: 0s\ndefaults:\n  instrument: violin\n  key: Ami\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StartupDelay != 250*time.Millisecond || cfg.Settle != 0 || cfg.Epilogue != time.Second {
		t.Fatalf("delays = %v %v %v", cfg.StartupDelay, cfg.Settle, cfg.Epilogue)
	}
	pc, err := cfg.ParserConfig()
	if err != nil {
		t.Fatalf("parser config: %v", err)
	}
	if pc.DefaultInstrument != "violin" || pc.DefaultKey != music.A4 || pc.DefaultScale != music.NaturalMinor {
		t.Fatalf("parser config = %+v", pc)
	}
	if pc.DefaultVolume != music.DefaultVolume {
		t.Fatalf("unset volume should keep default, got %d", pc.DefaultVolume)
	}
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	body := "sample_rate: 0\ndefaults:\n  volume: 20000\n  key: Q9\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadConfig(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"sample_rate", "defaults.volume", "defaults.key"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q does not mention %s", err, want)
		}
	}
}

func TestConfigPlayerOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartupDelay = 0
	opts, err := cfg.PlayerOptions()
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	pc := defaultPlayerConfig()
	for _, o := range opts {
		o(&pc)
	}
	if pc.sched.StartupDelay != 0 || pc.sched.Settle != time.Second || pc.sampleRate != cfg.SampleRate {
		t.Fatalf("player config = %+v", pc)
	}
}

func TestLoadConfigKeepsZeroVolume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet.yaml")
	if err := os.WriteFile(path, []byte("defaults:\n  volume: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	pc, err := cfg.ParserConfig()
	if err != nil {
		t.Fatalf("parser config: %v", err)
	}
	if pc.DefaultVolume != 0 {
		t.Fatalf("volume = %d, want explicit 0", pc.DefaultVolume)
	}

	cfg.Defaults.Volume = nil
	if pc, _ = cfg.ParserConfig(); pc.DefaultVolume != music.DefaultVolume {
		t.Fatalf("nil volume = %d, want default", pc.DefaultVolume)
	}
}
