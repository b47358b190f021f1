package scoresheet

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cbegin/scoresheet-go/internal/music"
	intscore "github.com/cbegin/scoresheet-go/internal/score"
)

// Config is the on-disk player configuration.
type Config struct {
	SoundFont    string        `yaml:"soundfont,omitempty"`
	SampleRate   int           `yaml:"sample_rate"`
	BufferSize   time.Duration `yaml:"buffer_size,omitempty"`
	Gain         float64       `yaml:"gain"`
	StartupDelay time.Duration `yaml:"startup_delay"`
	Epilogue     time.Duration `yaml:"epilogue"`
	Settle       time.Duration `yaml:"settle"`
	Workers      int           `yaml:"workers,omitempty"`
	MIDIOut      string        `yaml:"midi_out,omitempty"`
	Defaults     ScoreDefaults `yaml:"defaults"`
}

// ScoreDefaults seed the resolver before the first directive of each
// track.
type ScoreDefaults struct {
	Instrument string `yaml:"instrument"`
	// Volume is nil when unset so an explicit 0 is kept.
	Volume *int    `yaml:"volume,omitempty"`
	BeatMs float64 `yaml:"beat_ms"`
	// Key is a scale directive such as "Cm" or "Ami".
	Key string `yaml:"key"`
}

func DefaultConfig() Config {
	return Config{
		SampleRate:   defaultSampleRate,
		Gain:         1,
		StartupDelay: 3 * time.Second,
		Epilogue:     time.Second,
		Settle:       time.Second,
		Defaults: ScoreDefaults{
			Instrument: music.DefaultInstrument,
			Volume:     intPtr(music.DefaultVolume),
			BeatMs:     500,
			Key:        "Cm",
		},
	}
}

func intPtr(v int) *int { return &v }

// LoadConfig reads a YAML file over DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, errors.New("sample_rate must be positive"))
	}
	if c.StartupDelay < 0 || c.Epilogue < 0 || c.Settle < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if v := c.Defaults.Volume; v != nil && (*v < 0 || *v > music.MaxVolume) {
		errs = append(errs, fmt.Errorf("defaults.volume %d out of range", *v))
	}
	if c.Defaults.BeatMs <= 0 {
		errs = append(errs, errors.New("defaults.beat_ms must be positive"))
	}
	if _, err := c.ParserConfig(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ParserConfig translates the score defaults.
func (c Config) ParserConfig() (intscore.ParserConfig, error) {
	pc := intscore.DefaultParserConfig()
	if c.Defaults.Instrument != "" {
		pc.DefaultInstrument = c.Defaults.Instrument
	}
	if v := c.Defaults.Volume; v != nil {
		pc.DefaultVolume = *v
	}
	if c.Defaults.BeatMs > 0 {
		pc.DefaultBeatMs = c.Defaults.BeatMs
	}
	if c.Defaults.Key != "" {
		key, sc, err := music.ParseScaleKey(c.Defaults.Key)
		if err != nil {
			return pc, fmt.Errorf("defaults.key: %w", err)
		}
		pc.DefaultKey, pc.DefaultScale = key, sc
	}
	return pc, nil
}

// PlayerOptions returns the options this config implies. The SoundFont is
// left to the caller since loading it is expensive.
func (c Config) PlayerOptions() ([]PlayerOption, error) {
	pc, err := c.ParserConfig()
	if err != nil {
		return nil, err
	}
	return []PlayerOption{
		WithSampleRate(c.SampleRate),
		WithBufferSize(c.BufferSize),
		WithGain(float32(c.Gain)),
		WithStartupDelay(c.StartupDelay),
		WithEpilogue(c.Epilogue),
		WithSettle(c.Settle),
		WithWorkers(c.Workers),
		WithParserConfig(pc),
	}, nil
}
