// Package config handles seqplay configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Faultbox/pointseq/pkg/math"
)

// Config errors.
var (
	ErrNoSequence   = errors.New("no sequence configured: set sequence.files or sequence.dir")
	ErrInvalidRange = errors.New("playback.end must not be before playback.start")
)

// Config holds all settings.
type Config struct {
	Sequence SequenceConfig `yaml:"sequence"`
	Importer ImporterConfig `yaml:"importer"`
	Playback PlaybackConfig `yaml:"playback"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SequenceConfig selects the frame files.
type SequenceConfig struct {
	Dir     string   `yaml:"dir"`     // Directory searched with Pattern
	Pattern string   `yaml:"pattern"` // Glob relative to Dir
	Files   []string `yaml:"files"`   // Explicit ordered paths; wins over Dir
}

// ImporterConfig holds the initial placement and color settings.
type ImporterConfig struct {
	Name         string     `yaml:"name"`
	Attribute    string     `yaml:"attribute"`
	UseRealValue bool       `yaml:"use_real_value"`
	MinValue     float32    `yaml:"min_value"`
	MaxValue     float32    `yaml:"max_value"`
	Location     [3]float32 `yaml:"location"`
	RotationDeg  [3]float32 `yaml:"rotation_deg"`
	Scale        [3]float32 `yaml:"scale"`
	Script       string     `yaml:"script"`  // Path to a Go preprocess script
	Radius       float32    `yaml:"radius"`  // Particle size
	Display      string     `yaml:"display"` // NONE, RENDER, DOT, CIRC, CROSS or AXIS
}

// PlaybackConfig holds the headless timeline settings.
type PlaybackConfig struct {
	Start      int           `yaml:"start"`
	End        int           `yaml:"end"`
	FrameDelay time.Duration `yaml:"frame_delay"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sequence: SequenceConfig{
			Dir:     ".",
			Pattern: "*.yaml",
		},
		Importer: ImporterConfig{
			MinValue: 0,
			MaxValue: 100,
			Scale:    [3]float32{1, 1, 1},
			Radius:   0.01,
			Display:  "DOT",
		},
		Playback: PlaybackConfig{
			Start: 0,
			End:   99,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Transform returns the importer placement as a matrix.
func (c ImporterConfig) Transform() math.Mat4 {
	return math.Compose(
		math.V3(c.Location),
		math.V3(c.RotationDeg).Radians(),
		math.V3(c.Scale),
	)
}

// Validate checks settings that the sync engine cannot recover from.
func (c *Config) Validate() error {
	if len(c.Sequence.Files) == 0 && c.Sequence.Dir == "" {
		return ErrNoSequence
	}
	if c.Playback.End < c.Playback.Start {
		return fmt.Errorf("%w: %d < %d", ErrInvalidRange, c.Playback.End, c.Playback.Start)
	}
	return nil
}
