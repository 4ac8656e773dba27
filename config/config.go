package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ViewConfig holds the visual geometry of the roll. Units are abstract
// pixels; the TUI maps them onto terminal cells.
type ViewConfig struct {
	ScrollSpeed float64 `yaml:"scrollSpeed,omitempty"` // pixels per music second
	ViewHeight  float64 `yaml:"viewHeight,omitempty"`  // spawn line to trigger line
	FPS         int     `yaml:"fps,omitempty"`
	PalettePath string  `yaml:"palettePath,omitempty"` // .gpl file, built-in palette if empty
}

// AudioConfig selects the MIDI output and latency compensation.
type AudioConfig struct {
	PortName  string `yaml:"portName,omitempty"`
	Channel   uint8  `yaml:"channel,omitempty"`
	LatencyMs int    `yaml:"latencyMs,omitempty"`
}

// ScoreConfig tunes cursor and page behavior.
type ScoreConfig struct {
	MeasuresPerPage int     `yaml:"measuresPerPage,omitempty"`
	SeekStepSec     float64 `yaml:"seekStepSec,omitempty"`
}

// Config is the main configuration structure.
type Config struct {
	View  ViewConfig  `yaml:"view,omitempty"`
	Audio AudioConfig `yaml:"audio,omitempty"`
	Score ScoreConfig `yaml:"score,omitempty"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		View: ViewConfig{
			ScrollSpeed: 100.0,
			ViewHeight:  800.0,
			FPS:         60,
		},
		Audio: AudioConfig{
			Channel: 0,
		},
		Score: ScoreConfig{
			MeasuresPerPage: 4,
			SeekStepSec:     5.0,
		},
	}
}

// ConfigDir returns the config directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-pianoroll"), nil
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Missing fields keep their default values.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillZeroes()
	return cfg, nil
}

// fillZeroes restores defaults for fields the file zeroed or omitted.
func (c *Config) fillZeroes() {
	def := DefaultConfig()
	if c.View.ScrollSpeed <= 0 {
		c.View.ScrollSpeed = def.View.ScrollSpeed
	}
	if c.View.ViewHeight <= 0 {
		c.View.ViewHeight = def.View.ViewHeight
	}
	if c.View.FPS <= 0 {
		c.View.FPS = def.View.FPS
	}
	if c.Score.MeasuresPerPage <= 0 {
		c.Score.MeasuresPerPage = def.Score.MeasuresPerPage
	}
	if c.Score.SeekStepSec <= 0 {
		c.Score.SeekStepSec = def.Score.SeekStepSec
	}
}

// Save writes the config to disk.
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
