package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Config for the bridge run.
type Config struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	VSync      bool       `yaml:"vsync"`
	Samples    int        `yaml:"samples"`
	ClearColor [4]float32 `yaml:"clear_color"` // RGBA
	// ScrollFactor converts scroll wheel lines to logical points.
	ScrollFactor float32 `yaml:"scroll_factor"`
	LogLevel     string  `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Title:        "meshbridge",
		Width:        1280,
		Height:       720,
		VSync:        true,
		Samples:      4,
		ClearColor:   [4]float32{0.08, 0.10, 0.12, 1},
		ScrollFactor: 50,
		LogLevel:     "info",
	}
}

// LoadConfig reads a YAML config over the defaults. A missing file is not
// an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			Logger().Debug("no config file, using defaults", "path", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Width, c.Height)
	}
	if c.Samples < 0 {
		return fmt.Errorf("samples %d must not be negative", c.Samples)
	}
	if c.ScrollFactor <= 0 {
		return fmt.Errorf("scroll_factor %v must be positive", c.ScrollFactor)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
