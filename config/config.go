// Package config loads optional editor settings from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds canvas geometry and editor tuning. Zero-valued fields in
// a loaded file keep their defaults.
type Config struct {
	Rows     int `yaml:"rows"`
	Cols     int `yaml:"cols"`
	CellSize int `yaml:"cell_size"`

	// Palette lists the toolbar's color swatches as #rrggbb strings.
	Palette []string `yaml:"palette"`

	Workers              int `yaml:"workers"`
	RemoteTimeoutSeconds int `yaml:"remote_timeout_seconds"`
}

// Default returns the stock configuration: a 400x400 pixel canvas of
// 20x20 cells and the classic eight-color palette.
func Default() Config {
	return Config{
		Rows:     20,
		Cols:     20,
		CellSize: 20,
		Palette: []string{
			"#000000", "#ffffff", "#ff0000", "#00ff00",
			"#0000ff", "#ffff00", "#ff00ff", "#00ffff",
		},
		Workers:              4,
		RemoteTimeoutSeconds: 10,
	}
}

// Load reads path and merges it over the defaults. A missing file is
// not an error; a malformed or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	var file Config
	if err := yaml.Unmarshal(b, &file); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.merge(file)
	if err := cfg.validate(); err != nil {
		return Default(), fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) merge(o Config) {
	if o.Rows > 0 {
		c.Rows = o.Rows
	}
	if o.Cols > 0 {
		c.Cols = o.Cols
	}
	if o.CellSize > 0 {
		c.CellSize = o.CellSize
	}
	if len(o.Palette) > 0 {
		c.Palette = o.Palette
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.RemoteTimeoutSeconds > 0 {
		c.RemoteTimeoutSeconds = o.RemoteTimeoutSeconds
	}
}

func (c Config) validate() error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return fmt.Errorf("invalid canvas dimensions %dx%d", c.Rows, c.Cols)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("invalid cell size %d", c.CellSize)
	}
	for _, p := range c.Palette {
		if len(p) != 7 || p[0] != '#' {
			return fmt.Errorf("invalid palette color %q", p)
		}
	}
	return nil
}
