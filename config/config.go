package config

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/viant/xview/flame"
	"github.com/viant/xview/flowgraph"
	"github.com/viant/xview/mapping"
	"gopkg.in/yaml.v3"
)

// Config holds session and view settings
type Config struct {
	Debounce   time.Duration      `yaml:"debounce"`
	MatchMode  string             `yaml:"matchMode"` // substring or prefix
	Coloring   flowgraph.Coloring `yaml:"coloring"`
	Flame      FlameConfig        `yaml:"flame"`
	HoverRate  float64            `yaml:"hoverRate"` // events per second, zero is unlimited
	HoverBurst int                `yaml:"hoverBurst"`
}

// FlameConfig holds flame chart geometry
type FlameConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Epsilon float64 `yaml:"epsilon"`
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	options := flame.DefaultOptions()
	return &Config{
		Debounce:   700 * time.Millisecond,
		MatchMode:  "substring",
		Coloring:   flowgraph.ByTime,
		HoverBurst: 1,
		Flame: FlameConfig{
			Width:   options.Width,
			Height:  options.Height,
			Epsilon: options.Epsilon,
		},
	}
}

// Load reads YAML config from URL on top of defaults
func Load(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	result := DefaultConfig()
	if err = yaml.Unmarshal(data, result); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = result.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return result, nil
}

// Validate checks settings
func (c *Config) Validate() error {
	if _, err := c.Mode(); err != nil {
		return err
	}
	if c.Coloring != flowgraph.ByTime && c.Coloring != flowgraph.ByType {
		return fmt.Errorf("unsupported coloring: %v", c.Coloring)
	}
	if c.Flame.Width <= 0 || c.Flame.Height <= 0 {
		return fmt.Errorf("invalid flame size: %vx%v", c.Flame.Width, c.Flame.Height)
	}
	if c.Debounce < 0 {
		return fmt.Errorf("invalid debounce: %v", c.Debounce)
	}
	return nil
}

// Mode returns mapping match mode
func (c *Config) Mode() (mapping.MatchMode, error) {
	switch c.MatchMode {
	case "", "substring":
		return mapping.MatchSubstring, nil
	case "prefix":
		return mapping.MatchPrefix, nil
	}
	return mapping.MatchSubstring, fmt.Errorf("unsupported match mode: %v", c.MatchMode)
}

// FlameOptions returns flame build options
func (c *Config) FlameOptions() *flame.Options {
	return &flame.Options{Width: c.Flame.Width, Height: c.Flame.Height, Epsilon: c.Flame.Epsilon}
}
