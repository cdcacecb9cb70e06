// Package config provides YAML-based configuration loading for the loop.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Backend names.
const (
	BackendTea   = "tea"
	BackendTcell = "tcell"
)

// Config contains everything the loop needs at startup. It is immutable once
// the scheduler has been built.
type Config struct {
	WindowWidth  int     `yaml:"window_width"`
	WindowHeight int     `yaml:"window_height"`
	FrameRate    float64 `yaml:"frame_rate"`
	QueuePolicy  string  `yaml:"queue_policy"` // "lifo" or "fifo"
	QueueLimit   int     `yaml:"queue_limit"`  // 0 = unbounded
	Backend      string  `yaml:"backend"`
	Sound        bool    `yaml:"sound"`
	StatsDB      string  `yaml:"stats_db"`
}

// Overrides are per-session values from the command line. Zero values leave
// the loaded configuration alone.
type Overrides struct {
	Width     int
	Height    int
	FrameRate float64
	Policy    string
	Backend   string
	StatsDB   string
}

// Apply returns cfg with the non-zero overrides applied.
func (o Overrides) Apply(cfg Config) Config {
	if o.Width > 0 {
		cfg.WindowWidth = o.Width
	}
	if o.Height > 0 {
		cfg.WindowHeight = o.Height
	}
	if o.FrameRate > 0 {
		cfg.FrameRate = o.FrameRate
	}
	if o.Policy != "" {
		cfg.QueuePolicy = o.Policy
	}
	if o.Backend != "" {
		cfg.Backend = o.Backend
	}
	if o.StatsDB != "" {
		cfg.StatsDB = o.StatsDB
	}
	return cfg
}

// Validate rejects configurations the loop cannot start with.
func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("%w: window must be positive, got %dx%d", ErrInvalid, c.WindowWidth, c.WindowHeight)
	}
	if !(c.FrameRate > 0) {
		return fmt.Errorf("%w: frame_rate must be positive, got %v", ErrInvalid, c.FrameRate)
	}
	switch c.QueuePolicy {
	case "", "lifo", "fifo":
	default:
		return fmt.Errorf("%w: unknown queue_policy %q", ErrInvalid, c.QueuePolicy)
	}
	if c.QueueLimit < 0 {
		return fmt.Errorf("%w: queue_limit must not be negative, got %d", ErrInvalid, c.QueueLimit)
	}
	switch c.Backend {
	case BackendTea, BackendTcell:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalid, c.Backend)
	}
	return nil
}
