package config

import (
	_ "embed"
)

//go:embed defaults/quad.yaml
var defaultYAML []byte

// Default returns the built-in configuration: a 640x480 window at 60 fps.
func Default() Config {
	return Config{
		WindowWidth:  640,
		WindowHeight: 480,
		FrameRate:    60.0,
		QueuePolicy:  "lifo",
		QueueLimit:   0,
		Backend:      BackendTea,
		Sound:        false,
		StatsDB:      "~/.quad/stats.db",
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
