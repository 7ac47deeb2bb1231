// Package config handles configuration loading, validation, and hot reload
// for kbmirror.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete kbmirror configuration.
type Config struct {
	// Devices configuration for input mirroring.
	Devices DevicesConfig `toml:"devices" json:"devices" yaml:"devices"`

	// Pulse configuration for transient press visuals.
	Pulse PulseConfig `toml:"pulse" json:"pulse" yaml:"pulse"`

	// Layout configuration for the on-screen board.
	Layout LayoutConfig `toml:"layout" json:"layout" yaml:"layout"`

	// Stats configuration for press-count persistence.
	Stats StatsConfig `toml:"stats" json:"stats" yaml:"stats"`

	// Indicator configuration for the desktop bus publisher.
	Indicator IndicatorConfig `toml:"indicator" json:"indicator" yaml:"indicator"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging" json:"logging" yaml:"logging"`
}

// DevicesConfig selects the keyboards to mirror.
type DevicesConfig struct {
	// Paths lists evdev devices to open. Empty means autodetect every
	// key-capable device.
	Paths []string `toml:"paths" json:"paths" yaml:"paths"`
}

// PulseConfig controls the transient pulse shown for suppressed keys.
type PulseConfig struct {
	// DurationMs is the pulse length in milliseconds.
	DurationMs int `toml:"duration_ms" json:"duration_ms" yaml:"duration_ms"`

	// SuppressedKeys are logical keys whose raw hold state is never
	// rendered; only the pulse is.
	SuppressedKeys []string `toml:"suppressed_keys" json:"suppressed_keys" yaml:"suppressed_keys"`
}

// Duration returns the pulse duration.
func (p PulseConfig) Duration() time.Duration {
	return time.Duration(p.DurationMs) * time.Millisecond
}

// LayoutConfig controls the board geometry inputs.
type LayoutConfig struct {
	// CatalogPath points at a JSON catalog file. Empty selects the
	// built-in ANSI catalog.
	CatalogPath string `toml:"catalog_path" json:"catalog_path" yaml:"catalog_path"`

	// GapPx is the fixed inter-key gap in pixels.
	GapPx float64 `toml:"gap_px" json:"gap_px" yaml:"gap_px"`
}

// StatsConfig controls press-count persistence.
type StatsConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	Path    string `toml:"path" json:"path" yaml:"path"`
}

// IndicatorConfig controls the desktop bus publisher.
type IndicatorConfig struct {
	Enabled bool   `toml:"enabled" json:"enabled" yaml:"enabled"`
	BusName string `toml:"bus_name" json:"bus_name" yaml:"bus_name"`
}

// LoggingConfig mirrors the logging package's knobs in file form.
type LoggingConfig struct {
	Level    string `toml:"level" json:"level" yaml:"level"`
	Format   string `toml:"format" json:"format" yaml:"format"`
	Output   string `toml:"output" json:"output" yaml:"output"`
	FilePath string `toml:"file_path" json:"file_path" yaml:"file_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Pulse: PulseConfig{
			DurationMs:     120,
			SuppressedKeys: []string{"caps-lock"},
		},
		Layout: LayoutConfig{
			GapPx: 4,
		},
		Stats: StatsConfig{
			Enabled: true,
			Path:    defaultStatsPath(),
		},
		Indicator: IndicatorConfig{
			Enabled: false,
			BusName: "org.kbmirror.Indicator",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

// defaultStatsPath returns the XDG data location for the press-count store.
func defaultStatsPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, _ := os.UserHomeDir()
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "kbmirror", "presses.db")
}

// Validate checks the configuration for values the runtime cannot work
// with.
func (c *Config) Validate() error {
	var errs []error

	if c.Pulse.DurationMs <= 0 {
		errs = append(errs, fmt.Errorf("pulse.duration_ms must be positive, got %d", c.Pulse.DurationMs))
	}
	for i, k := range c.Pulse.SuppressedKeys {
		if k == "" {
			errs = append(errs, fmt.Errorf("pulse.suppressed_keys[%d] is empty", i))
		}
	}
	if c.Layout.GapPx < 0 {
		errs = append(errs, fmt.Errorf("layout.gap_px must not be negative, got %v", c.Layout.GapPx))
	}
	if c.Stats.Enabled && c.Stats.Path == "" {
		errs = append(errs, errors.New("stats.path required when stats.enabled"))
	}
	if c.Indicator.Enabled && c.Indicator.BusName == "" {
		errs = append(errs, errors.New("indicator.bus_name required when indicator.enabled"))
	}

	return errors.Join(errs...)
}
