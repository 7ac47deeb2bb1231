package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 120, cfg.Pulse.DurationMs)
	assert.Equal(t, 120*time.Millisecond, cfg.Pulse.Duration())
	assert.Equal(t, []string{"caps-lock"}, cfg.Pulse.SuppressedKeys)
	assert.Equal(t, 4.0, cfg.Layout.GapPx)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "kbmirror.toml", `
[pulse]
duration_ms = 200
suppressed_keys = ["caps-lock", "menu"]

[layout]
gap_px = 6.5

[devices]
paths = ["/dev/input/event3"]

[logging]
level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Pulse.DurationMs)
	assert.Equal(t, []string{"caps-lock", "menu"}, cfg.Pulse.SuppressedKeys)
	assert.Equal(t, 6.5, cfg.Layout.GapPx)
	assert.Equal(t, []string{"/dev/input/event3"}, cfg.Devices.Paths)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, "org.kbmirror.Indicator", cfg.Indicator.BusName)
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "kbmirror.yaml", `
pulse:
  duration_ms: 90
layout:
  gap_px: 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Pulse.DurationMs)
	assert.Equal(t, 2.0, cfg.Layout.GapPx)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeConfig(t, "kbmirror.ini", "pulse=120")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateFailures(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero pulse", func(c *Config) { c.Pulse.DurationMs = 0 }},
		{"negative gap", func(c *Config) { c.Layout.GapPx = -1 }},
		{"empty suppressed key", func(c *Config) { c.Pulse.SuppressedKeys = []string{""} }},
		{"stats without path", func(c *Config) { c.Stats.Enabled = true; c.Stats.Path = "" }},
		{"indicator without name", func(c *Config) { c.Indicator.Enabled = true; c.Indicator.BusName = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, "kbmirror.toml", `
[pulse]
duration_ms = -5
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoaderReload(t *testing.T) {
	path := writeConfig(t, "kbmirror.toml", `
[pulse]
duration_ms = 100
`)

	l := NewLoader(path)
	defer l.Close()

	cfg, err := l.Load()
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Pulse.DurationMs)

	reloaded := make(chan *Config, 1)
	l.OnChange(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})
	require.NoError(t, l.Watch())

	require.NoError(t, os.WriteFile(path, []byte(`
[pulse]
duration_ms = 250
`), 0o644))

	select {
	case c := <-reloaded:
		assert.Equal(t, 250, c.Pulse.DurationMs)
		assert.Equal(t, 250, l.Config().Pulse.DurationMs)
	case <-time.After(5 * time.Second):
		t.Fatal("config reload did not fire")
	}
}
