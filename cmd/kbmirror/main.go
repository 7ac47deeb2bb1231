// kbmirror - on-screen keyboard that mirrors the physical keyboard.
//
// The window paints the configured key catalog and lights each cap while
// its triggers are physically held. Caps lock is special-cased: its raw
// hold is never shown, only a short pulse per press, and a separate
// indicator dot tracks true lock state (keyboard LED when readable, toggle
// heuristic otherwise).
package main

import (
	"flag"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"kbmirror/cmd/kbmirror/internal/theme"
	"kbmirror/cmd/kbmirror/internal/ui"
	"kbmirror/internal/config"
	"kbmirror/internal/indicator"
	"kbmirror/internal/keys"
	"kbmirror/internal/keyspec"
	"kbmirror/internal/logging"
	"kbmirror/internal/source"
	"kbmirror/internal/stats"
	"kbmirror/internal/tracker"
)

func main() {
	configPath := flag.String("config", "", "config file (.toml, .yaml)")
	catalogPath := flag.String("catalog", "", "JSON key catalog (overrides config)")
	flag.Parse()

	cfg := config.Default()
	var loader *config.Loader
	if *configPath != "" {
		loader = config.NewLoader(*configPath)
		loaded, err := loader.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "kbmirror: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kbmirror: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	defer logger.Close()

	catalog := loadCatalog(cfg, *catalogPath)

	src, lock, err := openInputs(cfg)
	if err != nil {
		// The widget still runs without devices so the board can be
		// previewed; it just stays idle.
		logging.Warn("keyboard mirroring disabled", "error", err)
		src = source.NewSimulated(1)
	}
	defer src.Close()
	if lock != nil {
		defer lock.Close()
	}

	pub := openPublisher(cfg)
	defer pub.Close()

	store, fingerprint := openStats(cfg, catalog)
	if store != nil {
		defer store.Close()
	}

	suppressed := make([]keys.LogicalKey, 0, len(cfg.Pulse.SuppressedKeys))
	for _, k := range cfg.Pulse.SuppressedKeys {
		suppressed = append(suppressed, keys.LogicalKey(k))
	}

	w := new(app.Window)
	w.Option(app.Title("kbmirror"))
	w.Option(app.Size(unit.Dp(980), unit.Dp(400)))

	tr := tracker.New(tracker.Config{
		PulseDuration: cfg.Pulse.Duration(),
		Suppressed:    suppressed,
		LockSource:    lock,
		Notify:        w.Invalidate,
	})
	defer tr.Close()

	// Seed lock state before the first key event so the indicator is
	// right from the first frame.
	if lock != nil {
		tr.ApplyLockReading(lock.Read())
	}

	board := ui.NewKeyboard(theme.New(material.NewTheme()), catalog, tr, cfg.Layout.GapPx)

	if loader != nil {
		loader.OnChange(func(c *config.Config) {
			tr.SetPulseDuration(c.Pulse.Duration())
			board.SetGap(c.Layout.GapPx)
			logging.Info("configuration reloaded")
			w.Invalidate()
		})
		if err := loader.Watch(); err != nil {
			logging.Warn("config hot reload unavailable", "error", err)
		}
		defer loader.Close()
	}

	go pumpEvents(src, tr, pub, store, fingerprint)

	go func() {
		if err := loop(w, board); err != nil {
			logging.Error("window loop failed", "error", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	return logging.New(&logging.Config{
		Level:     level,
		Format:    format,
		Output:    cfg.Logging.Output,
		FilePath:  cfg.Logging.FilePath,
		Component: "kbmirror",
	})
}

func loadCatalog(cfg *config.Config, override string) keyspec.Catalog {
	path := override
	if path == "" {
		path = cfg.Layout.CatalogPath
	}
	if path == "" {
		return keyspec.ANSI()
	}
	catalog, err := keyspec.Load(path)
	if err != nil {
		logging.Warn("falling back to built-in catalog", "path", path, "error", err)
		return keyspec.ANSI()
	}
	logging.Info("loaded catalog", "path", path, "name", catalog.Name)
	return catalog
}

func openPublisher(cfg *config.Config) indicator.Publisher {
	if !cfg.Indicator.Enabled {
		return indicator.Noop{}
	}
	pub, err := newPlatformPublisher(cfg.Indicator.BusName)
	if err != nil {
		logging.Warn("indicator publishing disabled", "error", err)
		return indicator.Noop{}
	}
	return pub
}

func openStats(cfg *config.Config, catalog keyspec.Catalog) (*stats.Store, string) {
	if !cfg.Stats.Enabled {
		return nil, ""
	}
	fingerprint, err := stats.Fingerprint(catalog)
	if err != nil {
		logging.Warn("press stats disabled", "error", err)
		return nil, ""
	}
	store, err := stats.Open(cfg.Stats.Path)
	if err != nil {
		logging.Warn("press stats disabled", "path", cfg.Stats.Path, "error", err)
		return nil, ""
	}
	return store, fingerprint
}

// pumpEvents adapts the source's event stream into tracker reducer calls,
// recording Down edges and republishing the indicator along the way.
func pumpEvents(src source.Source, tr *tracker.Tracker, pub indicator.Publisher, store *stats.Store, fingerprint string) {
	for evt := range src.Events() {
		tr.HandleEvent(evt)
		if evt.Edge == keys.EdgeDown && store != nil {
			if err := store.Record(fingerprint, evt.Key); err != nil {
				logging.Warn("recording press failed", "error", err)
			}
		}
		pub.Publish(tr.CapsIndicator())
	}
}

func loop(w *app.Window, board *ui.Keyboard) error {
	var ops op.Ops
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)
			board.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
