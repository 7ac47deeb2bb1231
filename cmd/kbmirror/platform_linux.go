//go:build linux

package main

import (
	"kbmirror/internal/config"
	"kbmirror/internal/indicator"
	"kbmirror/internal/lockmode"
	"kbmirror/internal/logging"
	"kbmirror/internal/source"
)

// openInputs opens the evdev key-event source and, from the first usable
// device, the LED-backed lock-mode source. A missing lock source is not
// fatal: the tracker degrades to its toggle heuristic.
func openInputs(cfg *config.Config) (source.Source, lockmode.Source, error) {
	paths := cfg.Devices.Paths
	if len(paths) == 0 {
		detected, err := source.DetectKeyboards()
		if err != nil {
			return nil, nil, err
		}
		paths = detected
	}

	src, err := source.OpenEvdev(paths)
	if err != nil {
		return nil, nil, err
	}

	var lock lockmode.Source
	for _, path := range paths {
		dev, err := lockmode.OpenDevice(path)
		if err != nil {
			continue
		}
		if dev.Read().Supported {
			lock = dev
			logging.Info("lock state source", "path", path)
			break
		}
		dev.Close()
	}
	if lock == nil {
		logging.Info("no LED-capable device, caps indicator falls back to toggle heuristic")
	}
	return src, lock, nil
}

func newPlatformPublisher(busName string) (indicator.Publisher, error) {
	return indicator.NewDBus(busName)
}
