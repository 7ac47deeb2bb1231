//go:build !linux

package main

import (
	"errors"

	"kbmirror/internal/config"
	"kbmirror/internal/indicator"
	"kbmirror/internal/lockmode"
	"kbmirror/internal/source"
)

// Only Linux input mirroring is implemented. The window still opens so the
// board can be previewed.
func openInputs(*config.Config) (source.Source, lockmode.Source, error) {
	return nil, nil, errors.New("keyboard mirroring is only implemented on linux")
}

func newPlatformPublisher(string) (indicator.Publisher, error) {
	return nil, errors.New("indicator publishing is only implemented on linux")
}
