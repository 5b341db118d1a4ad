//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"image"
	"os"
	"sync"
)

var (
	initOnce     sync.Once
	initErr      error
	errNoDisplay = errors.New("no DISPLAY or WAYLAND_DISPLAY; clipboard unavailable")
	errNoCgo     = errors.New("clipboard support requires a cgo build")
)

// ensureInit mirrors the cgo variant's checks so callers get the same
// error for a missing display regardless of how the binary was built.
func ensureInit() error {
	initOnce.Do(func() {
		if !displayAvailable() {
			initErr = errNoDisplay
			return
		}
		initErr = errNoCgo
	})
	return initErr
}

func displayAvailable() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

func WriteImage(image.Image) error { return ensureInit() }

func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	return nil, errNoCgo
}

func WriteText(string) error { return ensureInit() }

func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	return "", errNoCgo
}
