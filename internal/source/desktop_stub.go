//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"errors"
	"image"
)

func captureDesktop() (*image.RGBA, error) {
	return nil, errors.New("desktop capture is not supported on this platform")
}
