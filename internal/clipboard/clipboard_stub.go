//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package clipboard

func ensureInit() error { return ErrUnsupported }

func writePNG([]byte) error { return ErrUnsupported }

func readPNG() ([]byte, error) { return nil, ErrUnsupported }
