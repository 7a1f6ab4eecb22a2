// Package source produces the flattened pixel buffers the editor and the
// wand operate on: image files, the clipboard and desktop screenshots.
package source

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/example/pixwand/internal/clipboard"
	"github.com/example/pixwand/internal/pixbuf"
)

// ErrNoDisplay is returned by sources that need a graphical session when
// none is available.
var ErrNoDisplay = clipboard.ErrNoDisplay

const (
	RefClipboard = "clipboard:"
	RefDesktop   = "desktop:"
)

// Open decodes the image at path, applying any EXIF orientation. PNG, JPEG,
// GIF, BMP, TIFF and WebP are recognised.
func Open(path string) (*pixbuf.Buffer, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return pixbuf.FromImage(img), nil
}

// Decode is Open for an already opened stream.
func Decode(r io.Reader) (*pixbuf.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return pixbuf.FromImage(img), nil
}

// Clipboard returns the image on the system clipboard.
func Clipboard() (*pixbuf.Buffer, error) {
	img, err := clipboard.ReadImage()
	if err != nil {
		if errors.Is(err, clipboard.ErrNoImage) {
			return nil, fmt.Errorf("clipboard: %w", pixbuf.ErrNoBuffer)
		}
		return nil, fmt.Errorf("clipboard: %w", err)
	}
	return pixbuf.FromImage(img), nil
}

// Desktop captures the whole desktop. The screenshot portal is tried first
// and X11 is used when the portal is unavailable.
func Desktop() (*pixbuf.Buffer, error) {
	if !hasDisplay() {
		return nil, ErrNoDisplay
	}
	img, err := captureDesktop()
	if err != nil {
		return nil, fmt.Errorf("desktop: %w", err)
	}
	return pixbuf.FromRGBA(img), nil
}

// Blank returns a w×h buffer filled with bg, the starting point when the
// editor is opened without an image.
func Blank(w, h int, bg color.Color) *pixbuf.Buffer {
	return pixbuf.FromImage(imaging.New(w, h, bg))
}

// Load resolves ref, which is either RefClipboard, RefDesktop, "-" for
// standard input, or a file path.
func Load(ref string) (*pixbuf.Buffer, error) {
	switch strings.TrimSpace(ref) {
	case "":
		return nil, fmt.Errorf("load: %w", pixbuf.ErrNoBuffer)
	case RefClipboard:
		return Clipboard()
	case RefDesktop:
		return Desktop()
	case "-":
		return Decode(os.Stdin)
	default:
		return Open(ref)
	}
}

func hasDisplay() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
