package source

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/example/pixwand/internal/pixbuf"
)

func testImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 80), B: 7, A: 255})
		}
	}
	return img
}

func TestOpenFormats(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"in.png", "in.bmp", "in.tiff"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := imaging.Save(testImage(), path); err != nil {
				t.Fatalf("save: %v", err)
			}
			buf, err := Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if buf.Width != 4 || buf.Height != 3 {
				t.Fatalf("size = %dx%d, want 4x3", buf.Width, buf.Height)
			}
			if got := buf.At(3, 2); got != (color.RGBA{R: 180, G: 160, B: 7, A: 255}) {
				t.Fatalf("pixel = %v", got)
			}
			if !pixbuf.Validate(buf, 4, 3, "open test") {
				t.Fatal("buffer failed validation")
			}
		})
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDecode(t *testing.T) {
	var data bytes.Buffer
	if err := png.Encode(&data, testImage()); err != nil {
		t.Fatal(err)
	}
	buf, err := Decode(&data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Fatalf("bounds = %v", buf.Bounds())
	}
	if _, err := Decode(bytes.NewReader([]byte("nope"))); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestLoadEmptyRef(t *testing.T) {
	if _, err := Load("  "); !errors.Is(err, pixbuf.ErrNoBuffer) {
		t.Fatalf("expected ErrNoBuffer, got %v", err)
	}
}

func TestLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	if err := imaging.Save(testImage(), path); err != nil {
		t.Fatal(err)
	}
	buf, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if buf.Width != 4 {
		t.Fatalf("width = %d", buf.Width)
	}
}

func TestDesktopWithoutDisplay(t *testing.T) {
	t.Setenv("DISPLAY", "")
	t.Setenv("WAYLAND_DISPLAY", "")
	if _, err := Load(RefDesktop); !errors.Is(err, ErrNoDisplay) {
		t.Fatalf("expected ErrNoDisplay, got %v", err)
	}
}

func TestBlank(t *testing.T) {
	buf := Blank(5, 2, color.White)
	if buf.Width != 5 || buf.Height != 2 {
		t.Fatalf("size = %dx%d", buf.Width, buf.Height)
	}
	if got := buf.At(4, 1); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Fatalf("pixel = %v", got)
	}
}
