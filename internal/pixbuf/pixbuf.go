// Package pixbuf holds the flat RGBA buffer the selection core reads from and
// the checks that guard every place a buffer crosses a package boundary.
package pixbuf

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrNoBuffer is returned when a source could not provide pixels.
	ErrNoBuffer = errors.New("no pixel buffer available")
	// ErrDimensionMismatch is returned when a buffer disagrees with its
	// declared or expected size.
	ErrDimensionMismatch = errors.New("pixel buffer dimension mismatch")
)

// Buffer is a row-major RGBA buffer with 8 bits per channel. Pix always has
// Width*Height*4 bytes when the buffer is valid.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a transparent w×h buffer.
func New(w, h int) *Buffer {
	if w < 0 || h < 0 {
		w, h = 0, 0
	}
	return &Buffer{Width: w, Height: h, Pix: make([]byte, w*h*4)}
}

// FromImage flattens img into a new Buffer. The result is a snapshot; later
// changes to img are not reflected.
func FromImage(img image.Image) *Buffer {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return FromRGBA(rgba)
}

// FromRGBA wraps the pixels of img without copying when its stride is tight.
func FromRGBA(img *image.RGBA) *Buffer {
	if img == nil {
		return nil
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if img.Stride == w*4 && img.Rect.Min == (image.Point{}) {
		return &Buffer{Width: w, Height: h, Pix: img.Pix[:w*h*4]}
	}
	out := New(w, h)
	for y := 0; y < h; y++ {
		i := img.PixOffset(img.Rect.Min.X, img.Rect.Min.Y+y)
		copy(out.Pix[y*w*4:(y+1)*w*4], img.Pix[i:i+w*4])
	}
	return out
}

// RGBA returns an image view sharing the buffer's pixels.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{Pix: b.Pix, Stride: b.Width * 4, Rect: image.Rect(0, 0, b.Width, b.Height)}
}

// Bounds returns the buffer rectangle anchored at the origin.
func (b *Buffer) Bounds() image.Rectangle { return image.Rect(0, 0, b.Width, b.Height) }

// In reports whether (x, y) indexes a pixel of the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the pixel at (x, y). The caller must check In first.
func (b *Buffer) At(x, y int) color.RGBA {
	i := (y*b.Width + x) * 4
	p := b.Pix[i : i+4 : i+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

// Fingerprint is a short content hash used to identify a snapshot in logs
// and CLI output.
func (b *Buffer) Fingerprint() string {
	h := xxhash.New()
	var dims [8]byte
	binary.BigEndian.PutUint32(dims[:4], uint32(b.Width))
	binary.BigEndian.PutUint32(dims[4:], uint32(b.Height))
	_, _ = h.Write(dims[:])
	_, _ = h.Write(b.Pix)
	var sum [8]byte
	binary.BigEndian.PutUint64(sum[:], h.Sum64())
	return hex.EncodeToString(sum[:])
}

// Check returns nil when buf is present, matches w×h and carries exactly
// w*h*4 bytes. Negative expectations skip the size comparison.
func Check(buf *Buffer, w, h int) error {
	if buf == nil {
		return ErrNoBuffer
	}
	if w >= 0 && h >= 0 && (buf.Width != w || buf.Height != h) {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrDimensionMismatch, buf.Width, buf.Height, w, h)
	}
	if buf.Width < 0 || buf.Height < 0 {
		return fmt.Errorf("%w: negative size %dx%d", ErrDimensionMismatch, buf.Width, buf.Height)
	}
	if want := buf.Width * buf.Height * 4; len(buf.Pix) != want {
		return fmt.Errorf("%w: %d bytes for %dx%d, want %d", ErrDimensionMismatch, len(buf.Pix), buf.Width, buf.Height, want)
	}
	return nil
}

// Validate is the non-fatal check used on interactive paths. It logs the
// problem under context and returns false rather than failing.
func Validate(buf *Buffer, w, h int, context string) bool {
	if err := Check(buf, w, h); err != nil {
		log.Printf("validate %s: %v", context, err)
		return false
	}
	return true
}

// Require is Validate for callers that propagate errors.
func Require(buf *Buffer, w, h int, context string) error {
	if err := Check(buf, w, h); err != nil {
		return fmt.Errorf("%s: %w", context, err)
	}
	return nil
}

// MustValidate panics if the buffer is invalid. It marks places where a
// caller was required to validate first.
func MustValidate(buf *Buffer, w, h int, context string) {
	if err := Require(buf, w, h, context); err != nil {
		panic(err)
	}
}

// ValidateMask checks that mask has one byte per pixel of buf.
func ValidateMask(mask []byte, buf *Buffer, context string) bool {
	if buf == nil {
		log.Printf("validate %s: mask: %v", context, ErrNoBuffer)
		return false
	}
	if want := buf.Width * buf.Height; len(mask) != want {
		log.Printf("validate %s: mask has %d bytes, want %d", context, len(mask), want)
		return false
	}
	return true
}
