package wand

import (
	"fmt"
	"image"

	"github.com/cespare/xxhash/v2"
)

// Selection is a finished mask handed to the rest of the application. Data
// holds one byte per pixel in row-major order, Selected where the pixel is
// part of the selection.
type Selection struct {
	Data   []byte
	Width  int
	Height int
	Bounds image.Rectangle
}

// Empty reports whether no pixel is selected.
func (s Selection) Empty() bool { return s.Bounds.Empty() }

// Contains reports whether (x, y) is selected.
func (s Selection) Contains(x, y int) bool {
	if x < 0 || y < 0 || x >= s.Width || y >= s.Height {
		return false
	}
	return s.Data[y*s.Width+x] != 0
}

// Count returns the number of selected pixels.
func (s Selection) Count() int {
	n := 0
	for _, v := range s.Data {
		if v != 0 {
			n++
		}
	}
	return n
}

// Digest identifies the selected pixel set. Two selections with the same
// shape on the same canvas share a digest.
func (s Selection) Digest() string {
	return fmt.Sprintf("%016x", xxhash.Sum64(s.Data))
}

func (s Selection) String() string {
	return fmt.Sprintf("%d px in %v of %dx%d", s.Count(), s.Bounds, s.Width, s.Height)
}
