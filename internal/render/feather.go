package render

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// Feather softens a mask with a Gaussian blur whose reach is about radius
// pixels (sigma = radius/2). A radius of zero returns a copy.
func Feather(mask *image.Gray, radius int) *image.Gray {
	if mask == nil {
		return nil
	}
	b := mask.Bounds()
	out := image.NewGray(b)
	if radius <= 0 || b.Empty() {
		draw.Draw(out, b, mask, b.Min, draw.Src)
		return out
	}
	// imaging expands gray to opaque NRGBA with R=G=B=Y and returns an image
	// anchored at the origin.
	blurred := imaging.Blur(mask, float64(radius)/2)
	for y := 0; y < b.Dy(); y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+b.Dx()]
		src := blurred.Pix[y*blurred.Stride:]
		for x := range row {
			row[x] = src[x*4]
		}
	}
	return out
}
