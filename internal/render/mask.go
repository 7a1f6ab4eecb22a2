// Package render turns wand selections into images: the tinted overlay the
// editor shows while a wave grows, grayscale masks, and cut-outs with the
// selection applied as alpha.
package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/wand"
)

// MaskImage returns the selection as a grayscale image, white where
// selected.
func MaskImage(sel wand.Selection) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, sel.Width, sel.Height))
	if len(sel.Data) != sel.Width*sel.Height {
		return img
	}
	for y := 0; y < sel.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+sel.Width], sel.Data[y*sel.Width:(y+1)*sel.Width])
	}
	return img
}

// CutoutOptions controls Cutout.
type CutoutOptions struct {
	// Feather blurs the mask edge by this many pixels.
	Feather int
	// Trim crops the result to the selection bounds grown by Feather.
	Trim bool
}

// Cutout copies img with everything outside sel made transparent. The
// selection must have been made on a buffer of the same size as img.
func Cutout(img image.Image, sel wand.Selection, opts CutoutOptions) (*image.NRGBA, error) {
	if img == nil {
		return nil, pixbuf.ErrNoBuffer
	}
	b := img.Bounds()
	if b.Dx() != sel.Width || b.Dy() != sel.Height || len(sel.Data) != sel.Width*sel.Height {
		return nil, pixbuf.ErrDimensionMismatch
	}
	mask := MaskImage(sel)
	if opts.Feather > 0 {
		mask = Feather(mask, opts.Feather)
	}

	src := imaging.Clone(img)
	out := image.NewNRGBA(src.Bounds())
	draw.DrawMask(out, out.Bounds(), src, image.Point{}, alphaOf(mask), image.Point{}, draw.Src)

	if opts.Trim {
		if sel.Empty() {
			return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
		}
		r := sel.Bounds.Inset(-opts.Feather).Intersect(out.Bounds())
		return imaging.Crop(out, r), nil
	}
	return out, nil
}

// Fill paints every selected pixel of dst with c. dst must match the
// selection size.
func Fill(dst *image.RGBA, sel wand.Selection, c color.Color) {
	if dst.Bounds().Dx() != sel.Width || dst.Bounds().Dy() != sel.Height {
		return
	}
	mask := alphaOf(MaskImage(sel))
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}

// alphaOf views a gray mask as alpha coverage. Gray images report full
// alpha everywhere, so they cannot be passed to DrawMask directly.
func alphaOf(g *image.Gray) *image.Alpha {
	return &image.Alpha{Pix: g.Pix, Stride: g.Stride, Rect: g.Rect}
}
