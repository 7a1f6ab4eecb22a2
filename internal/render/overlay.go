package render

import (
	"image"
	"image/color"
)

// OverlayStyle colours a selection preview.
type OverlayStyle struct {
	Tint       color.RGBA
	Outline    color.RGBA
	OutlineAlt color.RGBA
	// Dash is the marching-ants segment length in pixels.
	Dash int
}

// DefaultOverlayStyle matches the default theme.
var DefaultOverlayStyle = OverlayStyle{
	Tint:       color.RGBA{0, 38, 67, 80},
	Outline:    color.RGBA{0, 0, 0, 255},
	OutlineAlt: color.RGBA{255, 255, 255, 255},
	Dash:       4,
}

// IsEdge reports whether selected pixel (x, y) touches an unselected
// 4-neighbour or the mask border.
func IsEdge(mask []byte, w, h, x, y int) bool {
	i := y*w + x
	if mask[i] == 0 {
		return false
	}
	return x == 0 || y == 0 || x == w-1 || y == h-1 ||
		mask[i-1] == 0 || mask[i+1] == 0 || mask[i-w] == 0 || mask[i+w] == 0
}

// Outline lists the edge pixels of mask inside bounds in row-major order.
func Outline(mask []byte, w, h int, bounds image.Rectangle) []image.Point {
	bounds = bounds.Intersect(image.Rect(0, 0, w, h))
	if len(mask) != w*h {
		return nil
	}
	var pts []image.Point
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if IsEdge(mask, w, h, x, y) {
				pts = append(pts, image.Pt(x, y))
			}
		}
	}
	return pts
}

// Overlay tints the selected pixels of dst and draws a marching-ants outline
// around them. Only pixels inside bounds are visited, so a growing wave
// costs time proportional to its bounding box. phase shifts the dash
// pattern for animation.
func Overlay(dst *image.RGBA, mask []byte, w, h int, bounds image.Rectangle, st OverlayStyle, phase int) {
	if len(mask) != w*h || dst.Bounds().Dx() < w || dst.Bounds().Dy() < h {
		return
	}
	dash := st.Dash
	if dash <= 0 {
		dash = 1
	}
	bounds = bounds.Intersect(image.Rect(0, 0, w, h))
	origin := dst.Bounds().Min
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask[y*w+x] == 0 {
				continue
			}
			i := dst.PixOffset(origin.X+x, origin.Y+y)
			px := dst.Pix[i : i+4 : i+4]
			if IsEdge(mask, w, h, x, y) {
				c := st.Outline
				if ((x+y+phase)/dash)%2 != 0 {
					c = st.OutlineAlt
				}
				px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
				continue
			}
			blendOver(px, st.Tint)
		}
	}
}

// blendOver composites premultiplied c over the premultiplied pixel px.
func blendOver(px []byte, c color.RGBA) {
	inv := 255 - uint32(c.A)
	px[0] = uint8(uint32(c.R) + uint32(px[0])*inv/255)
	px[1] = uint8(uint32(c.G) + uint32(px[1])*inv/255)
	px[2] = uint8(uint32(c.B) + uint32(px[2])*inv/255)
	px[3] = uint8(uint32(c.A) + uint32(px[3])*inv/255)
}
