// Package canvas defines the immediate-mode drawing surface that tools,
// previews and the viewport transform draw onto, plus two implementations:
// Raster, which paints into an *image.RGBA, and Recorder, which keeps the
// calls for inspection.
package canvas

import (
	"image/color"

	"golang.org/x/image/math/f64"
)

// Composite selects how new paint combines with what is already on the
// surface.
type Composite int

const (
	// SourceOver paints new content over the existing pixels.
	SourceOver Composite = iota
	// DestinationOut removes existing pixels where new content is drawn.
	DestinationOut
)

func (c Composite) String() string {
	switch c {
	case SourceOver:
		return "source-over"
	case DestinationOut:
		return "destination-out"
	default:
		return "unknown"
	}
}

// Surface is a 2D drawing target with a current affine transform and a
// save/restore state stack. Coordinates passed to drawing calls are mapped
// through the current transform.
type Surface interface {
	Save()
	Restore()
	Translate(x, y float64)
	Scale(sx, sy float64)

	SetComposite(op Composite)
	SetFillColor(c color.Color)
	SetStrokeColor(c color.Color)
	SetLineWidth(w float64)
	// SetBlur softens the edge of subsequent shapes by radius units.
	SetBlur(radius float64)
	SetGlobalAlpha(a float64)

	StrokeLine(x0, y0, x1, y1 float64)
	FillRect(x, y, w, h float64)
	StrokeRect(x, y, w, h float64)
	FillCircle(cx, cy, r float64)
	StrokeCircle(cx, cy, r float64)

	// Clear erases the whole surface regardless of the transform.
	Clear()
}

// state is the save/restore unit shared by both implementations.
type state struct {
	m         f64.Aff3
	composite Composite
	fill      color.Color
	stroke    color.Color
	lineWidth float64
	blur      float64
	alpha     float64
}

func defaultState() state {
	return state{
		m:         f64.Aff3{1, 0, 0, 0, 1, 0},
		composite: SourceOver,
		fill:      color.Black,
		stroke:    color.Black,
		lineWidth: 1,
		alpha:     1,
	}
}

func (s *state) translate(x, y float64) {
	s.m[2] += s.m[0]*x + s.m[1]*y
	s.m[5] += s.m[3]*x + s.m[4]*y
}

func (s *state) scale(sx, sy float64) {
	s.m[0] *= sx
	s.m[3] *= sx
	s.m[1] *= sy
	s.m[4] *= sy
}
