// Package tools holds the pointer tools of the editor. Each tool is a small
// state machine driven by pointer down, move and up events in world
// coordinates, and draws onto a canvas.Surface that already carries the
// world transform.
package tools

import (
	"image/color"
	"math"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/coords"
)

const (
	DefaultBrushSize     = 12
	DefaultBrushHardness = 0.8
	DefaultEraserSize    = 24
	DefaultEraserHard    = 0.5

	MinToolSize = 1
	MaxToolSize = 500
)

// Stroke is one finished gesture as an ordered list of points.
type Stroke struct {
	Points   []coords.WorldPoint
	Size     float64
	Hardness float64
	Color    color.Color
	Erase    bool
}

// StrokeTool is the shape shared by Brush and Eraser.
type StrokeTool interface {
	StartStroke(p coords.WorldPoint)
	ContinueStroke(p coords.WorldPoint, dst canvas.Surface)
	EndStroke()
	Active() bool
	DrawCursor(dst canvas.Surface, p coords.WorldPoint)
}

// stroker holds the gesture state Brush and Eraser have in common.
type stroker struct {
	Size     float64
	Hardness float64

	active  bool
	last    coords.WorldPoint
	points  []coords.WorldPoint
	strokes []Stroke
}

func (s *stroker) start(p coords.WorldPoint) {
	s.active = true
	s.last = p
	s.points = []coords.WorldPoint{p}
}

func (s *stroker) blur() float64 {
	h := math.Min(1, math.Max(0, s.Hardness))
	return s.Size * (1 - h)
}

func (s *stroker) segment(p coords.WorldPoint, dst canvas.Surface, setup func(canvas.Surface)) {
	if !s.active {
		return
	}
	dst.Save()
	setup(dst)
	dst.SetLineWidth(s.Size)
	dst.SetBlur(s.blur())
	dst.StrokeLine(s.last.X, s.last.Y, p.X, p.Y)
	dst.Restore()
	s.last = p
	s.points = append(s.points, p)
}

func (s *stroker) end(st Stroke) {
	if !s.active {
		return
	}
	s.active = false
	st.Points = s.points
	st.Size = s.Size
	st.Hardness = s.Hardness
	s.strokes = append(s.strokes, st)
	s.points = nil
}

func (s *stroker) cursor(dst canvas.Surface, p coords.WorldPoint, col color.Color) {
	dst.Save()
	dst.SetComposite(canvas.SourceOver)
	dst.SetBlur(0)
	dst.SetStrokeColor(col)
	dst.SetLineWidth(1)
	dst.StrokeCircle(p.X, p.Y, s.Size/2)
	dst.Restore()
}

// Active reports whether a stroke is in progress.
func (s *stroker) Active() bool { return s.active }

// Strokes returns the finished strokes in order.
func (s *stroker) Strokes() []Stroke { return s.strokes }

// Resize changes the tool size by delta, clamped to [MinToolSize, MaxToolSize].
func (s *stroker) Resize(delta float64) {
	s.Size = math.Min(MaxToolSize, math.Max(MinToolSize, s.Size+delta))
}

// Brush paints with a soft round tip.
type Brush struct {
	stroker
	Color   color.Color
	Opacity float64
}

var _ StrokeTool = (*Brush)(nil)

func NewBrush() *Brush {
	return &Brush{
		stroker: stroker{Size: DefaultBrushSize, Hardness: DefaultBrushHardness},
		Color:   color.RGBA{R: 255, A: 255},
		Opacity: 1,
	}
}

func (b *Brush) StartStroke(p coords.WorldPoint) { b.start(p) }

// ContinueStroke draws the segment from the previous point to p.
func (b *Brush) ContinueStroke(p coords.WorldPoint, dst canvas.Surface) {
	b.segment(p, dst, func(s canvas.Surface) {
		s.SetComposite(canvas.SourceOver)
		s.SetStrokeColor(b.Color)
		s.SetGlobalAlpha(b.Opacity)
	})
}

func (b *Brush) EndStroke() { b.end(Stroke{Color: b.Color}) }

func (b *Brush) DrawCursor(dst canvas.Surface, p coords.WorldPoint) {
	b.cursor(dst, p, b.Color)
}

// Eraser removes paint with a soft round tip.
type Eraser struct {
	stroker
}

var _ StrokeTool = (*Eraser)(nil)

func NewEraser() *Eraser {
	return &Eraser{stroker: stroker{Size: DefaultEraserSize, Hardness: DefaultEraserHard}}
}

func (e *Eraser) StartStroke(p coords.WorldPoint) { e.start(p) }

func (e *Eraser) ContinueStroke(p coords.WorldPoint, dst canvas.Surface) {
	e.segment(p, dst, func(s canvas.Surface) {
		s.SetComposite(canvas.DestinationOut)
		s.SetStrokeColor(color.Black)
	})
}

func (e *Eraser) EndStroke() { e.end(Stroke{Erase: true}) }

func (e *Eraser) DrawCursor(dst canvas.Surface, p coords.WorldPoint) {
	e.cursor(dst, p, color.Gray{Y: 128})
}
