// Package coords converts between the three coordinate spaces of the editor.
//
// Screen space is viewport pixels with the origin at the top-left of the view.
// World space is the fixed logical canvas that layers and selections live in.
// Image space is pixel-buffer indices; it is origin aligned and unscaled with
// world space, so the conversion is the identity plus flooring.
//
// Each space has its own point type so a screen point cannot be passed where
// a world point is expected without going through a System.
package coords

import (
	"math"
	"sync"

	"golang.org/x/image/math/f64"

	"github.com/example/pixwand/internal/canvas"
)

const (
	MinZoom = 0.1
	MaxZoom = 10.0

	DefaultCanvasWidth  = 800
	DefaultCanvasHeight = 600
)

// ScreenPoint is a position in viewport pixels.
type ScreenPoint struct{ X, Y float64 }

// WorldPoint is a position on the logical canvas.
type WorldPoint struct{ X, Y float64 }

// ImagePoint is a pixel index into a buffer.
type ImagePoint struct{ X, Y int }

// System owns the pan/zoom state of one canvas view. It is safe for
// concurrent use, although the editor only touches it from its event loop.
type System struct {
	mu sync.RWMutex

	width, height float64 // logical canvas
	panX, panY    float64
	zoom          float64
	viewW, viewH  float64
	dpr           float64
}

// New creates a System for a canvas of the given logical size. The viewport
// starts equal to the canvas at zoom 1.
func New(canvasW, canvasH int) *System {
	if canvasW <= 0 {
		canvasW = DefaultCanvasWidth
	}
	if canvasH <= 0 {
		canvasH = DefaultCanvasHeight
	}
	return &System{
		width:  float64(canvasW),
		height: float64(canvasH),
		zoom:   1,
		viewW:  float64(canvasW),
		viewH:  float64(canvasH),
		dpr:    1,
	}
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return math.Min(MaxZoom, math.Max(MinZoom, z))
}

// SetViewport records the viewport size in screen pixels and the device pixel
// ratio of the backing surface.
func (s *System) SetViewport(w, h, dpr float64) {
	if dpr <= 0 {
		dpr = 1
	}
	s.mu.Lock()
	s.viewW, s.viewH, s.dpr = w, h, dpr
	s.mu.Unlock()
}

// SetCanvasSize changes the logical canvas, for example after a crop.
func (s *System) SetCanvasSize(w, h int) {
	s.mu.Lock()
	s.width, s.height = float64(w), float64(h)
	s.mu.Unlock()
}

func (s *System) CanvasSize() (w, h float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height
}

func (s *System) Viewport() (w, h, dpr float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.viewW, s.viewH, s.dpr
}

func (s *System) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

func (s *System) Pan() (x, y float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panX, s.panY
}

// AddPan shifts the view by a screen-space delta.
func (s *System) AddPan(dx, dy float64) {
	s.mu.Lock()
	s.panX += dx
	s.panY += dy
	s.mu.Unlock()
}

// SetZoom sets the zoom around the viewport centre, clamped to
// [MinZoom, MaxZoom].
func (s *System) SetZoom(z float64) {
	s.mu.Lock()
	s.zoom = clampZoom(z)
	s.mu.Unlock()
}

// ZoomAtPoint changes zoom while keeping the world point under sp fixed on
// screen.
func (s *System) ZoomAtPoint(z float64, sp ScreenPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	anchor := s.screenToWorld(sp)
	s.zoom = clampZoom(z)
	moved := s.worldToScreen(anchor)
	s.panX += sp.X - moved.X
	s.panY += sp.Y - moved.Y
}

// ResetView clears pan and returns to zoom 1.
func (s *System) ResetView() {
	s.mu.Lock()
	s.panX, s.panY = 0, 0
	s.zoom = 1
	s.mu.Unlock()
}

// Fit centres the canvas and picks the largest zoom that shows all of it.
func (s *System) Fit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panX, s.panY = 0, 0
	zx := s.viewW / s.width
	zy := s.viewH / s.height
	s.zoom = clampZoom(math.Min(zx, zy))
}

func (s *System) ScreenToWorld(p ScreenPoint) WorldPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenToWorld(p)
}

func (s *System) WorldToScreen(p WorldPoint) ScreenPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.worldToScreen(p)
}

func (s *System) screenToWorld(p ScreenPoint) WorldPoint {
	return WorldPoint{
		X: (p.X-s.viewW/2-s.panX)/s.zoom + s.width/2,
		Y: (p.Y-s.viewH/2-s.panY)/s.zoom + s.height/2,
	}
}

func (s *System) worldToScreen(p WorldPoint) ScreenPoint {
	return ScreenPoint{
		X: (p.X-s.width/2)*s.zoom + s.viewW/2 + s.panX,
		Y: (p.Y-s.height/2)*s.zoom + s.viewH/2 + s.panY,
	}
}

// WorldToImage floors a world point onto the pixel grid.
func (s *System) WorldToImage(p WorldPoint) ImagePoint { return ToImage(p) }

// ToImage is WorldToImage for callers without a view, such as the flood fill
// which only ever sees world points.
func ToImage(p WorldPoint) ImagePoint {
	return ImagePoint{X: int(math.Floor(p.X)), Y: int(math.Floor(p.Y))}
}

// ImageToWorld returns the world position of a pixel's top-left corner.
func (s *System) ImageToWorld(p ImagePoint) WorldPoint {
	return WorldPoint{X: float64(p.X), Y: float64(p.Y)}
}

// IsInBounds reports whether p lies on the canvas [0,w) × [0,h).
func (s *System) IsInBounds(p WorldPoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return p.X >= 0 && p.Y >= 0 && p.X < s.width && p.Y < s.height
}

// ApplyToContext pushes the world-to-device transform onto dst so later
// calls can be issued in world coordinates.
func (s *System) ApplyToContext(dst canvas.Surface) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dpr != 1 {
		dst.Scale(s.dpr, s.dpr)
	}
	dst.Translate(s.viewW/2+s.panX, s.viewH/2+s.panY)
	dst.Scale(s.zoom, s.zoom)
	dst.Translate(-s.width/2, -s.height/2)
}

// Affine returns the same transform as ApplyToContext in the form
// golang.org/x/image/draw expects for Transform.
func (s *System) Affine() f64.Aff3 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	k := s.zoom * s.dpr
	return f64.Aff3{
		k, 0, s.dpr * (s.viewW/2 + s.panX - s.zoom*s.width/2),
		0, k, s.dpr * (s.viewH/2 + s.panY - s.zoom*s.height/2),
	}
}

// RoundTrips reports whether p survives screen→world→screen within eps.
func (s *System) RoundTrips(p ScreenPoint, eps float64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := s.worldToScreen(s.screenToWorld(p))
	return math.Abs(q.X-p.X) <= eps && math.Abs(q.Y-p.Y) <= eps
}
