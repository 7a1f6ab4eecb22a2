package coords

import (
	"math"
	"testing"

	"github.com/example/pixwand/internal/canvas"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestScreenWorldRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		zoom   float64
		panX   float64
		panY   float64
		viewW  float64
		viewH  float64
		dpr    float64
		screen ScreenPoint
	}{
		{"identity", 1, 0, 0, 800, 600, 1, ScreenPoint{123, 45}},
		{"zoomed", 2.5, 0, 0, 800, 600, 1, ScreenPoint{10, 590}},
		{"panned", 1, -37, 80, 1024, 768, 2, ScreenPoint{512, 384}},
		{"min zoom", MinZoom, 12, 12, 640, 480, 1, ScreenPoint{0, 0}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(800, 600)
			s.SetViewport(tc.viewW, tc.viewH, tc.dpr)
			s.SetZoom(tc.zoom)
			s.AddPan(tc.panX, tc.panY)
			w := s.ScreenToWorld(tc.screen)
			back := s.WorldToScreen(w)
			if !near(back.X, tc.screen.X) || !near(back.Y, tc.screen.Y) {
				t.Fatalf("round trip %v -> %v -> %v", tc.screen, w, back)
			}
			if !s.RoundTrips(tc.screen, 1e-6) {
				t.Fatal("RoundTrips reported failure")
			}
		})
	}
}

func TestIdentityViewMapsScreenToWorld(t *testing.T) {
	s := New(800, 600)
	w := s.ScreenToWorld(ScreenPoint{100, 200})
	if !near(w.X, 100) || !near(w.Y, 200) {
		t.Fatalf("got %v, want (100,200)", w)
	}
}

func TestZoomAtPointKeepsAnchor(t *testing.T) {
	s := New(800, 600)
	s.SetViewport(1000, 700, 1)
	s.AddPan(30, -20)
	cursor := ScreenPoint{250, 410}
	before := s.ScreenToWorld(cursor)
	tests := []struct {
		zoom, want float64
	}{
		{2, 2},
		{0.5, 0.5},
		{7.25, 7.25},
		{MinZoom, MinZoom},
		{MaxZoom, MaxZoom},
		{0.01, MinZoom},
		{25, MaxZoom},
		{-3, MinZoom},
		{1, 1},
	}
	for _, tt := range tests {
		s.ZoomAtPoint(tt.zoom, cursor)
		if s.Zoom() != tt.want {
			t.Fatalf("ZoomAtPoint(%v) zoom = %v, want %v", tt.zoom, s.Zoom(), tt.want)
		}
		after := s.ScreenToWorld(cursor)
		if !near(before.X, after.X) || !near(before.Y, after.Y) {
			t.Fatalf("zoom %v moved anchor %v -> %v", tt.zoom, before, after)
		}
	}
}

func TestZoomClamped(t *testing.T) {
	s := New(100, 100)
	s.SetZoom(100)
	if s.Zoom() != MaxZoom {
		t.Fatalf("zoom = %v, want %v", s.Zoom(), MaxZoom)
	}
	s.ZoomAtPoint(0.001, ScreenPoint{50, 50})
	if s.Zoom() != MinZoom {
		t.Fatalf("zoom = %v, want %v", s.Zoom(), MinZoom)
	}
	s.ResetView()
	if s.Zoom() != 1 {
		t.Fatalf("reset zoom = %v", s.Zoom())
	}
	if x, y := s.Pan(); x != 0 || y != 0 {
		t.Fatalf("reset pan = %v,%v", x, y)
	}
}

func TestWorldToImageFloors(t *testing.T) {
	s := New(10, 10)
	tests := []struct {
		in   WorldPoint
		want ImagePoint
	}{
		{WorldPoint{3.9, 4.1}, ImagePoint{3, 4}},
		{WorldPoint{-0.5, 0}, ImagePoint{-1, 0}},
		{WorldPoint{9.999, 9.999}, ImagePoint{9, 9}},
	}
	for _, tc := range tests {
		if got := s.WorldToImage(tc.in); got != tc.want {
			t.Errorf("WorldToImage(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := s.ImageToWorld(ImagePoint{3, 4}); got != (WorldPoint{3, 4}) {
		t.Errorf("ImageToWorld = %v", got)
	}
}

func TestIsInBounds(t *testing.T) {
	s := New(10, 5)
	for _, tc := range []struct {
		p    WorldPoint
		want bool
	}{
		{WorldPoint{0, 0}, true},
		{WorldPoint{9.5, 4.9}, true},
		{WorldPoint{10, 0}, false},
		{WorldPoint{0, 5}, false},
		{WorldPoint{-0.1, 2}, false},
	} {
		if got := s.IsInBounds(tc.p); got != tc.want {
			t.Errorf("IsInBounds(%v) = %v", tc.p, got)
		}
	}
}

func TestApplyToContextMatchesWorldToScreen(t *testing.T) {
	s := New(800, 600)
	s.SetViewport(1200, 900, 1)
	s.ZoomAtPoint(3, ScreenPoint{400, 300})
	s.AddPan(-15, 22)

	rec := canvas.NewRecorder()
	s.ApplyToContext(rec)
	m := rec.Transform()
	if m != s.Affine() {
		t.Fatalf("recorder transform %v != Affine %v", m, s.Affine())
	}
	w := WorldPoint{123, 456}
	sp := s.WorldToScreen(w)
	x := m[0]*w.X + m[1]*w.Y + m[2]
	y := m[3]*w.X + m[4]*w.Y + m[5]
	if !near(x, sp.X) || !near(y, sp.Y) {
		t.Fatalf("transform maps %v to (%v,%v), want %v", w, x, y, sp)
	}
}

func TestFitShowsWholeCanvas(t *testing.T) {
	s := New(800, 600)
	s.SetViewport(400, 600, 1)
	s.Fit()
	if !near(s.Zoom(), 0.5) {
		t.Fatalf("fit zoom = %v", s.Zoom())
	}
	tl := s.WorldToScreen(WorldPoint{0, 0})
	br := s.WorldToScreen(WorldPoint{800, 600})
	if tl.X < -1e-6 || br.X > 400+1e-6 {
		t.Fatalf("canvas not within viewport: %v %v", tl, br)
	}
}
