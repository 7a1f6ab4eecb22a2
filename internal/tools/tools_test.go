package tools

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/coords"
)

func pt(x, y float64) coords.WorldPoint { return coords.WorldPoint{X: x, Y: y} }

func TestBrushStrokeDrawsSingleSegment(t *testing.T) {
	b := NewBrush()
	b.Size = 4
	rec := canvas.NewRecorder()

	b.StartStroke(pt(0, 0))
	if !b.Active() {
		t.Fatal("brush not active after start")
	}
	b.ContinueStroke(pt(10, 0), rec)
	b.EndStroke()

	lines := rec.Named("line")
	if len(lines) != 1 {
		t.Fatalf("got %d line ops, want 1", len(lines))
	}
	l := lines[0]
	if l.LineWidth != 4 {
		t.Fatalf("line width %v, want 4", l.LineWidth)
	}
	if l.Composite != canvas.SourceOver {
		t.Fatalf("composite %v", l.Composite)
	}
	if want := 4 * (1 - DefaultBrushHardness); l.Blur < want-1e-9 || l.Blur > want+1e-9 {
		t.Fatalf("blur %v, want %v", l.Blur, want)
	}
	if got := l.Args; got[0] != 0 || got[1] != 0 || got[2] != 10 || got[3] != 0 {
		t.Fatalf("segment %v", got)
	}

	strokes := b.Strokes()
	if len(strokes) != 1 {
		t.Fatalf("got %d strokes", len(strokes))
	}
	if pts := strokes[0].Points; len(pts) != 2 || pts[0] != pt(0, 0) || pts[1] != pt(10, 0) {
		t.Fatalf("stroke points %v", pts)
	}
	if b.Active() {
		t.Fatal("brush still active after end")
	}
}

func TestBrushIgnoresMovesWithoutStart(t *testing.T) {
	b := NewBrush()
	rec := canvas.NewRecorder()
	b.ContinueStroke(pt(5, 5), rec)
	b.EndStroke()
	if len(rec.Ops) != 0 || len(b.Strokes()) != 0 {
		t.Fatalf("idle brush drew %v", rec.Ops)
	}
}

func TestBrushSegmentsChain(t *testing.T) {
	b := NewBrush()
	rec := canvas.NewRecorder()
	b.StartStroke(pt(0, 0))
	b.ContinueStroke(pt(5, 0), rec)
	b.ContinueStroke(pt(5, 5), rec)
	lines := rec.Named("line")
	if len(lines) != 2 {
		t.Fatalf("got %d segments", len(lines))
	}
	if a := lines[1].Args; a[0] != 5 || a[1] != 0 || a[2] != 5 || a[3] != 5 {
		t.Fatalf("second segment %v does not start at previous point", a)
	}
}

func TestEraserUsesDestinationOut(t *testing.T) {
	e := NewEraser()
	e.Size = 4
	e.Hardness = 1
	r := canvas.NewRaster(20, 20)
	r.SetFillColor(color.RGBA{G: 255, A: 255})
	r.FillRect(0, 0, 20, 20)

	e.StartStroke(pt(2, 10))
	e.ContinueStroke(pt(18, 10), r)
	e.EndStroke()

	if a := r.Image().RGBAAt(10, 10).A; a != 0 {
		t.Fatalf("erased pixel alpha %d", a)
	}
	if a := r.Image().RGBAAt(10, 0).A; a != 255 {
		t.Fatalf("pixel outside eraser alpha %d", a)
	}
	if s := e.Strokes(); len(s) != 1 || !s[0].Erase {
		t.Fatalf("strokes %+v", s)
	}
}

func TestResizeClamps(t *testing.T) {
	b := NewBrush()
	b.Resize(-1000)
	if b.Size != MinToolSize {
		t.Fatalf("size %v", b.Size)
	}
	b.Resize(10000)
	if b.Size != MaxToolSize {
		t.Fatalf("size %v", b.Size)
	}
}

func TestDrawCursor(t *testing.T) {
	b := NewBrush()
	b.Size = 10
	rec := canvas.NewRecorder()
	b.DrawCursor(rec, pt(3, 4))
	c := rec.Named("strokeCircle")
	if len(c) != 1 || c[0].Args[2] != 5 {
		t.Fatalf("cursor ops %v", rec.Ops)
	}
}

func TestCropResize(t *testing.T) {
	start := Box{X: 10, Y: 10, W: 100, H: 80}
	tests := []struct {
		name   string
		aspect float64
		from   coords.WorldPoint
		to     coords.WorldPoint
		want   Box
	}{
		{"se free", 0, pt(110, 90), pt(130, 100), Box{X: 10, Y: 10, W: 120, H: 90}},
		{"se square", 1, pt(110, 90), pt(130, 100), Box{X: 10, Y: 10, W: 120, H: 120}},
		{"nw free", 0, pt(10, 10), pt(0, 5), Box{X: 0, Y: 5, W: 110, H: 85}},
		{"nw square keeps bottom", 1, pt(10, 10), pt(0, 5), Box{X: 0, Y: -20, W: 110, H: 110}},
		{"e clamps", 0, pt(110, 50), pt(0, 50), Box{X: 10, Y: 10, W: MinCropSize, H: 80}},
		{"w clamps keeps right", 0, pt(10, 50), pt(200, 50), Box{X: 90, Y: 10, W: MinCropSize, H: 80}},
		{"n", 0, pt(60, 10), pt(60, 30), Box{X: 10, Y: 30, W: 100, H: 60}},
		{"s locked follows width", 2, pt(60, 90), pt(60, 200), Box{X: 10, Y: 10, W: 100, H: 50}},
		{"move", 0, pt(50, 50), pt(55, 45), Box{X: 15, Y: 5, W: 100, H: 80}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCrop(start)
			c.SetAspect(tc.aspect)
			if !c.StartDrag(tc.from) {
				t.Fatalf("no handle at %v", tc.from)
			}
			c.ContinueDrag(pt((tc.from.X+tc.to.X)/2, (tc.from.Y+tc.to.Y)/2))
			c.ContinueDrag(tc.to)
			c.EndDrag()
			if got := c.Box(); got != tc.want {
				t.Fatalf("box %v, want %v", got, tc.want)
			}
			if c.Active() != HandleNone {
				t.Fatal("handle still active")
			}
		})
	}
}

func TestCropApplyAspect(t *testing.T) {
	tests := []struct {
		name   string
		box    Box
		aspect float64
		want   Box
	}{
		{"free unchanged", Box{X: 5, Y: 5, W: 100, H: 80}, 0, Box{X: 5, Y: 5, W: 100, H: 80}},
		{"square", Box{X: 5, Y: 5, W: 100, H: 80}, 1, Box{X: 5, Y: 5, W: 100, H: 100}},
		{"wide", Box{X: 5, Y: 5, W: 100, H: 80}, 2, Box{X: 5, Y: 5, W: 100, H: 50}},
		{"narrow box grows from origin", Box{X: 5, Y: 5, W: 4, H: 10}, 1, Box{X: 5, Y: 5, W: MinCropSize, H: MinCropSize}},
		{"tall ratio keeps min height", Box{X: 5, Y: 5, W: 30, H: 30}, 4, Box{X: 5, Y: 5, W: 4 * MinCropSize, H: MinCropSize}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCrop(tc.box)
			c.SetAspect(tc.aspect)
			c.ApplyAspect()
			if got := c.Box(); got != tc.want {
				t.Fatalf("box %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCropHitTest(t *testing.T) {
	c := NewCrop(Box{X: 10, Y: 10, W: 100, H: 80})
	tests := []struct {
		p    coords.WorldPoint
		want Handle
	}{
		{pt(10, 10), HandleNW},
		{pt(13, 7), HandleNW},
		{pt(60, 10), HandleN},
		{pt(110, 10), HandleNE},
		{pt(110, 50), HandleE},
		{pt(110, 90), HandleSE},
		{pt(60, 90), HandleS},
		{pt(10, 90), HandleSW},
		{pt(10, 50), HandleW},
		{pt(40, 40), HandleMove},
		{pt(200, 200), HandleNone},
		{pt(0, 0), HandleNone},
	}
	for _, tc := range tests {
		if got := c.HitTest(tc.p); got != tc.want {
			t.Errorf("HitTest(%v) = %v, want %v", tc.p, got, tc.want)
		}
	}
	if c.StartDrag(pt(300, 300)) {
		t.Fatal("drag started outside box")
	}
	c.ContinueDrag(pt(0, 0))
	if c.Box() != (Box{X: 10, Y: 10, W: 100, H: 80}) {
		t.Fatal("box changed without drag")
	}
}

func TestCropDrawOverlay(t *testing.T) {
	c := NewCrop(Box{X: 10, Y: 10, W: 60, H: 30})
	rec := canvas.NewRecorder()
	c.DrawOverlay(rec, 100, 50)

	fills := rec.Named("fillRect")
	if len(fills) != 4+8 {
		t.Fatalf("got %d fills, want 4 shade + 8 handles", len(fills))
	}
	right := fills[3].Args
	if right[0] != 70 || right[1] != 10 || right[2] != 30 || right[3] != 30 {
		t.Fatalf("right shade %v", right)
	}
	if n := len(rec.Named("line")); n != 4 {
		t.Fatalf("got %d grid lines", n)
	}
	if n := len(rec.Named("strokeRect")); n != 9 {
		t.Fatalf("got %d stroke rects", n)
	}
}

func TestCropApply(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	img.Set(25, 25, color.RGBA{R: 255, A: 255})
	c := NewCrop(Box{X: 20, Y: 20, W: 40, H: 40})
	out := c.Apply(img)
	if out.Bounds() != image.Rect(0, 0, 40, 40) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	if got := out.RGBAAt(5, 5); got.R != 255 {
		t.Fatalf("moved pixel %+v", got)
	}
	if got := out.RGBAAt(35, 35); got.A != 0 {
		t.Fatalf("outside area not transparent %+v", got)
	}
}

func TestParseAspect(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"free", 0, false},
		{"", 0, false},
		{"16:9", 16.0 / 9.0, false},
		{" 1 : 1 ", 1, false},
		{"1.5", 1.5, false},
		{"0:3", 0, true},
		{"x:y", 0, true},
		{"-2", 0, true},
	}
	for _, tc := range tests {
		got, err := ParseAspect(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseAspect(%q) err = %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseAspect(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
