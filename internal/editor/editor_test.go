package editor

import (
	"errors"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixwand/internal/coords"
	"github.com/example/pixwand/internal/notify"
	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/preview"
	"github.com/example/pixwand/internal/theme"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// twoTone is w×h with the left half red and the right half blue.
func twoTone(w, h int) *pixbuf.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.SetRGBA(x, y, red)
			} else {
				img.SetRGBA(x, y, blue)
			}
		}
	}
	return pixbuf.FromRGBA(img)
}

func solid(w, h int, c color.RGBA) *pixbuf.Buffer {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return pixbuf.FromRGBA(img)
}

func newEditor(t *testing.T, buf *pixbuf.Buffer, opts Options) *Editor {
	t.Helper()
	e, err := New(buf, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func press(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func move(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Direction: mouse.DirNone}
}

func release(x, y float32) mouse.Event {
	return mouse.Event{X: x, Y: y, Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func typeRune(r rune) key.Event {
	return key.Event{Rune: r, Direction: key.DirPress}
}

func ctrl(r rune) key.Event {
	return key.Event{Rune: r, Modifiers: key.ModControl, Direction: key.DirPress}
}

// settle runs frames until the wand has nothing left to do.
func settle(t *testing.T, e *Editor) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if !e.Tick() {
			return
		}
	}
	t.Fatal("wave did not settle")
}

func TestNewRejectsMissingBuffer(t *testing.T) {
	if _, err := New(nil, Options{}); !errors.Is(err, pixbuf.ErrNoBuffer) {
		t.Fatalf("expected ErrNoBuffer, got %v", err)
	}
	bad := &pixbuf.Buffer{Width: 4, Height: 4, Pix: make([]byte, 3)}
	if _, err := New(bad, Options{}); !errors.Is(err, pixbuf.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestKeyBindings(t *testing.T) {
	e := newEditor(t, solid(10, 10, white), Options{})
	tests := []struct {
		r    rune
		want Tool
	}{
		{'w', ToolWand},
		{'C', ToolCrop},
		{'e', ToolEraser},
		{'b', ToolBrush},
	}
	for _, tc := range tests {
		if !e.HandleKey(typeRune(tc.r)) {
			t.Fatalf("key %q not handled", tc.r)
		}
		if e.Tool() != tc.want {
			t.Fatalf("after %q tool = %s, want %s", tc.r, e.Tool(), tc.want)
		}
	}

	size := e.brush.Size
	e.HandleKey(typeRune(']'))
	if e.brush.Size != size+sizeStep {
		t.Fatalf("brush size = %v, want %v", e.brush.Size, size+sizeStep)
	}

	if e.HandleKey(typeRune('z')) {
		t.Fatal("unbound key reported a repaint")
	}
	if e.HandleKey(key.Event{Rune: 'w', Direction: key.DirRelease}) {
		t.Fatal("key release handled")
	}

	e.HandleKey(typeRune('q'))
	if !e.Quit() {
		t.Fatal("q did not request quit")
	}
}

func TestToleranceKeysClamp(t *testing.T) {
	e := newEditor(t, solid(4, 4, white), Options{})
	for i := 0; i < 40; i++ {
		e.HandleKey(typeRune('-'))
	}
	if e.Tolerance() != 0 {
		t.Fatalf("tolerance = %v, want 0", e.Tolerance())
	}
	for i := 0; i < 40; i++ {
		e.HandleKey(typeRune('+'))
	}
	if e.Tolerance() != 255 {
		t.Fatalf("tolerance = %v, want 255", e.Tolerance())
	}
}

func TestWandClickSelectsRegion(t *testing.T) {
	e := newEditor(t, twoTone(20, 10), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(2.5, 2.5))
	e.HandleMouse(release(2.5, 2.5))
	if e.WaveState() != preview.Running {
		t.Fatalf("state = %s, want running", e.WaveState())
	}
	settle(t, e)

	sel, ok := e.Selection()
	if !ok {
		t.Fatal("no selection after wave completed")
	}
	if sel.Count() != 100 {
		t.Fatalf("selected %d pixels, want 100", sel.Count())
	}
	if sel.Bounds != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds = %v", sel.Bounds)
	}
	if e.WaveState() != preview.Complete {
		t.Fatalf("state = %s, want complete", e.WaveState())
	}
}

func TestWandDragSupersedes(t *testing.T) {
	e := newEditor(t, twoTone(20, 10), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(2, 2))
	first := e.engine.ID()
	e.HandleMouse(move(15, 5))
	if e.engine.ID() == first {
		t.Fatal("drag did not start a new wave")
	}
	e.HandleMouse(release(15, 5))
	settle(t, e)

	sel, _ := e.Selection()
	if !sel.Contains(15, 5) || sel.Contains(2, 2) {
		t.Fatalf("selection follows the first seed: %v", sel)
	}
}

func TestWandDragReusesSnapshot(t *testing.T) {
	e := newEditor(t, twoTone(20, 10), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(2, 2))
	snap := e.snapshot
	if snap == nil {
		t.Fatal("no snapshot after starting a wave")
	}

	e.HandleMouse(move(15, 5))
	id := e.engine.ID()
	e.HandleMouse(move(15.6, 5.3))
	if e.engine.ID() != id {
		t.Fatal("move within the seed pixel restarted the wave")
	}
	e.HandleMouse(move(16, 5))
	if e.engine.ID() == id {
		t.Fatal("move to a new pixel did not restart the wave")
	}
	if e.snapshot != snap {
		t.Fatal("drag copied the document again")
	}
	e.HandleMouse(release(16, 5))
}

func TestPaintingRefreshesSnapshot(t *testing.T) {
	e := newEditor(t, solid(30, 12, white), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(15, 6))
	e.HandleMouse(release(15, 6))
	settle(t, e)
	snap := e.snapshot

	e.HandleKey(typeRune('b'))
	e.HandleMouse(press(5, 6))
	e.HandleMouse(move(25, 6))
	e.HandleMouse(release(25, 6))
	if e.snapshot != nil {
		t.Fatal("snapshot kept after painting")
	}

	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(15, 6))
	e.HandleMouse(release(15, 6))
	if e.snapshot == snap {
		t.Fatal("wave reused the stale snapshot")
	}
	if got := e.snapshot.At(15, 6); got == white {
		t.Fatalf("snapshot pixel %v does not show the stroke", got)
	}
}

func TestWandIgnoresOutOfCanvas(t *testing.T) {
	e := newEditor(t, twoTone(20, 10), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(25, 5))
	if e.WaveState() != preview.Idle {
		t.Fatalf("state = %s, want idle", e.WaveState())
	}
}

func TestEscapeCancelsWave(t *testing.T) {
	e := newEditor(t, twoTone(20, 10), Options{})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(2, 2))
	e.HandleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if e.WaveState() != preview.Cancelled {
		t.Fatalf("state = %s, want cancelled", e.WaveState())
	}
	if _, ok := e.Selection(); ok {
		t.Fatal("selection survived cancel")
	}
	if e.Tick() {
		t.Fatal("cancelled wave still scheduled work")
	}
}

func TestBrushStrokePaintsDocument(t *testing.T) {
	e := newEditor(t, solid(30, 12, white), Options{})
	e.HandleMouse(press(5, 6))
	e.HandleMouse(move(25, 6))
	e.HandleMouse(release(25, 6))

	got := e.Document().RGBAAt(15, 6)
	if got.R < 200 || got.G > 60 || got.B > 60 {
		t.Fatalf("pixel under stroke = %v, want red", got)
	}
	if e.brush.Active() {
		t.Fatal("stroke still active after release")
	}
	if n := len(e.brush.Strokes()); n != 1 {
		t.Fatalf("strokes = %d, want 1", n)
	}
}

func TestEraserClearsDocument(t *testing.T) {
	e := newEditor(t, solid(30, 12, white), Options{})
	e.HandleKey(typeRune('e'))
	e.eraser.Hardness = 1
	e.HandleMouse(press(5, 6))
	e.HandleMouse(move(25, 6))
	e.HandleMouse(release(25, 6))
	if a := e.Document().RGBAAt(15, 6).A; a != 0 {
		t.Fatalf("alpha under eraser = %d, want 0", a)
	}
}

func TestCropDragAndApply(t *testing.T) {
	e := newEditor(t, twoTone(40, 30), Options{})
	e.HandleKey(typeRune('c'))
	e.HandleMouse(press(40, 30))
	e.HandleMouse(move(30, 25))
	e.HandleMouse(release(30, 25))
	if b := e.crop.Box(); b.W != 30 || b.H != 25 {
		t.Fatalf("box = %v, want 30x25", b)
	}

	e.HandleKey(key.Event{Code: key.CodeReturnEnter, Direction: key.DirPress})
	if got := e.Document().Bounds(); got != image.Rect(0, 0, 30, 25) {
		t.Fatalf("document bounds = %v", got)
	}
	if w, h := e.System().CanvasSize(); w != 30 || h != 25 {
		t.Fatalf("canvas = %vx%v", w, h)
	}
	if b := e.crop.Box(); b.W != 30 || b.H != 25 {
		t.Fatalf("crop box not reset to the new canvas: %v", b)
	}
}

func TestCopySelection(t *testing.T) {
	var copied image.Image
	e := newEditor(t, twoTone(20, 10), Options{Copy: func(img image.Image) error {
		copied = img
		return nil
	}})
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(15, 5))
	settle(t, e)
	e.HandleKey(ctrl('c'))
	if copied == nil {
		t.Fatal("nothing copied")
	}
	if b := copied.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("copied bounds = %v", b)
	}
	if !strings.Contains(e.Message(), "100 px") {
		t.Fatalf("message = %q", e.Message())
	}
}

func TestSelectNotificationRunsInBackground(t *testing.T) {
	n := notify.New(notify.DefaultPreferences())
	var bodies []string
	var icons []string
	n.SetSender(func(_, body string, opts notify.Options) error {
		bodies = append(bodies, body)
		icons = append(icons, opts.IconPath)
		return nil
	})
	n.Enable(notify.EventSelect, true)

	e := newEditor(t, twoTone(20, 10), Options{Notifier: n})
	var queued []func()
	e.background = func(f func()) { queued = append(queued, f) }
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(2, 2))
	e.HandleMouse(release(2, 2))
	settle(t, e)

	if len(bodies) != 0 {
		t.Fatal("notification sent from the event loop")
	}
	if len(queued) != 1 {
		t.Fatalf("queued %d background jobs, want 1", len(queued))
	}

	// Painting after completion must not change the preview source.
	e.HandleKey(typeRune('b'))
	e.HandleMouse(press(1, 1))
	e.HandleMouse(move(18, 8))
	e.HandleMouse(release(18, 8))

	queued[0]()
	if len(bodies) != 1 || !strings.Contains(bodies[0], "100 px") {
		t.Fatalf("notifications = %q", bodies)
	}
	if icons[0] == "" {
		t.Fatal("selection notification has no preview icon")
	}
	t.Cleanup(func() { _ = os.Remove(icons[0]) })
}

func TestCopyFailureIsReported(t *testing.T) {
	e := newEditor(t, solid(4, 4, white), Options{Copy: func(image.Image) error {
		return errors.New("no clipboard")
	}})
	e.HandleKey(ctrl('c'))
	if !strings.Contains(e.Message(), "no clipboard") {
		t.Fatalf("message = %q", e.Message())
	}
}

func TestSaveWritesOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	e := newEditor(t, solid(6, 4, red), Options{Output: out})
	e.HandleKey(ctrl('s'))
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("output is empty")
	}
}

func TestWheelZoomKeepsAnchor(t *testing.T) {
	e := newEditor(t, solid(100, 80, white), Options{})
	sp := coords.ScreenPoint{X: 30, Y: 20}
	before := e.System().ScreenToWorld(sp)
	e.HandleMouse(mouse.Event{X: 30, Y: 20, Button: mouse.ButtonWheelUp, Direction: mouse.DirStep})
	if z := e.System().Zoom(); math.Abs(z-wheelFactor) > 1e-9 {
		t.Fatalf("zoom = %v, want %v", z, wheelFactor)
	}
	after := e.System().ScreenToWorld(sp)
	if math.Abs(after.X-before.X) > 1e-6 || math.Abs(after.Y-before.Y) > 1e-6 {
		t.Fatalf("anchor moved from %v to %v", before, after)
	}
	e.HandleKey(typeRune('0'))
	if z := e.System().Zoom(); z != 1 {
		t.Fatalf("zoom after reset = %v", z)
	}
}

func TestSpaceDragPans(t *testing.T) {
	e := newEditor(t, solid(50, 50, white), Options{})
	e.HandleKey(key.Event{Code: key.CodeSpacebar, Direction: key.DirPress})
	e.HandleMouse(press(5, 5))
	e.HandleMouse(move(8, 9))
	e.HandleMouse(release(8, 9))
	e.HandleKey(key.Event{Code: key.CodeSpacebar, Direction: key.DirRelease})
	if x, y := e.System().Pan(); x != 3 || y != 4 {
		t.Fatalf("pan = (%v, %v), want (3, 4)", x, y)
	}
	if got := e.Document().RGBAAt(5, 5); got != white {
		t.Fatalf("pan painted the document: %v", got)
	}
}

func TestRenderFrame(t *testing.T) {
	th := theme.Default()
	e := newEditor(t, twoTone(40, 30), Options{Theme: th})
	e.Resize(40, 30+statusHeight, true)
	dst := image.NewRGBA(image.Rect(0, 0, 40, 30+statusHeight))
	e.Render(dst)

	if got := dst.RGBAAt(5, 15); got != red {
		t.Fatalf("canvas pixel = %v, want red", got)
	}
	if got := dst.RGBAAt(35, 15); got != blue {
		t.Fatalf("canvas pixel = %v, want blue", got)
	}
	if got := dst.RGBAAt(1, 30+statusHeight-1); got != th.StatusBackground {
		t.Fatalf("status pixel = %v, want %v", got, th.StatusBackground)
	}
}

func TestRenderSelectionTint(t *testing.T) {
	th := theme.Default()
	e := newEditor(t, twoTone(40, 30), Options{Theme: th})
	e.Resize(40, 30+statusHeight, true)
	e.HandleKey(typeRune('w'))
	e.HandleMouse(press(5, 5))
	settle(t, e)

	dst := image.NewRGBA(image.Rect(0, 0, 40, 30+statusHeight))
	e.Render(dst)
	// Tint {0,38,67,80} premultiplied over opaque red.
	want := color.RGBA{175, 38, 67, 255}
	if got := dst.RGBAAt(10, 15); !closeRGBA(got, want, 1) {
		t.Fatalf("selected pixel = %v, want %v", got, want)
	}
	if got := dst.RGBAAt(30, 15); got != blue {
		t.Fatalf("unselected pixel = %v, want blue", got)
	}
}

func closeRGBA(a, b color.RGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v <= tol && v >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestStatusLine(t *testing.T) {
	e := newEditor(t, solid(8, 8, white), Options{})
	e.HandleKey(typeRune('w'))
	line := e.StatusLine()
	for _, want := range []string{"wand", "tol 32", "zoom 100%"} {
		if !strings.Contains(line, want) {
			t.Errorf("status %q missing %q", line, want)
		}
	}
}
