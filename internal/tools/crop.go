package tools

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/coords"
)

const (
	// HandleSize is the side of each square resize handle in world units.
	HandleSize = 8
	// MinCropSize is the smallest width or height a resize can produce.
	MinCropSize = 20
)

// Handle identifies what part of the crop box a drag grabbed.
type Handle int

const (
	HandleNone Handle = iota
	HandleMove
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
)

var handleNames = [...]string{"none", "move", "nw", "n", "ne", "e", "se", "s", "sw", "w"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return fmt.Sprintf("Handle(%d)", int(h))
	}
	return handleNames[h]
}

func (h Handle) movesLeft() bool { return h == HandleNW || h == HandleW || h == HandleSW }
func (h Handle) movesRight() bool { return h == HandleNE || h == HandleE || h == HandleSE }
func (h Handle) movesTop() bool { return h == HandleNW || h == HandleN || h == HandleNE }
func (h Handle) movesBottom() bool { return h == HandleSW || h == HandleS || h == HandleSE }

// Box is a crop rectangle in world units.
type Box struct {
	X, Y, W, H float64
}

// Contains reports whether p lies inside the box.
func (b Box) Contains(p coords.WorldPoint) bool {
	return p.X >= b.X && p.Y >= b.Y && p.X < b.X+b.W && p.Y < b.Y+b.H
}

// Rect rounds the box to the pixel grid.
func (b Box) Rect() image.Rectangle {
	return image.Rect(
		int(math.Round(b.X)), int(math.Round(b.Y)),
		int(math.Round(b.X+b.W)), int(math.Round(b.Y+b.H)),
	)
}

func (b Box) String() string {
	return fmt.Sprintf("%gx%g+%g+%g", b.W, b.H, b.X, b.Y)
}

// handleBoxes lists the eight resize handles centred on the corners and
// edge midpoints, in Handle order starting at HandleNW.
func (b Box) handleBoxes() [8]Box {
	hs := HandleSize / 2.0
	cx, cy := b.X+b.W/2, b.Y+b.H/2
	r, btm := b.X+b.W, b.Y+b.H
	sq := func(x, y float64) Box { return Box{X: x - hs, Y: y - hs, W: HandleSize, H: HandleSize} }
	return [8]Box{
		sq(b.X, b.Y), // nw
		sq(cx, b.Y),  // n
		sq(r, b.Y),   // ne
		sq(r, cy),    // e
		sq(r, btm),   // se
		sq(cx, btm),  // s
		sq(b.X, btm), // sw
		sq(b.X, cy),  // w
	}
}

// OverlayStyle colours the crop overlay.
type OverlayStyle struct {
	Shade        color.Color
	Border       color.Color
	Grid         color.Color
	Handle       color.Color
	HandleBorder color.Color
}

var DefaultOverlayStyle = OverlayStyle{
	Shade:        color.RGBA{A: 0x80},
	Border:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	Grid:         color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 0x60},
	Handle:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	HandleBorder: color.RGBA{A: 0xff},
}

// Crop holds the crop box and the drag in progress. Box mutations are
// computed from the box at drag start plus the total pointer delta, so
// clamping never accumulates drift.
type Crop struct {
	box    Box
	aspect float64

	active   Handle
	start    coords.WorldPoint
	startBox Box

	Style OverlayStyle
}

func NewCrop(box Box) *Crop {
	return &Crop{box: box, Style: DefaultOverlayStyle}
}

func (c *Crop) Box() Box { return c.box }

func (c *Crop) SetBox(b Box) { c.box = b }

// Aspect returns the locked width/height ratio, or 0 when free.
func (c *Crop) Aspect() float64 { return c.aspect }

// SetAspect locks width/height to ratio for subsequent resizes. A ratio of
// 0 or less unlocks it.
func (c *Crop) SetAspect(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}
	c.aspect = ratio
}

// Active returns the handle being dragged, HandleNone when idle.
func (c *Crop) Active() Handle { return c.active }

// HitTest returns the handle under p. Handles win over the interior.
func (c *Crop) HitTest(p coords.WorldPoint) Handle {
	for i, hb := range c.box.handleBoxes() {
		if p.X >= hb.X && p.Y >= hb.Y && p.X <= hb.X+hb.W && p.Y <= hb.Y+hb.H {
			return HandleNW + Handle(i)
		}
	}
	if c.box.Contains(p) {
		return HandleMove
	}
	return HandleNone
}

// StartDrag begins a drag if p is on a handle or inside the box and
// reports whether it did.
func (c *Crop) StartDrag(p coords.WorldPoint) bool {
	h := c.HitTest(p)
	if h == HandleNone {
		return false
	}
	c.active = h
	c.start = p
	c.startBox = c.box
	return true
}

// ContinueDrag updates the box for the pointer at p.
func (c *Crop) ContinueDrag(p coords.WorldPoint) {
	if c.active == HandleNone {
		return
	}
	dx, dy := p.X-c.start.X, p.Y-c.start.Y
	s := c.startBox
	if c.active == HandleMove {
		c.box = Box{X: s.X + dx, Y: s.Y + dy, W: s.W, H: s.H}
		return
	}

	h := c.active
	w, ht := s.W, s.H
	switch {
	case h.movesLeft():
		w = s.W - dx
	case h.movesRight():
		w = s.W + dx
	}
	switch {
	case h.movesTop():
		ht = s.H - dy
	case h.movesBottom():
		ht = s.H + dy
	}
	w, ht = c.constrain(w, ht)

	x, y := s.X, s.Y
	if h.movesLeft() {
		x = s.X + s.W - w
	}
	if h.movesTop() {
		y = s.Y + s.H - ht
	}
	c.box = Box{X: x, Y: y, W: w, H: ht}
}

func (c *Crop) EndDrag() { c.active = HandleNone }

// ApplyAspect resizes the box in place to honour the locked aspect and the
// minimum size, keeping its top-left corner.
func (c *Crop) ApplyAspect() {
	c.box.W, c.box.H = c.constrain(c.box.W, c.box.H)
}

// constrain clamps a resized box to MinCropSize and derives the height from
// the width when an aspect is locked.
func (c *Crop) constrain(w, ht float64) (float64, float64) {
	w = math.Max(w, MinCropSize)
	ht = math.Max(ht, MinCropSize)
	if c.aspect > 0 {
		ht = w / c.aspect
		if ht < MinCropSize {
			ht = MinCropSize
			w = ht * c.aspect
		}
	}
	return w, ht
}

// DrawOverlay shades everything outside the box on a canvas of the given
// size, then draws the border, a rule-of-thirds grid and the handles.
func (c *Crop) DrawOverlay(dst canvas.Surface, canvasW, canvasH float64) {
	b := c.box
	st := c.Style
	dst.Save()
	defer dst.Restore()
	dst.SetComposite(canvas.SourceOver)
	dst.SetBlur(0)
	dst.SetGlobalAlpha(1)

	dst.SetFillColor(st.Shade)
	dst.FillRect(0, 0, canvasW, b.Y)
	dst.FillRect(0, b.Y+b.H, canvasW, canvasH-(b.Y+b.H))
	dst.FillRect(0, b.Y, b.X, b.H)
	dst.FillRect(b.X+b.W, b.Y, canvasW-(b.X+b.W), b.H)

	dst.SetLineWidth(1)
	dst.SetStrokeColor(st.Grid)
	for i := 1; i <= 2; i++ {
		fx := b.X + b.W*float64(i)/3
		fy := b.Y + b.H*float64(i)/3
		dst.StrokeLine(fx, b.Y, fx, b.Y+b.H)
		dst.StrokeLine(b.X, fy, b.X+b.W, fy)
	}

	dst.SetStrokeColor(st.Border)
	dst.StrokeRect(b.X, b.Y, b.W, b.H)

	dst.SetFillColor(st.Handle)
	dst.SetStrokeColor(st.HandleBorder)
	for _, hb := range b.handleBoxes() {
		dst.FillRect(hb.X, hb.Y, hb.W, hb.H)
		dst.StrokeRect(hb.X, hb.Y, hb.W, hb.H)
	}
}

// Apply returns the part of img under the box as a new image. Areas of the
// box outside img are left transparent.
func (c *Crop) Apply(img image.Image) *image.RGBA {
	rect := c.box.Rect()
	if rect.Empty() {
		return nil
	}
	rect = rect.Add(img.Bounds().Min)
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	src := rect.Intersect(img.Bounds())
	if !src.Empty() {
		draw.Draw(out, src.Sub(rect.Min), img, src.Min, draw.Src)
	}
	return out
}

// ParseAspect reads an aspect setting: "free" or "" for none, "W:H", or a
// plain ratio such as "1.5".
func ParseAspect(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "free" {
		return 0, nil
	}
	if w, h, ok := strings.Cut(s, ":"); ok {
		fw, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
		if err != nil {
			return 0, fmt.Errorf("aspect %q: %w", s, err)
		}
		fh, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
		if err != nil {
			return 0, fmt.Errorf("aspect %q: %w", s, err)
		}
		if fw <= 0 || fh <= 0 {
			return 0, fmt.Errorf("aspect %q: sides must be positive", s)
		}
		return fw / fh, nil
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("aspect %q: %w", s, err)
	}
	if r <= 0 {
		return 0, fmt.Errorf("aspect %q: must be positive", s)
	}
	return r, nil
}
