// Package wand implements the magic-wand flood fill. A Run grows a selection
// outward from a seed one 4-connected ring at a time and can be advanced in
// small time-boxed steps so a frame loop never stalls on large images.
package wand

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/example/pixwand/internal/coords"
	"github.com/example/pixwand/internal/pixbuf"
)

const (
	DefaultTolerance = 32
	MaxTolerance     = 255

	// DefaultBudget is the wall-clock time one ProcessRing call may use.
	DefaultBudget = 8 * time.Millisecond

	// checkEvery is how many pixels are expanded between clock reads.
	checkEvery = 64

	// Selected is the mask value of an accepted pixel.
	Selected = 0xff
)

type class uint8

const (
	unseen class = iota
	accepted
	rejected
)

// Distance is the perceptual distance between two colours: a luminance
// weighted RGB difference plus the raw alpha difference.
func Distance(a, b color.RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	da := float64(a.A) - float64(b.A)
	return math.Sqrt(0.30*dr*dr + 0.59*dg*dg + 0.11*db*db + da*da)
}

// Options tune a Run. Zero values select defaults.
type Options struct {
	// Now is the clock used for the time budget. Tests inject a fake.
	Now func() time.Time
}

// Run is one flood fill in progress. It reads buf but never writes it; the
// caller must not mutate the buffer while the run is live. A Run is not safe
// for concurrent use.
type Run struct {
	buf  *pixbuf.Buffer
	seed coords.ImagePoint
	ref  color.RGBA
	tol  float64
	now  func() time.Time

	mask     []byte
	class    []class
	frontier []int

	cur, next []int
	head      int

	bounds   image.Rectangle
	accepted int
	ring     int
	done     bool
}

// New starts a run at seed. buf must already have passed pixbuf.Validate.
// A seed outside the buffer yields a run that is complete with an empty
// mask.
func New(buf *pixbuf.Buffer, seed coords.WorldPoint, tolerance float64, opts Options) *Run {
	pixbuf.MustValidate(buf, -1, -1, "wand run")
	r := &Run{
		buf:  buf,
		seed: coords.ToImage(seed),
		tol:  clampTolerance(tolerance),
		now:  opts.Now,
		mask: make([]byte, buf.Width*buf.Height),
	}
	if r.now == nil {
		r.now = time.Now
	}
	if !buf.In(r.seed.X, r.seed.Y) {
		r.done = true
		return r
	}
	r.class = make([]class, len(r.mask))
	r.ref = buf.At(r.seed.X, r.seed.Y)
	idx := r.seed.Y*buf.Width + r.seed.X
	r.accept(idx)
	r.cur = append(r.cur, idx)
	return r
}

func clampTolerance(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	return math.Min(t, MaxTolerance)
}

func (r *Run) accept(idx int) {
	r.class[idx] = accepted
	r.mask[idx] = Selected
	r.accepted++
	x, y := idx%r.buf.Width, idx/r.buf.Width
	if r.bounds.Empty() {
		r.bounds = image.Rect(x, y, x+1, y+1)
		return
	}
	if x < r.bounds.Min.X {
		r.bounds.Min.X = x
	}
	if y < r.bounds.Min.Y {
		r.bounds.Min.Y = y
	}
	if x >= r.bounds.Max.X {
		r.bounds.Max.X = x + 1
	}
	if y >= r.bounds.Max.Y {
		r.bounds.Max.Y = y + 1
	}
}

func (r *Run) colorAt(idx int) color.RGBA {
	p := r.buf.Pix[idx*4 : idx*4+4 : idx*4+4]
	return color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}
}

func (r *Run) visit(idx int) {
	if r.class[idx] != unseen {
		return
	}
	if Distance(r.ref, r.colorAt(idx)) <= r.tol {
		r.accept(idx)
		r.next = append(r.next, idx)
		return
	}
	r.class[idx] = rejected
	r.frontier = append(r.frontier, idx)
}

func (r *Run) expand(idx int) {
	w := r.buf.Width
	x, y := idx%w, idx/w
	if x > 0 {
		r.visit(idx - 1)
	}
	if x < w-1 {
		r.visit(idx + 1)
	}
	if y > 0 {
		r.visit(idx - w)
	}
	if y < r.buf.Height-1 {
		r.visit(idx + w)
	}
}

// ProcessRing expands queued pixels until the queues are empty or budget has
// elapsed, moving on to the next ring whenever the current one drains. It
// reports whether the run is complete. A non-positive budget uses
// DefaultBudget.
func (r *Run) ProcessRing(budget time.Duration) bool {
	if r.done {
		return true
	}
	if budget <= 0 {
		budget = DefaultBudget
	}
	start := r.now()
	for n := 1; ; n++ {
		if r.head == len(r.cur) {
			if len(r.next) == 0 {
				r.cur, r.head = r.cur[:0], 0
				r.done = true
				return true
			}
			r.cur, r.next = r.next, r.cur[:0]
			r.head = 0
			r.ring++
		}
		idx := r.cur[r.head]
		r.head++
		r.expand(idx)
		if n%checkEvery == 0 && r.now().Sub(start) > budget {
			return false
		}
	}
}

// UpdateTolerance changes the threshold mid-run. Raising it re-tests every
// frontier pixel; those that now match are accepted and queued so expansion
// resumes from them even if the run had completed. Lowering it only affects
// pixels not yet examined.
func (r *Run) UpdateTolerance(t float64) {
	t = clampTolerance(t)
	raise := t > r.tol
	r.tol = t
	if !raise || len(r.frontier) == 0 {
		return
	}
	kept := r.frontier[:0]
	promoted := 0
	for _, idx := range r.frontier {
		if Distance(r.ref, r.colorAt(idx)) <= t {
			r.accept(idx)
			r.cur = append(r.cur, idx)
			promoted++
			continue
		}
		kept = append(kept, idx)
	}
	r.frontier = kept
	if promoted > 0 {
		r.done = false
	}
}

// Mask returns the live mask, one byte per pixel, Selected where accepted.
// It is updated in place by later calls and must not be modified.
func (r *Run) Mask() []byte { return r.mask }

// Bounds is the tight rectangle around accepted pixels, or the empty
// rectangle when nothing is selected.
func (r *Run) Bounds() image.Rectangle { return r.bounds }

func (r *Run) Accepted() int { return r.accepted }
func (r *Run) Ring() int { return r.ring }
func (r *Run) Completed() bool { return r.done }
func (r *Run) Tolerance() float64 { return r.tol }
func (r *Run) Seed() coords.ImagePoint { return r.seed }
func (r *Run) Reference() color.RGBA { return r.ref }
func (r *Run) FrontierLen() int { return len(r.frontier) }

// Size returns the dimensions of the buffer the run reads.
func (r *Run) Size() (w, h int) { return r.buf.Width, r.buf.Height }

// Selection copies the current mask into an immutable Selection.
func (r *Run) Selection() Selection {
	data := make([]byte, len(r.mask))
	copy(data, r.mask)
	return Selection{Data: data, Width: r.buf.Width, Height: r.buf.Height, Bounds: r.bounds}
}
