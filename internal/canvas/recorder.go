package canvas

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/math/f64"
)

// Op is a single recorded drawing call together with the state that was in
// effect when it was issued.
type Op struct {
	Name      string
	Args      []float64
	Composite Composite
	Color     color.Color
	LineWidth float64
	Blur      float64
	Alpha     float64
}

func (o Op) String() string {
	args := make([]string, len(o.Args))
	for i, a := range o.Args {
		args[i] = fmt.Sprintf("%g", a)
	}
	return fmt.Sprintf("%s(%s)", o.Name, strings.Join(args, ", "))
}

// Recorder is a Surface that keeps every call instead of rasterising it.
// State changes are applied locally so each recorded Op carries the
// effective colour, width, blur and composite mode.
type Recorder struct {
	Ops   []Op
	cur   state
	stack []state
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder with default drawing state.
func NewRecorder() *Recorder {
	return &Recorder{cur: defaultState()}
}

func (r *Recorder) record(name string, col color.Color, args ...float64) {
	r.Ops = append(r.Ops, Op{
		Name:      name,
		Args:      args,
		Composite: r.cur.composite,
		Color:     col,
		LineWidth: r.cur.lineWidth,
		Blur:      r.cur.blur,
		Alpha:     r.cur.alpha,
	})
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.cur)
	r.record("save", nil)
}

func (r *Recorder) Restore() {
	if len(r.stack) > 0 {
		r.cur = r.stack[len(r.stack)-1]
		r.stack = r.stack[:len(r.stack)-1]
	}
	r.record("restore", nil)
}

func (r *Recorder) Translate(x, y float64) {
	r.cur.translate(x, y)
	r.record("translate", nil, x, y)
}

func (r *Recorder) Scale(sx, sy float64) {
	r.cur.scale(sx, sy)
	r.record("scale", nil, sx, sy)
}

func (r *Recorder) SetComposite(op Composite) { r.cur.composite = op }
func (r *Recorder) SetFillColor(c color.Color) { r.cur.fill = c }
func (r *Recorder) SetStrokeColor(c color.Color) { r.cur.stroke = c }
func (r *Recorder) SetLineWidth(w float64) { r.cur.lineWidth = w }
func (r *Recorder) SetBlur(radius float64) { r.cur.blur = radius }
func (r *Recorder) SetGlobalAlpha(a float64) { r.cur.alpha = a }
func (r *Recorder) Clear() { r.record("clear", nil) }
func (r *Recorder) FillRect(x, y, w, h float64) { r.record("fillRect", r.cur.fill, x, y, w, h) }
func (r *Recorder) StrokeRect(x, y, w, h float64) { r.record("strokeRect", r.cur.stroke, x, y, w, h) }

func (r *Recorder) StrokeLine(x0, y0, x1, y1 float64) {
	r.record("line", r.cur.stroke, x0, y0, x1, y1)
}

func (r *Recorder) FillCircle(cx, cy, rad float64) {
	r.record("fillCircle", r.cur.fill, cx, cy, rad)
}

func (r *Recorder) StrokeCircle(cx, cy, rad float64) {
	r.record("strokeCircle", r.cur.stroke, cx, cy, rad)
}

// Transform returns the current affine transform as
// [a b c d e f] mapping (x, y) to (a*x+b*y+c, d*x+e*y+f).
func (r *Recorder) Transform() f64.Aff3 { return r.cur.m }

// Named returns the recorded ops with the given name in call order.
func (r *Recorder) Named(name string) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Name == name {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded ops and restores the default state.
func (r *Recorder) Reset() {
	r.Ops = nil
	r.stack = nil
	r.cur = defaultState()
}
