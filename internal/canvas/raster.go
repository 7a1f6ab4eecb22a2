package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// Raster is a Surface that paints into an *image.RGBA. Shapes are converted to
// polygons in device space and rasterised with golang.org/x/image/vector, so
// every primitive is anti-aliased and honours the current transform.
type Raster struct {
	dst   *image.RGBA
	cur   state
	stack []state
}

var _ Surface = (*Raster)(nil)

// NewRaster allocates a transparent w×h raster.
func NewRaster(w, h int) *Raster {
	return NewRasterFor(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// NewRasterFor draws directly into img.
func NewRasterFor(img *image.RGBA) *Raster {
	return &Raster{dst: img, cur: defaultState()}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA { return r.dst }

func (r *Raster) Save() { r.stack = append(r.stack, r.cur) }

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.cur = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) Translate(x, y float64) { r.cur.translate(x, y) }
func (r *Raster) Scale(sx, sy float64) { r.cur.scale(sx, sy) }
func (r *Raster) SetComposite(op Composite) { r.cur.composite = op }
func (r *Raster) SetFillColor(c color.Color) { r.cur.fill = c }
func (r *Raster) SetStrokeColor(c color.Color) { r.cur.stroke = c }
func (r *Raster) SetLineWidth(w float64) { r.cur.lineWidth = w }
func (r *Raster) SetBlur(radius float64) { r.cur.blur = math.Max(0, radius) }

func (r *Raster) SetGlobalAlpha(a float64) {
	r.cur.alpha = math.Min(1, math.Max(0, a))
}

func (r *Raster) Clear() {
	for i := range r.dst.Pix {
		r.dst.Pix[i] = 0
	}
}

func (r *Raster) StrokeLine(x0, y0, x1, y1 float64) {
	ax, ay := r.apply(x0, y0)
	bx, by := r.apply(x1, y1)
	hw := r.halfWidth()
	polys := []polygon{circlePolygon(ax, ay, hw), circlePolygon(bx, by, hw)}
	dx, dy := bx-ax, by-ay
	if l := math.Hypot(dx, dy); l > 1e-9 {
		nx, ny := -dy/l*hw, dx/l*hw
		polys = append(polys, polygon{
			{ax + nx, ay + ny}, {bx + nx, by + ny}, {bx - nx, by - ny}, {ax - nx, ay - ny},
		})
	}
	r.paint(polys, r.cur.stroke)
}

func (r *Raster) FillRect(x, y, w, h float64) {
	r.paint([]polygon{r.rectPolygon(x, y, w, h)}, r.cur.fill)
}

func (r *Raster) StrokeRect(x, y, w, h float64) {
	lw := r.cur.lineWidth
	hl := lw / 2
	r.paint([]polygon{
		r.rectPolygon(x-hl, y-hl, w+lw, lw),
		r.rectPolygon(x-hl, y+h-hl, w+lw, lw),
		r.rectPolygon(x-hl, y-hl, lw, h+lw),
		r.rectPolygon(x+w-hl, y-hl, lw, h+lw),
	}, r.cur.stroke)
}

func (r *Raster) FillCircle(cx, cy, rad float64) {
	x, y := r.apply(cx, cy)
	r.paint([]polygon{circlePolygon(x, y, rad*r.scaleFactor())}, r.cur.fill)
}

func (r *Raster) StrokeCircle(cx, cy, rad float64) {
	x, y := r.apply(cx, cy)
	s := r.scaleFactor()
	hw := r.halfWidth()
	n := segments(rad*s + hw)
	outer := circlePolygonN(x, y, rad*s+hw, n)
	inner := circlePolygonN(x, y, math.Max(0, rad*s-hw), n)
	polys := make([]polygon, 0, len(outer))
	for i := range outer {
		j := (i + 1) % len(outer)
		polys = append(polys, polygon{outer[i], outer[j], inner[j], inner[i]})
	}
	r.paint(polys, r.cur.stroke)
}

func (r *Raster) apply(x, y float64) (float64, float64) {
	m := r.cur.m
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

func (r *Raster) scaleFactor() float64 {
	m := r.cur.m
	return math.Sqrt(math.Abs(m[0]*m[4] - m[1]*m[3]))
}

func (r *Raster) halfWidth() float64 {
	return math.Max(0.5, r.cur.lineWidth*r.scaleFactor()/2)
}

func (r *Raster) rectPolygon(x, y, w, h float64) polygon {
	p := make(polygon, 4)
	p[0][0], p[0][1] = r.apply(x, y)
	p[1][0], p[1][1] = r.apply(x+w, y)
	p[2][0], p[2][1] = r.apply(x+w, y+h)
	p[3][0], p[3][1] = r.apply(x, y+h)
	return p
}

// paint rasterises polys into a coverage mask clipped to the destination,
// softens it by the blur radius and composites col through it.
func (r *Raster) paint(polys []polygon, col color.Color) {
	if len(polys) == 0 || r.cur.alpha == 0 {
		return
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range polys {
		for _, pt := range p {
			minX, maxX = math.Min(minX, pt[0]), math.Max(maxX, pt[0])
			minY, maxY = math.Min(minY, pt[1]), math.Max(maxY, pt[1])
		}
	}
	sigma := r.cur.blur * r.scaleFactor()
	pad := int(math.Ceil(sigma*3)) + 1
	rect := image.Rect(
		int(math.Floor(minX))-pad, int(math.Floor(minY))-pad,
		int(math.Ceil(maxX))+pad, int(math.Ceil(maxY))+pad,
	).Intersect(r.dst.Bounds())
	if rect.Empty() {
		return
	}

	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	ox, oy := float64(rect.Min.X), float64(rect.Min.Y)
	for _, p := range polys {
		if len(p) < 3 {
			continue
		}
		p.orient()
		z.MoveTo(float32(p[0][0]-ox), float32(p[0][1]-oy))
		for _, pt := range p[1:] {
			z.LineTo(float32(pt[0]-ox), float32(pt[1]-oy))
		}
		z.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	if sigma > 0 {
		mask = blurAlpha(mask, sigma)
	}
	if r.cur.alpha < 1 {
		for i, v := range mask.Pix {
			mask.Pix[i] = uint8(float64(v)*r.cur.alpha + 0.5)
		}
	}

	switch r.cur.composite {
	case DestinationOut:
		r.erase(rect, mask)
	default:
		draw.DrawMask(r.dst, rect, image.NewUniform(col), image.Point{}, mask, image.Point{}, draw.Over)
	}
}

func (r *Raster) erase(rect image.Rectangle, mask *image.Alpha) {
	for y := 0; y < rect.Dy(); y++ {
		for x := 0; x < rect.Dx(); x++ {
			m := mask.Pix[y*mask.Stride+x]
			if m == 0 {
				continue
			}
			keep := 255 - uint32(m)
			i := r.dst.PixOffset(rect.Min.X+x, rect.Min.Y+y)
			for c := 0; c < 4; c++ {
				r.dst.Pix[i+c] = uint8(uint32(r.dst.Pix[i+c]) * keep / 255)
			}
		}
	}
}

func blurAlpha(mask *image.Alpha, sigma float64) *image.Alpha {
	blurred := imaging.Blur(mask, sigma)
	out := image.NewAlpha(mask.Bounds())
	for i := range out.Pix {
		out.Pix[i] = blurred.Pix[i*4+3]
	}
	return out
}

type polygon [][2]float64

// orient makes the winding positive so overlapping shapes accumulate rather
// than cancel in the rasteriser.
func (p polygon) orient() {
	var area float64
	for i := range p {
		j := (i + 1) % len(p)
		area += p[i][0]*p[j][1] - p[j][0]*p[i][1]
	}
	if area < 0 {
		for i, j := 0, len(p)-1; i < j; i, j = i+1, j-1 {
			p[i], p[j] = p[j], p[i]
		}
	}
}

func segments(r float64) int {
	n := int(math.Ceil(math.Pi * r))
	if n < 16 {
		n = 16
	}
	return n
}

func circlePolygon(cx, cy, r float64) polygon {
	return circlePolygonN(cx, cy, r, segments(r))
}

func circlePolygonN(cx, cy, r float64, n int) polygon {
	p := make(polygon, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		p[i] = [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)}
	}
	return p
}
