package editor

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strings"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/preview"
	"github.com/example/pixwand/internal/render"
)

const (
	statusHeight = 20
	checkerSize  = 8
	antsDivisor  = 4
)

// Render composes the whole window into dst: background, checkerboard,
// document, selection overlay, seed layer, tool chrome and the status bar.
func (e *Editor) Render(dst *image.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, image.NewUniform(e.theme.Background), image.Point{}, draw.Src)
	view := image.Rect(b.Min.X, b.Min.Y, b.Max.X, b.Max.Y-statusHeight)
	if !view.Empty() {
		sub := dst.SubImage(view).(*image.RGBA)
		aff := e.sys.Affine()
		cw, ch := e.sys.CanvasSize()

		drawCheckerboard(sub, canvasRect(aff, cw, ch), checkerSize, e.theme.CheckerLight, e.theme.CheckerDark)
		e.scaler().Transform(sub, aff, e.doc, e.doc.Bounds(), xdraw.Over, nil)
		if e.hasProgress {
			e.drawSelection(sub, aff)
		}
		xdraw.NearestNeighbor.Transform(sub, aff, e.layer.Image(), e.layer.Image().Bounds(), xdraw.Over, nil)
		e.drawChrome(sub, cw, ch)
	}
	e.drawStatus(dst)
}

// scaler keeps pixels crisp when magnified and smooths when shrunk.
func (e *Editor) scaler() xdraw.Transformer {
	if e.sys.Zoom() >= 1 {
		return xdraw.NearestNeighbor
	}
	return xdraw.ApproxBiLinear
}

// canvasRect is the device rectangle the w×h canvas covers under aff.
func canvasRect(aff f64.Aff3, w, h float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(aff[2])), int(math.Floor(aff[5])),
		int(math.Ceil(aff[0]*w+aff[2])), int(math.Ceil(aff[4]*h+aff[5])),
	)
}

func (e *Editor) drawSelection(dst *image.RGBA, aff f64.Aff3) {
	p := e.progress
	ov := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	st := render.OverlayStyle{
		Tint:       e.theme.SelectionTint,
		Outline:    e.theme.SelectionOutline,
		OutlineAlt: e.theme.SelectionOutlineAlt,
		Dash:       render.DefaultOverlayStyle.Dash,
	}
	render.Overlay(ov, p.Mask, p.Width, p.Height, p.Bounds, st, e.phase/antsDivisor)
	xdraw.NearestNeighbor.Transform(dst, aff, ov, ov.Bounds(), xdraw.Over, nil)
}

// drawChrome draws the canvas border and the active tool's overlay in world
// coordinates.
func (e *Editor) drawChrome(dst *image.RGBA, cw, ch float64) {
	r := canvas.NewRasterFor(dst)
	e.sys.ApplyToContext(r)

	r.SetStrokeColor(e.theme.CanvasBorder)
	r.SetLineWidth(1 / e.sys.Zoom())
	r.StrokeRect(0, 0, cw, ch)

	wp := e.sys.ScreenToWorld(e.pointer)
	switch e.tool {
	case ToolCrop:
		e.crop.DrawOverlay(r, cw, ch)
	case ToolBrush:
		e.brush.DrawCursor(r, wp)
	case ToolEraser:
		e.eraser.DrawCursor(r, wp)
	}
}

// drawCheckerboard fills rect of dst, clipped to its bounds, with squares of
// the given size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.RGBA) {
	rect = rect.Intersect(dst.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c := dark
			if ((x/size)+(y/size))%2 == 0 {
				c = light
			}
			dst.SetRGBA(x, y, c)
		}
	}
}

func (e *Editor) drawStatus(dst *image.RGBA) {
	b := dst.Bounds()
	bar := image.Rect(b.Min.X, b.Max.Y-statusHeight, b.Max.X, b.Max.Y).Intersect(b)
	if bar.Empty() {
		return
	}
	draw.Draw(dst, bar, image.NewUniform(e.theme.StatusBackground), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(e.theme.Foreground),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(bar.Min.X+6, bar.Max.Y-6),
	}
	d.DrawString(e.StatusLine())
}

// StatusLine summarises the tool, tolerance, zoom and wave progress.
func (e *Editor) StatusLine() string {
	parts := []string{
		e.tool.String(),
		fmt.Sprintf("tol %.0f", e.tolerance),
		fmt.Sprintf("zoom %.0f%%", e.sys.Zoom()*100),
	}
	switch e.tool {
	case ToolBrush:
		parts = append(parts, fmt.Sprintf("size %.0f", e.brush.Size))
	case ToolEraser:
		parts = append(parts, fmt.Sprintf("size %.0f", e.eraser.Size))
	case ToolCrop:
		parts = append(parts, e.crop.Box().String())
	}
	if e.hasProgress {
		parts = append(parts, fmt.Sprintf("ring %d %d px", e.progress.Ring, e.progress.Accepted))
	}
	if st := e.engine.State(); st != preview.Idle {
		parts = append(parts, st.String())
	}
	if e.message != "" {
		parts = append(parts, e.message)
	}
	return strings.Join(parts, "  ")
}
