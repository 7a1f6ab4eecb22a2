// Package editor is the interactive window. It routes pointer, wheel and key
// events through the coordinate system to the paint tools, the crop box and
// the progressive wand, and composes each frame from the document, the
// selection overlay and the tool chrome.
package editor

import (
	"fmt"
	"image"
	"log"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/clipboard"
	"github.com/example/pixwand/internal/config"
	"github.com/example/pixwand/internal/coords"
	"github.com/example/pixwand/internal/notify"
	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/preview"
	"github.com/example/pixwand/internal/render"
	"github.com/example/pixwand/internal/theme"
	"github.com/example/pixwand/internal/tools"
	"github.com/example/pixwand/internal/wand"
)

type Tool int

const (
	ToolBrush Tool = iota
	ToolEraser
	ToolCrop
	ToolWand
)

func (t Tool) String() string {
	switch t {
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolCrop:
		return "crop"
	case ToolWand:
		return "wand"
	default:
		return fmt.Sprintf("Tool(%d)", int(t))
	}
}

const (
	toleranceStep = 8
	sizeStep      = 2
	wheelFactor   = 1.1
)

// Options configures a new Editor. Zero fields fall back to defaults.
type Options struct {
	Config   *config.Config
	Theme    *theme.Theme
	Notifier *notify.Notifier

	// Output is where Ctrl+S writes the document. When empty a name is
	// derived from the config save directory.
	Output string

	// Copy publishes an image to the clipboard. clipboard.WriteImage is
	// used when nil.
	Copy func(image.Image) error
}

// Editor holds everything one window shows. All methods must be called from
// the goroutine that runs the window's event loop; only notifications are
// sent from other goroutines.
type Editor struct {
	cfg      *config.Config
	theme    *theme.Theme
	notifier *notify.Notifier
	output   string
	copyFn   func(image.Image) error

	sys   *coords.System
	doc   *image.RGBA
	ink   *canvas.Raster
	layer *canvas.Raster

	// snapshot is the frozen copy of doc the wand reads. It is taken lazily
	// and dropped whenever doc changes.
	snapshot *pixbuf.Buffer

	sched   *preview.FrameScheduler
	engine  *preview.Engine
	waveBuf *pixbuf.Buffer

	// background runs notification work off the event loop.
	background func(func())

	tool      Tool
	brush     *tools.Brush
	eraser    *tools.Eraser
	crop      *tools.Crop
	tolerance float64

	seedPixel    coords.ImagePoint
	progress     preview.Progress
	hasProgress  bool
	selection    wand.Selection
	hasSelection bool

	pointer   coords.ScreenPoint
	dragging  bool
	panning   bool
	panLast   coords.ScreenPoint
	spaceDown bool
	phase     int
	message   string
	quit      bool
}

// New opens buf for editing. The logical canvas takes the buffer's size so
// world and image coordinates coincide.
func New(buf *pixbuf.Buffer, opts Options) (*Editor, error) {
	if err := pixbuf.Require(buf, -1, -1, "editor"); err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	e := &Editor{
		cfg:        cfg,
		theme:      th,
		notifier:   opts.Notifier,
		output:     opts.Output,
		copyFn:     opts.Copy,
		sched:      &preview.FrameScheduler{},
		background: func(f func()) { go f() },
		tool:       ToolBrush,
		tolerance:  cfg.Wand.Tolerance,
	}
	if e.copyFn == nil {
		e.copyFn = clipboard.WriteImage
	}

	e.brush = tools.NewBrush()
	e.brush.Size = cfg.Brush.Size
	e.brush.Hardness = cfg.Brush.Hardness
	e.brush.Opacity = cfg.Brush.Opacity
	e.brush.Color = cfg.Brush.Color
	e.eraser = tools.NewEraser()
	e.eraser.Size = cfg.Eraser.Size
	e.eraser.Hardness = cfg.Eraser.Hardness

	seed := preview.SeedStyle{
		Core:         th.SeedCore,
		Halo:         th.SeedHalo,
		HaloAlpha:    preview.DefaultSeedStyle.HaloAlpha,
		Outline:      th.SeedOutline,
		OutlineWidth: preview.DefaultSeedStyle.OutlineWidth,
	}
	e.engine = preview.NewEngine(preview.Config{
		Scheduler: e.sched,
		Budget:    time.Duration(cfg.Wand.BudgetMS) * time.Millisecond,
		Seed:      &seed,
	})
	e.setDocument(buf.RGBA())
	e.sys.SetViewport(float64(buf.Width), float64(buf.Height), cfg.View.DevicePixelRatio)

	aspect, err := tools.ParseAspect(cfg.Crop.Aspect)
	if err != nil {
		log.Printf("editor: %v", err)
	}
	e.crop.SetAspect(aspect)
	return e, nil
}

// setDocument installs img as the document, resizing the canvas and every
// world-sized layer to match.
func (e *Editor) setDocument(img *image.RGBA) {
	e.doc = img
	e.snapshot = nil
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if e.sys == nil {
		e.sys = coords.New(w, h)
	} else {
		e.sys.SetCanvasSize(w, h)
	}
	e.ink = canvas.NewRasterFor(img)
	e.layer = canvas.NewRaster(w, h)
	e.engine.SetLayer(e.layer)

	cs := tools.OverlayStyle{
		Shade:        e.theme.CropShade,
		Border:       e.theme.CropBorder,
		Grid:         e.theme.CropGrid,
		Handle:       e.theme.CropHandle,
		HandleBorder: e.theme.CropHandleBorder,
	}
	aspect := 0.0
	if e.crop != nil {
		aspect = e.crop.Aspect()
	}
	e.crop = tools.NewCrop(tools.Box{W: float64(w), H: float64(h)})
	e.crop.Style = cs
	e.crop.SetAspect(aspect)
}

func (e *Editor) Tool() Tool { return e.tool }

func (e *Editor) Tolerance() float64 { return e.tolerance }

func (e *Editor) System() *coords.System { return e.sys }

// Document returns the image being edited.
func (e *Editor) Document() *image.RGBA { return e.doc }

// Selection returns the last completed wand selection.
func (e *Editor) Selection() (wand.Selection, bool) { return e.selection, e.hasSelection }

func (e *Editor) WaveState() preview.State { return e.engine.State() }

// Quit reports whether the user asked to close the window.
func (e *Editor) Quit() bool { return e.quit }

// Message returns the last status message.
func (e *Editor) Message() string { return e.message }

func (e *Editor) setMessage(format string, args ...interface{}) {
	e.message = fmt.Sprintf(format, args...)
	log.Print(e.message)
}

// Resize records a new window size in device pixels. The first call also
// fits the canvas into the window.
func (e *Editor) Resize(widthPx, heightPx int, fit bool) {
	dpr := e.cfg.View.DevicePixelRatio
	if dpr <= 0 {
		dpr = 1
	}
	e.sys.SetViewport(float64(widthPx)/dpr, float64(heightPx)/dpr-statusHeight/dpr, dpr)
	if fit {
		e.sys.Fit()
	}
}

// Tick advances pending wand work by one frame and reports whether more
// frames are needed.
func (e *Editor) Tick() bool {
	e.sched.RunFrame()
	if e.hasSelection || e.engine.State() == preview.Running {
		e.phase++
	}
	return e.sched.Pending() > 0
}

// Animating reports whether the frame changes without input, either because
// a wave is running or marching ants are shown.
func (e *Editor) Animating() bool {
	return e.sched.Pending() > 0 || e.hasSelection
}

func (e *Editor) setTool(t Tool) {
	if e.tool == t {
		return
	}
	if e.tool == ToolCrop {
		e.crop.EndDrag()
	}
	e.tool = t
	e.setMessage("tool: %s", t)
}

// frozen returns the document snapshot, copying doc only when it changed
// since the last wave.
func (e *Editor) frozen() *pixbuf.Buffer {
	if e.snapshot == nil {
		e.snapshot = pixbuf.FromImage(e.doc)
	}
	return e.snapshot
}

// documentChanged drops the wand snapshot after pixels were painted.
func (e *Editor) documentChanged() { e.snapshot = nil }

// startWave begins a selection at the world point p on a snapshot of the
// document.
func (e *Editor) startWave(p coords.WorldPoint) {
	if !e.sys.IsInBounds(p) {
		return
	}
	e.hasProgress = false
	e.hasSelection = false
	e.layer.Clear()
	e.seedPixel = e.sys.WorldToImage(p)
	e.waveBuf = e.frozen()
	e.engine.StartWave(e.waveBuf, p, e.tolerance, e.onProgress, e.onComplete)
}

// dragWave restarts the wave under the pointer unless it is still over the
// current seed pixel.
func (e *Editor) dragWave(p coords.WorldPoint) {
	st := e.engine.State()
	if (st == preview.Running || st == preview.Complete) && e.sys.WorldToImage(p) == e.seedPixel {
		return
	}
	e.startWave(p)
}

func (e *Editor) onProgress(p preview.Progress) {
	e.progress = p
	e.hasProgress = true
}

func (e *Editor) onComplete(sel wand.Selection) {
	e.selection = sel
	e.hasSelection = true
	e.setMessage("selected %s", sel)
	if e.notifier.Enabled(notify.EventSelect) {
		// The wave's snapshot is never written, so the cutout can be built
		// off the event loop.
		n, buf := e.notifier, e.waveBuf
		e.background(func() {
			var icon image.Image
			if cut, err := render.Cutout(buf.RGBA(), sel, render.CutoutOptions{Trim: true}); err == nil {
				icon = cut
			} else {
				log.Printf("selection preview: %v", err)
			}
			n.Select(sel.String(), icon)
		})
	}
}

func (e *Editor) cancelWave() {
	e.engine.Cancel()
	e.hasProgress = false
	e.hasSelection = false
	e.selection = wand.Selection{}
}

func (e *Editor) adjustTolerance(delta float64) {
	t := e.tolerance + delta
	if t < 0 {
		t = 0
	}
	if t > wand.MaxTolerance {
		t = wand.MaxTolerance
	}
	e.tolerance = t
	e.engine.UpdateTolerance(t)
	if e.engine.State() == preview.Running {
		e.hasSelection = false
	}
	e.setMessage("tolerance %.0f", t)
}

func (e *Editor) resizeTool(delta float64) {
	switch e.tool {
	case ToolBrush:
		e.brush.Resize(delta)
		e.setMessage("brush %.0f", e.brush.Size)
	case ToolEraser:
		e.eraser.Resize(delta)
		e.setMessage("eraser %.0f", e.eraser.Size)
	}
}

// applyCrop replaces the document with the crop box contents. Any wave is
// cancelled because its mask no longer lines up with the pixels.
func (e *Editor) applyCrop() {
	out := e.crop.Apply(e.doc)
	if out == nil {
		e.setMessage("crop box is empty")
		return
	}
	e.cancelWave()
	e.setDocument(out)
	e.sys.Fit()
	e.setMessage("cropped to %dx%d", out.Bounds().Dx(), out.Bounds().Dy())
}

// copySelection puts the feathered cutout of the current selection on the
// clipboard, or the whole document when nothing is selected.
func (e *Editor) copySelection() {
	var img image.Image = e.doc
	detail := "image"
	if e.hasSelection {
		cut, err := render.Cutout(e.doc, e.selection, render.CutoutOptions{Feather: e.cfg.Wand.Feather, Trim: true})
		if err != nil {
			e.setMessage("copy: %v", err)
			return
		}
		img = cut
		detail = fmt.Sprintf("%d px selection", e.selection.Count())
	}
	if err := e.copyFn(img); err != nil {
		e.setMessage("copy: %v", err)
		return
	}
	n := e.notifier
	e.background(func() { n.Copy(detail) })
	e.setMessage("copied %s", detail)
}

func (e *Editor) outputPath() string {
	if e.output != "" {
		return e.output
	}
	name := fmt.Sprintf("pixwand-%s.png", time.Now().Format("20060102-150405"))
	if e.cfg.SaveDir != "" {
		return filepath.Join(e.cfg.SaveDir, name)
	}
	return name
}

func (e *Editor) save() {
	path := e.outputPath()
	if err := imaging.Save(e.doc, path); err != nil {
		e.setMessage("save: %v", err)
		return
	}
	n := e.notifier
	e.background(func() { n.Save(path) })
	e.setMessage("saved %s", path)
}
