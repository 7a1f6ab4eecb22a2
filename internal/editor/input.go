package editor

import (
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/pixwand/internal/coords"
)

// HandleMouse applies one pointer event and reports whether the frame needs
// repainting.
func (e *Editor) HandleMouse(ev mouse.Event) bool {
	sp := e.screenPoint(ev.X, ev.Y)
	e.pointer = sp

	if ev.Button.IsWheel() {
		if ev.Direction == mouse.DirRelease {
			return false
		}
		return e.wheel(ev.Button, sp)
	}
	if e.panning {
		if ev.Direction == mouse.DirRelease {
			e.panning = false
			return false
		}
		e.sys.AddPan(sp.X-e.panLast.X, sp.Y-e.panLast.Y)
		e.panLast = sp
		return true
	}
	if ev.Direction == mouse.DirPress && (ev.Button == mouse.ButtonMiddle || (ev.Button == mouse.ButtonLeft && e.spaceDown)) {
		e.panning = true
		e.panLast = sp
		return false
	}

	wp := e.sys.ScreenToWorld(sp)
	switch {
	case ev.Direction == mouse.DirPress && ev.Button == mouse.ButtonLeft:
		e.dragging = true
		e.pointerDown(wp)
	case ev.Direction == mouse.DirRelease && ev.Button == mouse.ButtonLeft:
		if e.dragging {
			e.dragging = false
			e.pointerUp(wp)
		}
	case ev.Direction == mouse.DirNone && e.dragging:
		e.pointerDrag(wp)
	}
	return true
}

func (e *Editor) screenPoint(x, y float32) coords.ScreenPoint {
	_, _, dpr := e.sys.Viewport()
	return coords.ScreenPoint{X: float64(x) / dpr, Y: float64(y) / dpr}
}

func (e *Editor) wheel(b mouse.Button, sp coords.ScreenPoint) bool {
	z := e.sys.Zoom()
	switch b {
	case mouse.ButtonWheelUp:
		z *= wheelFactor
	case mouse.ButtonWheelDown:
		z /= wheelFactor
	default:
		return false
	}
	e.sys.ZoomAtPoint(z, sp)
	return true
}

func (e *Editor) pointerDown(p coords.WorldPoint) {
	switch e.tool {
	case ToolBrush:
		e.brush.StartStroke(p)
	case ToolEraser:
		e.eraser.StartStroke(p)
	case ToolCrop:
		e.crop.StartDrag(p)
	case ToolWand:
		e.startWave(p)
	}
}

// pointerDrag handles motion with the left button held. Dragging the wand
// onto another pixel supersedes the running wave with one seeded under the
// pointer.
func (e *Editor) pointerDrag(p coords.WorldPoint) {
	switch e.tool {
	case ToolBrush:
		e.brush.ContinueStroke(p, e.ink)
		e.documentChanged()
	case ToolEraser:
		e.eraser.ContinueStroke(p, e.ink)
		e.documentChanged()
	case ToolCrop:
		e.crop.ContinueDrag(p)
	case ToolWand:
		e.dragWave(p)
	}
}

func (e *Editor) pointerUp(p coords.WorldPoint) {
	switch e.tool {
	case ToolBrush:
		e.brush.ContinueStroke(p, e.ink)
		e.brush.EndStroke()
		e.documentChanged()
	case ToolEraser:
		e.eraser.ContinueStroke(p, e.ink)
		e.eraser.EndStroke()
		e.documentChanged()
	case ToolCrop:
		e.crop.ContinueDrag(p)
		e.crop.EndDrag()
	}
}

// HandleKey applies one key event and reports whether the frame needs
// repainting.
func (e *Editor) HandleKey(ev key.Event) bool {
	if ev.Code == key.CodeSpacebar {
		e.spaceDown = ev.Direction != key.DirRelease
		return false
	}
	if ev.Direction != key.DirPress {
		return false
	}
	if ev.Modifiers&key.ModControl != 0 {
		switch unicode.ToLower(ev.Rune) {
		case 'c':
			e.copySelection()
		case 's':
			e.save()
		default:
			return false
		}
		return true
	}
	switch ev.Code {
	case key.CodeEscape:
		e.cancelWave()
		e.setMessage("selection cleared")
		return true
	case key.CodeReturnEnter:
		if e.tool == ToolCrop {
			e.applyCrop()
			return true
		}
		return false
	}
	switch unicode.ToLower(ev.Rune) {
	case 'b':
		e.setTool(ToolBrush)
	case 'e':
		e.setTool(ToolEraser)
	case 'c':
		e.setTool(ToolCrop)
	case 'w':
		e.setTool(ToolWand)
	case '[':
		e.resizeTool(-sizeStep)
	case ']':
		e.resizeTool(sizeStep)
	case '+', '=':
		e.adjustTolerance(toleranceStep)
	case '-':
		e.adjustTolerance(-toleranceStep)
	case '0':
		e.sys.ResetView()
	case 'f':
		e.sys.Fit()
	case 'q':
		e.quit = true
	default:
		return false
	}
	return true
}
