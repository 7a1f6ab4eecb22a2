package editor

import (
	"fmt"
	"image"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

const (
	animationInterval = 120 * time.Millisecond
	maxWindowWidth    = 1600
	maxWindowHeight   = 1000
	minWindowWidth    = 320
	minWindowHeight   = 240
)

// Run opens the editor window and blocks until it is closed.
func Run(e *Editor, title string) {
	driver.Main(func(s screen.Screen) {
		if err := e.Main(s, title); err != nil {
			log.Printf("editor: %v", err)
		}
	})
}

// Main runs the event loop on s. Every paint event advances the wand by one
// scheduler frame, so a running wave keeps requesting paints until it
// completes.
func (e *Editor) Main(s screen.Screen, title string) error {
	ww, wh := e.initialSize()
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: ww, Height: wh, Title: title})
	if err != nil {
		return fmt.Errorf("new window: %w", err)
	}
	defer win.Release()

	var animating atomic.Bool
	done := make(chan struct{})
	defer close(done)
	go func() {
		t := time.NewTicker(animationInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if animating.Load() {
					win.Send(paint.Event{})
				}
			case <-done:
				return
			}
		}
	}()

	var width, height int
	fitted := false
	for {
		switch ev := win.NextEvent().(type) {
		case lifecycle.Event:
			if ev.To == lifecycle.StageDead {
				return nil
			}
		case size.Event:
			width, height = ev.WidthPx, ev.HeightPx
			e.Resize(width, height, !fitted)
			fitted = true
			win.Send(paint.Event{})
		case paint.Event:
			if width == 0 || height == 0 {
				continue
			}
			more := e.Tick()
			if err := e.paint(s, win, width, height); err != nil {
				log.Printf("paint: %v", err)
			}
			animating.Store(e.Animating())
			if more {
				win.Send(paint.Event{})
			}
		case mouse.Event:
			if e.HandleMouse(ev) {
				win.Send(paint.Event{})
			}
		case key.Event:
			if e.HandleKey(ev) {
				win.Send(paint.Event{})
			}
			if e.Quit() {
				return nil
			}
		case error:
			log.Printf("window: %v", ev)
		}
	}
}

func (e *Editor) paint(s screen.Screen, win screen.Window, width, height int) error {
	b, err := s.NewBuffer(image.Point{X: width, Y: height})
	if err != nil {
		return fmt.Errorf("new buffer: %w", err)
	}
	defer b.Release()
	e.Render(b.RGBA())
	win.Upload(image.Point{}, b, b.Bounds())
	win.Publish()
	return nil
}

// initialSize sizes the window to the canvas plus status bar, clamped to a
// range that fits common screens.
func (e *Editor) initialSize() (int, int) {
	cw, ch := e.sys.CanvasSize()
	_, _, dpr := e.sys.Viewport()
	w := clampInt(int(cw*dpr), minWindowWidth, maxWindowWidth)
	h := clampInt(int(ch*dpr)+statusHeight, minWindowHeight, maxWindowHeight)
	return w, h
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
