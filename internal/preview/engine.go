// Package preview drives the magic wand interactively. An Engine owns at most
// one flood fill at a time, advances it one time-boxed step per scheduled
// frame and reports partial masks as it grows.
package preview

import (
	"fmt"
	"image"
	"log"
	"time"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/coords"
	"github.com/example/pixwand/internal/ledger"
	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/wand"
)

// State is the lifecycle of the engine's current wave.
type State int

const (
	Idle State = iota
	Running
	Complete
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Complete:
		return "complete"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Progress is a view of a wave after one tick. Mask aliases the run's live
// mask and is only valid until the next tick.
type Progress struct {
	ID       uint64
	Ring     int
	Accepted int
	Bounds   image.Rectangle
	Mask     []byte
	Width    int
	Height   int
}

type (
	ProgressFunc func(Progress)
	CompleteFunc func(wand.Selection)
)

// Config wires an Engine to its host.
type Config struct {
	// Scheduler runs ticks. A FrameScheduler is used when nil.
	Scheduler Scheduler

	// Layer is the preview surface the seed marker is drawn on and which is
	// cleared on cancel. It may be nil.
	Layer canvas.Surface

	// Budget bounds the work done per tick. Zero means wand.DefaultBudget.
	Budget time.Duration

	// Now is passed to each run's clock.
	Now func() time.Time

	Seed *SeedStyle
}

// Engine runs progressive wand selections. It must be used from a single
// goroutine, the same one that runs its Scheduler.
type Engine struct {
	ledger *ledger.Ledger
	sched  Scheduler
	layer  canvas.Surface
	budget time.Duration
	now    func() time.Time
	seed   SeedStyle

	state      State
	id         uint64
	run        *wand.Run
	onProgress ProgressFunc
	onComplete CompleteFunc
}

func NewEngine(cfg Config) *Engine {
	e := &Engine{
		ledger: ledger.New(),
		sched:  cfg.Scheduler,
		layer:  cfg.Layer,
		budget: cfg.Budget,
		now:    cfg.Now,
		seed:   DefaultSeedStyle,
	}
	if e.sched == nil {
		e.sched = &FrameScheduler{}
	}
	if e.budget <= 0 {
		e.budget = wand.DefaultBudget
	}
	if cfg.Seed != nil {
		e.seed = *cfg.Seed
	}
	return e
}

func (e *Engine) State() State { return e.state }

// ID returns the request ID of the current or most recent wave.
func (e *Engine) ID() uint64 { return e.id }

// SetLayer swaps the preview surface, for example after a resize.
func (e *Engine) SetLayer(layer canvas.Surface) { e.layer = layer }

// StartWave supersedes any previous wave and begins a new selection at seed.
// The seed marker is drawn before it returns; the first tick runs on the
// next frame. It returns false and leaves the engine idle when buf is
// missing or malformed.
func (e *Engine) StartWave(buf *pixbuf.Buffer, seed coords.WorldPoint, tolerance float64, onProgress ProgressFunc, onComplete CompleteFunc) bool {
	if e.run != nil {
		e.Cancel()
	}
	if !pixbuf.Validate(buf, -1, -1, "start wave") {
		e.ledger.Reset()
		e.state = Idle
		return false
	}
	e.id = e.ledger.Issue()
	DrawInstantSeed(e.layer, seed, e.seed)
	e.run = wand.New(buf, seed, tolerance, wand.Options{Now: e.now})
	e.onProgress = onProgress
	e.onComplete = onComplete
	e.state = Running
	e.schedule(e.id, e.run)
	return true
}

// Cancel stops the current wave, forgets its run and clears the preview
// layer. Pending ticks for it become no-ops.
func (e *Engine) Cancel() {
	if e.run != nil || e.state == Running || e.state == Complete {
		e.state = Cancelled
	}
	e.ledger.Invalidate(e.id)
	e.run = nil
	e.onProgress = nil
	e.onComplete = nil
	if e.layer != nil {
		e.layer.Clear()
	}
}

// UpdateTolerance forwards t to the live run. A raise that reopens a
// completed run puts the engine back into Running.
func (e *Engine) UpdateTolerance(t float64) {
	if e.run == nil || !e.ledger.Valid(e.id) {
		return
	}
	e.run.UpdateTolerance(t)
	if e.state == Complete && !e.run.Completed() {
		e.state = Running
		e.schedule(e.id, e.run)
	}
}

// Selection returns the current selection of the live run.
func (e *Engine) Selection() (wand.Selection, bool) {
	if e.run == nil {
		return wand.Selection{}, false
	}
	return e.run.Selection(), true
}

func (e *Engine) schedule(id uint64, run *wand.Run) {
	var tick func()
	tick = func() {
		if !e.ledger.Valid(id) {
			return
		}
		done, err := e.step(run)
		if err != nil {
			log.Printf("wand: wave %d stopped: %v", id, err)
			e.ledger.Invalidate(id)
			if e.id == id {
				e.state = Cancelled
				e.run = nil
			}
			return
		}
		if e.onProgress != nil {
			w, h := run.Size()
			e.onProgress(Progress{
				ID:       id,
				Ring:     run.Ring(),
				Accepted: run.Accepted(),
				Bounds:   run.Bounds(),
				Mask:     run.Mask(),
				Width:    w,
				Height:   h,
			})
		}
		if !e.ledger.Valid(id) {
			return
		}
		if !done {
			e.sched.Schedule(tick)
			return
		}
		e.state = Complete
		if e.onComplete != nil {
			e.onComplete(run.Selection())
		}
	}
	e.sched.Schedule(tick)
}

func (e *Engine) step(run *wand.Run) (done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panic: %v", r)
		}
	}()
	return run.ProcessRing(e.budget), nil
}
