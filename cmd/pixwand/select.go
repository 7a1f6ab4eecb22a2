package main

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/clipboard"
	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/preview"
	"github.com/example/pixwand/internal/render"
	"github.com/example/pixwand/internal/source"
	"github.com/example/pixwand/internal/wand"
)

type selectOptions struct {
	at        string
	tolerance float64
	raise     float64
	budget    time.Duration
	maxFrames int
	mask      string
	cutout    string
	feather   int
	trim      bool
	trace     bool
	copy      bool
}

func newSelectCmd(a *app) *cobra.Command {
	var opts selectOptions
	cmd := &cobra.Command{
		Use:   "select <image|clipboard:|desktop:|-> --at X,Y",
		Short: "Run the magic wand headless and report the selection",
		Long: `Run the progressive magic wand on an image, one time-boxed frame at a
time, until the selection stops growing. The report lists the frames and
rings used, the selection bounds, its pixel count and a digest of the mask.

--raise widens the finished selection to a higher tolerance without
starting over, as the editor does when tolerance is increased.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("tolerance") {
				opts.tolerance = a.cfg.Wand.Tolerance
			}
			if !cmd.Flags().Changed("feather") {
				opts.feather = a.cfg.Wand.Feather
			}
			if opts.budget <= 0 {
				opts.budget = time.Duration(a.cfg.Wand.BudgetMS) * time.Millisecond
			}
			return a.runSelect(cmd.OutOrStdout(), args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.at, "at", "", "seed point X,Y in image pixels")
	f.Float64VarP(&opts.tolerance, "tolerance", "t", 0, "colour tolerance 0-255 (default from config)")
	f.Float64Var(&opts.raise, "raise", 0, "after completing, widen the selection to this tolerance")
	f.DurationVar(&opts.budget, "budget", 0, "time budget per frame (default from config)")
	f.IntVar(&opts.maxFrames, "max-frames", 100000, "give up after this many frames")
	f.StringVar(&opts.mask, "mask", "", "write the selection mask as a grayscale PNG")
	f.StringVar(&opts.cutout, "cutout", "", "write the selected pixels with the mask as alpha")
	f.IntVar(&opts.feather, "feather", 0, "feather radius for --cutout and --copy (default from config)")
	f.BoolVar(&opts.trim, "trim", true, "trim the cutout to the selection bounds")
	f.BoolVar(&opts.trace, "trace", false, "print the seed marker drawing calls")
	f.BoolVar(&opts.copy, "copy", false, "copy the cutout to the clipboard")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func (a *app) runSelect(out io.Writer, ref string, opts selectOptions) error {
	seed, err := parsePoint(opts.at)
	if err != nil {
		return err
	}
	buf, err := source.Load(ref)
	if err != nil {
		return fmt.Errorf("load %s: %w", ref, err)
	}
	a.logVerbose("loaded %s %dx%d fingerprint %s", ref, buf.Width, buf.Height, buf.Fingerprint())

	sched := &preview.FrameScheduler{}
	cfg := preview.Config{Scheduler: sched, Budget: opts.budget}
	var rec *canvas.Recorder
	if opts.trace {
		rec = canvas.NewRecorder()
		cfg.Layer = rec
	}
	eng := preview.NewEngine(cfg)

	var (
		sel  wand.Selection
		last preview.Progress
		done bool
	)
	onProgress := func(p preview.Progress) {
		last = p
		a.logVerbose("ring %d: %d px", p.Ring, p.Accepted)
	}
	onComplete := func(s wand.Selection) {
		sel = s
		done = true
	}
	if !eng.StartWave(buf, seed, opts.tolerance, onProgress, onComplete) {
		return fmt.Errorf("select: %w", pixbuf.ErrNoBuffer)
	}
	frames := sched.Drain(opts.maxFrames)
	if done && opts.raise > opts.tolerance {
		a.logVerbose("raising tolerance to %g", opts.raise)
		eng.UpdateTolerance(opts.raise)
		frames += sched.Drain(opts.maxFrames)
	}
	if !done || sched.Pending() > 0 {
		eng.Cancel()
		return fmt.Errorf("select: selection still growing after %d frames", frames)
	}

	fmt.Fprintf(out, "frames: %d\n", frames)
	fmt.Fprintf(out, "rings: %d\n", last.Ring)
	fmt.Fprintf(out, "bounds: %s\n", geometry(sel.Bounds))
	fmt.Fprintf(out, "pixels: %d\n", sel.Count())
	fmt.Fprintf(out, "digest: %s\n", sel.Digest())
	if rec != nil {
		for _, op := range rec.Ops {
			fmt.Fprintf(out, "trace: %s\n", op)
		}
	}

	if opts.mask != "" {
		if err := imaging.Save(render.MaskImage(sel), opts.mask); err != nil {
			return fmt.Errorf("write mask: %w", err)
		}
		a.notifier.Save(opts.mask)
		a.logVerbose("wrote %s", opts.mask)
	}
	if opts.cutout != "" || opts.copy {
		cut, err := render.Cutout(buf.RGBA(), sel, render.CutoutOptions{Feather: opts.feather, Trim: opts.trim})
		if err != nil {
			return fmt.Errorf("cutout: %w", err)
		}
		if opts.cutout != "" {
			if err := imaging.Save(cut, opts.cutout); err != nil {
				return fmt.Errorf("write cutout: %w", err)
			}
			a.notifier.Save(opts.cutout)
			a.logVerbose("wrote %s", opts.cutout)
		}
		if opts.copy {
			if err := clipboard.WriteImage(cut); err != nil {
				return fmt.Errorf("copy: %w", err)
			}
			a.notifier.Copy(fmt.Sprintf("%d px selection", sel.Count()))
		}
	}
	a.notifier.Select(sel.String(), nil)
	return nil
}

// geometry formats r as WxH+X+Y, or "empty".
func geometry(r image.Rectangle) string {
	if r.Empty() {
		return "empty"
	}
	return fmt.Sprintf("%dx%d+%d+%d", r.Dx(), r.Dy(), r.Min.X, r.Min.Y)
}
