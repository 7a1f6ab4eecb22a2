package main

import (
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/example/pixwand/internal/source"
	"github.com/example/pixwand/internal/tools"
)

func newCropCmd(a *app) *cobra.Command {
	var box, aspect, output string
	cmd := &cobra.Command{
		Use:   "crop <image|clipboard:|desktop:|-> -o out.png",
		Short: "Crop an image to a box",
		Long: `Crop an image to a WxH+X+Y box. Without --box the whole image is kept.
--aspect locks the box to W:H by adjusting its height, the way the editor's
crop handles do, and defaults to the configured aspect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("aspect") {
				aspect = a.cfg.Crop.Aspect
			}
			return a.runCrop(cmd.OutOrStdout(), args[0], box, aspect, output)
		},
	}
	cmd.Flags().StringVar(&box, "box", "", "crop box as WxH+X+Y")
	cmd.Flags().StringVar(&aspect, "aspect", "", "lock the box to W:H, a ratio, or free")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output image")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func (a *app) runCrop(out io.Writer, ref, boxSpec, aspectSpec, output string) error {
	ratio, err := tools.ParseAspect(aspectSpec)
	if err != nil {
		return err
	}
	buf, err := source.Load(ref)
	if err != nil {
		return fmt.Errorf("load %s: %w", ref, err)
	}
	box := tools.Box{W: float64(buf.Width), H: float64(buf.Height)}
	if boxSpec != "" {
		if box, err = parseBox(boxSpec); err != nil {
			return err
		}
	}

	c := tools.NewCrop(box)
	if ratio > 0 {
		c.SetAspect(ratio)
		c.ApplyAspect()
	}
	img := c.Apply(buf.RGBA())
	if img == nil {
		return fmt.Errorf("crop: box %s is empty", c.Box())
	}
	if err := imaging.Save(img, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	a.notifier.Save(output)
	a.logVerbose("cropped %s to %s", ref, c.Box())
	fmt.Fprintf(out, "%s %dx%d\n", output, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}
