package main

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/pixwand/internal/editor"
	"github.com/example/pixwand/internal/pixbuf"
	"github.com/example/pixwand/internal/source"
)

func newEditCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "edit [image|clipboard:|desktop:|-]",
		Short: "Open the interactive editor",
		Long: `Open an image in the editor window. Without an argument a blank canvas of
the configured size is used.

Keys: B brush, E eraser, C crop, W wand, [ ] tool size, + - tolerance,
0 reset view, F fit, Enter apply crop, Esc clear selection, Ctrl+C copy,
Ctrl+S save, Q quit. Scroll zooms at the pointer; middle or space drag pans.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, title, err := a.openEditable(args)
			if err != nil {
				return err
			}
			ed, err := editor.New(buf, editor.Options{
				Config:   a.cfg,
				Theme:    a.theme,
				Notifier: a.notifier,
				Output:   output,
			})
			if err != nil {
				return err
			}
			a.logVerbose("editing %s (%dx%d)", title, buf.Width, buf.Height)
			editor.Run(ed, "pixwand - "+title)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by Ctrl+S")
	return cmd
}

func (a *app) openEditable(args []string) (*pixbuf.Buffer, string, error) {
	if len(args) == 0 {
		v := a.cfg.View
		return source.Blank(v.CanvasWidth, v.CanvasHeight, color.White), "untitled", nil
	}
	buf, err := source.Load(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("load %s: %w", args[0], err)
	}
	return buf, filepath.Base(args[0]), nil
}
