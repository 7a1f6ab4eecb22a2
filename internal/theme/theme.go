package theme

import (
	"image/color"
)

// Theme defines the colours the editor draws with. Like every color.RGBA the
// values are alpha-premultiplied; theme files use straight-alpha hex.
type Theme struct {
	Name string

	// Window
	Background       color.RGBA // Behind the canvas
	Foreground       color.RGBA // Status text
	StatusBackground color.RGBA

	// Canvas
	CheckerLight color.RGBA
	CheckerDark  color.RGBA
	CanvasBorder color.RGBA

	// Selection
	SelectionTint       color.RGBA // Fill over selected pixels
	SelectionOutline    color.RGBA // Marching ants, first phase
	SelectionOutlineAlt color.RGBA // Marching ants, second phase
	SeedCore            color.RGBA
	SeedHalo            color.RGBA
	SeedOutline         color.RGBA

	// Crop
	CropShade        color.RGBA
	CropBorder       color.RGBA
	CropGrid         color.RGBA
	CropHandle       color.RGBA
	CropHandleBorder color.RGBA

	// Tools
	BrushCursor  color.RGBA
	EraserCursor color.RGBA
}

// Default returns the hardcoded default light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                "Default",
		Background:          color.RGBA{220, 220, 220, 255},
		Foreground:          color.RGBA{0, 0, 0, 255},
		StatusBackground:    color.RGBA{200, 200, 200, 255},
		CheckerLight:        color.RGBA{220, 220, 220, 255},
		CheckerDark:         color.RGBA{192, 192, 192, 255},
		CanvasBorder:        color.RGBA{96, 96, 96, 255},
		SelectionTint:       color.RGBA{0, 38, 67, 80}, // #0078D750
		SelectionOutline:    color.RGBA{0, 0, 0, 255},
		SelectionOutlineAlt: color.RGBA{255, 255, 255, 255},
		SeedCore:            color.RGBA{255, 255, 255, 255},
		SeedHalo:            color.RGBA{0, 160, 255, 255},
		SeedOutline:         color.RGBA{0, 0, 0, 255},
		CropShade:           color.RGBA{0, 0, 0, 128},
		CropBorder:          color.RGBA{255, 255, 255, 255},
		CropGrid:            color.RGBA{96, 96, 96, 96},
		CropHandle:          color.RGBA{255, 255, 255, 255},
		CropHandleBorder:    color.RGBA{0, 0, 0, 255},
		BrushCursor:         color.RGBA{255, 0, 0, 255},
		EraserCursor:        color.RGBA{128, 128, 128, 255},
	}
}
