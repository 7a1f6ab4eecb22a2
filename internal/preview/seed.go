package preview

import (
	"image/color"
	"math"

	"github.com/example/pixwand/internal/canvas"
	"github.com/example/pixwand/internal/coords"
)

// SeedStyle colours the instant seed marker.
type SeedStyle struct {
	Core         color.Color
	Halo         color.Color
	HaloAlpha    float64
	Outline      color.Color
	OutlineWidth float64
}

// DefaultSeedStyle is used when an Engine is built without one.
var DefaultSeedStyle = SeedStyle{
	Core:         color.RGBA{R: 255, G: 255, B: 255, A: 255},
	Halo:         color.RGBA{R: 0, G: 160, B: 255, A: 255},
	HaloAlpha:    0.5,
	Outline:      color.RGBA{A: 255},
	OutlineWidth: 0.5,
}

// DrawInstantSeed marks the seed pixel on dst straight away: a soft 3×3 halo,
// the 1×1 core and an outline around the halo. dst must already carry the
// world transform.
func DrawInstantSeed(dst canvas.Surface, p coords.WorldPoint, style SeedStyle) {
	if dst == nil {
		return
	}
	x, y := math.Floor(p.X), math.Floor(p.Y)
	dst.Save()
	defer dst.Restore()
	dst.SetComposite(canvas.SourceOver)
	dst.SetBlur(0)

	dst.SetGlobalAlpha(style.HaloAlpha)
	dst.SetFillColor(style.Halo)
	dst.FillRect(x-1, y-1, 3, 3)

	dst.SetGlobalAlpha(1)
	dst.SetFillColor(style.Core)
	dst.FillRect(x, y, 1, 1)

	dst.SetStrokeColor(style.Outline)
	dst.SetLineWidth(style.OutlineWidth)
	dst.StrokeRect(x-1, y-1, 3, 3)
}
