package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/pixwand/internal/theme"
)

// View holds the logical canvas and display settings.
type View struct {
	CanvasWidth      int
	CanvasHeight     int
	DevicePixelRatio float64
}

// Wand holds magic wand settings.
type Wand struct {
	Tolerance float64
	BudgetMS  int
	Feather   int
}

// Brush holds settings for a stroke tool.
type Brush struct {
	Size     float64
	Hardness float64
	Opacity  float64
	Color    color.RGBA
}

// Crop holds crop tool settings. Aspect is "free" or "W:H".
type Crop struct {
	Aspect string
}

// Notify holds notification settings.
type Notify struct {
	Save   bool
	Copy   bool
	Select bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	View    View
	Wand    Wand
	Brush   Brush
	Eraser  Brush
	Crop    Crop
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		View: View{
			CanvasWidth:      800,
			CanvasHeight:     600,
			DevicePixelRatio: 1,
		},
		Wand: Wand{
			Tolerance: 32,
			BudgetMS:  8,
		},
		Brush: Brush{
			Size:     12,
			Hardness: 0.8,
			Opacity:  1,
			Color:    color.RGBA{255, 0, 0, 255},
		},
		Eraser: Brush{
			Size:     24,
			Hardness: 0.5,
			Opacity:  1,
		},
		Crop:   Crop{Aspect: "free"},
		Themes: make(map[string]*theme.Theme),
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[view]\n")
	fmt.Fprintf(&sb, "canvas_width = %d\n", c.View.CanvasWidth)
	fmt.Fprintf(&sb, "canvas_height = %d\n", c.View.CanvasHeight)
	fmt.Fprintf(&sb, "device_pixel_ratio = %g\n", c.View.DevicePixelRatio)
	sb.WriteString("\n")

	sb.WriteString("[wand]\n")
	fmt.Fprintf(&sb, "tolerance = %g\n", c.Wand.Tolerance)
	fmt.Fprintf(&sb, "budget_ms = %d\n", c.Wand.BudgetMS)
	fmt.Fprintf(&sb, "feather = %d\n", c.Wand.Feather)
	sb.WriteString("\n")

	sb.WriteString("[brush]\n")
	fmt.Fprintf(&sb, "size = %g\n", c.Brush.Size)
	fmt.Fprintf(&sb, "hardness = %g\n", c.Brush.Hardness)
	fmt.Fprintf(&sb, "opacity = %g\n", c.Brush.Opacity)
	fmt.Fprintf(&sb, "color = %s\n", theme.Hex(c.Brush.Color))
	sb.WriteString("\n")

	sb.WriteString("[eraser]\n")
	fmt.Fprintf(&sb, "size = %g\n", c.Eraser.Size)
	fmt.Fprintf(&sb, "hardness = %g\n", c.Eraser.Hardness)
	sb.WriteString("\n")

	sb.WriteString("[crop]\n")
	fmt.Fprintf(&sb, "aspect = %s\n", c.Crop.Aspect)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "select = %v\n", c.Notify.Select)
	sb.WriteString("\n")

	// Themes sections
	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		_ = theme.Write(&sb, c.Themes[name])
		sb.WriteString("\n")
	}

	return sb.String()
}
