package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/pixwand/internal/coords"
	"github.com/example/pixwand/internal/tools"
)

// parsePoint reads "X,Y" in world units.
func parsePoint(s string) (coords.WorldPoint, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return coords.WorldPoint{}, fmt.Errorf("point %q: want X,Y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return coords.WorldPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return coords.WorldPoint{}, fmt.Errorf("point %q: %w", s, err)
	}
	return coords.WorldPoint{X: x, Y: y}, nil
}

// parseBox reads a geometry string "WxH+X+Y". The offset may be omitted.
func parseBox(s string) (tools.Box, error) {
	s = strings.TrimSpace(s)
	size, off, hasOff := strings.Cut(s, "+")
	ws, hs, ok := strings.Cut(size, "x")
	if !ok {
		return tools.Box{}, fmt.Errorf("box %q: want WxH+X+Y", s)
	}
	var b tools.Box
	var err error
	if b.W, err = strconv.ParseFloat(ws, 64); err != nil {
		return tools.Box{}, fmt.Errorf("box %q: width: %w", s, err)
	}
	if b.H, err = strconv.ParseFloat(hs, 64); err != nil {
		return tools.Box{}, fmt.Errorf("box %q: height: %w", s, err)
	}
	if b.W <= 0 || b.H <= 0 {
		return tools.Box{}, fmt.Errorf("box %q: size must be positive", s)
	}
	if hasOff {
		xs, ys, ok := strings.Cut(off, "+")
		if !ok {
			return tools.Box{}, fmt.Errorf("box %q: want WxH+X+Y", s)
		}
		if b.X, err = strconv.ParseFloat(xs, 64); err != nil {
			return tools.Box{}, fmt.Errorf("box %q: x: %w", s, err)
		}
		if b.Y, err = strconv.ParseFloat(ys, 64); err != nil {
			return tools.Box{}, fmt.Errorf("box %q: y: %w", s, err)
		}
	}
	return b, nil
}
