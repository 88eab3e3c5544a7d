// Package render implements the surface projection and compositing pipeline:
// per-face attribute reduction, staged color compositing, directional
// shading, camera projection and painter-ordered rasterization into a tiled
// figure.
package render

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGBA quadruple with components in [0, 1]. Face colors are
// values of this type flowing through the compositing stages.
type Color struct {
	R, G, B, A float64
}

// Mul returns the element-wise product of two colors, alpha included.
// This is the label "tint" blend: a multiplicative darkening, not an
// alpha-over operator.
func (c Color) Mul(o Color) Color {
	return Color{c.R * o.R, c.G * o.G, c.B * o.B, c.A * o.A}
}

// Shade scales the R, G and B channels by the given intensity, leaving
// alpha untouched.
func (c Color) Shade(intensity float64) Color {
	return Color{c.R * intensity, c.G * intensity, c.B * intensity, c.A}
}

// RGBA8 converts to an 8-bit color, clamping each channel.
func (c Color) RGBA8() color.RGBA {
	return color.RGBA{
		R: clamp8(c.R),
		G: clamp8(c.G),
		B: clamp8(c.B),
		A: clamp8(c.A),
	}
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// namedColors covers the color names accepted for labels in scene files.
var namedColors = map[string]Color{
	"black":   {0, 0, 0, 1},
	"white":   {1, 1, 1, 1},
	"red":     {1, 0, 0, 1},
	"green":   {0, 0.5, 0, 1},
	"lime":    {0, 1, 0, 1},
	"blue":    {0, 0, 1, 1},
	"yellow":  {1, 1, 0, 1},
	"cyan":    {0, 1, 1, 1},
	"magenta": {1, 0, 1, 1},
	"orange":  {1, 0.647, 0, 1},
	"purple":  {0.5, 0, 0.5, 1},
	"grey":    {0.5, 0.5, 0.5, 1},
	"gray":    {0.5, 0.5, 0.5, 1},
}

// ParseColor accepts a color name or a #rrggbb hex string and returns an
// opaque Color.
func ParseColor(s string) (Color, error) {
	if c, ok := namedColors[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c, nil
	}
	hc, err := colorful.Hex(strings.TrimSpace(s))
	if err != nil {
		return Color{}, fmt.Errorf("unrecognized color %q: %w", s, err)
	}
	return Color{hc.R, hc.G, hc.B, 1}, nil
}

// nanColor is what a colormap returns for NaN input, matching the
// convention of treating missing data as fully transparent.
var nanColor = Color{}

func isNaN(v float64) bool { return math.IsNaN(v) }
