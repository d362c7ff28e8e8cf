package starchart

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/starchart/internal/raster"
)

// Color is a linear-light RGB triple with components in [0, 1] for
// descriptor inputs. Buffers accumulate unclamped, so rendered values
// routinely exceed 1 before tone mapping.
type Color struct {
	R, G, B float64
}

// ParseColor parses a hex color string ("#RGB" or "#RRGGBB", leading '#'
// optional). Returns an error for any other encoding.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Color{}, fmt.Errorf("starchart: empty color")
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	// colorful.Hex scans other lengths (e.g. 5 digits) without complaint,
	// so gate the shape here.
	if len(s) != 4 && len(s) != 7 {
		return Color{}, fmt.Errorf("starchart: unsupported color %q", s)
	}
	if len(s) == 4 { // #RGB -> #RRGGBB; colorful only accepts 6-digit hex
		s = fmt.Sprintf("#%c%c%c%c%c%c", s[1], s[1], s[2], s[2], s[3], s[3])
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("starchart: unsupported color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B}, nil
}

// MustColor parses a hex color and panics on failure. For package-level
// defaults and tests.
func MustColor(s string) Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Mix linearly interpolates between c and other in RGB. t is clamped to
// [0, 1].
func (c Color) Mix(other Color, t float64) Color {
	t = clamp(t, 0, 1)
	a := colorful.Color{R: c.R, G: c.G, B: c.B}
	b := colorful.Color{R: other.R, G: other.G, B: other.B}
	m := a.BlendRgb(b, t)
	return Color{R: m.R, G: m.G, B: m.B}
}

// rgb32 converts to the buffer sample type.
func (c Color) rgb32() raster.RGB {
	return raster.RGB{R: float32(c.R), G: float32(c.G), B: float32(c.B)}
}

// clamp limits v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
