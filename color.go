package figura

import (
	"fmt"
	"strconv"
)

// Color represents an RGBA fill color.
type Color struct {
	R uint8 `json:"r" yaml:"r"` // Red channel component
	G uint8 `json:"g" yaml:"g"` // Green channel component
	B uint8 `json:"b" yaml:"b"` // Blue channel component
	A uint8 `json:"a" yaml:"a"` // Alpha channel component
}

// ColorDelta is a signed per-channel difference between two colors.
type ColorDelta struct {
	R, G, B, A int
}

// Black is the default fill of new shapes.
var Black = Color{A: 255}

// SetColorRGB creates an opaque Color.
func SetColorRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// ParseColor parses a #RRGGBB literal into an opaque Color.
func ParseColor(s string) (Color, error) {
	if len(s) != 7 || s[0] != '#' {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}

	return SetColorRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// Hex formats the RGB channels as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Sub returns the per-channel difference c - o.
func (c Color) Sub(o Color) ColorDelta {
	return ColorDelta{
		R: int(c.R) - int(o.R),
		G: int(c.G) - int(o.G),
		B: int(c.B) - int(o.B),
		A: int(c.A) - int(o.A),
	}
}

// Add applies a delta, clamping every channel to [0,255].
func (c Color) Add(d ColorDelta) Color {
	return Color{
		R: clampChannel(int(c.R) + d.R),
		G: clampChannel(int(c.G) + d.G),
		B: clampChannel(int(c.B) + d.B),
		A: clampChannel(int(c.A) + d.A),
	}
}

// IsZero reports whether the delta changes nothing.
func (d ColorDelta) IsZero() bool {
	return d == ColorDelta{}
}

// clampChannel clamps v to a color channel range.
func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
