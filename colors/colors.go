package colors

import (
	"github.com/mandykoh/prism/srgb"
)

// Color is a linear RGBA color with components in [0, 1]
type Color struct {
	R, G, B, A float32
}

var (
	Black       = Color{0, 0, 0, 1}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Transparent = Color{0, 0, 0, 0}
)

func New(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// FromSRGB8 converts 8-bit sRGB encoded color channels to a linear color.
// Alpha is not gamma encoded and is only normalized.
func FromSRGB8(r, g, b, a uint8) Color {
	return Color{
		R: srgb.From8Bit(r),
		G: srgb.From8Bit(g),
		B: srgb.From8Bit(b),
		A: float32(a) / 255,
	}
}

// ToSRGB8 is the inverse of FromSRGB8. Channels are encoded at 16 bits and rounded down
// to 8, since the 8-bit lookup of srgb.To8Bit loses the darkest values.
func (c Color) ToSRGB8() (r, g, b, a uint8) {
	return to8Bit(c.R), to8Bit(c.G), to8Bit(c.B), uint8(clamp01(c.A)*255 + 0.5)
}

func to8Bit(v float32) uint8 {
	return uint8((uint32(srgb.To16Bit(v))*255 + 32767) / 65535)
}

// Data returns the color as a float array in RGBA order, the layout uniforms expect
func (c Color) Data() [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}

	if v > 1 {
		return 1
	}

	return v
}
