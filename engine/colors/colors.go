package colors

import "github.com/hubastard/meshbridge/engine/gui"

// Color is straight (not premultiplied) RGBA in [0, 1].
type Color [4]float32

var (
	Transparent = Color{0, 0, 0, 0}
	White       = Color{1, 1, 1, 1}
	Red         = Color{1, 0, 0, 1}
	Green       = Color{0, 1, 0, 1}
	Blue        = Color{0, 0, 1, 1}
	Black       = Color{0, 0, 0, 1}
	Magenta     = Color{1, 0, 1, 1}
	Cyan        = Color{0, 1, 1, 1}
	Yellow      = Color{1, 1, 0, 1}
	Gray        = Color{0.5, 0.5, 0.5, 1}
	DarkGray    = Color{0.08, 0.10, 0.12, 1}
)

func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Scale multiplies the color channels by f, leaving alpha alone.
func (c Color) Scale(f float32) Color {
	return Color{clamp01(c[0] * f), clamp01(c[1] * f), clamp01(c[2] * f), c[3]}
}

// Premultiplied converts to the vertex color format, which the painter
// blends as premultiplied alpha.
func (c Color) Premultiplied() gui.Color32 {
	a := clamp01(c[3])
	return gui.Color32{
		to8(clamp01(c[0]) * a),
		to8(clamp01(c[1]) * a),
		to8(clamp01(c[2]) * a),
		to8(a),
	}
}

func to8(v float32) uint8 { return uint8(v*255 + 0.5) }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
