package painter

import (
	"math"

	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
)

// ClipToScissor converts a clip rect in logical points to a physical scissor
// rect on a fbW x fbH framebuffer. With flipY the returned Y is measured from
// the bottom edge, as OpenGL expects. It reports false when nothing inside
// the framebuffer would be drawn.
func ClipToScissor(clip gui.Rect, pixelsPerPoint float32, fbW, fbH int, flipY bool) (gfx.Scissor, bool) {
	if !clip.IsPositive() {
		return gfx.Scissor{}, false
	}
	minX := clampInt(roundPx(clip.Min.X*pixelsPerPoint), 0, fbW)
	minY := clampInt(roundPx(clip.Min.Y*pixelsPerPoint), 0, fbH)
	maxX := clampInt(roundPx(clip.Max.X*pixelsPerPoint), minX, fbW)
	maxY := clampInt(roundPx(clip.Max.Y*pixelsPerPoint), minY, fbH)
	if maxX <= minX || maxY <= minY {
		return gfx.Scissor{}, false
	}
	y := minY
	if flipY {
		y = fbH - maxY
	}
	return gfx.Scissor{X: int32(minX), Y: int32(y), W: int32(maxX - minX), H: int32(maxY - minY)}, true
}

func roundPx(v float32) int { return int(math.Round(float64(v))) }

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
