// Package viewport tracks framebuffer size and display scale. Changes are
// recorded as they are reported and only take effect at the next frame
// boundary, so one frame never mixes two scales.
package viewport

import (
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
)

// Resizer is told about framebuffer size changes when they are latched.
type Resizer interface {
	SetSize(w, h int)
}

// Frame is the viewport state latched for one frame.
type Frame struct {
	FramebufferWidth, FramebufferHeight int
	WindowWidth, WindowHeight           int
	PixelsPerPoint                      float32
	// ScreenRect is the framebuffer in logical points.
	ScreenRect gui.Rect
}

func newFrame(fbW, fbH, winW, winH int, ppp float32) Frame {
	return Frame{
		FramebufferWidth: fbW, FramebufferHeight: fbH,
		WindowWidth: winW, WindowHeight: winH,
		PixelsPerPoint: ppp,
		ScreenRect: gui.RectFromMinSize(gui.Pos2{}, gui.Vec2{
			X: float32(fbW) / ppp,
			Y: float32(fbH) / ppp,
		}),
	}
}

// WindowToPoints converts a position in window (screen) coordinates to
// logical points. Window coordinates differ from framebuffer pixels on
// displays where the OS scales windows itself.
func (f Frame) WindowToPoints(p gui.Pos2) gui.Pos2 {
	sx, sy := float32(1), float32(1)
	if f.WindowWidth > 0 && f.WindowHeight > 0 {
		sx = float32(f.FramebufferWidth) / float32(f.WindowWidth)
		sy = float32(f.FramebufferHeight) / float32(f.WindowHeight)
	}
	return gui.Pos2{X: p.X * sx / f.PixelsPerPoint, Y: p.Y * sy / f.PixelsPerPoint}
}

type Adapter struct {
	current Frame
	// pending values, applied by Latch
	fbW, fbH   int
	winW, winH int
	ppp        float32
	dirty      bool
	resizer    Resizer
}

// New creates an adapter whose first frame uses the given state. The resizer
// (usually the painter) is sized immediately.
func New(fbW, fbH, winW, winH int, pixelsPerPoint float32, r Resizer) *Adapter {
	if pixelsPerPoint <= 0 {
		pixelsPerPoint = 1
	}
	a := &Adapter{
		fbW: fbW, fbH: fbH,
		winW: winW, winH: winH,
		ppp:     pixelsPerPoint,
		resizer: r,
	}
	a.current = newFrame(fbW, fbH, winW, winH, pixelsPerPoint)
	if r != nil {
		r.SetSize(fbW, fbH)
	}
	return a
}

func (a *Adapter) SetFramebufferSize(w, h int) {
	if w < 0 || h < 0 {
		return
	}
	a.fbW, a.fbH = w, h
	a.dirty = true
}

func (a *Adapter) SetWindowSize(w, h int) {
	if w < 0 || h < 0 {
		return
	}
	a.winW, a.winH = w, h
	a.dirty = true
}

// SetContentScale records a new pixels-per-point value. Non-positive
// values are ignored.
func (a *Adapter) SetContentScale(s float32) {
	if s <= 0 {
		core.Logger().Warn("ignoring non-positive content scale", "scale", s)
		return
	}
	a.ppp = s
	a.dirty = true
}

// Latch applies pending changes and returns the state for the frame about
// to start.
func (a *Adapter) Latch() Frame {
	if !a.dirty {
		return a.current
	}
	prev := a.current
	a.current = newFrame(a.fbW, a.fbH, a.winW, a.winH, a.ppp)
	a.dirty = false
	if a.resizer != nil && (prev.FramebufferWidth != a.fbW || prev.FramebufferHeight != a.fbH) {
		a.resizer.SetSize(a.fbW, a.fbH)
	}
	if prev.PixelsPerPoint != a.ppp {
		core.Logger().Debug("pixels per point changed", "from", prev.PixelsPerPoint, "to", a.ppp)
	}
	return a.current
}

// Current returns the latched frame without applying pending changes.
func (a *Adapter) Current() Frame { return a.current }

// Pending reports whether changes are waiting for the next Latch.
func (a *Adapter) Pending() bool { return a.dirty }
