package main

import (
	"math"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/hubastard/meshbridge/engine/core"
	glbackend "github.com/hubastard/meshbridge/engine/gfx/gl"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/platform"
)

func openGL(cfg core.Config) (*platform.GLFWWindow, *glbackend.Device, error) {
	win, err := platform.NewGLFWWindow(cfg)
	if err != nil {
		return nil, nil, err
	}
	dev, err := glbackend.NewDevice()
	if err != nil {
		win.Destroy()
		return nil, nil, err
	}
	return win, dev, nil
}

// glSwatch paints straight through OpenGL inside a paint callback,
// scissored to the physical rect the painter reports in ScissorPx.
func glSwatch(t float64) func(gui.PaintCallbackInfo) {
	return func(info gui.PaintCallbackInfo) {
		s := info.ScissorPx
		gl.Scissor(s[0], s[1], s[2], s[3])
		r := float32(0.5 + 0.5*math.Sin(t))
		gl.ClearColor(r, 0.35, 1-r, 1)
		gl.Clear(gl.COLOR_BUFFER_BIT)
	}
}
