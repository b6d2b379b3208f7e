package main

import (
	"time"

	"github.com/hubastard/meshbridge/engine/bridge"
	"github.com/hubastard/meshbridge/engine/colors"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/profiler"
	"github.com/hubastard/meshbridge/engine/ui"
)

// debugPanel shows frame, texture and memory statistics.
type debugPanel struct {
	last    float64
	frameMS float64
	mem     profiler.MemStats
	memAt   time.Time
}

func (d *debugPanel) draw(c *ui.Ctx, b *bridge.Bridge, in gui.RawInput) {
	if d.last > 0 {
		d.frameMS = (in.Time - d.last) * 1000
	}
	d.last = in.Time
	// ReadMemStats stops the world; twice a second is plenty.
	if now := time.Now(); now.Sub(d.memAt) > 500*time.Millisecond {
		d.mem, d.memAt = profiler.Memory(), now
	}

	screen := c.Screen()
	c.BeginPanel(ui.PanelProps{
		ID:      idDebugPanel,
		Title:   "Debug",
		Rect:    gui.Rect{Min: gui.Pos2{X: screen.Max.X - 284, Y: 24}, Max: gui.Pos2{X: screen.Max.X - 24, Y: 500}},
		Movable: true,
	})
	defer c.EndPanel()

	ended, skipped := b.Frames()
	ps := b.Stats()
	ts := c.Stats()
	fr := b.Frame()

	section(c, "Frame")
	c.Labelf("Frame %d (%d skipped)", ended, skipped)
	if d.frameMS > 0 {
		c.Labelf("%.2f ms (%.1f FPS)", d.frameMS, 1000/d.frameMS)
	}
	c.Labelf("Framebuffer %dx%d @ %.2f", fr.FramebufferWidth, fr.FramebufferHeight, fr.PixelsPerPoint)

	section(c, "Painter")
	c.Labelf("Draw calls %d, callbacks %d", ps.DrawCalls, ps.Callbacks)
	c.Labelf("Triangles %d, culled %d", ps.TriangleCount(), ps.Culled)
	c.Labelf("Quads %d, vertices %d", ts.QuadCount, ts.TotalVertexCount())
	c.Labelf("Textures %d live, +%d -%d", b.Textures().Len(), ps.TexturesSet, ps.TexturesFreed)

	section(c, "Memory")
	c.Labelf("Heap %.2f MB", float64(d.mem.Alloc)/(1<<20))
	c.Labelf("Allocs %d, GC %d", d.mem.Mallocs, d.mem.NumGC)
	c.Labelf("Goroutines %d, CPUs %d", profiler.NumGoroutine(), profiler.NumCPU())

	if dev, ok := b.Device().(interface{ Info() gfx.Info }); ok {
		info := dev.Info()
		section(c, "GPU")
		c.Label(info.Vendor)
		c.Label(info.Renderer)
		c.Label(info.Version)
	}
	if profiler.Enabled() {
		c.ColoredLabel("Ctrl+P dumps a profile", c.Style().TextDim)
	}
}

func section(c *ui.Ctx, title string) {
	c.Space(4)
	c.ColoredLabel(title, colors.Yellow)
}
