// Package bridge drives frames: window events in, GUI library in the
// middle, painted meshes out.
package bridge

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/input"
	"github.com/hubastard/meshbridge/engine/painter"
	"github.com/hubastard/meshbridge/engine/profiler"
	"github.com/hubastard/meshbridge/engine/texcache"
	"github.com/hubastard/meshbridge/engine/viewport"
)

// App builds the GUI. OnFrame runs between the library's BeginFrame and
// EndFrame.
type App interface {
	OnStart(b *Bridge)
	OnFrame(b *Bridge, in gui.RawInput)
	OnShutdown(b *Bridge)
}

type Option func(*Bridge)

// WithClock replaces time.Now for RawInput.Time.
func WithClock(now func() time.Time) Option {
	return func(b *Bridge) { b.clock = now }
}

// Bridge owns the per-window state: input aggregator, viewport, texture
// cache and painter.
//
// Events are drained at the start of each frame, before the snapshot.
// Anything the window reports while a frame is drawing is queued by the
// window and lands in the next frame.
type Bridge struct {
	win      core.Window
	dev      gfx.Device
	lib      gui.Library
	cfg      core.Config
	clock    func() time.Time
	input    *input.Aggregator
	viewport *viewport.Adapter
	textures *texcache.Cache
	painter  *painter.Painter

	frame    viewport.Frame
	inFrame  bool
	frameNum uint64
	skipped  uint64
}

func New(win core.Window, dev gfx.Device, lib gui.Library, cfg core.Config, opts ...Option) *Bridge {
	b := &Bridge{win: win, dev: dev, lib: lib, cfg: cfg, clock: time.Now}
	for _, o := range opts {
		o(b)
	}
	b.textures = texcache.New(dev)
	// Scissors use the OpenGL bottom-left origin on every device.
	b.painter = painter.New(dev, b.textures, painter.Options{FlipY: true})

	fbW, fbH := win.FramebufferSize()
	winW, winH := win.WindowSize()
	b.viewport = viewport.New(fbW, fbH, winW, winH, win.ContentScale(), b.painter)

	scroll := cfg.ScrollFactor
	if scroll <= 0 {
		scroll = input.DefaultScrollFactor
	}
	b.input = input.New(win, b.viewport, input.WithClock(b.clock), input.WithScrollFactor(scroll))
	b.frame = b.viewport.Current()
	return b
}

// BeginFrame drains window events, latches the viewport and starts the
// library's frame. It returns the input handed to the library.
func (b *Bridge) BeginFrame() gui.RawInput {
	defer profiler.Start("Bridge.BeginFrame")()
	b.win.PollEvents()
	for _, ev := range b.win.DrainEvents() {
		if _, ok := ev.(core.EventCloseRequested); ok {
			b.win.RequestClose()
			continue
		}
		b.input.HandleEvent(ev)
	}
	b.frame = b.viewport.Latch()
	in := b.input.TakeSnapshot(b.frame)
	b.lib.BeginFrame(in)
	b.inFrame = true
	return in
}

// EndFrame consumes the library's output: clipboard, texture delta and
// primitives. The buffers are swapped even when painting fails.
func (b *Bridge) EndFrame(out gui.FullOutput) error {
	if !b.inFrame {
		return errors.New("bridge: EndFrame without BeginFrame")
	}
	b.inFrame = false
	b.frameNum++
	defer b.swap()

	b.input.DeliverClipboard(out.Platform.CopiedText)

	ppp := b.frame.PixelsPerPoint
	if out.PixelsPerPoint > 0 && out.PixelsPerPoint != ppp {
		core.Logger().Debug("library scale differs from latched scale", "library", out.PixelsPerPoint, "latched", ppp)
	}
	c := b.cfg.ClearColor
	b.dev.Clear(c[0], c[1], c[2], c[3])
	if err := b.painter.Paint(ppp, out.Primitives, out.Textures); err != nil {
		return fmt.Errorf("frame %d: %w", b.frameNum, err)
	}
	return nil
}

// Run loops until the window closes. A frame whose only errors are texture
// allocation failures is skipped, and the cache retries those textures on
// the next frame; any other paint error stops the loop.
func (b *Bridge) Run(app App) error {
	// Graphics contexts require the main OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	app.OnStart(b)
	defer app.OnShutdown(b)

	for !b.win.ShouldClose() {
		endFrame := profiler.Start("Bridge.Frame")
		in := b.BeginFrame()
		app.OnFrame(b, in)
		err := b.EndFrame(b.lib.EndFrame())
		endFrame()
		if err != nil {
			if texcache.Retryable(err) {
				b.skipped++
				core.Logger().Error("frame skipped", "err", err, "deferred", b.textures.Deferred())
				continue
			}
			return err
		}
	}
	core.Logger().Info("bridge exit", "frames", b.frameNum, "skipped", b.skipped)
	return nil
}

func (b *Bridge) swap() {
	defer profiler.Start("Window.SwapBuffers")()
	b.win.SwapBuffers()
}

// Destroy releases every texture the bridge created.
func (b *Bridge) Destroy() { b.textures.Destroy() }

func (b *Bridge) Window() core.Window { return b.win }
func (b *Bridge) Device() gfx.Device  { return b.dev }

// Frame returns the viewport state latched for the current frame.
func (b *Bridge) Frame() viewport.Frame { return b.frame }

// Stats returns the painter statistics of the last frame.
func (b *Bridge) Stats() painter.Statistics { return b.painter.Stats() }

// Textures exposes the cache, e.g. to register application textures.
func (b *Bridge) Textures() *texcache.Cache { return b.textures }

// Frames returns the number of frames ended so far and how many of them
// were skipped.
func (b *Bridge) Frames() (ended, skipped uint64) { return b.frameNum, b.skipped }
