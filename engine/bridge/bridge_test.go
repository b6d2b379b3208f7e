package bridge

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx/soft"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/platform/headless"
	"github.com/hubastard/meshbridge/engine/texcache"
)

// scriptedLibrary returns outputs[i] for the i-th frame and records inputs.
type scriptedLibrary struct {
	inputs  []gui.RawInput
	outputs []gui.FullOutput
	frame   int
}

func (l *scriptedLibrary) BeginFrame(in gui.RawInput) { l.inputs = append(l.inputs, in) }

func (l *scriptedLibrary) EndFrame() gui.FullOutput {
	defer func() { l.frame++ }()
	if l.frame < len(l.outputs) {
		return l.outputs[l.frame]
	}
	return gui.FullOutput{}
}

type funcApp struct {
	frame func(b *Bridge, in gui.RawInput)
	start int
	stop  int
}

func (a *funcApp) OnStart(*Bridge)    { a.start++ }
func (a *funcApp) OnShutdown(*Bridge) { a.stop++ }
func (a *funcApp) OnFrame(b *Bridge, in gui.RawInput) {
	if a.frame != nil {
		a.frame(b, in)
	}
}

func testConfig() core.Config {
	cfg := core.DefaultConfig()
	cfg.Width, cfg.Height = 200, 100
	return cfg
}

func triangleOn(id gui.TextureID) gui.ClippedPrimitive {
	return gui.ClippedPrimitive{
		ClipRect: gui.Everything,
		Primitive: &gui.Mesh{
			Vertices: []gui.Vertex{{}, {Pos: gui.Pos2{X: 1}}, {Pos: gui.Pos2{Y: 1}}},
			Indices:  []uint32{0, 1, 2},
			Texture:  id,
		},
	}
}

func TestFrameCreatesDrawsAndFrees(t *testing.T) {
	win := headless.New(testConfig())
	dev := soft.New()
	id := gui.ManagedTexture(1)
	lib := &scriptedLibrary{outputs: []gui.FullOutput{
		{
			Textures:   gui.TexturesDelta{Set: []gui.TextureSet{{ID: id, Delta: gui.FullImage(gui.NewAlphaImage(2, 2, []byte{0, 255, 0, 255}), gui.TextureOptions{})}}},
			Primitives: []gui.ClippedPrimitive{triangleOn(id)},
		},
		{
			Textures:   gui.TexturesDelta{Free: []gui.TextureID{id}},
			Primitives: []gui.ClippedPrimitive{triangleOn(id)},
		},
	}}
	b := New(win, dev, lib, testConfig())

	b.BeginFrame()
	require.NoError(t, b.EndFrame(lib.EndFrame()))
	require.Len(t, dev.Calls(), 1)
	assert.Equal(t, 1, dev.LiveTextures())
	assert.Equal(t, 1, dev.Clears())

	dev.Reset()
	b.BeginFrame()
	require.NoError(t, b.EndFrame(lib.EndFrame()))
	assert.Len(t, dev.Calls(), 1, "the freeing frame still draws with the texture")
	assert.Zero(t, dev.LiveTextures())
	assert.Equal(t, 2, win.Frames())

	_, err := b.Textures().Lookup(id)
	assert.ErrorIs(t, err, texcache.ErrDanglingReference)
}

func TestEventsDuringDrawLandInNextFrame(t *testing.T) {
	win := headless.New(testConfig())
	lib := &scriptedLibrary{}
	b := New(win, soft.New(), lib, testConfig())

	win.Push(core.EventMouseMove{X: 5, Y: 6})
	in := b.BeginFrame()
	require.Len(t, in.Events, 1)

	// Arrives after the snapshot, while the frame is drawing.
	win.Push(core.EventChar{Char: 'z'})
	require.NoError(t, b.EndFrame(lib.EndFrame()))

	in = b.BeginFrame()
	assert.Equal(t, []gui.Event{gui.EventText{Text: "z"}}, in.Events)
	assert.Equal(t, lib.inputs[1], in)
}

func TestScaleChangeIsLatchedForWholeFrame(t *testing.T) {
	win := headless.New(testConfig())
	dev := soft.New()
	lib := &scriptedLibrary{}
	b := New(win, dev, lib, testConfig())

	in := b.BeginFrame()
	assert.Equal(t, float32(1), in.PixelsPerPoint)
	win.Push(core.EventContentScale{X: 2, Y: 2}, core.EventFramebufferResize{W: 400, H: 200})
	require.NoError(t, b.EndFrame(lib.EndFrame()))
	pass, ok := dev.LastPass()
	require.True(t, ok)
	assert.Equal(t, 200, pass.Width, "mid-frame resize is not applied to the current frame")

	in = b.BeginFrame()
	assert.Equal(t, float32(2), in.PixelsPerPoint)
	assert.Equal(t, float32(200), in.ScreenRect.Width())
	require.NoError(t, b.EndFrame(lib.EndFrame()))
	pass, _ = dev.LastPass()
	assert.Equal(t, 400, pass.Width)
	assert.Equal(t, float32(2), b.Stats().PixelsPerPoint)
}

func TestCopiedTextReachesClipboard(t *testing.T) {
	win := headless.New(testConfig())
	lib := &scriptedLibrary{outputs: []gui.FullOutput{{Platform: gui.PlatformOutput{CopiedText: "hello"}}}}
	b := New(win, soft.New(), lib, testConfig())

	b.BeginFrame()
	require.NoError(t, b.EndFrame(lib.EndFrame()))
	assert.Equal(t, "hello", win.Clipboard())
}

func TestEndFrameWithoutBegin(t *testing.T) {
	b := New(headless.New(testConfig()), soft.New(), &scriptedLibrary{}, testConfig())
	assert.Error(t, b.EndFrame(gui.FullOutput{}))
}

func TestRunStopsAtFrameLimit(t *testing.T) {
	win := headless.New(testConfig())
	win.MaxFrames = 3
	clock := time.Unix(0, 0)
	lib := &scriptedLibrary{}
	app := &funcApp{}
	b := New(win, soft.New(), lib, testConfig(), WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))

	require.NoError(t, b.Run(app))
	assert.Len(t, lib.inputs, 3)
	assert.Equal(t, 1, app.start)
	assert.Equal(t, 1, app.stop)
	assert.Less(t, lib.inputs[0].Time, lib.inputs[2].Time)
	ended, skipped := b.Frames()
	assert.Equal(t, uint64(3), ended)
	assert.Zero(t, skipped)
}

func TestRunClosesOnRequest(t *testing.T) {
	win := headless.New(testConfig())
	win.Script(1, core.EventCloseRequested{})
	lib := &scriptedLibrary{}
	b := New(win, soft.New(), lib, testConfig())

	require.NoError(t, b.Run(&funcApp{}))
	assert.Equal(t, 2, win.Frames())
}

func TestRunSkipsFrameOnAllocationFailure(t *testing.T) {
	win := headless.New(testConfig())
	win.MaxFrames = 2
	dev := soft.New()
	dev.MemoryLimit = 4
	id := gui.ManagedTexture(3)
	lib := &scriptedLibrary{outputs: []gui.FullOutput{{
		Textures:   gui.TexturesDelta{Set: []gui.TextureSet{{ID: id, Delta: gui.FullImage(gui.NewAlphaImage(4, 4, make([]byte, 16)), gui.TextureOptions{})}}},
		Primitives: []gui.ClippedPrimitive{triangleOn(id)},
	}}}
	b := New(win, dev, lib, testConfig())

	require.NoError(t, b.Run(&funcApp{}))
	_, skipped := b.Frames()
	assert.Equal(t, uint64(2), skipped, "the texture is retried, and fails, every frame")
	assert.Equal(t, 1, b.Textures().Deferred())
	assert.Empty(t, dev.Calls())
}

func TestRunRecoversAfterAllocationFailure(t *testing.T) {
	win := headless.New(testConfig())
	win.MaxFrames = 2
	dev := soft.New()
	dev.MemoryLimit = 8
	big, small := gui.ManagedTexture(1), gui.ManagedTexture(2)
	lib := &scriptedLibrary{outputs: []gui.FullOutput{
		{
			Textures: gui.TexturesDelta{Set: []gui.TextureSet{
				{ID: big, Delta: gui.FullImage(gui.NewAlphaImage(4, 4, make([]byte, 16)), gui.TextureOptions{})},
				{ID: small, Delta: gui.FullImage(gui.NewAlphaImage(2, 2, make([]byte, 4)), gui.TextureOptions{})},
			}},
			Primitives: []gui.ClippedPrimitive{triangleOn(big)},
		},
		// The library sent both creates once; the second frame only draws.
		{Primitives: []gui.ClippedPrimitive{triangleOn(small), triangleOn(big)}},
	}}
	app := &funcApp{frame: func(b *Bridge, _ gui.RawInput) {
		if ended, _ := b.Frames(); ended == 1 {
			dev.MemoryLimit = 0
		}
	}}
	b := New(win, dev, lib, testConfig())

	require.NoError(t, b.Run(app))
	ended, skipped := b.Frames()
	assert.Equal(t, uint64(2), ended)
	assert.Equal(t, uint64(1), skipped)
	assert.Len(t, dev.Calls(), 2)
	assert.Equal(t, 2, b.Textures().Len())
	assert.Zero(t, b.Textures().Deferred())
}

func TestRunAbortsOnDanglingReference(t *testing.T) {
	win := headless.New(testConfig())
	win.MaxFrames = 5
	lib := &scriptedLibrary{outputs: []gui.FullOutput{{
		Primitives: []gui.ClippedPrimitive{triangleOn(gui.ManagedTexture(42))},
	}}}
	app := &funcApp{}
	b := New(win, soft.New(), lib, testConfig())

	err := b.Run(app)
	require.Error(t, err)
	assert.True(t, errors.Is(err, texcache.ErrDanglingReference))
	assert.Equal(t, 1, app.stop)
	assert.Equal(t, 1, win.Frames())
}
