package painter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gfx/soft"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/texcache"
)

func newTestPainter(w, h int) (*Painter, *soft.Device) {
	dev := soft.New()
	p := New(dev, texcache.New(dev), Options{FlipY: true})
	p.SetSize(w, h)
	return p, dev
}

func triangle(tex gui.TextureID) *gui.Mesh {
	white := gui.Color32{255, 255, 255, 255}
	return &gui.Mesh{
		Vertices: []gui.Vertex{
			{Pos: gui.Pos2{X: 0, Y: 0}, Color: white},
			{Pos: gui.Pos2{X: 10, Y: 0}, Color: white},
			{Pos: gui.Pos2{X: 0, Y: 10}, Color: white},
		},
		Indices: []uint32{0, 1, 2},
		Texture: tex,
	}
}

func rect(x0, y0, x1, y1 float32) gui.Rect {
	return gui.Rect{Min: gui.Pos2{X: x0, Y: y0}, Max: gui.Pos2{X: x1, Y: y1}}
}

func createAlpha(id gui.TextureID, w, h int, px []byte) gui.TextureSet {
	return gui.TextureSet{ID: id, Delta: gui.FullImage(gui.NewAlphaImage(w, h, px), gui.TextureOptions{})}
}

func TestClipToScissorScalesByPixelsPerPoint(t *testing.T) {
	clip := rect(10, 10, 50, 50)

	s, ok := ClipToScissor(clip, 2, 400, 300, false)
	require.True(t, ok)
	assert.Equal(t, gfx.Scissor{X: 20, Y: 20, W: 80, H: 80}, s)

	s, ok = ClipToScissor(clip, 2, 400, 300, true)
	require.True(t, ok)
	assert.Equal(t, gfx.Scissor{X: 20, Y: 300 - 100, W: 80, H: 80}, s)
}

func TestClipToScissorClampsToFramebuffer(t *testing.T) {
	s, ok := ClipToScissor(rect(-10, -10, 1000, 1000), 1, 200, 100, true)
	require.True(t, ok)
	assert.Equal(t, gfx.Scissor{X: 0, Y: 0, W: 200, H: 100}, s)

	_, ok = ClipToScissor(rect(300, 300, 400, 400), 1, 200, 100, true)
	assert.False(t, ok, "entirely outside the framebuffer")
}

func TestClipToScissorDegenerate(t *testing.T) {
	for _, r := range []gui.Rect{
		rect(10, 10, 10, 50),
		rect(10, 10, 50, 10),
		rect(50, 10, 10, 50),
		rect(10, 50, 50, 10),
	} {
		_, ok := ClipToScissor(r, 1, 100, 100, false)
		assert.False(t, ok, "%v", r)
	}
}

func TestDegenerateClipProducesNoDraw(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	delta := gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(gui.FontTexture, 1, 1, []byte{255})}}

	err := p.Paint(1, []gui.ClippedPrimitive{
		{ClipRect: rect(20, 20, 20, 80), Primitive: triangle(gui.FontTexture)},
		{ClipRect: rect(0, 0, 100, 100), Primitive: triangle(gui.FontTexture)},
		{ClipRect: rect(30, 40, 60, 40), Primitive: triangle(gui.FontTexture)},
	}, delta)
	require.NoError(t, err)

	assert.Len(t, dev.Calls(), 1)
	assert.Equal(t, 2, p.Stats().Culled)
}

func TestEndToEndCreateDrawFree(t *testing.T) {
	p, dev := newTestPainter(64, 32)
	id := gui.ManagedTexture(1)
	full := rect(0, 0, 64, 32)

	err := p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: full, Primitive: triangle(id)}},
		gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(id, 2, 2, []byte{0, 255, 0, 255})}})
	require.NoError(t, err)

	calls := dev.Calls()
	require.Len(t, calls, 1)
	rec, err := p.Textures().Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, rec.Texture.(*soft.Texture).ID(), calls[0].TextureID)
	assert.Equal(t, gfx.Scissor{X: 0, Y: 0, W: 64, H: 32}, calls[0].Scissor)
	assert.Equal(t, []byte{0, 255, 0, 255}, rec.Texture.(*soft.Texture).Pixels())

	dev.Reset()
	require.NoError(t, p.Paint(1, nil, gui.TexturesDelta{Free: []gui.TextureID{id}}))
	_, err = p.Textures().Lookup(id)
	assert.ErrorIs(t, err, texcache.ErrDanglingReference)

	err = p.Paint(1, []gui.ClippedPrimitive{{ClipRect: full, Primitive: triangle(id)}}, gui.TexturesDelta{})
	assert.ErrorIs(t, err, texcache.ErrDanglingReference)
	assert.Empty(t, dev.Calls())
}

func TestFreeInSameFrameWaitsForDraws(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	id := gui.ManagedTexture(9)
	require.NoError(t, p.Paint(1, nil, gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(id, 1, 1, []byte{1})}}))
	rec, err := p.Textures().Lookup(id)
	require.NoError(t, err)
	tex := rec.Texture.(*soft.Texture)

	const n = 5
	prims := make([]gui.ClippedPrimitive, n)
	for i := range prims {
		prims[i] = gui.ClippedPrimitive{ClipRect: rect(0, 0, 100, 100), Primitive: triangle(id)}
	}
	// The soft device refuses draws with deleted textures, so every draw
	// succeeding means each one saw the texture live.
	require.NoError(t, p.Paint(1, prims, gui.TexturesDelta{Free: []gui.TextureID{id}}))

	assert.Len(t, dev.Calls(), n)
	assert.True(t, tex.Deleted())
	assert.Equal(t, 1, p.Stats().TexturesFreed)
}

func TestCallbackRunsInSubmissionOrder(t *testing.T) {
	p, dev := newTestPainter(200, 100)
	delta := gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(gui.FontTexture, 1, 1, []byte{255})}}

	var drawsBefore int
	var info gui.PaintCallbackInfo
	cb := &gui.PaintCallback{
		Rect: rect(10, 10, 60, 40),
		Callback: func(i gui.PaintCallbackInfo) {
			drawsBefore = len(dev.Calls())
			info = i
		},
	}
	err := p.Paint(2, []gui.ClippedPrimitive{
		{ClipRect: rect(0, 0, 100, 50), Primitive: triangle(gui.FontTexture)},
		{ClipRect: rect(10, 10, 60, 40), Primitive: cb},
		{ClipRect: rect(0, 0, 100, 50), Primitive: triangle(gui.FontTexture)},
	}, delta)
	require.NoError(t, err)

	assert.Equal(t, 1, drawsBefore)
	assert.Len(t, dev.Calls(), 2)
	assert.Equal(t, float32(2), info.PixelsPerPoint)
	assert.Equal(t, [4]int32{20, 100 - 80, 100, 60}, info.ScissorPx)
	assert.Equal(t, 1, p.Stats().Callbacks)
}

func TestDanglingMeshStillAppliesFrees(t *testing.T) {
	p, _ := newTestPainter(100, 100)
	live := gui.ManagedTexture(1)
	require.NoError(t, p.Paint(1, nil, gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(live, 1, 1, []byte{1})}}))

	err := p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: rect(0, 0, 10, 10), Primitive: triangle(gui.ManagedTexture(2))}},
		gui.TexturesDelta{Free: []gui.TextureID{live}})
	require.ErrorIs(t, err, texcache.ErrDanglingReference)
	assert.Equal(t, 0, p.Textures().Len())
}

func TestEmptyMeshOnUnknownTextureIsDangling(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	err := p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: rect(0, 0, 10, 10), Primitive: &gui.Mesh{Texture: gui.ManagedTexture(99)}}},
		gui.TexturesDelta{})
	require.ErrorIs(t, err, texcache.ErrDanglingReference)
	assert.Empty(t, dev.Calls())
}

func TestNilPrimitivesAreErrors(t *testing.T) {
	p, _ := newTestPainter(100, 100)
	var mesh *gui.Mesh
	var cb *gui.PaintCallback
	for _, prim := range []gui.Primitive{mesh, cb} {
		var err error
		require.NotPanics(t, func() {
			err = p.Paint(1, []gui.ClippedPrimitive{{ClipRect: rect(0, 0, 10, 10), Primitive: prim}}, gui.TexturesDelta{})
		})
		assert.ErrorContains(t, err, "paint primitive 0: nil")
	}
}

func TestAllocationFailureSkipsDraws(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	dev.MemoryLimit = 8
	id := gui.ManagedTexture(1)

	err := p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: rect(0, 0, 10, 10), Primitive: triangle(id)}},
		gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(id, 4, 4, make([]byte, 16))}})
	require.ErrorIs(t, err, texcache.ErrAllocationFailed)
	assert.Empty(t, dev.Calls())
}

func TestInvalidMeshIsRejected(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	m := triangle(gui.FontTexture)
	m.Indices = []uint32{0, 1, 3}

	err := p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: rect(0, 0, 10, 10), Primitive: m}},
		gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(gui.FontTexture, 1, 1, []byte{1})}})
	require.ErrorIs(t, err, gui.ErrInvalidMesh)
	assert.Empty(t, dev.Calls())
}

func TestSetSizeAppliesToNextPaint(t *testing.T) {
	p, dev := newTestPainter(100, 100)
	delta := gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(gui.FontTexture, 1, 1, []byte{1})}}
	require.NoError(t, p.Paint(1, nil, delta))

	p.SetSize(300, 150)
	require.NoError(t, p.Paint(1.5, []gui.ClippedPrimitive{
		{ClipRect: gui.Everything, Primitive: triangle(gui.FontTexture)},
	}, gui.TexturesDelta{}))

	pass, ok := dev.LastPass()
	require.True(t, ok)
	assert.Equal(t, 300, pass.Width)
	assert.Equal(t, 150, pass.Height)
	// x = 200 points maps to clip-space +1.
	assert.InDelta(t, 2.0/200, pass.Projection[0], 1e-6)
	assert.Equal(t, gfx.Scissor{X: 0, Y: 0, W: 300, H: 150}, dev.Calls()[0].Scissor)
}

func TestZeroSizeFramebufferDrawsNothing(t *testing.T) {
	p, dev := newTestPainter(0, 0)
	id := gui.ManagedTexture(1)
	require.NoError(t, p.Paint(1,
		[]gui.ClippedPrimitive{{ClipRect: gui.Everything, Primitive: triangle(id)}},
		gui.TexturesDelta{Set: []gui.TextureSet{createAlpha(id, 1, 1, []byte{1})}}))
	assert.Empty(t, dev.Calls())
	assert.Equal(t, 1, p.Textures().Len())
}
