// Package painter turns a frame's clipped meshes into device draw calls.
package painter

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/profiler"
	"github.com/hubastard/meshbridge/engine/texcache"
)

// Statistics captures the counts generated during one Paint.
type Statistics struct {
	DrawCalls       int
	Callbacks       int
	Culled          int
	VertexCount     int
	IndexCount      int
	TexturesSet     int
	TexturesFreed   int
	PrimitiveCount  int
	PixelsPerPoint  float32
	FramebufferSize [2]int
}

// TriangleCount reports triangles submitted this frame.
func (s Statistics) TriangleCount() int { return s.IndexCount / 3 }

type Options struct {
	// FlipY converts scissor rects to a bottom-left origin (OpenGL).
	FlipY bool
}

type Painter struct {
	dev      gfx.Device
	textures *texcache.Cache
	opts     Options
	width    int
	height   int
	stats    Statistics
}

func New(dev gfx.Device, textures *texcache.Cache, opts Options) *Painter {
	return &Painter{dev: dev, textures: textures, opts: opts}
}

// SetSize sets the framebuffer size in physical pixels. It is used from the
// next Paint on.
func (p *Painter) SetSize(w, h int) {
	p.width, p.height = w, h
}

func (p *Painter) Size() (int, int) { return p.width, p.height }

// Stats returns the statistics of the last Paint.
func (p *Painter) Stats() Statistics { return p.stats }

// Textures returns the cache the painter resolves texture ids through.
func (p *Painter) Textures() *texcache.Cache { return p.textures }

// Paint applies the delta's creates and patches, draws primitives in order,
// then applies the delta's frees. Frees are applied even when Paint fails
// part way, since no further draws of this frame will happen.
func (p *Painter) Paint(pixelsPerPoint float32, primitives []gui.ClippedPrimitive, delta gui.TexturesDelta) error {
	if pixelsPerPoint <= 0 {
		return fmt.Errorf("paint: pixels per point %v must be positive", pixelsPerPoint)
	}
	defer profiler.Start("Painter.Paint")()
	p.stats = Statistics{
		PrimitiveCount:  len(primitives),
		TexturesSet:     len(delta.Set),
		PixelsPerPoint:  pixelsPerPoint,
		FramebufferSize: [2]int{p.width, p.height},
	}
	defer func() {
		p.stats.TexturesFreed = p.textures.ApplyFrees()
	}()

	if err := p.textures.ApplyCreatesAndPatches(delta); err != nil {
		return fmt.Errorf("paint: %w", err)
	}
	if p.width <= 0 || p.height <= 0 {
		return nil
	}

	pass := p.pass(pixelsPerPoint)
	p.dev.BeginPass(pass)
	defer p.dev.EndPass()

	for i, cp := range primitives {
		scissor, ok := ClipToScissor(cp.ClipRect, pixelsPerPoint, p.width, p.height, p.opts.FlipY)
		if !ok {
			p.stats.Culled++
			continue
		}
		switch prim := cp.Primitive.(type) {
		case *gui.Mesh:
			if prim == nil {
				return fmt.Errorf("paint primitive %d: nil mesh", i)
			}
			if err := p.drawMesh(prim, scissor); err != nil {
				return fmt.Errorf("paint primitive %d: %w", i, err)
			}
		case *gui.PaintCallback:
			if prim == nil {
				return fmt.Errorf("paint primitive %d: nil callback", i)
			}
			p.runCallback(prim, cp.ClipRect, scissor, pixelsPerPoint)
			p.dev.BeginPass(pass)
		default:
			return fmt.Errorf("paint primitive %d: unsupported primitive %T", i, cp.Primitive)
		}
	}
	return nil
}

func (p *Painter) pass(pixelsPerPoint float32) gfx.Pass {
	wPts := float32(p.width) / pixelsPerPoint
	hPts := float32(p.height) / pixelsPerPoint
	// Points grow down and right from the top-left corner.
	return gfx.Pass{
		Width:      p.width,
		Height:     p.height,
		Projection: mgl32.Ortho2D(0, wPts, hPts, 0),
	}
}

// drawMesh resolves the texture before anything else, so an empty mesh on
// a dead id is still an error.
func (p *Painter) drawMesh(m *gui.Mesh, scissor gfx.Scissor) error {
	rec, err := p.textures.Lookup(m.Texture)
	if err != nil {
		return err
	}
	if m.IsEmpty() {
		return nil
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := p.dev.Draw(gfx.DrawCmd{
		Texture:  rec.Texture,
		Scissor:  scissor,
		Vertices: m.Vertices,
		Indices:  m.Indices,
	}); err != nil {
		return err
	}
	p.stats.DrawCalls++
	p.stats.VertexCount += len(m.Vertices)
	p.stats.IndexCount += len(m.Indices)
	return nil
}

func (p *Painter) runCallback(cb *gui.PaintCallback, clip gui.Rect, scissor gfx.Scissor, pixelsPerPoint float32) {
	if cb.Callback == nil {
		core.Logger().Warn("paint callback without a function", "rect", cb.Rect)
		return
	}
	cb.Callback(gui.PaintCallbackInfo{
		Viewport:       cb.Rect,
		ClipRect:       clip,
		PixelsPerPoint: pixelsPerPoint,
		ScissorPx:      [4]int32{scissor.X, scissor.Y, scissor.W, scissor.H},
		ScreenSizePx:   [2]int{p.width, p.height},
	})
	p.stats.Callbacks++
}
