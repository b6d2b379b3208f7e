package ui

import "github.com/hubastard/meshbridge/engine/gui"

// A mesh is split once it would exceed this many vertices.
const maxMeshVertices = 1 << 16

const (
	vertsPerQuad = 4
	indsPerQuad  = 6
)

// Statistics captures what one frame's tessellation produced.
type Statistics struct {
	Meshes    int
	Callbacks int
	QuadCount int
	Culled    int
}

func (s Statistics) TotalVertexCount() int { return s.QuadCount * vertsPerQuad }
func (s Statistics) TotalIndexCount() int  { return s.QuadCount * indsPerQuad }

// Tessellator batches quads into meshes. Consecutive quads with the same
// clip rect and texture share a mesh; anything else starts a new one, so
// paint order is exactly submission order.
type Tessellator struct {
	// white is a fully covered texel of the font texture.
	white gui.Pos2
	prims []gui.ClippedPrimitive
	cur   *gui.Mesh
	clip  gui.Rect
	stats Statistics
}

func NewTessellator(white gui.Pos2) *Tessellator {
	return &Tessellator{white: white}
}

// Reset starts a new frame.
func (t *Tessellator) Reset() {
	t.prims = nil
	t.cur = nil
	t.stats = Statistics{}
}

func (t *Tessellator) Stats() Statistics { return t.stats }

// Rect fills r with a solid color.
func (t *Tessellator) Rect(clip, r gui.Rect, c gui.Color32) {
	t.Quad(clip, r, gui.Rect{Min: t.white, Max: t.white}, gui.FontTexture, c)
}

// Quad draws tex's uv sub-rect into r, tinted by c.
func (t *Tessellator) Quad(clip, r, uv gui.Rect, tex gui.TextureID, c gui.Color32) {
	if !r.Intersect(clip).IsPositive() || c == (gui.Color32{}) {
		t.stats.Culled++
		return
	}
	m := t.mesh(clip, tex)
	start := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices,
		gui.Vertex{Pos: r.Min, UV: uv.Min, Color: c},
		gui.Vertex{Pos: gui.Pos2{X: r.Max.X, Y: r.Min.Y}, UV: gui.Pos2{X: uv.Max.X, Y: uv.Min.Y}, Color: c},
		gui.Vertex{Pos: gui.Pos2{X: r.Min.X, Y: r.Max.Y}, UV: gui.Pos2{X: uv.Min.X, Y: uv.Max.Y}, Color: c},
		gui.Vertex{Pos: r.Max, UV: uv.Max, Color: c},
	)
	m.Indices = append(m.Indices,
		start+0, start+2, start+1,
		start+1, start+2, start+3,
	)
	t.stats.QuadCount++
}

// Callback places a paint callback at the current position in paint order.
func (t *Tessellator) Callback(clip gui.Rect, cb *gui.PaintCallback) {
	t.cur = nil
	t.prims = append(t.prims, gui.ClippedPrimitive{ClipRect: clip, Primitive: cb})
	t.stats.Callbacks++
}

func (t *Tessellator) mesh(clip gui.Rect, tex gui.TextureID) *gui.Mesh {
	if t.cur != nil && t.cur.Texture == tex && t.clip == clip && len(t.cur.Vertices)+vertsPerQuad <= maxMeshVertices {
		return t.cur
	}
	t.cur = &gui.Mesh{Texture: tex}
	t.clip = clip
	t.prims = append(t.prims, gui.ClippedPrimitive{ClipRect: clip, Primitive: t.cur})
	t.stats.Meshes++
	return t.cur
}

// Finish returns the frame's primitives in paint order.
func (t *Tessellator) Finish() []gui.ClippedPrimitive {
	prims := t.prims
	t.prims = nil
	t.cur = nil
	return prims
}
