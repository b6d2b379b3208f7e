package gui

import (
	"errors"
	"fmt"
)

var ErrInvalidMesh = errors.New("gui: invalid mesh")

// Pos2 is a position in logical points.
type Pos2 struct{ X, Y float32 }

// Vec2 is a delta in logical points.
type Vec2 struct{ X, Y float32 }

func (p Pos2) Add(v Vec2) Pos2 { return Pos2{p.X + v.X, p.Y + v.Y} }

// Rect is an axis-aligned rectangle in logical points, Min inclusive.
type Rect struct{ Min, Max Pos2 }

func RectFromMinSize(min Pos2, size Vec2) Rect {
	return Rect{Min: min, Max: Pos2{min.X + size.X, min.Y + size.Y}}
}

func (r Rect) Width() float32  { return r.Max.X - r.Min.X }
func (r Rect) Height() float32 { return r.Max.Y - r.Min.Y }
func (r Rect) Size() Vec2      { return Vec2{r.Width(), r.Height()} }

// IsPositive reports whether the rect has a non-zero area.
func (r Rect) IsPositive() bool { return r.Width() > 0 && r.Height() > 0 }

func (r Rect) Contains(p Pos2) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

func (r Rect) Intersect(o Rect) Rect {
	return Rect{
		Min: Pos2{max(r.Min.X, o.Min.X), max(r.Min.Y, o.Min.Y)},
		Max: Pos2{min(r.Max.X, o.Max.X), min(r.Max.Y, o.Max.Y)},
	}
}

func (r Rect) Shrink(amount float32) Rect {
	return Rect{
		Min: Pos2{r.Min.X + amount, r.Min.Y + amount},
		Max: Pos2{r.Max.X - amount, r.Max.Y - amount},
	}
}

// Everything is a clip rect that clips nothing.
var Everything = Rect{Min: Pos2{-1 << 24, -1 << 24}, Max: Pos2{1 << 24, 1 << 24}}

// Color32 is a premultiplied sRGBA color.
type Color32 [4]uint8

// Vertex layout is shared with the GPU: pos(2f) uv(2f) color(4ub).
type Vertex struct {
	Pos   Pos2
	UV    Pos2
	Color Color32
}

// Mesh is a list of triangles painted in index order with one texture.
type Mesh struct {
	Indices  []uint32
	Vertices []Vertex
	Texture  TextureID
}

func (m *Mesh) IsEmpty() bool { return len(m.Indices) == 0 }

// Validate checks that indices form whole triangles within the vertex list.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a whole number of triangles", ErrInvalidMesh, len(m.Indices))
	}
	n := uint32(len(m.Vertices))
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("%w: index %d at %d out of range (%d vertices)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// PaintCallbackInfo describes the state a paint callback runs under.
type PaintCallbackInfo struct {
	// Viewport is the callback's rect in logical points.
	Viewport Rect
	ClipRect Rect
	// PixelsPerPoint is the frame's latched scale.
	PixelsPerPoint float32
	// ScissorPx is the physical scissor rect set for the callback: x, y, w, h.
	ScissorPx [4]int32
	// ScreenSizePx is the framebuffer size.
	ScreenSizePx [2]int
}

// PaintCallback lets the application issue its own draw calls at this
// position in the paint order. The backend never looks inside it.
type PaintCallback struct {
	Rect     Rect
	Callback func(PaintCallbackInfo)
}

// Primitive is either *Mesh or *PaintCallback.
type Primitive interface{ isPrimitive() }

func (*Mesh) isPrimitive()          {}
func (*PaintCallback) isPrimitive() {}

type ClippedPrimitive struct {
	ClipRect  Rect
	Primitive Primitive
}
