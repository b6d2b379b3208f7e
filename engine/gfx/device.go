package gfx

import (
	"errors"

	"github.com/hubastard/meshbridge/engine/gui"
)

// ErrOutOfMemory is returned when the device cannot allocate a resource.
var ErrOutOfMemory = errors.New("gfx: out of memory")

type TextureFormat int

const (
	// FormatR8 is a single coverage channel, sampled as white * coverage.
	FormatR8 TextureFormat = iota + 1
	// FormatRGBA8 is premultiplied color.
	FormatRGBA8
)

func FormatFor(f gui.ImageFormat) TextureFormat {
	if f == gui.FormatAlpha {
		return FormatR8
	}
	return FormatRGBA8
}

type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

func FilterFor(f gui.TextureFilter) Filter {
	if f == gui.FilterNearest {
		return FilterNearest
	}
	return FilterLinear
}

type TextureDesc struct {
	Width, Height        int
	Format               TextureFormat
	MinFilter, MagFilter Filter
	Pixels               []byte // may be nil: allocate only
}

// Texture is a device texture handle.
type Texture interface {
	Size() (w, h int)
	Format() TextureFormat
}

// Scissor is a physical pixel rect in the device's own convention
// (bottom-left origin for OpenGL).
type Scissor struct{ X, Y, W, H int32 }

// Pass holds the state shared by every draw in one paint.
type Pass struct {
	// Framebuffer size in physical pixels.
	Width, Height int
	// Projection maps logical points to clip space, column-major.
	Projection [16]float32
}

type DrawCmd struct {
	Texture  Texture
	Scissor  Scissor
	Vertices []gui.Vertex
	Indices  []uint32
}

// Info describes a backend for diagnostics.
type Info struct {
	Vendor, Renderer, Version string
}

// Device is the GPU backend the painter draws through.
type Device interface {
	CreateTexture(desc TextureDesc) (Texture, error)
	// UpdateTexture uploads pixels into the sub-rect x, y, w, h.
	UpdateTexture(t Texture, x, y, w, h int, pixels []byte) error
	DeleteTexture(t Texture)

	Clear(r, g, b, a float32)
	BeginPass(p Pass)
	// Draw issues one indexed triangle-list draw restricted to cmd.Scissor.
	Draw(cmd DrawCmd) error
	EndPass()
}
