package gui

import (
	"errors"
	"fmt"
)

var ErrInvalidImage = errors.New("gui: invalid image")

// TextureID identifies a texture across frames until it is freed.
// Managed ids are allocated by the GUI library (index 0 is the font atlas),
// user ids by the backend for textures it registers natively.
type TextureID struct {
	Managed bool
	Index   uint64
}

// FontTexture is the glyph atlas, always managed id 0.
var FontTexture = TextureID{Managed: true, Index: 0}

func ManagedTexture(index uint64) TextureID { return TextureID{Managed: true, Index: index} }
func UserTexture(index uint64) TextureID    { return TextureID{Index: index} }

func (id TextureID) String() string {
	if id.Managed {
		return fmt.Sprintf("managed#%d", id.Index)
	}
	return fmt.Sprintf("user#%d", id.Index)
}

type ImageFormat int

const (
	// FormatAlpha stores one coverage byte per pixel.
	FormatAlpha ImageFormat = iota + 1
	// FormatRGBA stores premultiplied RGBA, four bytes per pixel.
	FormatRGBA
)

func (f ImageFormat) BytesPerPixel() int {
	switch f {
	case FormatAlpha:
		return 1
	case FormatRGBA:
		return 4
	default:
		return 0
	}
}

func (f ImageFormat) String() string {
	switch f {
	case FormatAlpha:
		return "alpha"
	case FormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("ImageFormat(%d)", int(f))
	}
}

// ImageData is a tightly packed, row-major image with a top-left origin.
type ImageData struct {
	Format        ImageFormat
	Width, Height int
	Pixels        []byte
}

func NewAlphaImage(w, h int, coverage []byte) ImageData {
	return ImageData{Format: FormatAlpha, Width: w, Height: h, Pixels: coverage}
}

func NewColorImage(w, h int, rgba []byte) ImageData {
	return ImageData{Format: FormatRGBA, Width: w, Height: h, Pixels: rgba}
}

// Validate checks dimensions and that the payload matches them exactly.
func (img ImageData) Validate() error {
	bpp := img.Format.BytesPerPixel()
	if bpp == 0 {
		return fmt.Errorf("%w: unknown format %v", ErrInvalidImage, img.Format)
	}
	if img.Width <= 0 || img.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidImage, img.Width, img.Height)
	}
	if want := img.Width * img.Height * bpp; len(img.Pixels) != want {
		return fmt.Errorf("%w: %dx%d %v needs %d bytes, got %d", ErrInvalidImage, img.Width, img.Height, img.Format, want, len(img.Pixels))
	}
	return nil
}

type TextureFilter int

const (
	FilterLinear TextureFilter = iota
	FilterNearest
)

type TextureOptions struct {
	Magnification TextureFilter
	Minification  TextureFilter
}

// ImageDelta is one texture update. A nil Pos creates or fully replaces the
// texture; a non-nil Pos patches the sub-rectangle starting there.
type ImageDelta struct {
	Image   ImageData
	Pos     *[2]int
	Options TextureOptions
}

func FullImage(img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Options: opts}
}

func PartialImage(x, y int, img ImageData, opts TextureOptions) ImageDelta {
	return ImageDelta{Image: img, Pos: &[2]int{x, y}, Options: opts}
}

// IsWhole reports whether the delta replaces the full texture.
func (d ImageDelta) IsWhole() bool { return d.Pos == nil }

type TextureSet struct {
	ID    TextureID
	Delta ImageDelta
}

// TexturesDelta is what changed in texture state since the previous frame.
// Frees must only be applied after this frame has been painted.
type TexturesDelta struct {
	Set  []TextureSet
	Free []TextureID
}

func (d *TexturesDelta) Append(other TexturesDelta) {
	d.Set = append(d.Set, other.Set...)
	d.Free = append(d.Free, other.Free...)
}

func (d TexturesDelta) IsEmpty() bool { return len(d.Set) == 0 && len(d.Free) == 0 }
