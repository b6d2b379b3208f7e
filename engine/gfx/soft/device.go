// Package soft is a CPU-side gfx.Device. It keeps texture pixels in memory
// and records draws instead of rasterizing them, which is enough to run the
// bridge headless and to inspect what a frame would have drawn.
package soft

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/hubastard/meshbridge/engine/gfx"
)

var ErrDeletedTexture = errors.New("soft: texture was deleted")

type Texture struct {
	id      int
	format  gfx.TextureFormat
	img     draw.Image
	deleted bool
}

func (t *Texture) ID() int                   { return t.id }
func (t *Texture) Size() (int, int)          { b := t.img.Bounds(); return b.Dx(), b.Dy() }
func (t *Texture) Format() gfx.TextureFormat { return t.format }
func (t *Texture) Deleted() bool             { return t.deleted }

// Pixels returns a tightly packed copy of the texture contents.
func (t *Texture) Pixels() []byte {
	switch m := t.img.(type) {
	case *image.Alpha:
		return append([]byte(nil), m.Pix...)
	case *image.RGBA:
		return append([]byte(nil), m.Pix...)
	}
	return nil
}

// DrawCall is what a Draw would have sent to the GPU.
type DrawCall struct {
	TextureID int
	Scissor   gfx.Scissor
	Vertices  int
	Indices   int
}

type Device struct {
	// MemoryLimit caps total texture bytes; 0 means unlimited.
	MemoryLimit int

	nextID int
	used   int
	live   map[int]*Texture
	pass   *gfx.Pass
	last   *gfx.Pass
	calls  []DrawCall
	clears int
}

func New() *Device {
	return &Device{live: map[int]*Texture{}}
}

func bytesFor(w, h int, f gfx.TextureFormat) int {
	if f == gfx.FormatR8 {
		return w * h
	}
	return w * h * 4
}

func (d *Device) CreateTexture(desc gfx.TextureDesc) (gfx.Texture, error) {
	size := bytesFor(desc.Width, desc.Height, desc.Format)
	if d.MemoryLimit > 0 && d.used+size > d.MemoryLimit {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, %d of %d in use", gfx.ErrOutOfMemory, desc.Width, desc.Height, size, d.used, d.MemoryLimit)
	}
	rect := image.Rect(0, 0, desc.Width, desc.Height)
	var img draw.Image
	if desc.Format == gfx.FormatR8 {
		img = image.NewAlpha(rect)
	} else {
		img = image.NewRGBA(rect)
	}
	d.nextID++
	t := &Texture{id: d.nextID, format: desc.Format, img: img}
	d.live[t.id] = t
	d.used += size
	if desc.Pixels != nil {
		if err := d.UpdateTexture(t, 0, 0, desc.Width, desc.Height, desc.Pixels); err != nil {
			d.DeleteTexture(t)
			return nil, err
		}
	}
	return t, nil
}

func (d *Device) UpdateTexture(gt gfx.Texture, x, y, w, h int, pixels []byte) error {
	t := gt.(*Texture)
	if t.deleted {
		return fmt.Errorf("update texture %d: %w", t.id, ErrDeletedTexture)
	}
	dst := image.Rect(x, y, x+w, y+h)
	if !dst.In(t.img.Bounds()) {
		return fmt.Errorf("update texture %d: rect %v outside %v", t.id, dst, t.img.Bounds())
	}
	if want := bytesFor(w, h, t.format); len(pixels) != want {
		return fmt.Errorf("update texture %d: %d bytes for %dx%d, want %d", t.id, len(pixels), w, h, want)
	}
	var src image.Image
	if t.format == gfx.FormatR8 {
		src = &image.Alpha{Pix: pixels, Stride: w, Rect: image.Rect(0, 0, w, h)}
	} else {
		src = &image.RGBA{Pix: pixels, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	}
	draw.Draw(t.img, dst, src, image.Point{}, draw.Src)
	return nil
}

func (d *Device) DeleteTexture(gt gfx.Texture) {
	t := gt.(*Texture)
	if t.deleted {
		return
	}
	t.deleted = true
	w, h := t.Size()
	d.used -= bytesFor(w, h, t.format)
	delete(d.live, t.id)
}

func (d *Device) Clear(r, g, b, a float32) { d.clears++ }

func (d *Device) Info() gfx.Info {
	return gfx.Info{Vendor: "meshbridge", Renderer: "soft", Version: "1"}
}

func (d *Device) BeginPass(p gfx.Pass) { d.pass, d.last = &p, &p }

func (d *Device) Draw(cmd gfx.DrawCmd) error {
	if d.pass == nil {
		return errors.New("soft: draw outside of a pass")
	}
	t := cmd.Texture.(*Texture)
	if t.deleted {
		return fmt.Errorf("draw with texture %d: %w", t.id, ErrDeletedTexture)
	}
	d.calls = append(d.calls, DrawCall{
		TextureID: t.id,
		Scissor:   cmd.Scissor,
		Vertices:  len(cmd.Vertices),
		Indices:   len(cmd.Indices),
	})
	return nil
}

func (d *Device) EndPass() { d.pass = nil }

// Calls returns the draws recorded since the last Reset.
func (d *Device) Calls() []DrawCall { return d.calls }

// Reset forgets recorded draws and clears.
func (d *Device) Reset() {
	d.calls = d.calls[:0]
	d.clears = 0
}

func (d *Device) Clears() int       { return d.clears }
func (d *Device) LiveTextures() int { return len(d.live) }
func (d *Device) MemoryUsed() int   { return d.used }

// LastPass returns the most recently begun pass, if any.
func (d *Device) LastPass() (gfx.Pass, bool) {
	if d.last == nil {
		return gfx.Pass{}, false
	}
	return *d.last, true
}
