package assets

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
)

// LoadImage decodes a PNG, JPEG, BMP or WebP file into premultiplied RGBA
// (row-major, top-left origin). Images larger than maxSide on either axis
// are scaled down to fit; maxSide <= 0 keeps the original size.
func LoadImage(path string, maxSide int) (gui.ImageData, error) {
	f, err := os.Open(path)
	if err != nil {
		return gui.ImageData{}, fmt.Errorf("open %q: %w", path, err)
	}
	defer f.Close()

	img, err := Decode(f, maxSide)
	if err != nil {
		return gui.ImageData{}, fmt.Errorf("%q: %w", path, err)
	}
	return img, nil
}

func Decode(r io.Reader, maxSide int) (gui.ImageData, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return gui.ImageData{}, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), maxSide)

	// image.RGBA is premultiplied, which is what the painter blends with.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}
	core.Logger().Debug("image decoded", "format", format, "w", b.Dx(), "h", b.Dy(), "scaled_w", w, "scaled_h", h)
	return gui.NewColorImage(w, h, dst.Pix), nil
}

func fit(w, h, maxSide int) (int, int) {
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return w, h
	}
	if w >= h {
		return maxSide, max(1, h*maxSide/w)
	}
	return max(1, w*maxSide/h), maxSide
}
