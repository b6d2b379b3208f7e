package text

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
)

var ErrAtlasTooLarge = errors.New("text: font atlas too large")

const maxAtlasSize = 4096

type Glyph struct {
	Rune     rune
	Advance  float32 // pixels
	BearingX float32 // left bearing in pixels
	BearingY float32 // distance from baseline to glyph top
	W, H     int     // glyph bitmap size
	U0, V0   float32 // UVs in atlas
	U1, V1   float32
}

// Atlas is a coverage (single channel) glyph atlas. A small solid block in
// its corner lets untextured shapes share the atlas texture.
type Atlas struct {
	SizePx                   float32
	Ascent, Descent, LineGap float32
	Glyphs                   map[rune]Glyph
	Image                    gui.ImageData
	// White is the UV of a fully covered texel.
	White   gui.Pos2
	kerning map[[2]rune]float32
}

// Default builds an atlas from the Go regular font.
func Default(sizePx float32) (*Atlas, error) {
	return NewAtlas(goregular.TTF, sizePx)
}

// LoadTTF builds an atlas from a TrueType or OpenType file on disk.
func LoadTTF(path string, sizePx float32) (*Atlas, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return NewAtlas(data, sizePx)
}

func NewAtlas(ttf []byte, sizePx float32) (*Atlas, error) {
	ft, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size: float64(sizePx), DPI: 72, Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new face: %w", err)
	}
	defer face.Close()

	m := face.Metrics()
	ascent := float32(m.Ascent.Round())
	descent := float32(-m.Descent.Round())
	lineGap := float32(m.Height.Round()) - ascent + descent

	// Printable ASCII and Latin-1.
	var runes []rune
	for r := rune(32); r <= 255; r++ {
		if r >= 127 && r < 160 {
			continue
		}
		runes = append(runes, r)
	}

	type meas struct {
		r          rune
		w, h       int
		adv        float32
		minX, minY int
	}
	measure := make([]meas, 0, len(runes))
	for _, rr := range runes {
		br, adv, ok := face.GlyphBounds(rr)
		if !ok {
			continue
		}
		minX, minY := br.Min.X.Floor(), br.Min.Y.Floor()
		measure = append(measure, meas{
			r:    rr,
			w:    br.Max.X.Ceil() - minX,
			h:    br.Max.Y.Ceil() - minY,
			adv:  float32(adv.Round()),
			minX: minX, minY: minY,
		})
	}

	// Shelf packer. The white block takes the first slot.
	const padding = 2
	const whiteSize = 2
	atlasSize := 128
	var pos map[rune]image.Point
	for {
		x, y, rowH := padding+whiteSize+padding, padding, whiteSize
		fits := true
		pos = make(map[rune]image.Point, len(measure))
		for _, g := range measure {
			if g.w == 0 || g.h == 0 {
				continue
			}
			if x+g.w+padding > atlasSize {
				x = padding
				y += rowH + padding
				rowH = 0
			}
			if g.w+2*padding > atlasSize || y+g.h+padding > atlasSize {
				fits = false
				break
			}
			pos[g.r] = image.Pt(x, y)
			x += g.w + padding
			rowH = max(rowH, g.h)
		}
		if fits {
			break
		}
		atlasSize *= 2
		if atlasSize > maxAtlasSize {
			return nil, fmt.Errorf("%w: %.0fpx glyphs need more than %d", ErrAtlasTooLarge, sizePx, maxAtlasSize)
		}
	}

	dst := image.NewAlpha(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(dst, image.Rect(padding, padding, padding+whiteSize, padding+whiteSize), image.Opaque, image.Point{}, draw.Src)
	drawer := &font.Drawer{Dst: dst, Src: image.Opaque, Face: face}

	inv := 1 / float32(atlasSize)
	glyphs := make(map[rune]Glyph, len(measure))
	for _, g := range measure {
		gl := Glyph{
			Rune: g.r, Advance: g.adv,
			BearingX: float32(g.minX), BearingY: float32(-g.minY),
			W: g.w, H: g.h,
		}
		if p, ok := pos[g.r]; ok {
			// Dot sits on the baseline, so shift by the glyph's bounds.
			drawer.Dot = fixed.P(p.X-g.minX, p.Y-g.minY)
			drawer.DrawString(string(g.r))
			gl.U0, gl.V0 = float32(p.X)*inv, float32(p.Y)*inv
			gl.U1, gl.V1 = float32(p.X+g.w)*inv, float32(p.Y+g.h)*inv
		}
		glyphs[g.r] = gl
	}

	kerning := make(map[[2]rune]float32)
	for _, a := range measure {
		for _, b := range measure {
			if dx := face.Kern(a.r, b.r); dx != 0 {
				kerning[[2]rune{a.r, b.r}] = float32(dx) / 64
			}
		}
	}

	center := float32(padding) + whiteSize/2
	core.Logger().Debug("font atlas built", "size_px", sizePx, "atlas", atlasSize, "glyphs", len(glyphs), "kern_pairs", len(kerning))
	return &Atlas{
		SizePx: sizePx,
		Ascent: ascent, Descent: descent, LineGap: lineGap,
		Glyphs:  glyphs,
		Image:   gui.NewAlphaImage(atlasSize, atlasSize, dst.Pix),
		White:   gui.Pos2{X: center * inv, Y: center * inv},
		kerning: kerning,
	}, nil
}

// Kern returns the horizontal adjustment between a and b in pixels.
func (a *Atlas) Kern(prev, r rune) float32 { return a.kerning[[2]rune{prev, r}] }
