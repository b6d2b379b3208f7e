package text

import "github.com/hubastard/meshbridge/engine/gui"

// Quad is one glyph placed on screen.
type Quad struct {
	Rect gui.Rect
	UV   gui.Rect
}

// Layout places s with its top-left corner at (x, y). Positive Y goes
// downward. Runes missing from the atlas advance by a space.
func (a *Atlas) Layout(x, y float32, s string, emit func(Quad)) {
	penX := x
	baseY := y + a.Ascent
	prev := rune(-1)

	for _, r := range s {
		if r == '\n' {
			penX = x
			baseY += a.LineHeight()
			prev = -1
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			penX += a.Glyphs[' '].Advance
			prev = r
			continue
		}
		if prev >= 0 {
			penX += a.Kern(prev, r)
		}
		if g.W > 0 && g.H > 0 {
			left := penX + g.BearingX
			top := baseY - g.BearingY
			emit(Quad{
				Rect: gui.RectFromMinSize(gui.Pos2{X: left, Y: top}, gui.Vec2{X: float32(g.W), Y: float32(g.H)}),
				UV:   gui.Rect{Min: gui.Pos2{X: g.U0, Y: g.V0}, Max: gui.Pos2{X: g.U1, Y: g.V1}},
			})
		}
		penX += g.Advance
		prev = r
	}
}

// Measure returns the size of s as Layout would place it.
func (a *Atlas) Measure(s string) (width, height float32) {
	var lineW float32
	prev := rune(-1)
	height = a.LineHeight()

	for _, r := range s {
		if r == '\n' {
			width = max(width, lineW)
			lineW = 0
			height += a.LineHeight()
			prev = -1
			continue
		}
		g, ok := a.Glyphs[r]
		if !ok {
			lineW += a.Glyphs[' '].Advance
			prev = r
			continue
		}
		if prev >= 0 {
			lineW += a.Kern(prev, r)
		}
		lineW += g.Advance
		prev = r
	}
	return max(width, lineW), height
}

func (a *Atlas) LineHeight() float32 { return a.Ascent - a.Descent + a.LineGap }
