package ui

import (
	"unicode/utf8"

	"github.com/hubastard/meshbridge/engine/colors"
	"github.com/hubastard/meshbridge/engine/gui"
)

// ===== Label =====

func (c *Ctx) Label(s string) {
	c.ColoredLabel(s, c.style.Text)
}

// Labelf formats into the frame's scratch buffer. It supports %s %d %f
// (with .prec) and %v.
func (c *Ctx) Labelf(format string, args ...any) {
	c.ColoredLabel(c.scratch.Sprintf(format, args...), c.style.Text)
}

func (c *Ctx) ColoredLabel(s string, col colors.Color) {
	w, h := c.font.Measure(s)
	r := c.next(w, h)
	c.drawText(r.Min, s, col)
}

// Separator draws a thin horizontal line.
func (c *Ctx) Separator() {
	r := c.next(0, 1)
	c.tess.Rect(c.current().clip, r, c.style.TextDim.WithAlpha(0.5).Premultiplied())
}

// ===== Button =====

type ButtonProps struct {
	ID   int
	Text string
	// Width of 0 fits the text.
	Width float32
}

func (c *Ctx) Button(p ButtonProps) (clicked bool) {
	tw, th := c.font.Measure(p.Text)
	pad := c.style.Padding
	w := p.Width
	if w <= 0 {
		w = tw + 2*pad
	}
	r := c.next(w, th+2*pad)
	hot, active, clicked := c.interact(p.ID, r)

	clip := c.current().clip
	c.tess.Rect(clip, r, c.widgetColor(hot, active).Premultiplied())
	c.drawText(gui.Pos2{X: r.Min.X + (r.Width()-tw)/2, Y: r.Min.Y + pad}, p.Text, c.style.Text)
	return clicked
}

// ===== Checkbox =====

type CheckboxProps struct {
	ID    int
	Label string
	Value *bool
}

// Checkbox toggles *p.Value when clicked and reports whether it changed.
func (c *Ctx) Checkbox(p CheckboxProps) (changed bool) {
	tw, th := c.font.Measure(p.Label)
	box := th
	r := c.next(box+c.style.Padding+tw, th)
	hot, active, clicked := c.interact(p.ID, r)
	if clicked {
		*p.Value = !*p.Value
		changed = true
	}

	clip := c.current().clip
	boxRect := gui.RectFromMinSize(r.Min, gui.Vec2{X: box, Y: box})
	c.tess.Rect(clip, boxRect, c.widgetColor(hot, active).Premultiplied())
	if *p.Value {
		c.tess.Rect(clip, boxRect.Shrink(box/4), c.style.Accent.Premultiplied())
	}
	c.drawText(gui.Pos2{X: r.Min.X + box + c.style.Padding, Y: r.Min.Y}, p.Label, c.style.Text)
	return changed
}

// ===== Slider =====

type SliderProps struct {
	ID       int
	Label    string
	Value    *float32
	Min, Max float32
	// Width of 0 takes the available width.
	Width float32
}

// Slider drags *p.Value between Min and Max. Scrolling over it nudges the
// value by 1% of the range per scroll step.
func (c *Ctx) Slider(p SliderProps) (changed bool) {
	_, th := c.font.Measure(p.Label)
	pad := c.style.Padding
	r := c.next(p.Width, th+2*pad)
	hot, active, _ := c.interact(p.ID, r)

	old := *p.Value
	span := p.Max - p.Min
	if active && c.down && r.Width() > 0 {
		t := (c.pointer.X - r.Min.X) / r.Width()
		*p.Value = p.Min + clampf(t, 0, 1)*span
	} else if hot && c.in.scroll.Y != 0 {
		step := span / 100
		if c.in.scroll.Y < 0 {
			step = -step
		}
		*p.Value = clampf(*p.Value+step, min(p.Min, p.Max), max(p.Min, p.Max))
	}

	clip := c.current().clip
	c.tess.Rect(clip, r, c.widgetColor(hot, active).Premultiplied())
	if span != 0 {
		t := clampf((*p.Value-p.Min)/span, 0, 1)
		fill := gui.Rect{Min: r.Min, Max: gui.Pos2{X: r.Min.X + t*r.Width(), Y: r.Max.Y}}
		c.tess.Rect(clip, fill, c.style.Accent.WithAlpha(0.6).Premultiplied())
	}
	c.drawText(gui.Pos2{X: r.Min.X + pad, Y: r.Min.Y + pad}, c.scratch.Sprintf("%s: %.2f", p.Label, *p.Value), c.style.Text)
	return *p.Value != old
}

// ===== TextEdit =====

type TextEditProps struct {
	ID        int
	Text      *string
	Multiline bool
	// Lines is the visible height in lines; 0 means one.
	Lines int
	Width float32
}

// TextEdit edits *p.Text at its end. When focused it accepts typing,
// backspace, enter (multiline only) and the clipboard commands, which act
// on the whole text.
func (c *Ctx) TextEdit(p TextEditProps) (changed bool) {
	pad := c.style.Padding
	lines := max(p.Lines, 1)
	r := c.next(p.Width, float32(lines)*c.font.LineHeight()+2*pad)
	hot, active, _ := c.interact(p.ID, r)
	if c.in.pressed && hot {
		c.focus = p.ID
		c.focusClaimed = true
	}

	focused := c.focus == p.ID
	if focused {
		changed = c.editText(p)
	}

	clip := c.current().clip
	bg := c.widgetColor(hot, active)
	if focused {
		bg = c.style.WidgetHot
	}
	c.tess.Rect(clip, r, bg.Premultiplied())

	inner := r.Shrink(pad).Intersect(clip)
	saved := c.current().clip
	c.current().clip = inner
	c.drawText(inner.Min, *p.Text, c.style.Text)
	if focused {
		c.drawCaret(inner, *p.Text)
	}
	c.current().clip = saved
	return changed
}

func (c *Ctx) editText(p TextEditProps) bool {
	before := *p.Text
	s := before
	if c.in.copy && s != "" {
		c.copied = s
	}
	if c.in.cut && s != "" {
		c.copied = s
		s = ""
	}
	s += sanitize(c.in.paste, p.Multiline)
	s += sanitize(c.in.text, p.Multiline)
	for _, k := range c.in.keys {
		switch k {
		case gui.KeyBackspace:
			if _, size := utf8.DecodeLastRuneInString(s); size > 0 {
				s = s[:len(s)-size]
			}
		case gui.KeyEnter:
			if p.Multiline {
				s += "\n"
			}
		case gui.KeyEscape:
			c.focus = 0
		}
	}
	*p.Text = s
	return s != before
}

func (c *Ctx) drawCaret(inner gui.Rect, s string) {
	// Blink at 1 Hz.
	if int(c.time*2)%2 == 1 {
		return
	}
	last := s
	lineTop := inner.Min.Y
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			last = s[i+1:]
			break
		}
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lineTop += c.font.LineHeight()
		}
	}
	w, _ := c.font.Measure(last)
	caret := gui.RectFromMinSize(gui.Pos2{X: inner.Min.X + w, Y: lineTop}, gui.Vec2{X: 1, Y: c.font.LineHeight()})
	c.tess.Rect(inner, caret, c.style.Text.Premultiplied())
}

func sanitize(s string, multiline bool) string {
	if multiline {
		return s
	}
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r != '\n' && r != '\r' {
			out = append(out, r)
		}
	}
	return string(out)
}

// ===== Image =====

// Image draws texture id stretched over a w x h rect.
func (c *Ctx) Image(id gui.TextureID, w, h float32) {
	r := c.next(w, h)
	uv := gui.Rect{Max: gui.Pos2{X: 1, Y: 1}}
	c.tess.Quad(c.current().clip, r, uv, id, colors.White.Premultiplied())
}

// ===== Custom =====

// Custom reserves a w x h rect and paints it with fn, using the backend
// directly. fn runs during painting, in paint order.
func (c *Ctx) Custom(w, h float32, fn func(gui.PaintCallbackInfo)) gui.Rect {
	r := c.next(w, h)
	clip := r.Intersect(c.current().clip)
	c.tess.Callback(clip, &gui.PaintCallback{Rect: r, Callback: fn})
	return r
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
