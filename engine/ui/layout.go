package ui

import "github.com/hubastard/meshbridge/engine/gui"

type PanelProps struct {
	ID    int
	Title string
	// Rect is where the panel starts; a movable panel keeps its own offset
	// from there once dragged by the title bar.
	Rect    gui.Rect
	Movable bool
}

// panel is one open layout scope. Widgets stack top to bottom inside
// content, clipped to clip.
type panel struct {
	id      int
	content gui.Rect
	clip    gui.Rect
	cursor  gui.Pos2
}

func (c *Ctx) current() *panel {
	if len(c.stack) == 0 {
		// Widgets outside any panel lay out over the whole screen.
		c.stack = append(c.stack, panel{
			content: c.screen,
			clip:    c.screen,
			cursor:  c.screen.Min,
		})
	}
	return &c.stack[len(c.stack)-1]
}

// BeginPanel opens a titled panel. Every BeginPanel needs an EndPanel.
func (c *Ctx) BeginPanel(p PanelProps) {
	parentClip := c.current().clip
	rect := p.Rect
	if off, ok := c.offsets[p.ID]; ok {
		rect = gui.Rect{Min: rect.Min.Add(off), Max: rect.Max.Add(off)}
	}
	clip := rect.Intersect(parentClip)

	c.stack = append(c.stack, panel{id: p.ID, clip: clip})
	c.tess.Rect(clip, rect, c.style.Panel.Premultiplied())

	top := rect.Min.Y
	if p.Title != "" {
		titleH := c.font.LineHeight() + 2*c.style.Padding
		bar := gui.RectFromMinSize(rect.Min, gui.Vec2{X: rect.Width(), Y: titleH})
		_, active, _ := c.interact(p.ID, bar)
		if active && p.Movable && c.down && !c.in.pressed {
			off := c.offsets[p.ID]
			off.X += c.pointer.X - c.prevPointer.X
			off.Y += c.pointer.Y - c.prevPointer.Y
			c.offsets[p.ID] = off
		}
		c.tess.Rect(clip, bar, c.style.Title.Premultiplied())
		c.drawText(gui.Pos2{X: bar.Min.X + c.style.Padding, Y: bar.Min.Y + c.style.Padding}, p.Title, c.style.Text)
		top += titleH
	}

	content := gui.Rect{Min: gui.Pos2{X: rect.Min.X, Y: top}, Max: rect.Max}.Shrink(c.style.Padding)
	cur := &c.stack[len(c.stack)-1]
	cur.content = content
	cur.clip = content.Intersect(clip)
	cur.cursor = content.Min
}

func (c *Ctx) EndPanel() {
	if len(c.stack) == 0 {
		return
	}
	c.stack = c.stack[:len(c.stack)-1]
}

// next reserves a w x h rect at the layout cursor. w <= 0 takes the full
// available width.
func (c *Ctx) next(w, h float32) gui.Rect {
	p := c.current()
	if w <= 0 {
		w = p.content.Max.X - p.cursor.X
	}
	r := gui.RectFromMinSize(p.cursor, gui.Vec2{X: w, Y: h})
	p.cursor.Y += h + c.style.Spacing
	return r
}

// Space adds vertical space.
func (c *Ctx) Space(h float32) { c.current().cursor.Y += h }

// AvailableWidth is the width left for a widget in the current panel.
func (c *Ctx) AvailableWidth() float32 {
	p := c.current()
	return p.content.Max.X - p.cursor.X
}
