// Package ui is a small immediate-mode GUI. Ctx implements gui.Library:
// widgets are declared between BeginFrame and EndFrame, and EndFrame
// returns the tessellated frame and its texture changes.
package ui

import (
	"github.com/hubastard/meshbridge/engine/colors"
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/scratch"
	"github.com/hubastard/meshbridge/engine/text"
)

type Style struct {
	Padding      float32
	Spacing      float32
	Text         colors.Color
	TextDim      colors.Color
	Panel        colors.Color
	Title        colors.Color
	Widget       colors.Color
	WidgetHot    colors.Color
	WidgetActive colors.Color
	Accent       colors.Color
}

func DefaultStyle() Style {
	return Style{
		Padding:      6,
		Spacing:      4,
		Text:         colors.Color{0.9, 0.9, 0.9, 1},
		TextDim:      colors.Color{0.6, 0.6, 0.6, 1},
		Panel:        colors.Color{0.12, 0.13, 0.15, 0.95},
		Title:        colors.Color{0.2, 0.3, 0.45, 1},
		Widget:       colors.Color{0.22, 0.23, 0.26, 1},
		WidgetHot:    colors.Color{0.3, 0.32, 0.36, 1},
		WidgetActive: colors.Color{0.18, 0.4, 0.65, 1},
		Accent:       colors.Color{0.3, 0.6, 0.95, 1},
	}
}

// frameInput is the part of RawInput widgets look at, reduced per frame.
type frameInput struct {
	pressed, released bool
	scroll            gui.Vec2
	text              string
	keys              []gui.Key
	copy, cut         bool
	paste             string
	mods              gui.Modifiers
}

// Ctx holds widget state across frames. Widget ids are chosen by the caller
// and must be non-zero and unique within a frame.
type Ctx struct {
	font     *text.Atlas
	style    Style
	tess     *Tessellator
	textures textureManager
	scratch  *scratch.Buffer

	in          frameInput
	pointer     gui.Pos2
	prevPointer gui.Pos2
	hasPointer  bool
	down        bool

	active       int
	focus        int
	focusClaimed bool
	offsets      map[int]gui.Vec2

	stack   []panel
	screen  gui.Rect
	ppp     float32
	time    float64
	copied  string
	inFrame bool
}

// New creates a context drawing text with font. The font atlas is uploaded
// with the first frame's output.
func New(font *text.Atlas) *Ctx {
	c := &Ctx{
		font:    font,
		style:   DefaultStyle(),
		tess:    NewTessellator(font.White),
		scratch: scratch.New(4096),
		offsets: make(map[int]gui.Vec2),
		ppp:     1,
	}
	c.textures.next = 1
	c.textures.set(gui.FontTexture, gui.FullImage(font.Image, gui.TextureOptions{
		Magnification: gui.FilterLinear,
		Minification:  gui.FilterLinear,
	}))
	return c
}

func (c *Ctx) SetStyle(s Style)  { c.style = s }
func (c *Ctx) Style() Style      { return c.style }
func (c *Ctx) Font() *text.Atlas { return c.font }

// BeginFrame implements gui.Library.
func (c *Ctx) BeginFrame(in gui.RawInput) {
	if c.inFrame {
		core.Logger().Warn("ui: BeginFrame called twice without EndFrame")
	}
	c.inFrame = true
	c.screen = in.ScreenRect
	c.ppp = in.PixelsPerPoint
	c.time = in.Time
	c.copied = ""
	c.focusClaimed = false
	c.stack = c.stack[:0]
	c.tess.Reset()
	c.scratch.Reset()
	c.prevPointer = c.pointer

	fi := frameInput{mods: in.Modifiers, keys: c.in.keys[:0]}
	for _, ev := range in.Events {
		switch e := ev.(type) {
		case gui.EventPointerMoved:
			c.pointer = e.Pos
			c.hasPointer = true
		case gui.EventPointerGone:
			c.hasPointer = false
		case gui.EventPointerButton:
			if e.Button != gui.ButtonPrimary {
				continue
			}
			c.pointer = e.Pos
			if e.Pressed {
				fi.pressed = true
			} else {
				fi.released = true
			}
			c.down = e.Pressed
		case gui.EventScroll:
			fi.scroll.X += e.Delta.X
			fi.scroll.Y += e.Delta.Y
		case gui.EventText:
			fi.text += e.Text
		case gui.EventKey:
			if e.Pressed {
				fi.keys = append(fi.keys, e.Key)
			}
		case gui.EventCopy:
			fi.copy = true
		case gui.EventCut:
			fi.cut = true
		case gui.EventPaste:
			fi.paste += e.Text
		case gui.EventWindowFocused:
			if !e.Focused {
				c.down = false
				c.active = 0
			}
		}
	}
	if !c.hasPointer && !c.down {
		c.active = 0
	}
	c.in = fi
}

// EndFrame implements gui.Library.
func (c *Ctx) EndFrame() gui.FullOutput {
	if !c.inFrame {
		core.Logger().Warn("ui: EndFrame called without BeginFrame")
	}
	c.inFrame = false
	if len(c.stack) > 0 {
		core.Logger().Warn("ui: panels left open at end of frame", "open", len(c.stack))
		c.stack = c.stack[:0]
	}
	if c.in.pressed && !c.focusClaimed {
		c.focus = 0
	}
	if c.in.released {
		c.active = 0
	}
	return gui.FullOutput{
		Platform:       gui.PlatformOutput{CopiedText: c.copied},
		Textures:       c.textures.take(),
		Primitives:     c.tess.Finish(),
		PixelsPerPoint: c.ppp,
	}
}

// Stats returns the tessellation statistics of the last frame.
func (c *Ctx) Stats() Statistics { return c.tess.Stats() }

// Time is RawInput.Time of the current frame.
func (c *Ctx) Time() float64 { return c.time }

// Screen is the drawable area in points.
func (c *Ctx) Screen() gui.Rect { return c.screen }

// Focused returns the id of the widget with keyboard focus, or 0.
func (c *Ctx) Focused() int { return c.focus }

// Pointer returns the pointer position and whether it is over the window.
func (c *Ctx) Pointer() (gui.Pos2, bool) { return c.pointer, c.hasPointer }

// interact hit-tests r for widget id. A widget becomes active when pressed
// and is clicked when released while still under the pointer.
func (c *Ctx) interact(id int, r gui.Rect) (hot, active, clicked bool) {
	clip := c.current().clip
	hot = c.hasPointer && r.Contains(c.pointer) && clip.Contains(c.pointer)
	if c.in.pressed && hot && c.active == 0 {
		c.active = id
	}
	active = c.active == id
	if c.in.released && active {
		clicked = hot
	}
	return hot, active, clicked
}

func (c *Ctx) widgetColor(hot, active bool) colors.Color {
	switch {
	case active:
		return c.style.WidgetActive
	case hot:
		return c.style.WidgetHot
	}
	return c.style.Widget
}

func (c *Ctx) drawText(pos gui.Pos2, s string, col colors.Color) {
	clip := c.current().clip
	c32 := col.Premultiplied()
	c.font.Layout(pos.X, pos.Y, s, func(q text.Quad) {
		c.tess.Quad(clip, q.Rect, q.UV, gui.FontTexture, c32)
	})
}
