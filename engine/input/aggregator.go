// Package input collects window events between frames and turns them into
// the GUI library's per-frame RawInput.
package input

import (
	"time"
	"unicode"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/viewport"
)

// Clipboard is the OS clipboard, usually the window.
type Clipboard interface {
	SetClipboard(text string)
	Clipboard() string
}

// ViewportSink receives size and scale changes. They never reach the GUI
// event stream.
type ViewportSink interface {
	SetFramebufferSize(w, h int)
	SetWindowSize(w, h int)
	SetContentScale(s float32)
}

const DefaultScrollFactor = 50

type Option func(*Aggregator)

// WithClock replaces time.Now as the source of RawInput.Time.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithScrollFactor sets how many points one scroll step moves.
func WithScrollFactor(f float32) Option {
	return func(a *Aggregator) {
		if f > 0 {
			a.scrollFactor = f
		}
	}
}

// Aggregator holds the single-use event buffer for the next frame and the
// state that carries over between frames.
//
// Pointer positions are kept in window coordinates until TakeSnapshot, where
// they are converted with the frame's latched scale.
type Aggregator struct {
	clip         Clipboard
	vp           ViewportSink
	now          func() time.Time
	start        time.Time
	scrollFactor float32

	events []gui.Event

	cursor       gui.Pos2
	cursorInside bool
	held         map[core.Key]bool
	mods         gui.Modifiers
	focused      bool
}

func New(clip Clipboard, vp ViewportSink, opts ...Option) *Aggregator {
	a := &Aggregator{
		clip:         clip,
		vp:           vp,
		now:          time.Now,
		scrollFactor: DefaultScrollFactor,
		held:         map[core.Key]bool{},
		focused:      true,
	}
	for _, o := range opts {
		o(a)
	}
	a.start = a.now()
	return a
}

// HandleEvents handles evs in order.
func (a *Aggregator) HandleEvents(evs []core.Event) {
	for _, ev := range evs {
		a.HandleEvent(ev)
	}
}

func (a *Aggregator) HandleEvent(ev core.Event) {
	switch e := ev.(type) {
	case core.EventMouseMove:
		a.cursor = gui.Pos2{X: float32(e.X), Y: float32(e.Y)}
		a.cursorInside = true
		a.push(gui.EventPointerMoved{Pos: a.cursor})

	case core.EventMouseButton:
		b, ok := translateButton(e.Button)
		if !ok {
			core.Logger().Debug("unmapped mouse button", "button", e.Button)
			return
		}
		a.push(gui.EventPointerButton{Pos: a.cursor, Button: b, Pressed: e.Down, Modifiers: a.mods})

	case core.EventKey:
		a.handleKey(e)

	case core.EventChar:
		if unicode.IsControl(e.Char) {
			return
		}
		a.push(gui.EventText{Text: string(e.Char)})

	case core.EventScroll:
		a.push(gui.EventScroll{Delta: gui.Vec2{
			X: float32(e.Xoff) * a.scrollFactor,
			Y: float32(e.Yoff) * a.scrollFactor,
		}})

	case core.EventFocus:
		a.focused = e.Focused
		if !e.Focused {
			// Releases that happen while unfocused are never reported.
			clear(a.held)
			a.mods = 0
		}
		a.push(gui.EventWindowFocused{Focused: e.Focused})

	case core.EventCursorEnter:
		if e.Entered {
			return
		}
		a.cursorInside = false
		a.push(gui.EventPointerGone{})

	case core.EventResize:
		a.vp.SetWindowSize(e.W, e.H)
	case core.EventFramebufferResize:
		a.vp.SetFramebufferSize(e.W, e.H)
	case core.EventContentScale:
		a.vp.SetContentScale(e.X)

	case core.EventCloseRequested:
		// handled by the frame driver
	default:
		core.Logger().Debug("unhandled window event", "event", ev)
	}
}

func (a *Aggregator) handleKey(e core.EventKey) {
	if bit := modifierFor(e.Key); bit != 0 {
		a.held[e.Key] = e.Down
		a.mods = a.heldModifiers()
	}
	key, ok := translateKey(e.Key)
	if !ok {
		core.Logger().Debug("unmapped key", "key", e.Key)
		return
	}
	if e.Down && a.mods.Command() {
		switch key {
		case gui.KeyC:
			a.push(gui.EventCopy{})
			return
		case gui.KeyX:
			a.push(gui.EventCut{})
			return
		case gui.KeyV:
			if a.clip != nil {
				if text := a.clip.Clipboard(); text != "" {
					a.push(gui.EventPaste{Text: text})
				}
			}
			return
		}
	}
	a.push(gui.EventKey{Key: key, Pressed: e.Down, Repeat: e.Repeat, Modifiers: a.mods})
}

func (a *Aggregator) heldModifiers() gui.Modifiers {
	var m gui.Modifiers
	for k, down := range a.held {
		if down {
			m |= modifierFor(k)
		}
	}
	return m
}

func (a *Aggregator) push(ev gui.Event) { a.events = append(a.events, ev) }

// TakeSnapshot returns the input for the frame about to start and empties
// the event buffer. Cursor, modifiers and focus carry over.
func (a *Aggregator) TakeSnapshot(frame viewport.Frame) gui.RawInput {
	events := a.events
	a.events = nil
	for i, ev := range events {
		switch e := ev.(type) {
		case gui.EventPointerMoved:
			e.Pos = frame.WindowToPoints(e.Pos)
			events[i] = e
		case gui.EventPointerButton:
			e.Pos = frame.WindowToPoints(e.Pos)
			events[i] = e
		}
	}
	return gui.RawInput{
		ScreenRect:     frame.ScreenRect,
		Time:           a.now().Sub(a.start).Seconds(),
		PixelsPerPoint: frame.PixelsPerPoint,
		Modifiers:      a.mods,
		Focused:        a.focused,
		Events:         events,
	}
}

// DeliverClipboard hands copied or cut text to the OS clipboard.
func (a *Aggregator) DeliverClipboard(text string) {
	if text == "" || a.clip == nil {
		return
	}
	a.clip.SetClipboard(text)
}

// Pending returns the number of events waiting for the next snapshot.
func (a *Aggregator) Pending() int { return len(a.events) }

// Cursor returns the last pointer position in window coordinates and whether
// the pointer is inside the window.
func (a *Aggregator) Cursor() (gui.Pos2, bool) { return a.cursor, a.cursorInside }

func (a *Aggregator) Modifiers() gui.Modifiers { return a.mods }
func (a *Aggregator) Focused() bool            { return a.focused }
