package gui

// RawInput is everything the GUI library needs to run one frame.
type RawInput struct {
	// ScreenRect is the drawable area in logical points.
	ScreenRect Rect
	// Time is seconds since the bridge started, monotonic.
	Time           float64
	PixelsPerPoint float32
	Modifiers      Modifiers
	Focused        bool
	// Events arrived since the previous snapshot, in arrival order.
	Events []Event
}

type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

func (m Modifiers) Shift() bool { return m&ModShift != 0 }
func (m Modifiers) Ctrl() bool  { return m&ModCtrl != 0 }
func (m Modifiers) Alt() bool   { return m&ModAlt != 0 }
func (m Modifiers) Super() bool { return m&ModSuper != 0 }

// Command is Ctrl, or Super for macOS style shortcuts.
func (m Modifiers) Command() bool { return m&(ModCtrl|ModSuper) != 0 }

type PointerButton int

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
	ButtonMiddle
	ButtonExtra1
	ButtonExtra2
)

type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyBackspace
	KeyEnter
	KeySpace
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyShift
	KeyControl
	KeyAlt
	KeySuper
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
)

// Event is one input event in a RawInput.
type Event interface{ isEvent() }

// EventPointerMoved carries the pointer position in logical points.
type EventPointerMoved struct{ Pos Pos2 }

type EventPointerButton struct {
	Pos       Pos2
	Button    PointerButton
	Pressed   bool
	Modifiers Modifiers
}

// EventPointerGone is sent when the pointer leaves the window.
type EventPointerGone struct{}

type EventKey struct {
	Key       Key
	Pressed   bool
	Repeat    bool
	Modifiers Modifiers
}

type EventText struct{ Text string }

// EventScroll carries a scroll delta in logical points.
type EventScroll struct{ Delta Vec2 }

type EventCopy struct{}

type EventCut struct{}

type EventPaste struct{ Text string }

type EventWindowFocused struct{ Focused bool }

func (EventPointerMoved) isEvent()  {}
func (EventPointerButton) isEvent() {}
func (EventPointerGone) isEvent()   {}
func (EventKey) isEvent()           {}
func (EventText) isEvent()          {}
func (EventScroll) isEvent()        {}
func (EventCopy) isEvent()          {}
func (EventCut) isEvent()           {}
func (EventPaste) isEvent()         {}
func (EventWindowFocused) isEvent() {}
