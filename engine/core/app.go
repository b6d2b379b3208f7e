package core

// Window abstraction over the platform layer. Events produced by the
// platform are queued, in arrival order, until DrainEvents is called.
type Window interface {
	PollEvents()
	DrainEvents() []Event
	SwapBuffers()
	ShouldClose() bool
	RequestClose()
	FramebufferSize() (int, int)
	WindowSize() (int, int)
	ContentScale() float32
	SetTitle(title string)

	SetClipboard(text string)
	Clipboard() string
}

// Event model for window and input events.
type Event interface{ isEvent() }

type EventCloseRequested struct{}

func (EventCloseRequested) isEvent() {}

// EventResize reports a new window size in screen coordinates.
type EventResize struct{ W, H int }

func (EventResize) isEvent() {}

// EventFramebufferResize reports a new framebuffer size in pixels.
type EventFramebufferResize struct{ W, H int }

func (EventFramebufferResize) isEvent() {}

// EventContentScale reports a new display scale (pixels per point).
type EventContentScale struct{ X, Y float32 }

func (EventContentScale) isEvent() {}

type EventKey struct {
	Key    Key
	Down   bool
	Repeat bool
	Mods   Mod
}

func (EventKey) isEvent() {}

type EventChar struct {
	Char rune
	Mods Mod
}

func (EventChar) isEvent() {}

// EventMouseMove carries the cursor position in screen coordinates.
type EventMouseMove struct{ X, Y float64 }

func (EventMouseMove) isEvent() {}

type EventMouseButton struct {
	Button MouseButton
	Down   bool
	Mods   Mod
}

func (EventMouseButton) isEvent() {}

type EventScroll struct{ Xoff, Yoff float64 }

func (EventScroll) isEvent() {}

type EventFocus struct{ Focused bool }

func (EventFocus) isEvent() {}

type EventCursorEnter struct{ Entered bool }

func (EventCursorEnter) isEvent() {}

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseButton4
	MouseButton5
)

// Key/mod enums (subset; add as needed).
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
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyLeftShift
	KeyRightShift
	KeyLeftControl
	KeyRightControl
	KeyLeftAlt
	KeyRightAlt
	KeyLeftSuper
	KeyRightSuper
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

type Mod int

const (
	ModNone  Mod = 0
	ModShift Mod = 1 << 0
	ModCtrl  Mod = 1 << 1
	ModAlt   Mod = 1 << 2
	ModSuper Mod = 1 << 3
)
