package platform

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/hubastard/meshbridge/engine/core"
)

// GLFWWindow implements core.Window. GLFW callbacks run inside PollEvents
// and only queue translated events; DrainEvents hands them out in arrival
// order.
type GLFWWindow struct {
	w     *glfw.Window
	queue []core.Event
}

// NewGLFWWindow opens a window with a current GL 3.3 core context. Must be
// called on the main thread before any GL calls.
func NewGLFWWindow(cfg core.Config) (*GLFWWindow, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	// Mac requires the forward-compatible flag for core profiles.
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.DoubleBuffer, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ScaleToMonitor, glfw.True)
	glfw.WindowHint(glfw.Samples, cfg.Samples)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}
	if cfg.Samples > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	gw := &GLFWWindow{w: win}
	gw.installCallbacks()

	fw, fh := win.GetFramebufferSize()
	sx, _ := win.GetContentScale()
	core.Logger().Info("window created", "title", cfg.Title, "fb_w", fw, "fb_h", fh, "scale", sx)
	return gw, nil
}

func (g *GLFWWindow) installCallbacks() {
	win := g.w
	win.SetCloseCallback(func(*glfw.Window) { g.push(core.EventCloseRequested{}) })
	win.SetSizeCallback(func(_ *glfw.Window, w, h int) {
		g.push(core.EventResize{W: w, H: h})
	})
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, w, h int) {
		g.push(core.EventFramebufferResize{W: w, H: h})
	})
	win.SetContentScaleCallback(func(_ *glfw.Window, x, y float32) {
		g.push(core.EventContentScale{X: x, Y: y})
	})
	win.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		g.push(core.EventMouseMove{X: x, Y: y})
	})
	win.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		g.push(core.EventCursorEnter{Entered: entered})
	})
	win.SetMouseButtonCallback(func(_ *glfw.Window, b glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		mb, ok := translateMouseButton(b)
		if !ok {
			return
		}
		g.push(core.EventMouseButton{Button: mb, Down: action == glfw.Press, Mods: translateMods(mods)})
	})
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, mods glfw.ModifierKey) {
		k := translateKey(key)
		if k == core.KeyUnknown {
			return
		}
		g.push(core.EventKey{
			Key:    k,
			Down:   action != glfw.Release,
			Repeat: action == glfw.Repeat,
			Mods:   translateMods(mods),
		})
	})
	win.SetCharModsCallback(func(_ *glfw.Window, char rune, mods glfw.ModifierKey) {
		g.push(core.EventChar{Char: char, Mods: translateMods(mods)})
	})
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		g.push(core.EventScroll{Xoff: xoff, Yoff: yoff})
	})
	win.SetFocusCallback(func(_ *glfw.Window, focused bool) {
		g.push(core.EventFocus{Focused: focused})
	})
}

func (g *GLFWWindow) push(ev core.Event) { g.queue = append(g.queue, ev) }

// DrainEvents returns the events queued since the last call.
func (g *GLFWWindow) DrainEvents() []core.Event {
	evs := g.queue
	g.queue = nil
	return evs
}

// Destroy closes the window and terminates GLFW.
func (g *GLFWWindow) Destroy() {
	g.w.Destroy()
	glfw.Terminate()
}

// core.Window impl
func (g *GLFWWindow) PollEvents()                 { glfw.PollEvents() }
func (g *GLFWWindow) SwapBuffers()                { g.w.SwapBuffers() }
func (g *GLFWWindow) ShouldClose() bool           { return g.w.ShouldClose() }
func (g *GLFWWindow) RequestClose()               { g.w.SetShouldClose(true) }
func (g *GLFWWindow) FramebufferSize() (int, int) { return g.w.GetFramebufferSize() }
func (g *GLFWWindow) WindowSize() (int, int)      { return g.w.GetSize() }
func (g *GLFWWindow) SetTitle(t string)           { g.w.SetTitle(t) }
func (g *GLFWWindow) SetClipboard(text string)    { g.w.SetClipboardString(text) }
func (g *GLFWWindow) Clipboard() string           { return g.w.GetClipboardString() }

func (g *GLFWWindow) ContentScale() float32 {
	x, _ := g.w.GetContentScale()
	return x
}

var glfwKeys = map[glfw.Key]core.Key{
	glfw.KeyEscape:       core.KeyEscape,
	glfw.KeyTab:          core.KeyTab,
	glfw.KeyBackspace:    core.KeyBackspace,
	glfw.KeyEnter:        core.KeyEnter,
	glfw.KeyKPEnter:      core.KeyEnter,
	glfw.KeySpace:        core.KeySpace,
	glfw.KeyInsert:       core.KeyInsert,
	glfw.KeyDelete:       core.KeyDelete,
	glfw.KeyHome:         core.KeyHome,
	glfw.KeyEnd:          core.KeyEnd,
	glfw.KeyPageUp:       core.KeyPageUp,
	glfw.KeyPageDown:     core.KeyPageDown,
	glfw.KeyLeft:         core.KeyLeft,
	glfw.KeyRight:        core.KeyRight,
	glfw.KeyUp:           core.KeyUp,
	glfw.KeyDown:         core.KeyDown,
	glfw.KeyLeftShift:    core.KeyLeftShift,
	glfw.KeyRightShift:   core.KeyRightShift,
	glfw.KeyLeftControl:  core.KeyLeftControl,
	glfw.KeyRightControl: core.KeyRightControl,
	glfw.KeyLeftAlt:      core.KeyLeftAlt,
	glfw.KeyRightAlt:     core.KeyRightAlt,
	glfw.KeyLeftSuper:    core.KeyLeftSuper,
	glfw.KeyRightSuper:   core.KeyRightSuper,
}

func translateKey(k glfw.Key) core.Key {
	switch {
	case k >= glfw.Key0 && k <= glfw.Key9:
		return core.Key0 + core.Key(k-glfw.Key0)
	case k >= glfw.KeyA && k <= glfw.KeyZ:
		return core.KeyA + core.Key(k-glfw.KeyA)
	}
	if ck, ok := glfwKeys[k]; ok {
		return ck
	}
	return core.KeyUnknown
}

func translateMouseButton(b glfw.MouseButton) (core.MouseButton, bool) {
	switch b {
	case glfw.MouseButtonLeft:
		return core.MouseLeft, true
	case glfw.MouseButtonRight:
		return core.MouseRight, true
	case glfw.MouseButtonMiddle:
		return core.MouseMiddle, true
	case glfw.MouseButton4:
		return core.MouseButton4, true
	case glfw.MouseButton5:
		return core.MouseButton5, true
	}
	return 0, false
}

func translateMods(m glfw.ModifierKey) core.Mod {
	var out core.Mod
	if m&glfw.ModShift != 0 {
		out |= core.ModShift
	}
	if m&glfw.ModControl != 0 {
		out |= core.ModCtrl
	}
	if m&glfw.ModAlt != 0 {
		out |= core.ModAlt
	}
	if m&glfw.ModSuper != 0 {
		out |= core.ModSuper
	}
	return out
}
