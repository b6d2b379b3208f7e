package input

import (
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
)

var keyMap = map[core.Key]gui.Key{
	core.KeyEscape:       gui.KeyEscape,
	core.KeyTab:          gui.KeyTab,
	core.KeyBackspace:    gui.KeyBackspace,
	core.KeyEnter:        gui.KeyEnter,
	core.KeySpace:        gui.KeySpace,
	core.KeyInsert:       gui.KeyInsert,
	core.KeyDelete:       gui.KeyDelete,
	core.KeyHome:         gui.KeyHome,
	core.KeyEnd:          gui.KeyEnd,
	core.KeyPageUp:       gui.KeyPageUp,
	core.KeyPageDown:     gui.KeyPageDown,
	core.KeyLeft:         gui.KeyArrowLeft,
	core.KeyRight:        gui.KeyArrowRight,
	core.KeyUp:           gui.KeyArrowUp,
	core.KeyDown:         gui.KeyArrowDown,
	core.KeyLeftShift:    gui.KeyShift,
	core.KeyRightShift:   gui.KeyShift,
	core.KeyLeftControl:  gui.KeyControl,
	core.KeyRightControl: gui.KeyControl,
	core.KeyLeftAlt:      gui.KeyAlt,
	core.KeyRightAlt:     gui.KeyAlt,
	core.KeyLeftSuper:    gui.KeySuper,
	core.KeyRightSuper:   gui.KeySuper,
}

func init() {
	// Digits and letters are contiguous in both enums.
	for i := core.Key(0); i < 10; i++ {
		keyMap[core.Key0+i] = gui.Key0 + gui.Key(i)
	}
	for i := core.Key(0); i < 26; i++ {
		keyMap[core.KeyA+i] = gui.KeyA + gui.Key(i)
	}
}

func translateKey(k core.Key) (gui.Key, bool) {
	gk, ok := keyMap[k]
	return gk, ok
}

// modifierFor returns the modifier bit a physical key controls, or 0.
func modifierFor(k core.Key) gui.Modifiers {
	switch k {
	case core.KeyLeftShift, core.KeyRightShift:
		return gui.ModShift
	case core.KeyLeftControl, core.KeyRightControl:
		return gui.ModCtrl
	case core.KeyLeftAlt, core.KeyRightAlt:
		return gui.ModAlt
	case core.KeyLeftSuper, core.KeyRightSuper:
		return gui.ModSuper
	}
	return 0
}

func translateButton(b core.MouseButton) (gui.PointerButton, bool) {
	switch b {
	case core.MouseLeft:
		return gui.ButtonPrimary, true
	case core.MouseRight:
		return gui.ButtonSecondary, true
	case core.MouseMiddle:
		return gui.ButtonMiddle, true
	case core.MouseButton4:
		return gui.ButtonExtra1, true
	case core.MouseButton5:
		return gui.ButtonExtra2, true
	}
	return 0, false
}
