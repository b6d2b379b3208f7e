package main

import (
	"github.com/hubastard/meshbridge/engine/assets"
	"github.com/hubastard/meshbridge/engine/bridge"
	"github.com/hubastard/meshbridge/engine/colors"
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/profiler"
	"github.com/hubastard/meshbridge/engine/ui"
)

// Widget ids.
const (
	idDemoPanel = iota + 1
	idName
	idNotes
	idScale
	idShowDebug
	idFreeImage
	idQuit
	idDebugPanel
)

type demoApp struct {
	ui        *ui.Ctx
	maxFrames uint64
	imagePath string
	// swatch paints a paint callback with the native API; nil when the
	// device has none.
	swatch func(t float64) func(gui.PaintCallbackInfo)

	checker     gfx.Texture
	checkerID   gui.TextureID
	image       gui.TextureID
	hasImage    bool
	name, notes string
	scale       float32
	showDebug   bool
	debug       debugPanel
}

func (a *demoApp) OnStart(b *bridge.Bridge) {
	a.scale = 1
	a.showDebug = true

	// A device texture the application owns, shown through a user id.
	tex, err := b.Device().CreateTexture(gfx.TextureDesc{
		Width: 8, Height: 8,
		Format:    gfx.FormatRGBA8,
		MinFilter: gfx.FilterNearest,
		MagFilter: gfx.FilterNearest,
		Pixels:    checkerboard(8, colors.White, colors.Gray),
	})
	if err != nil {
		core.Logger().Warn("checker texture not created", "err", err)
	} else {
		a.checker = tex
		a.checkerID = b.Textures().RegisterNative(tex, gui.TextureOptions{
			Magnification: gui.FilterNearest,
			Minification:  gui.FilterNearest,
		})
	}

	if a.imagePath != "" {
		img, err := assets.LoadImage(a.imagePath, 512)
		if err != nil {
			core.Logger().Warn("image not loaded", "path", a.imagePath, "err", err)
		} else {
			a.image = a.ui.LoadTexture(img, gui.TextureOptions{})
			a.hasImage = true
		}
	}
}

func (a *demoApp) OnFrame(b *bridge.Bridge, in gui.RawInput) {
	defer profiler.Start("demoApp.OnFrame")()
	a.handleShortcuts(in)

	c := a.ui
	c.BeginPanel(ui.PanelProps{
		ID:      idDemoPanel,
		Title:   "meshbridge",
		Rect:    gui.Rect{Min: gui.Pos2{X: 24, Y: 24}, Max: gui.Pos2{X: 24 + 320*a.scale, Y: 24 + 460*a.scale}},
		Movable: true,
	})
	c.Labelf("Hello %s", a.displayName())
	c.TextEdit(ui.TextEditProps{ID: idName, Text: &a.name})
	c.TextEdit(ui.TextEditProps{ID: idNotes, Text: &a.notes, Multiline: true, Lines: 3})
	c.Slider(ui.SliderProps{ID: idScale, Label: "Panel scale", Value: &a.scale, Min: 0.75, Max: 2})
	c.Checkbox(ui.CheckboxProps{ID: idShowDebug, Label: "Debug panel", Value: &a.showDebug})
	c.Separator()

	if a.checker != nil {
		c.Image(a.checkerID, 48, 48)
	}
	if a.hasImage {
		c.Image(a.image, 128, 128)
		if c.Button(ui.ButtonProps{ID: idFreeImage, Text: "Free image"}) {
			c.FreeTexture(a.image)
			a.hasImage = false
		}
	}
	if a.swatch != nil {
		c.Custom(0, 32, a.swatch(in.Time))
	}
	if c.Button(ui.ButtonProps{ID: idQuit, Text: "Quit"}) {
		b.Window().RequestClose()
	}
	c.EndPanel()

	if a.showDebug {
		a.debug.draw(c, b, in)
	}

	if ended, _ := b.Frames(); a.maxFrames > 0 && ended+1 >= a.maxFrames {
		b.Window().RequestClose()
	}
}

func (a *demoApp) OnShutdown(b *bridge.Bridge) {
	// The cache only forgets native textures; deleting them is ours.
	if a.checker != nil {
		b.Device().DeleteTexture(a.checker)
	}
	ended, skipped := b.Frames()
	core.Logger().Info("sandbox done", "frames", ended, "skipped", skipped)
}

func (a *demoApp) displayName() string {
	if a.name == "" {
		return "world"
	}
	return a.name
}

// handleShortcuts dumps a profile on Ctrl+P.
func (a *demoApp) handleShortcuts(in gui.RawInput) {
	for _, ev := range in.Events {
		k, ok := ev.(gui.EventKey)
		if !ok || !k.Pressed || k.Key != gui.KeyP || !k.Modifiers.Command() {
			continue
		}
		path, err := profiler.Dump()
		if err != nil {
			core.Logger().Warn("profile not written", "err", err)
			continue
		}
		core.Logger().Info("profile written", "path", path)
	}
}

// checkerboard returns n x n premultiplied RGBA pixels.
func checkerboard(n int, a, b colors.Color) []byte {
	pix := make([]byte, 0, n*n*4)
	for y := range n {
		for x := range n {
			c := a.Premultiplied()
			if (x+y)%2 == 1 {
				c = b.Premultiplied()
			}
			pix = append(pix, c[0], c[1], c[2], c[3])
		}
	}
	return pix
}
