// Command sandbox runs a demo GUI through the bridge, either in a GLFW
// window or headless on the software device.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hubastard/meshbridge/engine/bridge"
	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gfx"
	"github.com/hubastard/meshbridge/engine/gfx/soft"
	"github.com/hubastard/meshbridge/engine/platform/headless"
	"github.com/hubastard/meshbridge/engine/profiler"
	"github.com/hubastard/meshbridge/engine/text"
	"github.com/hubastard/meshbridge/engine/ui"
)

// headlessFrames bounds a headless run that was given no -frames.
const headlessFrames = 120

func main() {
	var (
		configPath  = flag.String("config", "sandbox.yaml", "YAML config file")
		runHeadless = flag.Bool("headless", false, "run without a window on the software device")
		frames      = flag.Int("frames", 0, "stop after this many frames, 0 runs until closed")
		imagePath   = flag.String("image", "", "image shown in the demo panel")
		fontPath    = flag.String("font", "", "TTF font, the built-in Go font when empty")
		fontSize    = flag.Float64("font-size", 15, "font size in pixels")
	)
	flag.Parse()

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	profiler.Init(1 << 16)

	app := &demoApp{imagePath: *imagePath, maxFrames: uint64(max(*frames, 0))}
	if *runHeadless && app.maxFrames == 0 {
		app.maxFrames = headlessFrames
	}
	if err := run(cfg, *runHeadless, *fontPath, float32(*fontSize), app); err != nil {
		core.Logger().Error("sandbox failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg core.Config, runHeadless bool, fontPath string, fontSize float32, app *demoApp) error {
	var (
		win     core.Window
		dev     gfx.Device
		cleanup = func() {}
	)
	if runHeadless {
		win, dev = headless.New(cfg), soft.New()
	} else {
		w, d, err := openGL(cfg)
		if err != nil {
			return err
		}
		win, dev = w, d
		cleanup = func() {
			d.Shutdown()
			w.Destroy()
		}
		app.swatch = glSwatch
	}
	defer cleanup()

	font, err := loadFont(fontPath, fontSize)
	if err != nil {
		return err
	}
	app.ui = ui.New(font)

	b := bridge.New(win, dev, app.ui, cfg)
	defer b.Destroy()
	return b.Run(app)
}

func loadFont(path string, size float32) (*text.Atlas, error) {
	if path == "" {
		return text.Default(size)
	}
	return text.LoadTTF(path, size)
}
