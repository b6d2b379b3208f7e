package headless

import "github.com/hubastard/meshbridge/engine/core"

// Window is a core.Window without a display. Events are scripted per
// frame and the window asks to close after MaxFrames swaps.
type Window struct {
	// MaxFrames closes the window after that many SwapBuffers; 0 means never.
	MaxFrames int

	fbW, fbH   int
	winW, winH int
	scale      float32
	title      string
	clipboard  string

	frame   int
	script  map[int][]core.Event
	queue   []core.Event
	closing bool
}

func New(cfg core.Config) *Window {
	return &Window{
		fbW: cfg.Width, fbH: cfg.Height,
		winW: cfg.Width, winH: cfg.Height,
		scale:  1,
		title:  cfg.Title,
		script: map[int][]core.Event{},
	}
}

// Script queues evs to arrive during the PollEvents of the given frame.
func (h *Window) Script(frame int, evs ...core.Event) {
	h.script[frame] = append(h.script[frame], evs...)
}

// Push queues evs for the next DrainEvents, as if they arrived right now.
func (h *Window) Push(evs ...core.Event) {
	for _, ev := range evs {
		h.apply(ev)
	}
	h.queue = append(h.queue, evs...)
}

// Size and scale events change what the window reports, like a real one.
func (h *Window) apply(ev core.Event) {
	switch e := ev.(type) {
	case core.EventResize:
		h.winW, h.winH = e.W, e.H
	case core.EventFramebufferResize:
		h.fbW, h.fbH = e.W, e.H
	case core.EventContentScale:
		h.scale = e.X
	case core.EventCloseRequested:
		h.closing = true
	}
}

func (h *Window) PollEvents() {
	if evs, ok := h.script[h.frame]; ok {
		delete(h.script, h.frame)
		h.Push(evs...)
	}
}

func (h *Window) DrainEvents() []core.Event {
	evs := h.queue
	h.queue = nil
	return evs
}

func (h *Window) SwapBuffers() { h.frame++ }

func (h *Window) ShouldClose() bool {
	return h.closing || (h.MaxFrames > 0 && h.frame >= h.MaxFrames)
}

func (h *Window) RequestClose()               { h.closing = true }
func (h *Window) FramebufferSize() (int, int) { return h.fbW, h.fbH }
func (h *Window) WindowSize() (int, int)      { return h.winW, h.winH }
func (h *Window) ContentScale() float32       { return h.scale }
func (h *Window) SetTitle(t string)           { h.title = t }
func (h *Window) Title() string               { return h.title }
func (h *Window) SetClipboard(text string)    { h.clipboard = text }
func (h *Window) Clipboard() string           { return h.clipboard }

// Frames returns the number of completed frames.
func (h *Window) Frames() int { return h.frame }
