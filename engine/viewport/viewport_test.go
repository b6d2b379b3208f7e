package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/meshbridge/engine/gui"
)

type recordingResizer struct{ sizes [][2]int }

func (r *recordingResizer) SetSize(w, h int) { r.sizes = append(r.sizes, [2]int{w, h}) }

func TestNewSizesResizer(t *testing.T) {
	r := &recordingResizer{}
	a := New(800, 600, 800, 600, 2, r)

	assert.Equal(t, [][2]int{{800, 600}}, r.sizes)
	f := a.Current()
	assert.Equal(t, gui.Rect{Max: gui.Pos2{X: 400, Y: 300}}, f.ScreenRect)
}

func TestChangesAreLatchedAtFrameBoundary(t *testing.T) {
	r := &recordingResizer{}
	a := New(800, 600, 800, 600, 1, r)
	frame := a.Latch()

	a.SetContentScale(2)
	a.SetFramebufferSize(1600, 1200)
	assert.True(t, a.Pending())
	assert.Equal(t, float32(1), a.Current().PixelsPerPoint, "mid-frame changes stay pending")
	assert.Equal(t, frame, a.Current())
	assert.Len(t, r.sizes, 1)

	next := a.Latch()
	assert.False(t, a.Pending())
	assert.Equal(t, float32(2), next.PixelsPerPoint)
	assert.Equal(t, float32(800), next.ScreenRect.Width())
	assert.Equal(t, [][2]int{{800, 600}, {1600, 1200}}, r.sizes)
}

func TestScaleOnlyChangeDoesNotResize(t *testing.T) {
	r := &recordingResizer{}
	a := New(800, 600, 800, 600, 1, r)
	a.SetContentScale(1.5)
	f := a.Latch()
	assert.Len(t, r.sizes, 1)
	assert.InDelta(t, 400, f.ScreenRect.Height(), 1e-4)
}

func TestIgnoresNonPositiveScale(t *testing.T) {
	a := New(100, 100, 100, 100, 0, nil)
	assert.Equal(t, float32(1), a.Current().PixelsPerPoint)
	a.SetContentScale(0)
	a.SetContentScale(-2)
	assert.False(t, a.Pending())
}

func TestWindowToPoints(t *testing.T) {
	// HiDPI: 2x framebuffer for the same window, scale 2.
	f := newFrame(1600, 1200, 800, 600, 2)
	assert.Equal(t, gui.Pos2{X: 100, Y: 50}, f.WindowToPoints(gui.Pos2{X: 100, Y: 50}))

	// Framebuffer equals window, scale 2 (OS does not scale windows).
	f = newFrame(800, 600, 800, 600, 2)
	assert.Equal(t, gui.Pos2{X: 50, Y: 25}, f.WindowToPoints(gui.Pos2{X: 100, Y: 50}))
}
