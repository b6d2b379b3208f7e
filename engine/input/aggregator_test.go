package input

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/meshbridge/engine/core"
	"github.com/hubastard/meshbridge/engine/gui"
	"github.com/hubastard/meshbridge/engine/viewport"
)

type fakeClipboard struct{ text string }

func (c *fakeClipboard) SetClipboard(text string) { c.text = text }
func (c *fakeClipboard) Clipboard() string        { return c.text }

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func newTestAggregator(t *testing.T) (*Aggregator, *viewport.Adapter, *fakeClipboard) {
	t.Helper()
	vp := viewport.New(800, 600, 800, 600, 1, nil)
	clip := &fakeClipboard{}
	return New(clip, vp), vp, clip
}

func TestSnapshotDrainsBuffer(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	a.HandleEvents([]core.Event{
		core.EventMouseMove{X: 10, Y: 20},
		core.EventMouseButton{Button: core.MouseLeft, Down: true},
		core.EventChar{Char: 'h'},
		core.EventScroll{Yoff: -1},
	})
	require.Equal(t, 4, a.Pending())

	in := a.TakeSnapshot(vp.Latch())
	assert.Equal(t, []gui.Event{
		gui.EventPointerMoved{Pos: gui.Pos2{X: 10, Y: 20}},
		gui.EventPointerButton{Pos: gui.Pos2{X: 10, Y: 20}, Button: gui.ButtonPrimary, Pressed: true},
		gui.EventText{Text: "h"},
		gui.EventScroll{Delta: gui.Vec2{Y: -DefaultScrollFactor}},
	}, in.Events)
	assert.Zero(t, a.Pending())

	in = a.TakeSnapshot(vp.Latch())
	assert.Empty(t, in.Events)
	pos, inside := a.Cursor()
	assert.True(t, inside)
	assert.Equal(t, gui.Pos2{X: 10, Y: 20}, pos, "cursor persists across frames")
}

func TestNoEventLostOrDuplicated(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		a, vp, _ := newTestAggregator(t)
		var want, got []gui.Event
		for i := 0; i < 200; i++ {
			if rng.Intn(5) == 0 {
				got = append(got, a.TakeSnapshot(vp.Latch()).Events...)
				continue
			}
			if rng.Intn(2) == 0 {
				a.HandleEvent(core.EventMouseMove{X: float64(i), Y: float64(round)})
				want = append(want, gui.EventPointerMoved{Pos: gui.Pos2{X: float32(i), Y: float32(round)}})
			} else {
				r := rune('a' + i%26)
				a.HandleEvent(core.EventChar{Char: r})
				want = append(want, gui.EventText{Text: string(r)})
			}
		}
		got = append(got, a.TakeSnapshot(vp.Latch()).Events...)
		require.Equal(t, want, got, "round %d", round)
	}
}

func TestModifierUpdatedBeforeKeyIsAppended(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	a.HandleEvent(core.EventKey{Key: core.KeyLeftShift, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyA, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyLeftShift, Down: false})

	in := a.TakeSnapshot(vp.Latch())
	require.Len(t, in.Events, 3)
	assert.Equal(t, gui.EventKey{Key: gui.KeyShift, Pressed: true, Modifiers: gui.ModShift}, in.Events[0])
	assert.Equal(t, gui.EventKey{Key: gui.KeyA, Pressed: true, Modifiers: gui.ModShift}, in.Events[1])
	assert.Equal(t, gui.EventKey{Key: gui.KeyShift, Pressed: false}, in.Events[2])
	assert.Zero(t, in.Modifiers)
}

func TestBothShiftKeysHeld(t *testing.T) {
	a, _, _ := newTestAggregator(t)
	a.HandleEvent(core.EventKey{Key: core.KeyLeftShift, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyRightShift, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyLeftShift, Down: false})
	assert.True(t, a.Modifiers().Shift())
	a.HandleEvent(core.EventKey{Key: core.KeyRightShift, Down: false})
	assert.False(t, a.Modifiers().Shift())
}

func TestClipboardShortcuts(t *testing.T) {
	a, vp, clip := newTestAggregator(t)
	clip.text = "pasted"

	a.HandleEvent(core.EventKey{Key: core.KeyLeftControl, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyC, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyX, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyV, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyLeftControl, Down: false})
	a.HandleEvent(core.EventKey{Key: core.KeyLeftSuper, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyC, Down: true})

	in := a.TakeSnapshot(vp.Latch())
	assert.Equal(t, []gui.Event{
		gui.EventKey{Key: gui.KeyControl, Pressed: true, Modifiers: gui.ModCtrl},
		gui.EventCopy{},
		gui.EventCut{},
		gui.EventPaste{Text: "pasted"},
		gui.EventKey{Key: gui.KeyControl, Pressed: false},
		gui.EventKey{Key: gui.KeySuper, Pressed: true, Modifiers: gui.ModSuper},
		gui.EventCopy{},
	}, in.Events)
}

func TestEmptyClipboardPastesNothing(t *testing.T) {
	a, _, _ := newTestAggregator(t)
	a.HandleEvent(core.EventKey{Key: core.KeyLeftControl, Down: true})
	a.HandleEvent(core.EventKey{Key: core.KeyV, Down: true})
	assert.Equal(t, 1, a.Pending())
}

func TestControlCharactersAreDropped(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	for _, r := range []rune{'\b', '\t', 0x7f, 'é', '\r'} {
		a.HandleEvent(core.EventChar{Char: r})
	}
	assert.Equal(t, []gui.Event{gui.EventText{Text: "é"}}, a.TakeSnapshot(vp.Latch()).Events)
}

func TestViewportEventsBypassBuffer(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	a.HandleEvents([]core.Event{
		core.EventResize{W: 1000, H: 500},
		core.EventFramebufferResize{W: 2000, H: 1000},
		core.EventContentScale{X: 2, Y: 2},
		core.EventCloseRequested{},
	})
	assert.Zero(t, a.Pending())
	assert.True(t, vp.Pending())

	frame := vp.Latch()
	assert.Equal(t, float32(2), frame.PixelsPerPoint)
	assert.Equal(t, float32(1000), frame.ScreenRect.Width())
}

func TestPositionsUseLatchedScale(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	a.HandleEvent(core.EventMouseMove{X: 100, Y: 40})
	// Scale changes before the frame boundary apply to the buffered move too.
	a.HandleEvent(core.EventContentScale{X: 2, Y: 2})

	in := a.TakeSnapshot(vp.Latch())
	assert.Equal(t, float32(2), in.PixelsPerPoint)
	assert.Equal(t, []gui.Event{gui.EventPointerMoved{Pos: gui.Pos2{X: 50, Y: 20}}}, in.Events)
	assert.Equal(t, float32(400), in.ScreenRect.Width())
}

func TestFocusAndCursorLeave(t *testing.T) {
	a, vp, _ := newTestAggregator(t)
	a.HandleEvent(core.EventKey{Key: core.KeyLeftAlt, Down: true})
	a.HandleEvent(core.EventFocus{Focused: false})
	a.HandleEvent(core.EventMouseMove{X: 1, Y: 1})
	a.HandleEvent(core.EventCursorEnter{Entered: false})
	a.HandleEvent(core.EventCursorEnter{Entered: true})

	in := a.TakeSnapshot(vp.Latch())
	assert.False(t, in.Focused)
	assert.Zero(t, in.Modifiers, "modifiers reset when focus is lost")
	assert.Equal(t, []gui.Event{
		gui.EventKey{Key: gui.KeyAlt, Pressed: true, Modifiers: gui.ModAlt},
		gui.EventWindowFocused{Focused: false},
		gui.EventPointerMoved{Pos: gui.Pos2{X: 1, Y: 1}},
		gui.EventPointerGone{},
	}, in.Events)
	_, inside := a.Cursor()
	assert.False(t, inside)
}

func TestTimeFromClock(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	vp := viewport.New(10, 10, 10, 10, 1, nil)
	a := New(nil, vp, WithClock(clock.now), WithScrollFactor(10))

	clock.t = clock.t.Add(1500 * time.Millisecond)
	a.HandleEvent(core.EventScroll{Xoff: 1})
	in := a.TakeSnapshot(vp.Latch())
	assert.InDelta(t, 1.5, in.Time, 1e-9)
	assert.Equal(t, []gui.Event{gui.EventScroll{Delta: gui.Vec2{X: 10}}}, in.Events)
}

func TestDeliverClipboard(t *testing.T) {
	a, _, clip := newTestAggregator(t)
	clip.text = "old"
	a.DeliverClipboard("")
	assert.Equal(t, "old", clip.text)
	a.DeliverClipboard("new")
	assert.Equal(t, "new", clip.text)
	assert.Zero(t, a.Pending())
}
