package colors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hubastard/meshbridge/engine/gui"
)

func TestPremultiplied(t *testing.T) {
	assert.Equal(t, gui.Color32{255, 255, 255, 255}, White.Premultiplied())
	assert.Equal(t, gui.Color32{128, 0, 0, 128}, Red.WithAlpha(0.5).Premultiplied())
	assert.Equal(t, gui.Color32{0, 0, 0, 0}, Transparent.Premultiplied())
	assert.Equal(t, gui.Color32{255, 0, 0, 255}, Color{2, -1, 0, 1}.Premultiplied())
}

func TestScale(t *testing.T) {
	assert.Equal(t, Color{0.25, 0.25, 0.25, 1}, Gray.Scale(0.5))
	assert.Equal(t, Color{1, 1, 1, 0.5}, White.WithAlpha(0.5).Scale(2))
}
