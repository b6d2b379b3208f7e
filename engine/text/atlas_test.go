package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hubastard/meshbridge/engine/gui"
)

func TestDefaultAtlas(t *testing.T) {
	a, err := Default(16)
	require.NoError(t, err)

	require.NoError(t, a.Image.Validate())
	assert.Equal(t, gui.FormatAlpha, a.Image.Format)
	assert.Contains(t, a.Glyphs, 'A')
	assert.Contains(t, a.Glyphs, 'é')
	assert.Positive(t, a.LineHeight())

	// The white texel is fully covered.
	x := int(a.White.X * float32(a.Image.Width))
	y := int(a.White.Y * float32(a.Image.Height))
	assert.Equal(t, byte(255), a.Image.Pixels[y*a.Image.Width+x])

	g := a.Glyphs['H']
	assert.Positive(t, g.W)
	assert.Less(t, g.U0, g.U1)
	assert.Less(t, g.V0, g.V1)
}

func TestNewAtlasRejectsGarbage(t *testing.T) {
	_, err := NewAtlas([]byte("not a font"), 16)
	assert.Error(t, err)
}

func TestMeasureAndLayoutAgree(t *testing.T) {
	a, err := Default(14)
	require.NoError(t, err)

	w, h := a.Measure("Hello")
	assert.Positive(t, w)
	assert.Equal(t, a.LineHeight(), h)

	var quads []Quad
	a.Layout(10, 20, "Hello", func(q Quad) { quads = append(quads, q) })
	require.Len(t, quads, 5)
	assert.GreaterOrEqual(t, quads[0].Rect.Min.X, float32(10))
	assert.LessOrEqual(t, quads[4].Rect.Max.X, 10+w+1)
	for _, q := range quads {
		assert.GreaterOrEqual(t, q.Rect.Min.Y, float32(20))
	}

	_, h2 := a.Measure("a\nb")
	assert.Equal(t, 2*a.LineHeight(), h2)
}

func TestSpacesEmitNothing(t *testing.T) {
	a, err := Default(12)
	require.NoError(t, err)
	n := 0
	a.Layout(0, 0, "   ", func(Quad) { n++ })
	assert.Zero(t, n)
	w, _ := a.Measure("   ")
	assert.Equal(t, 3*a.Glyphs[' '].Advance, w)
}
