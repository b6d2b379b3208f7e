package scratch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSprintf(t *testing.T) {
	b := New(64)
	assert.Equal(t, "draws 12, 3.50 ms", b.Sprintf("draws %d, %.2f ms", 12, 3.5))
	assert.Equal(t, "100% ok", b.Sprintf("%d%% %s", 100, "ok"))
	assert.Equal(t, "x=0.250", b.Sprintf("x=%f", float32(0.25)))
	assert.Equal(t, "%q true", b.Sprintf("%q %v", "a", true))
	assert.Equal(t, "a ", b.Sprintf("a %d %d"), "missing args stop formatting")
}

func TestViewsSurviveGrowth(t *testing.T) {
	b := New(4)
	first := b.Sprintf("%s", "abcd")
	second := b.Sprintf("%d", uint64(123456))
	assert.Equal(t, "abcd", first)
	assert.Equal(t, "123456", second)
	assert.Greater(t, b.Cap(), 4)
}

func TestChainAndReset(t *testing.T) {
	b := New(0)
	m := b.Mark()
	b.S("fps ").I(60).R(' ').R('µ').S("s ").Bool(false)
	assert.Equal(t, "fps 60 µs false", b.View(m))

	b.Reset()
	assert.Zero(t, b.Len())
	assert.Equal(t, "", b.View(0))
	assert.Equal(t, 1024, b.Cap())
}
