package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-pianoroll/score"
	"go-pianoroll/theme"
)

func testRoll() *RollView {
	return NewRollView(theme.New(theme.Default()), 800, 100)
}

func TestRollViewLifecycle(t *testing.T) {
	r := testRoll()

	h := r.Spawn(score.Note{Pitch: 60, Staff: 1, DurationSec: 1})
	assert.Equal(t, 1, r.BarCount())

	r.UpdatePosition(h, 350)
	r.Release(h)
	assert.Equal(t, 0, r.BarCount())

	// Releasing an unknown handle is a no-op.
	r.Release(h)
	assert.Equal(t, 0, r.BarCount())
}

func TestRollViewHitKeys(t *testing.T) {
	r := testRoll()

	// 1s bar is 100px tall; put its bottom edge on the trigger line.
	h := r.Spawn(score.Note{Pitch: 60, Staff: 1, DurationSec: 1})
	r.UpdatePosition(h, 700)
	assert.True(t, r.hitKeys()[60])

	// Fully above the line: not hit.
	r.UpdatePosition(h, 500)
	assert.False(t, r.hitKeys()[60])

	// Fully past the line: not hit.
	r.UpdatePosition(h, 801)
	assert.False(t, r.hitKeys()[60])
}

func TestCursorViewFlash(t *testing.T) {
	c := NewCursorView()

	c.SetCursor(0, 0, 0)
	assert.False(t, c.TickFlash())

	c.PageChanged(1)
	assert.True(t, c.TickFlash())

	idx, _, page := c.Position()
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, page)
}
