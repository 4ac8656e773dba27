package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualPositionIsPure(t *testing.T) {
	vm := NewVisualManager(100, 900)
	sink := newFakeVisuals()

	// 1s note at 100px/s: bar is 100px tall, starts fully above the view.
	vm.Spawn(annotatedNote(60, 2, 1), 0, sink)
	require.Len(t, sink.spawned, 1)
	h := VisualHandle(1)

	vm.UpdatePositions(0, sink)
	assert.InDelta(t, -100.0, sink.positions[h], 1e-9)

	vm.UpdatePositions(1, sink)
	assert.InDelta(t, 0.0, sink.positions[h], 1e-9)

	// Position depends only on now, not on how many updates ran in between.
	other := NewVisualManager(100, 900)
	otherSink := newFakeVisuals()
	other.Spawn(annotatedNote(60, 2, 1), 0, otherSink)
	other.UpdatePositions(7, otherSink)

	vm.UpdatePositions(3, sink)
	vm.UpdatePositions(5.5, sink)
	vm.UpdatePositions(7, sink)
	assert.Equal(t, otherSink.positions[1], sink.positions[h])
}

func TestVisualNegativeElapsedClamps(t *testing.T) {
	vm := NewVisualManager(100, 900)
	sink := newFakeVisuals()

	vm.Spawn(annotatedNote(60, 2, 1), 5, sink)
	vm.UpdatePositions(3, sink)
	assert.InDelta(t, -100.0, sink.positions[1], 1e-9, "before spawn time the bar sits at its initial position")
}

func TestVisualCollectReleasesPastCutoff(t *testing.T) {
	vm := NewVisualManager(100, 900)
	sink := newFakeVisuals()

	vm.Spawn(annotatedNote(60, 2, 1), 0, sink)
	assert.Equal(t, 1, vm.ActiveCount())

	// Top edge at 900 exactly: not yet past.
	vm.Collect(10, sink)
	assert.Equal(t, 1, vm.ActiveCount())
	assert.Empty(t, sink.released)

	vm.Collect(10.5, sink)
	assert.Equal(t, 0, vm.ActiveCount())
	assert.Equal(t, 1, sink.released[1])

	// Collecting again never double-releases.
	vm.Collect(11, sink)
	assert.Equal(t, 1, sink.released[1])
}

func TestVisualReleasedBarNeverRepositioned(t *testing.T) {
	vm := NewVisualManager(100, 900)
	sink := newFakeVisuals()

	vm.Spawn(annotatedNote(60, 2, 1), 0, sink)
	vm.Collect(20, sink)
	require.Equal(t, 1, sink.released[1])

	vm.UpdatePositions(21, sink)
	assert.Empty(t, sink.positions)
}

func TestVisualClear(t *testing.T) {
	vm := NewVisualManager(100, 900)
	sink := newFakeVisuals()

	vm.Spawn(annotatedNote(60, 0, 1), 0, sink)
	vm.Spawn(annotatedNote(62, 1, 1), 1, sink)
	require.Equal(t, 2, vm.ActiveCount())

	vm.Clear(sink)
	assert.Equal(t, 0, vm.ActiveCount())
	assert.Equal(t, 1, sink.released[1])
	assert.Equal(t, 1, sink.released[2])

	vm.Clear(sink)
	assert.Equal(t, 1, sink.released[1], "clear on empty manager releases nothing twice")
}
