package engine

import (
	"go-pianoroll/score"
)

// visual is one live note bar. Position is always recomputed from spawn
// time and elapsed music time, never integrated frame to frame, so pausing,
// seeking, and rate changes can't accumulate drift.
type visual struct {
	handle    VisualHandle
	note      score.Note
	spawnTime float64 // music time the bar appeared
	initialY  float64
	released  bool
}

// VisualManager owns the lifecycle of spawned note bars: spawn, per-frame
// positioning, and garbage collection past the cutoff line.
type VisualManager struct {
	active      []*visual
	scrollSpeed float64 // pixels per music second
	cutoffY     float64 // release once the bar top scrolls past this
}

// NewVisualManager creates a manager for the given visual geometry.
func NewVisualManager(scrollSpeed, cutoffY float64) *VisualManager {
	return &VisualManager{
		scrollSpeed: scrollSpeed,
		cutoffY:     cutoffY,
	}
}

// Spawn creates the sink-side visual for a note. Bars start fully above the
// view: initial y is minus the bar height, so the leading edge enters at 0.
func (vm *VisualManager) Spawn(n score.Note, spawnTime float64, sink VisualSink) {
	barHeight := n.DurationSec * vm.scrollSpeed
	v := &visual{
		handle:    sink.Spawn(n),
		note:      n,
		spawnTime: spawnTime,
		initialY:  -barHeight,
	}
	vm.active = append(vm.active, v)
}

func (v *visual) yAt(musicNow float64, scrollSpeed float64) float64 {
	elapsed := musicNow - v.spawnTime
	if elapsed < 0 {
		elapsed = 0
	}
	return v.initialY + elapsed*scrollSpeed
}

// UpdatePositions pushes every live bar's position for this frame.
func (vm *VisualManager) UpdatePositions(musicNow float64, sink VisualSink) {
	for _, v := range vm.active {
		if v.released {
			continue
		}
		sink.UpdatePosition(v.handle, v.yAt(musicNow, vm.scrollSpeed))
	}
}

// Collect releases bars that have scrolled past the cutoff. A released bar
// is never repositioned again; releasing twice is a no-op.
func (vm *VisualManager) Collect(musicNow float64, sink VisualSink) {
	kept := vm.active[:0]
	for _, v := range vm.active {
		if !v.released && v.yAt(musicNow, vm.scrollSpeed) > vm.cutoffY {
			v.released = true
			sink.Release(v.handle)
			continue
		}
		if !v.released {
			kept = append(kept, v)
		}
	}
	vm.active = kept
}

// Clear releases every live bar. Called on seek before the queues rebuild.
func (vm *VisualManager) Clear(sink VisualSink) {
	for _, v := range vm.active {
		if !v.released {
			v.released = true
			sink.Release(v.handle)
		}
	}
	vm.active = vm.active[:0]
}

// ActiveCount returns the number of live bars.
func (vm *VisualManager) ActiveCount() int {
	return len(vm.active)
}
