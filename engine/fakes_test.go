package engine

import (
	"errors"
	"fmt"
	"time"

	"go-pianoroll/score"
)

// fakeVisuals records every sink call for assertions.
type fakeVisuals struct {
	next      VisualHandle
	spawned   []score.Note
	positions map[VisualHandle]float64
	released  map[VisualHandle]int
}

func newFakeVisuals() *fakeVisuals {
	return &fakeVisuals{
		positions: make(map[VisualHandle]float64),
		released:  make(map[VisualHandle]int),
	}
}

func (f *fakeVisuals) Spawn(n score.Note) VisualHandle {
	f.next++
	f.spawned = append(f.spawned, n)
	return f.next
}

func (f *fakeVisuals) UpdatePosition(h VisualHandle, y float64) {
	f.positions[h] = y
}

func (f *fakeVisuals) Release(h VisualHandle) {
	f.released[h]++
}

func (f *fakeVisuals) spawnedPitches() []uint8 {
	out := make([]uint8, len(f.spawned))
	for i, n := range f.spawned {
		out[i] = n.Pitch
	}
	return out
}

// fakeAudio records triggers, optionally failing specific pitches.
type fakeAudio struct {
	triggers  []triggerCall
	failPitch map[uint8]bool
}

type triggerCall struct {
	pitch    uint8
	duration time.Duration
}

func (f *fakeAudio) Trigger(pitch uint8, duration time.Duration) error {
	if f.failPitch[pitch] {
		return errors.New("port gone")
	}
	f.triggers = append(f.triggers, triggerCall{pitch: pitch, duration: duration})
	return nil
}

func (f *fakeAudio) pitches() []uint8 {
	out := make([]uint8, len(f.triggers))
	for i, c := range f.triggers {
		out[i] = c.pitch
	}
	return out
}

// fakeCursor records the event stream so ordering can be asserted.
type fakeCursor struct {
	events []string
}

func (f *fakeCursor) SetCursor(measureIndex int, intraMeasureSec float64, page int) {
	f.events = append(f.events, fmt.Sprintf("cursor:%d@%0.2f/p%d", measureIndex, intraMeasureSec, page))
}

func (f *fakeCursor) PageChanged(page int) {
	f.events = append(f.events, fmt.Sprintf("page:%d", page))
}

// annotatedNote builds a note with absolute timing already filled in, the
// form the scheduler consumes.
func annotatedNote(pitch uint8, startSec, durSec float64) score.Note {
	return score.Note{
		Pitch:       pitch,
		Staff:       1,
		StartSec:    startSec,
		DurationSec: durSec,
	}
}
