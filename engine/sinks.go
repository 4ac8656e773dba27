package engine

import (
	"time"

	"go-pianoroll/score"
)

// VisualHandle identifies one spawned note bar in a VisualSink.
type VisualHandle int

// VisualSink is the rendering collaborator: it owns pixels, the engine owns
// timing. Handles are opaque to the engine.
type VisualSink interface {
	Spawn(n score.Note) VisualHandle
	UpdatePosition(h VisualHandle, y float64)
	Release(h VisualHandle)
}

// AudioSink receives fire-and-forget note triggers. A Trigger error is
// reported upward by the scheduler but never stops the drain.
type AudioSink interface {
	Trigger(pitch uint8, duration time.Duration) error
}

// CursorSink receives score-cursor updates. PageChanged always arrives
// before the SetCursor that references the new page, so consumers never
// draw a cursor against a stale page.
type CursorSink interface {
	SetCursor(measureIndex int, intraMeasureSec float64, page int)
	PageChanged(page int)
}
