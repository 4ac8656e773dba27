package midi

import "time"

// Trigger is one immutable audio trigger event: a pitch and how long it
// should sound in wall time. If trigger dispatch is ever moved off the
// frame goroutine, these are what crosses the queue.
type Trigger struct {
	Pitch    uint8
	Duration time.Duration
}
