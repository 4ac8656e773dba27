package transport

import (
	"time"

	"go-pianoroll/debug"
)

// Rate limits. 0 is reserved for pause.
const (
	MinRate = 0.25
	MaxRate = 2.0
)

// Transport is the single time source: an affine mapping from the wall
// clock to music time, music = wallElapsed*rate + offset. Everything else
// in the player reads time through Now(), exactly once per frame.
//
// Every mutation keeps the instantaneous music time unchanged, except Seek,
// which changes it deliberately.
type Transport struct {
	now       func() time.Time
	reference time.Time

	rate     float64 // 0 = paused
	offset   float64 // music seconds
	lastRate float64 // non-zero rate to resume with

	earliest float64 // negative pre-roll bound
	latest   float64 // total piece duration
}

// New creates a transport running against the real clock, seeked to the
// earliest allowed time (the visual pre-roll) and paused.
func New(preroll, totalDuration float64) *Transport {
	return NewWithClock(preroll, totalDuration, time.Now)
}

// NewWithClock is New with an injectable wall clock, for tests.
func NewWithClock(preroll, totalDuration float64, clock func() time.Time) *Transport {
	if preroll < 0 {
		preroll = -preroll
	}
	t := &Transport{
		now:       clock,
		reference: clock(),
		earliest:  -preroll,
		latest:    totalDuration,
		lastRate:  1.0,
		offset:    -preroll,
	}
	return t
}

func (t *Transport) wallElapsed() float64 {
	return t.now().Sub(t.reference).Seconds()
}

// Now returns the current music time. Pure query: no state changes.
func (t *Transport) Now() float64 {
	return t.wallElapsed()*t.rate + t.offset
}

// Rate returns the current rate (0 while paused).
func (t *Transport) Rate() float64 {
	return t.rate
}

// Playing reports whether music time is advancing.
func (t *Transport) Playing() bool {
	return t.rate != 0
}

// ResumeRate returns the rate a resume would restore.
func (t *Transport) ResumeRate() float64 {
	return t.lastRate
}

// SetRate changes playback speed without moving the current music time.
// 0 pauses; anything else clamps into [MinRate, MaxRate].
func (t *Transport) SetRate(r float64) {
	if r != 0 {
		if r < MinRate {
			r = MinRate
		}
		if r > MaxRate {
			r = MaxRate
		}
	}
	musicNow := t.Now()
	t.rate = r
	t.offset = musicNow - t.wallElapsed()*r
	if r != 0 {
		t.lastRate = r
	}
	debug.Log("transport", "rate=%0.2f at music=%0.3f", r, musicNow)
}

// SetResumeRate records the rate to restore on the next resume. Used when
// the speed control moves while paused.
func (t *Transport) SetResumeRate(r float64) {
	if r < MinRate {
		r = MinRate
	}
	if r > MaxRate {
		r = MaxRate
	}
	t.lastRate = r
}

// TogglePause pauses, or resumes at the last non-zero rate.
func (t *Transport) TogglePause() {
	if t.rate == 0 {
		t.SetRate(t.lastRate)
	} else {
		t.SetRate(0)
	}
}

// Seek jumps to an absolute music time, clamped into
// [-preroll, totalDuration], keeping the current rate.
func (t *Transport) Seek(sec float64) {
	if sec < t.earliest {
		sec = t.earliest
	}
	if sec > t.latest {
		sec = t.latest
	}
	t.offset = sec - t.wallElapsed()*t.rate
	debug.Log("transport", "seek to %0.3f (rate=%0.2f)", sec, t.rate)
}

// Earliest returns the lower seek bound (negative pre-roll).
func (t *Transport) Earliest() float64 {
	return t.earliest
}

// TotalDuration returns the upper seek bound.
func (t *Transport) TotalDuration() float64 {
	return t.latest
}

// AtEnd reports whether music time has reached the end of the piece.
func (t *Transport) AtEnd() bool {
	return t.Now() >= t.latest
}
