package engine

import (
	"errors"
	"sort"
	"time"

	"go-pianoroll/debug"
	"go-pianoroll/score"
)

// Jitter tolerance for due-time comparisons: a key within eps of now counts
// as due, so frame timing noise can't split events across ticks.
const eps = 1e-6

// Scheduler drains two monotone queues against the current music time:
// visual spawns (early by the travel time, so bars reach the trigger line on
// the beat) and audio triggers (shifted by the latency compensation).
//
// Queues are indices into the StartSec-sorted note list, consumed at most
// once per pass and rebuilt in full on every seek. A popped entry can never
// "un-fire", which is exactly why seeks rebuild instead of patching: the
// rebuild makes firing idempotent with respect to the new position.
type Scheduler struct {
	notes []score.Note // sorted by StartSec, never mutated

	travelTime   float64
	audioLatency float64

	spawnQueue []int
	audioQueue []int
}

// NewScheduler takes the annotated, StartSec-sorted note list. travelTime is
// the music-seconds a bar scrolls from spawn to the trigger line;
// audioLatency shifts triggers to compensate output delay.
func NewScheduler(notes []score.Note, travelTime, audioLatency float64) *Scheduler {
	s := &Scheduler{
		notes:        notes,
		travelTime:   travelTime,
		audioLatency: audioLatency,
	}
	s.Rebuild(-1e18)
	return s
}

func (s *Scheduler) spawnKey(i int) float64 {
	return s.notes[i].StartSec - s.travelTime
}

func (s *Scheduler) audioKey(i int) float64 {
	return s.notes[i].StartSec + s.audioLatency
}

// Rebuild reconstructs both queues for a new music time. Everything already
// due at musicNow is excluded; everything still ahead is queued. Called on
// every seek.
func (s *Scheduler) Rebuild(musicNow float64) {
	firstSpawn := sort.Search(len(s.notes), func(i int) bool {
		return s.spawnKey(i) >= musicNow-eps
	})
	firstAudio := sort.Search(len(s.notes), func(i int) bool {
		return s.audioKey(i) >= musicNow-eps
	})

	s.spawnQueue = s.spawnQueue[:0]
	for i := firstSpawn; i < len(s.notes); i++ {
		s.spawnQueue = append(s.spawnQueue, i)
	}
	s.audioQueue = s.audioQueue[:0]
	for i := firstAudio; i < len(s.notes); i++ {
		s.audioQueue = append(s.audioQueue, i)
	}
	debug.Log("sched", "rebuilt at %0.3f: %d spawns, %d triggers pending", musicNow, len(s.spawnQueue), len(s.audioQueue))
}

// DrainSpawns pops every spawn whose key is due at musicNow and hands the
// note to the visual manager. Pop-while-due with <= comparison keeps the
// emitted sequence identical for any non-decreasing sampling of music time.
func (s *Scheduler) DrainSpawns(musicNow float64, vm *VisualManager, sink VisualSink) {
	for len(s.spawnQueue) > 0 {
		i := s.spawnQueue[0]
		key := s.spawnKey(i)
		if musicNow+eps < key {
			break
		}
		s.spawnQueue = s.spawnQueue[1:]
		vm.Spawn(s.notes[i], key, sink)
	}
}

// DrainAudio pops every trigger due at musicNow. While paused (rate 0) the
// queue is left untouched. The requested duration is scaled by 1/rate so
// audible length tracks playback speed. Trigger errors are collected and
// returned joined; the drain itself never stops early.
func (s *Scheduler) DrainAudio(musicNow, rate float64, sink AudioSink) error {
	if rate == 0 {
		return nil
	}
	var errs []error
	for len(s.audioQueue) > 0 {
		i := s.audioQueue[0]
		if musicNow+eps < s.audioKey(i) {
			break
		}
		s.audioQueue = s.audioQueue[1:]
		n := s.notes[i]
		durSec := n.DurationSec / max(rate, eps)
		if err := sink.Trigger(n.Pitch, time.Duration(durSec*float64(time.Second))); err != nil {
			debug.Log("sched", "trigger pitch=%d failed: %v", n.Pitch, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// PendingSpawns returns how many spawns are still queued.
func (s *Scheduler) PendingSpawns() int {
	return len(s.spawnQueue)
}

// PendingTriggers returns how many audio triggers are still queued.
func (s *Scheduler) PendingTriggers() int {
	return len(s.audioQueue)
}
