package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-pianoroll/score"
)

type playerFixture struct {
	player  *Player
	visuals *fakeVisuals
	audio   *fakeAudio
	cursor  *fakeCursor
	clock   *stepClock
}

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	return c.t
}

func (c *stepClock) advance(d time.Duration) {
	c.t = c.t.Add(d)
}

// newPlayerFixture builds a two-measure score at 60bpm: a note on the first
// beat and one on the downbeat of measure two. Travel time is 2s.
func newPlayerFixture(t *testing.T) *playerFixture {
	t.Helper()
	sc := &score.Score{
		Notes: []score.Note{
			{Pitch: 60, StartQL: 0, DurationQL: 1, Staff: 1},
			{Pitch: 64, StartQL: 4, DurationQL: 1, Staff: 2},
		},
		Tempos:   []score.TempoMark{{OffsetQL: 0, BPM: 60}},
		Measures: []score.MeasureBoundary{{Number: 1, StartQL: 0, EndQL: 4}, {Number: 2, StartQL: 4, EndQL: 8}},
		TotalQL:  8,
	}
	f := &playerFixture{
		visuals: newFakeVisuals(),
		audio:   &fakeAudio{},
		cursor:  &fakeCursor{},
		clock:   &stepClock{t: time.Unix(1000, 0)},
	}
	f.player = NewPlayer(sc, Options{
		Geometry:        Geometry{ScrollSpeed: 100, ViewHeight: 200, CutoffY: 300},
		MeasuresPerPage: 1,
		Clock:           f.clock.now,
	}, f.visuals, f.audio, f.cursor)
	return f
}

func (f *playerFixture) step(t *testing.T) {
	t.Helper()
	require.NoError(t, f.player.Step())
}

func TestPlayerStartsAtPreroll(t *testing.T) {
	f := newPlayerFixture(t)

	assert.False(t, f.player.Transport.Playing())
	assert.InDelta(t, -2.0, f.player.Transport.Now(), 1e-9)
	assert.Equal(t, 8.0, f.player.Transport.TotalDuration())
}

func TestPlayerSpawnsWhilePausedButNoAudio(t *testing.T) {
	f := newPlayerFixture(t)

	// At -2s the first note's bar is already due to enter the view.
	f.step(t)
	assert.Equal(t, []uint8{60}, f.visuals.spawnedPitches())
	assert.Empty(t, f.audio.triggers, "paused playback never triggers audio")
}

func TestPlayerPlaysThrough(t *testing.T) {
	f := newPlayerFixture(t)

	f.player.TogglePause()
	f.step(t)
	assert.Empty(t, f.audio.triggers)

	// Pre-roll elapses; the first note sounds at music zero.
	f.clock.advance(2 * time.Second)
	f.step(t)
	assert.Equal(t, []uint8{60}, f.audio.pitches())

	// Second note spawns at 2s (4s start minus travel) and sounds at 4s.
	f.clock.advance(2 * time.Second)
	f.step(t)
	assert.Equal(t, []uint8{60, 64}, f.visuals.spawnedPitches())

	f.clock.advance(2 * time.Second)
	f.step(t)
	assert.Equal(t, []uint8{60, 64}, f.audio.pitches())
	assert.Equal(t, 1, f.player.CurrentPage())
}

func TestPlayerEndOfPiecePauses(t *testing.T) {
	f := newPlayerFixture(t)

	f.player.TogglePause()
	f.clock.advance(20 * time.Second)
	f.step(t)

	assert.True(t, f.player.EndReached())
	assert.False(t, f.player.Transport.Playing())
	assert.InDelta(t, 8.0, f.player.Transport.Now(), 1e-9)

	// Time standing still afterwards.
	f.clock.advance(5 * time.Second)
	f.step(t)
	assert.InDelta(t, 8.0, f.player.Transport.Now(), 1e-9)
}

func TestPlayerSeekClearsAndRebuilds(t *testing.T) {
	f := newPlayerFixture(t)

	f.step(t)
	require.Equal(t, 1, f.player.ActiveVisuals())

	f.player.Seek(6)
	assert.Equal(t, 0, f.player.ActiveVisuals(), "seek wipes live bars")
	assert.Equal(t, 1, f.visuals.released[1])

	// Both notes are behind 6s (spawn keys -2 and 2): nothing respawns.
	f.step(t)
	assert.Len(t, f.visuals.spawned, 1)
}

func TestPlayerStopAndRestart(t *testing.T) {
	f := newPlayerFixture(t)

	f.player.TogglePause()
	f.player.SetRate(1.5)
	f.clock.advance(3 * time.Second)
	f.step(t)

	f.player.Stop()
	assert.False(t, f.player.Transport.Playing())
	assert.InDelta(t, -2.0, f.player.Transport.Now(), 1e-9)

	f.player.Restart()
	assert.True(t, f.player.Transport.Playing())
	assert.Equal(t, 1.5, f.player.Transport.Rate(), "restart resumes at the chosen rate")
	assert.InDelta(t, -2.0, f.player.Transport.Now(), 1e-9)
}

func TestPlayerRateControlWhilePaused(t *testing.T) {
	f := newPlayerFixture(t)

	f.player.AdjustRate(0.25)
	assert.False(t, f.player.Transport.Playing(), "rate nudge while paused must not start playback")

	f.player.TogglePause()
	assert.Equal(t, 1.25, f.player.Transport.Rate())
}

func TestPlayerStepReportsAudioErrors(t *testing.T) {
	f := newPlayerFixture(t)
	f.audio.failPitch = map[uint8]bool{60: true}

	f.player.TogglePause()
	f.clock.advance(2 * time.Second)
	err := f.player.Step()
	assert.Error(t, err)
}

func TestPlayerCursorFollowsMeasures(t *testing.T) {
	f := newPlayerFixture(t)

	f.player.TogglePause()
	f.clock.advance(2 * time.Second) // music 0, measure 0, page 0
	f.step(t)

	f.cursor.events = nil
	f.clock.advance(4 * time.Second) // music 4, measure 1, page 1
	f.step(t)

	require.Len(t, f.cursor.events, 2)
	assert.Equal(t, "page:1", f.cursor.events[0])
}
