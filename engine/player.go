package engine

import (
	"time"

	"go-pianoroll/debug"
	"go-pianoroll/score"
	"go-pianoroll/timing"
	"go-pianoroll/transport"
)

// Geometry describes the visual coordinate system the engine schedules
// against. Units are pixels and pixels per music second; what a "pixel"
// renders as is the sink's business.
type Geometry struct {
	ScrollSpeed float64 // pixels per music second
	ViewHeight  float64 // spawn line (y=0) to trigger line distance
	CutoffY     float64 // release bars once their top passes this
}

// TravelTime returns the music seconds a bar takes from spawn to trigger
// line.
func (g Geometry) TravelTime() float64 {
	return g.ViewHeight / g.ScrollSpeed
}

// Player drives one score through the fixed per-frame pipeline. It is
// single-threaded and cooperative: the caller invokes Step once per frame
// and all transport mutations between frames, from the same goroutine, so
// no frame ever observes a half-applied mutation.
type Player struct {
	Transport *transport.Transport
	TempoMap  *timing.TempoMap
	Measures  *timing.MeasureIndex

	sched   *Scheduler
	visuals *VisualManager
	cursor  *CursorMapper

	video     VisualSink
	audio     AudioSink
	cursorOut CursorSink

	endReached bool
}

// Options collects the tuning knobs a Player needs beyond the score itself.
type Options struct {
	Geometry        Geometry
	AudioLatencySec float64
	MeasuresPerPage int

	// Clock overrides the wall clock, for tests. Nil means time.Now.
	Clock func() time.Time
}

// NewPlayer builds the full timing pipeline for one score: tempo map,
// measure index, annotated notes, scheduler, visual manager, cursor mapper,
// and a transport parked at the pre-roll.
func NewPlayer(sc *score.Score, opts Options, video VisualSink, audio AudioSink, cursorOut CursorSink) *Player {
	tm := timing.NewTempoMap(sc.Tempos, sc.TotalQL)
	mi := timing.NewMeasureIndex(sc.Measures, tm)
	notes := tm.AnnotateNotes(sc.Notes)

	geo := opts.Geometry
	travel := geo.TravelTime()
	preroll := travel // bars need the full travel time before audio starts

	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	tr := transport.NewWithClock(preroll, tm.TotalSeconds(), clock)

	p := &Player{
		Transport: tr,
		TempoMap:  tm,
		Measures:  mi,
		sched:     NewScheduler(notes, travel, opts.AudioLatencySec),
		visuals:   NewVisualManager(geo.ScrollSpeed, geo.CutoffY),
		cursor:    NewCursorMapper(mi, NewPageMap(sc.PageMap, mi.Len(), opts.MeasuresPerPage)),
		video:     video,
		audio:     audio,
		cursorOut: cursorOut,
	}
	p.sched.Rebuild(tr.Now())
	debug.Log("player", "ready: %d notes, %d measures, %0.1fs total", len(notes), mi.Len(), tm.TotalSeconds())
	return p
}

// Step runs one frame. Order is fixed: one Now() read shared by every
// stage, audio before visuals so triggers land earliest in the frame, then
// positions, garbage collection, and the cursor.
func (p *Player) Step() error {
	now := p.Transport.Now()

	if now >= p.Transport.TotalDuration() && p.Transport.Playing() {
		// Park at the end; Restart or a seek brings it back.
		p.Transport.SetRate(0)
		p.Transport.Seek(p.Transport.TotalDuration())
		now = p.Transport.Now()
		p.endReached = true
		debug.Log("player", "end of piece at %0.3f", now)
	}

	err := p.sched.DrainAudio(now, p.Transport.Rate(), p.audio)
	p.sched.DrainSpawns(now, p.visuals, p.video)
	p.visuals.UpdatePositions(now, p.video)
	p.visuals.Collect(now, p.video)
	p.cursor.Update(now, p.cursorOut)
	return err
}

// EndReached reports whether playback ran into the end of the piece.
func (p *Player) EndReached() bool {
	return p.endReached
}

// Seek jumps to an absolute music time: transport first, then wipe the live
// bars and rebuild both queues at the clamped position.
func (p *Player) Seek(sec float64) {
	p.Transport.Seek(sec)
	now := p.Transport.Now()
	p.visuals.Clear(p.video)
	p.sched.Rebuild(now)
	p.endReached = false
}

// SeekBy jumps relative to the current music time.
func (p *Player) SeekBy(delta float64) {
	p.Seek(p.Transport.Now() + delta)
}

// SetRate changes speed, or stores the resume rate when paused so the speed
// control works while stopped.
func (p *Player) SetRate(r float64) {
	if !p.Transport.Playing() {
		p.Transport.SetResumeRate(r)
		return
	}
	p.Transport.SetRate(r)
}

// AdjustRate nudges the playback rate by delta.
func (p *Player) AdjustRate(delta float64) {
	if !p.Transport.Playing() {
		p.Transport.SetResumeRate(p.Transport.ResumeRate() + delta)
		return
	}
	p.Transport.SetRate(p.Transport.Rate() + delta)
}

// TogglePause flips between paused and the last non-zero rate.
func (p *Player) TogglePause() {
	p.Transport.TogglePause()
	if p.Transport.Playing() {
		p.endReached = false
	}
}

// Stop seeks back to the pre-roll and pauses.
func (p *Player) Stop() {
	p.Seek(p.Transport.Earliest())
	if p.Transport.Playing() {
		p.Transport.SetRate(0)
	}
}

// Restart stops and immediately resumes at the last chosen rate.
func (p *Player) Restart() {
	p.Stop()
	p.Transport.SetRate(p.Transport.ResumeRate())
}

// ActiveVisuals returns the live bar count, for the HUD.
func (p *Player) ActiveVisuals() int {
	return p.visuals.ActiveCount()
}

// CurrentPage returns the page the cursor mapper last emitted.
func (p *Player) CurrentPage() int {
	return p.cursor.CurrentPage()
}

// PageCount returns the number of pages in the page map.
func (p *Player) PageCount() int {
	return p.cursor.pages.PageCount()
}
