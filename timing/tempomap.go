package timing

import (
	"sort"

	"go-pianoroll/debug"
	"go-pianoroll/score"
)

const fallbackBPM = 60.0

// Segment is a contiguous quarter-length range played at one constant bpm,
// with its absolute-second bounds precomputed.
type Segment struct {
	StartQL  float64
	EndQL    float64
	BPM      float64
	StartSec float64
	EndSec   float64
}

// TempoMap converts quarter-length offsets to absolute seconds and back
// through an ordered list of tempo segments. It is built once per score and
// shared read-only; every lookup is O(log n) and total - missing or garbage
// tempo metadata degrades to a constant 60bpm map rather than failing.
type TempoMap struct {
	segs []Segment
}

// NewTempoMap builds the segment list from raw metronome marks. Marks are
// deduped by offset (first wins) and sorted; a mark at offset 0 is
// synthesized from the first mark's bpm when absent. The final segment
// extends to totalQL.
func NewTempoMap(marks []score.TempoMark, totalQL float64) *TempoMap {
	byOffset := make(map[float64]float64, len(marks))
	offsets := make([]float64, 0, len(marks))
	for _, m := range marks {
		if m.BPM <= 0 {
			debug.Log("tempo", "ignoring mark at %fql with bpm %f", m.OffsetQL, m.BPM)
			continue
		}
		if _, seen := byOffset[m.OffsetQL]; seen {
			continue // first mark at an offset wins
		}
		byOffset[m.OffsetQL] = m.BPM
		offsets = append(offsets, m.OffsetQL)
	}
	sort.Float64s(offsets)

	if len(offsets) == 0 {
		debug.Log("tempo", "no usable tempo marks, falling back to %gbpm", fallbackBPM)
		offsets = []float64{0}
		byOffset[0] = fallbackBPM
	}
	if offsets[0] > 0 {
		// Anchor the map at zero with the earliest known tempo.
		byOffset[0] = byOffset[offsets[0]]
		offsets = append([]float64{0}, offsets...)
	}

	if totalQL < offsets[len(offsets)-1] {
		totalQL = offsets[len(offsets)-1]
	}

	segs := make([]Segment, 0, len(offsets))
	tSec := 0.0
	for i, off := range offsets {
		endQL := totalQL
		if i+1 < len(offsets) {
			endQL = offsets[i+1]
		}
		bpm := byOffset[off]
		endSec := tSec + (endQL-off)*(60.0/bpm)
		segs = append(segs, Segment{
			StartQL:  off,
			EndQL:    endQL,
			BPM:      bpm,
			StartSec: tSec,
			EndSec:   endSec,
		})
		tSec = endSec
	}

	return &TempoMap{segs: segs}
}

// Segments returns the ordered segment list.
func (tm *TempoMap) Segments() []Segment {
	return tm.segs
}

// TotalSeconds returns the absolute end of the last segment.
func (tm *TempoMap) TotalSeconds() float64 {
	return tm.segs[len(tm.segs)-1].EndSec
}

// ToSeconds maps an absolute quarter-length offset to absolute seconds.
// Offsets past the last segment extrapolate at its bpm, so the function is
// total and non-decreasing.
func (tm *TempoMap) ToSeconds(ql float64) float64 {
	i := sort.Search(len(tm.segs), func(i int) bool {
		return tm.segs[i].EndQL > ql
	})
	if i == len(tm.segs) {
		last := tm.segs[len(tm.segs)-1]
		return last.EndSec + (ql-last.EndQL)*(60.0/last.BPM)
	}
	s := tm.segs[i]
	return s.StartSec + (ql-s.StartQL)*(60.0/s.BPM)
}

// DurationToSeconds converts a quarter-length span starting at startQL into
// seconds, integrating exactly across every tempo segment it overlaps.
func (tm *TempoMap) DurationToSeconds(startQL, durQL float64) float64 {
	remaining := durQL
	posQL := startQL
	total := 0.0
	for _, s := range tm.segs {
		if remaining <= 0 {
			break
		}
		if posQL >= s.EndQL {
			continue
		}
		if posQL < s.StartQL {
			posQL = s.StartQL
		}
		take := s.EndQL - posQL
		if take > remaining {
			take = remaining
		}
		total += take * (60.0 / s.BPM)
		remaining -= take
		posQL += take
	}
	if remaining > 0 {
		// Span runs off the end of the map: finish at the last tempo.
		total += remaining * (60.0 / tm.segs[len(tm.segs)-1].BPM)
	}
	return total
}

// BPMAt returns the bpm in effect at an absolute second, extrapolating with
// the last segment's bpm past the end of the piece.
func (tm *TempoMap) BPMAt(sec float64) float64 {
	i := sort.Search(len(tm.segs), func(i int) bool {
		return tm.segs[i].EndSec > sec
	})
	if i == len(tm.segs) {
		return tm.segs[len(tm.segs)-1].BPM
	}
	return tm.segs[i].BPM
}

// AnnotateNotes fills the derived StartSec/DurationSec of every note and
// returns the slice sorted by StartSec.
func (tm *TempoMap) AnnotateNotes(notes []score.Note) []score.Note {
	out := make([]score.Note, len(notes))
	for i, n := range notes {
		n.StartSec = tm.ToSeconds(n.StartQL)
		n.DurationSec = tm.DurationToSeconds(n.StartQL, n.DurationQL)
		out[i] = n
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartSec < out[j].StartSec
	})
	return out
}
