package timing

import (
	"sort"

	"go-pianoroll/debug"
	"go-pianoroll/score"
)

// Measure is one notated measure with absolute timing attached. Index is the
// unique 0-based position; Number is whatever the engraver printed and may
// repeat or skip.
type Measure struct {
	Index    int
	Number   int
	StartQL  float64
	EndQL    float64
	StartSec float64
	EndSec   float64
}

// MeasureIndex is the ordered measure table used for time -> measure lookup.
// Built once per score next to the TempoMap and shared read-only.
type MeasureIndex struct {
	measures []Measure
}

// NewMeasureIndex derives absolute seconds for each boundary via the tempo
// map. Overlapping or inverted boundaries are clamped against their
// neighbors and logged; the index never fails to build.
func NewMeasureIndex(bounds []score.MeasureBoundary, tm *TempoMap) *MeasureIndex {
	measures := make([]Measure, 0, len(bounds))
	prevEnd := 0.0
	for i, b := range bounds {
		startQL := b.StartQL
		endQL := b.EndQL
		if startQL < prevEnd {
			debug.Log("measure", "measure %d starts at %fql before previous end %fql, clamping", b.Number, startQL, prevEnd)
			startQL = prevEnd
		}
		if endQL <= startQL {
			// Estimate from the next boundary, or reuse the previous
			// measure's length as a last resort.
			if i+1 < len(bounds) && bounds[i+1].StartQL > startQL {
				endQL = bounds[i+1].StartQL
			} else if len(measures) > 0 {
				last := measures[len(measures)-1]
				endQL = startQL + (last.EndQL - last.StartQL)
			} else {
				endQL = startQL + 4.0
			}
			debug.Log("measure", "measure %d had end %fql <= start %fql, estimated %fql", b.Number, b.EndQL, startQL, endQL)
		}
		measures = append(measures, Measure{
			Index:    len(measures),
			Number:   b.Number,
			StartQL:  startQL,
			EndQL:    endQL,
			StartSec: tm.ToSeconds(startQL),
			EndSec:   tm.ToSeconds(endQL),
		})
		prevEnd = endQL
	}
	return &MeasureIndex{measures: measures}
}

// Len returns the number of measures.
func (mi *MeasureIndex) Len() int {
	return len(mi.measures)
}

// At returns the measure at a 0-based index, clamped into range.
func (mi *MeasureIndex) At(i int) Measure {
	if len(mi.measures) == 0 {
		return Measure{EndQL: 4.0, EndSec: 4.0}
	}
	if i < 0 {
		i = 0
	}
	if i >= len(mi.measures) {
		i = len(mi.measures) - 1
	}
	return mi.measures[i]
}

// MeasureForTime finds the measure whose [StartSec,EndSec) contains sec.
// Times below the first measure clamp to index 0, at or past the end to the
// last index. O(log n).
func (mi *MeasureIndex) MeasureForTime(sec float64) Measure {
	if len(mi.measures) == 0 {
		return Measure{EndQL: 4.0, EndSec: 4.0}
	}
	i := sort.Search(len(mi.measures), func(i int) bool {
		return mi.measures[i].EndSec > sec
	})
	return mi.At(i)
}
