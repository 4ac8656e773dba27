package score

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go-pianoroll/debug"
)

// Note is a single playable note in quarter-length time. StartSec and
// DurationSec are zero until annotated against a tempo map.
type Note struct {
	Pitch      uint8   `json:"pitch"`
	StartQL    float64 `json:"start"`
	DurationQL float64 `json:"duration"`
	Staff      int     `json:"staff"`

	// Derived absolute timing, filled in by timing.TempoMap.AnnotateNotes.
	StartSec    float64 `json:"-"`
	DurationSec float64 `json:"-"`
}

// TempoMark places a metronome marking at an absolute quarter-length offset.
type TempoMark struct {
	OffsetQL float64 `json:"offset"`
	BPM      float64 `json:"bpm"`
}

// MeasureBoundary is one measure as notated: the printed number may repeat,
// skip, or run backwards (pickups, courtesy renumbering).
type MeasureBoundary struct {
	Number  int     `json:"number"`
	StartQL float64 `json:"start"`
	EndQL   float64 `json:"end"`
}

// Score is the plain-record form a score provider hands to the engine.
// Parsing notation files into these records is the provider's problem.
type Score struct {
	Title    string            `json:"title,omitempty"`
	Notes    []Note            `json:"notes"`
	Tempos   []TempoMark       `json:"tempos,omitempty"`
	Measures []MeasureBoundary `json:"measures,omitempty"`
	TotalQL  float64           `json:"totalQL"`

	// PageMap maps measure index -> page number from the layout pass.
	// Missing entries fall back to sequential page assignment.
	PageMap map[int]int `json:"pageMap,omitempty"`
}

// Load reads a score document from disk and sanitizes it.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sc Score
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse score %s: %w", path, err)
	}

	sc.Sanitize()
	return &sc, nil
}

// Sanitize repairs out-of-range fields in place. Bad input is clamped and
// logged, never fatal: a degraded score still plays.
func (s *Score) Sanitize() {
	kept := s.Notes[:0]
	for _, n := range s.Notes {
		if n.Pitch > 127 {
			debug.Log("score", "note pitch %d clamped to 127", n.Pitch)
			n.Pitch = 127
		}
		if n.StartQL < 0 {
			debug.Log("score", "note start %f clamped to 0", n.StartQL)
			n.StartQL = 0
		}
		if n.DurationQL <= 0 {
			debug.Log("score", "dropping note at %fql with duration %f", n.StartQL, n.DurationQL)
			continue
		}
		if n.Staff != 1 && n.Staff != 2 {
			n.Staff = 1
		}
		kept = append(kept, n)
	}
	s.Notes = kept

	sort.SliceStable(s.Notes, func(i, j int) bool {
		return s.Notes[i].StartQL < s.Notes[j].StartQL
	})

	if s.TotalQL <= 0 {
		for _, n := range s.Notes {
			if end := n.StartQL + n.DurationQL; end > s.TotalQL {
				s.TotalQL = end
			}
		}
		debug.Log("score", "totalQL missing, derived %f from notes", s.TotalQL)
	}
}
