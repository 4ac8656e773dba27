package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/engine"
	"go-pianoroll/score"
	"go-pianoroll/theme"
	"go-pianoroll/widgets"
)

// bar is one live falling note as the terminal sees it: engine pixel
// coordinates, quantized to cells only at render time.
type bar struct {
	note     score.Note
	y        float64 // top edge, engine pixels
	heightPx float64
}

// RollView is the VisualSink: it owns the spawned bars and renders the
// falling-notes grid plus the keybed at the trigger line. The engine tells
// it what exists and where; it decides what that looks like.
type RollView struct {
	theme *theme.Theme

	viewHeight  float64 // engine pixels from spawn line to trigger line
	scrollSpeed float64

	rows int // terminal rows for the roll area

	bars map[engine.VisualHandle]*bar
	next engine.VisualHandle
}

// NewRollView creates a roll view for the given engine geometry.
func NewRollView(th *theme.Theme, viewHeight, scrollSpeed float64) *RollView {
	return &RollView{
		theme:       th,
		viewHeight:  viewHeight,
		scrollSpeed: scrollSpeed,
		rows:        24,
		bars:        make(map[engine.VisualHandle]*bar),
	}
}

// SetRows resizes the roll area.
func (r *RollView) SetRows(rows int) {
	if rows < 4 {
		rows = 4
	}
	r.rows = rows
}

// Spawn implements engine.VisualSink.
func (r *RollView) Spawn(n score.Note) engine.VisualHandle {
	r.next++
	h := r.next
	height := n.DurationSec * r.scrollSpeed
	r.bars[h] = &bar{note: n, y: -height, heightPx: height}
	return h
}

// UpdatePosition implements engine.VisualSink.
func (r *RollView) UpdatePosition(h engine.VisualHandle, y float64) {
	if b, ok := r.bars[h]; ok {
		b.y = y
	}
}

// Release implements engine.VisualSink.
func (r *RollView) Release(h engine.VisualHandle) {
	delete(r.bars, h)
}

// BarCount returns the number of live bars.
func (r *RollView) BarCount() int {
	return len(r.bars)
}

func (r *RollView) pxPerRow() float64 {
	return r.viewHeight / float64(r.rows)
}

// hitKeys returns the pitches whose bars are crossing the trigger line.
func (r *RollView) hitKeys() map[int]bool {
	hit := make(map[int]bool)
	for _, b := range r.bars {
		bottom := b.y + b.heightPx
		if bottom >= r.viewHeight && b.y <= r.viewHeight {
			hit[int(b.note.Pitch)] = true
		}
	}
	return hit
}

// View renders the roll area: rows of falling bars, the keybed at the
// trigger line, and the octave ruler.
func (r *RollView) View() string {
	type cell struct{ staff int } // 0 = empty
	grid := make([][]cell, r.rows)
	for i := range grid {
		grid[i] = make([]cell, widgets.NumKeys)
	}

	perRow := r.pxPerRow()
	for _, b := range r.bars {
		col := int(b.note.Pitch) - widgets.StartMIDI
		if col < 0 || col >= widgets.NumKeys {
			continue
		}
		topRow := int(b.y / perRow)
		botRow := int((b.y + b.heightPx) / perRow)
		for row := topRow; row <= botRow; row++ {
			if row < 0 || row >= r.rows {
				continue
			}
			grid[row][col] = cell{staff: b.note.Staff}
		}
	}

	staff1 := lipgloss.NewStyle().Foreground(r.theme.Staff(1))
	staff2 := lipgloss.NewStyle().Foreground(r.theme.Staff(2))
	barRune := string(r.theme.Symbols.NoteBar)

	var out strings.Builder
	for row := 0; row < r.rows; row++ {
		for col := 0; col < widgets.NumKeys; col++ {
			switch grid[row][col].staff {
			case 0:
				out.WriteByte(' ')
			case 2:
				out.WriteString(staff2.Render(barRune))
			default:
				out.WriteString(staff1.Render(barRune))
			}
		}
		out.WriteByte('\n')
	}

	out.WriteString(widgets.RenderKeybed(widgets.NumKeys, r.hitKeys(), widgets.KeybedStyle{
		White:      r.theme.Symbols.WhiteKey,
		Black:      r.theme.Symbols.BlackKey,
		Hit:        r.theme.Symbols.HitKey,
		WhiteColor: r.theme.FG(),
		BlackColor: r.theme.Muted(),
		HitColor:   r.theme.Accent(),
	}))
	out.WriteByte('\n')
	out.WriteString(lipgloss.NewStyle().Foreground(r.theme.Muted()).Render(widgets.RenderKeyLabels(widgets.NumKeys)))

	return out.String()
}
