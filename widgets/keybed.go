package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Piano range: A0..C8.
const (
	StartMIDI = 21
	NumKeys   = 88
)

var whiteKeys = map[int]bool{0: true, 2: true, 4: true, 5: true, 7: true, 9: true, 11: true}

// IsWhiteKey reports whether a MIDI pitch is a white key.
func IsWhiteKey(pitch int) bool {
	return whiteKeys[pitch%12]
}

// KeybedStyle selects the runes and colors for RenderKeybed.
type KeybedStyle struct {
	White rune
	Black rune
	Hit   rune

	WhiteColor lipgloss.Color
	BlackColor lipgloss.Color
	HitColor   lipgloss.Color
}

// RenderKeybed renders one terminal row of keys, one cell per key starting
// at StartMIDI. hit marks keys a bar is currently crossing.
func RenderKeybed(numKeys int, hit map[int]bool, style KeybedStyle) string {
	whiteStyle := lipgloss.NewStyle().Foreground(style.WhiteColor)
	blackStyle := lipgloss.NewStyle().Foreground(style.BlackColor)
	hitStyle := lipgloss.NewStyle().Foreground(style.HitColor)

	var out strings.Builder
	for i := 0; i < numKeys; i++ {
		pitch := StartMIDI + i
		switch {
		case hit[pitch]:
			out.WriteString(hitStyle.Render(string(style.Hit)))
		case IsWhiteKey(pitch):
			out.WriteString(whiteStyle.Render(string(style.White)))
		default:
			out.WriteString(blackStyle.Render(string(style.Black)))
		}
	}
	return out.String()
}

// RenderKeyLabels renders the octave ruler under the keybed: "C1".."C8" at
// each C, spaces elsewhere.
func RenderKeyLabels(numKeys int) string {
	cells := make([]byte, numKeys)
	for i := range cells {
		cells[i] = ' '
	}
	for i := 0; i < numKeys; i++ {
		pitch := StartMIDI + i
		if pitch%12 == 0 { // C
			label := fmt.Sprintf("C%d", pitch/12-1)
			for j := 0; j < len(label) && i+j < numKeys; j++ {
				cells[i+j] = label[j]
			}
		}
	}
	return string(cells)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color lipgloss.Color, name, desc string) string {
	swatch := lipgloss.NewStyle().Foreground(color).Render("■")
	return fmt.Sprintf("  %s %s - %s", swatch, name, desc)
}
