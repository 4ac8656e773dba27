package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	NoteBar   rune // █ falling bar body
	WhiteKey  rune // ▓ keybed white key
	BlackKey  rune // ░ keybed black key
	HitKey    rune // ▄ key a bar is currently crossing
	CursorBar rune // ┃ score cursor
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			NoteBar:   '█',
			WhiteKey:  '▓',
			BlackKey:  '░',
			HitKey:    '▄',
			CursorBar: '┃',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.45
	RoleStaff2  = 0.3  // left hand
	RoleStaff1  = 0.75 // right hand
	RoleAccent  = 0.6
	RoleCursor  = 0.85
	RoleWarning = 1.0
)

// Style helpers

func (t *Theme) BG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleBG))
}

func (t *Theme) FG() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleFG))
}

func (t *Theme) Muted() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleMuted))
}

func (t *Theme) Accent() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleAccent))
}

func (t *Theme) Cursor() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleCursor))
}

func (t *Theme) Warning() lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(RoleWarning))
}

// Staff returns the bar color for a staff (1 = right hand, 2 = left hand).
func (t *Theme) Staff(staff int) lipgloss.Color {
	if staff == 2 {
		return rgbToLipgloss(t.Palette.Lookup(RoleStaff2))
	}
	return rgbToLipgloss(t.Palette.Lookup(RoleStaff1))
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
