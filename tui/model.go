package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-pianoroll/engine"
	"go-pianoroll/theme"
	"go-pianoroll/widgets"
)

// chrome rows around the roll area: header, blank, keybed, ruler, blank,
// help, error line.
const chromeRows = 7

// Rate nudge per keypress, matching the original speed control's step.
const rateStep = 0.05

type frameMsg time.Time

// Model is the bubbletea program: one frame tick per update drives the
// engine, key events mutate the transport between frames. Everything runs
// on the bubbletea goroutine, which is what keeps transport mutations
// atomic with respect to frames.
type Model struct {
	Player *engine.Player
	Theme  *theme.Theme

	roll   *RollView
	cursor *CursorView

	frameInterval time.Duration
	seekStep      float64

	width    int
	height   int
	lastErr  string
	quitting bool
}

// NewModel wires the TUI around an engine player. roll and cursor must be
// the same sinks the player was built with.
func NewModel(player *engine.Player, roll *RollView, cursor *CursorView, th *theme.Theme, fps int, seekStep float64) Model {
	if fps <= 0 {
		fps = 60
	}
	return Model{
		Player:        player,
		Theme:         th,
		roll:          roll,
		cursor:        cursor,
		frameInterval: time.Second / time.Duration(fps),
		seekStep:      seekStep,
	}
}

func (m Model) frameTick() tea.Cmd {
	return tea.Tick(m.frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return m.frameTick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case " ":
			m.Player.TogglePause()

		case "left", "h":
			m.Player.SeekBy(-m.seekStep)

		case "right", "l":
			m.Player.SeekBy(+m.seekStep)

		case "up", "+", "=":
			m.Player.AdjustRate(+rateStep)

		case "down", "-", "_":
			m.Player.AdjustRate(-rateStep)

		case "s":
			m.Player.Stop()

		case "r":
			m.Player.Restart()

		case "0":
			m.Player.Seek(0)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.roll.SetRows(msg.Height - chromeRows)

	case frameMsg:
		if err := m.Player.Step(); err != nil {
			m.lastErr = err.Error()
		}
		m.cursor.TickFlash()
		return m, m.frameTick()
	}

	return m, nil
}

func formatClock(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	d := time.Duration(sec * float64(time.Second))
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func (m Model) header() string {
	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	pageStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	if m.cursor.pageFlash > 0 {
		pageStyle = lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	}

	now := m.Player.Transport.Now()
	total := m.Player.Transport.TotalDuration()
	bpm := m.Player.TempoMap.BPMAt(now)

	playState := "PLAY"
	rate := m.Player.Transport.Rate()
	if rate == 0 {
		playState = "PAUSE"
		rate = m.Player.Transport.ResumeRate()
	}

	measureIdx, intra, page := m.cursor.Position()
	measure := m.Player.Measures.At(measureIdx)

	left := headerStyle.Render(fmt.Sprintf("go-pianoroll  %s  %3.0fbpm  %.2fx  %s / %s",
		playState, bpm, rate, formatClock(now), formatClock(total)))
	right := pageStyle.Render(fmt.Sprintf("measure %d %s  page %d/%d",
		measure.Number, m.measureStrip(measure.EndSec-measure.StartSec, intra), page+1, m.Player.PageCount()))

	return left + "   " + right
}

// measureStrip draws the cursor's position inside the current measure as a
// short strip with the cursor rune at the right cell.
func (m Model) measureStrip(lengthSec, intraSec float64) string {
	const cells = 8
	pos := 0
	if lengthSec > 0 {
		pos = int(intraSec / lengthSec * cells)
		if pos >= cells {
			pos = cells - 1
		}
	}
	strip := make([]rune, cells)
	for i := range strip {
		if i == pos {
			strip[i] = m.Theme.Symbols.CursorBar
		} else {
			strip[i] = '·'
		}
	}
	return string(strip)
}

func (m Model) help() string {
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	help := widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "space", Desc: "pause/resume"},
			{Key: "←/→", Desc: fmt.Sprintf("seek %gs", m.seekStep)},
			{Key: "↑/↓ +/-", Desc: "speed"},
			{Key: "s/r/0 q", Desc: "stop/restart/start quit"},
		}},
	})
	legend := widgets.RenderLegendItem(m.Theme.Staff(1), "right hand", "staff 1") +
		widgets.RenderLegendItem(m.Theme.Staff(2), "left hand", "staff 2")
	return dimStyle.Render(strings.ReplaceAll(help, "\n", "  ")) + "\n" + legend
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var out strings.Builder
	out.WriteString(m.header())
	out.WriteString("\n\n")
	out.WriteString(m.roll.View())
	out.WriteString("\n\n")
	out.WriteString(m.help())

	if m.lastErr != "" {
		errStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
		out.WriteString("\n")
		out.WriteString(errStyle.Render("audio: " + m.lastErr))
	}

	return out.String()
}
