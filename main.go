package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"go-pianoroll/config"
	"go-pianoroll/debug"
	"go-pianoroll/engine"
	"go-pianoroll/midi"
	"go-pianoroll/score"
	"go-pianoroll/theme"
	"go-pianoroll/tui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: go-pianoroll <score.json>")
		os.Exit(1)
	}

	if os.Getenv("PIANOROLL_DEBUG") != "" {
		if err := debug.Enable(); err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
		}
		defer debug.Disable()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	sc, err := score.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "score: %v\n", err)
		os.Exit(1)
	}

	palette := theme.Default()
	if cfg.View.PalettePath != "" {
		palette, err = theme.LoadGPL(cfg.View.PalettePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "palette: %v\n", err)
			os.Exit(1)
		}
	}
	th := theme.New(palette)

	// MIDI out is best effort. No port just means a silent roll.
	var audio engine.AudioSink
	out, err := midi.NewOutput(cfg.Audio.PortName, cfg.Audio.Channel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "midi: %v (running silent)\n", err)
		audio = midi.Silent{}
	} else {
		audio = out
		defer out.Close()
	}

	geo := engine.Geometry{
		ScrollSpeed: cfg.View.ScrollSpeed,
		ViewHeight:  cfg.View.ViewHeight,
		CutoffY:     cfg.View.ViewHeight + 100,
	}

	roll := tui.NewRollView(th, geo.ViewHeight, geo.ScrollSpeed)
	cursor := tui.NewCursorView()

	player := engine.NewPlayer(sc, engine.Options{
		Geometry:        geo,
		AudioLatencySec: float64(cfg.Audio.LatencyMs) / 1000.0,
		MeasuresPerPage: cfg.Score.MeasuresPerPage,
	}, roll, audio, cursor)

	m := tui.NewModel(player, roll, cursor, th, cfg.View.FPS, cfg.Score.SeekStepSec)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
