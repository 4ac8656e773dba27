package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.View.ScrollSpeed = 150
	cfg.Audio.PortName = "FluidSynth"
	cfg.Score.SeekStepSec = 2.5
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadRestoresZeroedFields(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.View.FPS = 0
	cfg.Score.MeasuresPerPage = 0
	require.NoError(t, cfg.Save())

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().View.FPS, loaded.View.FPS)
	assert.Equal(t, DefaultConfig().Score.MeasuresPerPage, loaded.Score.MeasuresPerPage)
}
