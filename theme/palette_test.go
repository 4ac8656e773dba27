package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupEndpoints(t *testing.T) {
	p := Default()

	assert.Equal(t, p.Colors[0], p.Lookup(-1))
	assert.Equal(t, p.Colors[0], p.Lookup(0))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(1))
	assert.Equal(t, p.Colors[len(p.Colors)-1], p.Lookup(2))
}

func TestLookupInterpolates(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {100, 200, 50}}}

	mid := p.Lookup(0.5)
	assert.Equal(t, RGB{50, 100, 25}, mid)
}

func TestLoadGPL(t *testing.T) {
	gpl := `GIMP Palette
Name: tiny
Columns: 1
#
  0   0   0 black
255 255 255 white
`
	path := filepath.Join(t.TempDir(), "tiny.gpl")
	require.NoError(t, os.WriteFile(path, []byte(gpl), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, "tiny", p.Name)
	require.Len(t, p.Colors, 2)
	assert.Equal(t, RGB{0, 0, 0}, p.Colors[0])
	assert.Equal(t, RGB{255, 255, 255}, p.Colors[1])
}

func TestLoadGPLEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\n"), 0644))

	_, err := LoadGPL(path)
	assert.Error(t, err)
}
