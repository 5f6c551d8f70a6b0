package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLevelWithEmptyRootFallsBackToDefault(t *testing.T) {
	d := NewDirectory("")
	cfg, err := d.LoadLevel("1")
	require.NoError(t, err)
	assert.Greater(t, cfg.Map.Width, float32(0))
	require.NotEmpty(t, cfg.Waves)
}

func TestLoadLevelReadsNamedFileFromDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "level_2.yaml"), []byte(`
map:
  width: 2400
  height: 800
waves:
  - index: 0
    enemies:
      - kind: basic
        count: 1
`), 0o644))

	d := NewDirectory(dir)
	cfg, err := d.LoadLevel("2")
	require.NoError(t, err)
	assert.Equal(t, float32(2400), cfg.Map.Width)
}

func TestLoadLevelReturnsErrorWhenFileMissing(t *testing.T) {
	d := NewDirectory(t.TempDir())
	_, err := d.LoadLevel("missing")
	assert.Error(t, err)
}
