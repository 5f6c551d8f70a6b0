package waveconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParsesMapAndWaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level_1.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
map:
  width: 1600
  height: 900
  scroll_speed: 50
waves:
  - index: 0
    trigger:
      scroll_distance: 200
      time_delay: 1.5
    complete_on_all_dead: true
    enemies:
      - kind: basic
        count: 4
        pattern: line
        delay_between: 0.5
  - index: 1
    boss_wave: true
    boss_health: 1500
    enemies:
      - kind: boss
        count: 1
        pattern: circle
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, float32(1600), cfg.Map.Width)
	assert.Equal(t, float32(900), cfg.Map.Height)
	require.Len(t, cfg.Waves, 2)
	assert.Equal(t, "basic", cfg.Waves[0].Enemies[0].Kind)
	assert.Equal(t, float32(200), cfg.Waves[0].Trigger.ScrollDistance)
	assert.Equal(t, float32(1.5), cfg.Waves[0].Trigger.TimeDelay)
	assert.True(t, cfg.Waves[1].BossWave)
	assert.Equal(t, 1500, cfg.Waves[1].BossHealth)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/level_9.yaml")
	assert.Error(t, err)
}

func TestLoadReturnsErrorForInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("map: [this is not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefaultReturnsAPlayableFourWaveLevel(t *testing.T) {
	cfg := Default()
	assert.Greater(t, cfg.Map.Width, float32(0))
	assert.Greater(t, cfg.Map.Height, float32(0))
	require.Len(t, cfg.Waves, 4)
	assert.True(t, cfg.Waves[3].BossWave, "the final built-in wave must be a boss wave")
}
