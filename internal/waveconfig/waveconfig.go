// Package waveconfig loads the R-Type wave/level/map layout from a YAML
// asset file (see SPEC_FULL.md's gopkg.in/yaml.v3 dependency row for why YAML over
// the originally-described JSON: it is the serialization format the
// teacher's own config stack already carries as a dependency).
package waveconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnemySpawn is one entry in a Wave's spawn list.
type EnemySpawn struct {
	Kind         string  `yaml:"kind"`
	Count        int     `yaml:"count"`
	Pattern      string  `yaml:"pattern"`
	DelayBetween float32 `yaml:"delay_between"`
}

// WaveTrigger gates when a wave is allowed to start: both the scroll
// distance and the elapsed-time conditions must hold (spec §4.6).
type WaveTrigger struct {
	ScrollDistance float32 `yaml:"scroll_distance"`
	TimeDelay      float32 `yaml:"time_delay"`
}

// Wave is one wave's full spawn script.
type Wave struct {
	Index             int          `yaml:"index"`
	Trigger           WaveTrigger  `yaml:"trigger"`
	Enemies           []EnemySpawn `yaml:"enemies"`
	CompleteOnAllDead bool         `yaml:"complete_on_all_dead"`
	BossWave          bool         `yaml:"boss_wave"`
	BossHealth        int          `yaml:"boss_health"`
}

// MapConfig is the scrolling-arena layout for a session.
type MapConfig struct {
	Width       float32 `yaml:"width"`
	Height      float32 `yaml:"height"`
	ScrollSpeed float32 `yaml:"scroll_speed"`
}

// Config is the full contents of a session's level asset file.
type Config struct {
	Map   MapConfig `yaml:"map"`
	Waves []Wave    `yaml:"waves"`
}

// Load reads and parses a level asset file from path.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("waveconfig: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("waveconfig: parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Default returns a small built-in level used when no asset file is
// configured, so a session can start without external files.
func Default() *Config {
	return &Config{
		Map: MapConfig{Width: 3200, Height: 1080, ScrollSpeed: 80},
		Waves: []Wave{
			{Index: 0, Trigger: WaveTrigger{ScrollDistance: 0, TimeDelay: 0}, Enemies: []EnemySpawn{{Kind: "basic", Count: 5, Pattern: "line", DelayBetween: 0.6}}, CompleteOnAllDead: true},
			{Index: 1, Trigger: WaveTrigger{ScrollDistance: 800, TimeDelay: 0}, Enemies: []EnemySpawn{{Kind: "fast", Count: 6, Pattern: "v", DelayBetween: 0.4}}, CompleteOnAllDead: true},
			{Index: 2, Trigger: WaveTrigger{ScrollDistance: 1800, TimeDelay: 0}, Enemies: []EnemySpawn{{Kind: "tank", Count: 3, Pattern: "random", DelayBetween: 1.0}}, CompleteOnAllDead: true},
			{Index: 3, Trigger: WaveTrigger{ScrollDistance: 2800, TimeDelay: 0}, Enemies: []EnemySpawn{{Kind: "boss", Count: 1, Pattern: "circle", DelayBetween: 0}}, CompleteOnAllDead: true, BossWave: true, BossHealth: 2000},
		},
	}
}
