// Package config loads server configuration from an optional TOML file
// plus environment variable and CLI flag overrides, in that priority
// order (lowest to highest), per spec §6's configuration surface.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server  ServerConfig  `toml:"server"`
	Network NetworkConfig `toml:"network"`
	Pool    PoolConfig    `toml:"pool"`
	Assets  AssetsConfig  `toml:"assets"`
	Logging LoggingConfig `toml:"logging"`
	Persist PersistConfig `toml:"persist"`
	Metrics MetricsConfig `toml:"metrics"`
}

// ServerConfig names the running game mode and tick cadence.
type ServerConfig struct {
	Name        string        `toml:"name"`
	Mode        string        `toml:"mode"` // "rtype" or "bagario"
	TickRate    int           `toml:"tick_rate_hz"`
	TickPeriod  time.Duration `toml:"-"` // derived from TickRate
	MaxPlayers  int           `toml:"max_players"`
	IdleTimeout time.Duration `toml:"idle_timeout"`
}

// NetworkConfig holds the TCP control / UDP data bind addresses. Ports
// are overridable by `*_SERVER_PORT_TCP`/`*_SERVER_PORT_UDP` env vars
// and by CLI flags (spec §6); BindAllInterfaces corresponds to the
// `--network` flag (binds 0.0.0.0 instead of 127.0.0.1).
type NetworkConfig struct {
	TCPPort           int  `toml:"tcp_port"`
	UDPPort           int  `toml:"udp_port"`
	BindAllInterfaces bool `toml:"-"`
}

func (n NetworkConfig) host() string {
	if n.BindAllInterfaces {
		return "0.0.0.0"
	}
	return "127.0.0.1"
}

func (n NetworkConfig) TCPAddr() string { return fmt.Sprintf("%s:%d", n.host(), n.TCPPort) }
func (n NetworkConfig) UDPAddr() string { return fmt.Sprintf("%s:%d", n.host(), n.UDPPort) }

// PoolConfig sizes the session worker pool (spec §4.9/§5: default 6).
type PoolConfig struct {
	Workers          int           `toml:"workers"`
	SnapshotInterval time.Duration `toml:"snapshot_interval"`
}

// AssetsConfig points at the directory of wave/map/level YAML files
// (internal/assets + internal/waveconfig); empty means "use built-in
// defaults".
type AssetsConfig struct {
	Directory string `toml:"directory"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// PersistConfig gates the optional leaderboard/match-history database.
// Disabled by default so a bare run never requires Postgres (session
// and world state are never persisted — see spec's Non-goals).
type PersistConfig struct {
	Enabled         bool          `toml:"enabled"`
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// MetricsConfig controls the optional Prometheus /metrics listener.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

const (
	envTCPPort = "ARCADE_SERVER_PORT_TCP"
	envUDPPort = "ARCADE_SERVER_PORT_UDP"
)

// Load reads path (if non-empty) over a set of built-in defaults, then
// applies environment variable overrides. CLI flag overrides are
// applied afterward by the caller via Config.ApplyFlags, since flag
// parsing needs the process's os.Args.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Server.TickPeriod = time.Second / time.Duration(cfg.Server.TickRate)
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envTCPPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Network.TCPPort = p
		}
	}
	if v := os.Getenv(envUDPPort); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Network.UDPPort = p
		}
	}
}

// ApplyFlags overlays positional tcp_port/udp_port and a --network
// switch, the CLI surface spec §6 names explicitly.
func (c *Config) ApplyFlags(tcpPort, udpPort int, bindAll bool) {
	if tcpPort > 0 {
		c.Network.TCPPort = tcpPort
	}
	if udpPort > 0 {
		c.Network.UDPPort = udpPort
	}
	if bindAll {
		c.Network.BindAllInterfaces = true
	}
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Name:        "arcade-server",
			Mode:        "rtype",
			TickRate:    32,
			MaxPlayers:  64,
			IdleTimeout: 30 * time.Second,
		},
		Network: NetworkConfig{
			TCPPort: 7000,
			UDPPort: 7001,
		},
		Pool: PoolConfig{
			Workers:          6,
			SnapshotInterval: 50 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Persist: PersistConfig{
			Enabled:         false,
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    "127.0.0.1:9090",
		},
	}
}
