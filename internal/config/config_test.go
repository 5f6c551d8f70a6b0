package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoPathUsesBuiltinDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "rtype", cfg.Server.Mode)
	assert.Equal(t, 32, cfg.Server.TickRate)
	assert.Equal(t, 7000, cfg.Network.TCPPort)
	assert.Equal(t, time.Second/32, cfg.Server.TickPeriod, "TickPeriod must be derived from TickRate")
	assert.Greater(t, int64(cfg.Server.TickPeriod), int64(0))
}

func TestLoadOverlaysTOMLOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[server]
mode = "bagario"
tick_rate_hz = 32

[network]
tcp_port = 9001
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bagario", cfg.Server.Mode)
	assert.Equal(t, 9001, cfg.Network.TCPPort)
	// Fields untouched by the file keep their built-in default.
	assert.Equal(t, 6, cfg.Pool.Workers)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/server.toml")
	assert.Error(t, err)
}

func TestLoadReturnsErrorForUnparsableTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestApplyEnvOverridesPorts(t *testing.T) {
	t.Setenv(envTCPPort, "12345")
	t.Setenv(envUDPPort, "12346")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12345, cfg.Network.TCPPort)
	assert.Equal(t, 12346, cfg.Network.UDPPort)
}

func TestApplyFlagsOverridesPortsAndBindAll(t *testing.T) {
	cfg := defaults()
	cfg.ApplyFlags(8000, 8001, true)
	assert.Equal(t, 8000, cfg.Network.TCPPort)
	assert.Equal(t, 8001, cfg.Network.UDPPort)
	assert.Equal(t, "0.0.0.0:8000", cfg.Network.TCPAddr())
	assert.Equal(t, "0.0.0.0:8001", cfg.Network.UDPAddr())
}

func TestApplyFlagsZeroValuesDoNotOverride(t *testing.T) {
	cfg := defaults()
	originalTCP := cfg.Network.TCPPort
	cfg.ApplyFlags(0, 0, false)
	assert.Equal(t, originalTCP, cfg.Network.TCPPort)
	assert.Equal(t, "127.0.0.1:7000", cfg.Network.TCPAddr())
}
