package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsNoArguments(t *testing.T) {
	tcp, udp, bindAll, err := parseArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, tcp)
	assert.Equal(t, 0, udp)
	assert.False(t, bindAll)
}

func TestParseArgsPositionalPorts(t *testing.T) {
	tcp, udp, bindAll, err := parseArgs([]string{"7100", "7101"})
	require.NoError(t, err)
	assert.Equal(t, 7100, tcp)
	assert.Equal(t, 7101, udp)
	assert.False(t, bindAll)
}

func TestParseArgsNetworkFlag(t *testing.T) {
	tcp, udp, bindAll, err := parseArgs([]string{"7100", "7101", "--network"})
	require.NoError(t, err)
	assert.Equal(t, 7100, tcp)
	assert.Equal(t, 7101, udp)
	assert.True(t, bindAll)
}

func TestParseArgsNetworkFlagCanComeBeforePorts(t *testing.T) {
	tcp, udp, _, err := parseArgs([]string{"--network", "7100"})
	require.NoError(t, err)
	assert.Equal(t, 7100, tcp)
	assert.Equal(t, 0, udp)
}

func TestParseArgsRejectsTooManyPositionalArguments(t *testing.T) {
	_, _, _, err := parseArgs([]string{"1", "2", "3"})
	assert.Error(t, err)
}

func TestParseArgsRejectsNonNumericPort(t *testing.T) {
	_, _, _, err := parseArgs([]string{"not-a-port"})
	assert.Error(t, err)
}

func TestParseArgsRejectsUnknownFlag(t *testing.T) {
	_, _, _, err := parseArgs([]string{"--bogus"})
	assert.Error(t, err)
}
