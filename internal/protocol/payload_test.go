package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientConnectPayloadRoundTrip(t *testing.T) {
	p := ClientConnectPayload{ClientVersion: ProtocolVersion, PlayerName: "astra"}
	buf := p.Encode()
	assert.Len(t, buf, 33, "ClientConnectPayload is spec-asserted at 33 bytes")

	decoded, err := DecodeClientConnect(buf)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

func TestInputFlagsRoundTripThroughFloatBitPattern(t *testing.T) {
	flags := InputUp | InputRight | InputFire
	encoded := EncodeInputFlags(flags)
	decoded := DecodeInputFlags(encoded)
	assert.Equal(t, flags, decoded)

	in := ClientInputPayload{PlayerID: 7, TargetX: encoded, Sequence: 1}
	buf := in.Encode()
	require.Len(t, buf, 16, "ClientInputPayload is spec-asserted at 16 bytes")

	decodedPayload, err := DecodeClientInput(buf)
	require.NoError(t, err)
	assert.Equal(t, DecodeInputFlags(decodedPayload.TargetX), flags)
}

func TestEntityStatePadsToFixedSize(t *testing.T) {
	e := EntityState{EntityID: 9, EntityType: EntityEnemyFast, PositionX: 1.5, PositionY: -2.5, VelocityXI16: 100, VelocityYI16: -50, HealthU16: 80, FlagsU8: 0x01}
	buf := e.Encode()
	require.Len(t, buf, EntityStateSize)

	decoded, err := DecodeEntityState(buf)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestServerEntitySpawnPayloadOwnerTagFixedField(t *testing.T) {
	p := ServerEntitySpawnPayload{EntityID: 3, EntityType: EntityPlayerCell, SpawnX: 10, SpawnY: 20, Extra: 20, Color: 0xFF00FF, OwnerID: 5, OwnerTag: "toolong"}
	buf := p.Encode()

	decoded, err := DecodeServerEntitySpawn(buf)
	require.NoError(t, err)
	assert.Equal(t, "tool", decoded.OwnerTag, "OwnerTag is a fixed 4-byte field and must truncate")
}

func TestLeaderboardEntrySizeAndRoundTrip(t *testing.T) {
	e := LeaderboardEntry{PlayerID: 1, Name: "top-player", Value: 12345.5}
	buf := e.Encode()
	require.Len(t, buf, LeaderboardEntrySize)

	decoded, err := DecodeLeaderboardEntry(buf)
	require.NoError(t, err)
	assert.Equal(t, e, decoded)
}

func TestServerLeaderboardHeaderFollowedByEntries(t *testing.T) {
	entries := []LeaderboardEntry{
		{PlayerID: 1, Name: "a", Value: 3},
		{PlayerID: 2, Name: "b", Value: 2},
	}
	buf := ServerLeaderboardHeader{EntryCount: uint8(len(entries))}.Encode()
	for _, e := range entries {
		buf = append(buf, e.Encode()...)
	}

	r := NewReader(buf)
	header, err := DecodeServerLeaderboardHeader(r.ReadBytes(1))
	require.NoError(t, err)
	require.Equal(t, uint8(2), header.EntryCount)

	for i := 0; i < int(header.EntryCount); i++ {
		entry, err := DecodeLeaderboardEntry(r.ReadBytes(LeaderboardEntrySize))
		require.NoError(t, err)
		assert.Equal(t, entries[i], entry)
	}
}

func TestRejectReasonValues(t *testing.T) {
	// These values are part of the wire contract; a reordering of the
	// iota block would silently change what a client decodes.
	assert.Equal(t, RejectReason(0), RejectServerFull)
	assert.Equal(t, RejectReason(1), RejectVersionMismatch)
	assert.Equal(t, RejectReason(2), RejectInvalidName)
	assert.Equal(t, RejectReason(3), RejectNameTaken)
}
