package netio

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/l1jgo/arcade-server/internal/protocol"
)

// fakeHandler is a minimal in-memory GameHandler stub exercising the
// ControlServer's packet dispatch without a real session/ECS world.
type fakeHandler struct {
	nextID       uint32
	maxPlayers   int
	connected    map[uint32]string
	disconnected []uint32
}

func newFakeHandler(maxPlayers int) *fakeHandler {
	return &fakeHandler{maxPlayers: maxPlayers, connected: make(map[uint32]string)}
}

func (h *fakeHandler) Connect(name string, version uint8) (uint32, protocol.ServerAcceptPayload, bool, protocol.RejectReason, string) {
	if version != protocol.ProtocolVersion {
		return 0, protocol.ServerAcceptPayload{}, false, protocol.RejectVersionMismatch, "version mismatch"
	}
	if len(h.connected) >= h.maxPlayers {
		return 0, protocol.ServerAcceptPayload{}, false, protocol.RejectServerFull, "server full"
	}
	h.nextID++
	id := h.nextID
	h.connected[id] = name
	accept := protocol.ServerAcceptPayload{
		AssignedPlayerID: id,
		MapWidth:         2000,
		MapHeight:        2000,
		StartingValue:    20,
		ServerTickRate:   32,
		MaxPlayers:       uint8(h.maxPlayers),
	}
	return id, accept, true, 0, ""
}

func (h *fakeHandler) Disconnect(playerID uint32) {
	delete(h.connected, playerID)
	h.disconnected = append(h.disconnected, playerID)
}
func (h *fakeHandler) Input(playerID uint32, in protocol.ClientInputPayload)  {}
func (h *fakeHandler) Split(playerID uint32)                                 {}
func (h *fakeHandler) EjectMass(playerID uint32, dirX, dirY float32)         {}
func (h *fakeHandler) SetSkin(playerID uint32, skinID uint8)                 {}
func (h *fakeHandler) Ping(playerID uint32, clientTimestamp uint32) protocol.ServerPongPayload {
	return protocol.ServerPongPayload{ClientTimestamp: clientTimestamp, ServerTimestamp: clientTimestamp + 1}
}

func dialControlServer(t *testing.T, s *ControlServer) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", s.Addr().String(), time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestControlServerAcceptsAndRejectsConnect(t *testing.T) {
	handler := newFakeHandler(1)
	s, err := NewControlServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	go s.AcceptLoop()
	defer s.Shutdown()

	conn := dialControlServer(t, s)
	require.NoError(t, writeFrame(conn, protocol.ClientConnect, 0, protocol.ClientConnectPayload{
		ClientVersion: protocol.ProtocolVersion,
		PlayerName:    "alice",
	}.Encode()))

	hdr, payload, err := readFrame(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ServerAccept, hdr.PacketType)
	accept, err := protocol.DecodeServerAccept(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), accept.AssignedPlayerID)
	assert.Equal(t, float32(2000), accept.MapWidth)

	second := dialControlServer(t, s)
	require.NoError(t, writeFrame(second, protocol.ClientConnect, 0, protocol.ClientConnectPayload{
		ClientVersion: protocol.ProtocolVersion,
		PlayerName:    "bob",
	}.Encode()))

	hdr, payload, err = readFrame(second)
	require.NoError(t, err)
	assert.Equal(t, protocol.ServerReject, hdr.PacketType)
	reject, err := protocol.DecodeServerReject(payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.RejectServerFull, reject.Reason)
}

func TestControlServerDisconnectOnConnectionClose(t *testing.T) {
	handler := newFakeHandler(4)
	s, err := NewControlServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	go s.AcceptLoop()
	defer s.Shutdown()

	conn := dialControlServer(t, s)
	require.NoError(t, writeFrame(conn, protocol.ClientConnect, 0, protocol.ClientConnectPayload{
		ClientVersion: protocol.ProtocolVersion,
		PlayerName:    "carol",
	}.Encode()))
	_, _, err = readFrame(conn)
	require.NoError(t, err)

	conn.Close()

	require.Eventually(t, func() bool {
		return len(handler.disconnected) == 1
	}, time.Second, 10*time.Millisecond, "closing the socket must call Disconnect")
	assert.Equal(t, uint32(1), handler.disconnected[0])
}

func TestControlServerRejectsVersionMismatchWithoutTrackingConnection(t *testing.T) {
	handler := newFakeHandler(4)
	s, err := NewControlServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	go s.AcceptLoop()
	defer s.Shutdown()

	conn := dialControlServer(t, s)
	require.NoError(t, writeFrame(conn, protocol.ClientConnect, 0, protocol.ClientConnectPayload{
		ClientVersion: protocol.ProtocolVersion + 1,
		PlayerName:    "dave",
	}.Encode()))

	hdr, payload, err := readFrame(conn)
	require.NoError(t, err)
	assert.Equal(t, protocol.ServerReject, hdr.PacketType)
	reject, err := protocol.DecodeServerReject(payload)
	require.NoError(t, err)
	assert.Equal(t, protocol.RejectVersionMismatch, reject.Reason)

	assert.Empty(t, handler.connected, "a rejected connect must never register a player")
}

func TestReadFrameAndWriteFrameRoundTrip(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		require.NoError(t, writeFrame(client, protocol.ClientPing, 7, protocol.ClientPingPayload{
			PlayerID:        3,
			ClientTimestamp: 99,
		}.Encode()))
	}()

	hdr, payload, err := readFrame(server)
	require.NoError(t, err)
	<-done

	assert.Equal(t, protocol.ClientPing, hdr.PacketType)
	assert.Equal(t, uint16(7), hdr.SequenceNumber)
	ping, err := protocol.DecodeClientPing(payload)
	require.NoError(t, err)
	assert.Equal(t, uint32(3), ping.PlayerID)
	assert.Equal(t, uint32(99), ping.ClientTimestamp)
}
