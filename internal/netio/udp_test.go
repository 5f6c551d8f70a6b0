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

type recordingHandler struct {
	fakeHandler
	inputs []protocol.ClientInputPayload
	splits []uint32
	ejects []uint32
	skins  map[uint32]uint8
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{fakeHandler: *newFakeHandler(32), skins: make(map[uint32]uint8)}
}

func (h *recordingHandler) Input(playerID uint32, in protocol.ClientInputPayload) {
	h.inputs = append(h.inputs, in)
}
func (h *recordingHandler) Split(playerID uint32)                         { h.splits = append(h.splits, playerID) }
func (h *recordingHandler) EjectMass(playerID uint32, dirX, dirY float32) { h.ejects = append(h.ejects, playerID) }
func (h *recordingHandler) SetSkin(playerID uint32, skinID uint8)         { h.skins[playerID] = skinID }

func dialUDP(t *testing.T, s *DataServer) *net.UDPConn {
	t.Helper()
	remote, err := net.ResolveUDPAddr("udp", s.Addr().String())
	require.NoError(t, err)
	conn, err := net.DialUDP("udp", nil, remote)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendDatagram(t *testing.T, conn *net.UDPConn, packetType byte, sequence uint16, payload []byte) {
	t.Helper()
	h := protocol.Header{PacketType: packetType, PayloadLength: uint16(len(payload)), SequenceNumber: sequence}
	hdr := h.Encode()
	out := append(append([]byte{}, hdr[:]...), payload...)
	_, err := conn.Write(out)
	require.NoError(t, err)
}

func TestDataServerDispatchesInputToHandler(t *testing.T) {
	handler := newRecordingHandler()
	s, err := NewDataServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown()
	go s.ReadLoop()
	s.RegisterPlayer(5)

	conn := dialUDP(t, s)
	sendDatagram(t, conn, protocol.ClientInput, 1, protocol.ClientInputPayload{
		PlayerID: 5,
		TargetX:  protocol.EncodeInputFlags(protocol.InputUp),
	}.Encode())

	require.Eventually(t, func() bool {
		return len(handler.inputs) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, uint32(5), handler.inputs[0].PlayerID)
}

func TestDataServerDispatchesSplitAndEjectMass(t *testing.T) {
	handler := newRecordingHandler()
	s, err := NewDataServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown()
	go s.ReadLoop()
	s.RegisterPlayer(7)

	conn := dialUDP(t, s)
	sendDatagram(t, conn, protocol.ClientSplit, 0, protocol.ClientSplitPayload{PlayerID: 7}.Encode())
	sendDatagram(t, conn, protocol.ClientEjectMass, 0, protocol.ClientEjectMassPayload{
		PlayerID:   7,
		DirectionX: 1,
		DirectionY: 0,
	}.Encode())

	require.Eventually(t, func() bool {
		return len(handler.splits) == 1 && len(handler.ejects) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []uint32{7}, handler.splits)
	assert.Equal(t, []uint32{7}, handler.ejects)
}

func TestDataServerRespondsToPingWithPong(t *testing.T) {
	handler := newRecordingHandler()
	s, err := NewDataServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown()
	go s.ReadLoop()

	conn := dialUDP(t, s)
	// Ping has no rate limiter registration requirement and also tracks
	// the reply address via the ping payload itself.
	sendDatagram(t, conn, protocol.ClientPing, 0, protocol.ClientPingPayload{
		PlayerID:        9,
		ClientTimestamp: 555,
	}.Encode())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	buf := make([]byte, 64)
	n, err := conn.Read(buf)
	require.NoError(t, err)

	hdr, err := protocol.DecodeHeader(buf[:protocol.HeaderSize])
	require.NoError(t, err)
	assert.Equal(t, protocol.ServerPong, hdr.PacketType)
	pong, err := protocol.DecodeServerPong(buf[protocol.HeaderSize:n])
	require.NoError(t, err)
	assert.Equal(t, uint32(555), pong.ClientTimestamp)
}

func TestDataServerPassesInputForUnregisteredPlayerUnthrottled(t *testing.T) {
	handler := newRecordingHandler()
	s, err := NewDataServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown()
	go s.ReadLoop()

	conn := dialUDP(t, s)
	sendDatagram(t, conn, protocol.ClientInput, 0, protocol.ClientInputPayload{PlayerID: 42}.Encode())

	// No limiter registered for 42 means allow() treats it as unthrottled,
	// so the input must still reach the handler.
	require.Eventually(t, func() bool {
		return len(handler.inputs) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDataServerIgnoresTruncatedDatagram(t *testing.T) {
	handler := newRecordingHandler()
	s, err := NewDataServer("127.0.0.1:0", handler, zap.NewNop())
	require.NoError(t, err)
	defer s.Shutdown()
	go s.ReadLoop()

	conn := dialUDP(t, s)
	_, err = conn.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)

	// Give the read loop a moment; nothing should have been dispatched
	// and the server must not crash on a too-short datagram.
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, handler.inputs)
	assert.Empty(t, handler.splits)
}
