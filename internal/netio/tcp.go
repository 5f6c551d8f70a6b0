package netio

import (
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/l1jgo/arcade-server/internal/protocol"
)

// ControlServer accepts TCP connections for the reliable join/leave/
// lobby/ACCEPT/REJECT channel (spec §4.10: "two sockets per server").
// Each connection gets its own goroutine, which does all of that
// connection's reads and writes; the mutex guards only the map of
// connected players.
type ControlServer struct {
	listener net.Listener
	handler  GameHandler
	log      *zap.Logger

	mu    sync.Mutex
	conns map[uint32]net.Conn
}

// NewControlServer binds addr (e.g. ":7000") and returns a server ready
// for AcceptLoop.
func NewControlServer(addr string, handler GameHandler, log *zap.Logger) (*ControlServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("netio: listen tcp %s: %w", addr, err)
	}
	return &ControlServer{
		listener: ln,
		handler:  handler,
		log:      log,
		conns:    make(map[uint32]net.Conn),
	}, nil
}

func (s *ControlServer) Addr() net.Addr { return s.listener.Addr() }

// AcceptLoop runs until the listener is closed; call it from its own
// goroutine.
func (s *ControlServer) AcceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.log.Debug("control accept stopped", zap.Error(err))
			return
		}
		go s.serve(conn)
	}
}

func (s *ControlServer) Shutdown() error {
	s.mu.Lock()
	for id, c := range s.conns {
		c.Close()
		delete(s.conns, id)
	}
	s.mu.Unlock()
	return s.listener.Close()
}

func (s *ControlServer) serve(conn net.Conn) {
	defer conn.Close()

	var playerID uint32
	var connected bool
	defer func() {
		if connected {
			s.handler.Disconnect(playerID)
			s.mu.Lock()
			delete(s.conns, playerID)
			s.mu.Unlock()
		}
	}()

	for {
		header, payload, err := readFrame(conn)
		if err != nil {
			if err != io.EOF {
				s.log.Debug("control read error", zap.Error(err))
			}
			return
		}

		switch header.PacketType {
		case protocol.ClientConnect:
			p, err := protocol.DecodeClientConnect(payload)
			if err != nil {
				s.log.Warn("bad CLIENT_CONNECT payload", zap.Error(err))
				return
			}
			id, accept, ok, reason, message := s.handler.Connect(p.PlayerName, p.ClientVersion)
			if !ok {
				writeFrame(conn, protocol.ServerReject, 0, protocol.ServerRejectPayload{Reason: reason, Message: message}.Encode())
				return
			}
			playerID = id
			connected = true
			s.mu.Lock()
			s.conns[playerID] = conn
			s.mu.Unlock()
			if err := writeFrame(conn, protocol.ServerAccept, 0, accept.Encode()); err != nil {
				return
			}

		case protocol.ClientDisconnect:
			return

		case protocol.ClientJoinLobby, protocol.ClientLeaveLobby:
			// Lobby membership for this game is implicit in Connect/
			// Disconnect (one lobby per listening pair, spec §4.10); these
			// packets are decoded and otherwise ignored: no reply is sent
			// and no session transition happens.
			if _, err := protocol.DecodeClientLobby(payload); err != nil {
				s.log.Warn("bad lobby payload", zap.Error(err))
			}

		default:
			s.log.Debug("unexpected control packet", zap.Uint8("type", header.PacketType))
		}
	}
}

// readFrame reads one protocol.Header + payload from a stream socket.
func readFrame(r io.Reader) (protocol.Header, []byte, error) {
	var hdr [protocol.HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return protocol.Header{}, nil, err
	}
	h, err := protocol.DecodeHeader(hdr[:])
	if err != nil {
		return protocol.Header{}, nil, err
	}
	payload := make([]byte, h.PayloadLength)
	if h.PayloadLength > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return protocol.Header{}, nil, err
		}
	}
	return h, payload, nil
}

// writeFrame writes a protocol.Header + payload to a stream socket.
func writeFrame(w io.Writer, packetType byte, sequence uint16, payload []byte) error {
	h := protocol.Header{PacketType: packetType, PayloadLength: uint16(len(payload)), SequenceNumber: sequence}
	buf := h.Encode()
	out := make([]byte, 0, protocol.HeaderSize+len(payload))
	out = append(out, buf[:]...)
	out = append(out, payload...)
	_, err := w.Write(out)
	return err
}
