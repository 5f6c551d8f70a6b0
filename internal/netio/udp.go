package netio

import (
	"net"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/l1jgo/arcade-server/internal/metrics"
	"github.com/l1jgo/arcade-server/internal/protocol"
)

// inputRateLimit bounds how many CLIENT_INPUT-class datagrams a single
// player may submit per second; comfortably above the 32 Hz tick rate
// so a well-behaved client never gets throttled, but tight enough to
// stop a flooding one from starving the UDP read loop.
const inputRateLimit = 64

// DataServer is the unreliable UDP channel for gameplay input and
// outbound snapshots/events (spec §4.10/§6). It demultiplexes inbound
// datagrams by player ID (carried inside every client payload) rather
// than by source address, since a NAT'd client's port can change
// mid-session; every accepted datagram binds/refreshes the address
// snapshots are sent back to.
type DataServer struct {
	conn    *net.UDPConn
	handler GameHandler
	log     *zap.Logger

	mu       sync.RWMutex
	addrs    map[uint32]*net.UDPAddr
	limiters map[uint32]*rate.Limiter
}

// NewDataServer binds addr (e.g. ":7001") for UDP gameplay traffic.
func NewDataServer(addr string, handler GameHandler, log *zap.Logger) (*DataServer, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, err
	}
	return &DataServer{
		conn:     conn,
		handler:  handler,
		log:      log,
		addrs:    make(map[uint32]*net.UDPAddr),
		limiters: make(map[uint32]*rate.Limiter),
	}, nil
}

func (s *DataServer) Addr() net.Addr { return s.conn.LocalAddr() }

func (s *DataServer) Shutdown() error { return s.conn.Close() }

// RegisterPlayer arms id's rate limiter; called once a TCP ACCEPT has
// handed out the player ID.
func (s *DataServer) RegisterPlayer(id uint32) {
	s.mu.Lock()
	s.limiters[id] = rate.NewLimiter(rate.Limit(inputRateLimit), inputRateLimit)
	s.mu.Unlock()
}

// UnregisterPlayer drops id's address and limiter on disconnect.
func (s *DataServer) UnregisterPlayer(id uint32) {
	s.mu.Lock()
	delete(s.addrs, id)
	delete(s.limiters, id)
	s.mu.Unlock()
}

// ReadLoop runs until the socket is closed; call it from its own
// goroutine.
func (s *DataServer) ReadLoop() {
	buf := make([]byte, 2048)
	for {
		n, remote, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			s.log.Debug("udp read stopped", zap.Error(err))
			return
		}
		s.handleDatagram(buf[:n], remote)
	}
}

func (s *DataServer) handleDatagram(data []byte, remote *net.UDPAddr) {
	if len(data) < protocol.HeaderSize {
		return
	}
	header, err := protocol.DecodeHeader(data[:protocol.HeaderSize])
	if err != nil {
		metrics.PacketsDropped.WithLabelValues("decode_error").Inc()
		return
	}
	payload := data[protocol.HeaderSize:]
	if int(header.PayloadLength) > len(payload) {
		metrics.PacketsDropped.WithLabelValues("decode_error").Inc()
		return
	}
	payload = payload[:header.PayloadLength]

	switch header.PacketType {
	case protocol.ClientInput:
		in, err := protocol.DecodeClientInput(payload)
		if err != nil {
			return
		}
		if !s.allow(in.PlayerID) {
			return
		}
		s.trackAddr(in.PlayerID, remote)
		s.handler.Input(in.PlayerID, in)

	case protocol.ClientSplit:
		p, err := protocol.DecodeClientSplit(payload)
		if err != nil {
			return
		}
		if !s.allow(p.PlayerID) {
			return
		}
		s.trackAddr(p.PlayerID, remote)
		s.handler.Split(p.PlayerID)

	case protocol.ClientEjectMass:
		p, err := protocol.DecodeClientEjectMass(payload)
		if err != nil {
			return
		}
		if !s.allow(p.PlayerID) {
			return
		}
		s.trackAddr(p.PlayerID, remote)
		s.handler.EjectMass(p.PlayerID, p.DirectionX, p.DirectionY)

	case protocol.ClientSetSkin:
		p, err := protocol.DecodeClientSetSkin(payload)
		if err != nil {
			return
		}
		s.trackAddr(p.PlayerID, remote)
		s.handler.SetSkin(p.PlayerID, p.SkinID)

	case protocol.ClientPing:
		p, err := protocol.DecodeClientPing(payload)
		if err != nil {
			return
		}
		s.trackAddr(p.PlayerID, remote)
		pong := s.handler.Ping(p.PlayerID, p.ClientTimestamp)
		s.send(p.PlayerID, protocol.ServerPong, 0, pong.Encode())

	default:
		s.log.Debug("unexpected data packet", zap.Uint8("type", header.PacketType))
	}
}

func (s *DataServer) allow(id uint32) bool {
	s.mu.RLock()
	lim, ok := s.limiters[id]
	s.mu.RUnlock()
	if !ok {
		return true
	}
	allowed := lim.Allow()
	if !allowed {
		metrics.PacketsDropped.WithLabelValues("rate_limit").Inc()
	}
	return allowed
}

func (s *DataServer) trackAddr(id uint32, addr *net.UDPAddr) {
	s.mu.Lock()
	s.addrs[id] = addr
	s.mu.Unlock()
}

// Send frames and writes one payload to player id's last-known UDP
// address; a no-op if id has never sent a datagram yet.
func (s *DataServer) Send(id uint32, packetType byte, sequence uint16, payload []byte) {
	s.send(id, packetType, sequence, payload)
}

func (s *DataServer) send(id uint32, packetType byte, sequence uint16, payload []byte) {
	s.mu.RLock()
	addr, ok := s.addrs[id]
	s.mu.RUnlock()
	if !ok {
		return
	}
	h := protocol.Header{PacketType: packetType, PayloadLength: uint16(len(payload)), SequenceNumber: sequence}
	hdr := h.Encode()
	out := make([]byte, 0, protocol.HeaderSize+len(payload))
	out = append(out, hdr[:]...)
	out = append(out, payload...)
	if _, err := s.conn.WriteToUDP(out, addr); err != nil {
		s.log.Debug("udp write failed", zap.Uint32("player", id), zap.Error(err))
	}
}
