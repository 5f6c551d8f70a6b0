package main

import (
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/arcade-server/internal/metrics"
	"github.com/l1jgo/arcade-server/internal/netio"
	"github.com/l1jgo/arcade-server/internal/protocol"
	"github.com/l1jgo/arcade-server/internal/session"
)

// gameHandler bridges netio's two sockets to the session manager: it
// allocates player IDs, seats new connections into a room, and routes
// decoded gameplay packets to that room's session. It implements
// netio.GameHandler and is safe for concurrent use from both the TCP
// accept goroutines and the single UDP read loop.
type gameHandler struct {
	manager *session.Manager
	data    *netio.DataServer // set once by main after construction
	log     *zap.Logger

	mode       string
	mapWidth   float32
	mapHeight  float32
	startValue float32
	tickRate   int
	maxPlayers int

	nextPlayerID atomic.Uint32
	needsResync  syncSet
}

var _ netio.GameHandler = (*gameHandler)(nil)

func newGameHandler(mgr *session.Manager, log *zap.Logger, mode string, mapWidth, mapHeight, startValue float32, tickRate, maxPlayers int) *gameHandler {
	return &gameHandler{
		manager:    mgr,
		log:        log,
		mode:       mode,
		mapWidth:   mapWidth,
		mapHeight:  mapHeight,
		startValue: startValue,
		tickRate:   tickRate,
		maxPlayers: maxPlayers,
	}
}

func (h *gameHandler) Connect(name string, version uint8) (uint32, protocol.ServerAcceptPayload, bool, protocol.RejectReason, string) {
	name = strings.TrimRight(name, "\x00")
	if version != protocol.ProtocolVersion {
		return 0, protocol.ServerAcceptPayload{}, false, protocol.RejectVersionMismatch, "client/server protocol version mismatch"
	}
	if name == "" || len(name) > 32 {
		return 0, protocol.ServerAcceptPayload{}, false, protocol.RejectInvalidName, "player name must be 1-32 bytes"
	}
	if h.manager.TotalPlayers() >= h.maxPlayers {
		return 0, protocol.ServerAcceptPayload{}, false, protocol.RejectServerFull, "server is full"
	}

	id := h.nextPlayerID.Add(1)
	room := h.manager.Join(id, name, 0)
	h.needsResync.add(id)
	if h.data != nil {
		h.data.RegisterPlayer(id)
	}
	metrics.ActiveSessions.Set(float64(len(h.manager.Rooms())))
	metrics.ActivePlayers.Set(float64(h.manager.TotalPlayers()))

	accept := protocol.ServerAcceptPayload{
		AssignedPlayerID: id,
		MapWidth:         h.mapWidth,
		MapHeight:        h.mapHeight,
		StartingValue:    h.startValue,
		ServerTickRate:   uint8(h.tickRate),
		MaxPlayers:       uint8(h.maxPlayers),
	}
	h.log.Info("player connected", zap.Uint32("player_id", id), zap.String("name", name), zap.String("room", room.ID))
	return id, accept, true, 0, ""
}

func (h *gameHandler) Disconnect(playerID uint32) {
	h.manager.Leave(playerID)
	h.needsResync.remove(playerID)
	if h.data != nil {
		h.data.UnregisterPlayer(playerID)
	}
	metrics.ActiveSessions.Set(float64(len(h.manager.Rooms())))
	metrics.ActivePlayers.Set(float64(h.manager.TotalPlayers()))
	h.log.Info("player disconnected", zap.Uint32("player_id", playerID))
}

// Input forwards one CLIENT_INPUT to the player's room. The first
// input received after Connect also triggers a resync burst: the UDP
// address is only known once a datagram has arrived, so this is the
// earliest point a full-state catch-up can reach the client.
func (h *gameHandler) Input(playerID uint32, in protocol.ClientInputPayload) {
	h.flushResyncIfPending(playerID)
	h.manager.HandleInput(playerID, in)
}

func (h *gameHandler) Split(playerID uint32) {
	h.flushResyncIfPending(playerID)
	room, ok := h.manager.RoomOf(playerID)
	if !ok {
		return
	}
	if splitter, ok := room.Session.(session.Splitter); ok {
		splitter.HandleSplit(playerID)
	}
}

func (h *gameHandler) EjectMass(playerID uint32, dirX, dirY float32) {
	h.flushResyncIfPending(playerID)
	room, ok := h.manager.RoomOf(playerID)
	if !ok {
		return
	}
	if ejecter, ok := room.Session.(session.Ejecter); ok {
		ejecter.HandleEjectMass(playerID, dirX, dirY)
	}
}

// SetSkin broadcasts SERVER_PLAYER_SKIN to every player sharing the
// room: no component stores post-spawn skin state, so this is relayed
// directly rather than routed through a session system.
func (h *gameHandler) SetSkin(playerID uint32, skinID uint8) {
	room, ok := h.manager.RoomOf(playerID)
	if !ok || h.data == nil {
		return
	}
	payload := protocol.ServerPlayerSkinPayload{PlayerID: playerID, SkinID: skinID}.Encode()
	for _, p := range room.Players() {
		h.data.Send(p, protocol.ServerPlayerSkin, room.Session.NextSequence(p), payload)
	}
}

func (h *gameHandler) Ping(playerID uint32, clientTimestamp uint32) protocol.ServerPongPayload {
	return protocol.ServerPongPayload{
		ClientTimestamp: clientTimestamp,
		ServerTimestamp: uint32(time.Now().UnixMilli()),
	}
}

func (h *gameHandler) flushResyncIfPending(playerID uint32) {
	if !h.needsResync.take(playerID) || h.data == nil {
		return
	}
	room, ok := h.manager.RoomOf(playerID)
	if !ok {
		return
	}
	seq := func() uint16 { return room.Session.NextSequence(playerID) }
	for _, f := range room.Session.ResyncClient(playerID) {
		h.data.Send(playerID, f.Type, seq(), f.Payload)
	}
}
