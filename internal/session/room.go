package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/l1jgo/arcade-server/internal/protocol"
)

// Room pairs one GameSession with the set of player IDs currently
// seated in it. Manager hands out rooms up to capacity, then opens a
// fresh one, so the server always has N independent sessions the pool
// can tick in parallel (spec §4.9).
type Room struct {
	ID      string
	Session GameSession
	players map[uint32]struct{}
}

func newRoom(s GameSession) *Room {
	return &Room{ID: uuid.NewString(), Session: s, players: make(map[uint32]struct{})}
}

func (r *Room) PlayerCount() int { return len(r.players) }

func (r *Room) Players() []uint32 {
	out := make([]uint32, 0, len(r.players))
	for id := range r.players {
		out = append(out, id)
	}
	return out
}

// Factory builds a fresh, empty GameSession for a new room.
type Factory func() GameSession

// Manager owns every active room for one game mode and routes players
// to rooms by capacity, filling one before opening the next.
type Manager struct {
	mu       sync.Mutex
	factory  Factory
	capacity int
	rooms    []*Room
	roomOf   map[uint32]*Room
}

func NewManager(capacity int, factory Factory) *Manager {
	return &Manager{
		factory:  factory,
		capacity: capacity,
		roomOf:   make(map[uint32]*Room),
	}
}

// Join seats id into a room with spare capacity, opening a new one if
// every existing room is full, and returns that room.
func (m *Manager) Join(id uint32, name string, skinID uint8) *Room {
	m.mu.Lock()
	defer m.mu.Unlock()

	var room *Room
	for _, r := range m.rooms {
		if r.PlayerCount() < m.capacity {
			room = r
			break
		}
	}
	if room == nil {
		room = newRoom(m.factory())
		m.rooms = append(m.rooms, room)
	}
	room.players[id] = struct{}{}
	m.roomOf[id] = room
	room.Session.AddPlayer(id, name, skinID)
	return room
}

// Leave removes id from its room, if any.
func (m *Manager) Leave(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.roomOf[id]
	if !ok {
		return
	}
	room.Session.RemovePlayer(id)
	delete(room.players, id)
	delete(m.roomOf, id)
}

// TotalPlayers returns the number of players seated across every room.
func (m *Manager) TotalPlayers() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.roomOf)
}

// RoomOf returns the room id currently occupies, if any.
func (m *Manager) RoomOf(id uint32) (*Room, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.roomOf[id]
	return r, ok
}

// Rooms returns a snapshot of every active room.
func (m *Manager) Rooms() []*Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Room, len(m.rooms))
	copy(out, m.rooms)
	return out
}

// Tickables returns every room's session as a Tickable, for ScheduleBatch.
func (m *Manager) Tickables() []Tickable {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Tickable, len(m.rooms))
	for i, r := range m.rooms {
		out[i] = r.Session
	}
	return out
}

// HandleInput routes input to id's room, if seated.
func (m *Manager) HandleInput(id uint32, in protocol.ClientInputPayload) {
	if r, ok := m.RoomOf(id); ok {
		r.Session.HandleInput(id, in)
	}
}
