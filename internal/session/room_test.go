package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/arcade-server/internal/protocol"
)

// fakeSession is a minimal GameSession stub so Manager/Room tests don't
// need to build a full ECS world.
type fakeSession struct {
	players map[uint32]string
	ticks   int
	inputs  []protocol.ClientInputPayload
}

func newFakeSession() GameSession {
	return &fakeSession{players: make(map[uint32]string)}
}

func (f *fakeSession) Tick(dt float32) { f.ticks++ }
func (f *fakeSession) AddPlayer(id uint32, name string, skinID uint8) {
	f.players[id] = name
}
func (f *fakeSession) RemovePlayer(id uint32) { delete(f.players, id) }
func (f *fakeSession) HandleInput(id uint32, in protocol.ClientInputPayload) {
	f.inputs = append(f.inputs, in)
}
func (f *fakeSession) DrainOutbound() []Frame              { return nil }
func (f *fakeSession) NextSequence(id uint32) uint16       { return 1 }
func (f *fakeSession) ResyncClient(playerID uint32) []Frame { return nil }

func TestManagerJoinFillsRoomsBeforeOpeningANewOne(t *testing.T) {
	m := NewManager(2, newFakeSession)

	r1 := m.Join(1, "a", 0)
	r2 := m.Join(2, "b", 0)
	require.Equal(t, r1.ID, r2.ID, "second player should join the same room while it has capacity")

	r3 := m.Join(3, "c", 0)
	assert.NotEqual(t, r1.ID, r3.ID, "a full room must not accept a third player; a new room opens instead")

	assert.Equal(t, 3, m.TotalPlayers())
	assert.Len(t, m.Rooms(), 2)
}

func TestManagerLeaveRemovesPlayerFromItsRoom(t *testing.T) {
	m := NewManager(4, newFakeSession)
	room := m.Join(1, "a", 0)

	_, ok := m.RoomOf(1)
	require.True(t, ok)

	m.Leave(1)
	_, ok = m.RoomOf(1)
	assert.False(t, ok)
	assert.Equal(t, 0, room.PlayerCount())
	assert.Equal(t, 0, m.TotalPlayers())
}

func TestManagerLeaveUnknownPlayerIsNoop(t *testing.T) {
	m := NewManager(4, newFakeSession)
	assert.NotPanics(t, func() { m.Leave(999) })
}

func TestManagerHandleInputRoutesToThePlayersRoom(t *testing.T) {
	m := NewManager(4, newFakeSession)
	m.Join(1, "a", 0)
	room, _ := m.RoomOf(1)
	fake := room.Session.(*fakeSession)

	in := protocol.ClientInputPayload{PlayerID: 1, TargetX: 10}
	m.HandleInput(1, in)
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, in, fake.inputs[0])

	// Input for a player seated nowhere must not panic.
	assert.NotPanics(t, func() { m.HandleInput(42, in) })
}

func TestManagerTickablesReturnsOneEntryPerRoom(t *testing.T) {
	m := NewManager(1, newFakeSession)
	m.Join(1, "a", 0)
	m.Join(2, "b", 0)

	tickables := m.Tickables()
	require.Len(t, tickables, 2)
	for _, tk := range tickables {
		tk.Tick(0.03125)
	}
	for _, room := range m.Rooms() {
		assert.Equal(t, 1, room.Session.(*fakeSession).ticks)
	}
}

func TestRoomPlayersReturnsSeatedIDs(t *testing.T) {
	m := NewManager(4, newFakeSession)
	room := m.Join(1, "a", 0)
	m.Join(2, "b", 0)

	ids := map[uint32]bool{}
	for _, id := range room.Players() {
		ids[id] = true
	}
	assert.True(t, ids[1])
	assert.True(t, ids[2])
}
