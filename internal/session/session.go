package session

import "github.com/l1jgo/arcade-server/internal/protocol"

// GameSession is the subset of RTypeSession and BagarioSession the
// network/pool layer needs; both satisfy it identically so a lobby can
// host either game mode behind one interface.
type GameSession interface {
	Tick(dt float32)
	AddPlayer(id uint32, name string, skinID uint8)
	RemovePlayer(id uint32)
	HandleInput(id uint32, in protocol.ClientInputPayload)
	DrainOutbound() []Frame
	NextSequence(id uint32) uint16
	ResyncClient(playerID uint32) []Frame
}

// Splitter and Ejecter are satisfied only by BagarioSession; the
// network layer type-asserts for them when handling CLIENT_SPLIT/
// CLIENT_EJECT_MASS, since R-Type sessions have no such operation.
type Splitter interface {
	HandleSplit(id uint32)
}

type Ejecter interface {
	HandleEjectMass(id uint32, dirX, dirY float32)
}

var (
	_ GameSession = (*RTypeSession)(nil)
	_ GameSession = (*BagarioSession)(nil)
	_ Splitter    = (*BagarioSession)(nil)
	_ Ejecter     = (*BagarioSession)(nil)
)
