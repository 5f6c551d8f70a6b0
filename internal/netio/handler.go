// Package netio implements the two-socket transport from spec §4.10/§5/
// §6: a TCP control server for join/leave/ACCEPT/REJECT, and a UDP data
// server for gameplay input/snapshots/events. Both sockets share a
// GameHandler that forwards decoded payloads into the matched session.
package netio

import (
	"github.com/l1jgo/arcade-server/internal/protocol"
)

// GameHandler is implemented by whatever owns the live sessions (the
// main server loop). Methods are called from network goroutines, so
// implementations must be safe to call from multiple goroutines
// concurrently; they should hand work off to the tick loop rather than
// touch ECS storage directly (spec §5's "ECS storage is not internally
// synchronized").
type GameHandler interface {
	// Connect allocates a player for a freshly accepted TCP control
	// connection. ok is false when the lobby should reject the
	// connection, in which case reason/message describe why.
	Connect(name string, version uint8) (playerID uint32, accept protocol.ServerAcceptPayload, ok bool, reason protocol.RejectReason, message string)
	Disconnect(playerID uint32)
	Input(playerID uint32, in protocol.ClientInputPayload)
	Split(playerID uint32)
	EjectMass(playerID uint32, dirX, dirY float32)
	SetSkin(playerID uint32, skinID uint8)
	Ping(playerID uint32, clientTimestamp uint32) protocol.ServerPongPayload
}
