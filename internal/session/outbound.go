package session

// Frame is one packet type + payload bytes queued for a session's
// network adapter, header-free (the network layer wraps each in a
// protocol.Header when it sends it).
type Frame struct {
	Type    byte
	Payload []byte
}

// outboundBuffers holds one FIFO slice per payload kind queued during a
// tick. DrainOutbound empties them in the documented priority order:
// snapshot, spawns, destroys, projectiles, explosions, score/powerup,
// respawn/levelup/wave, cell-merge, player-eaten, leaderboard, skin
// (spec §4.10/§5).
type outboundBuffers struct {
	snapshot    []Frame
	spawns      []Frame
	destroys    []Frame
	projectiles []Frame
	explosions  []Frame
	scores      []Frame
	powerups    []Frame
	respawns    []Frame
	levelUps    []Frame
	waveEvents  []Frame
	cellMerges  []Frame
	playerEaten []Frame
	leaderboard []Frame
	skins       []Frame
}

func (b *outboundBuffers) reset() {
	b.snapshot = b.snapshot[:0]
	b.spawns = b.spawns[:0]
	b.destroys = b.destroys[:0]
	b.projectiles = b.projectiles[:0]
	b.explosions = b.explosions[:0]
	b.scores = b.scores[:0]
	b.powerups = b.powerups[:0]
	b.respawns = b.respawns[:0]
	b.levelUps = b.levelUps[:0]
	b.waveEvents = b.waveEvents[:0]
	b.cellMerges = b.cellMerges[:0]
	b.playerEaten = b.playerEaten[:0]
	b.leaderboard = b.leaderboard[:0]
	b.skins = b.skins[:0]
}

// drain returns every queued frame in priority order and clears the
// buffers for the next tick.
func (b *outboundBuffers) drain() []Frame {
	total := len(b.snapshot) + len(b.spawns) + len(b.destroys) + len(b.projectiles) +
		len(b.explosions) + len(b.scores) + len(b.powerups) + len(b.respawns) +
		len(b.levelUps) + len(b.waveEvents) + len(b.cellMerges) + len(b.playerEaten) +
		len(b.leaderboard) + len(b.skins)
	out := make([]Frame, 0, total)
	out = append(out, b.snapshot...)
	out = append(out, b.spawns...)
	out = append(out, b.destroys...)
	out = append(out, b.projectiles...)
	out = append(out, b.explosions...)
	out = append(out, b.scores...)
	out = append(out, b.powerups...)
	out = append(out, b.respawns...)
	out = append(out, b.levelUps...)
	out = append(out, b.waveEvents...)
	out = append(out, b.cellMerges...)
	out = append(out, b.playerEaten...)
	out = append(out, b.leaderboard...)
	out = append(out, b.skins...)
	b.reset()
	return out
}

func frame(packetType byte, payload []byte) Frame {
	return Frame{Type: packetType, Payload: payload}
}
