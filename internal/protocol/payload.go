package protocol

import "math"

// Fixed-size packed payload types, one per packet type in codes.go. Byte
// sizes marked "spec-asserted" reproduce the exact static_assert values
// spec §6 and original_source/.../Payloads.hpp fix; others are this
// repo's own consistent choice where spec.md gives no explicit size.

// ClientConnectPayload — 33 bytes, spec-asserted.
type ClientConnectPayload struct {
	ClientVersion uint8
	PlayerName    string // encoded/decoded as a fixed 32-byte field
}

func (p ClientConnectPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU8(p.ClientVersion)
	w.WriteFixedString(p.PlayerName, 32)
	return w.Bytes()
}

func DecodeClientConnect(data []byte) (ClientConnectPayload, error) {
	r := NewReader(data)
	p := ClientConnectPayload{
		ClientVersion: r.ReadU8(),
		PlayerName:    r.ReadFixedString(32),
	}
	return p, r.Err()
}

// ClientDisconnectPayload — 5 bytes.
type ClientDisconnectPayload struct {
	PlayerID uint32
	Reason   uint8
}

func (p ClientDisconnectPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU8(p.Reason)
	return w.Bytes()
}

func DecodeClientDisconnect(data []byte) (ClientDisconnectPayload, error) {
	r := NewReader(data)
	p := ClientDisconnectPayload{PlayerID: r.ReadU32(), Reason: r.ReadU8()}
	return p, r.Err()
}

// ClientPingPayload — 8 bytes.
type ClientPingPayload struct {
	PlayerID        uint32
	ClientTimestamp uint32
}

func (p ClientPingPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU32(p.ClientTimestamp)
	return w.Bytes()
}

func DecodeClientPing(data []byte) (ClientPingPayload, error) {
	r := NewReader(data)
	p := ClientPingPayload{PlayerID: r.ReadU32(), ClientTimestamp: r.ReadU32()}
	return p, r.Err()
}

// ClientInputPayload — 16 bytes, spec-asserted. For Bagario, TargetX/Y is
// the mouse-follow world position. For R-Type, TargetX carries direction
// flags packed in its high bits (Up/Down/Left/Right/Fire) per spec §6;
// see protocol.DecodeInputFlags.
type ClientInputPayload struct {
	PlayerID uint32
	TargetX  float32
	TargetY  float32
	Sequence uint32
}

func (p ClientInputPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteF32(p.TargetX)
	w.WriteF32(p.TargetY)
	w.WriteU32(p.Sequence)
	return w.Bytes()
}

func DecodeClientInput(data []byte) (ClientInputPayload, error) {
	r := NewReader(data)
	p := ClientInputPayload{
		PlayerID: r.ReadU32(),
		TargetX:  r.ReadF32(),
		TargetY:  r.ReadF32(),
		Sequence: r.ReadU32(),
	}
	return p, r.Err()
}

// InputFlag bits packed into the high 8 bits of ClientInputPayload.TargetX's
// IEEE-754 bit pattern for the R-Type control scheme.
type InputFlag uint8

const (
	InputUp InputFlag = 1 << iota
	InputDown
	InputLeft
	InputRight
	InputFire
)

// EncodeInputFlags/DecodeInputFlags convert a direction+fire bitmask to
// and from the float32 wire slot shared with Bagario's target position,
// by round-tripping through its bit pattern rather than its numeric value.
func EncodeInputFlags(flags InputFlag) float32 {
	return math.Float32frombits(uint32(flags) << 24)
}

func DecodeInputFlags(v float32) InputFlag {
	return InputFlag(math.Float32bits(v) >> 24)
}

// ClientSplitPayload — 4 bytes.
type ClientSplitPayload struct {
	PlayerID uint32
}

func (p ClientSplitPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	return w.Bytes()
}

func DecodeClientSplit(data []byte) (ClientSplitPayload, error) {
	r := NewReader(data)
	p := ClientSplitPayload{PlayerID: r.ReadU32()}
	return p, r.Err()
}

// ClientEjectMassPayload — 12 bytes.
type ClientEjectMassPayload struct {
	PlayerID           uint32
	DirectionX, DirectionY float32
}

func (p ClientEjectMassPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteF32(p.DirectionX)
	w.WriteF32(p.DirectionY)
	return w.Bytes()
}

func DecodeClientEjectMass(data []byte) (ClientEjectMassPayload, error) {
	r := NewReader(data)
	p := ClientEjectMassPayload{
		PlayerID:   r.ReadU32(),
		DirectionX: r.ReadF32(),
		DirectionY: r.ReadF32(),
	}
	return p, r.Err()
}

// ClientSetSkinPayload — 5 bytes.
type ClientSetSkinPayload struct {
	PlayerID uint32
	SkinID   uint8
}

func (p ClientSetSkinPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU8(p.SkinID)
	return w.Bytes()
}

func DecodeClientSetSkin(data []byte) (ClientSetSkinPayload, error) {
	r := NewReader(data)
	p := ClientSetSkinPayload{PlayerID: r.ReadU32(), SkinID: r.ReadU8()}
	return p, r.Err()
}

// ClientLobbyPayload — 4 bytes, shared shape for JOIN_LOBBY/LEAVE_LOBBY.
type ClientLobbyPayload struct {
	PlayerID uint32
}

func (p ClientLobbyPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	return w.Bytes()
}

func DecodeClientLobby(data []byte) (ClientLobbyPayload, error) {
	r := NewReader(data)
	p := ClientLobbyPayload{PlayerID: r.ReadU32()}
	return p, r.Err()
}

// ServerAcceptPayload — 18 bytes, spec-asserted shape.
type ServerAcceptPayload struct {
	AssignedPlayerID uint32
	MapWidth         float32
	MapHeight        float32
	StartingValue    float32 // starting mass (Bagario) or starting HP (R-Type)
	ServerTickRate   uint8
	MaxPlayers       uint8
}

func (p ServerAcceptPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.AssignedPlayerID)
	w.WriteF32(p.MapWidth)
	w.WriteF32(p.MapHeight)
	w.WriteF32(p.StartingValue)
	w.WriteU8(p.ServerTickRate)
	w.WriteU8(p.MaxPlayers)
	return w.Bytes()
}

func DecodeServerAccept(data []byte) (ServerAcceptPayload, error) {
	r := NewReader(data)
	p := ServerAcceptPayload{
		AssignedPlayerID: r.ReadU32(),
		MapWidth:         r.ReadF32(),
		MapHeight:        r.ReadF32(),
		StartingValue:    r.ReadF32(),
		ServerTickRate:   r.ReadU8(),
		MaxPlayers:       r.ReadU8(),
	}
	return p, r.Err()
}

// ServerRejectPayload — 65 bytes, spec-asserted shape.
type ServerRejectPayload struct {
	Reason  RejectReason
	Message string // fixed 64-byte field
}

func (p ServerRejectPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU8(uint8(p.Reason))
	w.WriteFixedString(p.Message, 64)
	return w.Bytes()
}

func DecodeServerReject(data []byte) (ServerRejectPayload, error) {
	r := NewReader(data)
	p := ServerRejectPayload{
		Reason:  RejectReason(r.ReadU8()),
		Message: r.ReadFixedString(64),
	}
	return p, r.Err()
}

// ServerPongPayload — 8 bytes.
type ServerPongPayload struct {
	ClientTimestamp uint32
	ServerTimestamp uint32
}

func (p ServerPongPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.ClientTimestamp)
	w.WriteU32(p.ServerTimestamp)
	return w.Bytes()
}

func DecodeServerPong(data []byte) (ServerPongPayload, error) {
	r := NewReader(data)
	p := ServerPongPayload{ClientTimestamp: r.ReadU32(), ServerTimestamp: r.ReadU32()}
	return p, r.Err()
}

// EntityState is one record in a SERVER_SNAPSHOT payload — 25 bytes
// (spec §6/§4.10). The 8 named fields sum to 20 bytes; a zero-filled
// 5-byte padding tail brings the record to the spec-fixed 25, available for future flags
// without breaking the static size contract.
type EntityState struct {
	EntityID     uint32
	EntityType   byte
	PositionX    float32
	PositionY    float32
	VelocityXI16 int16 // velocity scaled by a fixed factor, see snapshot package
	VelocityYI16 int16
	HealthU16    uint16
	FlagsU8      byte
}

const EntityStateSize = 25

func (e EntityState) Encode() []byte {
	w := NewWriter()
	w.WriteU32(e.EntityID)
	w.WriteU8(e.EntityType)
	w.WriteF32(e.PositionX)
	w.WriteF32(e.PositionY)
	w.WriteI16(e.VelocityXI16)
	w.WriteI16(e.VelocityYI16)
	w.WriteU16(e.HealthU16)
	w.WriteU8(e.FlagsU8)
	w.WriteBytes(make([]byte, EntityStateSize-w.Len()))
	return w.Bytes()
}

func DecodeEntityState(data []byte) (EntityState, error) {
	r := NewReader(data)
	e := EntityState{
		EntityID:     r.ReadU32(),
		EntityType:   r.ReadU8(),
		PositionX:    r.ReadF32(),
		PositionY:    r.ReadF32(),
		VelocityXI16: r.ReadI16(),
		VelocityYI16: r.ReadI16(),
		HealthU16:    r.ReadU16(),
		FlagsU8:      r.ReadU8(),
	}
	r.ReadBytes(EntityStateSize - 20)
	return e, r.Err()
}

// ServerSnapshotHeader — 6 bytes, spec-asserted; followed by
// EntityCount EntityState records (built by internal/snapshot).
type ServerSnapshotHeader struct {
	ServerTick  uint32
	EntityCount uint16
}

func (h ServerSnapshotHeader) Encode() []byte {
	w := NewWriter()
	w.WriteU32(h.ServerTick)
	w.WriteU16(h.EntityCount)
	return w.Bytes()
}

func DecodeServerSnapshotHeader(data []byte) (ServerSnapshotHeader, error) {
	r := NewReader(data)
	h := ServerSnapshotHeader{ServerTick: r.ReadU32(), EntityCount: r.ReadU16()}
	return h, r.Err()
}

// ServerEntitySpawnPayload — 29 bytes, spec-asserted shape (grounded on
// original_source bagario ServerEntitySpawnPayload, reused for R-Type by
// repurposing Extra/Color for max health/skin instead of mass/tint).
type ServerEntitySpawnPayload struct {
	EntityID   uint32
	EntityType byte
	SpawnX     float32
	SpawnY     float32
	Extra      float32 // mass (Bagario cell) or max health (R-Type entity)
	Color      uint32
	OwnerID    uint32
	OwnerTag   string // fixed 4-byte field: short owner-name prefix
}

func (p ServerEntitySpawnPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.EntityID)
	w.WriteU8(p.EntityType)
	w.WriteF32(p.SpawnX)
	w.WriteF32(p.SpawnY)
	w.WriteF32(p.Extra)
	w.WriteU32(p.Color)
	w.WriteU32(p.OwnerID)
	w.WriteFixedString(p.OwnerTag, 4)
	return w.Bytes()
}

func DecodeServerEntitySpawn(data []byte) (ServerEntitySpawnPayload, error) {
	r := NewReader(data)
	p := ServerEntitySpawnPayload{
		EntityID:   r.ReadU32(),
		EntityType: r.ReadU8(),
		SpawnX:     r.ReadF32(),
		SpawnY:     r.ReadF32(),
		Extra:      r.ReadF32(),
		Color:      r.ReadU32(),
		OwnerID:    r.ReadU32(),
		OwnerTag:   r.ReadFixedString(4),
	}
	return p, r.Err()
}

// ServerEntityDestroyPayload — 17 bytes, spec-asserted shape.
type ServerEntityDestroyPayload struct {
	EntityID  uint32
	Reason    DestroyReason
	PositionX float32
	PositionY float32
	KillerID  uint32
}

func (p ServerEntityDestroyPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.EntityID)
	w.WriteU8(uint8(p.Reason))
	w.WriteF32(p.PositionX)
	w.WriteF32(p.PositionY)
	w.WriteU32(p.KillerID)
	return w.Bytes()
}

func DecodeServerEntityDestroy(data []byte) (ServerEntityDestroyPayload, error) {
	r := NewReader(data)
	p := ServerEntityDestroyPayload{
		EntityID:  r.ReadU32(),
		Reason:    DestroyReason(r.ReadU8()),
		PositionX: r.ReadF32(),
		PositionY: r.ReadF32(),
		KillerID:  r.ReadU32(),
	}
	return p, r.Err()
}

// ServerCellMergePayload — 8 bytes.
type ServerCellMergePayload struct {
	SurvivorID uint32
	AbsorbedID uint32
}

func (p ServerCellMergePayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.SurvivorID)
	w.WriteU32(p.AbsorbedID)
	return w.Bytes()
}

func DecodeServerCellMerge(data []byte) (ServerCellMergePayload, error) {
	r := NewReader(data)
	p := ServerCellMergePayload{SurvivorID: r.ReadU32(), AbsorbedID: r.ReadU32()}
	return p, r.Err()
}

// ServerProjectileSpawnPayload — 21 bytes.
type ServerProjectileSpawnPayload struct {
	EntityID  uint32
	OwnerID   uint32
	PositionX float32
	PositionY float32
	AngleDeg  float32
	Faction   byte
}

func (p ServerProjectileSpawnPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.EntityID)
	w.WriteU32(p.OwnerID)
	w.WriteF32(p.PositionX)
	w.WriteF32(p.PositionY)
	w.WriteF32(p.AngleDeg)
	w.WriteU8(p.Faction)
	return w.Bytes()
}

func DecodeServerProjectileSpawn(data []byte) (ServerProjectileSpawnPayload, error) {
	r := NewReader(data)
	p := ServerProjectileSpawnPayload{
		EntityID:  r.ReadU32(),
		OwnerID:   r.ReadU32(),
		PositionX: r.ReadF32(),
		PositionY: r.ReadF32(),
		AngleDeg:  r.ReadF32(),
		Faction:   r.ReadU8(),
	}
	return p, r.Err()
}

// ServerExplosionPayload — 12 bytes.
type ServerExplosionPayload struct {
	PositionX, PositionY float32
	Scale                float32
}

func (p ServerExplosionPayload) Encode() []byte {
	w := NewWriter()
	w.WriteF32(p.PositionX)
	w.WriteF32(p.PositionY)
	w.WriteF32(p.Scale)
	return w.Bytes()
}

func DecodeServerExplosion(data []byte) (ServerExplosionPayload, error) {
	r := NewReader(data)
	p := ServerExplosionPayload{PositionX: r.ReadF32(), PositionY: r.ReadF32(), Scale: r.ReadF32()}
	return p, r.Err()
}

// ServerScoreUpdatePayload — 8 bytes.
type ServerScoreUpdatePayload struct {
	PlayerID uint32
	Score    uint32
}

func (p ServerScoreUpdatePayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU32(p.Score)
	return w.Bytes()
}

func DecodeServerScoreUpdate(data []byte) (ServerScoreUpdatePayload, error) {
	r := NewReader(data)
	p := ServerScoreUpdatePayload{PlayerID: r.ReadU32(), Score: r.ReadU32()}
	return p, r.Err()
}

// ServerPowerupCollectedPayload — 9 bytes.
type ServerPowerupCollectedPayload struct {
	PlayerID uint32
	BonusKind byte
	EntityID uint32
}

func (p ServerPowerupCollectedPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU8(p.BonusKind)
	w.WriteU32(p.EntityID)
	return w.Bytes()
}

func DecodeServerPowerupCollected(data []byte) (ServerPowerupCollectedPayload, error) {
	r := NewReader(data)
	p := ServerPowerupCollectedPayload{PlayerID: r.ReadU32(), BonusKind: r.ReadU8(), EntityID: r.ReadU32()}
	return p, r.Err()
}

// ServerPlayerRespawnPayload — 12 bytes.
type ServerPlayerRespawnPayload struct {
	PlayerID  uint32
	PositionX float32
	PositionY float32
}

func (p ServerPlayerRespawnPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteF32(p.PositionX)
	w.WriteF32(p.PositionY)
	return w.Bytes()
}

func DecodeServerPlayerRespawn(data []byte) (ServerPlayerRespawnPayload, error) {
	r := NewReader(data)
	p := ServerPlayerRespawnPayload{PlayerID: r.ReadU32(), PositionX: r.ReadF32(), PositionY: r.ReadF32()}
	return p, r.Err()
}

// ServerPlayerLevelUpPayload — 6 bytes.
type ServerPlayerLevelUpPayload struct {
	PlayerID uint32
	NewLevel uint8
	SkinID   uint8
}

func (p ServerPlayerLevelUpPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU8(p.NewLevel)
	w.WriteU8(p.SkinID)
	return w.Bytes()
}

func DecodeServerPlayerLevelUp(data []byte) (ServerPlayerLevelUpPayload, error) {
	r := NewReader(data)
	p := ServerPlayerLevelUpPayload{PlayerID: r.ReadU32(), NewLevel: r.ReadU8(), SkinID: r.ReadU8()}
	return p, r.Err()
}

// ServerWaveEventPayload — 5 bytes, shared shape for WAVE_START/WAVE_COMPLETE.
type ServerWaveEventPayload struct {
	WaveIndex uint32
	EnemyCount uint8
}

func (p ServerWaveEventPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.WaveIndex)
	w.WriteU8(p.EnemyCount)
	return w.Bytes()
}

func DecodeServerWaveEvent(data []byte) (ServerWaveEventPayload, error) {
	r := NewReader(data)
	p := ServerWaveEventPayload{WaveIndex: r.ReadU32(), EnemyCount: r.ReadU8()}
	return p, r.Err()
}

// ServerPlayerEatenPayload — 12 bytes, spec-asserted shape.
type ServerPlayerEatenPayload struct {
	PlayerID  uint32
	KillerID  uint32
	FinalMass float32
}

func (p ServerPlayerEatenPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU32(p.KillerID)
	w.WriteF32(p.FinalMass)
	return w.Bytes()
}

func DecodeServerPlayerEaten(data []byte) (ServerPlayerEatenPayload, error) {
	r := NewReader(data)
	p := ServerPlayerEatenPayload{PlayerID: r.ReadU32(), KillerID: r.ReadU32(), FinalMass: r.ReadF32()}
	return p, r.Err()
}

// LeaderboardEntry — 40 bytes, spec-asserted shape.
type LeaderboardEntry struct {
	PlayerID uint32
	Name     string // fixed 32-byte field
	Value    float32
}

const LeaderboardEntrySize = 40

func (e LeaderboardEntry) Encode() []byte {
	w := NewWriter()
	w.WriteU32(e.PlayerID)
	w.WriteFixedString(e.Name, 32)
	w.WriteF32(e.Value)
	return w.Bytes()
}

func DecodeLeaderboardEntry(data []byte) (LeaderboardEntry, error) {
	r := NewReader(data)
	e := LeaderboardEntry{
		PlayerID: r.ReadU32(),
		Name:     r.ReadFixedString(32),
		Value:    r.ReadF32(),
	}
	return e, r.Err()
}

// ServerLeaderboardHeader — 1 byte, spec-asserted; followed by
// EntryCount LeaderboardEntry records.
type ServerLeaderboardHeader struct {
	EntryCount uint8
}

func (h ServerLeaderboardHeader) Encode() []byte {
	w := NewWriter()
	w.WriteU8(h.EntryCount)
	return w.Bytes()
}

func DecodeServerLeaderboardHeader(data []byte) (ServerLeaderboardHeader, error) {
	r := NewReader(data)
	return ServerLeaderboardHeader{EntryCount: r.ReadU8()}, r.Err()
}

// ServerPlayerSkinPayload — 5 bytes.
type ServerPlayerSkinPayload struct {
	PlayerID uint32
	SkinID   uint8
}

func (p ServerPlayerSkinPayload) Encode() []byte {
	w := NewWriter()
	w.WriteU32(p.PlayerID)
	w.WriteU8(p.SkinID)
	return w.Bytes()
}

func DecodeServerPlayerSkin(data []byte) (ServerPlayerSkinPayload, error) {
	r := NewReader(data)
	return ServerPlayerSkinPayload{PlayerID: r.ReadU32(), SkinID: r.ReadU8()}, r.Err()
}
