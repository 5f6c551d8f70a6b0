package protocol

// ProtocolVersion is the client_version CLIENT_CONNECT must carry to be
// accepted; a mismatch triggers SERVER_REJECT{RejectVersionMismatch}.
const ProtocolVersion uint8 = 1

// Packet type codes. Exact values matter for on-the-wire compatibility
// (spec §6).
const (
	ClientConnect    byte = 0x01
	ClientDisconnect byte = 0x02
	ClientPing       byte = 0x04
	ClientInput      byte = 0x10
	ClientSplit      byte = 0x11
	ClientEjectMass  byte = 0x12
	ClientSetSkin    byte = 0x13
	ClientJoinLobby  byte = 0x14
	ClientLeaveLobby byte = 0x15

	ServerAccept           byte = 0x81
	ServerReject           byte = 0x82
	ServerPong             byte = 0x85
	ServerSnapshot         byte = 0xA0
	ServerEntitySpawn      byte = 0xB0
	ServerEntityDestroy    byte = 0xB1
	ServerCellMerge        byte = 0xB2
	ServerProjectileSpawn  byte = 0xB3
	ServerExplosion        byte = 0xB4
	ServerScoreUpdate      byte = 0xB5
	ServerPowerupCollected byte = 0xB6
	ServerPlayerRespawn    byte = 0xB7
	ServerPlayerLevelUp    byte = 0xB8
	ServerWaveStart        byte = 0xB9
	ServerWaveComplete     byte = 0xBA
	ServerPlayerEaten      byte = 0xC0
	ServerLeaderboard      byte = 0xC1
	ServerPlayerSkin       byte = 0xC2
)

// Entity type codes used in EntityState/EntitySpawn records.
const (
	EntityPlayer           byte = 0x01
	EntityEnemyBasic       byte = 0x02
	EntityEnemyFast        byte = 0x03
	EntityEnemyTank        byte = 0x04
	EntityEnemyBoss        byte = 0x05
	EntityProjectilePlayer byte = 0x06
	EntityProjectileEnemy  byte = 0x07
	EntityWall             byte = 0x08
	EntityBonusHealth      byte = 0x09
	EntityBonusShield      byte = 0x0A
	EntityBonusSpeed       byte = 0x0B
	EntityFood             byte = 0x0C
	EntityVirus            byte = 0x0D
	EntityEjectedMass      byte = 0x0E
	EntityPlayerCell       byte = 0x0F
)

// RejectReason is the reason code carried by a SERVER_REJECT payload.
type RejectReason byte

const (
	RejectServerFull RejectReason = iota
	RejectVersionMismatch
	RejectInvalidName
	RejectNameTaken
)

// DestroyReason is carried by SERVER_ENTITY_DESTROY.
type DestroyReason byte

const (
	DestroyEaten DestroyReason = iota
	DestroyKilled
	DestroyExpired
	DestroyOutOfBounds
	DestroyDisconnected
)
