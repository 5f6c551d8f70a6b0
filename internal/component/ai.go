package component

// AI holds the per-enemy fire-control timers EnemyAISystem drives:
// periodic fire toward the nearest player, gated by a per-enemy
// cooldown and detection range (spec §4.5).
type AI struct {
	Cooldown          float32
	TimeSinceLastShot float32
	DetectionRange    float32
}
