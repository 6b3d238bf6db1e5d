package messages

import (
	"image/color"

	"github.com/automoto/splatvr/shared/gamemath"
)

// ImpactEvent asks clients to print a paint splat where a projectile or knife
// connected.
type ImpactEvent struct {
	ProjectileID uint32 // 0 for melee
	OwnerID      uint   // NetworkId of the attacker
	TargetID     uint   // NetworkId of the damaged player, 0 if none
	Position     gamemath.Vec3
	Normal       gamemath.Vec3
	Color        color.RGBA
	Scale        float64
}

// AudioCue asks clients to play a clip at a world position.
type AudioCue struct {
	ClipID   string
	Position gamemath.Vec3
}

// DefeatedEvent is broadcast once when a player's health reaches zero.
type DefeatedEvent struct {
	VictimID uint // NetworkId of victim
	KillerID uint // NetworkId of killer (0 if environmental)
}

// RespawnEvent is broadcast when a defeated player is restored.
type RespawnEvent struct {
	PlayerID uint
	Position gamemath.Vec3
}
