package messages

import (
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
)

// SpawnProjectile is broadcast to every peer, the shooter included, when the
// authority accepts a FireCommand.
type SpawnProjectile struct {
	ID         uint32
	OwnerID    uint // NetworkId of the shooter
	Slot       netconfig.WeaponSlot
	Position   gamemath.Vec3
	Rotation   gamemath.Quat
	Velocity   gamemath.Vec3
	Damage     int
	TimeToLive float64 // seconds
}

// DestroyProjectile is broadcast when the authority removes a projectile,
// whether by timeout, impact or despawn.
type DestroyProjectile struct {
	ID uint32
}
