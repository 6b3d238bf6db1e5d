package netcomponents

import (
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/yohamta/donburi"
)

type NetProjectileData struct {
	ID       uint32
	OwnerID  uint // NetworkId of owning player
	Slot     netconfig.WeaponSlot
	Position gamemath.Vec3
	Velocity gamemath.Vec3 // Client extrapolation between snapshots
	State    netconfig.ProjectileState
}

var NetProjectile = donburi.NewComponentType[NetProjectileData]()

// LerpNetProjectile interpolates between two projectile states
func LerpNetProjectile(from, to NetProjectileData, t float64) *NetProjectileData {
	return &NetProjectileData{
		ID:       to.ID,
		OwnerID:  to.OwnerID,
		Slot:     to.Slot,
		Position: gamemath.Lerp(from.Position, to.Position, t),
		Velocity: to.Velocity,
		State:    to.State,
	}
}
