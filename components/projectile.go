package components

import (
	"image/color"
	"time"

	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/yohamta/donburi"
)

type ProjectileData struct {
	ID          uint32
	OwnerEntity donburi.Entity // Weak reference, may be gone by impact time
	OwnerNetID  uint
	Slot        netconfig.WeaponSlot

	// Payload and tuning captured at spawn
	Damage      int
	Speed       float64
	TimeToLive  time.Duration
	DestroyTime time.Duration
	Gravity     float64
	SplatScale  float64
	Color       color.RGBA

	State     netconfig.ProjectileState
	HasHit    bool
	SpawnTime time.Time
	DestroyAt time.Time // Earliest scheduled removal, zero if none yet

	Position gamemath.Vec3
	Rotation gamemath.Quat
	Velocity gamemath.Vec3
}

var Projectile = donburi.NewComponentType[ProjectileData]()
