package combat

import (
	"time"

	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
)

// Shot describes a fire request that has passed the rate check.
type Shot struct {
	ID     uint32
	Slot   netconfig.WeaponSlot
	Weapon config.WeaponConfig
	Muzzle gamemath.Pose
	Time   time.Time
}

// NewProjectile builds projectile state for a shot in the given initial
// state (Predicted on clients, Authoritative on the server).
func NewProjectile(shot Shot, state netconfig.ProjectileState) components.ProjectileData {
	w := shot.Weapon
	return components.ProjectileData{
		ID:          shot.ID,
		Slot:        shot.Slot,
		Damage:      w.Damage,
		Speed:       w.Speed,
		TimeToLive:  w.Lifetime(),
		DestroyTime: w.Grace(),
		Gravity:     w.Gravity,
		SplatScale:  w.SplatScale,
		State:       state,
		SpawnTime:   shot.Time,
		Position:    shot.Muzzle.Position,
		Rotation:    shot.Muzzle.Rotation,
		Velocity:    gamemath.LaunchVelocity(shot.Muzzle, w.Speed),
	}
}

// MarkHit moves a live, unresolved projectile to Resolved. It returns false
// when the projectile has already hit something or is gone, which makes
// repeated collision callbacks harmless.
func MarkHit(p *components.ProjectileData) bool {
	if p.HasHit || !p.State.Live() {
		return false
	}
	p.HasHit = true
	p.State = netconfig.ProjectileResolved
	p.Velocity = gamemath.Vec3{}
	return true
}

// MarkDestroyed moves p to the terminal state. Only the first call returns true.
func MarkDestroyed(p *components.ProjectileData) bool {
	if !p.State.Live() {
		return false
	}
	p.State = netconfig.ProjectileDestroyed
	return true
}

// Deadline is the moment the timeout removes p regardless of hits.
func Deadline(p *components.ProjectileData) time.Time {
	return p.SpawnTime.Add(p.TimeToLive)
}

// Expired reports whether p's time to live has elapsed at now.
func Expired(p *components.ProjectileData, now time.Time) bool {
	return !now.Before(Deadline(p))
}

// NoteDestroyAt records at as the scheduled removal time if it is earlier than
// any already recorded. It returns the effective removal time.
func NoteDestroyAt(p *components.ProjectileData, at time.Time) time.Time {
	if p.DestroyAt.IsZero() || at.Before(p.DestroyAt) {
		p.DestroyAt = at
	}
	return p.DestroyAt
}

// Advance integrates p's flight by dt. Resolved and destroyed projectiles
// stay where they are.
func Advance(p *components.ProjectileData, dt time.Duration) {
	if p.HasHit || !p.State.Live() {
		return
	}
	p.Position, p.Velocity = gamemath.Step(p.Position, p.Velocity, p.Gravity, dt.Seconds())
}
