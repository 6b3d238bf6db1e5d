package core

import (
	"time"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/components"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/yohamta/donburi"
)

// Knives runs instant-hit melee. Every tick a player holding a knife casts a
// short ray along the blade; whatever it touches is stabbed, at most once per
// cooldown per target.
type Knives struct {
	world   donburi.World
	physics *Physics
	health  *combat.HealthStore
	effects combat.Effects
}

func NewKnives(world donburi.World, physics *Physics, health *combat.HealthStore, effects combat.Effects) *Knives {
	return &Knives{
		world:   world,
		physics: physics,
		health:  health,
		effects: effects,
	}
}

// Update stabs with every drawn knife.
func (k *Knives) Update(now time.Time) {
	var wielders []*donburi.Entry
	components.Player.Each(k.world, func(entry *donburi.Entry) {
		if components.Player.Get(entry).KnifeDrawn && entry.HasComponent(components.Knife) {
			wielders = append(wielders, entry)
		}
	})
	for _, entry := range wielders {
		if k.health.Alive(entry.Entity()) {
			k.Stab(entry, now)
		}
	}
}

// Stab casts one knife ray for the wielder. It returns what the ray touched
// and whether the stab landed, which it does not while that target is still
// on cooldown. The ray starts behind the hand so a blade already inside a
// body still connects.
func (k *Knives) Stab(wielder *donburi.Entry, now time.Time) (RayHit, bool) {
	player := components.Player.Get(wielder)
	knife := components.Knife.Get(wielder)

	hand := player.DominantHand
	blade := hand.Rotation.Normalized().Up()
	from := hand.Position.Sub(blade.Scale(cfg.Knife.BackOffset))

	hit, ok := k.physics.Raycast(from, blade, cfg.Knife.Reach, wielder.Entity())
	if !ok {
		return RayHit{}, false
	}

	// Walls and the floor share the donburi.Null slot.
	root := combat.Root(k.world, hit.Entity)
	if last, seen := knife.LastHits[root]; seen && now.Sub(last) < cfg.Knife.HitCooldown {
		return hit, false
	}
	if knife.LastHits == nil {
		knife.LastHits = make(map[donburi.Entity]time.Time)
	}
	pruneHits(knife.LastHits, now)
	knife.LastHits[root] = now

	damaged := donburi.Null
	if root != donburi.Null && k.health.TakeDamage(root, wielder.Entity(), knife.Damage) {
		damaged = root
		k.effects.Audio(combat.AudioCue{ClipID: netconfig.ClipStab, Position: hit.Point})
	}
	k.effects.Impact(combat.ImpactRequest{
		Owner:    wielder.Entity(),
		Target:   damaged,
		Position: hit.Point,
		Normal:   hit.Normal,
		Color:    cfg.EnemyColor,
		Scale:    cfg.Knife.SplatScale,
	})
	return hit, true
}

// pruneHits drops targets whose cooldown has run out, including players who
// left since.
func pruneHits(hits map[donburi.Entity]time.Time, now time.Time) {
	for target, at := range hits {
		if now.Sub(at) >= cfg.Knife.HitCooldown {
			delete(hits, target)
		}
	}
}
