package core

import (
	"log"
	"sort"
	"time"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/components"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netcomponents"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/automoto/splatvr/tags"
	"github.com/yohamta/donburi"
)

// bounceClearance moves a blocked projectile off the shield face so the next
// sweep starts outside it.
const bounceClearance = 1e-3

// Replicator publishes authoritative state to connected peers.
type Replicator interface {
	// Track registers an entity's net components for snapshot sync.
	Track(entity donburi.Entity) error
	// Broadcast sends msg to every connected peer.
	Broadcast(msg any)
}

// FireResult tells the caller whether a fire command produced a projectile.
type FireResult struct {
	Accepted     bool
	ProjectileID uint32
}

// Coordinator is the authority for projectile spawn and removal. All methods
// must be called from the game loop goroutine.
type Coordinator struct {
	world      donburi.World
	physics    *Physics
	health     *combat.HealthStore
	resolver   *combat.HitResolver
	limiter    *combat.FireLimiter[donburi.Entity]
	timers     *combat.Scheduler
	replicator Replicator

	nextID uint32
	live   map[uint32]donburi.Entity
}

func NewCoordinator(world donburi.World, physics *Physics, health *combat.HealthStore, effects combat.Effects, replicator Replicator) *Coordinator {
	c := &Coordinator{
		world:      world,
		physics:    physics,
		health:     health,
		timers:     combat.NewScheduler(),
		replicator: replicator,
		live:       make(map[uint32]donburi.Entity),
	}
	c.limiter = combat.NewFireLimiter[donburi.Entity](func(slot netconfig.WeaponSlot) time.Duration {
		w, _ := cfg.Weapon(slot)
		return w.Cooldown()
	})
	c.resolver = combat.NewHitResolver(world, health, effects, c)
	c.resolver.SetLogging(cfg.Debug.LogHits)
	return c
}

// Fire validates a fire command and, when accepted, spawns and broadcasts
// the projectile. Rejections are silent.
func (c *Coordinator) Fire(sender donburi.Entity, slot netconfig.WeaponSlot, now time.Time) FireResult {
	weapon, ok := cfg.Weapon(slot)
	if !ok {
		c.logFire("rejected fire from %v: unknown slot %d", sender, slot)
		return FireResult{}
	}
	if sender == donburi.Null || !c.world.Valid(sender) {
		return FireResult{}
	}
	entry := c.world.Entry(sender)
	if !entry.HasComponent(components.Player) || !c.health.Alive(sender) {
		return FireResult{}
	}
	if !c.limiter.Allow(sender, slot, now) {
		c.logFire("rejected fire from %v: %s cooling down", sender, slot)
		return FireResult{}
	}

	player := components.Player.Get(entry)
	c.nextID++
	shot := combat.Shot{
		ID:     c.nextID,
		Slot:   slot,
		Weapon: weapon,
		Muzzle: gamemath.MuzzlePose(player.DominantHand, weapon.MuzzleOffset),
		Time:   now,
	}

	pe := c.world.Entry(c.world.Create(tags.Projectile, components.Projectile, netcomponents.NetProjectile))
	data := combat.NewProjectile(shot, netconfig.ProjectileAuthoritative)
	data.OwnerEntity = sender
	data.OwnerNetID = player.NetID
	data.Color = cfg.EnemyColor
	components.Projectile.SetValue(pe, data)

	p := components.Projectile.Get(pe)
	c.physics.AddBody(pe, tags.ResolvBullet, weapon.Radius*2, weapon.Radius*2)
	c.physics.PlacePoint(pe, p.Position)
	c.syncProjectile(pe, p)

	c.timers.Schedule(pe.Entity(), combat.TimerTimeout, combat.Deadline(p))
	c.live[p.ID] = pe.Entity()

	if err := c.replicator.Track(pe.Entity()); err != nil {
		log.Printf("[coordinator] failed to sync projectile %d: %v", p.ID, err)
	}
	c.replicator.Broadcast(messages.SpawnProjectile{
		ID:         p.ID,
		OwnerID:    p.OwnerNetID,
		Slot:       slot,
		Position:   p.Position,
		Rotation:   p.Rotation,
		Velocity:   p.Velocity,
		Damage:     p.Damage,
		TimeToLive: weapon.TimeToLive,
	})

	c.logFire("accepted %s fire from %v: projectile %d", slot, sender, p.ID)
	return FireResult{Accepted: true, ProjectileID: p.ID}
}

// Destroy removes a projectile and broadcasts its removal. It reports false
// when the entity is not a live projectile, so racing timers are harmless.
func (c *Coordinator) Destroy(entity donburi.Entity) bool {
	if entity == donburi.Null || !c.world.Valid(entity) {
		return false
	}
	entry := c.world.Entry(entity)
	if !entry.HasComponent(components.Projectile) {
		return false
	}
	p := components.Projectile.Get(entry)
	if !combat.MarkDestroyed(p) {
		return false
	}

	id := p.ID
	c.physics.RemoveBody(entry)
	delete(c.live, id)
	c.world.Remove(entity)

	c.replicator.Broadcast(messages.DestroyProjectile{ID: id})
	return true
}

// DestroyNow implements combat.Destroyer.
func (c *Coordinator) DestroyNow(entity donburi.Entity) {
	c.Destroy(entity)
}

// DestroyAfter implements combat.Destroyer.
func (c *Coordinator) DestroyAfter(entity donburi.Entity, at time.Time) {
	c.timers.Schedule(entity, combat.TimerGrace, at)
}

// Despawn destroys every live projectile fired by owner and forgets its
// cooldowns. It returns how many projectiles were removed.
func (c *Coordinator) Despawn(owner donburi.Entity) int {
	n := 0
	for _, id := range c.liveIDs() {
		e := c.live[id]
		if !c.world.Valid(e) {
			delete(c.live, id)
			continue
		}
		if components.Projectile.Get(c.world.Entry(e)).OwnerEntity != owner {
			continue
		}
		if c.Destroy(e) {
			n++
		}
	}
	c.limiter.Forget(owner)
	return n
}

// DespawnAll destroys every live projectile.
func (c *Coordinator) DespawnAll() int {
	n := 0
	for _, id := range c.liveIDs() {
		if c.Destroy(c.live[id]) {
			n++
		}
	}
	return n
}

// Expire fires every due timeout and grace timer. Whichever timer comes due
// first removes the projectile; the other finds nothing to do.
func (c *Coordinator) Expire(now time.Time) int {
	n := 0
	for _, t := range c.timers.Due(now) {
		switch t.Kind {
		case combat.TimerTimeout, combat.TimerGrace:
			if c.Destroy(t.Entity) {
				n++
			}
		}
	}
	return n
}

// Step moves every unresolved projectile by dt and resolves what it touched.
// Projectiles are processed in spawn order.
func (c *Coordinator) Step(now time.Time, dt time.Duration) {
	for _, id := range c.liveIDs() {
		e, ok := c.live[id]
		if !ok {
			continue // destroyed earlier in this step
		}
		if !c.world.Valid(e) {
			delete(c.live, id)
			continue
		}
		entry := c.world.Entry(e)
		p := components.Projectile.Get(entry)

		if !p.HasHit {
			c.advance(entry, p, now, dt)
		}
		if entry.Valid() {
			c.syncProjectile(entry, p)
		}
	}
}

func (c *Coordinator) advance(entry *donburi.Entry, p *components.ProjectileData, now time.Time, dt time.Duration) {
	from := p.Position
	combat.Advance(p, dt)

	hit, ok := c.physics.Sweep(entry, from, p.Position, p.OwnerEntity)
	if ok {
		switch c.resolver.Resolve(entry, hit, now) {
		case combat.OutcomeBlocked:
			p.Position = hit.Point.Add(hit.Normal.Scale(bounceClearance))
			p.Velocity = gamemath.Reflect(p.Velocity, hit.Normal)
		case combat.OutcomeApplied:
			if !entry.Valid() {
				return
			}
			p.Position = hit.Point
			c.physics.RemoveBody(entry)
			return
		}
	}
	c.physics.PlacePoint(entry, p.Position)
}

func (c *Coordinator) syncProjectile(entry *donburi.Entry, p *components.ProjectileData) {
	netcomponents.NetProjectile.SetValue(entry, netcomponents.NetProjectileData{
		ID:       p.ID,
		OwnerID:  p.OwnerNetID,
		Slot:     p.Slot,
		Position: p.Position,
		Velocity: p.Velocity,
		State:    p.State,
	})
}

// Projectile returns the entity for a live projectile id.
func (c *Coordinator) Projectile(id uint32) (donburi.Entity, bool) {
	e, ok := c.live[id]
	return e, ok
}

// LiveCount returns the number of projectiles not yet destroyed.
func (c *Coordinator) LiveCount() int {
	return len(c.live)
}

// PendingTimers returns the number of scheduled timeout and grace timers.
func (c *Coordinator) PendingTimers() int {
	return c.timers.Len()
}

func (c *Coordinator) liveIDs() []uint32 {
	ids := make([]uint32, 0, len(c.live))
	for id := range c.live {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (c *Coordinator) logFire(format string, args ...any) {
	if cfg.Debug.LogFires {
		log.Printf("[coordinator] "+format, args...)
	}
}
