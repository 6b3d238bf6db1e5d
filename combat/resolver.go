package combat

//go:generate go tool mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks

import (
	"image/color"
	"log"
	"time"

	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/automoto/splatvr/tags"
	"github.com/yohamta/donburi"
)

// Outcome is the result of resolving one collision event.
type Outcome int

const (
	OutcomeMissed  Outcome = iota // projectile already gone
	OutcomeBlocked                // a shield absorbed it
	OutcomeIgnored                // projectile had already hit something
	OutcomeApplied                // first qualifying hit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMissed:
		return "missed"
	case OutcomeBlocked:
		return "blocked"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeApplied:
		return "applied"
	default:
		return "unknown"
	}
}

// Collision is one contact reported by the physics collaborator.
type Collision struct {
	Tag    string         // collider tag of the specific object struck
	Target donburi.Entity // the struck sub-object
	Point  gamemath.Vec3
	Normal gamemath.Vec3
}

// ImpactRequest asks the effects collaborator for a splat.
type ImpactRequest struct {
	ProjectileID uint32
	Owner        donburi.Entity
	Target       donburi.Entity // health-bearing root that was damaged, or donburi.Null
	Position     gamemath.Vec3
	Normal       gamemath.Vec3
	Color        color.RGBA
	Scale        float64
}

// AudioCue asks the effects collaborator to play a clip.
type AudioCue struct {
	ClipID   string
	Position gamemath.Vec3
}

// Effects receives visual and audio requests. It never influences gameplay.
type Effects interface {
	Impact(req ImpactRequest)
	Audio(cue AudioCue)
}

// Destroyer removes projectiles. DestroyNow is synchronous; DestroyAfter
// schedules removal. Both must tolerate entities that are already gone.
type Destroyer interface {
	DestroyNow(entity donburi.Entity)
	DestroyAfter(entity donburi.Entity, at time.Time)
}

// maxParentDepth bounds the climb from a sub-object to its root.
const maxParentDepth = 8

// HitResolver decides what a projectile collision does.
type HitResolver struct {
	world     donburi.World
	health    *HealthStore
	effects   Effects
	destroyer Destroyer
	logHits   bool
}

func NewHitResolver(world donburi.World, health *HealthStore, effects Effects, destroyer Destroyer) *HitResolver {
	return &HitResolver{
		world:     world,
		health:    health,
		effects:   effects,
		destroyer: destroyer,
	}
}

// SetLogging toggles a log line per applied hit.
func (r *HitResolver) SetLogging(on bool) {
	r.logHits = on
}

// Resolve applies hit to the projectile entry.
func (r *HitResolver) Resolve(entry *donburi.Entry, hit Collision, now time.Time) Outcome {
	if entry == nil || !entry.Valid() || !entry.HasComponent(components.Projectile) {
		return OutcomeMissed
	}
	p := components.Projectile.Get(entry)
	if !p.State.Live() {
		return OutcomeMissed
	}

	if hit.Tag == tags.ResolvShield {
		return OutcomeBlocked
	}
	if p.HasHit {
		return OutcomeIgnored
	}

	// (a) damage the struck entity's root
	root := Root(r.world, hit.Target)
	damaged := donburi.Null
	if root != donburi.Null && r.health.TakeDamage(root, p.OwnerEntity, p.Damage) {
		damaged = root
	}

	// (b) consume the projectile
	MarkHit(p)

	// (c) splat
	if r.effects != nil {
		r.effects.Impact(ImpactRequest{
			ProjectileID: p.ID,
			Owner:        p.OwnerEntity,
			Target:       damaged,
			Position:     hit.Point,
			Normal:       hit.Normal,
			Color:        p.Color,
			Scale:        p.SplatScale,
		})
		r.effects.Audio(AudioCue{ClipID: netconfig.ClipSplat, Position: hit.Point})
	}

	if r.logHits {
		log.Printf("[resolver] projectile %d hit %q (target=%v damaged=%v)", p.ID, hit.Tag, hit.Target, damaged != donburi.Null)
	}

	// (d) removal
	self := entry.Entity()
	if hit.Tag == tags.ResolvBullet {
		r.destroyer.DestroyNow(hit.Target)
		r.destroyer.DestroyNow(self)
		return OutcomeApplied
	}
	r.destroyer.DestroyAfter(self, NoteDestroyAt(p, now.Add(p.DestroyTime)))
	return OutcomeApplied
}

// Root climbs Parent links from e to the entity that owns it. An entity
// without a parent is its own root. Invalid entities resolve to donburi.Null.
func Root(world donburi.World, e donburi.Entity) donburi.Entity {
	if e == donburi.Null || !world.Valid(e) {
		return donburi.Null
	}
	for depth := 0; depth < maxParentDepth; depth++ {
		entry := world.Entry(e)
		if !entry.HasComponent(components.Parent) {
			return e
		}
		parent := components.Parent.Get(entry).Entity
		if parent == donburi.Null || !world.Valid(parent) {
			return e
		}
		e = parent
	}
	return e
}
