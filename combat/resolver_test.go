package combat_test

import (
	"testing"
	"time"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/combat/mocks"
	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/automoto/splatvr/tags"
	"github.com/yohamta/donburi"
	"go.uber.org/mock/gomock"
	"pgregory.net/rapid"
)

var t0 = time.Unix(1_700_000_000, 0)

var testWeapon = config.WeaponConfig{
	Damage:      10,
	Rate:        20,
	Speed:       50,
	TimeToLive:  2,
	DestroyTime: 0.25,
	SplatScale:  1,
}

type arena struct {
	world  donburi.World
	health *combat.HealthStore
	player donburi.Entity
	shield donburi.Entity
	arm    donburi.Entity
}

func newArena(t *testing.T) *arena {
	t.Helper()
	world := donburi.NewWorld()
	a := &arena{
		world:  world,
		health: combat.NewHealthStore(world, nil),
	}

	a.player = world.Create(tags.Player, components.Player, components.Health)
	a.health.Attach(world.Entry(a.player), 100)

	a.shield = world.Create(tags.Shield, components.Parent)
	components.Parent.SetValue(world.Entry(a.shield), components.ParentData{Entity: a.player})

	a.arm = world.Create(components.Parent)
	components.Parent.SetValue(world.Entry(a.arm), components.ParentData{Entity: a.player})
	return a
}

func (a *arena) spawn(id uint32) *donburi.Entry {
	e := a.world.Create(tags.Projectile, components.Projectile)
	entry := a.world.Entry(e)
	components.Projectile.SetValue(entry, combat.NewProjectile(combat.Shot{
		ID:     id,
		Slot:   netconfig.SlotPrimary,
		Weapon: testWeapon,
		Muzzle: gamemath.Pose{Rotation: gamemath.Identity},
		Time:   t0,
	}, netconfig.ProjectileAuthoritative))
	return entry
}

func (a *arena) healthOf(e donburi.Entity) int {
	cur, _ := a.health.Current(e)
	return cur
}

func TestResolveShieldBlocks(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newArena(t)
	effects := mocks.NewMockEffects(ctrl)
	destroyer := mocks.NewMockDestroyer(ctrl)
	resolver := combat.NewHitResolver(a.world, a.health, effects, destroyer)

	entry := a.spawn(1)
	outcome := resolver.Resolve(entry, combat.Collision{Tag: tags.ResolvShield, Target: a.shield}, t0)

	if outcome != combat.OutcomeBlocked {
		t.Fatalf("expected blocked, got %s", outcome)
	}
	p := components.Projectile.Get(entry)
	if p.HasHit {
		t.Errorf("expected shield hit to leave hasHit false")
	}
	if p.State != netconfig.ProjectileAuthoritative {
		t.Errorf("expected projectile to stay authoritative, got %s", p.State)
	}
	if got := a.healthOf(a.player); got != 100 {
		t.Errorf("expected no damage through shield, got health %d", got)
	}
}

func TestResolveAppliesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newArena(t)
	effects := mocks.NewMockEffects(ctrl)
	destroyer := mocks.NewMockDestroyer(ctrl)
	resolver := combat.NewHitResolver(a.world, a.health, effects, destroyer)

	entry := a.spawn(7)
	point := gamemath.Vec3{X: 1, Y: 1.2, Z: 3}

	effects.EXPECT().Impact(gomock.Any()).Do(func(req combat.ImpactRequest) {
		if req.ProjectileID != 7 || req.Target != a.player || req.Position != point {
			t.Errorf("unexpected impact request %+v", req)
		}
	}).Times(1)
	effects.EXPECT().Audio(combat.AudioCue{ClipID: netconfig.ClipSplat, Position: point}).Times(1)
	destroyer.EXPECT().DestroyAfter(entry.Entity(), t0.Add(250*time.Millisecond)).Times(1)

	hit := combat.Collision{Tag: tags.ResolvPlayer, Target: a.player, Point: point}
	if outcome := resolver.Resolve(entry, hit, t0); outcome != combat.OutcomeApplied {
		t.Fatalf("expected applied, got %s", outcome)
	}
	if got := a.healthOf(a.player); got != 90 {
		t.Fatalf("expected health 90, got %d", got)
	}

	// The physics engine reports the same impact again on the next tick.
	if outcome := resolver.Resolve(entry, hit, t0.Add(time.Millisecond)); outcome != combat.OutcomeIgnored {
		t.Fatalf("expected ignored, got %s", outcome)
	}
	if got := a.healthOf(a.player); got != 90 {
		t.Errorf("expected no second damage, got health %d", got)
	}
	if p := components.Projectile.Get(entry); p.State != netconfig.ProjectileResolved || !p.HasHit {
		t.Errorf("expected resolved projectile, got state=%s hasHit=%v", p.State, p.HasHit)
	}
}

func TestResolveClimbsToRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newArena(t)
	effects := mocks.NewMockEffects(ctrl)
	destroyer := mocks.NewMockDestroyer(ctrl)
	resolver := combat.NewHitResolver(a.world, a.health, effects, destroyer)

	effects.EXPECT().Impact(gomock.Any()).Times(1)
	effects.EXPECT().Audio(gomock.Any()).Times(1)
	destroyer.EXPECT().DestroyAfter(gomock.Any(), gomock.Any()).Times(1)

	entry := a.spawn(2)
	resolver.Resolve(entry, combat.Collision{Tag: tags.ResolvPlayer, Target: a.arm}, t0)

	if got := a.healthOf(a.player); got != 90 {
		t.Errorf("expected damage on the arm's owner, got health %d", got)
	}
}

func TestResolveProjectilesDestroyEachOther(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newArena(t)
	effects := mocks.NewMockEffects(ctrl)
	destroyer := mocks.NewMockDestroyer(ctrl)
	resolver := combat.NewHitResolver(a.world, a.health, effects, destroyer)

	mine := a.spawn(1)
	theirs := a.spawn(2)

	effects.EXPECT().Impact(gomock.Any()).Times(1)
	effects.EXPECT().Audio(gomock.Any()).Times(1)
	gomock.InOrder(
		destroyer.EXPECT().DestroyNow(theirs.Entity()),
		destroyer.EXPECT().DestroyNow(mine.Entity()),
	)

	outcome := resolver.Resolve(mine, combat.Collision{Tag: tags.ResolvBullet, Target: theirs.Entity()}, t0)
	if outcome != combat.OutcomeApplied {
		t.Fatalf("expected applied, got %s", outcome)
	}
}

func TestResolveIgnoresDestroyedProjectile(t *testing.T) {
	ctrl := gomock.NewController(t)
	a := newArena(t)
	resolver := combat.NewHitResolver(a.world, a.health, mocks.NewMockEffects(ctrl), mocks.NewMockDestroyer(ctrl))

	entry := a.spawn(3)
	combat.MarkDestroyed(components.Projectile.Get(entry))

	if outcome := resolver.Resolve(entry, combat.Collision{Tag: tags.ResolvPlayer, Target: a.player}, t0); outcome != combat.OutcomeMissed {
		t.Fatalf("expected missed, got %s", outcome)
	}
	if got := a.healthOf(a.player); got != 100 {
		t.Errorf("expected no damage, got health %d", got)
	}
}

type countingEffects struct{ impacts, cues int }

func (c *countingEffects) Impact(combat.ImpactRequest) { c.impacts++ }
func (c *countingEffects) Audio(combat.AudioCue)       { c.cues++ }

type countingDestroyer struct{ now, after int }

func (c *countingDestroyer) DestroyNow(donburi.Entity)             { c.now++ }
func (c *countingDestroyer) DestroyAfter(donburi.Entity, time.Time) { c.after++ }

func TestResolveAtMostOneApplication(t *testing.T) {
	colliderTags := []string{tags.ResolvShield, tags.ResolvPlayer, tags.ResolvSolid, tags.ResolvGround}

	rapid.Check(t, func(rt *rapid.T) {
		world := donburi.NewWorld()
		health := combat.NewHealthStore(world, nil)
		target := world.Create(components.Health)
		health.Attach(world.Entry(target), 1000)

		effects := &countingEffects{}
		destroyer := &countingDestroyer{}
		resolver := combat.NewHitResolver(world, health, effects, destroyer)

		e := world.Create(tags.Projectile, components.Projectile)
		entry := world.Entry(e)
		components.Projectile.SetValue(entry, combat.NewProjectile(combat.Shot{
			ID: 1, Weapon: testWeapon, Muzzle: gamemath.Pose{Rotation: gamemath.Identity}, Time: t0,
		}, netconfig.ProjectileAuthoritative))

		applied := 0
		for _, tag := range rapid.SliceOf(rapid.SampledFrom(colliderTags)).Draw(rt, "tags") {
			if resolver.Resolve(entry, combat.Collision{Tag: tag, Target: target}, t0) == combat.OutcomeApplied {
				applied++
			}
		}

		if applied > 1 {
			rt.Fatalf("expected at most one applied hit, got %d", applied)
		}
		if effects.impacts != applied {
			rt.Fatalf("expected %d impact requests, got %d", applied, effects.impacts)
		}
		cur, _ := health.Current(target)
		if cur != 1000-applied*testWeapon.Damage {
			rt.Fatalf("unexpected health %d after %d applied hits", cur, applied)
		}
		if destroyer.after != applied {
			rt.Fatalf("expected %d scheduled removals, got %d", applied, destroyer.after)
		}
	})
}
