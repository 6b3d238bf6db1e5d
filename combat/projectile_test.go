package combat_test

import (
	"math"
	"testing"
	"time"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
)

func newShot(gravity float64) combat.Shot {
	weapon := testWeapon
	weapon.Gravity = gravity
	return combat.Shot{
		ID:     9,
		Slot:   netconfig.SlotPrimary,
		Weapon: weapon,
		Muzzle: gamemath.Pose{Position: gamemath.Vec3{Y: 1.5}, Rotation: gamemath.Identity},
		Time:   t0,
	}
}

func TestNewProjectileLaunchesAlongMuzzle(t *testing.T) {
	p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)

	if p.State != netconfig.ProjectileAuthoritative {
		t.Fatalf("expected authoritative, got %s", p.State)
	}
	if p.TimeToLive != 2*time.Second {
		t.Errorf("expected 2s ttl, got %v", p.TimeToLive)
	}
	if p.DestroyTime != 250*time.Millisecond {
		t.Errorf("expected 250ms grace, got %v", p.DestroyTime)
	}
	if math.Abs(p.Velocity.Length()-testWeapon.Speed) > 1e-9 {
		t.Errorf("expected speed %v, got %v", testWeapon.Speed, p.Velocity.Length())
	}
	if p.Velocity.Dot(gamemath.Forward) <= 0 {
		t.Errorf("expected velocity along forward, got %+v", p.Velocity)
	}
}

func TestMarkHitOnlyOnce(t *testing.T) {
	p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)

	if !combat.MarkHit(&p) {
		t.Fatal("expected first MarkHit to succeed")
	}
	if combat.MarkHit(&p) {
		t.Error("expected second MarkHit to be refused")
	}
	if p.State != netconfig.ProjectileResolved {
		t.Errorf("expected resolved, got %s", p.State)
	}
	if p.Velocity != (gamemath.Vec3{}) {
		t.Errorf("expected resolved projectile to stop, got %+v", p.Velocity)
	}
}

func TestMarkDestroyedIsTerminal(t *testing.T) {
	p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)

	if !combat.MarkDestroyed(&p) {
		t.Fatal("expected first MarkDestroyed to succeed")
	}
	if combat.MarkDestroyed(&p) {
		t.Error("expected second MarkDestroyed to be refused")
	}
	if combat.MarkHit(&p) {
		t.Error("expected destroyed projectile to refuse hits")
	}
}

func TestExpiredAtExactDeadline(t *testing.T) {
	p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)

	tests := []struct {
		name string
		at   time.Duration
		want bool
	}{
		{"at spawn", 0, false},
		{"just before", 2*time.Second - time.Millisecond, false},
		{"at deadline", 2 * time.Second, true},
		{"after", 3 * time.Second, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := combat.Expired(&p, t0.Add(tt.at)); got != tt.want {
				t.Errorf("Expired at %v = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestNoteDestroyAtKeepsEarliest(t *testing.T) {
	p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)

	first := t0.Add(time.Second)
	if got := combat.NoteDestroyAt(&p, first); !got.Equal(first) {
		t.Fatalf("expected %v, got %v", first, got)
	}
	if got := combat.NoteDestroyAt(&p, t0.Add(2*time.Second)); !got.Equal(first) {
		t.Errorf("expected later time to be ignored, got %v", got)
	}
	earlier := t0.Add(500 * time.Millisecond)
	if got := combat.NoteDestroyAt(&p, earlier); !got.Equal(earlier) {
		t.Errorf("expected earlier time to win, got %v", got)
	}
}

func TestAdvance(t *testing.T) {
	t.Run("straight shot", func(t *testing.T) {
		p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)
		start := p.Position
		combat.Advance(&p, 100*time.Millisecond)

		if d := gamemath.Distance(start, p.Position); math.Abs(d-5) > 1e-6 {
			t.Errorf("expected 5m travelled, got %v", d)
		}
		if p.Position.Y != start.Y {
			t.Errorf("expected no drop without gravity, got y=%v", p.Position.Y)
		}
	})

	t.Run("lobbed shot drops", func(t *testing.T) {
		p := combat.NewProjectile(newShot(9.81), netconfig.ProjectileAuthoritative)
		start := p.Position
		combat.Advance(&p, 500*time.Millisecond)

		if p.Position.Y >= start.Y {
			t.Errorf("expected drop under gravity, got y=%v", p.Position.Y)
		}
	})

	t.Run("resolved shot stays put", func(t *testing.T) {
		p := combat.NewProjectile(newShot(0), netconfig.ProjectileAuthoritative)
		combat.MarkHit(&p)
		at := p.Position
		combat.Advance(&p, time.Second)

		if p.Position != at {
			t.Errorf("expected resolved projectile to stay at %+v, got %+v", at, p.Position)
		}
	})
}
