package core

import (
	"testing"
	"time"

	"github.com/automoto/splatvr/components"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/yohamta/donburi"
)

func TestFireSpawnsAndBroadcasts(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")

	res := ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now)
	if !res.Accepted || res.ProjectileID != 1 {
		t.Fatalf("expected projectile 1 accepted, got %+v", res)
	}

	spawns := messagesOf[messages.SpawnProjectile](ts.rep.sent)
	if len(spawns) != 1 {
		t.Fatalf("expected 1 spawn broadcast, got %d", len(spawns))
	}
	spawn := spawns[0]

	hand := components.Player.Get(a).DominantHand
	weapon := cfg.Weapons[netconfig.SlotPrimary]
	wantPos := hand.Position.Add(hand.Rotation.Rotate(weapon.MuzzleOffset))
	if !near(spawn.Position, wantPos) {
		t.Errorf("expected muzzle %+v, got %+v", wantPos, spawn.Position)
	}
	if !near(spawn.Velocity, gamemath.Forward.Scale(weapon.Speed)) {
		t.Errorf("expected forward velocity, got %+v", spawn.Velocity)
	}
	if spawn.OwnerID != ts.netID(a) || spawn.Damage != weapon.Damage {
		t.Errorf("unexpected spawn %+v", spawn)
	}

	e, ok := ts.coordinator.Projectile(1)
	if !ok {
		t.Fatal("expected projectile 1 to be live")
	}
	p := components.Projectile.Get(ts.world.Entry(e))
	if p.State != netconfig.ProjectileAuthoritative || p.OwnerEntity != a.Entity() {
		t.Errorf("unexpected projectile state %s owner %v", p.State, p.OwnerEntity)
	}
	if ts.rep.tracked[len(ts.rep.tracked)-1] != e {
		t.Error("expected projectile to be tracked for sync")
	}
}

func TestFireCooldown(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")

	tests := []struct {
		at   time.Duration
		slot netconfig.WeaponSlot
		want bool
	}{
		{0, netconfig.SlotPrimary, true},
		{30 * time.Millisecond, netconfig.SlotPrimary, false},
		{30 * time.Millisecond, netconfig.SlotSecondary, true},
		{50 * time.Millisecond, netconfig.SlotPrimary, true},
		{60 * time.Millisecond, netconfig.SlotPrimary, false},
		{100 * time.Millisecond, netconfig.SlotPrimary, true},
		{400 * time.Millisecond, netconfig.SlotSecondary, false},
		{530 * time.Millisecond, netconfig.SlotSecondary, true},
	}

	var lastID uint32
	for _, tt := range tests {
		res := ts.coordinator.Fire(a.Entity(), tt.slot, start.Add(tt.at))
		if res.Accepted != tt.want {
			t.Errorf("%s at %v: accepted=%v, want %v", tt.slot, tt.at, res.Accepted, tt.want)
			continue
		}
		if res.Accepted {
			if res.ProjectileID <= lastID {
				t.Errorf("expected increasing ids, got %d after %d", res.ProjectileID, lastID)
			}
			lastID = res.ProjectileID
		}
	}
}

// At 20 shots/s the window after t=0 closes at t=50ms, so t=60ms is a fresh
// shot while t=30ms is inside the window.
func TestFireCooldownWindow(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")

	if rate := cfg.Weapons[netconfig.SlotPrimary].Rate; rate != 20 {
		t.Fatalf("expected primary fire rate 20, got %v", rate)
	}

	got := make([]bool, 0, 3)
	for _, at := range []time.Duration{0, 30 * time.Millisecond, 60 * time.Millisecond} {
		got = append(got, ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, start.Add(at)).Accepted)
	}
	want := []bool{true, false, true}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("accepted %v, want %v", got, want)
		}
	}
	if n := len(messagesOf[messages.SpawnProjectile](ts.rep.sent)); n != 2 {
		t.Errorf("expected 2 spawn broadcasts, got %d", n)
	}
}

func TestFireRejectsInvalidInput(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")

	stranger := ts.world.Create(components.Projectile)
	gone := ts.world.Create(components.Player)
	ts.world.Remove(gone)

	tests := []struct {
		name   string
		sender donburi.Entity
		slot   netconfig.WeaponSlot
	}{
		{"unknown slot", a.Entity(), netconfig.WeaponSlot(7)},
		{"negative slot", a.Entity(), netconfig.WeaponSlot(-1)},
		{"null sender", donburi.Null, netconfig.SlotPrimary},
		{"removed sender", gone, netconfig.SlotPrimary},
		{"not a player", stranger, netconfig.SlotPrimary},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := ts.coordinator.Fire(tt.sender, tt.slot, ts.now); res.Accepted {
				t.Fatalf("expected rejection, got %+v", res)
			}
		})
	}
	if n := len(messagesOf[messages.SpawnProjectile](ts.rep.sent)); n != 0 {
		t.Errorf("expected no spawns, got %d", n)
	}
}

func TestFireRejectsDefeatedSender(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")
	ts.health.TakeDamage(a.Entity(), donburi.Null, cfg.Health.Max)

	if res := ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now); res.Accepted {
		t.Fatal("expected defeated player to be unable to fire")
	}
}

func TestTimeoutDestroysOnce(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")

	// Straight up, so nothing is in the way.
	components.Player.Get(a).DominantHand.Rotation = gamemath.Euler(-90, 0, 0)
	res := ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now)
	if !res.Accepted {
		t.Fatal("expected shot")
	}

	if n := ts.coordinator.Expire(start.Add(2*time.Second - time.Millisecond)); n != 0 {
		t.Fatalf("expected nothing expired before the deadline, got %d", n)
	}
	if n := ts.coordinator.Expire(start.Add(2 * time.Second)); n != 1 {
		t.Fatalf("expected 1 projectile expired at the deadline, got %d", n)
	}
	if n := ts.coordinator.Expire(start.Add(10 * time.Second)); n != 0 {
		t.Errorf("expected no second expiry, got %d", n)
	}

	destroys := messagesOf[messages.DestroyProjectile](ts.rep.sent)
	if len(destroys) != 1 || destroys[0].ID != res.ProjectileID {
		t.Fatalf("expected one destroy for %d, got %+v", res.ProjectileID, destroys)
	}
	if ts.coordinator.LiveCount() != 0 {
		t.Errorf("expected no live projectiles, got %d", ts.coordinator.LiveCount())
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")
	ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now)
	e, _ := ts.coordinator.Projectile(1)

	if !ts.coordinator.Destroy(e) {
		t.Fatal("expected first destroy to succeed")
	}
	if ts.coordinator.Destroy(e) {
		t.Error("expected second destroy to be a no-op")
	}
	ts.coordinator.DestroyNow(e)
	ts.coordinator.Expire(start.Add(time.Hour))

	if n := len(messagesOf[messages.DestroyProjectile](ts.rep.sent)); n != 1 {
		t.Errorf("expected exactly 1 destroy broadcast, got %d", n)
	}
}

func TestDespawnOwner(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")
	_, b := ts.join(t, "b")

	ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now)
	ts.coordinator.Fire(a.Entity(), netconfig.SlotSecondary, ts.now)
	ts.coordinator.Fire(b.Entity(), netconfig.SlotPrimary, ts.now)

	if n := ts.coordinator.Despawn(a.Entity()); n != 2 {
		t.Fatalf("expected 2 projectiles despawned, got %d", n)
	}
	if ts.coordinator.LiveCount() != 1 {
		t.Errorf("expected b's projectile to survive, got %d live", ts.coordinator.LiveCount())
	}
	if !ts.coordinator.Fire(a.Entity(), netconfig.SlotPrimary, ts.now).Accepted {
		t.Error("expected despawn to clear a's cooldown")
	}
}
