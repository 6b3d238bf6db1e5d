package core

import (
	"testing"
	"time"

	"github.com/automoto/splatvr/components"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/yohamta/donburi"
)

func TestStabForgetsExpiredTargets(t *testing.T) {
	ts := newTestServer(t)
	pa, a := ts.join(t, "a")
	_, b := ts.join(t, "b")
	_, c := ts.join(t, "c")

	gone := ts.world.Create(components.Player)
	ts.world.Remove(gone)

	knife := components.Knife.Get(a)
	knife.LastHits[gone] = ts.now.Add(-time.Minute)
	knife.LastHits[c.Entity()] = ts.now.Add(-cfg.Knife.HitCooldown / 2)

	stab := *components.Player.Get(a)
	stab.DominantHand = gamemath.Pose{Position: gamemath.Vec3{X: 10, Y: 1, Z: 17}, Rotation: gamemath.Identity}
	ts.pose(pa, 1, stab, true)
	ts.run(1)

	if !components.Health.Get(b).Defeated {
		t.Fatalf("expected the stab to land on b, health %d", ts.healthOf(b))
	}

	if _, ok := knife.LastHits[gone]; ok {
		t.Error("expected the departed player's entry dropped")
	}
	if _, ok := knife.LastHits[c.Entity()]; !ok {
		t.Error("expected c's entry kept while its cooldown runs")
	}
	if at, ok := knife.LastHits[b.Entity()]; !ok || !at.Equal(ts.now) {
		t.Errorf("expected b recorded at %v, got %v", ts.now, at)
	}
	if len(knife.LastHits) != 2 {
		t.Errorf("expected 2 tracked targets, got %d", len(knife.LastHits))
	}
}

func TestPruneHitsBoundary(t *testing.T) {
	ts := newTestServer(t)
	_, a := ts.join(t, "a")
	_, b := ts.join(t, "b")

	hits := map[donburi.Entity]time.Time{
		a.Entity(): start.Add(-cfg.Knife.HitCooldown),
		b.Entity(): start.Add(-cfg.Knife.HitCooldown + time.Millisecond),
	}
	pruneHits(hits, start)

	if _, ok := hits[a.Entity()]; ok {
		t.Error("expected an entry exactly one cooldown old dropped")
	}
	if _, ok := hits[b.Entity()]; !ok {
		t.Error("expected an entry inside the cooldown kept")
	}
}
