package main

import (
	"math"
	"testing"
	"time"

	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/netconfig"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestTriggerWaitsForAnchor(t *testing.T) {
	b := NewBrain(cfg.BotDifficultyEasy, 1)
	if _, ok := b.Trigger(t0); ok {
		t.Fatal("unanchored bot must not fire")
	}
	b.SetAnchor(gamemath.Vec3{X: 3, Y: 1.7, Z: 4})
	if slot, ok := b.Trigger(t0); !ok || slot != netconfig.SlotPrimary {
		t.Fatalf("expected primary, got %v %v", slot, ok)
	}
}

func TestBurstThenPause(t *testing.T) {
	b := NewBrain(cfg.BotDifficultyEasy, 1)
	b.SetAnchor(gamemath.Vec3{})
	tuning := cfg.Bot.Difficulties[cfg.BotDifficultyEasy]

	now := t0
	for i := 0; i < tuning.BurstLength; i++ {
		slot, ok := b.Trigger(now)
		if !ok || slot != netconfig.SlotPrimary {
			t.Fatalf("shot %d: expected primary", i)
		}
		b.Fired(slot, now)
		now = now.Add(50 * time.Millisecond)
	}

	if _, ok := b.Trigger(now); ok {
		t.Fatal("expected a pause after the burst")
	}
	if _, ok := b.Trigger(now.Add(tuning.BurstPause)); !ok {
		t.Fatal("expected firing to resume after the pause")
	}
}

func TestSecondaryEveryNBursts(t *testing.T) {
	b := NewBrain(cfg.BotDifficultyHard, 1)
	b.SetAnchor(gamemath.Vec3{})
	tuning := cfg.Bot.Difficulties[cfg.BotDifficultyHard]

	now := t0
	var lobs int
	for burst := 0; burst < tuning.SecondaryEvery*2; burst++ {
		for i := 0; i < tuning.BurstLength; i++ {
			b.Fired(netconfig.SlotPrimary, now)
		}
		if slot, ok := b.Trigger(now); ok && slot == netconfig.SlotSecondary {
			lobs++
			b.Fired(slot, now)
		}
		now = now.Add(tuning.BurstPause)
	}
	if lobs != 2 {
		t.Errorf("expected 2 lobbed shots, got %d", lobs)
	}
}

func TestPoseTurnsAroundAnchor(t *testing.T) {
	b := NewBrain(cfg.BotDifficultyNormal, 1)
	b.SetAnchor(gamemath.Vec3{X: 5, Y: 1.7, Z: 5})

	first := b.Pose(time.Second, t0, false)
	second := b.Pose(time.Second, t0.Add(time.Second), true)

	if second.Sequence != first.Sequence+1 {
		t.Errorf("sequence must increase, got %d then %d", first.Sequence, second.Sequence)
	}
	if !second.KnifeDrawn {
		t.Error("knife flag not carried")
	}
	want := gamemath.Vec3{X: 5, Y: headHeight, Z: 5}
	if gamemath.Distance(first.Head.Position, want) > 1e-9 {
		t.Errorf("head at %+v, want %+v", first.Head.Position, want)
	}

	// Hands stay at the same distance from the anchor while turning.
	anchor := gamemath.Vec3{X: 5, Z: 5}
	d1 := gamemath.Distance(first.DominantHand.Position, anchor)
	d2 := gamemath.Distance(second.DominantHand.Position, anchor)
	if math.Abs(d1-d2) > 1e-9 {
		t.Errorf("hand radius changed: %v vs %v", d1, d2)
	}
	if gamemath.Distance(first.DominantHand.Position, second.DominantHand.Position) < 1e-6 {
		t.Error("expected the bot to turn")
	}
}
