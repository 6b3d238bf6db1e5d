package main

import (
	"math"
	"math/rand"
	"time"

	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netconfig"
)

const (
	headHeight = 1.7
	handHeight = 1.2
	handReach  = 0.3
	handSpread = 0.2
)

// Brain decides where a bot looks and when it pulls the trigger. It turns
// in place around its anchor and fires in bursts.
type Brain struct {
	tuning cfg.BotDifficultyConfig
	rng    *rand.Rand

	anchor   gamemath.Vec3
	anchored bool
	yaw      float64 // degrees
	sequence uint32

	burstLeft int
	bursts    int
	resumeAt  time.Time
	lobNext   bool
}

func NewBrain(difficulty cfg.BotDifficulty, seed int64) *Brain {
	tuning, ok := cfg.Bot.Difficulties[difficulty]
	if !ok {
		tuning = cfg.Bot.Difficulties[cfg.BotDifficultyNormal]
	}
	return &Brain{
		tuning:    tuning,
		rng:       rand.New(rand.NewSource(seed)),
		burstLeft: tuning.BurstLength,
	}
}

// Anchored reports whether the bot knows where it stands.
func (b *Brain) Anchored() bool {
	return b.anchored
}

// SetAnchor places the bot at the floor point below head.
func (b *Brain) SetAnchor(head gamemath.Vec3) {
	b.anchor = gamemath.Vec3{X: head.X, Z: head.Z}
	b.anchored = true
}

// Pose turns the bot by dt and returns the next pose update.
func (b *Brain) Pose(dt time.Duration, now time.Time, knife bool) messages.PoseUpdate {
	b.yaw = math.Mod(b.yaw+b.tuning.TurnRate*dt.Seconds(), 360)
	b.sequence++

	facing := gamemath.Euler(0, b.yaw, 0)
	aim := gamemath.Euler(b.jitter(), b.yaw+b.jitter(), 0)

	hand := func(side float64) gamemath.Vec3 {
		return b.anchor.Add(facing.Rotate(gamemath.Vec3{X: side * handSpread, Y: handHeight, Z: handReach}))
	}

	return messages.PoseUpdate{
		Sequence:     b.sequence,
		Head:         gamemath.Pose{Position: b.anchor.Add(gamemath.Vec3{Y: headHeight}), Rotation: facing},
		DominantHand: gamemath.Pose{Position: hand(1), Rotation: aim},
		SupportHand:  gamemath.Pose{Position: hand(-1), Rotation: facing},
		KnifeDrawn:   knife,
		Timestamp:    now.UnixMilli(),
	}
}

func (b *Brain) jitter() float64 {
	if b.tuning.AimJitter <= 0 {
		return 0
	}
	return (b.rng.Float64()*2 - 1) * b.tuning.AimJitter
}

// Trigger returns the slot the bot wants to fire now, if any. Call Fired
// once the shot is actually taken.
func (b *Brain) Trigger(now time.Time) (netconfig.WeaponSlot, bool) {
	if !b.anchored || now.Before(b.resumeAt) {
		return 0, false
	}
	if b.lobNext {
		return netconfig.SlotSecondary, true
	}
	return netconfig.SlotPrimary, true
}

// Fired records an accepted shot and starts the pause at the end of a burst.
func (b *Brain) Fired(slot netconfig.WeaponSlot, now time.Time) {
	if slot == netconfig.SlotSecondary {
		b.lobNext = false
		b.resumeAt = now.Add(b.tuning.BurstPause)
		return
	}

	b.burstLeft--
	if b.burstLeft > 0 {
		return
	}
	b.burstLeft = b.tuning.BurstLength
	b.bursts++
	if every := b.tuning.SecondaryEvery; every > 0 && b.bursts%every == 0 {
		b.lobNext = true
		return
	}
	b.resumeAt = now.Add(b.tuning.BurstPause)
}
