package network

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/automoto/splatvr/combat"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netconfig"
)

// Shot is one projectile as this client sees it.
type Shot struct {
	LocalID    uint32 // set for predicted shots
	ID         uint32 // authority id, 0 while predicted
	OwnerID    uint
	Slot       netconfig.WeaponSlot
	State      netconfig.ProjectileState
	Origin     gamemath.Vec3
	Rotation   gamemath.Quat
	Velocity   gamemath.Vec3
	Gravity    float64
	SpawnTime  time.Time
	TimeToLive time.Duration
}

// PositionAt extrapolates the shot's flight to now.
func (s Shot) PositionAt(now time.Time) gamemath.Vec3 {
	t := now.Sub(s.SpawnTime).Seconds()
	if t < 0 {
		t = 0
	}
	p := s.Origin.Add(s.Velocity.Scale(t))
	p.Y -= 0.5 * s.Gravity * t * t
	return p
}

// ReconcileStats counts how predicted shots were settled.
type ReconcileStats struct {
	Predicted int // shots fired locally
	Matched   int // echoes that replaced a predicted shot
	Unmatched int // echoes of our own shots with nothing to replace
	Expired   int // predicted shots that never got an echo
}

// ShotTracker keeps the set of shots a client should draw. Local shots are
// shown immediately as predictions; when the authority echoes one back, the
// prediction is dropped and the authoritative copy takes its place, so each
// shot is visible exactly once.
type ShotTracker struct {
	mu sync.Mutex

	localID   uint
	limiter   *combat.FireLimiter[uint]
	nextLocal uint32
	predicted []*Shot // oldest first
	remote    map[uint32]*Shot
	stats     ReconcileStats
}

func NewShotTracker(localID uint) *ShotTracker {
	return &ShotTracker{
		localID: localID,
		limiter: combat.NewFireLimiter[uint](func(slot netconfig.WeaponSlot) time.Duration {
			w, _ := cfg.Weapon(slot)
			return w.Cooldown()
		}),
		remote: make(map[uint32]*Shot),
	}
}

// SetLocalID updates our NetworkId once the join is accepted.
func (t *ShotTracker) SetLocalID(id uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.localID = id
}

// Predict fires slot from hand if the local cooldown allows, showing the shot
// right away. It returns the command to send to the authority.
func (t *ShotTracker) Predict(slot netconfig.WeaponSlot, hand gamemath.Pose, now time.Time) (messages.FireCommand, bool) {
	weapon, ok := cfg.Weapon(slot)
	if !ok {
		return messages.FireCommand{}, false
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.limiter.Allow(t.localID, slot, now) {
		return messages.FireCommand{}, false
	}

	muzzle := gamemath.MuzzlePose(hand, weapon.MuzzleOffset)
	t.nextLocal++
	t.predicted = append(t.predicted, &Shot{
		LocalID:    t.nextLocal,
		OwnerID:    t.localID,
		Slot:       slot,
		State:      netconfig.ProjectilePredicted,
		Origin:     muzzle.Position,
		Rotation:   muzzle.Rotation,
		Velocity:   gamemath.LaunchVelocity(muzzle, weapon.Speed),
		Gravity:    weapon.Gravity,
		SpawnTime:  now,
		TimeToLive: weapon.Lifetime(),
	})
	t.stats.Predicted++

	return messages.FireCommand{
		SenderID:  t.localID,
		Slot:      slot,
		Timestamp: now.UnixMilli(),
	}, true
}

// OnSpawn records an authoritative shot. For an echo of our own shot the
// nearest unclaimed prediction of the same slot is dropped, oldest first on
// ties. It reports whether a prediction was replaced.
func (t *ShotTracker) OnSpawn(msg messages.SpawnProjectile, now time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, dup := t.remote[msg.ID]; dup {
		return false
	}

	weapon, _ := cfg.Weapon(msg.Slot)
	t.remote[msg.ID] = &Shot{
		ID:         msg.ID,
		OwnerID:    msg.OwnerID,
		Slot:       msg.Slot,
		State:      netconfig.ProjectileAuthoritative,
		Origin:     msg.Position,
		Rotation:   msg.Rotation,
		Velocity:   msg.Velocity,
		Gravity:    weapon.Gravity,
		SpawnTime:  now,
		TimeToLive: time.Duration(msg.TimeToLive * float64(time.Second)),
	}

	if msg.OwnerID != t.localID {
		return false
	}

	best := -1
	bestDist := 0.0
	for i, p := range t.predicted {
		if p.Slot != msg.Slot {
			continue
		}
		d := gamemath.Distance(p.Origin, msg.Position)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		t.stats.Unmatched++
		log.Printf("[prediction] no predicted shot for echo %d, showing authoritative copy", msg.ID)
		return false
	}

	t.predicted = append(t.predicted[:best], t.predicted[best+1:]...)
	t.stats.Matched++
	return true
}

// OnDestroy removes an authoritative shot. It reports whether it was known.
func (t *ShotTracker) OnDestroy(msg messages.DestroyProjectile) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.remote[msg.ID]; !ok {
		return false
	}
	delete(t.remote, msg.ID)
	return true
}

// Expire drops predictions whose time to live has passed without an echo.
func (t *ShotTracker) Expire(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	kept := t.predicted[:0]
	n := 0
	for _, p := range t.predicted {
		if !now.Before(p.SpawnTime.Add(p.TimeToLive)) {
			n++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(t.predicted); i++ {
		t.predicted[i] = nil
	}
	t.predicted = kept
	t.stats.Expired += n
	return n
}

// Visible returns every shot to draw: predictions first, oldest first, then
// authoritative shots by id.
func (t *ShotTracker) Visible() []Shot {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]Shot, 0, len(t.predicted)+len(t.remote))
	for _, p := range t.predicted {
		out = append(out, *p)
	}
	ids := make([]uint32, 0, len(t.remote))
	for id := range t.remote {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		out = append(out, *t.remote[id])
	}
	return out
}

// Stats returns reconciliation counters.
func (t *ShotTracker) Stats() ReconcileStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// Reset forgets every shot, e.g. after a disconnect.
func (t *ShotTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.predicted = nil
	t.remote = make(map[uint32]*Shot)
	t.limiter.Forget(t.localID)
}
