package combat

import (
	"github.com/automoto/splatvr/components"
	"github.com/yohamta/donburi"
)

// DefeatedEvent is emitted once when an entity's health reaches zero.
type DefeatedEvent struct {
	Entity   donburi.Entity
	Attacker donburi.Entity // donburi.Null for environmental damage
}

// HealthStore owns every mutation of components.Health. Damage is the only
// way health goes down; Restore is the only way it goes back up.
type HealthStore struct {
	world      donburi.World
	onDefeated func(DefeatedEvent)
}

// NewHealthStore returns a store over world. onDefeated may be nil.
func NewHealthStore(world donburi.World, onDefeated func(DefeatedEvent)) *HealthStore {
	return &HealthStore{
		world:      world,
		onDefeated: onDefeated,
	}
}

// Attach gives the entry a full health pool of max.
func (h *HealthStore) Attach(entry *donburi.Entry, max int) {
	if !entry.HasComponent(components.Health) {
		entry.AddComponent(components.Health)
	}
	components.Health.SetValue(entry, components.HealthData{
		Current: max,
		Max:     max,
	})
}

// TakeDamage subtracts amount from target's health, clamping at zero. It
// reports whether health changed. Targets that are gone, carry no health or
// are already defeated are left alone.
func (h *HealthStore) TakeDamage(target, attacker donburi.Entity, amount int) bool {
	health := h.get(target)
	if health == nil || health.Defeated || amount <= 0 {
		return false
	}

	health.Current -= amount
	if health.Current > 0 {
		return true
	}

	health.Current = 0
	health.Defeated = true
	if h.onDefeated != nil {
		h.onDefeated(DefeatedEvent{Entity: target, Attacker: attacker})
	}
	return true
}

// Restore refills target's health and clears the defeated flag.
func (h *HealthStore) Restore(target donburi.Entity) bool {
	health := h.get(target)
	if health == nil {
		return false
	}
	health.Current = health.Max
	health.Defeated = false
	return true
}

// Current returns target's health and whether it has any.
func (h *HealthStore) Current(target donburi.Entity) (int, bool) {
	health := h.get(target)
	if health == nil {
		return 0, false
	}
	return health.Current, true
}

// Alive reports whether target has health and is not defeated.
func (h *HealthStore) Alive(target donburi.Entity) bool {
	health := h.get(target)
	return health != nil && !health.Defeated
}

func (h *HealthStore) get(e donburi.Entity) *components.HealthData {
	if e == donburi.Null || !h.world.Valid(e) {
		return nil
	}
	entry := h.world.Entry(e)
	if !entry.HasComponent(components.Health) {
		return nil
	}
	return components.Health.Get(entry)
}
