package combat

import (
	"sync"
	"time"

	"github.com/automoto/splatvr/shared/netconfig"
)

type fireKey[K comparable] struct {
	sender K
	slot   netconfig.WeaponSlot
}

// FireLimiter enforces a per-(sender, slot) cooldown. The check and the
// update happen under one lock, so two commands for the same pair can never
// both pass inside one window. Rejected attempts do not move the window.
type FireLimiter[K comparable] struct {
	mu       sync.Mutex
	next     map[fireKey[K]]time.Time
	cooldown func(netconfig.WeaponSlot) time.Duration
}

// NewFireLimiter returns a limiter using cooldown to look up each slot's
// minimum spacing.
func NewFireLimiter[K comparable](cooldown func(netconfig.WeaponSlot) time.Duration) *FireLimiter[K] {
	return &FireLimiter[K]{
		next:     make(map[fireKey[K]]time.Time),
		cooldown: cooldown,
	}
}

// Allow reports whether sender may fire slot at now, and if so starts the
// next cooldown window. A shot landing exactly on the boundary is allowed.
func (l *FireLimiter[K]) Allow(sender K, slot netconfig.WeaponSlot, now time.Time) bool {
	key := fireKey[K]{sender: sender, slot: slot}

	l.mu.Lock()
	defer l.mu.Unlock()

	if next, ok := l.next[key]; ok && now.Before(next) {
		return false
	}
	l.next[key] = now.Add(l.cooldown(slot))
	return true
}

// NextAllowed returns when sender may next fire slot. The zero time means
// immediately.
func (l *FireLimiter[K]) NextAllowed(sender K, slot netconfig.WeaponSlot) time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.next[fireKey[K]{sender: sender, slot: slot}]
}

// Forget drops every window held by sender.
func (l *FireLimiter[K]) Forget(sender K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.next {
		if key.sender == sender {
			delete(l.next, key)
		}
	}
}
