package combat

import (
	"container/heap"
	"sync"
	"time"

	"github.com/yohamta/donburi"
)

// TimerKind says why a timer was scheduled.
type TimerKind int

const (
	TimerTimeout TimerKind = iota // time to live elapsed
	TimerGrace                    // post-impact grace period elapsed
	TimerRespawn                  // defeated player comes back
)

func (k TimerKind) String() string {
	switch k {
	case TimerTimeout:
		return "timeout"
	case TimerGrace:
		return "grace"
	case TimerRespawn:
		return "respawn"
	default:
		return "unknown"
	}
}

// Timer is one scheduled wake-up for an entity.
type Timer struct {
	At     time.Time
	Entity donburi.Entity
	Kind   TimerKind
	seq    uint64
}

type timerHeap []Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].At.Equal(h[j].At) {
		return h[i].seq < h[j].seq
	}
	return h[i].At.Before(h[j].At)
}
func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)   { *h = append(*h, x.(Timer)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// Scheduler holds wall-clock timers. Several timers may target the same
// entity; consumers must treat a timer for an entity that is already gone as
// a no-op.
type Scheduler struct {
	mu     sync.Mutex
	timers timerHeap
	seq    uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Schedule arranges for a Timer of kind to come due at at.
func (s *Scheduler) Schedule(entity donburi.Entity, kind TimerKind, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	heap.Push(&s.timers, Timer{At: at, Entity: entity, Kind: kind, seq: s.seq})
}

// Due removes and returns every timer at or before now, earliest first.
// Timers scheduled for the same instant come out in scheduling order.
func (s *Scheduler) Due(now time.Time) []Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []Timer
	for len(s.timers) > 0 && !s.timers[0].At.After(now) {
		due = append(due, heap.Pop(&s.timers).(Timer))
	}
	return due
}

// Len returns the number of pending timers.
func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
