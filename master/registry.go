package main

import (
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ServerInfo describes an arena server visible to clients.
type ServerInfo struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
	Arena      string `json:"arena"`
}

type serverRecord struct {
	ServerInfo
	LastSeen time.Time
}

// Registry is an in-memory store of active arena servers with TTL-based expiry.
type Registry struct {
	mu      sync.RWMutex
	servers map[string]*serverRecord
	ttl     time.Duration
	clock   func() time.Time
	stopCh  chan struct{}
}

func NewRegistry(ttl time.Duration) *Registry {
	r := newRegistry(ttl, time.Now)
	go r.cleanupLoop()
	return r
}

func newRegistry(ttl time.Duration, clock func() time.Time) *Registry {
	return &Registry{
		servers: make(map[string]*serverRecord),
		ttl:     ttl,
		clock:   clock,
		stopCh:  make(chan struct{}),
	}
}

func (r *Registry) Stop() {
	close(r.stopCh)
}

func (r *Registry) Register(info ServerInfo) string {
	info.ID = uuid.NewString()

	r.mu.Lock()
	r.servers[info.ID] = &serverRecord{
		ServerInfo: info,
		LastSeen:   r.clock(),
	}
	r.mu.Unlock()

	return info.ID
}

func (r *Registry) Heartbeat(id string, players int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.servers[id]
	if !ok {
		return false
	}
	rec.LastSeen = r.clock()
	rec.Players = players
	return true
}

// List returns live servers ordered by name then id. An empty version
// matches every server.
func (r *Registry) List(version string) []ServerInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.clock()
	result := make([]ServerInfo, 0, len(r.servers))
	for _, rec := range r.servers {
		if r.expired(rec, now) {
			continue
		}
		if version != "" && rec.Version != version {
			continue
		}
		result = append(result, rec.ServerInfo)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Expire drops every server not seen within the TTL and returns how many
// were removed.
func (r *Registry) Expire() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	removed := 0
	for id, rec := range r.servers {
		if !r.expired(rec, now) {
			continue
		}
		log.Printf("[master] expired server %q (id=%s, last seen %s ago)",
			rec.Name, id, now.Sub(rec.LastSeen).Round(time.Second))
		delete(r.servers, id)
		removed++
	}
	return removed
}

func (r *Registry) expired(rec *serverRecord, now time.Time) bool {
	return now.Sub(rec.LastSeen) >= r.ttl
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.Expire()
		}
	}
}
