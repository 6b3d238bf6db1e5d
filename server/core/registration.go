package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	cfg "github.com/automoto/splatvr/config"
)

// errUnregistered is returned by the master when it does not know our id,
// typically after it expired us or restarted.
var errUnregistered = errors.New("master does not know this server")

// PlayerCounter reports how many players are in the arena.
type PlayerCounter interface {
	PlayerCount() int
}

// Registration advertises the arena on a master server list and keeps the
// entry alive with periodic heartbeats.
type Registration struct {
	masterURL string
	info      regRequest
	players   PlayerCounter
	client    *http.Client
	stopOnce  sync.Once
	stopCh    chan struct{}

	mu       sync.Mutex
	serverID string
}

type regRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Players    int    `json:"players"`
	MaxPlayers int    `json:"maxPlayers"`
	Version    string `json:"version"`
	Region     string `json:"region"`
	Arena      string `json:"arena"`
}

type regResponse struct {
	ID string `json:"id"`
}

type heartbeatRequest struct {
	ID      string `json:"id"`
	Players int    `json:"players"`
}

func NewRegistration(masterURL, name, address, version, region, arena string, maxPlayers int, players PlayerCounter) *Registration {
	return &Registration{
		masterURL: masterURL,
		info: regRequest{
			Name:       name,
			Address:    address,
			MaxPlayers: maxPlayers,
			Version:    version,
			Region:     region,
			Arena:      arena,
		},
		players: players,
		client:  &http.Client{Timeout: 5 * time.Second},
		stopCh:  make(chan struct{}),
	}
}

func (r *Registration) Start() {
	if err := r.register(); err != nil {
		log.Printf("[registration] initial registration failed: %v", err)
	}
	go r.heartbeatLoop()
}

func (r *Registration) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

// ServerID returns the id the master assigned, empty until registered.
func (r *Registration) ServerID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.serverID
}

func (r *Registration) register() error {
	req := r.info
	req.Players = r.players.PlayerCount()

	var resp regResponse
	if err := r.postJSON("/servers/register", req, http.StatusCreated, &resp); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	r.mu.Lock()
	r.serverID = resp.ID
	r.mu.Unlock()
	log.Printf("[registration] registered with master (id=%s)", resp.ID)
	return nil
}

func (r *Registration) heartbeatLoop() {
	every := cfg.Net.HeartbeatEvery
	if every <= 0 {
		every = 30 * time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			return
		case <-ticker.C:
			if err := r.beat(); err != nil {
				log.Printf("[registration] heartbeat failed: %v", err)
			}
		}
	}
}

// beat sends one heartbeat, registering first when we have no id yet and
// again when the master has forgotten us.
func (r *Registration) beat() error {
	if r.ServerID() == "" {
		return r.register()
	}
	err := r.sendHeartbeat()
	if errors.Is(err, errUnregistered) {
		log.Println("[registration] master lost our registration, re-registering")
		return r.register()
	}
	return err
}

func (r *Registration) sendHeartbeat() error {
	req := heartbeatRequest{
		ID:      r.ServerID(),
		Players: r.players.PlayerCount(),
	}
	if err := r.postJSON("/servers/heartbeat", req, http.StatusOK, nil); err != nil {
		return fmt.Errorf("heartbeat: %w", err)
	}
	return nil
}

// postJSON posts body to the master and decodes the reply into out when out
// is non-nil. A 404 maps to errUnregistered.
func (r *Registration) postJSON(path string, body any, want int, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	resp, err := r.client.Post(r.masterURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("post: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errUnregistered
	case resp.StatusCode != want:
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	case out == nil:
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
