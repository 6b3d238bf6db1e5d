package network

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

// Client manages a WebSocket connection to the arena server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
// Projectile spawns and removals are also fed to the client's ShotTracker as
// they arrive so predicted shots are reconciled without waiting for a frame.
type Client struct {
	mu sync.RWMutex

	state          ClientState
	lastError      error
	networkID      esync.NetworkId
	reconnectToken string
	serverName     string
	tickRate       int
	arena          string
	spawn          gamemath.Vec3
	maxHealth      int
	conn           *websocket.Conn

	shots *ShotTracker

	snapshotCh chan esync.WorldSnapshot // size-1 buffered; latest wins

	spawnCh    chan messages.SpawnProjectile
	destroyCh  chan messages.DestroyProjectile
	impactCh   chan messages.ImpactEvent
	audioCh    chan messages.AudioCue
	defeatedCh chan messages.DefeatedEvent
	respawnCh  chan messages.RespawnEvent
}

// Event buffers. Spawn and destroy must not be dropped or shots would be
// shown twice or linger, so they get the deepest queues.
const (
	shotEventBuffer = 256
	fxEventBuffer   = 64
)

func NewClient() *Client {
	return &Client{
		state:      StateDisconnected,
		shots:      NewShotTracker(0),
		snapshotCh: make(chan esync.WorldSnapshot, 1),
		spawnCh:    make(chan messages.SpawnProjectile, shotEventBuffer),
		destroyCh:  make(chan messages.DestroyProjectile, shotEventBuffer),
		impactCh:   make(chan messages.ImpactEvent, fxEventBuffer),
		audioCh:    make(chan messages.AudioCue, fxEventBuffer),
		defeatedCh: make(chan messages.DefeatedEvent, fxEventBuffer),
		respawnCh:  make(chan messages.RespawnEvent, fxEventBuffer),
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName, reconnectToken string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		payload, err := router.Serialize(messages.JoinRequest{
			Version:        version,
			PlayerName:     playerName,
			ReconnectToken: reconnectToken,
		})
		if err != nil {
			c.setError(fmt.Errorf("failed to serialize join request: %w", err))
			return
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn != nil {
			if err := conn.Write(context.Background(), websocket.MessageBinary, payload); err != nil {
				c.setError(fmt.Errorf("failed to send join request: %w", err))
			}
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		log.Printf("[client] join accepted: networkID=%d server=%s arena=%s tickRate=%d",
			msg.NetworkID, msg.ServerName, msg.Arena, msg.TickRate)
		c.mu.Lock()
		c.networkID = msg.NetworkID
		c.reconnectToken = msg.ReconnectToken
		c.serverName = msg.ServerName
		c.tickRate = msg.TickRate
		c.arena = msg.Arena
		c.spawn = msg.Spawn
		c.maxHealth = msg.MaxHealth
		c.state = StateJoinedGame
		c.mu.Unlock()
		c.shots.SetLocalID(uint(msg.NetworkID))
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		select { // drain stale, push latest
		case <-c.snapshotCh:
		default:
		}
		c.snapshotCh <- snapshot
	})

	router.On(func(_ *router.NetworkClient, evt messages.SpawnProjectile) {
		c.shots.OnSpawn(evt, time.Now())
		push(c.spawnCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DestroyProjectile) {
		c.shots.OnDestroy(evt)
		push(c.destroyCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.ImpactEvent) {
		push(c.impactCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.AudioCue) {
		push(c.audioCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.DefeatedEvent) {
		push(c.defeatedCh, evt)
	})

	router.On(func(_ *router.NetworkClient, evt messages.RespawnEvent) {
		push(c.respawnCh, evt)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	c.shots.Reset()
	router.ResetRouter()
}

// Fire predicts a shot from hand and sends the command to the server. It
// returns false without error when the local cooldown holds the trigger.
func (c *Client) Fire(slot netconfig.WeaponSlot, hand gamemath.Pose) (bool, error) {
	cmd, ok := c.shots.Predict(slot, hand, time.Now())
	if !ok {
		return false, nil
	}
	if err := c.SendMessage(cmd); err != nil {
		return true, fmt.Errorf("send fire: %w", err)
	}
	return true, nil
}

// Shots returns the tracker holding predicted and authoritative shots.
func (c *Client) Shots() *ShotTracker {
	return c.shots
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) ReconnectToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.reconnectToken
}

func (c *Client) ServerName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.serverName
}

func (c *Client) Arena() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.arena
}

// Spawn returns the floor point the server placed us at on join.
func (c *Client) Spawn() gamemath.Vec3 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.spawn
}

func (c *Client) MaxHealth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.maxHealth
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

// LatestSnapshot returns the most recent WorldSnapshot, or nil. Non-blocking.
func (c *Client) LatestSnapshot() *esync.WorldSnapshot {
	select {
	case snap := <-c.snapshotCh:
		return &snap
	default:
		return nil
	}
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

// DrainSpawns returns all pending projectile spawns, non-blocking.
func (c *Client) DrainSpawns() []messages.SpawnProjectile {
	return drainChan(c.spawnCh)
}

// DrainDestroys returns all pending projectile removals, non-blocking.
func (c *Client) DrainDestroys() []messages.DestroyProjectile {
	return drainChan(c.destroyCh)
}

// DrainImpacts returns all pending impact events, non-blocking.
func (c *Client) DrainImpacts() []messages.ImpactEvent {
	return drainChan(c.impactCh)
}

// DrainAudio returns all pending audio cues, non-blocking.
func (c *Client) DrainAudio() []messages.AudioCue {
	return drainChan(c.audioCh)
}

// DrainDefeats returns all pending defeat events, non-blocking.
func (c *Client) DrainDefeats() []messages.DefeatedEvent {
	return drainChan(c.defeatedCh)
}

// DrainRespawns returns all pending respawn events, non-blocking.
func (c *Client) DrainRespawns() []messages.RespawnEvent {
	return drainChan(c.respawnCh)
}

// push queues v without blocking the router goroutine. When the queue is
// full the event is dropped and logged.
func push[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
		log.Printf("[client] dropped %T, queue full", v)
	}
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
