package core

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/components"
	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/automoto/splatvr/shared/netcomponents"
	"github.com/automoto/splatvr/shared/netconfig"
	"github.com/automoto/splatvr/tags"
	"github.com/google/uuid"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/esync/srvsync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"github.com/yohamta/donburi"
)

// Standing pose offsets used until a client streams real poses.
const (
	headHeight = 1.7
	handHeight = 1.2
	handReach  = 0.3
	torsoSlack = 0.15 // torso top sits this far above the head position
)

// Peer is one connected client.
type Peer interface {
	Id() string
	SendMessage(msg any) error
}

type commandKind int

const (
	cmdJoin commandKind = iota
	cmdLeave
	cmdPose
	cmdFire
)

// command is a client message waiting for the game loop.
type command struct {
	kind commandKind
	peer Peer
	at   time.Time // server receipt time
	join messages.JoinRequest
	pose messages.PoseUpdate
	fire messages.FireCommand
}

// Server manages the arena state and client connections. Router callbacks
// only enqueue commands; the game loop applies them in order.
type Server struct {
	world     donburi.World
	loop      *GameLoop
	transport *transports.WsServerTransport
	clock     func() time.Time

	name    string
	version string

	arena       *Arena
	physics     *Physics
	health      *combat.HealthStore
	effects     combat.Effects
	replicator  Replicator
	coordinator *Coordinator
	knives      *Knives
	respawns    *combat.Scheduler

	now       time.Time // start of the current tick
	joined    int
	nextNetID uint

	mu      sync.Mutex
	queue   []command
	peers   map[string]Peer
	players map[string]donburi.Entity
}

// NewServer creates a game server for arena.
func NewServer(arena *Arena, tickRate int, name, version string) *Server {
	world := donburi.NewWorld()
	srvsync.UseEsync(world)

	s := newServer(world, arena, tickRate, name, version)
	s.attach(&netReplicator{server: s})
	s.setupRouterCallbacks()
	return s
}

func newServer(world donburi.World, arena *Arena, tickRate int, name, version string) *Server {
	s := &Server{
		world:    world,
		clock:    time.Now,
		name:     name,
		version:  version,
		arena:    arena,
		physics:  NewPhysics(world, arena),
		respawns: combat.NewScheduler(),
		peers:    make(map[string]Peer),
		players:  make(map[string]donburi.Entity),
	}
	s.health = combat.NewHealthStore(world, s.onDefeated)
	s.loop = NewGameLoop(s, tickRate)
	return s
}

// attach wires everything that publishes through replicator.
func (s *Server) attach(replicator Replicator) {
	s.replicator = replicator
	s.effects = &netEffects{world: s.world, replicator: replicator}
	s.coordinator = NewCoordinator(s.world, s.physics, s.health, s.effects, replicator)
	s.knives = NewKnives(s.world, s.physics, s.health, s.effects)
}

// Start begins the server on the given port
func (s *Server) Start(port uint) error {
	s.loop.Start()

	s.transport = transports.NewWsServerTransport(port, "", nil)
	return s.transport.Start()
}

// Stop gracefully shuts down the server. It returns once the game loop has
// exited and every live projectile was despawned on the loop goroutine.
func (s *Server) Stop() {
	s.loop.Stop()
}

// shutdown runs on the loop goroutine after its last tick.
func (s *Server) shutdown() {
	if n := s.coordinator.DespawnAll(); n > 0 {
		log.Printf("[server] despawned %d projectiles on shutdown", n)
	}
}

func (s *Server) setupRouterCallbacks() {
	router.OnConnect(func(client *router.NetworkClient) {
		log.Printf("[server] client connected: %s", client.Id())
	})

	router.OnDisconnect(func(client *router.NetworkClient, err error) {
		if err != nil {
			log.Printf("[server] client %s disconnected with error: %v", client.Id(), err)
		} else {
			log.Printf("[server] client %s disconnected", client.Id())
		}
		s.enqueue(command{kind: cmdLeave, peer: client})
	})

	router.On(func(client *router.NetworkClient, msg messages.JoinRequest) {
		s.enqueue(command{kind: cmdJoin, peer: client, join: msg})
	})

	router.On(func(client *router.NetworkClient, msg messages.PoseUpdate) {
		s.enqueue(command{kind: cmdPose, peer: client, pose: msg})
	})

	router.On(func(client *router.NetworkClient, msg messages.FireCommand) {
		s.enqueue(command{kind: cmdFire, peer: client, fire: msg})
	})

	router.OnError(func(client *router.NetworkClient, err error) {
		log.Printf("[server] client error: %v", err)
	})
}

// enqueue stamps cmd with the receipt time and queues it for the loop.
func (s *Server) enqueue(cmd command) {
	cmd.at = s.clock()
	s.mu.Lock()
	s.queue = append(s.queue, cmd)
	s.mu.Unlock()
}

// Tick advances the arena by one step ending at now.
func (s *Server) Tick(now time.Time, dt time.Duration) {
	s.now = now
	s.processCommands()
	s.coordinator.Step(now, dt)
	s.knives.Update(now)
	s.coordinator.Expire(now)
	s.processRespawns(now)
	s.syncPlayers()
}

func (s *Server) processCommands() {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, cmd := range queue {
		switch cmd.kind {
		case cmdJoin:
			s.handleJoin(cmd.peer, cmd.join)
		case cmdLeave:
			s.handleLeave(cmd.peer)
		case cmdPose:
			s.handlePose(cmd.peer, cmd.pose)
		case cmdFire:
			s.handleFire(cmd.peer, cmd.fire, cmd.at)
		}
	}
}

func (s *Server) handleJoin(peer Peer, req messages.JoinRequest) {
	if s.version != "" && req.Version != s.version {
		s.reject(peer, fmt.Sprintf("version mismatch: server requires %s", s.version))
		return
	}

	s.mu.Lock()
	_, already := s.players[peer.Id()]
	full := len(s.players) >= cfg.Net.MaxPlayers
	s.mu.Unlock()
	if already {
		return
	}
	if full {
		s.reject(peer, "server full")
		return
	}

	entry := s.spawnPlayer(peer.Id(), req.PlayerName)
	player := components.Player.Get(entry)

	token := req.ReconnectToken
	if _, err := uuid.Parse(token); err != nil {
		token = uuid.NewString()
	}

	s.mu.Lock()
	s.peers[peer.Id()] = peer
	s.players[peer.Id()] = entry.Entity()
	s.mu.Unlock()

	log.Printf("[server] %s joined as %q (net id %d)", peer.Id(), player.Name, player.NetID)

	if err := peer.SendMessage(messages.JoinAccepted{
		NetworkID:      esync.NetworkId(player.NetID),
		ReconnectToken: token,
		ServerName:     s.name,
		TickRate:       s.loop.tickRate,
		Arena:          s.arena.Name,
		Spawn:          gamemath.Vec3{X: player.Head.Position.X, Z: player.Head.Position.Z},
		MaxHealth:      cfg.Health.Max,
	}); err != nil {
		log.Printf("[server] failed to accept %s: %v", peer.Id(), err)
	}
}

func (s *Server) reject(peer Peer, reason string) {
	log.Printf("[server] rejecting %s: %s", peer.Id(), reason)
	if err := peer.SendMessage(messages.JoinRejected{Reason: reason}); err != nil {
		log.Printf("[server] failed to reject %s: %v", peer.Id(), err)
	}
}

// spawnPlayer creates a player with a torso body and a held shield.
func (s *Server) spawnPlayer(clientID, name string) *donburi.Entry {
	spawn := s.arena.SpawnPoint(s.joined)
	s.joined++

	entity := s.world.Create(
		tags.Player,
		components.Player,
		components.Health,
		components.Knife,
		netcomponents.NetTransform,
		netcomponents.NetPlayerState,
	)
	entry := s.world.Entry(entity)

	s.health.Attach(entry, cfg.Health.Max)
	components.Knife.SetValue(entry, components.KnifeData{
		Damage:   cfg.Knife.Damage,
		LastHits: make(map[donburi.Entity]time.Time),
	})

	shield := s.world.Entry(s.world.Create(tags.Shield, components.Parent))
	components.Parent.SetValue(shield, components.ParentData{Entity: entity})

	player := PlayerAt(spawn)
	player.ClientID = clientID
	player.Name = name
	player.Shield = shield.Entity()
	components.Player.SetValue(entry, player)

	s.physics.AddBody(entry, tags.ResolvPlayer, cfg.Body.PlayerWidth, cfg.Body.PlayerDepth)
	s.physics.AddBody(shield, tags.ResolvShield, cfg.Body.ShieldWidth, cfg.Body.ShieldDepth)
	s.placePlayer(entry)
	s.syncPlayer(entry)

	if err := s.replicator.Track(entity); err != nil {
		log.Printf("[server] failed to sync player %q: %v", name, err)
	}
	p := components.Player.Get(entry)
	p.NetID = netIDOf(s.world, entity)
	if p.NetID == 0 {
		s.nextNetID++
		p.NetID = s.nextNetID
	}
	return entry
}

// PlayerAt returns a player standing at spawn with hands held forward.
func PlayerAt(spawn gamemath.Vec3) components.PlayerData {
	return components.PlayerData{
		Head: gamemath.Pose{
			Position: spawn.Add(gamemath.Vec3{Y: headHeight}),
			Rotation: gamemath.Identity,
		},
		DominantHand: gamemath.Pose{
			Position: spawn.Add(gamemath.Vec3{X: 0.2, Y: handHeight, Z: handReach}),
			Rotation: gamemath.Identity,
		},
		SupportHand: gamemath.Pose{
			Position: spawn.Add(gamemath.Vec3{X: -0.2, Y: handHeight, Z: handReach}),
			Rotation: gamemath.Identity,
		},
	}
}

func (s *Server) handleLeave(peer Peer) {
	s.mu.Lock()
	entity, ok := s.players[peer.Id()]
	delete(s.players, peer.Id())
	delete(s.peers, peer.Id())
	s.mu.Unlock()

	if !ok || !s.world.Valid(entity) {
		return
	}
	if n := s.coordinator.Despawn(entity); n > 0 {
		log.Printf("[server] despawned %d projectiles for %s", n, peer.Id())
	}

	entry := s.world.Entry(entity)
	if shield := components.Player.Get(entry).Shield; s.world.Valid(shield) {
		s.physics.RemoveBody(s.world.Entry(shield))
		s.world.Remove(shield)
	}
	s.physics.RemoveBody(entry)
	s.world.Remove(entity)
	log.Printf("[server] player removed for %s", peer.Id())
}

func (s *Server) handlePose(peer Peer, msg messages.PoseUpdate) {
	entry := s.playerEntry(peer)
	if entry == nil {
		return
	}
	player := components.Player.Get(entry)
	if msg.Sequence <= player.LastSequence && player.LastSequence != 0 {
		return // stale or duplicate
	}

	player.Head = msg.Head
	player.DominantHand = msg.DominantHand
	player.SupportHand = msg.SupportHand
	player.KnifeDrawn = msg.KnifeDrawn
	player.LastSequence = msg.Sequence
	s.placePlayer(entry)
}

func (s *Server) handleFire(peer Peer, msg messages.FireCommand, at time.Time) {
	entry := s.playerEntry(peer)
	if entry == nil {
		return
	}
	player := components.Player.Get(entry)
	if msg.SenderID != 0 && msg.SenderID != player.NetID && cfg.Debug.LogFires {
		log.Printf("[server] %s claims sender %d, using %d", peer.Id(), msg.SenderID, player.NetID)
	}
	if cfg.Debug.LogFires && msg.Timestamp > 0 {
		log.Printf("[server] fire from %s arrived %v after client stamp", peer.Id(), at.Sub(time.UnixMilli(msg.Timestamp)))
	}
	s.coordinator.Fire(entry.Entity(), msg.Slot, at)
}

func (s *Server) playerEntry(peer Peer) *donburi.Entry {
	s.mu.Lock()
	entity, ok := s.players[peer.Id()]
	s.mu.Unlock()
	if !ok || !s.world.Valid(entity) {
		return nil
	}
	return s.world.Entry(entity)
}

// placePlayer moves the torso and shield bodies to the latest poses. The
// torso never grows past the configured body height. A player holding the
// knife has lowered the shield.
func (s *Server) placePlayer(entry *donburi.Entry) {
	player := components.Player.Get(entry)
	head := player.Head.Position
	top := math.Min(head.Y+torsoSlack, cfg.Body.PlayerHeight)
	s.physics.PlaceBody(entry, gamemath.Vec3{X: head.X, Z: head.Z}, 0, top)

	if !s.world.Valid(player.Shield) {
		return
	}
	shield := s.world.Entry(player.Shield)
	if player.KnifeDrawn {
		s.physics.PlaceBody(shield, player.SupportHand.Position, -1, -1)
		return
	}
	hand := player.SupportHand.Position
	half := cfg.Body.ShieldHeight / 2
	s.physics.PlaceBody(shield, hand, hand.Y-half, hand.Y+half)
}

func (s *Server) syncPlayers() {
	components.Player.Each(s.world, func(entry *donburi.Entry) {
		s.syncPlayer(entry)
	})
}

func (s *Server) syncPlayer(entry *donburi.Entry) {
	player := components.Player.Get(entry)
	netcomponents.NetTransform.SetValue(entry, netcomponents.NetTransformData{
		Head:         player.Head,
		DominantHand: player.DominantHand,
		SupportHand:  player.SupportHand,
	})
	health := components.Health.Get(entry)
	netcomponents.NetPlayerState.SetValue(entry, netcomponents.NetPlayerStateData{
		Health:       health.Current,
		MaxHealth:    health.Max,
		Defeated:     health.Defeated,
		KnifeDrawn:   player.KnifeDrawn,
		LastSequence: player.LastSequence,
	})
}

func (s *Server) onDefeated(evt combat.DefeatedEvent) {
	victim := netIDOf(s.world, evt.Entity)
	killer := netIDOf(s.world, evt.Attacker)
	log.Printf("[server] player %d defeated by %d", victim, killer)

	s.replicator.Broadcast(messages.DefeatedEvent{VictimID: victim, KillerID: killer})
	if s.world.Valid(evt.Entity) {
		entry := s.world.Entry(evt.Entity)
		if entry.HasComponent(components.Player) {
			head := components.Player.Get(entry).Head.Position
			s.effects.Audio(combat.AudioCue{ClipID: netconfig.ClipDefeat, Position: head})
		}
	}
	s.respawns.Schedule(evt.Entity, combat.TimerRespawn, s.now.Add(cfg.Health.RespawnDelay))
}

func (s *Server) processRespawns(now time.Time) {
	for _, t := range s.respawns.Due(now) {
		if !s.world.Valid(t.Entity) || !s.health.Restore(t.Entity) {
			continue
		}
		entry := s.world.Entry(t.Entity)
		old := components.Player.Get(entry)
		spawn := s.arena.SpawnPoint(s.joined)
		s.joined++

		fresh := PlayerAt(spawn)
		fresh.ClientID, fresh.NetID, fresh.Name = old.ClientID, old.NetID, old.Name
		fresh.Shield, fresh.LastSequence = old.Shield, old.LastSequence
		components.Player.SetValue(entry, fresh)
		s.placePlayer(entry)

		s.replicator.Broadcast(messages.RespawnEvent{PlayerID: fresh.NetID, Position: spawn})
		s.effects.Audio(combat.AudioCue{ClipID: netconfig.ClipRespawn, Position: spawn})
	}
}

// World returns the ECS world
func (s *Server) World() donburi.World {
	return s.world
}

// PlayerCount returns the number of joined players
func (s *Server) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// broadcast sends msg to every joined peer.
func (s *Server) broadcast(msg any) {
	s.mu.Lock()
	peers := make([]Peer, 0, len(s.peers))
	for _, p := range s.peers {
		peers = append(peers, p)
	}
	s.mu.Unlock()

	for _, p := range peers {
		if err := p.SendMessage(msg); err != nil {
			log.Printf("[server] send %T to %s failed: %v", msg, p.Id(), err)
		}
	}
}

// netReplicator syncs entities with srvsync and broadcasts over the router.
type netReplicator struct {
	server *Server
}

func (r *netReplicator) Track(entity donburi.Entity) error {
	entry := r.server.world.Entry(entity)
	switch {
	case entry.HasComponent(netcomponents.NetProjectile):
		return srvsync.NetworkSync(r.server.world, &entity, srvsync.WithInterp(netcomponents.NetProjectile))
	case entry.HasComponent(netcomponents.NetTransform):
		return srvsync.NetworkSync(r.server.world, &entity,
			srvsync.WithInterp(netcomponents.NetTransform),
			netcomponents.NetPlayerState,
		)
	}
	return nil
}

func (r *netReplicator) Broadcast(msg any) {
	r.server.broadcast(msg)
}
