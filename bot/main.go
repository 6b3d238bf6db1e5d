package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/network"
	"github.com/automoto/splatvr/shared/netcomponents"
	"github.com/automoto/splatvr/shared/protocol"
	"github.com/leap-fish/necs/esync"
)

func main() {
	address := flag.String("address", "localhost:7373", "Arena server host:port")
	name := flag.String("name", "bot", "Player name")
	version := flag.String("version", cfg.Net.Version, "Client version sent on join")
	difficulty := flag.String("difficulty", "normal", "easy, normal or hard")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Aim jitter seed")
	statsEvery := flag.Duration("stats", 10*time.Second, "Reconcile stats log interval")
	flag.Parse()

	if err := protocol.RegisterComponents(); err != nil {
		log.Fatalf("Failed to register components: %v", err)
	}

	client := network.NewClient()
	client.Connect(*address, *version, *name, "")

	b := &bot{
		client: client,
		brain:  NewBrain(cfg.ParseBotDifficulty(*difficulty), *seed),
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	rate := cfg.Bot.PoseRate
	if rate <= 0 {
		rate = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	stats := time.NewTicker(*statsEvery)
	defer stats.Stop()

	last := time.Now()
	for {
		select {
		case <-sigCh:
			log.Println("[bot] shutting down")
			client.Disconnect()
			return
		case <-stats.C:
			b.logStats()
		case now := <-ticker.C:
			switch client.State() {
			case network.StateError:
				log.Printf("[bot] %v", client.LastError())
				client.Disconnect()
				return
			case network.StateDisconnected:
				log.Println("[bot] disconnected")
				return
			case network.StateJoinedGame:
				b.frame(now, now.Sub(last))
			}
			last = now
		}
	}
}

// bot drives one headless client through the join, pose and fire path.
type bot struct {
	client   *network.Client
	brain    *Brain
	joined   bool
	health   int
	defeated bool
	impacts  int
}

func (b *bot) frame(now time.Time, dt time.Duration) {
	if !b.joined {
		b.joined = true
		b.health = b.client.MaxHealth()
		b.brain.SetAnchor(b.client.Spawn())
		log.Printf("[bot] joined %s as %d (arena %s, spawn %.1f,%.1f)",
			b.client.ServerName(), b.client.NetworkID(), b.client.Arena(), b.client.Spawn().X, b.client.Spawn().Z)
	}

	if snap := b.client.LatestSnapshot(); snap != nil {
		b.applySnapshot(*snap)
	}

	// The client already reconciled these against our predictions.
	b.client.DrainSpawns()
	b.client.DrainDestroys()
	b.client.DrainAudio()
	b.client.DrainDefeats()
	b.impacts += len(b.client.DrainImpacts())

	me := uint(b.client.NetworkID())
	for _, evt := range b.client.DrainRespawns() {
		if evt.PlayerID == me {
			b.brain.SetAnchor(evt.Position)
		}
	}
	b.client.Shots().Expire(now)

	pose := b.brain.Pose(dt, now, false)
	if err := b.client.SendMessage(pose); err != nil {
		log.Printf("[bot] pose send failed: %v", err)
		return
	}
	if b.defeated {
		return
	}

	slot, ok := b.brain.Trigger(now)
	if !ok {
		return
	}
	fired, err := b.client.Fire(slot, pose.DominantHand)
	if err != nil {
		log.Printf("[bot] %v", err)
		return
	}
	if fired {
		b.brain.Fired(slot, now)
	}
}

// applySnapshot tracks our own replicated health.
func (b *bot) applySnapshot(snapshot esync.WorldSnapshot) {
	me := b.client.NetworkID()
	for _, ent := range snapshot {
		if ent.Id != me {
			continue
		}
		for _, raw := range ent.State {
			instance, err := esync.Mapper.Deserialize(raw)
			if err != nil {
				continue
			}
			state, ok := instance.(netcomponents.NetPlayerStateData)
			if !ok {
				continue
			}
			if state.Defeated && !b.defeated {
				log.Println("[bot] defeated, waiting for respawn")
			}
			b.health, b.defeated = state.Health, state.Defeated
			return
		}
	}
}

func (b *bot) logStats() {
	s := b.client.Shots().Stats()
	log.Printf("[bot] health=%d predicted=%d matched=%d unmatched=%d expired=%d visible=%d impacts=%d",
		b.health, s.Predicted, s.Matched, s.Unmatched, s.Expired, len(b.client.Shots().Visible()), b.impacts)
}
