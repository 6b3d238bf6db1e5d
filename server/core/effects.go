package core

import (
	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/shared/messages"
	"github.com/leap-fish/necs/esync"
	"github.com/yohamta/donburi"
)

// netEffects turns effect requests into events broadcast to every peer.
type netEffects struct {
	world      donburi.World
	replicator Replicator
}

func (e *netEffects) Impact(req combat.ImpactRequest) {
	e.replicator.Broadcast(messages.ImpactEvent{
		ProjectileID: req.ProjectileID,
		OwnerID:      netIDOf(e.world, req.Owner),
		TargetID:     netIDOf(e.world, req.Target),
		Position:     req.Position,
		Normal:       req.Normal,
		Color:        req.Color,
		Scale:        req.Scale,
	})
}

func (e *netEffects) Audio(cue combat.AudioCue) {
	e.replicator.Broadcast(messages.AudioCue{
		ClipID:   cue.ClipID,
		Position: cue.Position,
	})
}

// netIDOf returns the NetworkId of a player entity, or 0.
func netIDOf(world donburi.World, e donburi.Entity) uint {
	if e == donburi.Null || !world.Valid(e) {
		return 0
	}
	entry := world.Entry(e)
	if nid := esync.GetNetworkId(entry); nid != nil {
		return uint(*nid)
	}
	if entry.HasComponent(components.Player) {
		return components.Player.Get(entry).NetID
	}
	return 0
}
