package messages

import (
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/leap-fish/necs/esync"
)

// JoinRequest is sent by a client after connecting to request joining the arena.
type JoinRequest struct {
	Version        string
	PlayerName     string
	ReconnectToken string
}

// JoinAccepted is sent by the server when a client's join request is accepted.
// Spawn is the floor point the player was placed at; the client should
// report poses relative to it until its tracking space is recentred.
type JoinAccepted struct {
	NetworkID      esync.NetworkId
	ReconnectToken string
	ServerName     string
	TickRate       int
	Arena          string
	Spawn          gamemath.Vec3
	MaxHealth      int
}

// JoinRejected is sent by the server when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
