package components

import (
	"time"

	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/yohamta/donburi"
)

type PlayerData struct {
	ClientID string // necs client id of the owning connection
	NetID    uint   // NetworkId assigned by srvsync, 0 until synced
	Name     string

	// Latest tracked poses (written by onPoseUpdate, read by the tick)
	Head         gamemath.Pose
	DominantHand gamemath.Pose
	SupportHand  gamemath.Pose
	KnifeDrawn   bool
	LastSequence uint32

	Shield    donburi.Entity // Held shield sub-object
	RespawnAt time.Time      // Zero unless waiting to respawn
}

var Player = donburi.NewComponentType[PlayerData]()
