package messages

import "github.com/automoto/splatvr/shared/gamemath"

// PoseUpdate is sent from client to server each frame with the tracked poses
// of the local player. The server derives body, shield and muzzle placement
// from it.
type PoseUpdate struct {
	Sequence     uint32 // Incrementing ID, stale updates are dropped
	Head         gamemath.Pose
	DominantHand gamemath.Pose
	SupportHand  gamemath.Pose
	KnifeDrawn   bool  // Secondary hand holds the knife instead of the shield
	Timestamp    int64 // Client timestamp (Unix ms)
}
