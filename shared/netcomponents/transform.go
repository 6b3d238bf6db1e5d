package netcomponents

import (
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/yohamta/donburi"
)

// NetTransformData is the replicated pose of a player body part.
type NetTransformData struct {
	Head         gamemath.Pose
	DominantHand gamemath.Pose
	SupportHand  gamemath.Pose
}

var NetTransform = donburi.NewComponentType[NetTransformData]()

func lerpPose(from, to gamemath.Pose, t float64) gamemath.Pose {
	return gamemath.Pose{
		Position: gamemath.Lerp(from.Position, to.Position, t),
		Rotation: gamemath.Slerp(from.Rotation, to.Rotation, t),
	}
}

// LerpNetTransform interpolates between two transform snapshots
func LerpNetTransform(from, to NetTransformData, t float64) *NetTransformData {
	return &NetTransformData{
		Head:         lerpPose(from.Head, to.Head, t),
		DominantHand: lerpPose(from.DominantHand, to.DominantHand, t),
		SupportHand:  lerpPose(from.SupportHand, to.SupportHand, t),
	}
}
