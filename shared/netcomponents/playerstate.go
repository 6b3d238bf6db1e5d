package netcomponents

import "github.com/yohamta/donburi"

type NetPlayerStateData struct {
	Health       int
	MaxHealth    int
	Defeated     bool
	KnifeDrawn   bool
	LastSequence uint32 // Last pose sequence processed by the server
}

var NetPlayerState = donburi.NewComponentType[NetPlayerStateData]()
