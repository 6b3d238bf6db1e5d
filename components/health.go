package components

import "github.com/yohamta/donburi"

type HealthData struct {
	Current  int
	Max      int
	Defeated bool // Set once when Current reaches zero, cleared on respawn
}

var Health = donburi.NewComponentType[HealthData]()
