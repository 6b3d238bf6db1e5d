package components

import (
	"time"

	"github.com/yohamta/donburi"
)

type KnifeData struct {
	Damage   int
	LastHits map[donburi.Entity]time.Time // Per-target hit cooldown
}

var Knife = donburi.NewComponentType[KnifeData]()
