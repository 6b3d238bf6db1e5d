package components

import (
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// ObjectData is a collision body. The resolv object covers the floor-plane
// footprint; Bottom and Top give its vertical extent in metres.
type ObjectData struct {
	*resolv.Object
	Bottom, Top float64
}

var Object = donburi.NewComponentType[ObjectData]()
