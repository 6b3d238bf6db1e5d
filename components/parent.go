package components

import "github.com/yohamta/donburi"

// ParentData links a sub-object (a held shield, a limb) to the entity it
// belongs to. Hit resolution climbs these links to find the health-bearing
// root.
type ParentData struct {
	Entity donburi.Entity
}

var Parent = donburi.NewComponentType[ParentData]()
