// Package netconfig defines lightweight types shared between client and server
// for network serialization. It must have zero dependencies on donburi, resolv
// or any transport so both sides can import it freely.
package netconfig

// WeaponSlot selects which of a player's two weapons a command refers to.
type WeaponSlot int

const (
	SlotPrimary WeaponSlot = iota
	SlotSecondary
	SlotCount // Must be last - used for array sizing
)

func (s WeaponSlot) Valid() bool {
	return s >= 0 && s < SlotCount
}

func (s WeaponSlot) String() string {
	switch s {
	case SlotPrimary:
		return "primary"
	case SlotSecondary:
		return "secondary"
	default:
		return "unknown"
	}
}

// ProjectileState is the lifecycle position of one fired shot.
type ProjectileState int

const (
	ProjectilePredicted     ProjectileState = iota // client-local, authority unaware
	ProjectileAuthoritative                        // spawned and broadcast by the authority
	ProjectileResolved                             // has hit something
	ProjectileDestroyed                            // terminal
)

var projectileStateNames = map[ProjectileState]string{
	ProjectilePredicted:     "predicted",
	ProjectileAuthoritative: "authoritative",
	ProjectileResolved:      "resolved",
	ProjectileDestroyed:     "destroyed",
}

func (s ProjectileState) String() string {
	if name, ok := projectileStateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Live reports whether a projectile in this state still exists in the world.
func (s ProjectileState) Live() bool {
	return s != ProjectileDestroyed
}

// Audio clip identifiers carried by AudioCue messages.
const (
	ClipSplat   = "splat"
	ClipStab    = "stab"
	ClipDefeat  = "defeat"
	ClipRespawn = "respawn"
)
