package messages

import "github.com/automoto/splatvr/shared/netconfig"

// FireCommand is sent by a client when its trigger for a weapon slot is held
// and its local cooldown allows a shot. The authority re-validates the rate.
type FireCommand struct {
	SenderID  uint                 // NetworkId of the firing player
	Slot      netconfig.WeaponSlot // primary or secondary
	Timestamp int64                // Client timestamp (Unix ms), informational only
}
