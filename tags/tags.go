package tags

import "github.com/yohamta/donburi"

var (
	Player     = donburi.NewTag().SetName("Player")
	Shield     = donburi.NewTag().SetName("Shield")
	Projectile = donburi.NewTag().SetName("Projectile")
)

// Resolv tags for physics collision. Shield and Bullet double as the collider
// tags the hit resolver branches on.
const (
	ResolvSolid  = "solid"
	ResolvPlayer = "Player"
	ResolvShield = "Shield"
	ResolvBullet = "Bullet"
	ResolvGround = "Ground"
)
