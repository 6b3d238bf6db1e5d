// Package leveldata provides TMX arena parsing shared between server and bots.
// It has no dependencies on donburi or resolv, pure data only.
package leveldata

import "errors"

// ErrNoSpawnPoints is returned for an arena without a PlayerSpawn object.
var ErrNoSpawnPoints = errors.New("arena has no spawn points")

// ArenaData holds everything the server needs from a TMX arena, in map pixels.
type ArenaData struct {
	Walls       []WallRect
	SpawnPoints []SpawnPoint
	MapWidth    int
	MapHeight   int
	TileWidth   int
}

// WallRect is a solid footprint on the floor plane.
type WallRect struct {
	X, Y, W, H float64
}

// SpawnPoint is a player spawn location on the floor plane.
type SpawnPoint struct {
	X, Y  float64
	Index int
}
