package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log"

	cfg "github.com/automoto/splatvr/config"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/shared/leveldata"
	"github.com/automoto/splatvr/tags"
	"github.com/solarlune/resolv"
)

// ErrUnknownLevel is returned when a requested arena was never loaded.
var ErrUnknownLevel = errors.New("unknown level")

// arenaMargin pads the collision space so projectiles leaving the walls are
// still tracked until they time out.
const arenaMargin = 8.0

// Arena holds the server's collision space and spawn data for one map. The
// space covers the floor plane: space X is world X and space Y is world Z,
// both scaled by Scale units per metre and offset by the margin.
type Arena struct {
	Name        string
	Space       *resolv.Space
	SpawnPoints []gamemath.Vec3
	Width       float64 // metres
	Depth       float64 // metres
	Scale       float64
}

func newArenaSpace(name string, width, depth float64) *Arena {
	scale := cfg.Arena.SpaceScale
	cell := cfg.Arena.SpaceCell
	w := int((width + 2*arenaMargin) * scale)
	d := int((depth + 2*arenaMargin) * scale)
	return &Arena{
		Name:  name,
		Space: resolv.NewSpace(w, d, cell, cell),
		Width: width,
		Depth: depth,
		Scale: scale,
	}
}

// NewArena builds an arena from parsed TMX data. Map pixels are converted to
// metres using the map tile width and cfg.Arena.TileSize.
func NewArena(name string, data *leveldata.ArenaData) *Arena {
	perPixel := cfg.Arena.TileSize
	if data.TileWidth > 0 {
		perPixel /= float64(data.TileWidth)
	}

	a := newArenaSpace(name, float64(data.MapWidth)*perPixel, float64(data.MapHeight)*perPixel)
	for _, r := range data.Walls {
		a.addWall(r.X*perPixel, r.Y*perPixel, r.W*perPixel, r.H*perPixel)
	}
	for _, sp := range data.SpawnPoints {
		a.SpawnPoints = append(a.SpawnPoints, gamemath.Vec3{X: sp.X * perPixel, Z: sp.Y * perPixel})
	}

	log.Printf("[arena] loaded %s: %d walls, %d spawn points, %.0fx%.0fm",
		name, len(data.Walls), len(data.SpawnPoints), a.Width, a.Depth)
	return a
}

// NewFallbackArena returns a walled square arena of side size metres with a
// spawn point near each wall.
func NewFallbackArena(size float64) *Arena {
	a := newArenaSpace("fallback", size, size)
	const thick = 0.5
	a.addWall(0, 0, size, thick)
	a.addWall(0, size-thick, size, thick)
	a.addWall(0, thick, thick, size-2*thick)
	a.addWall(size-thick, thick, thick, size-2*thick)

	mid, near, far := size/2, size*0.15, size*0.85
	a.SpawnPoints = []gamemath.Vec3{
		{X: mid, Z: near},
		{X: mid, Z: far},
		{X: near, Z: mid},
		{X: far, Z: mid},
	}
	return a
}

func (a *Arena) addWall(x, z, w, d float64) {
	obj := resolv.NewObject(a.ToSpace(x), a.ToSpace(z), w*a.Scale, d*a.Scale, tags.ResolvSolid)
	obj.SetShape(resolv.NewRectangle(0, 0, w*a.Scale, d*a.Scale))
	a.Space.Add(obj)
}

// ToSpace converts a world coordinate in metres to space units.
func (a *Arena) ToSpace(m float64) float64 {
	return (m + arenaMargin) * a.Scale
}

// FromSpace converts space units back to metres.
func (a *Arena) FromSpace(u float64) float64 {
	return u/a.Scale - arenaMargin
}

// SpawnPoint returns the spawn point for the n-th joining player.
func (a *Arena) SpawnPoint(n int) gamemath.Vec3 {
	if len(a.SpawnPoints) == 0 {
		return gamemath.Vec3{X: a.Width / 2, Z: a.Depth / 2}
	}
	return a.SpawnPoints[n%len(a.SpawnPoints)]
}

// LoadArenas loads all .tmx arenas under dir in fsys.
func LoadArenas(fsys fs.FS, dir string) (map[string]*Arena, []string, error) {
	dataMap, names, err := leveldata.LoadAllArenas(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load all arenas: %w", err)
	}

	arenas := make(map[string]*Arena, len(names))
	for _, name := range names {
		arenas[name] = NewArena(name, dataMap[name])
	}
	return arenas, names, nil
}

// SelectArena picks name from arenas. An empty name picks the first arena.
func SelectArena(arenas map[string]*Arena, names []string, name string) (*Arena, error) {
	if name == "" && len(names) > 0 {
		name = names[0]
	}
	a, ok := arenas[name]
	if !ok {
		return nil, fmt.Errorf("select arena %q: %w", name, ErrUnknownLevel)
	}
	return a, nil
}
