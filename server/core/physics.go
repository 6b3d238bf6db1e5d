package core

import (
	"math"

	"github.com/automoto/splatvr/combat"
	"github.com/automoto/splatvr/components"
	"github.com/automoto/splatvr/shared/gamemath"
	"github.com/automoto/splatvr/tags"
	"github.com/solarlune/resolv"
	"github.com/yohamta/donburi"
)

// wallHeight is the vertical extent given to arena walls.
const wallHeight = 100.0

var bodyTags = []string{tags.ResolvSolid, tags.ResolvPlayer, tags.ResolvShield, tags.ResolvBullet}

// RayHit is the first body a ray touches.
type RayHit struct {
	Entity   donburi.Entity // donburi.Null for walls and the floor
	Tag      string
	Point    gamemath.Vec3
	Normal   gamemath.Vec3
	Distance float64
}

// Physics detects contacts in an arena. It does not solve motion: callers
// move bodies and ask what a movement touched. The resolv space is only a
// broadphase; contacts are confirmed against each body's box including its
// vertical extent.
type Physics struct {
	world donburi.World
	arena *Arena
}

func NewPhysics(world donburi.World, arena *Arena) *Physics {
	return &Physics{world: world, arena: arena}
}

// Arena returns the arena the bodies live in.
func (p *Physics) Arena() *Arena {
	return p.arena
}

// AddBody gives entry a collision body with a w by d metre footprint.
func (p *Physics) AddBody(entry *donburi.Entry, tag string, w, d float64) {
	sw, sd := w*p.arena.Scale, d*p.arena.Scale
	obj := resolv.NewObject(0, 0, sw, sd, tag)
	obj.SetShape(resolv.NewRectangle(0, 0, sw, sd))
	obj.Data = entry
	p.arena.Space.Add(obj)

	if !entry.HasComponent(components.Object) {
		entry.AddComponent(components.Object)
	}
	components.Object.SetValue(entry, components.ObjectData{Object: obj})
}

// PlaceBody centres entry's footprint on centre and sets its vertical extent.
func (p *Physics) PlaceBody(entry *donburi.Entry, centre gamemath.Vec3, bottom, top float64) {
	if !entry.HasComponent(components.Object) {
		return
	}
	o := components.Object.Get(entry)
	o.X = p.arena.ToSpace(centre.X) - o.W/2
	o.Y = p.arena.ToSpace(centre.Z) - o.H/2
	o.Bottom, o.Top = bottom, top
	o.Update()
}

// PlacePoint centres a body on centre with a vertical extent equal to its
// footprint width.
func (p *Physics) PlacePoint(entry *donburi.Entry, centre gamemath.Vec3) {
	if !entry.HasComponent(components.Object) {
		return
	}
	r := components.Object.Get(entry).W / p.arena.Scale / 2
	p.PlaceBody(entry, centre, centre.Y-r, centre.Y+r)
}

// RemoveBody takes entry's body out of the space. Safe to call twice.
func (p *Physics) RemoveBody(entry *donburi.Entry) {
	if entry == nil || !entry.Valid() || !entry.HasComponent(components.Object) {
		return
	}
	if o := components.Object.Get(entry); o.Object != nil {
		p.arena.Space.Remove(o.Object)
	}
	entry.RemoveComponent(components.Object)
}

// Sweep reports the first contact of a projectile moving from one point to
// another. Bodies belonging to owner, and projectiles fired by owner, are
// never reported.
func (p *Physics) Sweep(entry *donburi.Entry, from, to gamemath.Vec3, owner donburi.Entity) (combat.Collision, bool) {
	radius := 0.0
	if entry.HasComponent(components.Object) {
		o := components.Object.Get(entry)
		radius = o.W / p.arena.Scale / 2
	}

	delta := to.Sub(from)
	best := math.Inf(1)
	var hit combat.Collision

	for _, obj := range p.candidates(from, to, radius) {
		other, tag, lo, hi, ok := p.bodyOf(obj)
		if !ok || (other != nil && other.Entity() == entry.Entity()) {
			continue
		}
		if other != nil && p.ownedBy(other, tag, owner) {
			continue
		}

		pad := gamemath.Vec3{X: radius, Y: radius, Z: radius}
		t, normal, ok := segmentBox(from, delta, lo.Sub(pad), hi.Add(pad))
		if !ok || t >= best {
			continue
		}
		best = t
		hit = combat.Collision{
			Tag:    tag,
			Target: entityOf(other),
			Point:  from.Add(delta.Scale(t)),
			Normal: normal,
		}
	}

	if t, ok := floorContact(from, to); ok && t < best {
		best = t
		point := from.Add(delta.Scale(t))
		point.Y = 0
		hit = combat.Collision{Tag: tags.ResolvGround, Target: donburi.Null, Point: point, Normal: gamemath.Up}
	}

	return hit, !math.IsInf(best, 1)
}

// Raycast returns the first wall, floor or body along a ray of the given
// length. Bodies whose root is ignore are skipped. Projectiles are never hit.
func (p *Physics) Raycast(from, dir gamemath.Vec3, length float64, ignore donburi.Entity) (RayHit, bool) {
	dir = dir.Normalized()
	if dir == (gamemath.Vec3{}) || length <= 0 {
		return RayHit{}, false
	}
	to := from.Add(dir.Scale(length))
	delta := to.Sub(from)

	best := math.Inf(1)
	var hit RayHit

	for _, obj := range p.candidates(from, to, 0) {
		other, tag, lo, hi, ok := p.bodyOf(obj)
		if !ok || tag == tags.ResolvBullet {
			continue
		}
		if other != nil && ignore != donburi.Null && combat.Root(p.world, other.Entity()) == ignore {
			continue
		}
		t, normal, ok := segmentBox(from, delta, lo, hi)
		if !ok || t >= best {
			continue
		}
		best = t
		hit = RayHit{Entity: entityOf(other), Tag: tag, Point: from.Add(delta.Scale(t)), Normal: normal}
	}

	if t, ok := floorContact(from, to); ok && t < best {
		best = t
		point := from.Add(delta.Scale(t))
		point.Y = 0
		hit = RayHit{Entity: donburi.Null, Tag: tags.ResolvGround, Point: point, Normal: gamemath.Up}
	}

	if math.IsInf(best, 1) {
		return RayHit{}, false
	}
	hit.Distance = best * length
	return hit, true
}

// candidates returns every body sharing a space cell with the floor-plane
// bounding box of the segment, padded by pad metres.
func (p *Physics) candidates(from, to gamemath.Vec3, pad float64) []*resolv.Object {
	minX, maxX := math.Min(from.X, to.X)-pad, math.Max(from.X, to.X)+pad
	minZ, maxZ := math.Min(from.Z, to.Z)-pad, math.Max(from.Z, to.Z)+pad
	w := math.Max((maxX-minX)*p.arena.Scale, 1)
	d := math.Max((maxZ-minZ)*p.arena.Scale, 1)

	probe := resolv.NewObject(p.arena.ToSpace(minX), p.arena.ToSpace(minZ), w, d)
	p.arena.Space.Add(probe)
	defer p.arena.Space.Remove(probe)

	check := probe.Check(0, 0, bodyTags...)
	if check == nil {
		return nil
	}
	return check.ObjectsByTags(bodyTags...)
}

// bodyOf returns the entry behind obj (nil for walls), its tag and its box in
// metres.
func (p *Physics) bodyOf(obj *resolv.Object) (*donburi.Entry, string, gamemath.Vec3, gamemath.Vec3, bool) {
	tag := ""
	for _, t := range bodyTags {
		if obj.HasTags(t) {
			tag = t
			break
		}
	}

	bottom, top := 0.0, wallHeight
	entry, _ := obj.Data.(*donburi.Entry)
	if entry != nil {
		if !entry.Valid() || !entry.HasComponent(components.Object) {
			return nil, "", gamemath.Vec3{}, gamemath.Vec3{}, false
		}
		o := components.Object.Get(entry)
		bottom, top = o.Bottom, o.Top
	}

	lo := gamemath.Vec3{X: p.arena.FromSpace(obj.X), Y: bottom, Z: p.arena.FromSpace(obj.Y)}
	hi := gamemath.Vec3{X: p.arena.FromSpace(obj.X + obj.W), Y: top, Z: p.arena.FromSpace(obj.Y + obj.H)}
	return entry, tag, lo, hi, true
}

// ownedBy reports whether other belongs to owner: one of owner's own bodies,
// or a projectile owner fired. Projectiles that are already spent are treated
// the same way so they cannot be hit again.
func (p *Physics) ownedBy(other *donburi.Entry, tag string, owner donburi.Entity) bool {
	if tag == tags.ResolvBullet && other.HasComponent(components.Projectile) {
		proj := components.Projectile.Get(other)
		return proj.OwnerEntity == owner || proj.HasHit || !proj.State.Live()
	}
	return owner != donburi.Null && combat.Root(p.world, other.Entity()) == owner
}

func entityOf(entry *donburi.Entry) donburi.Entity {
	if entry == nil {
		return donburi.Null
	}
	return entry.Entity()
}

// floorContact returns where along from->to the segment reaches y=0.
func floorContact(from, to gamemath.Vec3) (float64, bool) {
	if to.Y > 0 {
		return 0, false
	}
	if from.Y <= 0 {
		return 0, true
	}
	return from.Y / (from.Y - to.Y), true
}

// segmentBox intersects the segment from + delta*t, t in [0,1], with the box
// lo..hi using the slab method. It returns the entry time and the normal of
// the face entered. A segment starting inside the box enters at t=0 facing
// back along delta.
func segmentBox(from, delta, lo, hi gamemath.Vec3) (float64, gamemath.Vec3, bool) {
	axes := [3]struct {
		origin, dir, lo, hi float64
		axis                gamemath.Vec3
	}{
		{from.X, delta.X, lo.X, hi.X, gamemath.Right},
		{from.Y, delta.Y, lo.Y, hi.Y, gamemath.Up},
		{from.Z, delta.Z, lo.Z, hi.Z, gamemath.Forward},
	}

	tmin, tmax := 0.0, 1.0
	var normal gamemath.Vec3
	for _, a := range axes {
		if math.Abs(a.dir) < 1e-12 {
			if a.origin < a.lo || a.origin > a.hi {
				return 0, gamemath.Vec3{}, false
			}
			continue
		}
		t1 := (a.lo - a.origin) / a.dir
		t2 := (a.hi - a.origin) / a.dir
		n := a.axis.Scale(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			n = a.axis
		}
		if t1 > tmin {
			tmin = t1
			normal = n
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, gamemath.Vec3{}, false
		}
	}

	if normal == (gamemath.Vec3{}) {
		normal = delta.Normalized().Scale(-1)
	}
	return tmin, normal, true
}
