package area

import (
	"log/slog"

	"github.com/udisondev/areasim/internal/ai"
	"github.com/udisondev/areasim/internal/collision"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// minSlide is the shortest slide vector worth retrying a blocked move with.
const minSlide = 1e-3

// MoveCreature steps c along dir (2D, need not be normalized) by its
// speed * dt. A step blocked by a wall is retried along the wall; the
// creature stays put when both fail.
func (a *Area) MoveCreature(c *model.Creature, dir geom.Vec3, run bool, dt float64) bool {
	dir = dir.XY()
	if dir.IsZero() || dt <= 0 {
		return false
	}
	return a.moveBy(c, dir.Normalize(), c.Speed(run)*dt)
}

// MoveCreatureTowards steps c toward dest, never overshooting it.
// Implements ai.World.
func (a *Area) MoveCreatureTowards(c *model.Creature, dest geom.Vec3, run bool, dt float64) bool {
	delta := dest.Sub(c.Position()).XY()
	dist := delta.Len()
	if dist == 0 {
		return true
	}
	step := min(c.Speed(run)*dt, dist)
	return a.moveBy(c, delta.Scale(1/dist), step)
}

func (a *Area) moveBy(c *model.Creature, dir geom.Vec3, step float64) bool {
	if step <= 0 {
		return false
	}
	c.SetFacing(geom.Facing(dir))

	hit, ok := a.tryStep(c, dir, step)
	if ok {
		return true
	}

	// Slide along the wall: drop the component of dir that goes into it.
	n := hit.Normal.XY()
	if n.IsZero() {
		return false
	}
	n = n.Normalize()
	slide := dir.Sub(n.Scale(dir.Dot(n)))
	if slide.Len() < minSlide {
		return false
	}
	_, ok = a.tryStep(c, slide.Normalize(), step*slide.Len())
	if !ok && ai.IsDebugEnabled() {
		slog.Debug("creature blocked", "id", c.ObjectID(), "position", c.Position())
	}
	return ok
}

// tryStep moves c by dir*step if the way is clear and ground exists there.
// On a wall hit the collision is returned with ok=false.
func (a *Area) tryStep(c *model.Creature, dir geom.Vec3, step float64) (collision.Collision, bool) {
	radius := a.services.Params.CreatureCollisionRadius
	pos := c.Position()
	knee := geom.V(0, 0, radius)

	// Probe slightly past the step so the body keeps clear of walls.
	probe := pos.Add(dir.Scale(step + radius))
	if hit, blocked := a.collision.TestWalk(pos.Add(knee), probe.Add(knee), c); blocked {
		return hit, false
	}

	dest := pos.Add(dir.Scale(step))
	ground, ok := a.collision.TestElevation(dest)
	if !ok {
		return collision.Collision{}, false
	}
	c.SetPosition(ground.Point)
	a.setRoom(c, ground.Room)
	return ground, true
}

// Teleport places obj at loc, snapping to the ground when any.
// Implements ai.World.
func (a *Area) Teleport(obj model.Object, loc model.Location) bool {
	base := obj.Base()
	base.SetPosition(loc.Position)
	base.SetFacing(loc.Facing)
	ground, ok := a.collision.TestElevation(loc.Position)
	if ok {
		base.SetPosition(ground.Point)
		a.setRoom(obj, ground.Room)
		return true
	}
	a.setRoom(obj, "")
	return false
}

// snapToGround drops obj onto the walkmesh under it and updates its room.
func (a *Area) snapToGround(obj model.Object) {
	ground, ok := a.collision.TestElevation(obj.Base().Position())
	if !ok {
		slog.Warn("object placed off the walkmesh",
			"area", a.name,
			"id", obj.ObjectID(),
			"tag", obj.Tag(),
			"position", obj.Base().Position())
		a.setRoom(obj, "")
		return
	}
	obj.Base().SetPosition(ground.Point)
	a.setRoom(obj, ground.Room)
}

// updateRoom recomputes the room of a static object from its position.
func (a *Area) updateRoom(obj model.Object) {
	ground, ok := a.collision.TestElevation(obj.Base().Position())
	if !ok {
		a.setRoom(obj, a.roomContaining(obj.Base().Position()))
		return
	}
	a.setRoom(obj, ground.Room)
}

// roomContaining falls back to 2D room bounds for points the elevation
// probe cannot reach (objects standing on their own walkmesh).
func (a *Area) roomContaining(p geom.Vec3) string {
	for _, r := range a.rooms {
		b := r.WorldBounds()
		if b.IsEmpty() {
			continue
		}
		if p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y {
			return r.Name()
		}
	}
	return ""
}

// setRoom moves obj's tenancy from its current room to name.
func (a *Area) setRoom(obj model.Object, name string) {
	base := obj.Base()
	old := base.Room()
	if old == name {
		return
	}
	if r, ok := a.roomByName[old]; ok {
		r.RemoveTenant(obj.ObjectID())
	}
	if r, ok := a.roomByName[name]; ok {
		r.AddTenant(obj.ObjectID())
	}
	base.SetRoom(name)
}
