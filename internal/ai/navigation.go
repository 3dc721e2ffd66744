package ai

import (
	"log/slog"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// NavigateTo moves c one frame toward dest and reports arrival. Arrival
// is within arrival of dest on the ground plane; on arrival movement stops
// and the cached path is dropped. A cached path is reused when it leads to
// dest or is younger than PathKeepDuration; otherwise it is recomputed.
// A blocked step leaves the path in place and is retried next frame.
func (e *Executor) NavigateTo(c *model.Creature, dest geom.Vec3, run bool, arrival, dt float64) bool {
	if c.MovementRestricted() {
		return false
	}
	if geom.DistanceSquared2D(c.Position(), dest) <= arrival*arrival {
		c.SetMovementType(model.MovementNone)
		c.ClearPath()
		return true
	}

	now := e.world.Time()
	path := c.Path()
	if path == nil || (path.Destination != dest && now-path.FoundAt > e.params.PathKeepDuration) {
		e.updatePath(c, dest, now)
	}
	e.advanceOnPath(c, run, dt)
	return false
}

// updatePath replaces the cached path. When the new route passes through
// the old path's current target the cursor starts there, so the creature
// does not double back.
func (e *Executor) updatePath(c *model.Creature, dest geom.Vec3, now float64) {
	points := e.paths.FindPath(c.Position(), dest)
	idx := 0
	if old := c.Path(); old != nil && !old.Exhausted() {
		if i := indexOf(points, old.Points[old.PointIdx]); i >= 0 {
			idx = i
		}
	}
	c.SetPath(&model.Path{
		Destination: dest,
		Points:      points,
		FoundAt:     now,
		PointIdx:    idx,
	})

	if IsDebugEnabled() {
		slog.Debug("path computed",
			"objectID", c.ObjectID(),
			"points", len(points),
			"cursor", idx)
	}
}

// advanceOnPath takes one step along the cached path. Once the literal
// destination is nearer than the next path point, remaining points are
// skipped.
func (e *Executor) advanceOnPath(c *model.Creature, run bool, dt float64) {
	path := c.Path()
	pos := c.Position()

	var target geom.Vec3
	var dist2 float64
	if path.Exhausted() {
		target = path.Destination
		dist2 = geom.DistanceSquared2D(pos, target)
	} else {
		next := path.Points[path.PointIdx]
		toNext := geom.DistanceSquared2D(pos, next)
		toDest := geom.DistanceSquared2D(pos, path.Destination)
		if toDest < toNext {
			target, dist2 = path.Destination, toDest
			path.PointIdx = len(path.Points)
		} else {
			target, dist2 = next, toNext
		}
	}

	reached := e.params.PathPointReached
	switch {
	case dist2 <= reached*reached && !path.Exhausted():
		path.SelectNextPoint()
	case e.world.MoveCreatureTowards(c, target, run, dt):
		if run {
			c.SetMovementType(model.MovementRun)
		} else {
			c.SetMovementType(model.MovementWalk)
		}
	default:
		c.SetMovementType(model.MovementNone)
	}
}

func indexOf(points []geom.Vec3, p geom.Vec3) int {
	for i, pt := range points {
		if pt == p {
			return i
		}
	}
	return -1
}
