// Package collision answers ground-height, walk and line-of-sight queries
// against room walkmeshes and the walkmeshes of doors and placeables.
package collision

import (
	"math"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/walkmesh"
)

// Scene is the read-only view of an area the service queries.
type Scene interface {
	// Rooms returns rooms in layout order.
	Rooms() []*model.Room
	// Obstacles returns objects that carry a walkmesh (doors, placeables).
	Obstacles() []model.Object
}

// Params bounds the cost of every query.
type Params struct {
	// ElevationTestZ is the height elevation probes start from.
	ElevationTestZ float64
	// MaxCollisionDistance skips objects and rooms farther than this from
	// the query origin in elevation and walk tests.
	MaxCollisionDistance float64
	// LineOfSightDistance is the cutoff for line-of-sight tests.
	LineOfSightDistance float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		ElevationTestZ:       1024,
		MaxCollisionDistance: 8,
		LineOfSightDistance:  64,
	}
}

// Collision describes a hit.
type Collision struct {
	Point    geom.Vec3
	Normal   geom.Vec3
	Distance float64
	// Material is set by elevation tests.
	Material int
	// Room is the room whose walkmesh was hit, or "".
	Room string
	// ObjectID is the object whose walkmesh was hit, or 0 for rooms.
	ObjectID uint32
}

// Service runs collision queries over a Scene.
type Service struct {
	scene  Scene
	params Params
}

// NewService creates a collision service.
func NewService(scene Scene, params Params) *Service {
	return &Service{scene: scene, params: params}
}

// Params returns the service tuning.
func (s *Service) Params() Params {
	return s.params
}

// TestElevation probes straight down at (point.X, point.Y). It fails when
// a nearby object's non-walkable face occludes the probe or when no room
// claims the point. On success the collision carries the ground point,
// material and room.
func (s *Service) TestElevation(point geom.Vec3) (Collision, bool) {
	origin := geom.V(point.X, point.Y, s.params.ElevationTestZ)
	maxDist2 := s.params.MaxCollisionDistance * s.params.MaxCollisionDistance

	for _, obj := range s.scene.Obstacles() {
		base := obj.Base()
		wm := base.Walkmesh()
		if wm == nil || !blocking(obj) {
			continue
		}
		if geom.DistanceSquared2D(base.Position(), origin) > maxDist2 {
			continue
		}
		tr := base.Transform()
		if _, _, hit := wm.RaycastNonWalkableFirst(tr.ToLocal(origin), tr.DirToLocal(geom.Down)); hit {
			return Collision{}, false
		}
	}

	best := Collision{Distance: math.Inf(1)}
	found := false
	for _, room := range s.scene.Rooms() {
		wm := room.Walkmesh()
		if wm == nil {
			continue
		}
		if distanceSquared2DToBox(room.WorldBounds(), origin) > maxDist2 {
			continue
		}
		tr := room.Transform()
		dist, material, hit := wm.RaycastWalkableFirst(tr.ToLocal(origin), geom.Down)
		if !hit || dist >= best.Distance {
			continue
		}
		best = Collision{
			Point:    origin.Add(geom.Down.Scale(dist)),
			Normal:   geom.Up,
			Distance: dist,
			Material: material,
			Room:     room.Name(),
		}
		found = true
	}
	return best, found
}

// TestWalk tests the segment origin->dest against non-walkable room faces
// and the walkmeshes of solid objects other than mover. Returns the
// nearest hit; its normal lets the mover slide along the wall.
func (s *Service) TestWalk(origin, dest geom.Vec3, mover model.Object) (Collision, bool) {
	var moverID uint32
	if mover != nil {
		moverID = mover.ObjectID()
	}
	return s.testSegment(origin, dest, s.params.MaxCollisionDistance, func(obj model.Object) bool {
		return obj.ObjectID() != moverID
	})
}

// TestLineOfSight tests a-b against non-walkable room faces and closed
// doors only.
func (s *Service) TestLineOfSight(a, b geom.Vec3) (Collision, bool) {
	return s.testSegment(a, b, s.params.LineOfSightDistance, func(obj model.Object) bool {
		return obj.Type() == model.ObjectTypeDoor
	})
}

func (s *Service) testSegment(origin, dest geom.Vec3, cutoff float64, include func(model.Object) bool) (Collision, bool) {
	delta := dest.Sub(origin)
	maxDistance := delta.Len()
	if maxDistance == 0 {
		return Collision{}, false
	}
	dir := delta.Scale(1 / maxDistance)
	cutoff2 := cutoff * cutoff

	best := Collision{Distance: math.Inf(1)}
	found := false
	consider := func(wm *walkmesh.Walkmesh, tr geom.Transform) (geom.Vec3, float64, bool) {
		dist, normal, hit := wm.RaycastNonWalkableClosest(tr.ToLocal(origin), tr.DirToLocal(dir))
		if !hit || dist > maxDistance || dist >= best.Distance {
			return geom.Vec3{}, 0, false
		}
		return tr.DirToWorld(normal), dist, true
	}

	for _, obj := range s.scene.Obstacles() {
		base := obj.Base()
		wm := base.Walkmesh()
		if wm == nil || !blocking(obj) || !include(obj) {
			continue
		}
		if geom.DistanceSquared(base.Position(), origin) > cutoff2 {
			continue
		}
		if normal, dist, ok := consider(wm, base.Transform()); ok {
			best = Collision{
				Point:    origin.Add(dir.Scale(dist)),
				Normal:   normal,
				Distance: dist,
				ObjectID: obj.ObjectID(),
			}
			found = true
		}
	}

	for _, room := range s.scene.Rooms() {
		wm := room.Walkmesh()
		if wm == nil {
			continue
		}
		if room.WorldBounds().DistanceSquaredTo(origin) > cutoff2 {
			continue
		}
		if normal, dist, ok := consider(wm, room.Transform()); ok {
			best = Collision{
				Point:    origin.Add(dir.Scale(dist)),
				Normal:   normal,
				Distance: dist,
				Room:     room.Name(),
			}
			found = true
		}
	}

	return best, found
}

// blocking: open doors do not collide.
func blocking(obj model.Object) bool {
	if door, ok := obj.(*model.Door); ok {
		return !door.IsOpen()
	}
	return true
}

func distanceSquared2DToBox(b geom.AABB, p geom.Vec3) float64 {
	if b.IsEmpty() {
		return math.Inf(1)
	}
	flat := geom.AABB{
		Min: geom.V(b.Min.X, b.Min.Y, 0),
		Max: geom.V(b.Max.X, b.Max.Y, 0),
	}
	return flat.DistanceSquaredTo(geom.V(p.X, p.Y, 0))
}
