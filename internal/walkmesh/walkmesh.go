// Package walkmesh implements the static collision surface of rooms,
// doors and placeables. Faces are split once into walkable and
// non-walkable sets by their surface material.
package walkmesh

import (
	"math"

	"github.com/udisondev/areasim/internal/geom"
)

// Face is one triangle of a walkmesh, in object-local space.
// Material is only meaningful for walkable faces.
type Face struct {
	Index    int
	Material int
	Vertices [3]geom.Vec3
	Normal   geom.Vec3
}

// NewFace builds a face and precomputes its normal.
func NewFace(index, material int, a, b, c geom.Vec3) Face {
	return Face{
		Index:    index,
		Material: material,
		Vertices: [3]geom.Vec3{a, b, c},
		Normal:   geom.TriangleNormal(a, b, c),
	}
}

// WalkableFunc decides whether a surface material can be walked on.
type WalkableFunc func(material int) bool

// Walkmesh holds two disjoint face sets. Immutable after New.
type Walkmesh struct {
	walkable    []Face
	nonWalkable []Face
	bounds      geom.AABB
}

// New partitions faces using walkable. A nil walkable treats every face as non-walkable.
func New(faces []Face, walkable WalkableFunc) *Walkmesh {
	w := &Walkmesh{bounds: geom.EmptyAABB()}
	for _, f := range faces {
		if walkable != nil && walkable(f.Material) {
			w.walkable = append(w.walkable, f)
		} else {
			w.nonWalkable = append(w.nonWalkable, f)
		}
		for _, v := range f.Vertices {
			w.bounds = w.bounds.Extend(v)
		}
	}
	return w
}

// Walkable returns the walkable faces (do not modify).
func (w *Walkmesh) Walkable() []Face {
	return w.walkable
}

// NonWalkable returns the non-walkable faces (do not modify).
func (w *Walkmesh) NonWalkable() []Face {
	return w.nonWalkable
}

// Bounds returns the local-space bounding box of all faces.
func (w *Walkmesh) Bounds() geom.AABB {
	return w.bounds
}

// RaycastWalkableFirst returns the first walkable face hit in face order.
// There is no closest-hit guarantee; it is meant for straight-down probes.
func (w *Walkmesh) RaycastWalkableFirst(origin, dir geom.Vec3) (distance float64, material int, ok bool) {
	for i := range w.walkable {
		f := &w.walkable[i]
		if d, hit := raycastFace(f, origin, dir); hit {
			return d, f.Material, true
		}
	}
	return 0, 0, false
}

// RaycastNonWalkableFirst returns the first non-walkable face hit in face order.
func (w *Walkmesh) RaycastNonWalkableFirst(origin, dir geom.Vec3) (distance float64, normal geom.Vec3, ok bool) {
	for i := range w.nonWalkable {
		f := &w.nonWalkable[i]
		if d, hit := raycastFace(f, origin, dir); hit {
			return d, f.Normal, true
		}
	}
	return 0, geom.Vec3{}, false
}

// RaycastNonWalkableClosest returns the nearest non-walkable face hit.
func (w *Walkmesh) RaycastNonWalkableClosest(origin, dir geom.Vec3) (distance float64, normal geom.Vec3, ok bool) {
	best := math.Inf(1)
	for i := range w.nonWalkable {
		f := &w.nonWalkable[i]
		if d, hit := raycastFace(f, origin, dir); hit && d < best {
			best = d
			normal = f.Normal
			ok = true
		}
	}
	if !ok {
		return 0, geom.Vec3{}, false
	}
	return best, normal, true
}

// raycastFace rejects hits at or behind the origin.
func raycastFace(f *Face, origin, dir geom.Vec3) (float64, bool) {
	d, hit := geom.RayTriangle(origin, dir, f.Vertices[0], f.Vertices[1], f.Vertices[2])
	if !hit || d <= 0 {
		return 0, false
	}
	return d, true
}
