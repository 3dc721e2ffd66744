// Package selection keeps the highlighted and selected object cursors and
// answers picking queries.
package selection

import (
	"cmp"
	"math"
	"slices"

	"github.com/udisondev/areasim/internal/collision"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// Scene is the object lookup the selector needs.
type Scene interface {
	Object(id uint32) (model.Object, bool)
	// Objects returns live objects in ascending id order.
	Objects() []model.Object
}

// Occluder answers line-of-sight queries. *collision.Service implements it.
type Occluder interface {
	TestLineOfSight(a, b geom.Vec3) (collision.Collision, bool)
}

// Camera converts a screen position into a world ray.
type Camera interface {
	Unproject(screenX, screenY int) (origin, dir geom.Vec3)
}

// Params tune selection.
type Params struct {
	// SelectionDistance is the radius around the origin object.
	SelectionDistance float64
	// EyeHeight is added to the origin position for visibility tests.
	EyeHeight float64
}

func DefaultParams() Params {
	return Params{SelectionDistance: 64, EyeHeight: 1.7}
}

// Selector holds at most one highlighted and one selected object, by id.
// Ids are weak: they are revalidated against the scene on every Update.
type Selector struct {
	scene    Scene
	occluder Occluder
	params   Params

	highlighted uint32
	selected    uint32
}

// New creates a selector. occluder may be nil, in which case nothing
// blocks the view.
func New(scene Scene, occluder Occluder, params Params) *Selector {
	return &Selector{scene: scene, occluder: occluder, params: params}
}

// Highlighted returns the highlighted object id or 0.
func (s *Selector) Highlighted() uint32 {
	return s.highlighted
}

// Selected returns the selected object id or 0.
func (s *Selector) Selected() uint32 {
	return s.selected
}

// Highlight sets the highlighted id; 0 clears it.
func (s *Selector) Highlight(id uint32) {
	s.highlighted = id
}

// Select sets the selected id; 0 clears it.
func (s *Selector) Select(id uint32) {
	s.selected = id
}

// Clear drops both cursors.
func (s *Selector) Clear() {
	s.highlighted = 0
	s.selected = 0
}

// Forget drops id from both cursors. Called on destruction.
func (s *Selector) Forget(id uint32) {
	if s.highlighted == id {
		s.highlighted = 0
	}
	if s.selected == id {
		s.selected = 0
	}
}

// SelectableObjects returns objects around origin that are selectable,
// visible and within the selection distance, nearest first. Equal
// distances are ordered by id. origin itself is excluded.
func (s *Selector) SelectableObjects(origin model.Object) []model.Object {
	if origin == nil {
		return nil
	}
	center := origin.Base().Position()
	max2 := s.params.SelectionDistance * s.params.SelectionDistance

	type candidate struct {
		obj   model.Object
		dist2 float64
	}
	var candidates []candidate
	for _, obj := range s.scene.Objects() {
		if obj.ObjectID() == origin.ObjectID() || !obj.Selectable() || !obj.Base().Visible() {
			continue
		}
		d2 := geom.DistanceSquared(center, obj.Base().Position())
		if d2 > max2 {
			continue
		}
		candidates = append(candidates, candidate{obj, d2})
	}
	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(a.dist2, b.dist2); c != 0 {
			return c
		}
		return cmp.Compare(a.obj.ObjectID(), b.obj.ObjectID())
	})

	out := make([]model.Object, len(candidates))
	for i, c := range candidates {
		out[i] = c.obj
	}
	return out
}

// SelectNext cycles the selection through SelectableObjects(origin),
// wrapping at both ends. With nothing selected it picks the nearest.
func (s *Selector) SelectNext(origin model.Object, reverse bool) {
	list := s.SelectableObjects(origin)
	if len(list) == 0 {
		s.selected = 0
		return
	}
	idx := slices.IndexFunc(list, func(o model.Object) bool { return o.ObjectID() == s.selected })
	if s.selected == 0 || idx < 0 {
		s.selected = list[0].ObjectID()
		return
	}
	if reverse {
		idx = (idx - 1 + len(list)) % len(list)
	} else {
		idx = (idx + 1) % len(list)
	}
	s.selected = list[idx].ObjectID()
}

// Update revalidates both cursors against origin. A reference is dropped
// when its object is gone, no longer selectable, out of range, or hidden
// behind geometry or another object. With a nil origin only liveness and
// selectability are checked.
func (s *Selector) Update(origin model.Object) {
	if s.highlighted != 0 && !s.valid(s.highlighted, origin) {
		s.highlighted = 0
	}
	if s.selected != 0 && !s.valid(s.selected, origin) {
		s.selected = 0
	}
}

func (s *Selector) valid(id uint32, origin model.Object) bool {
	obj, ok := s.scene.Object(id)
	if !ok || !obj.Selectable() || !obj.Base().Visible() {
		return false
	}
	if origin == nil {
		return true
	}
	from := origin.Base().Position()
	to := obj.Base().Position()
	if geom.DistanceSquared(from, to) > s.params.SelectionDistance*s.params.SelectionDistance {
		return false
	}
	if s.occluder == nil {
		return true
	}
	eye := from.Add(geom.Up.Scale(s.params.EyeHeight))
	hit, blocked := s.occluder.TestLineOfSight(eye, aimPoint(obj, s.params.EyeHeight))
	return !blocked || hit.ObjectID == id
}

// aimPoint is the bounds center, or the position raised to eye height.
func aimPoint(obj model.Object, eyeHeight float64) geom.Vec3 {
	b := obj.Base().WorldBounds()
	if !b.IsEmpty() {
		return b.Min.Add(b.Max).Scale(0.5)
	}
	return obj.Base().Position().Add(geom.Up.Scale(eyeHeight))
}

// ObjectAt returns the nearest selectable, visible object under the
// screen position. leader is never picked. Bounds are tested first;
// objects without bounds are tested by walkmesh. Returns 0 on a miss.
func (s *Selector) ObjectAt(cam Camera, screenX, screenY int, leader model.Object) uint32 {
	if cam == nil {
		return 0
	}
	origin, dir := cam.Unproject(screenX, screenY)

	var leaderID uint32
	if leader != nil {
		leaderID = leader.ObjectID()
	}

	best := uint32(0)
	bestDist := math.Inf(1)
	for _, obj := range s.scene.Objects() {
		if obj.ObjectID() == leaderID || !obj.Selectable() || !obj.Base().Visible() {
			continue
		}
		dist, ok := rayHit(obj.Base(), origin, dir)
		if ok && dist < bestDist {
			best, bestDist = obj.ObjectID(), dist
		}
	}
	return best
}

func rayHit(obj *model.WorldObject, origin, dir geom.Vec3) (float64, bool) {
	if b := obj.WorldBounds(); !b.IsEmpty() {
		return b.RayIntersect(origin, dir)
	}
	wm := obj.Walkmesh()
	if wm == nil {
		return 0, false
	}
	tr := obj.Transform()
	lo, ld := tr.ToLocal(origin), tr.DirToLocal(dir)

	dist, hit := math.Inf(1), false
	if d, _, ok := wm.RaycastWalkableFirst(lo, ld); ok {
		dist, hit = d, true
	}
	if d, _, ok := wm.RaycastNonWalkableClosest(lo, ld); ok && d < dist {
		dist, hit = d, true
	}
	return dist, hit
}
