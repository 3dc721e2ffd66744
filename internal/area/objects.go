package area

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
)

// CreateObject spawns a blueprint at loc and adds it to the area. The
// object's OnSpawn script runs before CreateObject returns.
func (a *Area) CreateObject(ctx context.Context, kind model.ObjectType, resref string, loc model.Location) (model.Object, error) {
	if kind == model.ObjectTypeInvalid || kind == model.ObjectTypeCamera {
		return nil, fmt.Errorf("creating %s %q: %w", kind, resref, ErrUnknownObjectType)
	}
	obj, err := a.factory.Spawn(ctx, kind, level.Placement{
		Blueprint: resref,
		Position:  loc.Position,
		Facing:    loc.Facing,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s in area %s: %w", kind, a.name, err)
	}
	if err := a.add(obj); err != nil {
		return nil, fmt.Errorf("creating %s in area %s: %w", kind, a.name, err)
	}
	a.runObjectScript(obj, model.ScriptOnSpawn, 0)
	return obj, nil
}

// DestroyObject queues id for removal at the top of the next Update.
// Returns false when id is unknown or already queued.
func (a *Area) DestroyObject(id uint32) bool {
	return a.registry.MarkForDestruction(id)
}

// ObjectByTag returns the nth (0-based) live object carrying tag. Objects
// queued for destruction are skipped.
func (a *Area) ObjectByTag(tag string, nth int) (model.Object, bool) {
	if nth < 0 {
		return nil, false
	}
	for i := range a.registry.TagCount(tag) {
		obj, _ := a.registry.ByTag(tag, i)
		if a.registry.IsMarked(obj.ObjectID()) {
			continue
		}
		if nth == 0 {
			return obj, true
		}
		nth--
	}
	return nil, false
}

// ObjectsByType returns a copy of the objects of kind t in ascending id order.
func (a *Area) ObjectsByType(t model.ObjectType) []model.Object {
	objs := slices.Clone(a.registry.ByType(t))
	slices.SortFunc(objs, func(x, y model.Object) int {
		return cmp.Compare(x.ObjectID(), y.ObjectID())
	})
	return objs
}

// NearestObject returns the nth (0-based) object nearest to origin that
// satisfies pred (nil accepts all). Equal distances resolve to the lower id.
func (a *Area) NearestObject(origin geom.Vec3, nth int, pred func(model.Object) bool) (model.Object, bool) {
	type candidate struct {
		obj  model.Object
		dist float64
	}
	var found []candidate
	for _, obj := range a.registry.All() {
		if a.registry.IsMarked(obj.ObjectID()) {
			continue
		}
		if pred != nil && !pred(obj) {
			continue
		}
		found = append(found, candidate{obj, geom.DistanceSquared(origin, obj.Base().Position())})
	}
	if nth < 0 || nth >= len(found) {
		return nil, false
	}
	// All is in id order and the sort is stable, so ties keep the lower id first.
	slices.SortStableFunc(found, func(x, y candidate) int {
		return cmp.Compare(x.dist, y.dist)
	})
	return found[nth].obj, true
}

// CreatureCriteria filters NearestCreature.
type CreatureCriteria struct {
	// AliveOnly skips dead creatures.
	AliveOnly bool
	// Perception, when Seen or Heard, keeps only creatures the origin
	// currently sees or hears.
	Perception model.PerceptionKind
	// Enemies and Friends filter by faction relative to the origin.
	Enemies bool
	Friends bool
}

// NearestCreature returns the nth creature nearest to origin (excluding
// origin itself) that satisfies criteria.
func (a *Area) NearestCreature(origin *model.Creature, nth int, criteria CreatureCriteria) (*model.Creature, bool) {
	obj, ok := a.NearestObject(origin.Position(), nth, func(obj model.Object) bool {
		c, ok := obj.(*model.Creature)
		if !ok || c.ObjectID() == origin.ObjectID() {
			return false
		}
		if criteria.AliveOnly && c.IsDead() {
			return false
		}
		switch criteria.Perception {
		case model.PerceptionSeen:
			if !origin.Sees(c.ObjectID()) {
				return false
			}
		case model.PerceptionHeard:
			if !origin.Hears(c.ObjectID()) {
				return false
			}
		}
		if criteria.Enemies && !origin.IsEnemy(c) {
			return false
		}
		if criteria.Friends && (origin.IsEnemy(c) || c.Faction() != origin.Faction()) {
			return false
		}
		return true
	})
	if !ok {
		return nil, false
	}
	return obj.(*model.Creature), true
}

// Creatures returns live creatures in ascending id order.
func (a *Area) Creatures() []*model.Creature {
	return a.registry.Creatures()
}

// ObjectCount returns the number of registered objects, including those
// queued for destruction.
func (a *Area) ObjectCount() int {
	return a.registry.Count()
}
