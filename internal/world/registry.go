// Package world keeps the object registry of an area.
package world

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/udisondev/areasim/internal/model"
)

// Registry owns the objects of an area. The owning list is sorted by id;
// the by-type and by-tag indexes are non-owning and are always updated
// together with it. Destruction is deferred: MarkForDestruction queues an
// id and FlushDestroyed performs the removal at one point in the frame.
//
// Not safe for concurrent use.
type Registry struct {
	objects []model.Object
	byID    map[uint32]model.Object
	byType  map[model.ObjectType][]model.Object
	byTag   map[string][]model.Object

	pending      map[uint32]struct{}
	pendingOrder []uint32
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[uint32]model.Object),
		byType:  make(map[model.ObjectType][]model.Object),
		byTag:   make(map[string][]model.Object),
		pending: make(map[uint32]struct{}),
	}
}

// Add inserts obj into the owning list and both indexes.
func (r *Registry) Add(obj model.Object) error {
	id := obj.ObjectID()
	if id == 0 {
		return fmt.Errorf("adding %s: zero object id", obj.Type())
	}
	if _, exists := r.byID[id]; exists {
		return fmt.Errorf("adding %s %d: duplicate object id", obj.Type(), id)
	}

	idx, _ := slices.BinarySearchFunc(r.objects, id, func(o model.Object, id uint32) int {
		return cmp.Compare(o.ObjectID(), id)
	})
	r.objects = slices.Insert(r.objects, idx, obj)
	r.byID[id] = obj
	r.byType[obj.Type()] = append(r.byType[obj.Type()], obj)
	r.byTag[obj.Tag()] = append(r.byTag[obj.Tag()], obj)
	return nil
}

// Remove erases id from the owning list and both indexes immediately.
// Frame code must use MarkForDestruction instead.
func (r *Registry) Remove(id uint32) (model.Object, bool) {
	obj, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	delete(r.byID, id)
	r.objects = slices.DeleteFunc(r.objects, func(o model.Object) bool { return o.ObjectID() == id })
	r.byType[obj.Type()] = removeID(r.byType[obj.Type()], id)
	if len(r.byType[obj.Type()]) == 0 {
		delete(r.byType, obj.Type())
	}
	r.byTag[obj.Tag()] = removeID(r.byTag[obj.Tag()], id)
	if len(r.byTag[obj.Tag()]) == 0 {
		delete(r.byTag, obj.Tag())
	}
	return obj, true
}

func removeID(list []model.Object, id uint32) []model.Object {
	return slices.DeleteFunc(list, func(o model.Object) bool { return o.ObjectID() == id })
}

// Object looks up a live object by id.
func (r *Registry) Object(id uint32) (model.Object, bool) {
	obj, ok := r.byID[id]
	return obj, ok
}

// Contains reports whether id is registered.
func (r *Registry) Contains(id uint32) bool {
	_, ok := r.byID[id]
	return ok
}

// All returns the owning list in ascending id order. The slice must not
// be modified and is invalidated by Add and Remove.
func (r *Registry) All() []model.Object {
	return r.objects
}

// ByType returns objects of kind t in insertion order (do not modify).
func (r *Registry) ByType(t model.ObjectType) []model.Object {
	return r.byType[t]
}

// ByTag returns the nth object (0-based, insertion order) tagged tag.
func (r *Registry) ByTag(tag string, nth int) (model.Object, bool) {
	list := r.byTag[tag]
	if nth < 0 || nth >= len(list) {
		return nil, false
	}
	return list[nth], true
}

// TagCount returns the number of objects tagged tag.
func (r *Registry) TagCount(tag string) int {
	return len(r.byTag[tag])
}

// Creatures returns every creature in insertion order.
func (r *Registry) Creatures() []*model.Creature {
	list := r.byType[model.ObjectTypeCreature]
	out := make([]*model.Creature, 0, len(list))
	for _, obj := range list {
		if c, ok := obj.(*model.Creature); ok {
			out = append(out, c)
		}
	}
	return out
}

// Count returns the number of registered objects.
func (r *Registry) Count() int {
	return len(r.objects)
}

// MarkForDestruction queues id for removal at the next flush. Returns
// false for unknown or already queued ids.
func (r *Registry) MarkForDestruction(id uint32) bool {
	if !r.Contains(id) {
		return false
	}
	if _, queued := r.pending[id]; queued {
		return false
	}
	r.pending[id] = struct{}{}
	r.pendingOrder = append(r.pendingOrder, id)
	return true
}

// IsMarked reports whether id is queued for destruction.
func (r *Registry) IsMarked(id uint32) bool {
	_, ok := r.pending[id]
	return ok
}

// PendingCount returns the size of the destroy queue.
func (r *Registry) PendingCount() int {
	return len(r.pendingOrder)
}

// FlushDestroyed removes every queued object in request order and calls
// detach for each after it has left the registry. Returns the number
// removed.
func (r *Registry) FlushDestroyed(detach func(model.Object)) int {
	if len(r.pendingOrder) == 0 {
		return 0
	}
	queue := r.pendingOrder
	r.pendingOrder = nil
	clear(r.pending)

	removed := 0
	for _, id := range queue {
		obj, ok := r.Remove(id)
		if !ok {
			continue
		}
		obj.Base().SetState(model.StateDestroyed)
		removed++
		if detach != nil {
			detach(obj)
		}
	}
	return removed
}

// Reset drops every object and the destroy queue.
func (r *Registry) Reset() {
	r.objects = nil
	clear(r.byID)
	clear(r.byType)
	clear(r.byTag)
	clear(r.pending)
	r.pendingOrder = nil
}
