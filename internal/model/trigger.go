package model

import (
	"slices"

	"github.com/udisondev/areasim/internal/geom"
)

// Trigger is an invisible polygon that fires OnEnter/OnExit scripts when
// creatures cross its border.
type Trigger struct {
	*WorldObject

	geometry []geom.Vec3
	tenants  map[uint32]struct{}
}

// NewTrigger creates a trigger. geometry is in object-local space.
func NewTrigger(objectID uint32, tag string, loc Location, geometry []geom.Vec3) *Trigger {
	t := &Trigger{
		WorldObject: NewWorldObject(objectID, ObjectTypeTrigger, tag, loc),
		geometry:    geometry,
		tenants:     make(map[uint32]struct{}),
	}
	return t
}

// Contains tests point p in world space against the polygon (2D).
func (t *Trigger) Contains(p geom.Vec3) bool {
	if len(t.geometry) < 3 {
		return false
	}
	return geom.PointInPolygon2D(t.Transform().ToLocal(p), t.geometry)
}

// Geometry returns the local-space polygon.
func (t *Trigger) Geometry() []geom.Vec3 {
	return t.geometry
}

func (t *Trigger) HasTenant(id uint32) bool {
	_, ok := t.tenants[id]
	return ok
}

func (t *Trigger) AddTenant(id uint32) {
	t.tenants[id] = struct{}{}
}

func (t *Trigger) RemoveTenant(id uint32) {
	delete(t.tenants, id)
}

// Tenants returns tenant ids in ascending order.
func (t *Trigger) Tenants() []uint32 {
	ids := make([]uint32, 0, len(t.tenants))
	for id := range t.tenants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Encounter is a trigger-shaped spawn zone. It is active until the
// first creature enters it.
type Encounter struct {
	*WorldObject

	geometry []geom.Vec3
	active   bool
	spawns   []string
}

func NewEncounter(objectID uint32, tag string, loc Location, geometry []geom.Vec3, spawns []string) *Encounter {
	return &Encounter{
		WorldObject: NewWorldObject(objectID, ObjectTypeEncounter, tag, loc),
		geometry:    geometry,
		active:      true,
		spawns:      spawns,
	}
}

// Contains tests point p in world space against the polygon (2D).
func (e *Encounter) Contains(p geom.Vec3) bool {
	if len(e.geometry) < 3 {
		return false
	}
	return geom.PointInPolygon2D(e.Transform().ToLocal(p), e.geometry)
}

func (e *Encounter) IsActive() bool {
	return e.active
}

func (e *Encounter) Deactivate() {
	e.active = false
}

// Spawns lists creature blueprint resrefs spawned when the encounter fires.
func (e *Encounter) Spawns() []string {
	return e.spawns
}
