package model

import (
	"slices"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/walkmesh"
)

// Room is one piece of the area layout. Its walkmesh is in room-local
// space, offset by Position.
type Room struct {
	name     string
	position geom.Vec3
	walkmesh *walkmesh.Walkmesh
	visible  bool
	tenants  map[uint32]struct{}
}

func NewRoom(name string, position geom.Vec3, wm *walkmesh.Walkmesh) *Room {
	return &Room{
		name:     name,
		position: position,
		walkmesh: wm,
		visible:  true,
		tenants:  make(map[uint32]struct{}),
	}
}

func (r *Room) Name() string {
	return r.name
}

func (r *Room) Position() geom.Vec3 {
	return r.position
}

// Walkmesh returns the room walkmesh or nil for rooms without collision.
func (r *Room) Walkmesh() *walkmesh.Walkmesh {
	return r.walkmesh
}

// Transform maps room-local walkmesh space into the world.
func (r *Room) Transform() geom.Transform {
	return geom.Transform{Position: r.position}
}

// WorldBounds returns the walkmesh bounds in world space (empty without a walkmesh).
func (r *Room) WorldBounds() geom.AABB {
	if r.walkmesh == nil {
		return geom.EmptyAABB()
	}
	return r.walkmesh.Bounds().Translate(r.position)
}

func (r *Room) Visible() bool {
	return r.visible
}

func (r *Room) SetVisible(v bool) {
	r.visible = v
}

func (r *Room) AddTenant(id uint32) {
	r.tenants[id] = struct{}{}
}

func (r *Room) RemoveTenant(id uint32) {
	delete(r.tenants, id)
}

func (r *Room) HasTenant(id uint32) bool {
	_, ok := r.tenants[id]
	return ok
}

// Tenants returns tenant ids in ascending order.
func (r *Room) Tenants() []uint32 {
	ids := make([]uint32, 0, len(r.tenants))
	for id := range r.tenants {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
