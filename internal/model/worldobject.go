package model

import (
	"github.com/udisondev/areasim/internal/action"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/walkmesh"
)

// Object — общий интерфейс всех пространственных объектов области.
// Concrete kinds embed *WorldObject and override Selectable.
type Object interface {
	ObjectID() uint32
	Type() ObjectType
	Tag() string
	Base() *WorldObject
	Selectable() bool
	Update(dt float64)
}

// WorldObject — базовый класс для всех объектов области.
// Not safe for concurrent use: the area core mutates objects from the frame loop only.
type WorldObject struct {
	objectID  uint32
	objType   ObjectType
	tag       string
	blueprint string
	name      string
	position  geom.Vec3
	facing    float64
	room      string
	state     State

	visible bool
	plot    bool

	scripts      map[ScriptEvent]string
	conversation string

	actions  action.Queue
	bounds   geom.AABB
	walkmesh *walkmesh.Walkmesh
}

// NewWorldObject создаёт базовый объект. Bounds start empty; a blueprint
// supplies them through SetBounds.
func NewWorldObject(objectID uint32, objType ObjectType, tag string, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		objType:  objType,
		tag:      tag,
		position: loc.Position,
		facing:   loc.Facing,
		visible:  true,
		scripts:  make(map[ScriptEvent]string),
		bounds:   geom.EmptyAABB(),
	}
}

// ObjectID возвращает уникальный ID объекта (immutable после создания).
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Base returns the shared object state.
func (w *WorldObject) Base() *WorldObject {
	return w
}

func (w *WorldObject) Type() ObjectType {
	return w.objType
}

func (w *WorldObject) Tag() string {
	return w.tag
}

func (w *WorldObject) Blueprint() string {
	return w.blueprint
}

func (w *WorldObject) SetBlueprint(resref string) {
	w.blueprint = resref
}

func (w *WorldObject) Name() string {
	return w.name
}

func (w *WorldObject) SetName(name string) {
	w.name = name
}

func (w *WorldObject) Position() geom.Vec3 {
	return w.position
}

func (w *WorldObject) SetPosition(p geom.Vec3) {
	w.position = p
}

// Facing is the heading in radians about Z.
func (w *WorldObject) Facing() float64 {
	return w.facing
}

func (w *WorldObject) SetFacing(f float64) {
	w.facing = f
}

// Location возвращает позицию и направление (value type).
func (w *WorldObject) Location() Location {
	return Location{Position: w.position, Facing: w.facing}
}

// Transform maps object-local geometry (walkmesh, bounds) into the world.
func (w *WorldObject) Transform() geom.Transform {
	return geom.Transform{Position: w.position, Facing: w.facing}
}

// Room is the name of the room the object is a tenant of, or "".
func (w *WorldObject) Room() string {
	return w.room
}

func (w *WorldObject) SetRoom(room string) {
	w.room = room
}

func (w *WorldObject) State() State {
	return w.state
}

func (w *WorldObject) SetState(s State) {
	w.state = s
}

// Visible reports whether the object's model is currently drawn.
// Recomputed every frame from room visibility.
func (w *WorldObject) Visible() bool {
	return w.visible
}

func (w *WorldObject) SetVisible(v bool) {
	w.visible = v
}

func (w *WorldObject) Plot() bool {
	return w.plot
}

func (w *WorldObject) SetPlot(plot bool) {
	w.plot = plot
}

// Script returns the script bound to event, or "".
func (w *WorldObject) Script(event ScriptEvent) string {
	return w.scripts[event]
}

func (w *WorldObject) SetScript(event ScriptEvent, name string) {
	if name == "" {
		delete(w.scripts, event)
		return
	}
	w.scripts[event] = name
}

func (w *WorldObject) Conversation() string {
	return w.conversation
}

func (w *WorldObject) SetConversation(dialog string) {
	w.conversation = dialog
}

// Actions returns the object's action queue.
func (w *WorldObject) Actions() *action.Queue {
	return &w.actions
}

// Bounds returns the local-space bounding box (may be empty).
func (w *WorldObject) Bounds() geom.AABB {
	return w.bounds
}

func (w *WorldObject) SetBounds(b geom.AABB) {
	w.bounds = b
}

// WorldBounds returns the bounding box in world space.
func (w *WorldObject) WorldBounds() geom.AABB {
	return w.bounds.Transform(w.Transform())
}

// Walkmesh returns the object-local walkmesh, or nil.
func (w *WorldObject) Walkmesh() *walkmesh.Walkmesh {
	return w.walkmesh
}

func (w *WorldObject) SetWalkmesh(wm *walkmesh.Walkmesh) {
	w.walkmesh = wm
}

// DistanceSquaredTo возвращает квадрат расстояния до другого объекта.
func (w *WorldObject) DistanceSquaredTo(other *WorldObject) float64 {
	return geom.DistanceSquared(w.position, other.position)
}

// Selectable is false unless a concrete kind says otherwise.
func (w *WorldObject) Selectable() bool {
	return false
}

// Update advances per-object timers (delayed actions).
func (w *WorldObject) Update(dt float64) {
	w.actions.Update(dt)
}
