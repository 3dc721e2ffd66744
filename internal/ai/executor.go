// Package ai executes queued actions: it turns moves, follows, attacks and
// interactions into per-frame movement over the path graph.
package ai

import (
	"log/slog"

	"github.com/udisondev/areasim/internal/action"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/pathfind"
)

// World is the part of the area the executor acts upon.
// Implemented by area.Area.
type World interface {
	// Object looks up a live object by id.
	Object(id uint32) (model.Object, bool)
	// Time returns area time in seconds.
	Time() float64
	// MoveCreatureTowards steps c toward dest by its speed * dt, sliding
	// along walls. Returns false when blocked.
	MoveCreatureTowards(c *model.Creature, dest geom.Vec3, run bool, dt float64) bool
	// Teleport places obj at loc, snapping to the ground when possible.
	Teleport(obj model.Object, loc model.Location) bool
	// RunScript fires a named script with the acting and triggering ids.
	RunScript(name string, callerID, triggererID uint32)
}

// AttackFunc registers an attack with the combat subsystem.
// Injected by the area owner to keep combat out of the core.
type AttackFunc func(attacker, target *model.Creature)

// ConversationFunc starts a dialog between speaker and target.
// Injected by the area owner. If nil, conversations complete silently.
type ConversationFunc func(speaker *model.Creature, target model.Object, dialog string)

// Params are the navigation distances and timings.
type Params struct {
	// ArrivalDistance ends MoveToPoint.
	ArrivalDistance float64
	// PathPointReached is the radius at which a path point counts as visited.
	PathPointReached float64
	// PathKeepDuration is how long, in seconds, a cached path is reused
	// for a changed destination.
	PathKeepDuration float64
	// ObjectInteractDistance is used for doors, containers and MoveToObject
	// without an explicit distance.
	ObjectInteractDistance float64
	ConversationDistance   float64
	FollowDistance         float64
	// DefaultAttackRange is used for creatures without one.
	DefaultAttackRange float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		ArrivalDistance:        1.0,
		PathPointReached:       1.0,
		PathKeepDuration:       1.0,
		ObjectInteractDistance: 2.0,
		ConversationDistance:   4.0,
		FollowDistance:         2.5,
		DefaultAttackRange:     2.0,
	}
}

// Executor drives the current action of each object. Single-threaded:
// called from the area frame only.
type Executor struct {
	world  World
	paths  pathfind.Finder
	params Params

	attackFunc       AttackFunc
	conversationFunc ConversationFunc
}

// NewExecutor creates an executor over world using paths for routing.
func NewExecutor(world World, paths pathfind.Finder, params Params) *Executor {
	return &Executor{world: world, paths: paths, params: params}
}

// SetAttackFunc injects the combat hook.
func (e *Executor) SetAttackFunc(fn AttackFunc) {
	e.attackFunc = fn
}

// SetConversationFunc injects the dialog hook.
func (e *Executor) SetConversationFunc(fn ConversationFunc) {
	e.conversationFunc = fn
}

// Execute runs one frame of obj's current action and pops it when done.
// Dead creatures do nothing.
func (e *Executor) Execute(obj model.Object, dt float64) {
	queue := obj.Base().Actions()
	act := queue.Current()
	if act == nil {
		return
	}
	creature, isCreature := obj.(*model.Creature)
	if isCreature && creature.IsDead() {
		return
	}

	var done bool
	switch act.Type {
	case action.TypeDoCommand:
		done = e.doCommand(obj, act)
	case action.TypeWait:
		done = e.wait(act, dt)
	case action.TypeJumpToPoint:
		done = e.jumpToPoint(obj, act)
	default:
		if !isCreature {
			slog.Warn("action requires a creature",
				"action", act.Type,
				"objectID", obj.ObjectID(),
				"type", obj.Type())
			done = true
			break
		}
		done = e.executeCreature(creature, act, dt)
	}

	if done && queue.Current() == act {
		queue.Pop()
	}
}

func (e *Executor) executeCreature(c *model.Creature, act *action.Action, dt float64) bool {
	switch act.Type {
	case action.TypeMoveToPoint:
		return e.moveToPoint(c, act, dt)
	case action.TypeMoveToObject:
		return e.moveToObject(c, act, dt)
	case action.TypeFollow:
		return e.follow(c, act, dt)
	case action.TypeAttackObject:
		return e.attackObject(c, act, dt)
	case action.TypeOpenDoor, action.TypeCloseDoor:
		return e.useDoor(c, act, dt)
	case action.TypeOpenContainer:
		return e.openContainer(c, act, dt)
	case action.TypeStartConversation:
		return e.startConversation(c, act, dt)
	default:
		slog.Warn("unsupported action, completing",
			"action", act.Type,
			"objectID", c.ObjectID())
		return true
	}
}

func (e *Executor) moveToPoint(c *model.Creature, act *action.Action, dt float64) bool {
	if act.MoveToPoint == nil {
		return true
	}
	return e.NavigateTo(c, act.MoveToPoint.Destination, act.MoveToPoint.Run, e.params.ArrivalDistance, dt)
}

func (e *Executor) moveToObject(c *model.Creature, act *action.Action, dt float64) bool {
	target, ok := e.target(act)
	if !ok {
		return true
	}
	distance := act.Object.Distance
	if distance <= 0 {
		distance = e.params.ObjectInteractDistance
	}
	return e.NavigateTo(c, target.Base().Position(), act.Object.Run, distance, dt)
}

// follow never completes on its own; only clearing the queue ends it.
func (e *Executor) follow(c *model.Creature, act *action.Action, dt float64) bool {
	target, ok := e.target(act)
	if !ok {
		return true
	}
	distance := act.Object.Distance
	if distance <= 0 {
		distance = e.params.FollowDistance
	}
	e.NavigateTo(c, target.Base().Position(), act.Object.Run, distance, dt)
	return false
}

func (e *Executor) attackObject(c *model.Creature, act *action.Action, dt float64) bool {
	if act.Attack == nil {
		return true
	}
	obj, ok := e.world.Object(act.Attack.ObjectID)
	if !ok {
		return true
	}
	target, ok := obj.(*model.Creature)
	if !ok || target.IsDead() {
		return true
	}

	reach := c.AttackRange()
	if reach <= 0 {
		reach = e.params.DefaultAttackRange
	}
	if !e.NavigateTo(c, target.Position(), true, reach, dt) {
		// Out of reach again: the next arrival registers a new attack.
		act.Attack.Registered = false
		return false
	}
	c.SetFacing(geom.Facing(target.Position().Sub(c.Position())))
	if !act.Attack.Registered {
		act.Attack.Registered = true
		if e.attackFunc != nil {
			e.attackFunc(c, target)
		}
	}
	return false
}

func (e *Executor) useDoor(c *model.Creature, act *action.Action, dt float64) bool {
	obj, ok := e.target(act)
	if !ok {
		return true
	}
	door, ok := obj.(*model.Door)
	if !ok {
		return true
	}
	if !e.NavigateTo(c, door.Position(), act.Object.Run, e.params.ObjectInteractDistance, dt) {
		return false
	}

	if act.Type == action.TypeCloseDoor {
		if door.IsOpen() {
			door.Close()
			e.runObjectScript(door, model.ScriptOnClosed, c.ObjectID())
		}
		return true
	}
	if door.IsOpen() {
		return true
	}
	if door.IsLocked() {
		e.runObjectScript(door, model.ScriptOnFailToOpen, c.ObjectID())
		return true
	}
	door.Open(1)
	e.runObjectScript(door, model.ScriptOnOpen, c.ObjectID())
	return true
}

func (e *Executor) openContainer(c *model.Creature, act *action.Action, dt float64) bool {
	obj, ok := e.target(act)
	if !ok {
		return true
	}
	placeable, ok := obj.(*model.Placeable)
	if !ok || !placeable.IsUsable() {
		return true
	}
	if !e.NavigateTo(c, placeable.Position(), act.Object.Run, e.params.ObjectInteractDistance, dt) {
		return false
	}
	c.SetFacing(geom.Facing(placeable.Position().Sub(c.Position())))
	if placeable.HasInventory() {
		placeable.Open()
		e.runObjectScript(placeable, model.ScriptOnOpen, c.ObjectID())
	}
	e.runObjectScript(placeable, model.ScriptOnUsed, c.ObjectID())
	return true
}

func (e *Executor) startConversation(c *model.Creature, act *action.Action, dt float64) bool {
	conv := act.Conversation
	if conv == nil {
		return true
	}
	target, ok := e.world.Object(conv.ObjectID)
	if !ok {
		return true
	}
	if !conv.IgnoreDistance &&
		!e.NavigateTo(c, target.Base().Position(), true, e.params.ConversationDistance, dt) {
		return false
	}
	dialog := conv.Dialog
	if dialog == "" {
		dialog = target.Base().Conversation()
	}
	if e.conversationFunc != nil {
		e.conversationFunc(c, target, dialog)
	}
	return true
}

func (e *Executor) doCommand(obj model.Object, act *action.Action) bool {
	if act.Command != nil && act.Command.Script != "" {
		e.world.RunScript(act.Command.Script, obj.ObjectID(), 0)
	}
	return true
}

func (e *Executor) wait(act *action.Action, dt float64) bool {
	if act.Wait == nil {
		return true
	}
	act.Wait.Seconds -= dt
	return act.Wait.Seconds <= 0
}

func (e *Executor) jumpToPoint(obj model.Object, act *action.Action) bool {
	if act.JumpToPoint == nil {
		return true
	}
	loc := model.Location{Position: act.JumpToPoint.Destination, Facing: act.JumpToPoint.Facing}
	if !e.world.Teleport(obj, loc) {
		slog.Warn("jump target has no ground",
			"objectID", obj.ObjectID(),
			"x", loc.Position.X,
			"y", loc.Position.Y)
	}
	if c, ok := obj.(*model.Creature); ok {
		c.ClearPath()
		c.SetMovementType(model.MovementNone)
	}
	return true
}

func (e *Executor) target(act *action.Action) (model.Object, bool) {
	if act.Object == nil {
		return nil, false
	}
	return e.world.Object(act.Object.ObjectID)
}

func (e *Executor) runObjectScript(obj model.Object, event model.ScriptEvent, triggererID uint32) {
	if name := obj.Base().Script(event); name != "" {
		e.world.RunScript(name, obj.ObjectID(), triggererID)
	}
}
