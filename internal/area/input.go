package area

import (
	"math"

	"github.com/udisondev/areasim/internal/action"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// InputEventType classifies an InputEvent.
type InputEventType int32

const (
	InputMouseMove InputEventType = iota
	InputMouseClick
	InputKeyDown
	InputKeyUp
)

// Key is a keyboard key the area reacts to.
type Key int32

const (
	KeyNone Key = iota
	KeyTab
	KeyW
	KeyA
	KeyS
	KeyD
	KeyPause
)

// InputEvent is a platform-neutral input event. X and Y are screen
// coordinates for mouse events.
type InputEvent struct {
	Type  InputEventType
	X, Y  int
	Key   Key
	Shift bool
}

type moveKeys struct {
	forward, back, left, right bool
}

// dir returns the world direction for the held keys. The view is
// top-down with +Y up the screen.
func (m moveKeys) dir() geom.Vec3 {
	var d geom.Vec3
	if m.forward {
		d.Y++
	}
	if m.back {
		d.Y--
	}
	if m.left {
		d.X--
	}
	if m.right {
		d.X++
	}
	return d
}

// Handle applies one input event. Returns true when the area consumed it.
func (a *Area) Handle(ev InputEvent) bool {
	switch ev.Type {
	case InputMouseMove:
		a.selector.Highlight(a.selector.ObjectAt(a.camera, ev.X, ev.Y, a.leaderObject()))
		return true
	case InputMouseClick:
		return a.handleClick(ev.X, ev.Y)
	case InputKeyDown:
		return a.handleKey(ev.Key, ev.Shift, true)
	case InputKeyUp:
		return a.handleKey(ev.Key, ev.Shift, false)
	default:
		return false
	}
}

func (a *Area) handleKey(key Key, shift, down bool) bool {
	switch key {
	case KeyTab:
		if down {
			a.selector.SelectNext(a.leaderObject(), shift)
		}
	case KeyPause:
		if down {
			a.paused = !a.paused
		}
	case KeyW:
		a.leaderMove.forward = down
	case KeyS:
		a.leaderMove.back = down
	case KeyA:
		a.leaderMove.left = down
	case KeyD:
		a.leaderMove.right = down
	default:
		return false
	}
	return true
}

// handleClick selects the clicked object, runs the default action on an
// already selected one, or sends the leader to the clicked ground.
func (a *Area) handleClick(x, y int) bool {
	leader := a.Leader()
	id := a.selector.ObjectAt(a.camera, x, y, a.leaderObject())
	if id != 0 {
		if id != a.selector.Selected() {
			a.selector.Select(id)
			return true
		}
		if leader == nil {
			return true
		}
		if obj, ok := a.registry.Object(id); ok {
			a.defaultAction(leader, obj)
		}
		return true
	}

	if leader == nil || a.camera == nil {
		return false
	}
	dest, ok := a.pickGround(x, y)
	if !ok {
		return false
	}
	a.command(leader, action.NewMoveToPoint(dest, true))
	return true
}

// defaultAction issues the click action for target: attack enemies, talk
// to creatures with a dialog, open closed doors, open usable placeables.
func (a *Area) defaultAction(leader *model.Creature, target model.Object) {
	switch t := target.(type) {
	case *model.Creature:
		switch {
		case !t.IsDead() && leader.IsEnemy(t):
			a.command(leader, action.NewAttackObject(t.ObjectID()))
		case !t.IsDead() && t.Conversation() != "":
			a.command(leader, action.NewStartConversation(t.ObjectID(), "", false))
		default:
			a.command(leader, action.NewMoveToObject(t.ObjectID(), true, 0))
		}
	case *model.Door:
		if !t.IsOpen() {
			a.command(leader, action.NewOpenDoor(t.ObjectID()))
		}
	case *model.Placeable:
		if t.IsUsable() {
			a.command(leader, action.NewOpenContainer(t.ObjectID()))
		}
	default:
		a.command(leader, action.NewMoveToObject(target.ObjectID(), true, 0))
	}
}

// command replaces the leader's user actions with act.
func (a *Area) command(leader *model.Creature, act *action.Action) {
	act.UserAction = true
	leader.Actions().ClearUserActions()
	leader.Actions().Add(act)
}

// pickGround casts the camera ray at walkable room faces and returns the
// nearest hit.
func (a *Area) pickGround(x, y int) (geom.Vec3, bool) {
	origin, dir := a.camera.Unproject(x, y)
	best := math.Inf(1)
	for _, r := range a.rooms {
		wm := r.Walkmesh()
		if wm == nil {
			continue
		}
		tr := r.Transform()
		if d, _, ok := wm.RaycastWalkableFirst(tr.ToLocal(origin), tr.DirToLocal(dir)); ok && d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return geom.Vec3{}, false
	}
	return origin.Add(dir.Scale(best)), true
}

// updateLeaderMovement moves the leader while movement keys are held.
// Direct control cancels queued user actions.
func (a *Area) updateLeaderMovement(dt float64) {
	dir := a.leaderMove.dir()
	if dir.IsZero() {
		return
	}
	leader := a.Leader()
	if leader == nil || leader.IsDead() || leader.MovementRestricted() {
		return
	}
	leader.Actions().ClearUserActions()
	leader.ClearPath()
	if a.MoveCreature(leader, dir, true, dt) {
		leader.SetMovementType(model.MovementRun)
	} else {
		leader.SetMovementType(model.MovementNone)
	}
}
