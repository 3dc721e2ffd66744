package area

import (
	"slices"

	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/script"
)

// RunScript fires a named script. Empty names are ignored.
// Implements ai.World.
func (a *Area) RunScript(name string, callerID, triggererID uint32) {
	a.run(script.Call{Name: name, CallerID: callerID, TriggererID: triggererID})
}

func (a *Area) run(call script.Call) int32 {
	if call.Name == "" {
		return -1
	}
	return a.services.Scripts.Run(call)
}

func (a *Area) runObjectScript(obj model.Object, event model.ScriptEvent, triggererID uint32) {
	a.RunScript(obj.Base().Script(event), obj.ObjectID(), triggererID)
}

// RunOnEnter fires the area OnEnter script for the entering creature.
func (a *Area) RunOnEnter(enteringID uint32) {
	a.RunScript(a.props.Scripts.OnEnter, a.id, enteringID)
}

// RunOnExit fires the area OnExit script for the leaving creature.
func (a *Area) RunOnExit(exitingID uint32) {
	a.RunScript(a.props.Scripts.OnExit, a.id, exitingID)
}

// SignalUserDefined runs the OnUserDefined script of the area (when id is
// the area id) or of object id, passing event number. Unknown ids are ignored.
func (a *Area) SignalUserDefined(id uint32, event int32) bool {
	if id == a.id {
		a.run(script.Call{
			Name:             a.props.Scripts.OnUserDefined,
			CallerID:         a.id,
			UserDefinedEvent: event,
		})
		return true
	}
	obj, ok := a.registry.Object(id)
	if !ok {
		return false
	}
	a.run(script.Call{
		Name:             obj.Base().Script(model.ScriptOnUserDefined),
		CallerID:         id,
		UserDefinedEvent: event,
	})
	return true
}

// heartbeat fires the area heartbeat script, then each object's own.
func (a *Area) heartbeat() {
	a.RunScript(a.props.Scripts.OnHeartbeat, a.id, 0)
	// Scripts may spawn objects; iterate a snapshot.
	for _, obj := range slices.Clone(a.registry.All()) {
		if a.registry.IsMarked(obj.ObjectID()) {
			continue
		}
		a.runObjectScript(obj, model.ScriptOnHeartbeat, 0)
	}
}
