package model

// ObjectType classifies spatial objects; it keys the by-type index.
type ObjectType int32

const (
	ObjectTypeInvalid ObjectType = iota
	ObjectTypeCreature
	ObjectTypeDoor
	ObjectTypePlaceable
	ObjectTypeTrigger
	ObjectTypeSound
	ObjectTypeCamera
	ObjectTypeWaypoint
	ObjectTypeEncounter
	ObjectTypeStore
)

// ObjectTypes lists every valid type in index order.
var ObjectTypes = []ObjectType{
	ObjectTypeCreature,
	ObjectTypeDoor,
	ObjectTypePlaceable,
	ObjectTypeTrigger,
	ObjectTypeSound,
	ObjectTypeCamera,
	ObjectTypeWaypoint,
	ObjectTypeEncounter,
	ObjectTypeStore,
}

// String returns human-readable type name
func (t ObjectType) String() string {
	switch t {
	case ObjectTypeCreature:
		return "creature"
	case ObjectTypeDoor:
		return "door"
	case ObjectTypePlaceable:
		return "placeable"
	case ObjectTypeTrigger:
		return "trigger"
	case ObjectTypeSound:
		return "sound"
	case ObjectTypeCamera:
		return "camera"
	case ObjectTypeWaypoint:
		return "waypoint"
	case ObjectTypeEncounter:
		return "encounter"
	case ObjectTypeStore:
		return "store"
	default:
		return "invalid"
	}
}

// ParseObjectType is the inverse of String.
func ParseObjectType(s string) (ObjectType, bool) {
	for _, t := range ObjectTypes {
		if t.String() == s {
			return t, true
		}
	}
	return ObjectTypeInvalid, false
}

// State is the per-object lifecycle: Created -> Loaded -> Destroyed.
type State int32

const (
	StateCreated State = iota
	StateLoaded
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "CREATED"
	case StateLoaded:
		return "LOADED"
	case StateDestroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// ScriptEvent names the hook a script is bound to.
type ScriptEvent int32

const (
	ScriptOnHeartbeat ScriptEvent = iota
	ScriptOnUserDefined
	ScriptOnNotice
	ScriptOnSpawn
	ScriptOnDeath
	ScriptOnOpen
	ScriptOnClosed
	ScriptOnFailToOpen
	ScriptOnUsed
	ScriptOnEnter
	ScriptOnExit
)

func (e ScriptEvent) String() string {
	switch e {
	case ScriptOnHeartbeat:
		return "on_heartbeat"
	case ScriptOnUserDefined:
		return "on_user_defined"
	case ScriptOnNotice:
		return "on_notice"
	case ScriptOnSpawn:
		return "on_spawn"
	case ScriptOnDeath:
		return "on_death"
	case ScriptOnOpen:
		return "on_open"
	case ScriptOnClosed:
		return "on_closed"
	case ScriptOnFailToOpen:
		return "on_fail_to_open"
	case ScriptOnUsed:
		return "on_used"
	case ScriptOnEnter:
		return "on_enter"
	case ScriptOnExit:
		return "on_exit"
	default:
		return "unknown"
	}
}

// ParseScriptEvent is the inverse of ScriptEvent.String.
func ParseScriptEvent(s string) (ScriptEvent, bool) {
	for e := ScriptOnHeartbeat; e <= ScriptOnExit; e++ {
		if e.String() == s {
			return e, true
		}
	}
	return 0, false
}
