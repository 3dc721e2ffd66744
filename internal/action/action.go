// Package action defines the per-object action queue.
//
// An Action is a closed tagged variant: Type selects the behavior and
// exactly one payload field is set. Dispatch happens in a single switch
// in the executor (internal/ai).
package action

import "github.com/udisondev/areasim/internal/geom"

// Type identifies the action variant.
type Type int32

const (
	TypeMoveToPoint Type = iota
	TypeMoveToObject
	TypeFollow
	TypeAttackObject
	TypeOpenDoor
	TypeCloseDoor
	TypeOpenContainer
	TypeStartConversation
	TypeDoCommand
	TypeWait
	TypeJumpToPoint
)

// String returns human-readable action name
func (t Type) String() string {
	switch t {
	case TypeMoveToPoint:
		return "MOVE_TO_POINT"
	case TypeMoveToObject:
		return "MOVE_TO_OBJECT"
	case TypeFollow:
		return "FOLLOW"
	case TypeAttackObject:
		return "ATTACK_OBJECT"
	case TypeOpenDoor:
		return "OPEN_DOOR"
	case TypeCloseDoor:
		return "CLOSE_DOOR"
	case TypeOpenContainer:
		return "OPEN_CONTAINER"
	case TypeStartConversation:
		return "START_CONVERSATION"
	case TypeDoCommand:
		return "DO_COMMAND"
	case TypeWait:
		return "WAIT"
	case TypeJumpToPoint:
		return "JUMP_TO_POINT"
	default:
		return "UNKNOWN"
	}
}

// MoveToPoint walks or runs to a fixed location.
type MoveToPoint struct {
	Destination geom.Vec3
	Run         bool
}

// ObjectTarget is the payload shared by actions aimed at another object
// (move-to-object, follow, open door/container, close door).
type ObjectTarget struct {
	ObjectID uint32
	Run      bool
	// Distance overrides the arrival distance when > 0.
	Distance float64
}

// AttackObject approaches a target and registers an attack with combat.
type AttackObject struct {
	ObjectID uint32
	// Registered is set once combat has accepted the attack; cleared when
	// the target moves out of range.
	Registered bool
}

// StartConversation approaches a target and starts a dialog.
type StartConversation struct {
	ObjectID uint32
	Dialog   string
	// IgnoreDistance starts the conversation without approaching.
	IgnoreDistance bool
}

// DoCommand runs a named script on behalf of the acting object.
type DoCommand struct {
	Script string
}

// Wait blocks the queue for Seconds.
type Wait struct {
	Seconds float64
}

// JumpToPoint teleports the actor.
type JumpToPoint struct {
	Destination geom.Vec3
	Facing      float64
}

// Action is one queued behavior.
type Action struct {
	Type Type

	MoveToPoint  *MoveToPoint
	Object       *ObjectTarget
	Attack       *AttackObject
	Conversation *StartConversation
	Command      *DoCommand
	Wait         *Wait
	JumpToPoint  *JumpToPoint

	// UserAction marks actions issued by player input; they may be
	// cleared by the next click.
	UserAction bool
}

func NewMoveToPoint(dest geom.Vec3, run bool) *Action {
	return &Action{Type: TypeMoveToPoint, MoveToPoint: &MoveToPoint{Destination: dest, Run: run}}
}

func NewMoveToObject(objectID uint32, run bool, distance float64) *Action {
	return &Action{Type: TypeMoveToObject, Object: &ObjectTarget{ObjectID: objectID, Run: run, Distance: distance}}
}

func NewFollow(objectID uint32, distance float64) *Action {
	return &Action{Type: TypeFollow, Object: &ObjectTarget{ObjectID: objectID, Run: true, Distance: distance}}
}

func NewAttackObject(objectID uint32) *Action {
	return &Action{Type: TypeAttackObject, Attack: &AttackObject{ObjectID: objectID}}
}

func NewOpenDoor(doorID uint32) *Action {
	return &Action{Type: TypeOpenDoor, Object: &ObjectTarget{ObjectID: doorID, Run: true}}
}

func NewCloseDoor(doorID uint32) *Action {
	return &Action{Type: TypeCloseDoor, Object: &ObjectTarget{ObjectID: doorID, Run: true}}
}

func NewOpenContainer(placeableID uint32) *Action {
	return &Action{Type: TypeOpenContainer, Object: &ObjectTarget{ObjectID: placeableID, Run: true}}
}

func NewStartConversation(objectID uint32, dialog string, ignoreDistance bool) *Action {
	return &Action{Type: TypeStartConversation, Conversation: &StartConversation{
		ObjectID:       objectID,
		Dialog:         dialog,
		IgnoreDistance: ignoreDistance,
	}}
}

func NewDoCommand(script string) *Action {
	return &Action{Type: TypeDoCommand, Command: &DoCommand{Script: script}}
}

func NewWait(seconds float64) *Action {
	return &Action{Type: TypeWait, Wait: &Wait{Seconds: seconds}}
}

func NewJumpToPoint(dest geom.Vec3, facing float64) *Action {
	return &Action{Type: TypeJumpToPoint, JumpToPoint: &JumpToPoint{Destination: dest, Facing: facing}}
}

// TargetID returns the object an action is aimed at, or 0.
func (a *Action) TargetID() uint32 {
	switch {
	case a.Object != nil:
		return a.Object.ObjectID
	case a.Attack != nil:
		return a.Attack.ObjectID
	case a.Conversation != nil:
		return a.Conversation.ObjectID
	}
	return 0
}
