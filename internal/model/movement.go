package model

// MovementType is what a creature's legs are doing this frame.
type MovementType int32

const (
	// MovementNone - standing still, or blocked while navigating
	MovementNone MovementType = iota
	// MovementWalk - moving at walk speed
	MovementWalk
	// MovementRun - moving at run speed
	MovementRun
)

// String returns human-readable movement name
func (m MovementType) String() string {
	switch m {
	case MovementNone:
		return "NONE"
	case MovementWalk:
		return "WALK"
	case MovementRun:
		return "RUN"
	default:
		return "UNKNOWN"
	}
}

// PerceptionKind is the last perception transition a creature observed.
type PerceptionKind int32

const (
	PerceptionNone PerceptionKind = iota
	PerceptionSeen
	PerceptionVanished
	PerceptionHeard
	PerceptionInaudible
)

// String returns human-readable perception name
func (p PerceptionKind) String() string {
	switch p {
	case PerceptionNone:
		return "NONE"
	case PerceptionSeen:
		return "SEEN"
	case PerceptionVanished:
		return "VANISHED"
	case PerceptionHeard:
		return "HEARD"
	case PerceptionInaudible:
		return "INAUDIBLE"
	default:
		return "UNKNOWN"
	}
}
