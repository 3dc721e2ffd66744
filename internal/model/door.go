package model

// Door blocks movement and line of sight while closed.
type Door struct {
	*WorldObject

	open      bool
	locked    bool
	static    bool
	keyTag    string
	linkedTo  string
	openState int32
}

// DoorProps carries blueprint values for NewDoor.
type DoorProps struct {
	Locked   bool
	Static   bool
	KeyTag   string
	LinkedTo string
}

// NewDoor creates a closed door.
func NewDoor(objectID uint32, tag string, loc Location, props DoorProps) *Door {
	return &Door{
		WorldObject: NewWorldObject(objectID, ObjectTypeDoor, tag, loc),
		locked:      props.Locked,
		static:      props.Static,
		keyTag:      props.KeyTag,
		linkedTo:    props.LinkedTo,
	}
}

// Selectable: static and open doors cannot be clicked.
func (d *Door) Selectable() bool {
	return !d.static && !d.open
}

func (d *Door) IsOpen() bool {
	return d.open
}

func (d *Door) IsLocked() bool {
	return d.locked
}

func (d *Door) SetLocked(locked bool) {
	d.locked = locked
}

func (d *Door) IsStatic() bool {
	return d.static
}

// KeyTag is the item tag that unlocks the door, or "".
func (d *Door) KeyTag() string {
	return d.keyTag
}

// LinkedTo is the tag of the transition target (another area's waypoint), or "".
func (d *Door) LinkedTo() string {
	return d.linkedTo
}

// Open opens the door; openState records which side it swung to (1 or 2).
func (d *Door) Open(openState int32) {
	d.open = true
	d.openState = openState
}

func (d *Door) Close() {
	d.open = false
	d.openState = 0
}

func (d *Door) OpenState() int32 {
	return d.openState
}
