package model

// Sound is an ambient sound emitter. Playback is owned by the audio layer.
type Sound struct {
	*WorldObject

	active     bool
	positional bool
	maxDist    float64
	sounds     []string
}

func NewSound(objectID uint32, tag string, loc Location, active, positional bool, maxDist float64, sounds []string) *Sound {
	return &Sound{
		WorldObject: NewWorldObject(objectID, ObjectTypeSound, tag, loc),
		active:      active,
		positional:  positional,
		maxDist:     maxDist,
		sounds:      sounds,
	}
}

func (s *Sound) IsActive() bool {
	return s.active
}

func (s *Sound) SetActive(a bool) {
	s.active = a
}

func (s *Sound) IsPositional() bool {
	return s.positional
}

func (s *Sound) MaxDistance() float64 {
	return s.maxDist
}

func (s *Sound) Sounds() []string {
	return s.sounds
}

// Camera is a static camera placed in the area (cutscenes, dialog shots).
type Camera struct {
	*WorldObject

	cameraID    int32
	fieldOfView float64
	pitch       float64
	height      float64
}

func NewCamera(objectID uint32, tag string, loc Location, cameraID int32, fov, pitch, height float64) *Camera {
	return &Camera{
		WorldObject: NewWorldObject(objectID, ObjectTypeCamera, tag, loc),
		cameraID:    cameraID,
		fieldOfView: fov,
		pitch:       pitch,
		height:      height,
	}
}

func (c *Camera) CameraID() int32 {
	return c.cameraID
}

func (c *Camera) FieldOfView() float64 {
	return c.fieldOfView
}

func (c *Camera) Pitch() float64 {
	return c.pitch
}

func (c *Camera) Height() float64 {
	return c.height
}

// Waypoint marks a named location (transition targets, patrol points).
type Waypoint struct {
	*WorldObject

	mapNote string
}

func NewWaypoint(objectID uint32, tag string, loc Location, mapNote string) *Waypoint {
	return &Waypoint{
		WorldObject: NewWorldObject(objectID, ObjectTypeWaypoint, tag, loc),
		mapNote:     mapNote,
	}
}

func (w *Waypoint) MapNote() string {
	return w.mapNote
}

// Store is a merchant inventory anchor.
type Store struct {
	*WorldObject

	markUp   int32
	markDown int32
}

func NewStore(objectID uint32, tag string, loc Location, markUp, markDown int32) *Store {
	return &Store{
		WorldObject: NewWorldObject(objectID, ObjectTypeStore, tag, loc),
		markUp:      markUp,
		markDown:    markDown,
	}
}

func (s *Store) MarkUp() int32 {
	return s.markUp
}

func (s *Store) MarkDown() int32 {
	return s.markDown
}
