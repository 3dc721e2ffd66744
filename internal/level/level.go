// Package level holds the in-memory level descriptor an Area is built
// from: room layout, visibility, path graph, placements and area
// properties. The native resource formats are decoded elsewhere; this
// package reads a YAML rendition of the same structures.
package level

import (
	"errors"
	"fmt"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/walkmesh"
)

// ErrRoomNotFound is returned when an area references a room the layout
// does not contain.
var ErrRoomNotFound = errors.New("room not found in layout")

// Descriptor is a complete area description.
type Descriptor struct {
	Name       string              `yaml:"name"`
	Properties Properties          `yaml:"properties"`
	Rooms      []string            `yaml:"rooms"`
	Layout     []LayoutRoom        `yaml:"layout"`
	Visibility map[string][]string `yaml:"visibility"`
	Walkmeshes map[string]Mesh     `yaml:"walkmeshes"`
	Path       []PathPoint         `yaml:"path"`
	Placements Placements          `yaml:"placements"`
}

// LayoutRoom places a room model in the world.
type LayoutRoom struct {
	Name     string    `yaml:"name"`
	Position geom.Vec3 `yaml:"position"`
}

// PathPoint is a 2D waypoint with neighbor indices into the point list.
type PathPoint struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Neighbors []int   `yaml:"neighbors"`
}

// Properties are the area-level scalars.
type Properties struct {
	Camera       CameraProps `yaml:"camera"`
	AmbientColor uint32      `yaml:"ambient_color"`
	Fog          Fog         `yaml:"fog"`
	StealthXP    StealthXP   `yaml:"stealth_xp"`
	Grass        Grass       `yaml:"grass"`
	Scripts      AreaScripts `yaml:"scripts"`
	Unescapable  bool        `yaml:"unescapable"`
}

type CameraProps struct {
	Style       string  `yaml:"style"`
	FieldOfView float64 `yaml:"fov"`
}

type Fog struct {
	Enabled bool    `yaml:"enabled"`
	Near    float64 `yaml:"near"`
	Far     float64 `yaml:"far"`
	Color   uint32  `yaml:"color"`
}

type StealthXP struct {
	Enabled bool  `yaml:"enabled"`
	Max     int32 `yaml:"max"`
	Loss    int32 `yaml:"loss"`
}

type Grass struct {
	Texture  string     `yaml:"texture"`
	Density  float64    `yaml:"density"`
	Size     float64    `yaml:"size"`
	Quadrant [4]float64 `yaml:"quadrant"`
}

// AreaScripts are the four area hooks.
type AreaScripts struct {
	OnEnter       string `yaml:"on_enter"`
	OnExit        string `yaml:"on_exit"`
	OnHeartbeat   string `yaml:"on_heartbeat"`
	OnUserDefined string `yaml:"on_user_defined"`
}

// Placement is one object instance in the area.
type Placement struct {
	Tag       string    `yaml:"tag"`
	Blueprint string    `yaml:"blueprint"`
	Position  geom.Vec3 `yaml:"position"`
	Facing    float64   `yaml:"facing"`

	// Triggers and encounters.
	Geometry []geom.Vec3 `yaml:"geometry,omitempty"`
	// Doors.
	LinkedTo string `yaml:"linked_to,omitempty"`
	// Waypoints.
	MapNote string `yaml:"map_note,omitempty"`
	// Cameras.
	CameraID    int32   `yaml:"camera_id,omitempty"`
	FieldOfView float64 `yaml:"fov,omitempty"`
	Pitch       float64 `yaml:"pitch,omitempty"`
	Height      float64 `yaml:"height,omitempty"`
}

// Placements groups placement records by object kind.
type Placements struct {
	Creatures  []Placement `yaml:"creatures"`
	Doors      []Placement `yaml:"doors"`
	Placeables []Placement `yaml:"placeables"`
	Triggers   []Placement `yaml:"triggers"`
	Sounds     []Placement `yaml:"sounds"`
	Cameras    []Placement `yaml:"cameras"`
	Waypoints  []Placement `yaml:"waypoints"`
	Encounters []Placement `yaml:"encounters"`
	Stores     []Placement `yaml:"stores"`
}

// Mesh is an indexed triangle list in object-local space.
type Mesh struct {
	Vertices []geom.Vec3 `yaml:"vertices"`
	Faces    []MeshFace  `yaml:"faces"`
}

// MeshFace references three vertices and a surface material.
type MeshFace struct {
	Indices  [3]int `yaml:"indices"`
	Material int    `yaml:"material"`
}

// Build converts the mesh into a walkmesh, partitioning faces by walkable.
func (m Mesh) Build(walkable walkmesh.WalkableFunc) (*walkmesh.Walkmesh, error) {
	faces := make([]walkmesh.Face, 0, len(m.Faces))
	for i, f := range m.Faces {
		var v [3]geom.Vec3
		for k, idx := range f.Indices {
			if idx < 0 || idx >= len(m.Vertices) {
				return nil, fmt.Errorf("face %d: vertex index %d out of range [0,%d)", i, idx, len(m.Vertices))
			}
			v[k] = m.Vertices[idx]
		}
		faces = append(faces, walkmesh.NewFace(i, f.Material, v[0], v[1], v[2]))
	}
	return walkmesh.New(faces, walkable), nil
}

// LayoutRoom returns the layout entry for name.
func (d *Descriptor) LayoutRoom(name string) (LayoutRoom, bool) {
	for _, r := range d.Layout {
		if r.Name == name {
			return r, true
		}
	}
	return LayoutRoom{}, false
}

// Validate checks that every referenced room has a layout entry and a walkmesh.
func (d *Descriptor) Validate() error {
	for _, name := range d.Rooms {
		if _, ok := d.LayoutRoom(name); !ok {
			return fmt.Errorf("area %s: room %s: %w", d.Name, name, ErrRoomNotFound)
		}
		if _, ok := d.Walkmeshes[name]; !ok {
			return fmt.Errorf("area %s: room %s: walkmesh missing", d.Name, name)
		}
	}
	for i, p := range d.Path {
		for _, n := range p.Neighbors {
			if n < 0 || n >= len(d.Path) {
				return fmt.Errorf("area %s: path point %d: neighbor %d out of range", d.Name, i, n)
			}
		}
	}
	return nil
}

// SymmetricVisibility returns the visibility map with every edge mirrored.
// Authored content is not always symmetric.
func (d *Descriptor) SymmetricVisibility() map[string]map[string]struct{} {
	vis := make(map[string]map[string]struct{}, len(d.Visibility))
	link := func(a, b string) {
		set, ok := vis[a]
		if !ok {
			set = make(map[string]struct{})
			vis[a] = set
		}
		set[b] = struct{}{}
	}
	for room, visible := range d.Visibility {
		for _, other := range visible {
			link(room, other)
			link(other, room)
		}
	}
	return vis
}
