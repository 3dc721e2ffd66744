package testutil

import (
	"github.com/udisondev/areasim/internal/data"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/walkmesh"
)

// Surface materials used by fixtures.
const (
	MaterialDirt    = 1
	MaterialNonWalk = 7
)

// Tables are the stock rule tables, loaded once.
var Tables = mustTables()

func mustTables() *data.Tables {
	t, err := data.DefaultTables()
	if err != nil {
		panic("loading default tables: " + err.Error())
	}
	return t
}

// Walkable reports surface walkability from the stock tables.
func Walkable(material int) bool {
	return Tables.IsWalkable(material)
}

// FloorMesh is a horizontal rectangle at height z made of two triangles.
func FloorMesh(minX, minY, maxX, maxY, z float64, material int) level.Mesh {
	return level.Mesh{
		Vertices: []geom.Vec3{
			geom.V(minX, minY, z),
			geom.V(maxX, minY, z),
			geom.V(maxX, maxY, z),
			geom.V(minX, maxY, z),
		},
		Faces: []level.MeshFace{
			{Indices: [3]int{0, 1, 2}, Material: material},
			{Indices: [3]int{0, 2, 3}, Material: material},
		},
	}
}

// WallMesh is a vertical non-walkable quad from (x0,y0) to (x1,y1) rising to height.
func WallMesh(x0, y0, x1, y1, height float64) level.Mesh {
	return level.Mesh{
		Vertices: []geom.Vec3{
			geom.V(x0, y0, 0),
			geom.V(x1, y1, 0),
			geom.V(x1, y1, height),
			geom.V(x0, y0, height),
		},
		Faces: []level.MeshFace{
			{Indices: [3]int{0, 1, 2}, Material: MaterialNonWalk},
			{Indices: [3]int{0, 2, 3}, Material: MaterialNonWalk},
		},
	}
}

// MergeMeshes concatenates meshes, rebasing face indices.
func MergeMeshes(meshes ...level.Mesh) level.Mesh {
	var out level.Mesh
	for _, m := range meshes {
		base := len(out.Vertices)
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, f := range m.Faces {
			out.Faces = append(out.Faces, level.MeshFace{
				Indices:  [3]int{f.Indices[0] + base, f.Indices[1] + base, f.Indices[2] + base},
				Material: f.Material,
			})
		}
	}
	return out
}

// BuildWalkmesh builds a mesh with the stock walkability, panicking on bad fixtures.
func BuildWalkmesh(m level.Mesh) *walkmesh.Walkmesh {
	wm, err := m.Build(Walkable)
	if err != nil {
		panic("building fixture walkmesh: " + err.Error())
	}
	return wm
}

// FlatRoom is a size x size dirt floor at z=0 with its corner at pos.
func FlatRoom(name string, pos geom.Vec3, size float64) *model.Room {
	return model.NewRoom(name, pos, BuildWalkmesh(FloorMesh(0, 0, size, size, 0, MaterialDirt)))
}

// FlatDescriptor is a one-room area: a 20x20 floor named "room".
func FlatDescriptor(name string) *level.Descriptor {
	return &level.Descriptor{
		Name:   name,
		Rooms:  []string{"room"},
		Layout: []level.LayoutRoom{{Name: "room"}},
		Walkmeshes: map[string]level.Mesh{
			"room": FloorMesh(0, 0, 20, 20, 0, MaterialDirt),
		},
	}
}

// NewTestCreature is a live selectable creature with stock speeds and ranges.
func NewTestCreature(id uint32, tag string, pos geom.Vec3) *model.Creature {
	return model.NewCreature(id, tag, model.Location{Position: pos}, model.CreatureStats{
		Faction:      model.FactionNeutral,
		MaxHP:        10,
		WalkSpeed:    2,
		RunSpeed:     4,
		AttackRange:  2,
		SightRange:   20,
		HearingRange: 20,
		Selectable:   true,
	})
}
