package selection

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/areasim/internal/collision"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/testutil"
)

type fakeScene struct {
	objects map[uint32]model.Object
}

func newScene(objs ...model.Object) *fakeScene {
	s := &fakeScene{objects: make(map[uint32]model.Object)}
	for _, o := range objs {
		s.objects[o.ObjectID()] = o
	}
	return s
}

func (s *fakeScene) Object(id uint32) (model.Object, bool) {
	o, ok := s.objects[id]
	return o, ok
}

func (s *fakeScene) Objects() []model.Object {
	out := make([]model.Object, 0, len(s.objects))
	for _, o := range s.objects {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b model.Object) int { return int(a.ObjectID()) - int(b.ObjectID()) })
	return out
}

type occluderFunc func(a, b geom.Vec3) (collision.Collision, bool)

func (f occluderFunc) TestLineOfSight(a, b geom.Vec3) (collision.Collision, bool) {
	return f(a, b)
}

type fixedCamera struct {
	origin, dir geom.Vec3
}

func (c fixedCamera) Unproject(int, int) (geom.Vec3, geom.Vec3) {
	return c.origin, c.dir
}

func ids(objs []model.Object) []uint32 {
	out := make([]uint32, len(objs))
	for i, o := range objs {
		out[i] = o.ObjectID()
	}
	return out
}

func TestSelectableObjects(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	near := testutil.NewTestCreature(2, "near", geom.V(3, 0, 0))
	far := testutil.NewTestCreature(3, "far", geom.V(10, 0, 0))
	tieLow := testutil.NewTestCreature(4, "tie", geom.V(0, 5, 0))
	tieHigh := testutil.NewTestCreature(5, "tie", geom.V(5, 0, 0))
	outOfRange := testutil.NewTestCreature(6, "out", geom.V(100, 0, 0))
	hidden := testutil.NewTestCreature(7, "hidden", geom.V(1, 0, 0))
	hidden.SetVisible(false)
	staticDoor := model.NewDoor(8, "door", model.NewLocation(1, 1, 0, 0), model.DoorProps{Static: true})

	sel := New(newScene(leader, near, far, tieLow, tieHigh, outOfRange, hidden, staticDoor), nil, DefaultParams())

	assert.Equal(t, []uint32{2, 4, 5, 3}, ids(sel.SelectableObjects(leader)))
	assert.Nil(t, sel.SelectableObjects(nil))
}

func TestSelectNext(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	a := testutil.NewTestCreature(2, "a", geom.V(1, 0, 0))
	b := testutil.NewTestCreature(3, "b", geom.V(2, 0, 0))
	c := testutil.NewTestCreature(4, "c", geom.V(3, 0, 0))
	sel := New(newScene(leader, a, b, c), nil, DefaultParams())

	sel.SelectNext(leader, false)
	assert.Equal(t, uint32(2), sel.Selected(), "nearest when nothing is selected")

	sel.SelectNext(leader, false)
	assert.Equal(t, uint32(3), sel.Selected())
	sel.SelectNext(leader, false)
	sel.SelectNext(leader, false)
	assert.Equal(t, uint32(2), sel.Selected(), "wraps forward")

	sel.SelectNext(leader, true)
	assert.Equal(t, uint32(4), sel.Selected(), "wraps backward")
}

func TestSelectNext_Empty(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	sel := New(newScene(leader), nil, DefaultParams())
	sel.Select(99)

	sel.SelectNext(leader, false)
	assert.Zero(t, sel.Selected())
}

func TestUpdate_OutOfRangeClearsSelection(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	target := testutil.NewTestCreature(2, "target", geom.V(5, 0, 0))
	sel := New(newScene(leader, target), nil, DefaultParams())

	sel.Select(2)
	sel.Highlight(2)
	sel.Update(leader)
	require.Equal(t, uint32(2), sel.Selected())

	target.SetPosition(geom.V(65, 0, 0))
	sel.Update(leader)
	assert.Zero(t, sel.Selected())
	assert.Zero(t, sel.Highlighted())
}

func TestUpdate_DeadWithoutItemsClearsSelection(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	target := testutil.NewTestCreature(2, "target", geom.V(5, 0, 0))
	looted := testutil.NewTestCreature(3, "looted", geom.V(6, 0, 0))
	looted.SetItemCount(2)
	sel := New(newScene(leader, target, looted), nil, DefaultParams())

	sel.Select(2)
	target.Die()
	sel.Update(leader)
	assert.Zero(t, sel.Selected())

	sel.Select(3)
	looted.Die()
	sel.Update(leader)
	assert.Equal(t, uint32(3), sel.Selected(), "dead creature with items stays selectable")
}

func TestUpdate_DestroyedObject(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	target := testutil.NewTestCreature(2, "target", geom.V(5, 0, 0))
	scene := newScene(leader, target)
	sel := New(scene, nil, DefaultParams())

	sel.Select(2)
	delete(scene.objects, 2)
	sel.Update(nil)
	assert.Zero(t, sel.Selected())
}

func TestUpdate_LineOfSight(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	target := testutil.NewTestCreature(2, "target", geom.V(5, 0, 0))
	door := model.NewDoor(3, "door", model.NewLocation(3, 0, 0, 0), model.DoorProps{})

	var blocker uint32
	occ := occluderFunc(func(a, b geom.Vec3) (collision.Collision, bool) {
		if blocker == 0 {
			return collision.Collision{}, false
		}
		return collision.Collision{ObjectID: blocker}, true
	})
	sel := New(newScene(leader, target, door), occ, DefaultParams())

	sel.Select(2)
	sel.Update(leader)
	assert.Equal(t, uint32(2), sel.Selected())

	// A hit on the referenced object itself does not hide it.
	sel.Select(3)
	blocker = 3
	sel.Update(leader)
	assert.Equal(t, uint32(3), sel.Selected())

	sel.Select(2)
	sel.Update(leader)
	assert.Zero(t, sel.Selected(), "hidden behind the door")
}

func TestForget(t *testing.T) {
	sel := New(newScene(), nil, DefaultParams())
	sel.Select(5)
	sel.Highlight(5)
	sel.Forget(5)
	assert.Zero(t, sel.Selected())
	assert.Zero(t, sel.Highlighted())
}

func TestObjectAt(t *testing.T) {
	leader := testutil.NewTestCreature(1, "leader", geom.V(0, 0, 0))
	leader.SetBounds(geom.AABB{Min: geom.V(-0.5, -0.5, 0), Max: geom.V(0.5, 0.5, 2)})
	near := testutil.NewTestCreature(2, "near", geom.V(5, 0, 0))
	near.SetBounds(geom.AABB{Min: geom.V(-0.5, -0.5, 0), Max: geom.V(0.5, 0.5, 2)})
	far := testutil.NewTestCreature(3, "far", geom.V(10, 0, 0))
	far.SetBounds(geom.AABB{Min: geom.V(-0.5, -0.5, 0), Max: geom.V(0.5, 0.5, 2)})

	// Door without bounds, picked through its walkmesh.
	door := model.NewDoor(4, "door", model.NewLocation(0, 5, 0, 0), model.DoorProps{})
	door.SetWalkmesh(testutil.BuildWalkmesh(testutil.WallMesh(-1, 0, 1, 0, 3)))

	sel := New(newScene(leader, near, far, door), nil, DefaultParams())

	alongX := fixedCamera{origin: geom.V(-5, 0, 1), dir: geom.V(1, 0, 0)}
	assert.Equal(t, uint32(2), sel.ObjectAt(alongX, 0, 0, leader), "leader is skipped, nearest hit wins")
	assert.Equal(t, uint32(1), sel.ObjectAt(alongX, 0, 0, nil))

	alongY := fixedCamera{origin: geom.V(0.2, 2, 1), dir: geom.V(0, 1, 0)}
	assert.Equal(t, uint32(4), sel.ObjectAt(alongY, 0, 0, leader))

	miss := fixedCamera{origin: geom.V(-5, 30, 1), dir: geom.V(1, 0, 0)}
	assert.Zero(t, sel.ObjectAt(miss, 0, 0, leader))
	assert.Zero(t, sel.ObjectAt(nil, 0, 0, leader))
}
