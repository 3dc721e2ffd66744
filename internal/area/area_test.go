package area

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/areasim/internal/action"
	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/config"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/script"
	"github.com/udisondev/areasim/internal/testutil"
)

const testBlueprints = `
creatures:
  - resref: c_player
    tag: player
    bounds: {min: {x: -0.5, y: -0.5, z: 0}, max: {x: 0.5, y: 0.5, z: 2}}
    creature: {faction: 2, max_hp: 20, walk_speed: 2, run_speed: 4, perception_range: 12}
  - resref: c_bandit
    tag: bandit
    scripts:
      on_notice: k_bandit_notice
      on_heartbeat: k_bandit_hb
      on_spawn: k_bandit_spawn
      on_user_defined: k_bandit_ud
    bounds: {min: {x: -0.5, y: -0.5, z: 0}, max: {x: 0.5, y: 0.5, z: 2}}
    creature: {faction: 1, max_hp: 5, walk_speed: 2, run_speed: 4, perception_range: 12}
  - resref: c_peasant
    tag: peasant
    conversation: peasant_dlg
    bounds: {min: {x: -0.5, y: -0.5, z: 0}, max: {x: 0.5, y: 0.5, z: 2}}
    creature: {faction: 5, max_hp: 5, walk_speed: 1, run_speed: 2, perception_range: 9}
triggers:
  - resref: t_zone
    scripts: {on_enter: k_zone_enter, on_exit: k_zone_exit}
encounters:
  - resref: e_ambush
    encounter: {spawns: [c_bandit, c_bandit]}
`

type topDownCamera struct{}

func (topDownCamera) Unproject(x, y int) (geom.Vec3, geom.Vec3) {
	return geom.V(float64(x), float64(y), 50), geom.V(0, 0, -1)
}

func loadArea(t *testing.T, desc *level.Descriptor, opts ...func(*Services)) (*Area, *script.Recorder) {
	t.Helper()
	repo := blueprint.NewMemoryRepository()
	require.NoError(t, repo.Parse([]byte(testBlueprints)))

	rec := &script.Recorder{}
	svc := Services{
		Tables:     testutil.Tables,
		Blueprints: repo,
		Scripts:    rec,
		Params:     config.DefaultArea(),
		LeaderTag:  "player",
	}
	for _, opt := range opts {
		opt(&svc)
	}
	a, err := Load(context.Background(), desc, svc)
	require.NoError(t, err)
	return a, rec
}

// standardDescriptor: player at (2,2), bandit at (5,5), peasant at (2,8).
func standardDescriptor() *level.Descriptor {
	desc := testutil.FlatDescriptor("test")
	desc.Placements.Creatures = []level.Placement{
		{Blueprint: "c_player", Position: geom.V(2, 2, 0)},
		{Blueprint: "c_bandit", Position: geom.V(5, 5, 0)},
		{Blueprint: "c_peasant", Position: geom.V(2, 8, 0)},
	}
	return desc
}

func mustTag(t *testing.T, a *Area, tag string) model.Object {
	t.Helper()
	obj, ok := a.ObjectByTag(tag, 0)
	require.True(t, ok, "object %q", tag)
	return obj
}

func TestLoad_Standard(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())

	assert.Equal(t, model.StateLoaded, a.State())
	assert.Equal(t, 3, a.ObjectCount())
	require.NotNil(t, a.Leader())
	assert.Equal(t, "player", a.Leader().Tag())

	room, ok := a.Room("room")
	require.True(t, ok)
	for _, c := range a.Creatures() {
		assert.Equal(t, "room", c.Room())
		assert.True(t, room.HasTenant(c.ObjectID()))
	}
}

func TestLoad_MissingLayoutIsFatal(t *testing.T) {
	desc := standardDescriptor()
	desc.Rooms = append(desc.Rooms, "cellar")
	desc.Walkmeshes["cellar"] = testutil.FloorMesh(0, 0, 5, 5, 0, testutil.MaterialDirt)

	repo := blueprint.NewMemoryRepository()
	_, err := Load(context.Background(), desc, Services{
		Tables:     testutil.Tables,
		Blueprints: repo,
		Params:     config.DefaultArea(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, level.ErrRoomNotFound))
}

func TestLoad_BadRoomWalkmeshIsFatal(t *testing.T) {
	desc := testutil.FlatDescriptor("test")
	desc.Walkmeshes["room"] = level.Mesh{
		Vertices: []geom.Vec3{geom.V(0, 0, 0)},
		Faces:    []level.MeshFace{{Indices: [3]int{0, 1, 2}}},
	}
	_, err := Load(context.Background(), desc, Services{
		Tables:     testutil.Tables,
		Blueprints: blueprint.NewMemoryRepository(),
		Params:     config.DefaultArea(),
	})
	require.Error(t, err)
}

func TestLoad_MissingBlueprintIsSkipped(t *testing.T) {
	desc := standardDescriptor()
	desc.Placements.Creatures = append(desc.Placements.Creatures,
		level.Placement{Blueprint: "c_missing", Position: geom.V(1, 1, 0)})
	desc.Placements.Doors = []level.Placement{{Blueprint: "d_missing"}}

	a, _ := loadArea(t, desc)
	assert.Equal(t, 3, a.ObjectCount())
}

func TestLoad_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repo := blueprint.NewMemoryRepository()
	require.NoError(t, repo.Parse([]byte(testBlueprints)))
	_, err := Load(ctx, standardDescriptor(), Services{
		Tables:     testutil.Tables,
		Blueprints: repo,
		Params:     config.DefaultArea(),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLoad_SnapsCreaturesToGround(t *testing.T) {
	desc := testutil.FlatDescriptor("test")
	desc.Walkmeshes["room"] = testutil.FloorMesh(0, 0, 20, 20, 1.5, testutil.MaterialDirt)
	desc.Placements.Creatures = []level.Placement{{Blueprint: "c_player", Position: geom.V(3, 3, 9)}}

	a, _ := loadArea(t, desc)
	assert.InDelta(t, 1.5, a.Leader().Position().Z, 1e-9)
}

func TestLoad_PathGraph(t *testing.T) {
	desc := testutil.FlatDescriptor("test")
	desc.Path = []level.PathPoint{
		{X: 1, Y: 1, Neighbors: []int{1}},
		{X: 5, Y: 1, Neighbors: []int{0}},
		// Off the walkmesh: omitted from the graph.
		{X: 50, Y: 50},
	}
	a, _ := loadArea(t, desc)
	assert.Equal(t, 2, a.Pathfinder().VertexCount())
}

func TestDestroyObject_RegistryConsistency(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	bandit := mustTag(t, a, "bandit")
	id := bandit.ObjectID()
	room, _ := a.Room("room")

	require.True(t, a.DestroyObject(id))
	assert.False(t, a.DestroyObject(id), "second request is a no-op")

	// Still present until the next frame.
	_, ok := a.Object(id)
	assert.True(t, ok)

	a.Update(0.1)

	_, ok = a.Object(id)
	assert.False(t, ok)
	_, ok = a.ObjectByTag("bandit", 0)
	assert.False(t, ok)
	for _, obj := range a.ObjectsByType(model.ObjectTypeCreature) {
		assert.NotEqual(t, id, obj.ObjectID())
	}
	for _, obj := range a.Objects() {
		assert.NotEqual(t, id, obj.ObjectID())
	}
	assert.False(t, room.HasTenant(id))
	assert.Equal(t, model.StateDestroyed, bandit.Base().State())
	assert.Equal(t, 2, a.ObjectCount())
}

func TestDestroyObject_QueuedObjectsAreHidden(t *testing.T) {
	a, rec := loadArea(t, standardDescriptor())
	first := mustTag(t, a, "bandit")
	second, err := a.CreateObject(context.Background(), model.ObjectTypeCreature, "c_bandit",
		model.Location{Position: geom.V(12, 12, 0)})
	require.NoError(t, err)

	require.True(t, a.DestroyObject(first.ObjectID()))

	// Queued objects are skipped by tag lookup before the flush.
	obj, ok := a.ObjectByTag("bandit", 0)
	require.True(t, ok)
	assert.Equal(t, second.ObjectID(), obj.ObjectID())
	_, ok = a.ObjectByTag("bandit", 1)
	assert.False(t, ok)
	_, ok = a.ObjectByTag("bandit", -1)
	assert.False(t, ok)

	a.heartbeat()
	calls := rec.Named("k_bandit_hb")
	require.Len(t, calls, 1)
	assert.Equal(t, second.ObjectID(), calls[0].CallerID)
}

func TestObjectsByType_AscendingIDs(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	for range 3 {
		_, err := a.CreateObject(context.Background(), model.ObjectTypeCreature, "c_bandit",
			model.Location{Position: geom.V(12, 12, 0)})
		require.NoError(t, err)
	}

	creatures := a.ObjectsByType(model.ObjectTypeCreature)
	require.Len(t, creatures, 6)
	for i := 1; i < len(creatures); i++ {
		assert.Less(t, creatures[i-1].ObjectID(), creatures[i].ObjectID())
	}
}

func TestDestroyObject_ClearsWeakReferences(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	leader := a.Leader()
	bandit := mustTag(t, a, "bandit")

	a.Update(1) // perception pass: leader sees the bandit
	require.True(t, leader.Sees(bandit.ObjectID()))
	a.Selector().Select(bandit.ObjectID())

	a.DestroyObject(bandit.ObjectID())
	a.Update(0.01)

	assert.False(t, leader.Sees(bandit.ObjectID()))
	assert.Zero(t, a.Selector().Selected())
}

func TestDestroyObject_Leader(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.DestroyObject(a.Leader().ObjectID())
	a.Update(0.1)
	assert.Nil(t, a.Leader())
}

func TestSelection_InvalidatedOutOfRange(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor(), func(s *Services) {
		s.Params.SelectionDistance = 6
	})
	bandit := mustTag(t, a, "bandit")
	a.Selector().Select(bandit.ObjectID())

	a.Update(0.01)
	require.Equal(t, bandit.ObjectID(), a.Selector().Selected())

	bandit.Base().SetPosition(geom.V(18, 18, 0))
	a.Update(0.01)
	assert.Zero(t, a.Selector().Selected())
}

func TestSelection_InvalidatedWhenKilled(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	bandit := mustTag(t, a, "bandit").(*model.Creature)
	a.Selector().Select(bandit.ObjectID())

	bandit.Die()
	a.Update(0.01)
	assert.Zero(t, a.Selector().Selected())
}

func TestUpdate_HeartbeatThrottled(t *testing.T) {
	desc := standardDescriptor()
	desc.Properties.Scripts.OnHeartbeat = "k_area_hb"
	a, rec := loadArea(t, desc)

	for range 5 {
		a.Update(1)
	}
	assert.Empty(t, rec.Named("k_area_hb"))
	assert.Empty(t, rec.Named("k_bandit_hb"))

	a.Update(1)
	require.Len(t, rec.Named("k_area_hb"), 1)
	assert.Equal(t, a.ID(), rec.Named("k_area_hb")[0].CallerID)
	calls := rec.Named("k_bandit_hb")
	require.Len(t, calls, 1)
	assert.Equal(t, mustTag(t, a, "bandit").ObjectID(), calls[0].CallerID)

	// Area script fires before object scripts.
	all := rec.Calls()
	var areaIdx, banditIdx int
	for i, c := range all {
		switch c.Name {
		case "k_area_hb":
			areaIdx = i
		case "k_bandit_hb":
			banditIdx = i
		}
	}
	assert.Less(t, areaIdx, banditIdx)
}

func TestUpdate_PerceptionThrottled(t *testing.T) {
	a, rec := loadArea(t, standardDescriptor())
	leader := a.Leader()
	bandit := mustTag(t, a, "bandit")

	a.Update(0.5)
	assert.False(t, leader.Sees(bandit.ObjectID()))

	a.Update(0.5)
	assert.True(t, leader.Sees(bandit.ObjectID()))

	notices := rec.Named("k_bandit_notice")
	require.NotEmpty(t, notices)
	for _, c := range notices {
		assert.Equal(t, bandit.ObjectID(), c.CallerID)
	}

	// No world change: the next pass is silent.
	rec.Reset()
	a.Update(1)
	assert.Empty(t, rec.Named("k_bandit_notice"))
}

func TestUpdate_PausedSkipsObjects(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	leader := a.Leader()
	leader.Actions().Add(action.NewMoveToPoint(geom.V(10, 2, 0), true))

	a.SetPaused(true)
	a.Update(1)
	assert.Equal(t, geom.V(2, 2, 0), leader.Position())
	assert.Zero(t, a.Time())

	a.SetPaused(false)
	a.Update(0.5)
	a.Update(0.5)
	assert.Greater(t, leader.Position().X, 2.0)
}

func TestUpdate_RecoversFromPanics(t *testing.T) {
	desc := standardDescriptor()
	desc.Properties.Scripts.OnHeartbeat = "k_area_hb"
	a, _ := loadArea(t, desc, func(s *Services) {
		s.Params.HeartbeatInterval = time.Second
		s.Scripts = script.RunnerFunc(func(script.Call) int32 {
			panic("script backend failure")
		})
	})
	assert.NotPanics(t, func() {
		a.Update(1)
		a.Update(1)
	})
}

func TestUpdate_TriggerEnterExit(t *testing.T) {
	desc := standardDescriptor()
	desc.Placements.Triggers = []level.Placement{{
		Tag:       "zone",
		Blueprint: "t_zone",
		Position:  geom.V(10, 10, 0),
		Geometry:  []geom.Vec3{geom.V(-2, -2, 0), geom.V(2, -2, 0), geom.V(2, 2, 0), geom.V(-2, 2, 0)},
	}}
	a, rec := loadArea(t, desc)
	leader := a.Leader()
	trigger := mustTag(t, a, "zone").(*model.Trigger)

	a.Update(0.1)
	assert.Empty(t, rec.Named("k_zone_enter"))

	leader.SetPosition(geom.V(10, 10, 0))
	a.Update(0.1)
	enter := rec.Named("k_zone_enter")
	require.Len(t, enter, 1)
	assert.Equal(t, trigger.ObjectID(), enter[0].CallerID)
	assert.Equal(t, leader.ObjectID(), enter[0].TriggererID)

	a.Update(0.1)
	assert.Len(t, rec.Named("k_zone_enter"), 1, "staying inside fires nothing")

	leader.SetPosition(geom.V(2, 2, 0))
	a.Update(0.1)
	require.Len(t, rec.Named("k_zone_exit"), 1)
	assert.False(t, trigger.HasTenant(leader.ObjectID()))
}

func TestUpdate_EncounterSpawnsOnce(t *testing.T) {
	desc := standardDescriptor()
	desc.Placements.Encounters = []level.Placement{{
		Tag:       "ambush",
		Blueprint: "e_ambush",
		Position:  geom.V(15, 15, 0),
		Geometry:  []geom.Vec3{geom.V(-1, -1, 0), geom.V(1, -1, 0), geom.V(1, 1, 0), geom.V(-1, 1, 0)},
	}}
	a, rec := loadArea(t, desc)
	before := len(a.Creatures())

	a.Leader().SetPosition(geom.V(15, 15, 0))
	a.Update(0.1)
	assert.Len(t, a.Creatures(), before+2)
	assert.Len(t, rec.Named("k_bandit_spawn"), 2)

	a.Update(0.1)
	assert.Len(t, a.Creatures(), before+2)
	enc := mustTag(t, a, "ambush").(*model.Encounter)
	assert.False(t, enc.IsActive())
}

func TestUpdate_RoomVisibility(t *testing.T) {
	desc := &level.Descriptor{
		Name:  "halls",
		Rooms: []string{"a", "b", "c"},
		Layout: []level.LayoutRoom{
			{Name: "a"},
			{Name: "b", Position: geom.V(20, 0, 0)},
			{Name: "c", Position: geom.V(40, 0, 0)},
		},
		// Authored one way only; b must still see a.
		Visibility: map[string][]string{"a": {"b"}},
		Walkmeshes: map[string]level.Mesh{
			"a": testutil.FloorMesh(0, 0, 20, 20, 0, testutil.MaterialDirt),
			"b": testutil.FloorMesh(0, 0, 20, 20, 0, testutil.MaterialDirt),
			"c": testutil.FloorMesh(0, 0, 20, 20, 0, testutil.MaterialDirt),
		},
		Placements: level.Placements{Creatures: []level.Placement{
			{Blueprint: "c_player", Position: geom.V(5, 5, 0)},
			{Blueprint: "c_bandit", Position: geom.V(45, 5, 0)},
		}},
	}
	a, _ := loadArea(t, desc)
	roomA, _ := a.Room("a")
	roomB, _ := a.Room("b")
	roomC, _ := a.Room("c")
	bandit := mustTag(t, a, "bandit")

	a.Update(0.01)
	assert.True(t, roomC.Visible(), "no third-person camera: everything visible")

	a.SetCamera(topDownCamera{}, true)
	a.Update(0.01)
	assert.True(t, roomA.Visible())
	assert.True(t, roomB.Visible())
	assert.False(t, roomC.Visible())
	assert.False(t, bandit.Base().Visible())

	require.True(t, a.Teleport(a.Leader(), model.Location{Position: geom.V(25, 5, 0)}))
	require.Equal(t, "b", a.Leader().Room())
	a.Update(0.01)
	assert.True(t, roomA.Visible())
	assert.False(t, roomC.Visible())
}

func TestMoveCreature_SlidesAlongWall(t *testing.T) {
	desc := testutil.FlatDescriptor("walled")
	desc.Walkmeshes["room"] = testutil.MergeMeshes(
		testutil.FloorMesh(0, 0, 20, 20, 0, testutil.MaterialDirt),
		testutil.WallMesh(10, 0, 10, 20, 3),
	)
	a, _ := loadArea(t, desc)
	c := testutil.NewTestCreature(900, "mover", geom.V(9, 5, 0))
	require.NoError(t, a.add(c))

	moved := a.MoveCreature(c, geom.V(1, 1, 0), true, 0.25)
	require.True(t, moved)
	assert.InDelta(t, 9, c.Position().X, 1e-6, "never crosses the wall")
	assert.Greater(t, c.Position().Y, 5.0)
}

func TestMoveCreature_StraightIntoWallBlocked(t *testing.T) {
	desc := testutil.FlatDescriptor("walled")
	desc.Walkmeshes["room"] = testutil.MergeMeshes(
		testutil.FloorMesh(0, 0, 20, 20, 0, testutil.MaterialDirt),
		testutil.WallMesh(10, 0, 10, 20, 3),
	)
	a, _ := loadArea(t, desc)
	c := testutil.NewTestCreature(900, "mover", geom.V(9, 5, 0))
	require.NoError(t, a.add(c))

	assert.False(t, a.MoveCreature(c, geom.V(1, 0, 0), true, 0.25))
	assert.Equal(t, geom.V(9, 5, 0), c.Position())
}

func TestMoveCreature_OffMeshBlocked(t *testing.T) {
	a, _ := loadArea(t, testutil.FlatDescriptor("edge"))
	c := testutil.NewTestCreature(900, "mover", geom.V(19.8, 5, 0))
	require.NoError(t, a.add(c))

	assert.False(t, a.MoveCreature(c, geom.V(1, 0, 0), true, 0.5))
	assert.Equal(t, geom.V(19.8, 5, 0), c.Position())
}

func TestMoveCreatureTowards_DoesNotOvershoot(t *testing.T) {
	a, _ := loadArea(t, testutil.FlatDescriptor("open"))
	c := testutil.NewTestCreature(900, "mover", geom.V(2, 2, 0))
	require.NoError(t, a.add(c))

	require.True(t, a.MoveCreatureTowards(c, geom.V(3, 2, 0), true, 1))
	assert.InDelta(t, 3, c.Position().X, 1e-9)
	assert.InDelta(t, -math.Pi/2, c.Facing(), 1e-9, "facing +X")
}

func TestTeleport(t *testing.T) {
	a, _ := loadArea(t, testutil.FlatDescriptor("open"))
	c := testutil.NewTestCreature(900, "mover", geom.V(2, 2, 0))
	require.NoError(t, a.add(c))

	assert.True(t, a.Teleport(c, model.Location{Position: geom.V(7, 7, 4), Facing: 1}))
	assert.Equal(t, geom.V(7, 7, 0), c.Position())
	assert.Equal(t, 1.0, c.Facing())
	assert.Equal(t, "room", c.Room())

	assert.False(t, a.Teleport(c, model.Location{Position: geom.V(70, 70, 0)}))
	assert.Equal(t, "", c.Room())
}

func TestNearestObject_TiesByID(t *testing.T) {
	a, _ := loadArea(t, testutil.FlatDescriptor("open"))
	far := testutil.NewTestCreature(30, "far", geom.V(10, 0, 0))
	first := testutil.NewTestCreature(10, "tie", geom.V(2, 0, 0))
	second := testutil.NewTestCreature(20, "tie", geom.V(-2, 0, 0))
	for _, c := range []*model.Creature{far, second, first} {
		require.NoError(t, a.registry.Add(c))
	}

	obj, ok := a.NearestObject(geom.V(0, 0, 0), 0, nil)
	require.True(t, ok)
	assert.Equal(t, uint32(10), obj.ObjectID())

	obj, ok = a.NearestObject(geom.V(0, 0, 0), 1, nil)
	require.True(t, ok)
	assert.Equal(t, uint32(20), obj.ObjectID())

	_, ok = a.NearestObject(geom.V(0, 0, 0), 3, nil)
	assert.False(t, ok)

	obj, ok = a.NearestObject(geom.V(0, 0, 0), 0, func(o model.Object) bool { return o.Tag() == "far" })
	require.True(t, ok)
	assert.Equal(t, uint32(30), obj.ObjectID())
}

func TestNearestCreature_Criteria(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	leader := a.Leader()
	bandit := mustTag(t, a, "bandit").(*model.Creature)
	peasant := mustTag(t, a, "peasant").(*model.Creature)

	c, ok := a.NearestCreature(leader, 0, CreatureCriteria{})
	require.True(t, ok)
	assert.Equal(t, bandit.ObjectID(), c.ObjectID())

	c, ok = a.NearestCreature(leader, 0, CreatureCriteria{Enemies: true})
	require.True(t, ok)
	assert.Equal(t, bandit.ObjectID(), c.ObjectID())

	bandit.Die()
	c, ok = a.NearestCreature(leader, 0, CreatureCriteria{AliveOnly: true})
	require.True(t, ok)
	assert.Equal(t, peasant.ObjectID(), c.ObjectID())

	_, ok = a.NearestCreature(leader, 0, CreatureCriteria{Perception: model.PerceptionSeen})
	assert.False(t, ok, "no perception pass yet")
}

func TestCreateObject(t *testing.T) {
	a, rec := loadArea(t, standardDescriptor())

	obj, err := a.CreateObject(context.Background(), model.ObjectTypeCreature, "c_bandit",
		model.Location{Position: geom.V(12, 12, 3)})
	require.NoError(t, err)
	assert.Equal(t, 2, a.registry.TagCount("bandit"))
	assert.Equal(t, 0.0, obj.Base().Position().Z)
	calls := rec.Named("k_bandit_spawn")
	require.Len(t, calls, 1)
	assert.Equal(t, obj.ObjectID(), calls[0].CallerID)

	_, err = a.CreateObject(context.Background(), model.ObjectTypeCreature, "c_nobody", model.Location{})
	assert.True(t, errors.Is(err, blueprint.ErrNotFound))

	_, err = a.CreateObject(context.Background(), model.ObjectTypeCamera, "cam", model.Location{})
	assert.True(t, errors.Is(err, ErrUnknownObjectType))
}

func TestSignalUserDefined(t *testing.T) {
	desc := standardDescriptor()
	desc.Properties.Scripts.OnUserDefined = "k_area_ud"
	a, rec := loadArea(t, desc)
	bandit := mustTag(t, a, "bandit")

	assert.True(t, a.SignalUserDefined(a.ID(), 7))
	assert.True(t, a.SignalUserDefined(bandit.ObjectID(), 9))
	assert.False(t, a.SignalUserDefined(12345, 1))

	require.Len(t, rec.Named("k_area_ud"), 1)
	assert.Equal(t, int32(7), rec.Named("k_area_ud")[0].UserDefinedEvent)
	require.Len(t, rec.Named("k_bandit_ud"), 1)
	assert.Equal(t, int32(9), rec.Named("k_bandit_ud")[0].UserDefinedEvent)
}

func TestRunOnEnterExit(t *testing.T) {
	desc := standardDescriptor()
	desc.Properties.Scripts.OnEnter = "k_enter"
	desc.Properties.Scripts.OnExit = "k_exit"
	a, rec := loadArea(t, desc)

	a.RunOnEnter(a.Leader().ObjectID())
	a.RunOnExit(a.Leader().ObjectID())

	require.Len(t, rec.Named("k_enter"), 1)
	assert.Equal(t, a.Leader().ObjectID(), rec.Named("k_enter")[0].TriggererID)
	require.Len(t, rec.Named("k_exit"), 1)
}

func TestHandle_TabCyclesSelection(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	bandit := mustTag(t, a, "bandit")
	peasant := mustTag(t, a, "peasant")

	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyTab})
	assert.Equal(t, bandit.ObjectID(), a.Selector().Selected())
	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyTab})
	assert.Equal(t, peasant.ObjectID(), a.Selector().Selected())
	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyTab, Shift: true})
	assert.Equal(t, bandit.ObjectID(), a.Selector().Selected())
}

func TestHandle_ClickSelectsThenActs(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.SetCamera(topDownCamera{}, false)
	leader := a.Leader()
	bandit := mustTag(t, a, "bandit")

	a.Handle(InputEvent{Type: InputMouseMove, X: 5, Y: 5})
	assert.Equal(t, bandit.ObjectID(), a.Selector().Highlighted())

	require.True(t, a.Handle(InputEvent{Type: InputMouseClick, X: 5, Y: 5}))
	assert.Equal(t, bandit.ObjectID(), a.Selector().Selected())
	assert.Nil(t, leader.Actions().Current())

	a.Handle(InputEvent{Type: InputMouseClick, X: 5, Y: 5})
	cur := leader.Actions().Current()
	require.NotNil(t, cur)
	assert.Equal(t, action.TypeAttackObject, cur.Type)
	assert.True(t, cur.UserAction)
}

func TestHandle_ClickPeasantStartsConversation(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.SetCamera(topDownCamera{}, false)
	peasant := mustTag(t, a, "peasant")

	a.Handle(InputEvent{Type: InputMouseClick, X: 2, Y: 8})
	a.Handle(InputEvent{Type: InputMouseClick, X: 2, Y: 8})
	cur := a.Leader().Actions().Current()
	require.NotNil(t, cur)
	assert.Equal(t, action.TypeStartConversation, cur.Type)
	assert.Equal(t, peasant.ObjectID(), cur.Conversation.ObjectID)
}

func TestHandle_ClickGroundMovesLeader(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.SetCamera(topDownCamera{}, false)
	leader := a.Leader()

	require.True(t, a.Handle(InputEvent{Type: InputMouseClick, X: 15, Y: 15}))
	cur := leader.Actions().Current()
	require.NotNil(t, cur)
	assert.Equal(t, action.TypeMoveToPoint, cur.Type)
	assert.InDelta(t, 15, cur.MoveToPoint.Destination.X, 1e-9)
	assert.InDelta(t, 15, cur.MoveToPoint.Destination.Y, 1e-9)

	// A second click replaces the first.
	a.Handle(InputEvent{Type: InputMouseClick, X: 12, Y: 3})
	assert.Equal(t, 1, leader.Actions().Len())
	assert.InDelta(t, 12, leader.Actions().Current().MoveToPoint.Destination.X, 1e-9)

	// Clicking outside every room does nothing.
	assert.False(t, a.Handle(InputEvent{Type: InputMouseClick, X: 50, Y: 50}))
}

func TestHandle_KeyboardMovesLeader(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	leader := a.Leader()

	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyD})
	a.Update(0.5)
	assert.InDelta(t, 4, leader.Position().X, 1e-9)
	assert.Equal(t, model.MovementRun, leader.MovementType())

	a.Handle(InputEvent{Type: InputKeyUp, Key: KeyD})
	a.Update(0.5)
	assert.InDelta(t, 4, leader.Position().X, 1e-9)
}

func TestHandle_PauseKey(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyPause})
	assert.True(t, a.Paused())
	a.Handle(InputEvent{Type: InputKeyDown, Key: KeyPause})
	assert.False(t, a.Paused())
	assert.False(t, a.Handle(InputEvent{Type: InputKeyDown, Key: KeyNone}))
}

func TestDestroy(t *testing.T) {
	a, _ := loadArea(t, standardDescriptor())
	a.Destroy()
	assert.Equal(t, model.StateDestroyed, a.State())
	assert.Zero(t, a.ObjectCount())
	assert.NotPanics(t, func() { a.Update(1) })
}

func BenchmarkUpdate(b *testing.B) {
	repo := blueprint.NewMemoryRepository()
	require.NoError(b, repo.Parse([]byte(testBlueprints)))

	desc := testutil.FlatDescriptor("bench")
	for i := range 50 {
		desc.Placements.Creatures = append(desc.Placements.Creatures, level.Placement{
			Blueprint: "c_bandit",
			Position:  geom.V(float64(1+i%18), float64(1+i/18*3), 0),
		})
	}
	a, err := Load(context.Background(), desc, Services{
		Tables:     testutil.Tables,
		Blueprints: repo,
		Scripts:    &script.Recorder{},
		Params:     config.DefaultArea(),
	})
	require.NoError(b, err)

	b.ResetTimer()
	for range b.N {
		a.Update(1.0 / 30)
	}
}
