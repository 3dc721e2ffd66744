// Package area is the aggregate root of a loaded level. It owns rooms,
// objects and the services that move, perceive and select them, and it
// drives them one frame at a time from Update.
package area

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/areasim/internal/ai"
	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/collision"
	"github.com/udisondev/areasim/internal/config"
	"github.com/udisondev/areasim/internal/data"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/pathfind"
	"github.com/udisondev/areasim/internal/perception"
	"github.com/udisondev/areasim/internal/script"
	"github.com/udisondev/areasim/internal/selection"
	"github.com/udisondev/areasim/internal/spawn"
	"github.com/udisondev/areasim/internal/walkmesh"
	"github.com/udisondev/areasim/internal/world"
)

// ErrUnknownObjectType is returned by CreateObject for kinds that cannot
// be spawned at runtime.
var ErrUnknownObjectType = errors.New("unknown object type")

// Services are the read-only collaborators an area is built with.
type Services struct {
	Tables     *data.Tables
	Blueprints blueprint.Repository
	Scripts    script.Runner
	Params     config.Area
	// LeaderTag selects the party leader among loaded creatures.
	LeaderTag string

	Attack       ai.AttackFunc
	Conversation ai.ConversationFunc
}

// Area is a loaded level. Not safe for concurrent use: every method is
// called from the frame loop.
type Area struct {
	id       uint32
	name     string
	state    model.State
	services Services
	props    level.Properties

	rooms      []*model.Room
	roomByName map[string]*model.Room
	visibility map[string]map[string]struct{}

	registry  *world.Registry
	ids       *world.IDGenerator
	factory   *spawn.Factory
	obstacles []model.Object
	dirty     bool

	pathfinder *pathfind.Pathfinder
	collision  *collision.Service
	perception *perception.Tracker
	selector   *selection.Selector
	executor   *ai.Executor

	camera      selection.Camera
	thirdPerson bool
	leaderID    uint32
	leaderMove  moveKeys
	paused      bool

	time            float64
	perceptionTimer float64
	heartbeatTimer  float64
}

// Load builds an area from a descriptor. A missing room layout entry or
// room walkmesh fails the load; a placement whose blueprint cannot be
// spawned is logged and skipped.
func Load(ctx context.Context, desc *level.Descriptor, svc Services) (*Area, error) {
	if err := desc.Validate(); err != nil {
		return nil, fmt.Errorf("loading area: %w", err)
	}
	if svc.Scripts == nil {
		svc.Scripts = script.LogRunner{}
	}
	if svc.Tables == nil {
		return nil, fmt.Errorf("loading area %s: rule tables are required", desc.Name)
	}

	a := &Area{
		name:       desc.Name,
		state:      model.StateCreated,
		services:   svc,
		props:      desc.Properties,
		roomByName: make(map[string]*model.Room),
		registry:   world.NewRegistry(),
		ids:        world.NewIDGenerator(),
		pathfinder: pathfind.New(),
		perception: perception.NewTracker(),
	}
	a.id = a.ids.Next(model.ObjectTypeInvalid)
	a.factory = spawn.NewFactory(svc.Blueprints, svc.Tables, a.ids)

	if err := a.loadRooms(ctx, desc); err != nil {
		return nil, err
	}
	a.visibility = desc.SymmetricVisibility()

	p := svc.Params
	a.collision = collision.NewService(a, collision.Params{
		ElevationTestZ:       p.ElevationTestZ,
		MaxCollisionDistance: p.MaxCollisionDistance,
		LineOfSightDistance:  p.LineOfSightDistance,
	})
	a.loadPath(desc.Path)

	a.selector = selection.New(a, a.collision, selection.Params{
		SelectionDistance: p.SelectionDistance,
		EyeHeight:         p.LineOfSightHeight,
	})
	a.executor = ai.NewExecutor(a, a.pathfinder, ai.Params{
		ArrivalDistance:        p.ArrivalDistance,
		PathPointReached:       p.PathPointReached,
		PathKeepDuration:       p.PathKeepDuration.Seconds(),
		ObjectInteractDistance: p.ObjectInteractDistance,
		ConversationDistance:   p.ConversationDistance,
		FollowDistance:         p.FollowDistance,
		DefaultAttackRange:     p.DefaultAttackRange,
	})
	a.executor.SetAttackFunc(svc.Attack)
	a.executor.SetConversationFunc(svc.Conversation)

	if err := a.loadObjects(ctx, desc.Placements); err != nil {
		return nil, err
	}
	a.pickLeader()

	a.state = model.StateLoaded
	slog.Info("area loaded",
		"area", a.name,
		"rooms", len(a.rooms),
		"objects", a.registry.Count(),
		"pathPoints", a.pathfinder.VertexCount())
	return a, nil
}

// loadRooms builds room walkmeshes in parallel; rooms keep descriptor order.
func (a *Area) loadRooms(ctx context.Context, desc *level.Descriptor) error {
	meshes := make([]*walkmesh.Walkmesh, len(desc.Rooms))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range desc.Rooms {
		g.Go(func() error {
			wm, err := desc.Walkmeshes[name].Build(a.services.Tables.IsWalkable)
			if err != nil {
				return fmt.Errorf("area %s: room %s walkmesh: %w", desc.Name, name, err)
			}
			meshes[i] = wm
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, name := range desc.Rooms {
		layout, _ := desc.LayoutRoom(name)
		room := model.NewRoom(name, layout.Position, meshes[i])
		a.rooms = append(a.rooms, room)
		a.roomByName[name] = room
	}
	return nil
}

func (a *Area) loadPath(points []level.PathPoint) {
	converted := make([]pathfind.Point, len(points))
	for i, p := range points {
		converted[i] = pathfind.Point{X: p.X, Y: p.Y, Neighbors: p.Neighbors}
	}
	a.pathfinder.Load(converted, func(x, y float64) (float64, bool) {
		c, ok := a.collision.TestElevation(geom.V(x, y, 0))
		return c.Point.Z, ok
	})
}

func (a *Area) loadObjects(ctx context.Context, pl level.Placements) error {
	groups := []struct {
		kind model.ObjectType
		list []level.Placement
	}{
		{model.ObjectTypeCreature, pl.Creatures},
		{model.ObjectTypeDoor, pl.Doors},
		{model.ObjectTypePlaceable, pl.Placeables},
		{model.ObjectTypeTrigger, pl.Triggers},
		{model.ObjectTypeSound, pl.Sounds},
		{model.ObjectTypeCamera, pl.Cameras},
		{model.ObjectTypeWaypoint, pl.Waypoints},
		{model.ObjectTypeEncounter, pl.Encounters},
		{model.ObjectTypeStore, pl.Stores},
	}
	skipped := 0
	for _, g := range groups {
		for _, p := range g.list {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("loading area %s: %w", a.name, err)
			}
			obj, err := a.factory.Spawn(ctx, g.kind, p)
			if err != nil {
				slog.Warn("skipping placement",
					"area", a.name,
					"type", g.kind,
					"tag", p.Tag,
					"blueprint", p.Blueprint,
					"error", err)
				skipped++
				continue
			}
			if err := a.add(obj); err != nil {
				return fmt.Errorf("loading area %s: %w", a.name, err)
			}
		}
	}
	if skipped > 0 {
		slog.Warn("area loaded with skipped placements", "area", a.name, "skipped", skipped)
	}
	return nil
}

// add registers obj and places it on the ground.
func (a *Area) add(obj model.Object) error {
	if err := a.registry.Add(obj); err != nil {
		return err
	}
	a.dirty = true
	if obj.Type() == model.ObjectTypeCreature {
		a.snapToGround(obj)
	} else {
		a.updateRoom(obj)
	}
	return nil
}

func (a *Area) pickLeader() {
	if a.services.LeaderTag == "" {
		return
	}
	if obj, ok := a.registry.ByTag(a.services.LeaderTag, 0); ok && obj.Type() == model.ObjectTypeCreature {
		a.leaderID = obj.ObjectID()
	}
}

// ID is the area's own object id, used as the caller of area scripts.
func (a *Area) ID() uint32 {
	return a.id
}

func (a *Area) Name() string {
	return a.name
}

func (a *Area) State() model.State {
	return a.state
}

// Properties returns the area-level scalars.
func (a *Area) Properties() level.Properties {
	return a.props
}

// Room returns a room by name.
func (a *Area) Room(name string) (*model.Room, bool) {
	r, ok := a.roomByName[name]
	return r, ok
}

// Rooms returns rooms in layout order. Implements collision.Scene.
func (a *Area) Rooms() []*model.Room {
	return a.rooms
}

// Obstacles returns doors and placeables that carry a walkmesh.
// Implements collision.Scene.
func (a *Area) Obstacles() []model.Object {
	if a.dirty {
		a.obstacles = a.obstacles[:0]
		for _, kind := range []model.ObjectType{model.ObjectTypeDoor, model.ObjectTypePlaceable} {
			for _, obj := range a.registry.ByType(kind) {
				if obj.Base().Walkmesh() != nil {
					a.obstacles = append(a.obstacles, obj)
				}
			}
		}
		a.dirty = false
	}
	return a.obstacles
}

// Object looks up a live object. Implements selection.Scene and ai.World.
func (a *Area) Object(id uint32) (model.Object, bool) {
	return a.registry.Object(id)
}

// Objects returns live objects in ascending id order (do not modify).
// Implements selection.Scene.
func (a *Area) Objects() []model.Object {
	return a.registry.All()
}

// Time returns simulated seconds since load. Implements ai.World.
func (a *Area) Time() float64 {
	return a.time
}

// Collision exposes the collision service.
func (a *Area) Collision() *collision.Service {
	return a.collision
}

// Pathfinder exposes the path graph.
func (a *Area) Pathfinder() *pathfind.Pathfinder {
	return a.pathfinder
}

// Selector exposes the selection state.
func (a *Area) Selector() *selection.Selector {
	return a.selector
}

// Executor exposes the action executor.
func (a *Area) Executor() *ai.Executor {
	return a.executor
}

// SetCamera installs the active camera. thirdPerson enables room
// visibility culling around the party leader.
func (a *Area) SetCamera(cam selection.Camera, thirdPerson bool) {
	a.camera = cam
	a.thirdPerson = thirdPerson
}

// Leader returns the party leader or nil.
func (a *Area) Leader() *model.Creature {
	if a.leaderID == 0 {
		return nil
	}
	obj, ok := a.registry.Object(a.leaderID)
	if !ok {
		return nil
	}
	c, _ := obj.(*model.Creature)
	return c
}

// SetPartyLeader makes creature id the party leader; 0 clears it.
func (a *Area) SetPartyLeader(id uint32) error {
	if id == 0 {
		a.leaderID = 0
		return nil
	}
	obj, ok := a.registry.Object(id)
	if !ok || obj.Type() != model.ObjectTypeCreature {
		return fmt.Errorf("party leader %d: not a creature in area %s", id, a.name)
	}
	a.leaderID = id
	return nil
}

// SetPaused stops object updates; visibility and selection still refresh.
func (a *Area) SetPaused(paused bool) {
	a.paused = paused
}

func (a *Area) Paused() bool {
	return a.paused
}

// Destroy releases every object. The area must not be used afterwards.
func (a *Area) Destroy() {
	a.registry.Reset()
	a.obstacles = nil
	a.selector.Clear()
	a.leaderID = 0
	for _, r := range a.rooms {
		for _, id := range r.Tenants() {
			r.RemoveTenant(id)
		}
	}
	a.state = model.StateDestroyed
}
