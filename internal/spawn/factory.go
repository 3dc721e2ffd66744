// Package spawn turns placement records and blueprints into area objects.
package spawn

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/data"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/world"
)

// Factory builds objects. Each call allocates a fresh id.
type Factory struct {
	repo   blueprint.Repository
	tables *data.Tables
	ids    *world.IDGenerator
}

// NewFactory creates a factory. ids is shared with the owning area.
func NewFactory(repo blueprint.Repository, tables *data.Tables, ids *world.IDGenerator) *Factory {
	return &Factory{repo: repo, tables: tables, ids: ids}
}

// Spawn builds one object of kind from a placement. Cameras need no
// blueprint; every other kind fails with a wrapped blueprint.ErrNotFound
// when its blueprint is missing.
func (f *Factory) Spawn(ctx context.Context, kind model.ObjectType, p level.Placement) (model.Object, error) {
	loc := model.Location{Position: p.Position, Facing: p.Facing}

	if kind == model.ObjectTypeCamera {
		cam := model.NewCamera(f.ids.Next(kind), p.Tag, loc, p.CameraID, p.FieldOfView, p.Pitch, p.Height)
		return cam, nil
	}

	bp, err := f.repo.Lookup(ctx, kind, p.Blueprint)
	if err != nil {
		return nil, fmt.Errorf("spawning %s %q: %w", kind, p.Tag, err)
	}

	tag := p.Tag
	if tag == "" {
		tag = bp.Tag
	}
	id := f.ids.Next(kind)

	var obj model.Object
	switch kind {
	case model.ObjectTypeCreature:
		obj = model.NewCreature(id, tag, loc, f.creatureStats(bp))
	case model.ObjectTypeDoor:
		props := model.DoorProps{LinkedTo: p.LinkedTo}
		if bp.Door != nil {
			props.Locked = bp.Door.Locked
			props.Static = bp.Door.Static
			props.KeyTag = bp.Door.KeyTag
		}
		obj = model.NewDoor(id, tag, loc, props)
	case model.ObjectTypePlaceable:
		var props model.PlaceableProps
		if bp.Placeable != nil {
			props = model.PlaceableProps{
				Usable:       bp.Placeable.Usable,
				HasInventory: bp.Placeable.HasInventory,
				ItemCount:    bp.Placeable.Items,
			}
		}
		obj = model.NewPlaceable(id, tag, loc, props)
	case model.ObjectTypeTrigger:
		obj = model.NewTrigger(id, tag, loc, p.Geometry)
	case model.ObjectTypeSound:
		var s blueprint.Sound
		if bp.Sound != nil {
			s = *bp.Sound
		}
		obj = model.NewSound(id, tag, loc, s.Active, s.Positional, s.MaxDistance, s.Sounds)
	case model.ObjectTypeWaypoint:
		obj = model.NewWaypoint(id, tag, loc, p.MapNote)
	case model.ObjectTypeEncounter:
		var spawns []string
		if bp.Encounter != nil {
			spawns = bp.Encounter.Spawns
		}
		obj = model.NewEncounter(id, tag, loc, p.Geometry, spawns)
	case model.ObjectTypeStore:
		var s blueprint.Store
		if bp.Store != nil {
			s = *bp.Store
		}
		obj = model.NewStore(id, tag, loc, s.MarkUp, s.MarkDown)
	default:
		return nil, fmt.Errorf("spawning %q: unsupported object type %s", tag, kind)
	}

	if err := f.apply(obj.Base(), bp); err != nil {
		return nil, fmt.Errorf("spawning %s %q: %w", kind, tag, err)
	}
	obj.Base().SetState(model.StateLoaded)
	return obj, nil
}

func (f *Factory) creatureStats(bp *blueprint.Blueprint) model.CreatureStats {
	stats := model.CreatureStats{Selectable: true}
	rangeID := data.DefaultPerceptionRange
	if c := bp.Creature; c != nil {
		stats.Faction = c.Faction
		stats.MaxHP = c.MaxHP
		stats.WalkSpeed = c.WalkSpeed
		stats.RunSpeed = c.RunSpeed
		stats.AttackRange = c.AttackRange
		stats.ItemCount = c.Items
		stats.Selectable = !c.NotSelectable
		if c.PerceptionRange != 0 {
			rangeID = c.PerceptionRange
		}
	}
	pr, ok := f.tables.PerceptionRange(rangeID)
	if !ok {
		slog.Warn("unknown perception range, using default",
			"blueprint", bp.ResRef,
			"range", rangeID)
		pr, _ = f.tables.PerceptionRange(data.DefaultPerceptionRange)
	}
	stats.SightRange = pr.Sight
	stats.HearingRange = pr.Hearing
	return stats
}

// apply copies the kind-independent blueprint fields.
func (f *Factory) apply(obj *model.WorldObject, bp *blueprint.Blueprint) error {
	obj.SetBlueprint(bp.ResRef)
	obj.SetName(bp.Name)
	obj.SetPlot(bp.Plot)
	obj.SetConversation(bp.Conversation)

	scripts, unknown := bp.ScriptBindings()
	for event, name := range scripts {
		obj.SetScript(event, name)
	}
	if len(unknown) > 0 {
		slog.Warn("blueprint binds unknown script events",
			"blueprint", bp.ResRef,
			"events", unknown)
	}

	if bp.Bounds != nil {
		obj.SetBounds(bp.Bounds.AABB())
	}
	if bp.Walkmesh != nil {
		wm, err := bp.Walkmesh.Build(f.tables.IsWalkable)
		if err != nil {
			return fmt.Errorf("building walkmesh: %w", err)
		}
		obj.SetWalkmesh(wm)
	}
	return nil
}
