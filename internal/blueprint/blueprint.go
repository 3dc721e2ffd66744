// Package blueprint describes object templates and where they come from.
package blueprint

import (
	"context"
	"errors"

	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
)

// ErrNotFound is returned by Repository.Lookup for unknown resrefs.
var ErrNotFound = errors.New("blueprint not found")

// Repository resolves blueprints by kind and resref.
type Repository interface {
	Lookup(ctx context.Context, kind model.ObjectType, resref string) (*Blueprint, error)
}

// Blueprint is an object template. Exactly one kind-specific section is
// set, matching Kind.
type Blueprint struct {
	Kind         model.ObjectType  `yaml:"-"`
	ResRef       string            `yaml:"resref"`
	Name         string            `yaml:"name"`
	Tag          string            `yaml:"tag"`
	Plot         bool              `yaml:"plot"`
	Conversation string            `yaml:"conversation"`
	Scripts      map[string]string `yaml:"scripts,omitempty"`
	Bounds       *Box              `yaml:"bounds,omitempty"`
	Walkmesh     *level.Mesh       `yaml:"walkmesh,omitempty"`

	Creature  *Creature  `yaml:"creature,omitempty"`
	Door      *Door      `yaml:"door,omitempty"`
	Placeable *Placeable `yaml:"placeable,omitempty"`
	Sound     *Sound     `yaml:"sound,omitempty"`
	Encounter *Encounter `yaml:"encounter,omitempty"`
	Store     *Store     `yaml:"store,omitempty"`
}

// Box is an object-local bounding box.
type Box struct {
	Min geom.Vec3 `yaml:"min"`
	Max geom.Vec3 `yaml:"max"`
}

// AABB converts the box.
func (b Box) AABB() geom.AABB {
	return geom.AABB{Min: b.Min, Max: b.Max}
}

type Creature struct {
	Faction         int32   `yaml:"faction"`
	MaxHP           int32   `yaml:"max_hp"`
	WalkSpeed       float64 `yaml:"walk_speed"`
	RunSpeed        float64 `yaml:"run_speed"`
	AttackRange     float64 `yaml:"attack_range"`
	PerceptionRange int     `yaml:"perception_range"`
	NotSelectable   bool    `yaml:"not_selectable"`
	Items           int     `yaml:"items"`
}

type Door struct {
	Locked bool   `yaml:"locked"`
	Static bool   `yaml:"static"`
	KeyTag string `yaml:"key_tag"`
}

type Placeable struct {
	Usable       bool `yaml:"usable"`
	HasInventory bool `yaml:"has_inventory"`
	Items        int  `yaml:"items"`
}

type Sound struct {
	Active      bool     `yaml:"active"`
	Positional  bool     `yaml:"positional"`
	MaxDistance float64  `yaml:"max_distance"`
	Sounds      []string `yaml:"sounds"`
}

type Encounter struct {
	Spawns []string `yaml:"spawns"`
}

type Store struct {
	MarkUp   int32 `yaml:"mark_up"`
	MarkDown int32 `yaml:"mark_down"`
}

// ScriptBindings converts script names keyed by event name. Unknown event
// names are reported in the second return value.
func (b *Blueprint) ScriptBindings() (map[model.ScriptEvent]string, []string) {
	bound := make(map[model.ScriptEvent]string, len(b.Scripts))
	var unknown []string
	for name, script := range b.Scripts {
		ev, ok := model.ParseScriptEvent(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		bound[ev] = script
	}
	return bound, unknown
}
