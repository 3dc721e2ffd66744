package blueprint

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/areasim/internal/model"
)

// File is the on-disk YAML layout: blueprints grouped by kind.
type File struct {
	Creatures  []*Blueprint `yaml:"creatures"`
	Doors      []*Blueprint `yaml:"doors"`
	Placeables []*Blueprint `yaml:"placeables"`
	Triggers   []*Blueprint `yaml:"triggers"`
	Sounds     []*Blueprint `yaml:"sounds"`
	Waypoints  []*Blueprint `yaml:"waypoints"`
	Encounters []*Blueprint `yaml:"encounters"`
	Stores     []*Blueprint `yaml:"stores"`
}

type key struct {
	kind   model.ObjectType
	resref string
}

// MemoryRepository serves blueprints from memory. Safe for concurrent use.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[key]*Blueprint
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[key]*Blueprint)}
}

// LoadFile reads a YAML blueprint file. A missing file yields an empty repository.
func LoadFile(path string) (*MemoryRepository, error) {
	repo := NewMemoryRepository()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return repo, nil
		}
		return nil, fmt.Errorf("reading blueprints %s: %w", path, err)
	}
	if err := repo.Parse(data); err != nil {
		return nil, fmt.Errorf("blueprints %s: %w", path, err)
	}
	return repo, nil
}

// Parse decodes YAML and adds every blueprint in it.
func (r *MemoryRepository) Parse(data []byte) error {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing blueprints: %w", err)
	}
	groups := []struct {
		kind model.ObjectType
		list []*Blueprint
	}{
		{model.ObjectTypeCreature, f.Creatures},
		{model.ObjectTypeDoor, f.Doors},
		{model.ObjectTypePlaceable, f.Placeables},
		{model.ObjectTypeTrigger, f.Triggers},
		{model.ObjectTypeSound, f.Sounds},
		{model.ObjectTypeWaypoint, f.Waypoints},
		{model.ObjectTypeEncounter, f.Encounters},
		{model.ObjectTypeStore, f.Stores},
	}
	for _, g := range groups {
		for _, bp := range g.list {
			if bp.ResRef == "" {
				return fmt.Errorf("%s blueprint without resref", g.kind)
			}
			bp.Kind = g.kind
			r.Put(bp)
		}
	}
	return nil
}

// Put adds or replaces a blueprint.
func (r *MemoryRepository) Put(bp *Blueprint) {
	r.mu.Lock()
	r.items[key{bp.Kind, bp.ResRef}] = bp
	r.mu.Unlock()
}

// Len returns the number of blueprints.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// All returns every blueprint in no particular order.
func (r *MemoryRepository) All() []*Blueprint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Blueprint, 0, len(r.items))
	for _, bp := range r.items {
		out = append(out, bp)
	}
	return out
}

func (r *MemoryRepository) Lookup(_ context.Context, kind model.ObjectType, resref string) (*Blueprint, error) {
	r.mu.RLock()
	bp, ok := r.items[key{kind, resref}]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", kind, resref, ErrNotFound)
	}
	return bp, nil
}
