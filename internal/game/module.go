// Package game owns the current area and the services it is built with,
// and drives it from a fixed-rate frame loop.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/udisondev/areasim/internal/ai"
	"github.com/udisondev/areasim/internal/area"
	"github.com/udisondev/areasim/internal/blueprint"
	"github.com/udisondev/areasim/internal/config"
	"github.com/udisondev/areasim/internal/data"
	"github.com/udisondev/areasim/internal/level"
	"github.com/udisondev/areasim/internal/model"
	"github.com/udisondev/areasim/internal/script"
)

// ErrNoArea is the panic value of CurrentArea when nothing is loaded.
var ErrNoArea = errors.New("no area loaded")

// Services are the process-wide collaborators shared by every area.
type Services struct {
	Tables     *data.Tables
	Blueprints blueprint.Repository
	Scripts    script.Runner

	// Attack and Conversation are optional hooks into combat and dialog.
	Attack       ai.AttackFunc
	Conversation ai.ConversationFunc
}

// Module holds the current area. Update, Handle and WithArea serialize on
// an internal mutex so a viewer goroutine can read the area between frames.
type Module struct {
	cfg      config.Engine
	services Services
	levels   *level.Cache

	mu       sync.Mutex
	current  *area.Area
	areaPath string
}

// NewModule creates a module with no area loaded.
func NewModule(cfg config.Engine, services Services) *Module {
	if services.Scripts == nil {
		services.Scripts = script.LogRunner{}
	}
	return &Module{
		cfg:      cfg,
		services: services,
		levels:   level.NewCache(),
	}
}

// LoadArea builds the area at path and makes it current. On error the
// previous area, if any, stays current.
func (m *Module) LoadArea(ctx context.Context, path string) error {
	desc, _, err := m.levels.Load(path)
	if err != nil {
		return fmt.Errorf("loading area: %w", err)
	}
	return m.install(ctx, path, desc)
}

// ReloadArea rebuilds the current area when its descriptor changed on disk.
// Returns false without touching the area when the digest is unchanged.
func (m *Module) ReloadArea(ctx context.Context) (bool, error) {
	m.mu.Lock()
	path := m.areaPath
	m.mu.Unlock()
	if path == "" {
		return false, ErrNoArea
	}

	desc, changed, err := m.levels.Load(path)
	if err != nil {
		return false, fmt.Errorf("reloading area: %w", err)
	}
	if !changed {
		return false, nil
	}
	if err := m.install(ctx, path, desc); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Module) install(ctx context.Context, path string, desc *level.Descriptor) error {
	next, err := area.Load(ctx, desc, m.areaServices())
	if err != nil {
		// Force a rebuild on the next reload even if the file is untouched.
		m.levels.Forget(path)
		return fmt.Errorf("loading area %s: %w", path, err)
	}

	// Exit and enter scripts run under the lock so they never overlap a
	// frame already driving the new area.
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.current
	m.current = next
	m.areaPath = path

	if prev != nil {
		if l := prev.Leader(); l != nil {
			prev.RunOnExit(l.ObjectID())
		}
		prev.Destroy()
		slog.Info("area unloaded", "area", prev.Name())
	}
	if l := next.Leader(); l != nil {
		next.RunOnEnter(l.ObjectID())
	}
	return nil
}

func (m *Module) areaServices() area.Services {
	return area.Services{
		Tables:       m.services.Tables,
		Blueprints:   m.services.Blueprints,
		Scripts:      m.services.Scripts,
		Params:       m.cfg.Area,
		LeaderTag:    m.cfg.LeaderTag,
		Attack:       m.attack,
		Conversation: m.services.Conversation,
	}
}

// attack logs every registered attack and forwards it to the combat hook.
func (m *Module) attack(attacker, target *model.Creature) {
	slog.Info("attack",
		"attacker", attacker.ObjectID(),
		"target", target.ObjectID())
	if m.services.Attack != nil {
		m.services.Attack(attacker, target)
	}
}

// HasArea reports whether an area is loaded.
func (m *Module) HasArea() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current != nil
}

// CurrentArea returns the loaded area. Calling it before LoadArea
// succeeded is a programming error and panics.
func (m *Module) CurrentArea() *area.Area {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		panic(ErrNoArea)
	}
	return m.current
}

// Update advances the current area by dt seconds. No-op without an area.
func (m *Module) Update(dt float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Update(dt)
	}
}

// Handle forwards an input event to the current area.
func (m *Module) Handle(ev area.InputEvent) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return false
	}
	return m.current.Handle(ev)
}

// WithArea runs fn with the current area while no frame is running.
// Returns false without calling fn when no area is loaded.
func (m *Module) WithArea(fn func(a *area.Area)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return false
	}
	fn(m.current)
	return true
}
