package area

import (
	"context"
	"log/slog"
	"slices"

	"github.com/udisondev/areasim/internal/ai"
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// Update advances the area by dt seconds. The order is fixed: destroyed
// objects are flushed, room visibility and selection are refreshed, then
// (unless paused) objects act, triggers fire, perception and heartbeat run
// on their intervals. Update never panics; a failing object is logged and
// skipped for the frame.
func (a *Area) Update(dt float64) {
	if a.state != model.StateLoaded {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("area update panicked", "area", a.name, "panic", r)
		}
	}()

	a.flushDestroyed()
	a.updateVisibility()
	a.selector.Update(a.leaderObject())

	if a.paused || dt <= 0 {
		return
	}
	a.time += dt

	a.updateLeaderMovement(dt)

	// Scripts fired by actions may create objects; iterate a snapshot.
	for _, obj := range slices.Clone(a.registry.All()) {
		if a.registry.IsMarked(obj.ObjectID()) {
			continue
		}
		a.updateObject(obj, dt)
	}
	a.updateTriggers()

	a.perceptionTimer += dt
	if interval := a.services.Params.PerceptionInterval.Seconds(); a.perceptionTimer >= interval {
		a.perceptionTimer = 0
		a.updatePerception()
	}

	a.heartbeatTimer += dt
	if interval := a.services.Params.HeartbeatInterval.Seconds(); a.heartbeatTimer >= interval {
		a.heartbeatTimer = 0
		a.heartbeat()
	}
}

func (a *Area) updateObject(obj model.Object, dt float64) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("object update panicked",
				"area", a.name,
				"id", obj.ObjectID(),
				"tag", obj.Tag(),
				"panic", r)
		}
	}()
	obj.Update(dt)
	a.executor.Execute(obj, dt)
}

// flushDestroyed erases queued objects and every weak reference to them.
func (a *Area) flushDestroyed() {
	if a.registry.PendingCount() == 0 {
		return
	}
	n := a.registry.FlushDestroyed(func(obj model.Object) {
		id := obj.ObjectID()
		a.setRoom(obj, "")
		a.selector.Forget(id)
		a.perception.Forget(a.registry.Creatures(), id)
		for _, t := range a.registry.ByType(model.ObjectTypeTrigger) {
			t.(*model.Trigger).RemoveTenant(id)
		}
		if id == a.leaderID {
			a.leaderID = 0
			a.leaderMove = moveKeys{}
		}
	})
	a.dirty = true
	slog.Debug("destroyed objects", "area", a.name, "count", n)
}

// updateVisibility shows every room unless a third-person camera follows a
// leader standing in a room; then only that room and the rooms visible
// from it are shown. Objects follow the visibility of their room.
func (a *Area) updateVisibility() {
	current := ""
	if leader := a.Leader(); leader != nil && a.thirdPerson {
		current = leader.Room()
	}
	visibleFrom := a.visibility[current]
	for _, r := range a.rooms {
		if current == "" {
			r.SetVisible(true)
			continue
		}
		_, ok := visibleFrom[r.Name()]
		r.SetVisible(r.Name() == current || ok)
	}
	for _, obj := range a.registry.All() {
		room, ok := a.roomByName[obj.Base().Room()]
		obj.Base().SetVisible(!ok || room.Visible())
	}
}

// updateTriggers fires OnEnter/OnExit when creatures cross trigger borders
// and springs encounters the party leader walks into.
func (a *Area) updateTriggers() {
	a.updateEncounters()

	triggers := a.registry.ByType(model.ObjectTypeTrigger)
	if len(triggers) == 0 {
		return
	}
	creatures := a.registry.Creatures()
	for _, obj := range slices.Clone(triggers) {
		t := obj.(*model.Trigger)
		for _, c := range creatures {
			id := c.ObjectID()
			inside := !a.registry.IsMarked(id) && t.Contains(c.Position())
			switch {
			case inside && !t.HasTenant(id):
				t.AddTenant(id)
				a.runObjectScript(t, model.ScriptOnEnter, id)
			case !inside && t.HasTenant(id):
				t.RemoveTenant(id)
				a.runObjectScript(t, model.ScriptOnExit, id)
			}
		}
	}
}

func (a *Area) updateEncounters() {
	leader := a.Leader()
	if leader == nil || leader.IsDead() {
		return
	}
	for _, obj := range slices.Clone(a.registry.ByType(model.ObjectTypeEncounter)) {
		e := obj.(*model.Encounter)
		if !e.IsActive() || !e.Contains(leader.Position()) {
			continue
		}
		e.Deactivate()
		for _, resref := range e.Spawns() {
			// Frame code has no caller context; blueprint lookups are local.
			if _, err := a.CreateObject(context.Background(), model.ObjectTypeCreature, resref, e.Location()); err != nil {
				slog.Warn("encounter spawn failed",
					"area", a.name,
					"encounter", e.Tag(),
					"blueprint", resref,
					"error", err)
			}
		}
		a.runObjectScript(e, model.ScriptOnEnter, leader.ObjectID())
	}
}

func (a *Area) updatePerception() {
	var los func(observer, target *model.Creature) bool
	if len(a.rooms) > 0 {
		los = a.lineOfSight
	}
	a.perception.Update(a.registry.Creatures(), los, a.notice)
}

func (a *Area) lineOfSight(observer, target *model.Creature) bool {
	eye := geom.V(0, 0, a.services.Params.LineOfSightHeight)
	_, blocked := a.collision.TestLineOfSight(observer.Position().Add(eye), target.Position().Add(eye))
	return !blocked
}

func (a *Area) notice(observer, target *model.Creature, kind model.PerceptionKind) {
	if ai.IsDebugEnabled() {
		slog.Debug("perception",
			"area", a.name,
			"observer", observer.ObjectID(),
			"target", target.ObjectID(),
			"kind", kind)
	}
	a.runObjectScript(observer, model.ScriptOnNotice, target.ObjectID())
}

func (a *Area) leaderObject() model.Object {
	if l := a.Leader(); l != nil {
		return l
	}
	return nil
}
