// Package perception tracks what each creature sees and hears.
package perception

import (
	"github.com/udisondev/areasim/internal/geom"
	"github.com/udisondev/areasim/internal/model"
)

// LineOfSightFunc reports whether observer has an unobstructed view of
// target. A nil func means nothing ever blocks the view.
type LineOfSightFunc func(observer, target *model.Creature) bool

// Notifier receives one call per perception transition, after the
// observer's perception state has been updated.
type Notifier func(observer *model.Creature, target *model.Creature, kind model.PerceptionKind)

// Tracker runs the perception pass over all creature pairs. It keeps no
// state of its own: seen and heard sets live on each creature.
type Tracker struct{}

func NewTracker() *Tracker {
	return &Tracker{}
}

// Update evaluates every (observer, target) pair once. Dead observers and
// self pairs are skipped. Running Update twice with no world change emits
// no notifications the second time.
func (t *Tracker) Update(creatures []*model.Creature, los LineOfSightFunc, notify Notifier) {
	for _, observer := range creatures {
		if observer.IsDead() {
			continue
		}
		p := observer.Perception()
		hearing2 := p.HearingRange * p.HearingRange
		sight2 := p.SightRange * p.SightRange

		for _, target := range creatures {
			if target == observer {
				continue
			}
			id := target.ObjectID()
			dist2 := geom.DistanceSquared(observer.Position(), target.Position())

			heard := dist2 <= hearing2
			switch {
			case heard && !observer.Hears(id):
				observer.OnObjectHeard(id)
				emit(notify, observer, target, model.PerceptionHeard)
			case !heard && observer.Hears(id):
				observer.OnObjectInaudible(id)
				emit(notify, observer, target, model.PerceptionInaudible)
			}

			seen := dist2 <= sight2 && (los == nil || los(observer, target))
			switch {
			case seen && !observer.Sees(id):
				observer.OnObjectSeen(id)
				emit(notify, observer, target, model.PerceptionSeen)
			case !seen && observer.Sees(id):
				observer.OnObjectVanished(id)
				emit(notify, observer, target, model.PerceptionVanished)
			}
		}
	}
}

// Forget removes id from every creature's perception without notifying.
func (t *Tracker) Forget(creatures []*model.Creature, id uint32) {
	for _, c := range creatures {
		c.ForgetObject(id)
	}
}

func emit(notify Notifier, observer, target *model.Creature, kind model.PerceptionKind) {
	if notify != nil {
		notify(observer, target, kind)
	}
}
