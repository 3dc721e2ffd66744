package model

import (
	"slices"

	"github.com/udisondev/areasim/internal/geom"
)

// Standard factions. Hostility is symmetric: hostile creatures are enemies
// of everyone outside their faction.
const (
	FactionHostile  int32 = 1
	FactionFriendly int32 = 2
	FactionNeutral  int32 = 5
)

// Path is the cached route of a navigating creature.
// Replaced, never mutated, when recomputed (PointIdx is the only cursor).
type Path struct {
	Destination geom.Vec3
	Points      []geom.Vec3
	// FoundAt is area time in seconds when the route was computed.
	FoundAt  float64
	PointIdx int
}

// SelectNextPoint advances the cursor; it stops at len(Points).
func (p *Path) SelectNextPoint() {
	if p.PointIdx < len(p.Points) {
		p.PointIdx++
	}
}

// Exhausted reports whether every intermediate point has been consumed.
func (p *Path) Exhausted() bool {
	return p.PointIdx >= len(p.Points)
}

// Perception is a creature's awareness state. Sets hold object ids
// (weak references, validated against the registry on use).
type Perception struct {
	SightRange     float64
	HearingRange   float64
	Seen           map[uint32]struct{}
	Heard          map[uint32]struct{}
	LastPerceived  uint32
	LastPerception PerceptionKind
}

// Creature is an NPC or party member.
type Creature struct {
	*WorldObject

	faction     int32
	maxHP       int32
	currentHP   int32
	dead        bool
	selectable  bool
	itemCount   int
	walkSpeed   float64
	runSpeed    float64
	attackRange float64
	restricted  bool

	movementType MovementType
	perception   Perception
	path         *Path
}

// CreatureStats carries blueprint values for NewCreature.
type CreatureStats struct {
	Faction      int32
	MaxHP        int32
	WalkSpeed    float64
	RunSpeed     float64
	AttackRange  float64
	SightRange   float64
	HearingRange float64
	ItemCount    int
	Selectable   bool
}

// NewCreature creates a live creature.
func NewCreature(objectID uint32, tag string, loc Location, stats CreatureStats) *Creature {
	return &Creature{
		WorldObject: NewWorldObject(objectID, ObjectTypeCreature, tag, loc),
		faction:     stats.Faction,
		maxHP:       stats.MaxHP,
		currentHP:   stats.MaxHP,
		selectable:  stats.Selectable,
		itemCount:   stats.ItemCount,
		walkSpeed:   stats.WalkSpeed,
		runSpeed:    stats.RunSpeed,
		attackRange: stats.AttackRange,
		perception: Perception{
			SightRange:   stats.SightRange,
			HearingRange: stats.HearingRange,
			Seen:         make(map[uint32]struct{}),
			Heard:        make(map[uint32]struct{}),
		},
	}
}

// Selectable: a dead creature stays selectable only while it can be looted.
func (c *Creature) Selectable() bool {
	return c.selectable && (!c.dead || c.itemCount > 0)
}

func (c *Creature) Faction() int32 {
	return c.faction
}

func (c *Creature) SetFaction(f int32) {
	c.faction = f
}

// IsEnemy reports whether c and other are hostile to each other.
func (c *Creature) IsEnemy(other *Creature) bool {
	if c.faction == other.faction {
		return false
	}
	return c.faction == FactionHostile || other.faction == FactionHostile
}

func (c *Creature) IsDead() bool {
	return c.dead
}

func (c *Creature) CurrentHP() int32 {
	return c.currentHP
}

func (c *Creature) MaxHP() int32 {
	return c.maxHP
}

// SetCurrentHP clamps to [0, max]; reaching 0 kills the creature.
func (c *Creature) SetCurrentHP(hp int32) {
	c.currentHP = max(0, min(hp, c.maxHP))
	if c.currentHP == 0 {
		c.Die()
	}
}

// Die marks the creature dead and stops it. Idempotent.
func (c *Creature) Die() {
	if c.dead {
		return
	}
	c.dead = true
	c.currentHP = 0
	c.movementType = MovementNone
	c.path = nil
	c.Actions().Clear()
}

func (c *Creature) ItemCount() int {
	return c.itemCount
}

func (c *Creature) SetItemCount(n int) {
	c.itemCount = n
}

func (c *Creature) WalkSpeed() float64 {
	return c.walkSpeed
}

func (c *Creature) RunSpeed() float64 {
	return c.runSpeed
}

// Speed returns run or walk speed in units per second.
func (c *Creature) Speed(run bool) float64 {
	if run {
		return c.runSpeed
	}
	return c.walkSpeed
}

func (c *Creature) AttackRange() float64 {
	return c.attackRange
}

// MovementRestricted is set while a cutscene or conversation holds the creature.
func (c *Creature) MovementRestricted() bool {
	return c.restricted
}

func (c *Creature) SetMovementRestricted(r bool) {
	c.restricted = r
}

func (c *Creature) MovementType() MovementType {
	return c.movementType
}

func (c *Creature) SetMovementType(m MovementType) {
	c.movementType = m
}

// Perception returns the mutable perception state.
func (c *Creature) Perception() *Perception {
	return &c.perception
}

// Path returns the cached route or nil.
func (c *Creature) Path() *Path {
	return c.path
}

// SetPath replaces the cached route.
func (c *Creature) SetPath(p *Path) {
	c.path = p
}

func (c *Creature) ClearPath() {
	c.path = nil
}

// ClearAllActions cancels the queue and drops the cached route.
func (c *Creature) ClearAllActions() {
	c.Actions().Clear()
	c.path = nil
	c.movementType = MovementNone
}

// Sees reports whether id is in the seen set.
func (c *Creature) Sees(id uint32) bool {
	_, ok := c.perception.Seen[id]
	return ok
}

// Hears reports whether id is in the heard set.
func (c *Creature) Hears(id uint32) bool {
	_, ok := c.perception.Heard[id]
	return ok
}

// SeenObjects returns the seen ids in ascending order.
func (c *Creature) SeenObjects() []uint32 {
	ids := make([]uint32, 0, len(c.perception.Seen))
	for id := range c.perception.Seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// OnObjectSeen records a not-seen -> seen transition.
func (c *Creature) OnObjectSeen(id uint32) {
	c.perception.Seen[id] = struct{}{}
	c.perception.LastPerceived = id
	c.perception.LastPerception = PerceptionSeen
}

// OnObjectVanished records a seen -> not-seen transition.
func (c *Creature) OnObjectVanished(id uint32) {
	delete(c.perception.Seen, id)
	c.perception.LastPerceived = id
	c.perception.LastPerception = PerceptionVanished
}

// OnObjectHeard records a not-heard -> heard transition.
func (c *Creature) OnObjectHeard(id uint32) {
	c.perception.Heard[id] = struct{}{}
	c.perception.LastPerceived = id
	c.perception.LastPerception = PerceptionHeard
}

// OnObjectInaudible records a heard -> not-heard transition.
func (c *Creature) OnObjectInaudible(id uint32) {
	delete(c.perception.Heard, id)
	c.perception.LastPerceived = id
	c.perception.LastPerception = PerceptionInaudible
}

// ForgetObject drops id from perception without a notification.
// Called when id is destroyed.
func (c *Creature) ForgetObject(id uint32) {
	delete(c.perception.Seen, id)
	delete(c.perception.Heard, id)
	if c.perception.LastPerceived == id {
		c.perception.LastPerceived = 0
		c.perception.LastPerception = PerceptionNone
	}
}
