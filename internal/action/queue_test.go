package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/areasim/internal/geom"
)

func TestQueue_FIFO(t *testing.T) {
	var q Queue
	a1 := NewWait(1)
	a2 := NewDoCommand("k_ai_master")

	assert.Nil(t, q.Current())

	q.Add(a1)
	q.Add(a2)
	assert.Same(t, a1, q.Current())

	q.Pop()
	assert.Same(t, a2, q.Current())
	q.Pop()
	assert.Nil(t, q.Current())

	q.Pop() // empty pop is a no-op
	assert.Equal(t, 0, q.Len())
}

func TestQueue_AddFirst(t *testing.T) {
	var q Queue
	a1 := NewWait(1)
	a2 := NewWait(2)
	q.Add(a1)
	q.AddFirst(a2)
	assert.Same(t, a2, q.Current())
	assert.Equal(t, 2, q.Len())
}

func TestQueue_Delayed(t *testing.T) {
	var q Queue
	first := NewMoveToPoint(geom.V(1, 2, 0), false)
	late := NewDoCommand("late")
	early := NewDoCommand("early")

	q.Add(first)
	q.AddDelayed(late, 2)
	q.AddDelayed(early, 0.5)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 2, q.DelayedLen())

	q.Update(0.6)
	require.Equal(t, 2, q.Len())
	assert.Equal(t, 1, q.DelayedLen())
	assert.Same(t, early, q.Actions()[1])

	q.Update(1.5)
	require.Equal(t, 3, q.Len())
	assert.Equal(t, 0, q.DelayedLen())
	assert.Same(t, late, q.Actions()[2])
}

func TestQueue_Disjoint(t *testing.T) {
	var q Queue
	a := NewWait(1)
	q.AddDelayed(a, 1)

	for _, queued := range q.Actions() {
		assert.NotSame(t, a, queued)
	}
	q.Update(1)
	assert.Equal(t, 0, q.DelayedLen())
	assert.Same(t, a, q.Current())
}

func TestQueue_Clear(t *testing.T) {
	var q Queue
	q.Add(NewWait(1))
	q.AddDelayed(NewWait(1), 3)
	q.Clear()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.DelayedLen())
}

func TestQueue_ClearUserActions(t *testing.T) {
	var q Queue
	scripted := NewWait(1)
	user := NewMoveToPoint(geom.V(0, 0, 0), true)
	user.UserAction = true
	q.Add(user)
	q.Add(scripted)

	q.ClearUserActions()
	assert.Equal(t, []*Action{scripted}, q.Actions())
}

func TestAction_TargetID(t *testing.T) {
	assert.Equal(t, uint32(7), NewAttackObject(7).TargetID())
	assert.Equal(t, uint32(8), NewOpenDoor(8).TargetID())
	assert.Equal(t, uint32(9), NewStartConversation(9, "dlg", false).TargetID())
	assert.Equal(t, uint32(0), NewWait(1).TargetID())
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "ATTACK_OBJECT", TypeAttackObject.String())
	assert.Equal(t, "UNKNOWN", Type(99).String())
}
