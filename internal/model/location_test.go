package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocation_DistanceSquared(t *testing.T) {
	a := NewLocation(0, 0, 0, 0)
	b := NewLocation(3, 4, 0, 1)
	assert.Equal(t, 25.0, a.DistanceSquared(b))
}

func TestLocation_WithFacing(t *testing.T) {
	a := NewLocation(1, 2, 3, 0)
	b := a.WithFacing(2)
	assert.Equal(t, 0.0, a.Facing, "original is unchanged")
	assert.Equal(t, 2.0, b.Facing)
	assert.Equal(t, a.Position, b.Position)
}
