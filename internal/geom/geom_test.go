package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRayTriangle(t *testing.T) {
	a, b, c := V(0, 0, 0), V(10, 0, 0), V(0, 10, 0)

	tests := []struct {
		name   string
		origin Vec3
		dir    Vec3
		hit    bool
		dist   float64
	}{
		{"straight down", V(1, 1, 5), Down, true, 5},
		{"from below", V(1, 1, -2), Up, true, 2},
		{"outside triangle", V(9, 9, 5), Down, false, 0},
		{"parallel", V(1, 1, 5), V(1, 0, 0), false, 0},
		{"behind origin", V(1, 1, 5), Up, true, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dist, ok := RayTriangle(tt.origin, tt.dir, a, b, c)
			assert.Equal(t, tt.hit, ok)
			if tt.hit {
				assert.InDelta(t, tt.dist, dist, 1e-9)
			}
		})
	}
}

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{Position: V(5, -3, 2), Facing: math.Pi / 2}

	local := V(0, 1, 0)
	world := tr.ToWorld(local)
	assert.InDelta(t, 4.0, world.X, 1e-9)
	assert.InDelta(t, -3.0, world.Y, 1e-9)
	assert.InDelta(t, 2.0, world.Z, 1e-9)

	back := tr.ToLocal(world)
	assert.InDelta(t, local.X, back.X, 1e-9)
	assert.InDelta(t, local.Y, back.Y, 1e-9)
}

func TestFacing(t *testing.T) {
	for _, dir := range []Vec3{V(0, 1, 0), V(-1, 0, 0), V(1, 1, 0).Normalize()} {
		got := FacingDir(Facing(dir))
		assert.InDelta(t, dir.X, got.X, 1e-9)
		assert.InDelta(t, dir.Y, got.Y, 1e-9)
	}
}

func TestAABBRayIntersect(t *testing.T) {
	box := AABB{Min: V(-1, -1, 0), Max: V(1, 1, 2)}

	dist, ok := box.RayIntersect(V(0, -5, 1), V(0, 1, 0))
	assert.True(t, ok)
	assert.InDelta(t, 4.0, dist, 1e-9)

	_, ok = box.RayIntersect(V(0, -5, 3), V(0, 1, 0))
	assert.False(t, ok)

	_, ok = box.RayIntersect(V(0, 5, 1), V(0, 1, 0))
	assert.False(t, ok, "box behind the ray")

	dist, ok = box.RayIntersect(V(0, 0, 1), V(1, 0, 0))
	assert.True(t, ok)
	assert.Equal(t, 0.0, dist)
}

func TestAABBDistanceSquaredTo(t *testing.T) {
	box := AABB{Min: V(0, 0, 0), Max: V(2, 2, 2)}
	assert.Equal(t, 0.0, box.DistanceSquaredTo(V(1, 1, 1)))
	assert.Equal(t, 9.0, box.DistanceSquaredTo(V(5, 1, 1)))
	assert.True(t, math.IsInf(EmptyAABB().DistanceSquaredTo(V(0, 0, 0)), 1))
}

func TestPointInPolygon2D(t *testing.T) {
	square := []Vec3{V(0, 0, 0), V(4, 0, 0), V(4, 4, 0), V(0, 4, 0)}
	assert.True(t, PointInPolygon2D(V(2, 2, 100), square))
	assert.False(t, PointInPolygon2D(V(5, 2, 0), square))
}
