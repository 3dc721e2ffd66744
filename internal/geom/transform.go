package geom

import "math"

// Transform places object-local geometry in the world: a rotation of
// Facing radians about Z followed by a translation by Position.
type Transform struct {
	Position Vec3
	Facing   float64
}

func rotateZ(v Vec3, angle float64) Vec3 {
	if angle == 0 {
		return v
	}
	s, c := math.Sincos(angle)
	return Vec3{
		X: v.X*c - v.Y*s,
		Y: v.X*s + v.Y*c,
		Z: v.Z,
	}
}

// ToWorld maps a local point into world space.
func (t Transform) ToWorld(p Vec3) Vec3 {
	return rotateZ(p, t.Facing).Add(t.Position)
}

// ToLocal maps a world point into local space.
func (t Transform) ToLocal(p Vec3) Vec3 {
	return rotateZ(p.Sub(t.Position), -t.Facing)
}

// DirToWorld rotates a local direction into world space.
func (t Transform) DirToWorld(d Vec3) Vec3 {
	return rotateZ(d, t.Facing)
}

// DirToLocal rotates a world direction into local space.
func (t Transform) DirToLocal(d Vec3) Vec3 {
	return rotateZ(d, -t.Facing)
}
