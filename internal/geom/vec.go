// Package geom holds the small amount of 3D math the area core needs:
// vectors, rigid transforms about the Z axis and ray intersection tests.
package geom

import "math"

// Vec3 is a point or direction in world or object-local space.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// Up is the world up axis.
var Up = Vec3{Z: 1}

// Down is the direction of elevation probes.
var Down = Vec3{Z: -1}

// V returns Vec3{x, y, z}.
func V(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

// LenSq returns the squared length (no sqrt on hot paths).
func (v Vec3) LenSq() float64 {
	return v.Dot(v)
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.LenSq())
}

// Normalize returns the unit vector, or the zero vector for zero input.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// XY drops the Z component.
func (v Vec3) XY() Vec3 {
	return Vec3{X: v.X, Y: v.Y}
}

// IsZero reports whether all components are zero.
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// DistanceSquared returns the squared 3D distance between two points.
func DistanceSquared(a, b Vec3) float64 {
	return a.Sub(b).LenSq()
}

// Distance returns the 3D distance between two points.
func Distance(a, b Vec3) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared2D ignores Z. Used for snapping and object cutoffs.
func DistanceSquared2D(a, b Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}

// Facing returns the heading (radians about Z) that looks along dir.
// Zero facing looks down +Y; positive angles turn counter-clockwise.
func Facing(dir Vec3) float64 {
	return -math.Atan2(dir.X, dir.Y)
}

// FacingDir is the inverse of Facing.
func FacingDir(facing float64) Vec3 {
	return Vec3{X: -math.Sin(facing), Y: math.Cos(facing)}
}
