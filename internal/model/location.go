package model

import "github.com/udisondev/areasim/internal/geom"

// Location представляет координаты и направление в области.
// Value type, передаётся по значению (immutable).
type Location struct {
	Position geom.Vec3
	Facing   float64
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z, facing float64) Location {
	return Location{Position: geom.V(x, y, z), Facing: facing}
}

// WithFacing возвращает новый Location с обновлённым направлением (immutable pattern).
func (l Location) WithFacing(facing float64) Location {
	l.Facing = facing
	return l
}

// DistanceSquared возвращает квадрат расстояния до другой точки (без sqrt для производительности).
func (l Location) DistanceSquared(other Location) float64 {
	return geom.DistanceSquared(l.Position, other.Position)
}
