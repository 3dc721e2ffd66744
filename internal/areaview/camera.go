// Package areaview draws an area in a terminal and turns terminal input
// into area input events.
package areaview

import (
	"math"

	"github.com/udisondev/areasim/internal/geom"
)

// rayHeight is the height the camera rays start from.
const rayHeight = 1000

// Camera is a top-down orthographic camera over a terminal grid. Screen
// rows grow downward while world Y grows up the screen.
type Camera struct {
	// Center is the world point shown in the middle of the screen.
	Center geom.Vec3
	// CellWidth and CellHeight are the world extents of one terminal cell.
	CellWidth, CellHeight float64

	width, height int
}

// NewCamera creates a camera for a screen of width x height cells.
// Terminal cells are about twice as tall as wide.
func NewCamera(width, height int) *Camera {
	return &Camera{CellWidth: 0.5, CellHeight: 1, width: width, height: height}
}

// Resize updates the screen size.
func (c *Camera) Resize(width, height int) {
	c.width, c.height = width, height
}

// Unproject returns a ray pointing straight down through the center of
// the cell at (screenX, screenY).
func (c *Camera) Unproject(screenX, screenY int) (origin, dir geom.Vec3) {
	x := c.Center.X + (float64(screenX)+0.5-float64(c.width)/2)*c.CellWidth
	y := c.Center.Y - (float64(screenY)+0.5-float64(c.height)/2)*c.CellHeight
	return geom.V(x, y, rayHeight), geom.Down
}

// Project returns the cell containing the world point p. ok is false when
// the cell is off screen.
func (c *Camera) Project(p geom.Vec3) (x, y int, ok bool) {
	x = int(math.Floor((p.X-c.Center.X)/c.CellWidth + float64(c.width)/2))
	y = int(math.Floor(-(p.Y-c.Center.Y)/c.CellHeight + float64(c.height)/2))
	return x, y, x >= 0 && y >= 0 && x < c.width && y < c.height
}
