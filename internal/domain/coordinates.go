package domain

import "math"

// Immutable galactic coordinates in light-years.
type Coordinates struct {
	X float64
	Y float64
	Z float64
}

// DistanceTo returns the 3D Euclidean distance to another coordinate.
func (c Coordinates) DistanceTo(o Coordinates) float64 {
	dx := o.X - c.X
	dy := o.Y - c.Y
	dz := o.Z - c.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}
