// Package impulse is a small two dimensional rigid body physics core.
//
// A World holds bodies carrying a single circle or half-plane shape and distance
// constraints linking them. Each Step integrates velocities, finds overlapping
// shape pairs, resolves contacts and constraints with a sequential impulse solver
// and finally integrates positions.
package impulse

import "math"

const (
	INFINITY = math.MaxFloat64

	// MAGIC_EPSILON is the length below which a vector has no usable direction.
	MAGIC_EPSILON = 1e-5
)
