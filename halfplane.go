package impulse

import "math"

const unitTolerance = 1e-9

// NewHalfPlane returns a half-plane whose boundary is n·x = offset in body
// coordinates, with n pointing out of the solid side. The normal is normalized;
// a zero or non-finite normal is rejected.
func NewHalfPlane(normal Vector, offset float64) (Shape, error) {
	if !normal.IsFinite() || !isFinite(offset) {
		return Shape{}, degenerate("half-plane normal %v offset %v", normal, offset)
	}
	l := normal.Length()
	if l <= MAGIC_EPSILON {
		return Shape{}, degenerate("half-plane normal %v has no direction", normal)
	}
	n := normal.Mult(1 / l)
	assert(math.Abs(n.Length()-1) < unitTolerance, "half-plane normal must be unit length")
	return Shape{kind: HalfPlaneShape, n: n, offset: offset}, nil
}

// NewHalfPlaneAngle returns a half-plane through the body origin whose normal makes
// angle radians with the x axis, counter-clockwise.
func NewHalfPlaneAngle(angle float64) (Shape, error) {
	return NewHalfPlane(ForAngle(angle), 0)
}

func (s Shape) Normal() Vector {
	return s.n
}

func (s Shape) Offset() float64 {
	return s.offset
}

// worldPlane returns the plane normal and offset in world coordinates.
func (s Shape) worldPlane(transform Transform) (n Vector, offset float64) {
	n = transform.Vect(s.n)
	return n, n.Dot(transform.Translation()) + s.offset
}
