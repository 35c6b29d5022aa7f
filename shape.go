package impulse

import "fmt"

type ShapeKind uint8

const (
	CircleShape ShapeKind = iota
	HalfPlaneShape

	numShapeKinds
)

func (k ShapeKind) String() string {
	switch k {
	case CircleShape:
		return "circle"
	case HalfPlaneShape:
		return "half-plane"
	}
	return fmt.Sprintf("ShapeKind(%d)", uint8(k))
}

// Shape is an immutable tagged variant. Only the fields of its kind are meaningful.
// The zero Shape is not valid; build shapes with NewCircle or NewHalfPlane.
type Shape struct {
	kind ShapeKind

	// circle
	r float64

	// half-plane, in body coordinates: the solid side is n·x <= offset
	n      Vector
	offset float64
}

func (s Shape) Kind() ShapeKind {
	return s.kind
}

func (s Shape) String() string {
	switch s.kind {
	case CircleShape:
		return fmt.Sprintf("circle(r=%g)", s.r)
	case HalfPlaneShape:
		return fmt.Sprintf("half-plane(n=%v, offset=%g)", s.n, s.offset)
	}
	return s.kind.String()
}

// BB returns the bounding box of the shape placed by transform.
func (s Shape) BB(transform Transform) BB {
	switch s.kind {
	case CircleShape:
		return NewBBForCircle(transform.Translation(), s.r)
	default:
		return bbInfinite
	}
}

func (s Shape) valid() bool {
	switch s.kind {
	case CircleShape:
		return s.r > 0 && isFinite(s.r)
	case HalfPlaneShape:
		return s.n.IsFinite() && isFinite(s.offset) && s.n.LengthSq() > 0
	}
	return false
}
