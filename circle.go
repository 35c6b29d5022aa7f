package impulse

import "math"

// NewCircle returns a circle centered on its body's position.
func NewCircle(radius float64) (Shape, error) {
	if !(radius > 0) || !isFinite(radius) {
		return Shape{}, degenerate("circle radius %v", radius)
	}
	return Shape{kind: CircleShape, r: radius}, nil
}

func (s Shape) Radius() float64 {
	return s.r
}

// MomentForCircle is the moment of inertia of a solid disc of the given mass.
func MomentForCircle(mass, radius float64) float64 {
	return 0.5 * mass * radius * radius
}

func AreaForCircle(radius float64) float64 {
	return math.Pi * radius * radius
}

// circleCenter is the world position of a circle shape carried by transform.
func circleCenter(transform Transform) Vector {
	return transform.Translation()
}
