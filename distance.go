package impulse

// DistanceConstraint keeps two anchor points, given in the coordinates of their
// bodies, at a fixed distance from each other. It can both push and pull.
type DistanceConstraint struct {
	a, b             BodyRef
	anchorA, anchorB Vector
	rest             float64

	// last solved axis and accumulated impulse, kept for warm starting
	n     Vector
	jnAcc float64
}

func (joint *DistanceConstraint) Bodies() (a, b BodyRef) {
	return joint.a, joint.b
}

func (joint *DistanceConstraint) Anchors() (a, b Vector) {
	return joint.anchorA, joint.anchorB
}

func (joint *DistanceConstraint) RestLength() float64 {
	return joint.rest
}

// Impulse is the magnitude of the impulse applied during the last step.
func (joint *DistanceConstraint) Impulse() float64 {
	if joint.jnAcc < 0 {
		return -joint.jnAcc
	}
	return joint.jnAcc
}

func (joint *DistanceConstraint) validate() error {
	if joint.a == joint.b {
		return degenerate("distance constraint between %v and itself", joint.a)
	}
	if !joint.anchorA.IsFinite() || !joint.anchorB.IsFinite() {
		return degenerate("distance constraint anchors %v %v", joint.anchorA, joint.anchorB)
	}
	if !(joint.rest >= 0) || !isFinite(joint.rest) {
		return degenerate("distance constraint rest length %v", joint.rest)
	}
	return nil
}
