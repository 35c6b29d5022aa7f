package impulse

import "math"

// SlideJoint keeps the distance between two anchors, given in the coordinates of
// their bodies, within [min, max]. Unlike a DistanceConstraint it only acts at the
// ends of the range, pulling in past max and pushing out below min.
type SlideJoint struct {
	anchorA, anchorB Vector
	min, max         float64
	errorBias        float64

	dir   Vector
	jnAcc float64
}

func NewSlideJoint(anchorA, anchorB Vector, min, max float64) (*SlideJoint, error) {
	if !anchorA.IsFinite() || !anchorB.IsFinite() {
		return nil, degenerate("slide joint anchors %v %v", anchorA, anchorB)
	}
	if !(min >= 0 && min <= max) || !isFinite(max) {
		return nil, degenerate("slide joint range [%v, %v]", min, max)
	}
	return &SlideJoint{
		anchorA:   anchorA,
		anchorB:   anchorB,
		min:       min,
		max:       max,
		errorBias: DefaultErrorBias,
	}, nil
}

func (joint *SlideJoint) Anchors() (a, b Vector) {
	return joint.anchorA, joint.anchorB
}

func (joint *SlideJoint) Range() (min, max float64) {
	return joint.min, joint.max
}

// SetErrorBias sets the fraction of range error left uncorrected after one second.
func (joint *SlideJoint) SetErrorBias(bias float64) error {
	if !(bias >= 0 && bias <= 1) {
		return degenerate("slide joint error bias %v", bias)
	}
	joint.errorBias = bias
	return nil
}

// Impulse is the magnitude of the impulse applied during the last step.
func (joint *SlideJoint) Impulse() float64 {
	return math.Abs(joint.jnAcc)
}

func (joint *SlideJoint) PreStep(a, b *Body, dt float64, row *Row) bool {
	row.R1 = a.Rotation().Rotate(joint.anchorA)
	row.R2 = b.Rotation().Rotate(joint.anchorB)

	delta := b.Position().Add(row.R2).Sub(a.Position().Add(row.R1))
	dist := delta.Length()
	fallback := joint.dir
	if fallback.LengthSq() == 0 {
		fallback = VectorX
	}
	joint.dir = delta.NormalizeOr(fallback)

	var pdist float64
	switch {
	case dist > joint.max:
		pdist = dist - joint.max
		row.N = joint.dir
	case dist < joint.min:
		pdist = joint.min - dist
		row.N = joint.dir.Neg()
	default:
		joint.jnAcc = 0
		return false
	}

	row.Bias = -bias_coef(joint.errorBias, dt) * pdist / dt
	row.Max = 0
	row.Impulse = joint.jnAcc
	return true
}

func (joint *SlideJoint) PostSolve(impulse float64) {
	joint.jnAcc = impulse
}
