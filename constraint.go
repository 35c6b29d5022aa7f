package impulse

import "math"

type constraintKind uint8

const (
	contactConstraint constraintKind = iota
	distanceConstraint
	customConstraint
)

func (k constraintKind) String() string {
	switch k {
	case contactConstraint:
		return "contact"
	case distanceConstraint:
		return "distance"
	case customConstraint:
		return "custom"
	}
	return "unknown"
}

// constraint is one row of the sequential impulse solver. Every kind acts along a
// single axis n through the arms r1 and r2, so the Jacobian is
// (-n, -r1×n, n, r2×n) and the effective mass is 1/k_scalar.
type constraint struct {
	kind constraintKind
	a, b *Body

	r1, r2, n Vector
	nMass     float64

	// Distance: target relative normal velocity. Contact: target normal
	// pseudo-velocity used to push out penetration.
	bias float64

	jnAcc, jBias float64

	// contact only
	depth float64
	point Vector
	pair  bodyPair

	// distance only
	joint *DistanceConstraint

	// custom only
	custom   Constrainer
	min, max float64
}

// bodyPair keys the impulse of a contact between steps. A pair of circles or a
// circle and a half-plane touch at one point at most, so the pair identifies it.
type bodyPair struct {
	a, b BodyRef
}

// PreStep computes the arms, axis, effective mass and bias of the row. It reports
// false when the row has no effective mass or a custom row opts out of the step.
func (c *constraint) PreStep(dt float64, params *solverParams) bool {
	a := c.a
	b := c.b

	switch c.kind {
	case contactConstraint:
		c.r1 = c.point.Sub(a.p)
		c.r2 = c.point.Sub(b.p)
		c.bias = bias_coef(params.collisionBias, dt) * math.Max(0, c.depth-params.collisionSlop) / dt
		c.jBias = 0
		if !params.warmStart {
			c.jnAcc = 0
		}
	case distanceConstraint:
		joint := c.joint
		c.r1 = a.transform.Vect(joint.anchorA)
		c.r2 = b.transform.Vect(joint.anchorB)

		delta := b.p.Add(c.r2).Sub(a.p.Add(c.r1))
		dist := delta.Length()
		fallback := joint.n
		if fallback.LengthSq() == 0 {
			fallback = VectorX
		}
		c.n = delta.NormalizeOr(fallback)
		c.bias = -bias_coef(params.errorBias, dt) * (dist - joint.rest) / dt

		c.jnAcc = 0
		if params.warmStart {
			c.jnAcc = joint.jnAcc
		}
	case customConstraint:
		row := Row{Min: -INFINITY, Max: INFINITY}
		if !c.custom.PreStep(a, b, dt, &row) {
			return false
		}
		if !row.valid() {
			logger.Warn("dropped invalid custom row", "kind", c.kind, "row", row)
			return false
		}
		c.r1 = row.R1
		c.r2 = row.R2
		c.n = row.N
		c.bias = row.Bias
		c.min = row.Min
		c.max = row.Max

		c.jnAcc = 0
		if params.warmStart {
			c.jnAcc = row.Impulse
		}
	}

	k := k_scalar(a, b, c.r1, c.r2, c.n)
	if !(k > 0) || !isFinite(k) {
		return false
	}
	c.nMass = 1 / k
	return true
}

// ApplyCachedImpulse re-applies the impulse accumulated during the previous step,
// scaled for a change of step size.
func (c *constraint) ApplyCachedImpulse(dt_coef float64) {
	c.jnAcc *= dt_coef
	if c.jnAcc != 0 {
		apply_impulses(c.a, c.b, c.r1, c.r2, c.n.Mult(c.jnAcc))
	}
}

// ApplyImpulse runs one solver iteration for the row and returns the normal
// impulse it applied.
func (c *constraint) ApplyImpulse() float64 {
	a := c.a
	b := c.b
	n := c.n
	r1 := c.r1
	r2 := c.r2

	switch c.kind {
	case contactConstraint:
		vb1 := a.v_bias.Add(r1.Perp().Mult(a.w_bias))
		vb2 := b.v_bias.Add(r2.Perp().Mult(b.w_bias))
		vbn := vb2.Sub(vb1).Dot(n)

		jbn := (c.bias - vbn) * c.nMass
		jbnOld := c.jBias
		c.jBias = math.Max(jbnOld+jbn, 0)

		// Inelastic: the target relative normal velocity is zero.
		vrn := normal_relative_velocity(a, b, r1, r2, n)
		jn := -vrn * c.nMass
		jnOld := c.jnAcc
		c.jnAcc = math.Max(jnOld+jn, 0)

		apply_bias_impulses(a, b, r1, r2, n.Mult(c.jBias-jbnOld))
		apply_impulses(a, b, r1, r2, n.Mult(c.jnAcc-jnOld))
		return c.jnAcc - jnOld
	case distanceConstraint:
		vrn := normal_relative_velocity(a, b, r1, r2, n)
		jn := (c.bias - vrn) * c.nMass
		c.jnAcc += jn

		apply_impulses(a, b, r1, r2, n.Mult(jn))
		return jn
	case customConstraint:
		vrn := normal_relative_velocity(a, b, r1, r2, n)
		jn := (c.bias - vrn) * c.nMass
		jnOld := c.jnAcc
		c.jnAcc = Clamp(jnOld+jn, c.min, c.max)
		jn = c.jnAcc - jnOld

		apply_impulses(a, b, r1, r2, n.Mult(jn))
		return jn
	}
	return 0
}

// PostSolve stores state that outlives the step.
func (c *constraint) PostSolve() {
	switch c.kind {
	case distanceConstraint:
		c.joint.jnAcc = c.jnAcc
		c.joint.n = c.n
	case customConstraint:
		c.custom.PostSolve(c.jnAcc)
	}
}

func bias_coef(errorBias, dt float64) float64 {
	return 1.0 - math.Pow(errorBias, dt)
}

func k_scalar_body(body *Body, r, n Vector) float64 {
	rcn := r.Cross(n)
	return body.m_inv + body.i_inv*rcn*rcn
}

func k_scalar(a, b *Body, r1, r2, n Vector) float64 {
	return k_scalar_body(a, r1, n) + k_scalar_body(b, r2, n)
}

func relative_velocity(a, b *Body, r1, r2 Vector) Vector {
	v1_sum := a.v.Add(r1.Perp().Mult(a.w))
	v2_sum := b.v.Add(r2.Perp().Mult(b.w))
	return v2_sum.Sub(v1_sum)
}

func normal_relative_velocity(a, b *Body, r1, r2, n Vector) float64 {
	return relative_velocity(a, b, r1, r2).Dot(n)
}

func apply_impulses(a, b *Body, r1, r2, j Vector) {
	apply_impulse(a, j.Neg(), r1)
	apply_impulse(b, j, r2)
}

func apply_bias_impulses(a, b *Body, r1, r2, j Vector) {
	apply_bias_impulse(a, j.Neg(), r1)
	apply_bias_impulse(b, j, r2)
}

func apply_impulse(body *Body, j, r Vector) {
	body.v = body.v.Add(j.Mult(body.m_inv))
	body.w += body.i_inv * r.Cross(j)
}

func apply_bias_impulse(body *Body, j, r Vector) {
	body.v_bias = body.v_bias.Add(j.Mult(body.m_inv))
	body.w_bias += body.i_inv * r.Cross(j)
}
