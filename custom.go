package impulse

// Constrainer is a user-defined constraint acting along a single axis between two
// bodies. The world calls PreStep once per step before solving and PostSolve once
// after, both with the World locked.
type Constrainer interface {
	// PreStep fills in row for a step of length dt. Returning false leaves the
	// constraint out of this step.
	PreStep(a, b *Body, dt float64, row *Row) bool
	// PostSolve receives the impulse the row accumulated during the step.
	PostSolve(impulse float64)
}

// Row is one velocity constraint of the solver. The solver drives the relative
// velocity of the two arm points along N towards Bias, keeping the accumulated
// impulse within [Min, Max].
type Row struct {
	// R1 and R2 are the world space offsets from each body's center to the point
	// the impulse acts on.
	R1, R2 Vector
	// N is the constraint axis. A positive impulse pushes b along N and a against it.
	N Vector
	// Bias is the target velocity of b relative to a along N.
	Bias float64
	// Min and Max start at -INFINITY and INFINITY.
	Min, Max float64
	// Impulse is re-applied before solving when warm starting is enabled.
	Impulse float64
}

func (row *Row) valid() bool {
	return row.R1.IsFinite() && row.R2.IsFinite() && row.N.IsFinite() &&
		isFinite(row.Bias) && isFinite(row.Impulse) &&
		row.Min <= row.Max && row.N.LengthSq() > MAGIC_EPSILON*MAGIC_EPSILON
}

// CustomConstraint binds a Constrainer to its two bodies.
type CustomConstraint struct {
	a, b  BodyRef
	class Constrainer
}

func (c *CustomConstraint) Bodies() (a, b BodyRef) {
	return c.a, c.b
}

func (c *CustomConstraint) Class() Constrainer {
	return c.class
}

func (c *CustomConstraint) validate() error {
	if c.class == nil {
		return degenerate("custom constraint without a Constrainer")
	}
	if c.a == c.b {
		return degenerate("custom constraint between %v and itself", c.a)
	}
	return nil
}

// anchored is implemented by constraints that can be drawn between two body
// points.
type anchored interface {
	Anchors() (a, b Vector)
}
