package impulse

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func insertCircle(t testing.TB, w *World, radius, mass float64, position Vector) BodyRef {
	t.Helper()
	shape := mustCircle(t, radius)
	def := NewBodyDef(shape, mass, MomentForCircle(mass, radius))
	def.Position = position
	ref, err := w.InsertBody(def)
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func insertGround(t testing.TB, w *World) BodyRef {
	t.Helper()
	ref, err := w.InsertBody(NewStaticBodyDef(mustHalfPlane(t, VectorY, 0), Vector{}))
	if err != nil {
		t.Fatal(err)
	}
	return ref
}

func mustBody(t testing.TB, w *World, ref BodyRef) *Body {
	t.Helper()
	body, err := w.Body(ref)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func mustStep(t testing.TB, w *World, dt float64, steps int) {
	t.Helper()
	for i := 0; i < steps; i++ {
		if err := w.Step(dt); err != nil {
			t.Fatal(err)
		}
	}
}

func TestWorld_RestInvariant(t *testing.T) {
	w := NewWorld()
	def := NewBodyDef(mustCircle(t, 1), 2, MomentForCircle(2, 1))
	def.Position = Vector{3, -7}
	def.Angle = 0.3
	ref, err := w.InsertBody(def)
	if err != nil {
		t.Fatal(err)
	}

	mustStep(t, w, 1.0/60.0, 500)

	body := mustBody(t, w, ref)
	if body.Position() != (Vector{3, -7}) || body.Angle() != 0.3 {
		t.Errorf("Body moved to %v angle %v", body.Position(), body.Angle())
	}
}

func TestWorld_StaticBodyIgnoresGravity(t *testing.T) {
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		t.Fatal(err)
	}
	def := BodyDef{Shape: mustCircle(t, 1), Position: Vector{1, 1}, Velocity: Vector{5, 5}, InvInertia: 3}
	ref, err := w.InsertBody(def)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyForce(ref, Vector{100, 0}); err != nil {
		t.Fatal(err)
	}

	mustStep(t, w, 0.1, 10)

	body := mustBody(t, w, ref)
	if body.Position() != (Vector{1, 1}) || body.Velocity() != (Vector{}) {
		t.Errorf("Static body moved: %v", body)
	}
	if body.InvInertia() != 0 || !body.IsStatic() {
		t.Error("Static body must have zero inverse inertia")
	}
}

func TestWorld_IntegrationLaw(t *testing.T) {
	const (
		dt    = 0.1
		steps = 10
		mass  = 2.0
	)
	force := Vector{2, -1}

	w := NewWorld()
	ref := insertCircle(t, w, 1, mass, Vector{})

	for i := 0; i < steps; i++ {
		if err := w.ApplyForce(ref, force); err != nil {
			t.Fatal(err)
		}
		mustStep(t, w, dt, 1)
	}

	body := mustBody(t, w, ref)
	invM := 1 / mass
	wantV := force.Mult(steps * invM * dt)
	if !body.Velocity().Near(wantV, 1e-12) {
		t.Errorf("Expected velocity %v got %v", wantV, body.Velocity())
	}
	// semi-implicit Euler: x_n = sum over k of k*a*dt*dt
	wantP := force.Mult(invM * dt * dt * steps * (steps + 1) / 2)
	if !body.Position().Near(wantP, 1e-12) {
		t.Errorf("Expected position %v got %v", wantP, body.Position())
	}
	if body.Force() != (Vector{}) {
		t.Errorf("Expected force accumulator to be cleared, got %v", body.Force())
	}
}

func TestWorld_Gravity(t *testing.T) {
	const dt = 0.05
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -9.8}); err != nil {
		t.Fatal(err)
	}
	ref := insertCircle(t, w, 1, 5, Vector{})

	mustStep(t, w, dt, 20)

	body := mustBody(t, w, ref)
	if v := body.Velocity().Y; math.Abs(v-(-9.8*dt*20)) > 1e-9 {
		t.Errorf("Unexpected velocity %v", v)
	}
	if y := body.Position().Y; math.Abs(y-(-9.8*dt*dt*20*21/2)) > 1e-9 {
		t.Errorf("Unexpected position %v", y)
	}
}

func TestWorld_Torque(t *testing.T) {
	w := NewWorld()
	ref := insertCircle(t, w, 1, 2, Vector{})
	body := mustBody(t, w, ref)

	if err := w.ApplyTorque(ref, 3); err != nil {
		t.Fatal(err)
	}
	mustStep(t, w, 0.5, 1)

	want := 3 * body.InvInertia() * 0.5
	if math.Abs(body.AngularVelocity()-want) > 1e-12 || math.Abs(body.Angle()-want*0.5) > 1e-12 {
		t.Errorf("Unexpected rotation w=%v a=%v", body.AngularVelocity(), body.Angle())
	}

	if err := w.ApplyForceAtPoint(ref, Vector{0, 1}, body.Position().Add(Vector{1, 0})); err != nil {
		t.Fatal(err)
	}
	if body.Torque() != 1 {
		t.Errorf("Expected torque 1, got %v", body.Torque())
	}
}

func TestWorld_CirclesSeparate(t *testing.T) {
	w := NewWorld()
	a := insertCircle(t, w, 1, 1, Vector{0, 0})
	b := insertCircle(t, w, 1, 1, Vector{1.5, 0})

	mustStep(t, w, 1.0/60.0, 1)

	contacts := w.Contacts()
	if len(contacts) != 1 {
		t.Fatalf("Expected one contact, got %v", contacts)
	}
	if contacts[0].A != a || contacts[0].B != b || contacts[0].Normal != VectorX {
		t.Errorf("Unexpected contact %+v", contacts[0])
	}

	bodyA := mustBody(t, w, a)
	bodyB := mustBody(t, w, b)
	if bodyA.Position().X >= 0 || bodyB.Position().X <= 1.5 {
		t.Errorf("Expected bodies to be pushed apart, got %v %v", bodyA.Position(), bodyB.Position())
	}
	if bodyA.Velocity().Dot(VectorX) > 0 || bodyB.Velocity().Dot(VectorX) < 0 {
		t.Errorf("Contacts must not pull bodies together")
	}

	mustStep(t, w, 1.0/60.0, 600)
	if d := bodyA.Position().Distance(bodyB.Position()); d < 2-w.CollisionSlop()-1e-6 {
		t.Errorf("Expected overlap resolved down to the slop, distance %v", d)
	}
}

func TestWorld_RestingContact(t *testing.T) {
	const dt = 1.0 / 60.0
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		t.Fatal(err)
	}
	insertGround(t, w)
	ref := insertCircle(t, w, 1, 1, Vector{0, 3})

	mustStep(t, w, dt, 600)

	body := mustBody(t, w, ref)
	if v := body.Velocity(); v.Length() > 1e-6 {
		t.Errorf("Expected the body to come to rest, velocity %v", v)
	}
	penetration := 1 - body.Position().Y
	if penetration > w.CollisionSlop()+1e-3 || penetration < 0 {
		t.Errorf("Expected penetration at most the slop, got %v", penetration)
	}

	// and it stays there
	y := body.Position().Y
	mustStep(t, w, dt, 60)
	if math.Abs(body.Position().Y-y) > 1e-6 {
		t.Errorf("Resting body drifted from %v to %v", y, body.Position().Y)
	}
	if math.Abs(body.AngularVelocity()) > 1e-9 {
		t.Errorf("Resting body spins at %v", body.AngularVelocity())
	}
}

func TestWorld_StackComesToRest(t *testing.T) {
	const dt = 1.0 / 60.0
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		t.Fatal(err)
	}
	insertGround(t, w)
	var stack []BodyRef
	for i := 0; i < 4; i++ {
		stack = append(stack, insertCircle(t, w, 1, 1, Vector{0, 0.99 + 1.99*float64(i)}))
	}

	mustStep(t, w, dt, 1200)

	for i, ref := range stack {
		body := mustBody(t, w, ref)
		if v := body.Velocity(); v.Length() > 1e-3 {
			t.Errorf("Ball %d still moving at %v", i, v)
		}
		if body.Position().X != 0 {
			t.Errorf("Ball %d slid sideways to %v", i, body.Position())
		}
	}
	if n := len(w.Contacts()); n != 4 {
		t.Errorf("Expected 4 resting contacts, got %d", n)
	}
}

func TestWorld_StaticPairsSkipped(t *testing.T) {
	w := NewWorld()
	for i := 0; i < 3; i++ {
		if _, err := w.InsertBody(NewStaticBodyDef(mustCircle(t, 1), Vector{})); err != nil {
			t.Fatal(err)
		}
	}
	insertGround(t, w)

	mustStep(t, w, 1.0/60.0, 1)
	if n := len(w.Contacts()); n != 0 {
		t.Errorf("Expected no contacts between immovable bodies, got %v", n)
	}
}

func TestWorld_ZeroDt(t *testing.T) {
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		t.Fatal(err)
	}
	insertGround(t, w)
	ref := insertCircle(t, w, 1, 1, Vector{0, 0.5})
	if err := w.ApplyForce(ref, Vector{1, 1}); err != nil {
		t.Fatal(err)
	}

	mustStep(t, w, 0, 1)

	body := mustBody(t, w, ref)
	if body.Position() != (Vector{0, 0.5}) || body.Velocity() != (Vector{}) {
		t.Errorf("Zero step moved the body: %v", body)
	}
	if body.Force() != (Vector{}) {
		t.Error("Zero step must clear forces")
	}
	if len(w.Contacts()) != 1 {
		t.Error("Zero step still detects contacts")
	}
}

func TestWorld_InvalidStep(t *testing.T) {
	w := NewWorld()
	for _, dt := range []float64{-1, math.NaN(), math.Inf(1)} {
		if err := w.Step(dt); !errors.Is(err, ErrDegenerateInput) {
			t.Errorf("Expected degenerate input for dt %v, got %v", dt, err)
		}
	}
}

func TestWorld_Settings(t *testing.T) {
	w := NewWorld()
	if w.SolverIterations() != DefaultIterations || !w.WarmStart() {
		t.Error("Unexpected defaults")
	}
	if err := w.SetSolverIterations(0); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if err := w.SetSolverIterations(3); err != nil || w.SolverIterations() != 3 {
		t.Errorf("Expected 3 iterations, got %v %v", w.SolverIterations(), err)
	}
	if err := w.SetGravity(Vector{math.NaN(), 0}); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if err := w.SetCollisionSlop(-1); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if err := w.SetCollisionBias(1.5); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if err := w.SetErrorBias(-0.1); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
}

func TestWorld_ReferenceInvalidation(t *testing.T) {
	w := NewWorld()
	a := insertCircle(t, w, 1, 1, Vector{})
	b := insertCircle(t, w, 1, 1, Vector{10, 0})

	if err := w.RemoveBody(a); err != nil {
		t.Fatal(err)
	}
	if err := w.ApplyForce(a, Vector{1, 0}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference, got %v", err)
	}
	if err := w.ApplyTorque(a, 1); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference, got %v", err)
	}
	if err := w.RemoveBody(a); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference on double remove, got %v", err)
	}

	// the freed slot is reused under a new generation
	c := insertCircle(t, w, 1, 1, Vector{-10, 0})
	if c == a {
		t.Fatal("Reused slot must not reissue the old reference")
	}
	if _, err := w.Body(a); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Stale reference resolves after reuse: %v", err)
	}
	if err := w.ApplyForce(a, Vector{1, 0}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference, got %v", err)
	}

	mustStep(t, w, 0.1, 1)
	if v := mustBody(t, w, c).Velocity(); v != (Vector{}) {
		t.Errorf("Force through a stale reference reached another body: %v", v)
	}
	if v := mustBody(t, w, b).Velocity(); v != (Vector{}) {
		t.Errorf("Force through a stale reference reached another body: %v", v)
	}

	if _, err := w.Body(BodyRef{}); !errors.Is(err, ErrInvalidReference) {
		t.Error("The zero reference must be invalid")
	}
	if w.BodyCount() != 2 {
		t.Errorf("Expected 2 bodies, got %v", w.BodyCount())
	}
}

func TestWorld_RemoveBodyInUse(t *testing.T) {
	w := NewWorld()
	a := insertCircle(t, w, 1, 1, Vector{})
	b := insertCircle(t, w, 1, 1, Vector{3, 0})
	joint, err := w.InsertDistanceConstraint(a, b, Vector{}, Vector{}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.RemoveBody(a); !errors.Is(err, ErrBodyInUse) {
		t.Errorf("Expected body in use, got %v", err)
	}
	if w.BodyCount() != 2 {
		t.Error("Failed remove must not change the world")
	}

	if err := w.RemoveDistanceConstraint(joint); err != nil {
		t.Fatal(err)
	}
	if err := w.RemoveDistanceConstraint(joint); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference, got %v", err)
	}
	if err := w.RemoveBody(a); err != nil {
		t.Errorf("Expected remove to succeed, got %v", err)
	}
}

func TestWorld_DistanceConstraintValidation(t *testing.T) {
	w := NewWorld()
	a := insertCircle(t, w, 1, 1, Vector{})
	b := insertCircle(t, w, 1, 1, Vector{3, 0})

	if _, err := w.InsertDistanceConstraint(a, a, Vector{}, Vector{}, 1); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if _, err := w.InsertDistanceConstraint(a, b, Vector{}, Vector{}, -1); !errors.Is(err, ErrDegenerateInput) {
		t.Errorf("Expected degenerate input, got %v", err)
	}
	if _, err := w.InsertDistanceConstraint(a, BodyRef{}, Vector{}, Vector{}, 1); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("Expected invalid reference, got %v", err)
	}
	if w.ConstraintCount() != 0 {
		t.Error("Rejected constraints must not be stored")
	}
}

func TestWorld_PinJoint(t *testing.T) {
	w := NewWorld()
	a := insertCircle(t, w, 1, 1, Vector{})
	b := insertCircle(t, w, 1, 1, Vector{3, 4})

	ref, err := w.InsertPinJoint(a, b, Vector{}, Vector{})
	if err != nil {
		t.Fatal(err)
	}
	joint, err := w.DistanceConstraint(ref)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(joint.RestLength()-5) > 1e-12 {
		t.Errorf("Expected rest length 5, got %v", joint.RestLength())
	}
	if ja, jb := joint.Bodies(); ja != a || jb != b {
		t.Errorf("Unexpected bodies %v %v", ja, jb)
	}
}

func TestWorld_Pendulum(t *testing.T) {
	const dt = 1.0 / 60.0
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		t.Fatal(err)
	}
	pivot, err := w.InsertBody(NewStaticBodyDef(mustCircle(t, 0.1), Vector{0, 5}))
	if err != nil {
		t.Fatal(err)
	}
	bob := insertCircle(t, w, 0.5, 1, Vector{3, 5})
	if _, err := w.InsertDistanceConstraint(pivot, bob, Vector{}, Vector{}, 3); err != nil {
		t.Fatal(err)
	}

	body := mustBody(t, w, bob)
	lowest := math.Inf(1)
	for i := 0; i < 300; i++ {
		mustStep(t, w, dt, 1)
		d := body.Position().Distance(Vector{0, 5})
		if math.Abs(d-3) > 0.1 {
			t.Fatalf("Step %d: pendulum length drifted to %v", i, d)
		}
		lowest = math.Min(lowest, body.Position().Y)
	}
	if lowest > 2.1 {
		t.Errorf("Expected the bob to swing through the bottom, lowest %v", lowest)
	}
}

func TestWorld_DistanceConstraintConverges(t *testing.T) {
	const rest = 1.0
	w := NewWorld()
	a := insertCircle(t, w, 0.1, 1, Vector{})
	b := insertCircle(t, w, 0.1, 1, Vector{2 * rest, 0})
	if _, err := w.InsertDistanceConstraint(a, b, Vector{}, Vector{}, rest); err != nil {
		t.Fatal(err)
	}
	bodyA := mustBody(t, w, a)
	bodyB := mustBody(t, w, b)

	prev := math.Inf(1)
	for i := 0; i < 120; i++ {
		mustStep(t, w, 1.0/60.0, 1)
		e := math.Abs(bodyA.Position().Distance(bodyB.Position()) - rest)
		if e > prev+1e-9 {
			t.Fatalf("Step %d: error grew from %v to %v", i, prev, e)
		}
		prev = e
	}
	if prev > 1e-3 {
		t.Errorf("Expected separation to reach the rest length, error %v", prev)
	}
	// equal masses move symmetrically
	if mid := bodyA.Position().Add(bodyB.Position()).Mult(0.5); !mid.Near(Vector{rest, 0}, 1e-9) {
		t.Errorf("Center of mass moved to %v", mid)
	}
}

func TestWorld_EachBodyOrder(t *testing.T) {
	w := NewWorld()
	var refs []BodyRef
	for i := 0; i < 4; i++ {
		refs = append(refs, insertCircle(t, w, 1, 1, Vector{float64(i) * 10, 0}))
	}
	if err := w.RemoveBody(refs[1]); err != nil {
		t.Fatal(err)
	}

	var visited []BodyRef
	w.EachBody(func(ref BodyRef, body *Body) {
		visited = append(visited, ref)
	})
	if len(visited) != 3 || visited[0] != refs[0] || visited[1] != refs[2] || visited[2] != refs[3] {
		t.Errorf("Unexpected order %v", visited)
	}
}

func BenchmarkWorld_Step(b *testing.B) {
	w := NewWorld()
	if err := w.SetGravity(Vector{0, -10}); err != nil {
		b.Fatal(err)
	}
	insertGround(b, w)
	for i := 0; i < 200; i++ {
		insertCircle(b, w, 0.5, 1, Vector{float64(i%20) * 1.1, 1 + float64(i/20)*1.1})
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := w.Step(1.0 / 60.0); err != nil {
			b.Fatal(err)
		}
	}
}
