package impulse

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

const DefaultIterations = 10

var (
	// DefaultCollisionSlop is the penetration depth left uncorrected so resting
	// contacts stay in contact.
	DefaultCollisionSlop = 0.01
	// DefaultCollisionBias is the fraction of penetration left after one second.
	DefaultCollisionBias = math.Pow(1.0-0.1, 60.0)
	// DefaultErrorBias is the fraction of distance constraint error left after one
	// second.
	DefaultErrorBias = math.Pow(1.0-0.1, 60.0)
)

// ContactInfo is a contact detected during the last step between bodies A and B.
type ContactInfo struct {
	A, B BodyRef
	Contact
}

// World owns bodies and the constraints between them and advances them in time.
//
// A World is not safe for concurrent use. Callers must not insert, remove or
// apply forces while Step is running.
type World struct {
	iterations int
	gravity    Vector

	collisionSlop float64
	collisionBias float64
	errorBias     float64
	warmStart     bool

	bodies  slots[Body]
	joints  slots[DistanceConstraint]
	customs slots[CustomConstraint]

	index    spatialIndexer
	proxies  []proxy
	contacts []ContactInfo
	solver   solver

	// contact impulses of the last step, for warm starting
	contactImpulses map[bodyPair]float64

	stamp   uint
	curr_dt float64
	locked  int
}

func NewWorld() *World {
	return &World{
		iterations:    DefaultIterations,
		collisionSlop: DefaultCollisionSlop,
		collisionBias: DefaultCollisionBias,
		errorBias:     DefaultErrorBias,
		warmStart:     true,
		index:         bruteForce{},

		contactImpulses: map[bodyPair]float64{},
	}
}

func (w *World) Gravity() Vector {
	return w.gravity
}

func (w *World) SetGravity(gravity Vector) error {
	if !gravity.IsFinite() {
		return degenerate("gravity %v", gravity)
	}
	w.gravity = gravity
	return nil
}

func (w *World) SolverIterations() int {
	return w.iterations
}

// SetSolverIterations sets the number of solver passes per step; it must be at least one.
func (w *World) SetSolverIterations(iterations int) error {
	if iterations < 1 {
		return degenerate("solver iterations %d", iterations)
	}
	w.iterations = iterations
	return nil
}

func (w *World) CollisionSlop() float64 {
	return w.collisionSlop
}

func (w *World) SetCollisionSlop(slop float64) error {
	if !(slop >= 0) || !isFinite(slop) {
		return degenerate("collision slop %v", slop)
	}
	w.collisionSlop = slop
	return nil
}

func (w *World) CollisionBias() float64 {
	return w.collisionBias
}

// SetCollisionBias sets the fraction of penetration left uncorrected after one
// second, in [0, 1]. One disables positional correction of contacts.
func (w *World) SetCollisionBias(bias float64) error {
	if !(bias >= 0 && bias <= 1) {
		return degenerate("collision bias %v", bias)
	}
	w.collisionBias = bias
	return nil
}

func (w *World) ErrorBias() float64 {
	return w.errorBias
}

// SetErrorBias sets the fraction of distance constraint error left uncorrected
// after one second, in [0, 1].
func (w *World) SetErrorBias(bias float64) error {
	if !(bias >= 0 && bias <= 1) {
		return degenerate("error bias %v", bias)
	}
	w.errorBias = bias
	return nil
}

func (w *World) WarmStart() bool {
	return w.warmStart
}

// SetWarmStart controls whether contacts and constraints start each step from the
// impulse they needed in the previous one.
func (w *World) SetWarmStart(enabled bool) {
	w.warmStart = enabled
}

func (w *World) InsertBody(def BodyDef) (BodyRef, error) {
	assert(w.locked == 0, "World is locked")
	if err := def.validate(); err != nil {
		return BodyRef{}, err
	}

	index, generation := w.bodies.insert(newBody(def))
	ref := BodyRef{index, generation}
	logger.Debug("inserted body", "ref", ref, "shape", def.Shape)
	return ref, nil
}

// RemoveBody removes a body. Constraints referencing it must be removed first,
// otherwise ErrBodyInUse is returned and nothing changes.
func (w *World) RemoveBody(ref BodyRef) error {
	assert(w.locked == 0, "World is locked")
	if _, err := w.Body(ref); err != nil {
		return err
	}

	var user fmt.Stringer
	w.joints.each(func(index, generation uint32, joint *DistanceConstraint) {
		if user == nil && (joint.a == ref || joint.b == ref) {
			user = ConstraintRef{index, generation}
		}
	})
	w.customs.each(func(index, generation uint32, custom *CustomConstraint) {
		if user == nil && (custom.a == ref || custom.b == ref) {
			user = CustomRef{index, generation}
		}
	})
	if user != nil {
		return errors.Wrapf(ErrBodyInUse, "remove %v: used by %v", ref, user)
	}

	w.bodies.remove(ref.index, ref.generation)
	logger.Debug("removed body", "ref", ref)
	return nil
}

// Body returns the body for ref. The pointer is valid until the body is removed or
// another body is inserted; read it through its accessors.
func (w *World) Body(ref BodyRef) (*Body, error) {
	body, ok := w.bodies.get(ref.index, ref.generation)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidReference, "%v", ref)
	}
	return body, nil
}

func (w *World) BodyCount() int {
	return w.bodies.len()
}

// EachBody visits live bodies in slot order.
func (w *World) EachBody(f func(ref BodyRef, body *Body)) {
	w.bodies.each(func(index, generation uint32, body *Body) {
		f(BodyRef{index, generation}, body)
	})
}

// ApplyForce adds force to the body's accumulator for the next step.
func (w *World) ApplyForce(ref BodyRef, force Vector) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !force.IsFinite() {
		return degenerate("force %v on %v", force, ref)
	}
	body.f = body.f.Add(force)
	return nil
}

// ApplyTorque adds torque to the body's accumulator for the next step.
func (w *World) ApplyTorque(ref BodyRef, torque float64) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !isFinite(torque) {
		return degenerate("torque %v on %v", torque, ref)
	}
	body.t += torque
	return nil
}

// ApplyForceAtPoint adds force applied at a world point, accumulating the torque
// it produces about the body's center.
func (w *World) ApplyForceAtPoint(ref BodyRef, force, point Vector) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !force.IsFinite() || !point.IsFinite() {
		return degenerate("force %v at %v on %v", force, point, ref)
	}
	body.f = body.f.Add(force)
	body.t += point.Sub(body.p).Cross(force)
	return nil
}

func (w *World) SetPosition(ref BodyRef, position Vector) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !position.IsFinite() {
		return degenerate("position %v for %v", position, ref)
	}
	body.p = position
	body.SetTransform(body.p, body.a)
	return nil
}

func (w *World) SetAngle(ref BodyRef, angle float64) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !isFinite(angle) {
		return degenerate("angle %v for %v", angle, ref)
	}
	body.a = angle
	body.SetTransform(body.p, body.a)
	return nil
}

// SetVelocity has no effect on immovable bodies.
func (w *World) SetVelocity(ref BodyRef, velocity Vector) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !velocity.IsFinite() {
		return degenerate("velocity %v for %v", velocity, ref)
	}
	if body.m_inv != 0 {
		body.v = velocity
	}
	return nil
}

// SetAngularVelocity has no effect on immovable bodies.
func (w *World) SetAngularVelocity(ref BodyRef, angularVelocity float64) error {
	body, err := w.Body(ref)
	if err != nil {
		return err
	}
	if !isFinite(angularVelocity) {
		return degenerate("angular velocity %v for %v", angularVelocity, ref)
	}
	if body.m_inv != 0 {
		body.w = angularVelocity
	}
	return nil
}

// InsertDistanceConstraint links anchorA on body a and anchorB on body b, both in
// body coordinates, at distance rest.
func (w *World) InsertDistanceConstraint(a, b BodyRef, anchorA, anchorB Vector, rest float64) (ConstraintRef, error) {
	assert(w.locked == 0, "World is locked")
	if _, err := w.Body(a); err != nil {
		return ConstraintRef{}, err
	}
	if _, err := w.Body(b); err != nil {
		return ConstraintRef{}, err
	}

	joint := DistanceConstraint{
		a:       a,
		b:       b,
		anchorA: anchorA,
		anchorB: anchorB,
		rest:    rest,
	}
	if err := joint.validate(); err != nil {
		return ConstraintRef{}, err
	}

	index, generation := w.joints.insert(joint)
	ref := ConstraintRef{index, generation}
	logger.Debug("inserted distance constraint", "ref", ref, "a", a, "b", b, "rest", rest)
	return ref, nil
}

// InsertPinJoint links the anchors at their current distance.
func (w *World) InsertPinJoint(a, b BodyRef, anchorA, anchorB Vector) (ConstraintRef, error) {
	bodyA, err := w.Body(a)
	if err != nil {
		return ConstraintRef{}, err
	}
	bodyB, err := w.Body(b)
	if err != nil {
		return ConstraintRef{}, err
	}
	if !anchorA.IsFinite() || !anchorB.IsFinite() {
		return ConstraintRef{}, degenerate("pin joint anchors %v %v", anchorA, anchorB)
	}

	dist := bodyB.LocalToWorld(anchorB).Distance(bodyA.LocalToWorld(anchorA))
	return w.InsertDistanceConstraint(a, b, anchorA, anchorB, dist)
}

func (w *World) RemoveDistanceConstraint(ref ConstraintRef) error {
	assert(w.locked == 0, "World is locked")
	if !w.joints.remove(ref.index, ref.generation) {
		return errors.Wrapf(ErrInvalidReference, "remove %v", ref)
	}
	logger.Debug("removed distance constraint", "ref", ref)
	return nil
}

func (w *World) DistanceConstraint(ref ConstraintRef) (*DistanceConstraint, error) {
	joint, ok := w.joints.get(ref.index, ref.generation)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidReference, "%v", ref)
	}
	return joint, nil
}

func (w *World) ConstraintCount() int {
	return w.joints.len()
}

// EachConstraint visits live distance constraints in slot order.
func (w *World) EachConstraint(f func(ref ConstraintRef, joint *DistanceConstraint)) {
	w.joints.each(func(index, generation uint32, joint *DistanceConstraint) {
		f(ConstraintRef{index, generation}, joint)
	})
}

// InsertCustomConstraint adds a user-defined constraint between bodies a and b.
func (w *World) InsertCustomConstraint(a, b BodyRef, class Constrainer) (CustomRef, error) {
	assert(w.locked == 0, "World is locked")
	if _, err := w.Body(a); err != nil {
		return CustomRef{}, err
	}
	if _, err := w.Body(b); err != nil {
		return CustomRef{}, err
	}

	custom := CustomConstraint{a: a, b: b, class: class}
	if err := custom.validate(); err != nil {
		return CustomRef{}, err
	}

	index, generation := w.customs.insert(custom)
	ref := CustomRef{index, generation}
	logger.Debug("inserted custom constraint", "ref", ref, "a", a, "b", b)
	return ref, nil
}

// InsertSlideJoint links anchorA on body a and anchorB on body b, both in body
// coordinates, keeping their distance within [min, max].
func (w *World) InsertSlideJoint(a, b BodyRef, anchorA, anchorB Vector, min, max float64) (CustomRef, error) {
	joint, err := NewSlideJoint(anchorA, anchorB, min, max)
	if err != nil {
		return CustomRef{}, err
	}
	return w.InsertCustomConstraint(a, b, joint)
}

func (w *World) RemoveCustomConstraint(ref CustomRef) error {
	assert(w.locked == 0, "World is locked")
	if !w.customs.remove(ref.index, ref.generation) {
		return errors.Wrapf(ErrInvalidReference, "remove %v", ref)
	}
	logger.Debug("removed custom constraint", "ref", ref)
	return nil
}

func (w *World) CustomConstraint(ref CustomRef) (*CustomConstraint, error) {
	custom, ok := w.customs.get(ref.index, ref.generation)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidReference, "%v", ref)
	}
	return custom, nil
}

func (w *World) CustomConstraintCount() int {
	return w.customs.len()
}

// EachCustomConstraint visits live custom constraints in slot order.
func (w *World) EachCustomConstraint(f func(ref CustomRef, custom *CustomConstraint)) {
	w.customs.each(func(index, generation uint32, custom *CustomConstraint) {
		f(CustomRef{index, generation}, custom)
	})
}

// Contacts returns a copy of the contacts detected by the last step.
func (w *World) Contacts() []ContactInfo {
	contacts := make([]ContactInfo, len(w.contacts))
	copy(contacts, w.contacts)
	return contacts
}

// Step advances the world by dt, which must be finite and non-negative. A zero dt
// detects contacts and clears force accumulators without moving anything.
func (w *World) Step(dt float64) error {
	if !isFinite(dt) || dt < 0 {
		return degenerate("step dt %v", dt)
	}

	w.locked++
	defer func() { w.locked-- }()

	w.stamp++
	prev_dt := w.curr_dt

	w.solver.reset()

	// Integrate velocities.
	if dt > 0 {
		gravity := w.gravity
		w.bodies.each(func(_, _ uint32, body *Body) {
			body.UpdateVelocity(gravity, dt)
		})
	}

	// Broad and narrow phase; contacts become solver rows.
	w.collide()

	if dt > 0 {
		w.curr_dt = dt

		w.joints.each(func(_, _ uint32, joint *DistanceConstraint) {
			a, okA := w.bodies.get(joint.a.index, joint.a.generation)
			b, okB := w.bodies.get(joint.b.index, joint.b.generation)
			assert(okA && okB, "distance constraint references a removed body")
			if okA && okB {
				w.solver.addDistance(a, b, joint)
			}
		})
		w.customs.each(func(_, _ uint32, custom *CustomConstraint) {
			a, okA := w.bodies.get(custom.a.index, custom.a.generation)
			b, okB := w.bodies.get(custom.b.index, custom.b.generation)
			assert(okA && okB, "custom constraint references a removed body")
			if okA && okB {
				w.solver.addCustom(a, b, custom.class)
			}
		})

		params := solverParams{
			iterations:    w.iterations,
			collisionSlop: w.collisionSlop,
			collisionBias: w.collisionBias,
			errorBias:     w.errorBias,
			warmStart:     w.warmStart,
		}
		w.solver.prestep(dt, &params)

		var dt_coef float64
		if prev_dt != 0 {
			dt_coef = dt / prev_dt
		}
		w.solver.applyCachedImpulses(dt_coef)
		w.solver.solve(w.iterations)
		w.solver.postSolve()
		w.solver.contactImpulses(w.contactImpulses)

		// Integrate positions.
		w.bodies.each(func(_, _ uint32, body *Body) {
			body.UpdatePosition(dt)
		})
	}

	w.bodies.each(func(_, _ uint32, body *Body) {
		body.resetForces()
	})
	w.solver.reset()

	logger.Debug("step",
		"stamp", w.stamp,
		"dt", dt,
		"bodies", w.bodies.len(),
		"contacts", len(w.contacts),
		"constraints", w.joints.len()+w.customs.len(),
	)
	return nil
}

func (w *World) collide() {
	w.proxies = w.proxies[:0]
	w.bodies.each(func(index, generation uint32, body *Body) {
		w.proxies = append(w.proxies, proxy{
			ref:  BodyRef{index, generation},
			body: body,
			bb:   body.shape.BB(body.transform),
		})
	})

	w.contacts = w.contacts[:0]
	w.index.Pairs(w.proxies, func(a, b *proxy) {
		contact, ok := Collide(a.body.shape, a.body.transform, b.body.shape, b.body.transform)
		if !ok {
			return
		}
		w.contacts = append(w.contacts, ContactInfo{A: a.ref, B: b.ref, Contact: contact})
		pair := bodyPair{a.ref, b.ref}
		w.solver.addContact(a.body, b.body, pair, contact, w.contactImpulses[pair])
	})

	for i := range w.proxies {
		w.proxies[i] = proxy{}
	}
}
