package impulse

import (
	"fmt"
	"math"
)

// Body is a rigid body carrying a single shape. An inverse mass of exactly zero
// marks the body immovable; such a body also has zero inverse inertia.
type Body struct {
	shape Shape

	// inverse mass and inverse moment of inertia
	m_inv float64
	i_inv float64

	// position, velocity, force
	p Vector
	v Vector
	f Vector

	// angle, angular velocity, torque (radians)
	a float64
	w float64
	t float64

	transform Transform

	// "pseudo-velocities" used for eliminating overlap. They move the body during
	// the position phase and are discarded afterwards.
	v_bias Vector
	w_bias float64

	Style    Style
	UserData interface{}
}

func (b *Body) String() string {
	return fmt.Sprintf("Body{%v p=%v a=%g}", b.shape, b.p, b.a)
}

// BodyDef describes a body to insert into a World.
type BodyDef struct {
	Shape           Shape
	Position        Vector
	Angle           float64
	Velocity        Vector
	AngularVelocity float64
	InvMass         float64
	InvInertia      float64
	Style           Style
	UserData        interface{}
}

// NewBodyDef derives inverse mass properties from mass and moment. A mass or moment
// of zero or +Inf gives the corresponding inverse of zero.
func NewBodyDef(shape Shape, mass, moment float64) BodyDef {
	return BodyDef{
		Shape:      shape,
		InvMass:    inverse(mass),
		InvInertia: inverse(moment),
	}
}

// NewStaticBodyDef describes an immovable body.
func NewStaticBodyDef(shape Shape, position Vector) BodyDef {
	return BodyDef{Shape: shape, Position: position}
}

func inverse(x float64) float64 {
	if x == 0 || math.IsInf(x, 1) {
		return 0
	}
	return 1 / x
}

func (def *BodyDef) validate() error {
	if !def.Shape.valid() {
		return degenerate("shape %v", def.Shape)
	}
	if !def.Position.IsFinite() || !isFinite(def.Angle) {
		return degenerate("pose %v angle %v", def.Position, def.Angle)
	}
	if !def.Velocity.IsFinite() || !isFinite(def.AngularVelocity) {
		return degenerate("velocity %v angular velocity %v", def.Velocity, def.AngularVelocity)
	}
	if !(def.InvMass >= 0) || !isFinite(def.InvMass) {
		return degenerate("inverse mass %v", def.InvMass)
	}
	if !(def.InvInertia >= 0) || !isFinite(def.InvInertia) {
		return degenerate("inverse inertia %v", def.InvInertia)
	}
	return nil
}

func newBody(def BodyDef) Body {
	body := Body{
		shape:    def.Shape,
		m_inv:    def.InvMass,
		i_inv:    def.InvInertia,
		p:        def.Position,
		v:        def.Velocity,
		a:        def.Angle,
		w:        def.AngularVelocity,
		Style:    def.Style,
		UserData: def.UserData,
	}
	if body.m_inv == 0 {
		body.i_inv = 0
		body.v = Vector{}
		body.w = 0
	}
	body.SetTransform(body.p, body.a)
	return body
}

func (body *Body) Shape() Shape {
	return body.shape
}

func (body *Body) Position() Vector {
	return body.p
}

func (body *Body) Angle() float64 {
	return body.a
}

// Rotation returns the unit vector of the body's angle.
func (body *Body) Rotation() Vector {
	return Vector{body.transform.a, body.transform.b}
}

func (body *Body) Velocity() Vector {
	return body.v
}

func (body *Body) AngularVelocity() float64 {
	return body.w
}

func (body *Body) Force() Vector {
	return body.f
}

func (body *Body) Torque() float64 {
	return body.t
}

func (body *Body) InvMass() float64 {
	return body.m_inv
}

func (body *Body) InvInertia() float64 {
	return body.i_inv
}

func (body *Body) IsStatic() bool {
	return body.m_inv == 0
}

func (body *Body) Transform() Transform {
	return body.transform
}

func (body *Body) SetTransform(p Vector, a float64) {
	body.transform = NewTransformRigid(p, a)
}

// LocalToWorld converts a point in body coordinates to world coordinates.
func (body *Body) LocalToWorld(v Vector) Vector {
	return body.transform.Point(v)
}

// WorldToLocal converts a point in world coordinates to body coordinates.
func (body *Body) WorldToLocal(v Vector) Vector {
	return NewTransformRigidInverse(body.transform).Point(v)
}

// KineticEnergy is reported as m*v^2 + I*w^2 without the factor of one half, so
// that it can be compared without needing the masses.
func (body *Body) KineticEnergy() float64 {
	vsq := body.v.Dot(body.v)
	wsq := body.w * body.w
	var e float64
	if vsq != 0 && body.m_inv != 0 {
		e += vsq / body.m_inv
	}
	if wsq != 0 && body.i_inv != 0 {
		e += wsq / body.i_inv
	}
	return e
}

// UpdateVelocity is the velocity phase of semi-implicit Euler.
func (body *Body) UpdateVelocity(gravity Vector, dt float64) {
	if body.m_inv == 0 {
		return
	}

	body.v = body.v.Add(gravity.Add(body.f.Mult(body.m_inv)).Mult(dt))
	body.w = body.w + body.t*body.i_inv*dt
}

// UpdatePosition is the position phase of semi-implicit Euler. Bias velocities
// accumulated by the solver are consumed here.
func (body *Body) UpdatePosition(dt float64) {
	if body.m_inv == 0 {
		return
	}

	body.p = body.p.Add(body.v.Add(body.v_bias).Mult(dt))
	body.a = body.a + (body.w+body.w_bias)*dt
	body.SetTransform(body.p, body.a)

	body.v_bias = Vector{}
	body.w_bias = 0
}

func (body *Body) resetForces() {
	body.f = Vector{}
	body.t = 0
}
