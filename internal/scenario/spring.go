package scenario

import "github.com/jakecoffman/impulse"

// dampedSpring pulls a body towards the line axis·p = rest with a force along
// axis. It is applied as an external force before every step.
type dampedSpring struct {
	body                     impulse.BodyRef
	axis                     impulse.Vector
	rest, stiffness, damping float64
}

func (spring dampedSpring) force(body *impulse.Body) impulse.Vector {
	stretch := spring.axis.Dot(body.Position()) - spring.rest
	vrn := spring.axis.Dot(body.Velocity())
	return spring.axis.Mult(-stretch*spring.stiffness - vrn*spring.damping)
}

func (spring dampedSpring) apply(w *impulse.World) error {
	body, err := w.Body(spring.body)
	if err != nil {
		return err
	}
	return w.ApplyForce(spring.body, spring.force(body))
}

// dampedRotarySpring turns a body towards restAngle.
type dampedRotarySpring struct {
	body                          impulse.BodyRef
	restAngle, stiffness, damping float64
}

func (spring dampedRotarySpring) torque(body *impulse.Body) float64 {
	return -(body.Angle()-spring.restAngle)*spring.stiffness - body.AngularVelocity()*spring.damping
}

func (spring dampedRotarySpring) apply(w *impulse.World) error {
	body, err := w.Body(spring.body)
	if err != nil {
		return err
	}
	return w.ApplyTorque(spring.body, spring.torque(body))
}
