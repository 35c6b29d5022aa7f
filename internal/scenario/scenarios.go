package scenario

import (
	"math"
	"math/rand"

	"github.com/jakecoffman/impulse"
)

func v(x, y float64) impulse.Vector {
	return impulse.Vector{X: x, Y: y}
}

// simpleFall drops a single ball.
type simpleFall struct{ nothingToUpdate }

func (*simpleFall) Name() string { return "Simple Fall" }

func (*simpleFall) Create() (*impulse.World, error) {
	b := newBuilder(v(0, -9.81))
	b.particle(newParticle(40, v(-100, 0)))
	return b.world()
}

// collision sends two balls of different mass into each other without gravity.
type collision struct{ nothingToUpdate }

func (*collision) Name() string { return "Collision" }

func (*collision) Create() (*impulse.World, error) {
	b := newBuilder(v(0, 0))

	left, err := newParticle(40, v(-100, 0))
	left.Velocity = v(100, 0)
	b.particle(left, err)

	right, err := newParticle(60, v(100, -30))
	right.InvMass = 0.1
	right.Velocity = v(-50, 0)
	b.particle(right, err)

	return b.world()
}

// inclinedFall drops a ball onto a slope.
type inclinedFall struct{ nothingToUpdate }

func (*inclinedFall) Name() string { return "Inclined Fall" }

func (*inclinedFall) Create() (*impulse.World, error) {
	b := newBuilder(v(0, -100))
	b.particle(newParticle(50, v(0, 50)))
	b.body(newGround(1, v(0, -50)))
	return b.world()
}

// resting settles stacks of one, two and three balls on the ground with a small
// iteration budget.
type resting struct{ nothingToUpdate }

func (*resting) Name() string { return "Resting" }

func (*resting) Create() (*impulse.World, error) {
	b := newBuilder(v(0, -1000))
	if err := b.w.SetSolverIterations(2); err != nil {
		return nil, err
	}
	for _, p := range []impulse.Vector{
		v(-200, 0),
		v(0, 0), v(0, 100),
		v(200, 0), v(200, 100), v(200, 200),
	} {
		b.particle(newParticle(50, p))
	}
	b.body(newGround(math.Pi/2, v(0, -50)))
	return b.world()
}

// pendulum hangs a double pendulum from a fixed pivot.
type pendulum struct{ nothingToUpdate }

func (*pendulum) Name() string { return "Pendulum" }

func (*pendulum) Create() (*impulse.World, error) {
	b := newBuilder(v(0, -1000))

	pivot, err := newParticle(10, v(0, 100))
	pivot.InvMass = 0
	pivot.InvInertia = 0
	p0 := b.particle(pivot, err)
	p1 := b.particle(newParticle(20, v(100, 100)))
	p2 := b.particle(newParticle(20, v(200, 100)))

	b.distance(p0, p1, 100)
	b.distance(p1, p2, 100)
	return b.world()
}

// rope drops a slack chain of balls held together by slide joints from a
// fixed pivot.
type rope struct{ nothingToUpdate }

const (
	ropeLinks   = 6
	ropeSpacing = 40.0
	ropeLength  = 50.0
)

func (*rope) Name() string { return "Rope" }

func (*rope) Create() (*impulse.World, error) {
	b := newBuilder(v(0, -1000))

	pivot, err := newParticle(5, v(0, 100))
	pivot.InvMass = 0
	pivot.InvInertia = 0
	prev := b.particle(pivot, err)
	for i := 1; i <= ropeLinks; i++ {
		next := b.particle(newParticle(10, v(ropeSpacing*float64(i), 100)))
		b.slide(prev, next, 0, ropeLength)
		prev = next
	}
	return b.world()
}

// springs drives one ball with a linear spring towards y = 0 and spins another
// with an angular spring towards angle 0.
type springs struct {
	linear  dampedSpring
	angular dampedRotarySpring
}

const (
	springLinearK  = 50.0
	springAngularK = 20.0
)

func (*springs) Name() string { return "Spring" }

func (s *springs) Create() (*impulse.World, error) {
	b := newBuilder(v(0, 0))
	s.linear = dampedSpring{
		body:      b.particle(newParticle(50, v(-100, 50))),
		axis:      impulse.VectorY,
		stiffness: springLinearK,
	}

	wheel, err := newParticle(50, v(100, 0))
	wheel.InvMass = 0.1
	wheel.Angle = 1
	s.angular = dampedRotarySpring{
		body:      b.particle(wheel, err),
		stiffness: springAngularK,
	}

	return b.world()
}

func (s *springs) Update(w *impulse.World) error {
	if err := s.linear.apply(w); err != nil {
		return err
	}
	return s.angular.apply(w)
}

// manyParticles scatters balls with random mass and velocity inside a box.
type manyParticles struct {
	nothingToUpdate
	seed int64
}

const (
	manyParticlesCount = 100
	manyParticlesPos   = 500.0
	manyParticlesVel   = 50.0
)

func (*manyParticles) Name() string { return "Many Particles" }

func (s *manyParticles) Create() (*impulse.World, error) {
	rng := rand.New(rand.NewSource(s.seed))
	between := func(lo, hi float64) float64 {
		return lo + rng.Float64()*(hi-lo)
	}

	b := newBuilder(v(0, -9.81))
	for i := 0; i < manyParticlesCount; i++ {
		p, err := newParticle(10, v(
			between(-manyParticlesPos, manyParticlesPos),
			between(-manyParticlesPos, manyParticlesPos),
		))
		p.InvMass = between(1, 3)
		p.Velocity = v(
			between(-manyParticlesVel, manyParticlesVel),
			between(-manyParticlesVel, manyParticlesVel),
		)
		b.particle(p, err)
	}

	b.body(newGround(-math.Pi/2, v(0, manyParticlesPos)))
	b.body(newGround(math.Pi/2, v(0, -manyParticlesPos)))
	b.body(newGround(-math.Pi, v(manyParticlesPos, 0)))
	b.body(newGround(0, v(-manyParticlesPos, 0)))
	return b.world()
}
