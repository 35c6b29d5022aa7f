// Package scenario holds the built-in demonstration worlds.
package scenario

import (
	"sort"
	"strings"

	"github.com/jakecoffman/impulse"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"
)

var ErrUnknown = errors.New("unknown scenario")

// Scenario builds a world and optionally drives it between steps.
type Scenario interface {
	Name() string
	Create() (*impulse.World, error)
	// Update runs before every step, typically to apply per-step forces.
	Update(w *impulse.World) error
}

var registry = map[string]func() Scenario{
	"simple-fall":    func() Scenario { return &simpleFall{} },
	"collision":      func() Scenario { return &collision{} },
	"inclined-fall":  func() Scenario { return &inclinedFall{} },
	"resting":        func() Scenario { return &resting{} },
	"pendulum":       func() Scenario { return &pendulum{} },
	"rope":           func() Scenario { return &rope{} },
	"springs":        func() Scenario { return &springs{} },
	"many-particles": func() Scenario { return &manyParticles{seed: 1} },
}

// Names lists the registered scenarios in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns a fresh instance of every scenario, sorted by key.
func All() []Scenario {
	var all []Scenario
	for _, name := range Names() {
		all = append(all, registry[name]())
	}
	return all
}

// Lookup returns a fresh instance of the named scenario.
func Lookup(name string) (Scenario, error) {
	create, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, errors.Wrapf(ErrUnknown, "%q (have %s)", name, strings.Join(Names(), ", "))
	}
	return create(), nil
}

type nothingToUpdate struct{}

func (nothingToUpdate) Update(*impulse.World) error {
	return nil
}

var (
	particleStyle = impulse.Style{
		Fill:        colorful.Hsv(210, 0.6, 0.9),
		Outline:     colorful.Hsv(210, 0.2, 1),
		BorderWidth: 1,
	}
	groundStyle = impulse.Style{
		Fill:        colorful.Hsv(30, 0.4, 0.5),
		Outline:     colorful.Hsv(30, 0.3, 0.8),
		BorderWidth: 2,
	}
)

// particle describes a body with the default unit inverse mass and inertia.
type particle struct {
	impulse.BodyDef
}

func newParticle(radius float64, position impulse.Vector) (particle, error) {
	shape, err := impulse.NewCircle(radius)
	if err != nil {
		return particle{}, err
	}
	return particle{impulse.BodyDef{
		Shape:      shape,
		Position:   position,
		InvMass:    1,
		InvInertia: 1,
		Style:      particleStyle,
	}}, nil
}

// newGround describes an immovable half-plane through position whose normal
// makes angle radians with the x axis.
func newGround(angle float64, position impulse.Vector) (impulse.BodyDef, error) {
	shape, err := impulse.NewHalfPlaneAngle(angle)
	if err != nil {
		return impulse.BodyDef{}, err
	}
	def := impulse.NewStaticBodyDef(shape, position)
	def.Style = groundStyle
	return def, nil
}

// builder collects the first error so scenario bodies read as a flat list.
type builder struct {
	w    *impulse.World
	err  error
	refs []impulse.BodyRef
}

func newBuilder(gravity impulse.Vector) *builder {
	w := impulse.NewWorld()
	return &builder{w: w, err: w.SetGravity(gravity)}
}

func (b *builder) body(def impulse.BodyDef, err error) impulse.BodyRef {
	if b.err != nil {
		return impulse.BodyRef{}
	}
	if err != nil {
		b.err = err
		return impulse.BodyRef{}
	}
	ref, err := b.w.InsertBody(def)
	if err != nil {
		b.err = err
	}
	b.refs = append(b.refs, ref)
	return ref
}

func (b *builder) particle(p particle, err error) impulse.BodyRef {
	return b.body(p.BodyDef, err)
}

func (b *builder) distance(a, c impulse.BodyRef, rest float64) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.InsertDistanceConstraint(a, c, impulse.Vector{}, impulse.Vector{}, rest)
}

// slide links the body centers with a joint that only acts outside [min, max].
func (b *builder) slide(a, c impulse.BodyRef, min, max float64) {
	if b.err != nil {
		return
	}
	_, b.err = b.w.InsertSlideJoint(a, c, impulse.Vector{}, impulse.Vector{}, min, max)
}

func (b *builder) world() (*impulse.World, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.w, nil
}
