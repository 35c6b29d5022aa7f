package impulse

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Draw flags
type DrawFlags uint

const (
	DRAW_SHAPES DrawFlags = 1 << iota
	DRAW_CONSTRAINTS
	DRAW_COLLISION_POINTS
)

// Style holds presentation attributes carried alongside a body. The physics never
// reads it.
type Style struct {
	Fill        colorful.Color
	Outline     colorful.Color
	BorderWidth float64
}

var DefaultStyle = Style{
	Fill:        colorful.Color{R: 0.30, G: 0.55, B: 0.85},
	Outline:     colorful.Color{R: 0.90, G: 0.90, B: 0.90},
	BorderWidth: 1,
}

func (s Style) IsZero() bool {
	return s == Style{}
}

// Drawer is implemented by renderers. DrawWorld calls it with shapes grouped by
// kind: every circle, then every half-plane, each group in body slot order.
type Drawer interface {
	DrawCircle(transform Transform, radius float64, style Style)
	DrawHalfPlane(transform Transform, normal Vector, offset float64, style Style)
	DrawSegment(a, b Vector, color colorful.Color)
	DrawDot(size float64, pos Vector, color colorful.Color)

	Flags() DrawFlags
	ConstraintColor() colorful.Color
	CollisionPointColor() colorful.Color
}

func DrawBody(body *Body, options Drawer) {
	style := body.Style
	if style.IsZero() {
		style = DefaultStyle
	}

	shape := body.shape
	switch shape.kind {
	case CircleShape:
		options.DrawCircle(body.transform, shape.r, style)
	case HalfPlaneShape:
		options.DrawHalfPlane(body.transform, shape.n, shape.offset, style)
	}
}

func DrawConstraint(w *World, joint *DistanceConstraint, options Drawer) {
	drawLink(w, joint.a, joint.b, joint, options)
}

// DrawCustomConstraint draws a segment between the anchors of constraints that
// have them and between the body centers otherwise.
func DrawCustomConstraint(w *World, custom *CustomConstraint, options Drawer) {
	var anchors anchored
	if a, ok := custom.class.(anchored); ok {
		anchors = a
	}
	drawLink(w, custom.a, custom.b, anchors, options)
}

func drawLink(w *World, refA, refB BodyRef, anchors anchored, options Drawer) {
	a, errA := w.Body(refA)
	b, errB := w.Body(refB)
	if errA != nil || errB != nil {
		return
	}
	var anchorA, anchorB Vector
	if anchors != nil {
		anchorA, anchorB = anchors.Anchors()
	}
	options.DrawSegment(a.LocalToWorld(anchorA), b.LocalToWorld(anchorB), options.ConstraintColor())
}

func DrawWorld(w *World, options Drawer) {
	flags := options.Flags()

	if flags&DRAW_SHAPES != 0 {
		for kind := ShapeKind(0); kind < numShapeKinds; kind++ {
			w.bodies.each(func(_, _ uint32, body *Body) {
				if body.shape.kind == kind {
					DrawBody(body, options)
				}
			})
		}
	}

	if flags&DRAW_CONSTRAINTS != 0 {
		w.joints.each(func(_, _ uint32, joint *DistanceConstraint) {
			DrawConstraint(w, joint, options)
		})
		w.customs.each(func(_, _ uint32, custom *CustomConstraint) {
			DrawCustomConstraint(w, custom, options)
		})
	}

	if flags&DRAW_COLLISION_POINTS != 0 {
		color := options.CollisionPointColor()
		for _, contact := range w.contacts {
			p := contact.Point
			options.DrawSegment(p, p.Add(contact.Normal.Mult(contact.Depth)), color)
			options.DrawDot(2, p, color)
		}
	}
}

type CircleInstance struct {
	Transform     mgl32.Mat3
	Radius        float32
	Fill, Outline mgl32.Vec4
	BorderWidth   float32
}

type HalfPlaneInstance struct {
	Transform     mgl32.Mat3
	Normal        mgl32.Vec2
	Offset        float32
	Fill, Outline mgl32.Vec4
	BorderWidth   float32
}

// Instances is a per-frame snapshot of the world laid out as one record per body,
// grouped by shape kind, ready to be copied into instance buffers.
type Instances struct {
	Circles    []CircleInstance
	HalfPlanes []HalfPlaneInstance
}

func (inst *Instances) Reset() {
	inst.Circles = inst.Circles[:0]
	inst.HalfPlanes = inst.HalfPlanes[:0]
}

func (inst *Instances) DrawCircle(transform Transform, radius float64, style Style) {
	inst.Circles = append(inst.Circles, CircleInstance{
		Transform:   transform.Mat3(),
		Radius:      float32(radius),
		Fill:        ColorVec4(style.Fill),
		Outline:     ColorVec4(style.Outline),
		BorderWidth: float32(style.BorderWidth),
	})
}

func (inst *Instances) DrawHalfPlane(transform Transform, normal Vector, offset float64, style Style) {
	inst.HalfPlanes = append(inst.HalfPlanes, HalfPlaneInstance{
		Transform:   transform.Mat3(),
		Normal:      mgl32.Vec2{float32(normal.X), float32(normal.Y)},
		Offset:      float32(offset),
		Fill:        ColorVec4(style.Fill),
		Outline:     ColorVec4(style.Outline),
		BorderWidth: float32(style.BorderWidth),
	})
}

func (*Instances) DrawSegment(Vector, Vector, colorful.Color) {}

func (*Instances) DrawDot(float64, Vector, colorful.Color) {}

func (*Instances) Flags() DrawFlags {
	return DRAW_SHAPES
}

func (*Instances) ConstraintColor() colorful.Color {
	return colorful.Color{}
}

func (*Instances) CollisionPointColor() colorful.Color {
	return colorful.Color{}
}

// Instances builds the snapshot for the current state. Call it after Step returns.
func (w *World) Instances() Instances {
	var inst Instances
	DrawWorld(w, &inst)
	return inst
}

// ColorVec4 converts a color to opaque RGBA, clamped to the displayable range.
func ColorVec4(c colorful.Color) mgl32.Vec4 {
	c = c.Clamped()
	return mgl32.Vec4{float32(c.R), float32(c.G), float32(c.B), 1}
}
