package impulse

import "math"

// Contact is the manifold of an overlap between two shapes. Normal is unit length
// and points from the first shape to the second; Depth is the penetration depth.
type Contact struct {
	Normal Vector
	Depth  float64
	Point  Vector
}

type CollisionFunc func(a Shape, ta Transform, b Shape, tb Transform) (Contact, bool)

// Indexed by the shape kinds of the pair, lowest kind first. A nil entry is an
// unsupported pair and never collides.
var builtinCollisionFuncs = [numShapeKinds][numShapeKinds]CollisionFunc{
	CircleShape: {
		CircleShape:    CircleToCircle,
		HalfPlaneShape: CircleToHalfPlane,
	},
	HalfPlaneShape: {
		HalfPlaneShape: nil,
	},
}

// Collide runs the narrow-phase test for a shape pair placed by ta and tb.
func Collide(a Shape, ta Transform, b Shape, tb Transform) (Contact, bool) {
	if a.kind >= numShapeKinds || b.kind >= numShapeKinds {
		return Contact{}, false
	}

	// Collision functions require the shapes to be sorted by kind.
	if a.kind > b.kind {
		contact, ok := Collide(b, tb, a, ta)
		contact.Normal = contact.Normal.Neg()
		return contact, ok
	}

	collide := builtinCollisionFuncs[a.kind][b.kind]
	if collide == nil {
		return Contact{}, false
	}
	return collide(a, ta, b, tb)
}

func CircleToCircle(a Shape, ta Transform, b Shape, tb Transform) (Contact, bool) {
	c1 := circleCenter(ta)
	c2 := circleCenter(tb)
	mindist := a.r + b.r
	delta := c2.Sub(c1)
	distsq := delta.LengthSq()

	if distsq >= mindist*mindist {
		return Contact{}, false
	}

	dist := math.Sqrt(distsq)
	// Coincident centers have no separating direction, push along +x.
	n := delta.NormalizeOr(VectorX)
	depth := mindist - dist

	return Contact{
		Normal: n,
		Depth:  depth,
		Point:  c1.Add(n.Mult(a.r - 0.5*depth)),
	}, true
}

func CircleToHalfPlane(a Shape, ta Transform, b Shape, tb Transform) (Contact, bool) {
	c := circleCenter(ta)
	n, offset := b.worldPlane(tb)

	s := n.Dot(c) - offset
	if s >= a.r {
		return Contact{}, false
	}

	return Contact{
		Normal: n.Neg(),
		Depth:  a.r - s,
		Point:  c.Sub(n.Mult(s)),
	}, true
}
