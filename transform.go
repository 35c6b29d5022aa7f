package impulse

import "github.com/go-gl/mathgl/mgl32"

// Transform is a 2x3 affine matrix:
//
//	| a c tx |
//	| b d ty |
type Transform struct {
	a, b, c, d, tx, ty float64
}

func NewTransformIdentity() Transform {
	return Transform{1, 0, 0, 1, 0, 0}
}

func NewTransformTranspose(a, c, tx, b, d, ty float64) Transform {
	return Transform{a, b, c, d, tx, ty}
}

func NewTransformTranslate(translate Vector) Transform {
	return NewTransformTranspose(
		1, 0, translate.X,
		0, 1, translate.Y,
	)
}

func NewTransformRigid(translate Vector, radians float64) Transform {
	rot := ForAngle(radians)
	return NewTransformTranspose(
		rot.X, -rot.Y, translate.X,
		rot.Y, rot.X, translate.Y,
	)
}

func NewTransformRigidInverse(t Transform) Transform {
	return NewTransformTranspose(
		t.d, -t.c, t.c*t.ty-t.tx*t.d,
		-t.b, t.a, t.tx*t.b-t.a*t.ty,
	)
}

func (t Transform) Mult(t2 Transform) Transform {
	return NewTransformTranspose(
		t.a*t2.a+t.c*t2.b, t.a*t2.c+t.c*t2.d, t.a*t2.tx+t.c*t2.ty+t.tx,
		t.b*t2.a+t.d*t2.b, t.b*t2.c+t.d*t2.d, t.b*t2.tx+t.d*t2.ty+t.ty,
	)
}

// Point transforms an absolute point (rotation and translation).
func (t Transform) Point(p Vector) Vector {
	return Vector{X: t.a*p.X + t.c*p.Y + t.tx, Y: t.b*p.X + t.d*p.Y + t.ty}
}

// Vect transforms a direction (rotation only).
func (t Transform) Vect(v Vector) Vector {
	return Vector{t.a*v.X + t.c*v.Y, t.b*v.X + t.d*v.Y}
}

// Basis returns the images of the local x and y axes.
func (t Transform) Basis() (x, y Vector) {
	return Vector{t.a, t.b}, Vector{t.c, t.d}
}

func (t Transform) Translation() Vector {
	return Vector{t.tx, t.ty}
}

// Mat3 returns the transform as a column-major homogeneous matrix for upload to
// instance buffers.
func (t Transform) Mat3() mgl32.Mat3 {
	return mgl32.Mat3{
		float32(t.a), float32(t.b), 0,
		float32(t.c), float32(t.d), 0,
		float32(t.tx), float32(t.ty), 1,
	}
}
