package impulse

import (
	"math"
	"testing"
)

func TestVector_Normalize(t *testing.T) {
	v := Vector{}
	u := v.Normalize()
	if u.X != 0.0 || u.Y != 0.0 {
		t.Errorf("Expected zero vector, got %v", u)
	}

	u = Vector{3, 4}.Normalize()
	if !u.Near(Vector{0.6, 0.8}, 1e-12) {
		t.Errorf("Expected 0.6,0.8 got %v", u)
	}
}

func TestVector_NormalizeOr(t *testing.T) {
	if u := (Vector{}).NormalizeOr(VectorX); u != VectorX {
		t.Errorf("Expected fallback, got %v", u)
	}
	if u := (Vector{1e-9, 0}).NormalizeOr(VectorY); u != VectorY {
		t.Errorf("Expected fallback for tiny vector, got %v", u)
	}
	if u := (Vector{0, -2}).NormalizeOr(VectorX); u != (Vector{0, -1}) {
		t.Errorf("Expected 0,-1 got %v", u)
	}
}

func TestVector_RotateUnrotate(t *testing.T) {
	v := Vector{1, 2}
	rot := ForAngle(0.7)
	back := v.Rotate(rot).Unrotate(rot)
	if !back.Near(v, 1e-12) {
		t.Errorf("Expected %v got %v", v, back)
	}
	if l := v.Rotate(rot).Length(); math.Abs(l-v.Length()) > 1e-12 {
		t.Errorf("Rotation changed length to %v", l)
	}
}

func TestVector_Cross(t *testing.T) {
	if c := VectorX.Cross(VectorY); c != 1 {
		t.Errorf("Expected 1 got %v", c)
	}
	if c := VectorY.Cross(VectorX); c != -1 {
		t.Errorf("Expected -1 got %v", c)
	}
	if p := VectorX.Perp(); p != VectorY {
		t.Errorf("Expected perp of x to be y, got %v", p)
	}
}

func TestVector_IsFinite(t *testing.T) {
	if !(Vector{1, 2}).IsFinite() {
		t.Error("Expected finite")
	}
	if (Vector{math.NaN(), 0}).IsFinite() {
		t.Error("NaN is not finite")
	}
	if (Vector{0, math.Inf(-1)}).IsFinite() {
		t.Error("Inf is not finite")
	}
}

func TestTransform_Rigid(t *testing.T) {
	transform := NewTransformRigid(Vector{1, 2}, math.Pi/2)

	p := transform.Point(Vector{1, 0})
	if !p.Near(Vector{1, 3}, 1e-12) {
		t.Errorf("Expected 1,3 got %v", p)
	}
	v := transform.Vect(Vector{1, 0})
	if !v.Near(Vector{0, 1}, 1e-12) {
		t.Errorf("Expected 0,1 got %v", v)
	}

	inverse := NewTransformRigidInverse(transform)
	if q := inverse.Point(p); !q.Near(Vector{1, 0}, 1e-12) {
		t.Errorf("Expected inverse to map back to 1,0 got %v", q)
	}
	if id := transform.Mult(inverse); !id.Point(Vector{5, -3}).Near(Vector{5, -3}, 1e-12) {
		t.Errorf("Expected identity, got %v", id)
	}
}

func TestTransform_Mat3(t *testing.T) {
	transform := NewTransformRigid(Vector{3, 4}, math.Pi/2)
	x, y := transform.Basis()
	m := transform.Mat3()

	if m.At(0, 2) != 3 || m.At(1, 2) != 4 || m.At(2, 2) != 1 {
		t.Errorf("Expected translation in the last column, got %v", m)
	}
	if math.Abs(float64(m.At(0, 0))-x.X) > 1e-6 || math.Abs(float64(m.At(1, 0))-x.Y) > 1e-6 {
		t.Errorf("Expected x basis %v in the first column, got %v", x, m)
	}
	if math.Abs(float64(m.At(0, 1))-y.X) > 1e-6 || math.Abs(float64(m.At(1, 1))-y.Y) > 1e-6 {
		t.Errorf("Expected y basis %v in the second column, got %v", y, m)
	}
}

func TestBB_Intersects(t *testing.T) {
	a := NewBBForCircle(Vector{}, 1)
	b := NewBBForCircle(Vector{1.5, 0}, 1)
	c := NewBBForCircle(Vector{5, 0}, 1)

	if !a.Intersects(b) {
		t.Error("Expected overlap")
	}
	if a.Intersects(c) {
		t.Error("Expected no overlap")
	}
	if !bbInfinite.Intersects(c) {
		t.Error("Infinite box intersects everything")
	}
	if bbInfinite.Bounded() || !a.Bounded() {
		t.Error("Bounded is wrong")
	}
	if m := a.Merge(c); !m.Contains(a) || !m.Contains(c) {
		t.Errorf("Merge %v does not contain its inputs", m)
	}
}
