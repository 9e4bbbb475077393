package vec

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}

	z := x.Cross(y)
	if !almostEqual(z.Z, 1) || !almostEqual(z.X, 0) || !almostEqual(z.Y, 0) {
		t.Errorf("x × y = %+v, want (0,0,1)", z)
	}

	// Anti-commutativity
	zn := y.Cross(x)
	if !almostEqual(zn.Z, -1) {
		t.Errorf("y × x = %+v, want (0,0,-1)", zn)
	}
}

func TestNormalize(t *testing.T) {
	v := Vec3{X: 3, Y: 4, Z: 0}.Normalize()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("normalized length = %f, want 1", v.Length())
	}
	if !almostEqual(v.X, 0.6) || !almostEqual(v.Y, 0.8) {
		t.Errorf("normalized = %+v, want (0.6, 0.8, 0)", v)
	}
}

func TestNormalizeZero(t *testing.T) {
	v := Vec3{}.Normalize()
	if v != (Vec3{}) {
		t.Errorf("zero vector normalized to %+v, want zero", v)
	}
}

func TestLerp(t *testing.T) {
	a := Vec3{X: 0, Y: 0, Z: 0}
	b := Vec3{X: 2, Y: 4, Z: 6}

	mid := Lerp(a, b, 0.5)
	if !almostEqual(mid.X, 1) || !almostEqual(mid.Y, 2) || !almostEqual(mid.Z, 3) {
		t.Errorf("Lerp(a, b, 0.5) = %+v, want (1,2,3)", mid)
	}

	if got := Lerp(a, b, 0); got != a {
		t.Errorf("Lerp(a, b, 0) = %+v, want %+v", got, a)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Errorf("Lerp(a, b, 1) = %+v, want %+v", got, b)
	}
}

func TestDistance(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 1, Y: 2, Z: 8}
	if d := a.Distance(b); !almostEqual(d, 5) {
		t.Errorf("Distance = %f, want 5", d)
	}
}
