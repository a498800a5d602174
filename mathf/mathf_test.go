package mathf

import "testing"

func TestVec3Basics(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, 5, 6)
	var sum Vec3
	sum.Add(&a, &b)
	if !sum.Aeq(&Vec3{5, 7, 9}) {
		t.Fatalf("Add: got %v", sum)
	}
	var cross Vec3
	cross.Cross(&a, &b)
	want := Vec3{2*6 - 3*5, 3*4 - 1*6, 1*5 - 2*4}
	if !cross.Aeq(&want) {
		t.Fatalf("Cross: got %v want %v", cross, want)
	}
}

func TestHatVeeRoundTrip(t *testing.T) {
	v := V3(1.5, -2.25, 0.75)
	var h Mat3
	h.Hat(&v)
	var back Vec3
	back.Vee(&h)
	if !back.Aeq(&v) {
		t.Fatalf("vee(hat(v)) = %v, want %v", back, v)
	}
}

func TestHatActsAsCross(t *testing.T) {
	v := V3(1, 0, 0)
	x := V3(0, 1, 0)
	var h Mat3
	h.Hat(&v)
	var hx Vec3
	h.MulV(&hx, &x)

	var want Vec3
	want.Cross(&v, &x)
	if !hx.Aeq(&want) {
		t.Fatalf("Hat(v)*x = %v, want v cross x = %v", hx, want)
	}
}

func TestQuaternionRotationRoundTrip(t *testing.T) {
	axis := V3(0.3, 0.6, 0.2)
	q := QFromAxisAngle(axis, 1.1)
	q.Normalize()

	var m Mat3
	q.ToMat3(&m)
	back := QFromMat3(&m)

	// q and -q represent the same rotation; compare via dot product.
	dot := q.X*back.X + q.Y*back.Y + q.Z*back.Z + q.W*back.W
	if Abs(Abs(dot)-1) > 1e-4 {
		t.Fatalf("round trip mismatch: q=%v back=%v dot=%v", q, back, dot)
	}
}

func TestQuaternionRotateVecMatchesMatrix(t *testing.T) {
	q := QFromAxisAngle(V3(0, 0, 1), HalfPi)
	v := V3(1, 0, 0)

	var rotated Vec3
	q.RotateVec(&rotated, &v)

	var m Mat3
	q.ToMat3(&m)
	var rotatedM Vec3
	m.MulV(&rotatedM, &v)

	if !rotated.Aeq(&rotatedM) {
		t.Fatalf("RotateVec = %v, ToMat3*v = %v", rotated, rotatedM)
	}
	want := V3(0, 1, 0)
	if !rotated.AeqTolV(&want, 1e-3) {
		t.Fatalf("rotating (1,0,0) by 90deg about z: got %v want %v", rotated, want)
	}
}


func TestSolve3Identity(t *testing.T) {
	b := V3(3, -1, 2)
	x, ok := Solve3(&Identity3, &b)
	if !ok {
		t.Fatal("expected identity matrix to be non-singular")
	}
	if !x.Aeq(&b) {
		t.Fatalf("solve with identity should return b unchanged: got %v want %v", x, b)
	}
}

func TestSolve3Singular(t *testing.T) {
	singular := Mat3{} // all zero: singular.
	b := V3(1, 1, 1)
	_, ok := Solve3(&singular, &b)
	if ok {
		t.Fatal("expected singular matrix to report not-ok")
	}
}
