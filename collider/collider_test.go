package collider

import (
	"testing"

	"github.com/quadrocore/dynamics/mathf"
)

func cube(hx, hy, hz float32) []mathf.Vec3 {
	return []mathf.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {-hx, hy, -hz},
		{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
}

var cubeTris = []uint32{
	0, 1, 2, 0, 2, 3, // bottom
	4, 6, 5, 4, 7, 6, // top
	0, 4, 5, 0, 5, 1, // front
	1, 5, 6, 1, 6, 2, // right
	2, 6, 7, 2, 7, 3, // back
	3, 7, 4, 3, 4, 0, // left
}

func TestBoxSupport(t *testing.T) {
	b, err := NewBox(mathf.V3(1, 2, 3), 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	got := b.Support(mathf.V3(1, 1, 1))
	want := mathf.V3(1, 2, 3)
	if !got.Aeq(&want) {
		t.Fatalf("box support(1,1,1) = %v, want %v", got, want)
	}
	got = b.Support(mathf.V3(-1, 1, -1))
	want = mathf.V3(-1, 2, -3)
	if !got.Aeq(&want) {
		t.Fatalf("box support(-1,1,-1) = %v, want %v", got, want)
	}
}

func TestSphereSupport(t *testing.T) {
	s, err := NewSphere(2, 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	got := s.Support(mathf.V3(0, 1, 0))
	want := mathf.V3(0, 2, 0)
	if !got.Aeq(&want) {
		t.Fatalf("sphere support = %v, want %v", got, want)
	}
	if l := got.Len(); mathf.Abs(l-2) > 1e-4 {
		t.Fatalf("support point should lie on the sphere, len=%v", l)
	}
}

func TestConvexHullSupportMatchesBruteForce(t *testing.T) {
	verts := cube(1, 1, 1)
	h, err := NewConvexHull(verts, cubeTris, 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	dirs := []mathf.Vec3{
		mathf.V3(1, 1, 1), mathf.V3(-1, 0.3, 0.2), mathf.V3(0, -1, 0), mathf.V3(0.1, 0.2, -1),
	}
	for _, d := range dirs {
		got := h.Support(d)

		best := verts[0]
		bestDot := best.Dot(&d)
		for _, v := range verts[1:] {
			if dot := v.Dot(&d); dot > bestDot {
				bestDot = dot
				best = v
			}
		}
		// Several cube vertices can tie for the maximum (e.g. a face
		// normal direction), so compare how extreme the points are.
		if gotDot := got.Dot(&d); mathf.Abs(gotDot-bestDot) > 1e-5 {
			t.Fatalf("hill climb support(%v) = %v (dot %v), want brute force %v (dot %v)", d, got, gotDot, best, bestDot)
		}
	}
}

func TestWorldAABBSphereContainsCenter(t *testing.T) {
	s, _ := NewSphere(1, 0, mathf.Vec3{})
	min, max := s.WorldAABB(mathf.V3(5, 5, 5), mathf.IdentityQ, 0.2)
	if !(min.X < 5 && max.X > 5) {
		t.Fatalf("aabb %v..%v should straddle center x=5", min, max)
	}
	if max.X-min.X < 2*(1+0.2)-1e-3 {
		t.Fatalf("aabb should be at least diameter+2*margin wide, got %v", max.X-min.X)
	}
}

func TestInertiaIsPositive(t *testing.T) {
	b, _ := NewBox(mathf.V3(1, 1, 1), 0, mathf.Vec3{})
	inv := b.Inertia(2)
	if inv.M00 <= 0 || inv.M11 <= 0 || inv.M22 <= 0 {
		t.Fatalf("expected positive inverse inertia diagonal, got %+v", inv)
	}
}
