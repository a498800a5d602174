package narrowphase

import (
	"testing"

	"github.com/quadrocore/dynamics/collider"
	"github.com/quadrocore/dynamics/mathf"
)

func sphereBody(t *testing.T, radius float32, pos mathf.Vec3) Body {
	t.Helper()
	s, err := collider.NewSphere(radius, 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	return Body{Position: pos, Orientation: mathf.IdentityQ, Shape: s}
}

func TestGJKOverlappingSpheres(t *testing.T) {
	a := sphereBody(t, 1, mathf.V3(0, 0, 0))
	b := sphereBody(t, 1, mathf.V3(1, 0, 0)) // centers 1 apart, radii sum 2: deep overlap.
	hit, _ := Intersects(a, b)
	if !hit {
		t.Fatal("expected overlapping spheres to be reported as intersecting")
	}
}

func TestGJKSeparatedSpheres(t *testing.T) {
	a := sphereBody(t, 1, mathf.V3(0, 0, 0))
	b := sphereBody(t, 1, mathf.V3(10, 0, 0))
	hit, _ := Intersects(a, b)
	if hit {
		t.Fatal("expected far-apart spheres to be reported as not intersecting")
	}
}

func TestGJKTouchingBoxes(t *testing.T) {
	ba, err := collider.NewBox(mathf.V3(1, 1, 1), 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	bb, err := collider.NewBox(mathf.V3(1, 1, 1), 0, mathf.Vec3{})
	if err != nil {
		t.Fatal(err)
	}
	a := Body{Position: mathf.V3(0, 0, 0), Orientation: mathf.IdentityQ, Shape: ba}
	b := Body{Position: mathf.V3(1.9, 0, 0), Orientation: mathf.IdentityQ, Shape: bb}
	hit, _ := Intersects(a, b)
	if !hit {
		t.Fatal("expected slightly overlapping boxes to intersect")
	}
}

func TestEPAPenetrationDepthSpheres(t *testing.T) {
	a := sphereBody(t, 1, mathf.V3(0, 0, 0))
	b := sphereBody(t, 1, mathf.V3(1.5, 0, 0)) // radii sum 2, centers 1.5 apart: penetration 0.5.

	hit, simplex := Intersects(a, b)
	if !hit {
		t.Fatal("expected intersection")
	}
	contact, ok := EPA(a, b, simplex)
	if !ok {
		t.Fatal("expected EPA to converge")
	}
	if mathf.Abs(contact.Penetration-0.5) > 0.05 {
		t.Fatalf("expected penetration ~0.5, got %v", contact.Penetration)
	}
	want := mathf.V3(1, 0, 0)
	wantNeg := mathf.V3(-1, 0, 0)
	if !contact.Normal.AeqTolV(&want, 0.05) && !contact.Normal.AeqTolV(&wantNeg, 0.05) {
		t.Fatalf("expected normal roughly along x axis, got %v", contact.Normal)
	}
}

func TestEPABoxBoxPenetration(t *testing.T) {
	ba, _ := collider.NewBox(mathf.V3(1, 1, 1), 0, mathf.Vec3{})
	bb, _ := collider.NewBox(mathf.V3(1, 1, 1), 0, mathf.Vec3{})
	a := Body{Position: mathf.V3(0, 0, 0), Orientation: mathf.IdentityQ, Shape: ba}
	b := Body{Position: mathf.V3(1.8, 0, 0), Orientation: mathf.IdentityQ, Shape: bb}

	hit, simplex := Intersects(a, b)
	if !hit {
		t.Fatal("expected overlapping boxes to intersect")
	}
	contact, ok := EPA(a, b, simplex)
	if !ok {
		t.Fatal("expected EPA to converge for box-box")
	}
	if contact.Penetration <= 0 || contact.Penetration > 0.3 {
		t.Fatalf("expected small positive penetration around 0.2, got %v", contact.Penetration)
	}
}
