// Package solver implements the sequential-impulse contact solver:
// per-contact effective mass, Baumgarte penetration bias, a
// restitution threshold, warm-started accumulated impulses, and
// friction clamped to the normal impulse magnitude. Grounded on
// gazed-vu's physics/solver.go (solverConstraint naming,
// warm-start-via-accumulated-impulse, friction dynamic limit) but
// simplified from the teacher's full split-impulse Bullet port to the
// single-bias formula spec section 4.4 states explicitly — the
// teacher's own friction path is commented out, so this package tests
// the frictionless case first and friction as a separate axis (see
// solver_test.go).
package solver

import "github.com/quadrocore/dynamics/mathf"

// Contact is one persistent contact point between two rigid bodies.
// BodyA/BodyB index into whatever rigid-body store the caller owns;
// this package only needs the per-body physical quantities passed via
// BodyInput, not the store itself.
type Contact struct {
	BodyA, BodyB int

	PointA, PointB mathf.Vec3 // world-space.
	Normal         mathf.Vec3 // points from B to A.
	Penetration    float32

	Tangent1, Tangent2 mathf.Vec3

	// Warm-started accumulated impulse magnitudes, carried across
	// ticks by the caller (keyed externally, e.g. by a contact-pair
	// id) and written back here before each Resolve call. AccumNormal
	// is <= 0 (Normal points from B to A, so a separating impulse is
	// applied as a negative scalar along it); AccumTangent1/2 carry
	// either sign, clamped symmetrically to ±μ|AccumNormal|.
	AccumNormal   float32
	AccumTangent1 float32
	AccumTangent2 float32
}

// BuildTangents derives two orthonormal tangent directions from the
// contact normal, completing a right-handed frame. Call once per
// contact after the normal is known (spec 4.3 contact emission feeds
// this; 4.4 consumes Tangent1/Tangent2 for friction).
func (c *Contact) BuildTangents() {
	n := c.Normal
	var helper mathf.Vec3
	if mathf.Abs(n.X) < 0.9 {
		helper = mathf.V3(1, 0, 0)
	} else {
		helper = mathf.V3(0, 1, 0)
	}
	t1 := mathf.Vec3{}
	t1.Cross(&helper, &n)
	t1.Unit(&t1)
	t2 := mathf.Vec3{}
	t2.Cross(&n, &t1)
	c.Tangent1, c.Tangent2 = t1, t2
}
