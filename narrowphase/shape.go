// Package narrowphase implements GJK intersection testing and EPA
// contact generation over pairs of convex colliders. Grounded on
// gazed-vu's physics/gjk.go and physics/epa.go for structural shape
// (simplex dispatch, polytope expansion, silhouette stitching), with
// the GJK simplex-reduction control flow independently re-derived from
// the standard point/line/triangle/tetrahedron region tests rather
// than copied — the source's DoTriangleCheck contains suspicious
// self-assignments the spec calls out as probably buggy.
package narrowphase

import "github.com/quadrocore/dynamics/mathf"

// Shape is the minimal interface narrow phase needs from a collider:
// a local-frame support function. This keeps the package decoupled
// from the collider package's concrete types (box/sphere/hull), so it
// can be tested with trivial stand-ins.
type Shape interface {
	Support(direction mathf.Vec3) mathf.Vec3
}

// Body pairs a Shape with the world transform of the rigid body that
// owns it.
type Body struct {
	Position    mathf.Vec3
	Orientation mathf.Quat
	Shape       Shape
}

// worldSupport returns the world-space support point of b in world
// direction dir: b's local support in the direction rotated into b's
// local frame, then rotated back to world and translated.
func worldSupport(b Body, dir mathf.Vec3) mathf.Vec3 {
	var localDir mathf.Vec3
	conj := mathf.Quat{}
	conj.Conjugate(&b.Orientation)
	conj.RotateVec(&localDir, &dir)

	localPoint := b.Shape.Support(localDir)

	var worldPoint mathf.Vec3
	b.Orientation.RotateVec(&worldPoint, &localPoint)
	worldPoint.Add(&worldPoint, &b.Position)
	return worldPoint
}

// cso is one configuration-space-obstacle support sample: the
// Minkowski-difference point plus the two world points on A and B it
// was built from (needed later to recover real contact points via
// barycentric interpolation).
type cso struct {
	point  mathf.Vec3
	onA    mathf.Vec3
	onB    mathf.Vec3
}

// cSOSupport returns support_A(d) - support_B(-d) in world space,
// along with the two world points that produced it.
func cSOSupport(a, b Body, dir mathf.Vec3) cso {
	onA := worldSupport(a, dir)
	negDir := mathf.Vec3{}
	negDir.Neg(&dir)
	onB := worldSupport(b, negDir)
	point := mathf.Vec3{}
	point.Sub(&onA, &onB)
	return cso{point: point, onA: onA, onB: onB}
}
