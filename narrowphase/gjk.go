package narrowphase

import "github.com/quadrocore/dynamics/mathf"

// maxGJKIterations is the hard iteration cap; exceeding it is treated
// as "no intersection" (non-fatal, spec 4.3).
const maxGJKIterations = 30

// simplex holds 1..4 CSO points, most-recently-added first, each
// paired with the world points on A and B that produced it.
type simplex struct {
	pts []cso
}

func (s *simplex) push(p cso) {
	s.pts = append([]cso{p}, s.pts...)
}

func (s *simplex) set(pts ...cso) {
	s.pts = pts
}

func sameDirection(a, b mathf.Vec3) bool {
	return a.Dot(&b) > 0
}

func sub(a, b mathf.Vec3) mathf.Vec3 {
	v := mathf.Vec3{}
	v.Sub(&a, &b)
	return v
}

func neg(a mathf.Vec3) mathf.Vec3 {
	v := mathf.Vec3{}
	v.Neg(&a)
	return v
}

func cross(a, b mathf.Vec3) mathf.Vec3 {
	v := mathf.Vec3{}
	v.Cross(&a, &b)
	return v
}

// tripleCross returns (a x b) x c, the vector triple product used
// throughout simplex reduction to find a direction perpendicular to an
// edge, in the plane containing the edge and pointing toward a third
// point.
func tripleCross(a, b, c mathf.Vec3) mathf.Vec3 {
	return cross(cross(a, b), c)
}

// nextSimplex dispatches on the current simplex size, reducing it to
// the feature (point/edge/face) closest to the origin and computing
// the next search direction. Returns true iff the origin is enclosed
// (only possible once the simplex has grown to a tetrahedron).
func nextSimplex(s *simplex, dir *mathf.Vec3) bool {
	switch len(s.pts) {
	case 2:
		return lineCase(s, dir)
	case 3:
		return triangleCase(s, dir)
	case 4:
		return tetrahedronCase(s, dir)
	}
	return false
}

func lineCase(s *simplex, dir *mathf.Vec3) bool {
	a, b := s.pts[0], s.pts[1]
	ab := sub(b.point, a.point)
	ao := neg(a.point)
	if sameDirection(ab, ao) {
		*dir = tripleCross(ab, ao, ab)
		if dir.AeqZ() {
			// The origin lies on the segment itself: any direction
			// perpendicular to it continues the search.
			*dir = cross(ab, mathf.V3(1, 0, 0))
			if dir.AeqZ() {
				*dir = cross(ab, mathf.V3(0, 1, 0))
			}
		}
	} else {
		s.set(a)
		*dir = ao
	}
	return false
}

func triangleCase(s *simplex, dir *mathf.Vec3) bool {
	a, b, c := s.pts[0], s.pts[1], s.pts[2]
	ab := sub(b.point, a.point)
	ac := sub(c.point, a.point)
	ao := neg(a.point)
	abc := cross(ab, ac)

	if sameDirection(cross(abc, ac), ao) {
		if sameDirection(ac, ao) {
			s.set(a, c)
			*dir = tripleCross(ac, ao, ac)
			return false
		}
		s.set(a, b)
		return lineCase(s, dir)
	}
	if sameDirection(cross(ab, abc), ao) {
		s.set(a, b)
		return lineCase(s, dir)
	}
	if sameDirection(abc, ao) {
		s.set(a, b, c)
		*dir = abc
	} else {
		s.set(a, c, b)
		*dir = neg(abc)
	}
	return false
}

func tetrahedronCase(s *simplex, dir *mathf.Vec3) bool {
	a, b, c, d := s.pts[0], s.pts[1], s.pts[2], s.pts[3]
	ab := sub(b.point, a.point)
	ac := sub(c.point, a.point)
	ad := sub(d.point, a.point)
	ao := neg(a.point)

	abc := cross(ab, ac)
	acd := cross(ac, ad)
	adb := cross(ad, ab)

	if sameDirection(abc, ao) {
		s.set(a, b, c)
		return triangleCase(s, dir)
	}
	if sameDirection(acd, ao) {
		s.set(a, c, d)
		return triangleCase(s, dir)
	}
	if sameDirection(adb, ao) {
		s.set(a, d, b)
		return triangleCase(s, dir)
	}
	return true
}

// Intersects runs GJK over bodies a and b, returning (true, the
// enclosing simplex) when their colliders overlap, or (false, nil)
// when they don't — including the non-fatal case where the iteration
// cap is exceeded (spec 4.3: "hard limit ~30 iterations; exceeding it
// returns no intersection").
func Intersects(a, b Body) (bool, *simplex) {
	dir := mathf.V3(1, 0, 0)
	first := cSOSupport(a, b, dir)
	s := &simplex{pts: []cso{first}}
	dir = neg(first.point)

	for i := 0; i < maxGJKIterations; i++ {
		support := cSOSupport(a, b, dir)
		if support.point.Dot(&dir) <= 0 {
			return false, nil
		}
		s.push(support)
		if nextSimplex(s, &dir) {
			return true, s
		}
	}
	return false, nil
}
