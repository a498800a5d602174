package narrowphase

import "github.com/quadrocore/dynamics/mathf"

// maxEPAIterations is the hard iteration cap (spec 4.3: "~32").
const maxEPAIterations = 32

// epaEpsilon is the convergence tolerance: when a new support point's
// distance along the closest face's normal matches that face's
// distance to the origin within this tolerance, EPA has converged.
const epaEpsilon float32 = 1e-4

type face struct {
	a, b, c  int // indices into the polytope's point list.
	normal   mathf.Vec3
	distance float32
}

type edge struct{ a, b int }

// faceNormalAndDistance computes the unit normal of the triangle
// (a,b,c) and its distance to the origin, flipping the normal so it
// points away from the origin (gazed-vu physics/epa.go's
// get_face_normal_and_distance_to_origin, restyled).
func faceNormalAndDistance(pts []mathf.Vec3, a, b, c int) (mathf.Vec3, float32) {
	ab := sub(pts[b], pts[a])
	ac := sub(pts[c], pts[a])
	n := mathf.Vec3{}
	n.Cross(&ab, &ac)
	n.Unit(&n)

	dist := n.Dot(&pts[a])
	if dist < 0 {
		n.Neg(&n)
		dist = -dist
	}
	return n, dist
}

func triangleCentroid(pts []mathf.Vec3, a, b, c int) mathf.Vec3 {
	sum := Add3(pts[a], pts[b])
	sum = Add3(sum, pts[c])
	return mathf.Scale3(sum, 1.0/3.0)
}

// Add3/Scale3 aliases keep this file's arithmetic terse without
// importing mathf's value-returning helpers under a qualified name
// twice.
var Add3 = mathf.Add3
var Scale3 = mathf.Scale3

func addEdge(edges []edge, e edge) []edge {
	for i, cur := range edges {
		if (cur.a == e.a && cur.b == e.b) || (cur.a == e.b && cur.b == e.a) {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return append(edges, e)
}

// Contact is the result of a converged EPA pass: world-space contact
// points on each body, the separating normal (B to A), and the
// penetration depth.
type Contact struct {
	Normal      mathf.Vec3 // points from B to A.
	Penetration float32
	PointA      mathf.Vec3
	PointB      mathf.Vec3
}

// EPA expands the GJK-reported enclosing tetrahedron into a polytope
// of triangular faces and iteratively refines it until the closest
// face to the origin is also where the next support point lands,
// which is the point of maximum penetration. Returns (contact, true)
// on convergence or (Contact{}, false) if the iteration cap is
// exceeded (spec: "Numeric" category, non-fatal — caller treats it as
// no usable contact this step).
func EPA(a, b Body, s *simplex) (Contact, bool) {
	if len(s.pts) != 4 {
		return Contact{}, false
	}

	points := make([]mathf.Vec3, 4)
	onA := make([]mathf.Vec3, 4)
	onB := make([]mathf.Vec3, 4)
	for i, p := range s.pts {
		points[i], onA[i], onB[i] = p.point, p.onA, p.onB
	}

	// The origin may lie on a face of the GJK tetrahedron, so normals are
	// oriented away from a point strictly inside the polytope instead.
	interior := Scale3(Add3(Add3(points[0], points[1]), Add3(points[2], points[3])), 0.25)
	orient := func(f *face) {
		f.normal, f.distance = faceNormalAndDistance(points, f.a, f.b, f.c)
		toFace := sub(points[f.a], interior)
		if f.normal.Dot(&toFace) < 0 {
			f.normal.Neg(&f.normal)
			f.distance = -f.distance
		}
	}

	faces := []face{
		{a: 0, b: 1, c: 2},
		{a: 0, b: 2, c: 3},
		{a: 0, b: 3, c: 1},
		{a: 1, b: 2, c: 3},
	}
	for i := range faces {
		orient(&faces[i])
	}

	closest := closestFace(faces)

	for iter := 0; iter < maxEPAIterations; iter++ {
		normal := faces[closest].normal
		support := cSOSupport(a, b, normal)
		d := support.point.Dot(&normal)

		if mathf.Abs(d-faces[closest].distance) < epaEpsilon {
			return buildContact(points, onA, onB, faces[closest]), true
		}

		newIdx := len(points)
		points = append(points, support.point)
		onA = append(onA, support.onA)
		onB = append(onB, support.onB)

		var edges []edge
		for i := 0; i < len(faces); i++ {
			f := faces[i]
			centroid := triangleCentroid(points, f.a, f.b, f.c)
			toSupport := sub(support.point, centroid)
			if f.normal.Dot(&toSupport) > 0 {
				edges = addEdge(edges, edge{f.a, f.b})
				edges = addEdge(edges, edge{f.b, f.c})
				edges = addEdge(edges, edge{f.c, f.a})
				faces = append(faces[:i], faces[i+1:]...)
				i--
			}
		}

		for _, e := range edges {
			nf := face{a: e.a, b: e.b, c: newIdx}
			orient(&nf)
			faces = append(faces, nf)
		}

		if len(faces) == 0 {
			return Contact{}, false
		}
		closest = closestFace(faces)
	}
	return Contact{}, false
}

func closestFace(faces []face) int {
	best := 0
	for i := 1; i < len(faces); i++ {
		if faces[i].distance < faces[best].distance {
			best = i
		}
	}
	return best
}

// buildContact projects the origin onto the closest face's plane,
// computes its barycentric coordinates with respect to that triangle,
// and uses those weights to interpolate the corresponding cached world
// points on A and B (spec 4.3: "barycentric interpolation of the
// per-support cached world points").
func buildContact(points, onA, onB []mathf.Vec3, f face) Contact {
	origin := mathf.Vec3{}
	projected := mathf.Vec3{}
	projected.AddScaled(&origin, &f.normal, f.distance)

	u, v, w := barycentric(points[f.a], points[f.b], points[f.c], projected)

	pa := blend3(onA[f.a], onA[f.b], onA[f.c], u, v, w)
	pb := blend3(onB[f.a], onB[f.b], onB[f.c], u, v, w)

	// f.normal points from the origin to the closest face of A - B, which
	// is the direction from A toward B; the contact normal is its negation.
	normal := mathf.Vec3{}
	normal.Neg(&f.normal)
	return Contact{
		Normal:      normal,
		Penetration: f.distance,
		PointA:      pa,
		PointB:      pb,
	}
}

func blend3(a, b, c mathf.Vec3, u, v, w float32) mathf.Vec3 {
	out := Scale3(a, u)
	out = Add3(out, Scale3(b, v))
	out = Add3(out, Scale3(c, w))
	return out
}

// barycentric returns the barycentric coordinates of p with respect to
// triangle (a,b,c), assuming p lies in the triangle's plane.
func barycentric(a, b, c, p mathf.Vec3) (u, v, w float32) {
	v0 := sub(b, a)
	v1 := sub(c, a)
	v2 := sub(p, a)
	d00 := v0.Dot(&v0)
	d01 := v0.Dot(&v1)
	d11 := v1.Dot(&v1)
	d20 := v2.Dot(&v0)
	d21 := v2.Dot(&v1)
	denom := d00*d11 - d01*d01
	if mathf.AeqZ(denom) {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}
