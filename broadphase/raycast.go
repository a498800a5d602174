package broadphase

import "github.com/quadrocore/dynamics/mathf"

// Hit is the nearest raycast result: the leaf payload and the
// parametric distance t along origin+dir*t at which the ray entered
// the leaf's fat AABB.
type Hit struct {
	Leaf Leaf
	T    float32
}

// Raycast returns the nearest leaf whose fat AABB the ray (origin,
// dir) intersects, descending only into nodes whose slab interval is
// non-empty and closer than the current best (spec 4.2). ok is false
// if no leaf is hit.
func (t *Tree) Raycast(origin, dir mathf.Vec3) (hit Hit, ok bool) {
	if t.root == Null {
		return Hit{}, false
	}
	bestT := float32(math32Inf)
	found := false

	var visit func(id NodeID)
	visit = func(id NodeID) {
		tmin, tmax, hitAABB := slab(origin, dir, t.nodes[id].min, t.nodes[id].max)
		if !hitAABB || tmin > bestT {
			return
		}
		if t.nodes[id].isLeaf() {
			if tmin < bestT {
				bestT = tmin
				hit = Hit{Leaf: t.nodes[id].leaf, T: tmin}
				found = true
			}
			_ = tmax
			return
		}
		visit(t.nodes[id].child0)
		visit(t.nodes[id].child1)
	}
	visit(t.root)
	return hit, found
}

const math32Inf = 1e30

// slab performs the standard slab test for a ray against an AABB,
// returning the entry/exit parametric distances and whether the ray
// intersects the box at all (tmin <= tmax and tmax >= 0).
func slab(origin, dir, min, max mathf.Vec3) (tmin, tmax float32, hit bool) {
	tmin, tmax = -math32Inf, math32Inf

	axes := [3][3]float32{
		{origin.X, dir.X, 0}, {origin.Y, dir.Y, 0}, {origin.Z, dir.Z, 0},
	}
	mins := [3]float32{min.X, min.Y, min.Z}
	maxs := [3]float32{max.X, max.Y, max.Z}

	for i := 0; i < 3; i++ {
		o, d := axes[i][0], axes[i][1]
		if mathf.AeqZ(d) {
			if o < mins[i] || o > maxs[i] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t0 := (mins[i] - o) * inv
		t1 := (maxs[i] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tmin {
			tmin = t0
		}
		if t1 < tmax {
			tmax = t1
		}
		if tmin > tmax {
			return tmin, tmax, false
		}
	}
	return tmin, tmax, tmax >= 0
}
