package collider

import "github.com/quadrocore/dynamics/mathf"

// Support returns the vertex of the collider (in the collider's local
// frame) most extreme in the given local-frame direction. Box:
// componentwise signum selection of half-extents. Sphere: normalized
// direction times radius. Convex hull: hill-climb from a cached seed
// vertex, walking to a neighbor with higher dot product until none
// exists (spec 4.3).
func (c *Collider) Support(direction mathf.Vec3) mathf.Vec3 {
	switch c.Kind {
	case Sphere:
		var u mathf.Vec3
		u.Unit(&direction)
		u.Scale(&u, c.Radius)
		return u
	case Box:
		return mathf.Vec3{
			X: mathf.Sign(direction.X) * c.HalfExtents.X,
			Y: mathf.Sign(direction.Y) * c.HalfExtents.Y,
			Z: mathf.Sign(direction.Z) * c.HalfExtents.Z,
		}
	case ConvexHull:
		return c.hillClimb(direction)
	}
	return mathf.Vec3{}
}

// hillClimb walks the hull's adjacency graph from the cached seed
// vertex toward whichever neighbor increases the dot product with
// direction, stopping at a local (and, by convexity, global) maximum.
// The seed is updated so the next call — typically made with a very
// similar direction one tick later — starts near its answer.
func (c *Collider) hillClimb(direction mathf.Vec3) mathf.Vec3 {
	verts := c.Hull.Vertices
	current := c.seed
	if int(current) >= len(verts) {
		current = 0
	}
	best := verts[current].Dot(&direction)
	for {
		improved := false
		for _, n := range c.Hull.Neighbors[current] {
			d := verts[n].Dot(&direction)
			if d > best+mathf.Epsilon {
				best = d
				current = n
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	c.seed = current
	return verts[current]
}

// WorldAABB returns the world-space (min, max) axis-aligned bounding
// box of the collider given the owning body's world position and
// orientation, inflated by margin on every axis. Grounded on
// physics/shape.go's box.Aabb/sphere.Aabb (transformed basis-vector
// dot products for the box case).
func (c *Collider) WorldAABB(position mathf.Vec3, orientation mathf.Quat, margin float32) (min, max mathf.Vec3) {
	center := mathf.Vec3{}
	orientation.RotateVec(&center, &c.LocalCenter)
	center.Add(&center, &position)

	switch c.Kind {
	case Sphere:
		r := c.Radius + margin
		min = mathf.Vec3{X: center.X - r, Y: center.Y - r, Z: center.Z - r}
		max = mathf.Vec3{X: center.X + r, Y: center.Y + r, Z: center.Z + r}
		return min, max
	case Box:
		var rot mathf.Mat3
		orientation.ToMat3(&rot)
		xx, xy, xz := mathf.Abs(rot.M00), mathf.Abs(rot.M10), mathf.Abs(rot.M20)
		yx, yy, yz := mathf.Abs(rot.M01), mathf.Abs(rot.M11), mathf.Abs(rot.M21)
		zx, zy, zz := mathf.Abs(rot.M02), mathf.Abs(rot.M12), mathf.Abs(rot.M22)
		hx, hy, hz := c.HalfExtents.X+margin, c.HalfExtents.Y+margin, c.HalfExtents.Z+margin
		ex := hx*xx + hy*yx + hz*zx
		ey := hx*xy + hy*yy + hz*zy
		ez := hx*xz + hy*yz + hz*zz
		min = mathf.Vec3{X: center.X - ex, Y: center.Y - ey, Z: center.Z - ez}
		max = mathf.Vec3{X: center.X + ex, Y: center.Y + ey, Z: center.Z + ez}
		return min, max
	case ConvexHull:
		lo, hi := c.hullBounds()
		// Conservative: rotate all 8 corners of the local bounds and
		// take their extent, then translate and pad by margin.
		corners := [8]mathf.Vec3{
			{lo.X, lo.Y, lo.Z}, {lo.X, lo.Y, hi.Z}, {lo.X, hi.Y, lo.Z}, {lo.X, hi.Y, hi.Z},
			{hi.X, lo.Y, lo.Z}, {hi.X, lo.Y, hi.Z}, {hi.X, hi.Y, lo.Z}, {hi.X, hi.Y, hi.Z},
		}
		var rotated mathf.Vec3
		orientation.RotateVec(&rotated, &corners[0])
		min, max = rotated, rotated
		for _, corner := range corners[1:] {
			orientation.RotateVec(&rotated, &corner)
			min = mathf.Vec3{X: minf(min.X, rotated.X), Y: minf(min.Y, rotated.Y), Z: minf(min.Z, rotated.Z)}
			max = mathf.Vec3{X: maxf(max.X, rotated.X), Y: maxf(max.Y, rotated.Y), Z: maxf(max.Z, rotated.Z)}
		}
		min = mathf.Vec3{X: center.X + min.X - margin, Y: center.Y + min.Y - margin, Z: center.Z + min.Z - margin}
		max = mathf.Vec3{X: center.X + max.X + margin, Y: center.Y + max.Y + margin, Z: center.Z + max.Z + margin}
		return min, max
	}
	return center, center
}
