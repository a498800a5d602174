// Package collider implements the collider store: a tagged variant of
// {Box, Sphere, ConvexHull}, each referencing one rigid body and
// carrying a local-frame offset, plus the per-variant support function
// and inertia/AABB formulas narrow phase and the rigid-body store
// depend on. Grounded on gazed-vu's physics/shape.go (box/sphere
// variant split, Abox, per-shape Inertia/Aabb formulas) and
// physics/collider.go (convex-hull adjacency: vertex_to_neighbors,
// vertex_to_faces).
package collider

import (
	"github.com/quadrocore/dynamics/ecs"
	"github.com/quadrocore/dynamics/errs"
	"github.com/quadrocore/dynamics/mathf"
)

// Kind tags which variant a Collider holds. Spec section 9 replaces
// the teacher's (and the original C++'s) polymorphic Shape/Collider
// base class with this exhaustive tag.
type Kind int

const (
	Box Kind = iota
	Sphere
	ConvexHull
)

// Hull is the convex-hull variant's geometry: local-space vertices and
// the adjacency each vertex needs for hill-climbing the support
// function, built once at creation time (collider.go's
// vertex_to_neighbors in the teacher).
type Hull struct {
	Vertices  []mathf.Vec3
	Neighbors [][]uint32 // Neighbors[i] = indices of vertices adjacent to i.
}

// Collider is a tagged variant referencing exactly one rigid body.
type Collider struct {
	Kind Kind

	HalfExtents mathf.Vec3 // valid when Kind == Box.
	Radius      float32    // valid when Kind == Sphere.
	Hull        Hull       // valid when Kind == ConvexHull.

	BodyIndex   ecs.ID
	LocalCenter mathf.Vec3

	// seed caches the last support vertex found for ConvexHull, so the
	// next hill-climb (typically a very similar direction, one tick
	// later) starts close to its answer instead of from vertex 0.
	seed uint32
}

// NewBox returns a box collider with the given half-extents.
func NewBox(halfExtents mathf.Vec3, body ecs.ID, localCenter mathf.Vec3) (*Collider, error) {
	if halfExtents.X <= 0 || halfExtents.Y <= 0 || halfExtents.Z <= 0 {
		return nil, errs.New(errs.Validation, 20, "box half-extents must be positive, got %v", halfExtents)
	}
	return &Collider{Kind: Box, HalfExtents: halfExtents, BodyIndex: body, LocalCenter: localCenter}, nil
}

// NewSphere returns a sphere collider with the given radius.
func NewSphere(radius float32, body ecs.ID, localCenter mathf.Vec3) (*Collider, error) {
	if radius <= 0 {
		return nil, errs.New(errs.Validation, 21, "sphere radius must be positive, got %v", radius)
	}
	return &Collider{Kind: Sphere, Radius: radius, BodyIndex: body, LocalCenter: localCenter}, nil
}

// NewConvexHull returns a convex-hull collider from a vertex list and
// a triangle index list (triples of vertex indices). Vertex adjacency
// is derived once here so the support function can hill-climb.
func NewConvexHull(vertices []mathf.Vec3, triangles []uint32, body ecs.ID, localCenter mathf.Vec3) (*Collider, error) {
	if len(vertices) < 4 {
		return nil, errs.New(errs.Validation, 22, "convex hull needs at least 4 vertices, got %d", len(vertices))
	}
	if len(triangles)%3 != 0 {
		return nil, errs.New(errs.Validation, 23, "triangle index list length must be a multiple of 3, got %d", len(triangles))
	}
	neighbors := make([][]uint32, len(vertices))
	seen := make([]map[uint32]bool, len(vertices))
	for i := range seen {
		seen[i] = map[uint32]bool{}
	}
	addEdge := func(a, b uint32) {
		if !seen[a][b] {
			seen[a][b] = true
			neighbors[a] = append(neighbors[a], b)
		}
	}
	for i := 0; i+2 < len(triangles); i += 3 {
		a, b, c := triangles[i], triangles[i+1], triangles[i+2]
		addEdge(a, b)
		addEdge(b, a)
		addEdge(b, c)
		addEdge(c, b)
		addEdge(c, a)
		addEdge(a, c)
	}
	return &Collider{
		Kind:        ConvexHull,
		Hull:        Hull{Vertices: vertices, Neighbors: neighbors},
		BodyIndex:   body,
		LocalCenter: localCenter,
	}, nil
}

// Inertia returns the local-frame inverse inertia tensor for a body of
// the given mass carrying this collider, using the standard
// closed-form formulas for box and sphere (gazed-vu physics/shape.go).
// Convex hulls use the bounding box of their vertices as an
// approximation — the original engine does the same for arbitrary
// meshes absent an exact mass-property computation.
func (c *Collider) Inertia(mass float32) mathf.Mat3 {
	switch c.Kind {
	case Sphere:
		i := 0.4 * mass * c.Radius * c.Radius
		return mathf.Diag3(1/i, 1/i, 1/i)
	case Box:
		hx, hy, hz := c.HalfExtents.X, c.HalfExtents.Y, c.HalfExtents.Z
		lx2, ly2, lz2 := 4*hx*hx, 4*hy*hy, 4*hz*hz
		ix := mass / 12 * (ly2 + lz2)
		iy := mass / 12 * (lx2 + lz2)
		iz := mass / 12 * (lx2 + ly2)
		return mathf.Diag3(1/ix, 1/iy, 1/iz)
	case ConvexHull:
		min, max := c.hullBounds()
		ext := mathf.Vec3{}
		ext.Sub(&max, &min)
		hx, hy, hz := ext.X*0.5, ext.Y*0.5, ext.Z*0.5
		lx2, ly2, lz2 := 4*hx*hx, 4*hy*hy, 4*hz*hz
		ix := mass / 12 * (ly2 + lz2)
		iy := mass / 12 * (lx2 + lz2)
		iz := mass / 12 * (lx2 + ly2)
		return mathf.Diag3(1/ix, 1/iy, 1/iz)
	}
	return mathf.Identity3
}

func (c *Collider) hullBounds() (min, max mathf.Vec3) {
	min, max = c.Hull.Vertices[0], c.Hull.Vertices[0]
	for _, v := range c.Hull.Vertices[1:] {
		min = mathf.Vec3{X: minf(min.X, v.X), Y: minf(min.Y, v.Y), Z: minf(min.Z, v.Z)}
		max = mathf.Vec3{X: maxf(max.X, v.X), Y: maxf(max.Y, v.Y), Z: maxf(max.Z, v.Z)}
	}
	return min, max
}

func minf(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
func maxf(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// Store is the dense entity-keyed collection of colliders, one per
// collider entity. A collider's owning rigid body is tracked via
// BodyIndex, a lookup relation rather than ownership (spec section 3).
type Store = ecs.Store[Collider]

// NewStore returns an empty collider store.
func NewStore() *Store { return ecs.NewStore[Collider]() }
