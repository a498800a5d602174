package broadphase

import (
	"testing"

	"github.com/quadrocore/dynamics/mathf"
)

func box(cx, cy, cz, h float32) (min, max mathf.Vec3) {
	return mathf.V3(cx-h, cy-h, cz-h), mathf.V3(cx+h, cy+h, cz+h)
}

func TestInsertAndValid(t *testing.T) {
	tree := New(0.1)
	var ids []NodeID
	for i := float32(0); i < 20; i++ {
		min, max := box(i*2, 0, 0, 0.5)
		ids = append(ids, tree.Insert(min, max, Leaf{Index: uint32(i)}))
	}
	if !tree.Valid() {
		t.Fatal("tree should be structurally valid after inserts")
	}
	if tree.Height() < 0 {
		t.Fatal("non-empty tree should have height >= 0")
	}
}

func TestRemoveKeepsValid(t *testing.T) {
	tree := New(0.1)
	var ids []NodeID
	for i := float32(0); i < 10; i++ {
		min, max := box(i, i*0.5, 0, 0.5)
		ids = append(ids, tree.Insert(min, max, Leaf{Index: uint32(i)}))
	}
	for _, id := range ids[:5] {
		tree.Remove(id)
		if !tree.Valid() {
			t.Fatalf("tree should remain valid after removing node %d", id)
		}
	}
}

func TestUpdateNoOpWhenContained(t *testing.T) {
	tree := New(1.0) // generous margin.
	min, max := box(0, 0, 0, 0.1)
	id := tree.Insert(min, max, Leaf{Index: 1})
	// small move still inside the fat aabb.
	changed := tree.Update(id, mathf.V3(0.05, 0, 0), mathf.V3(0.25, 0.1, 0.1))
	if changed {
		t.Fatal("expected update to be a no-op when new tight AABB fits in the fat AABB")
	}
}

func TestUpdateReinsertsWhenOverflowing(t *testing.T) {
	tree := New(0.1)
	min, max := box(0, 0, 0, 0.1)
	id := tree.Insert(min, max, Leaf{Index: 1})
	changed := tree.Update(id, mathf.V3(100, 100, 100), mathf.V3(100.2, 100.2, 100.2))
	if !changed {
		t.Fatal("expected update to reinsert when the object moved far away")
	}
	if !tree.Valid() {
		t.Fatal("tree should remain valid after reinsertion")
	}
}

func TestPairsFindsOverlapWithoutDuplicates(t *testing.T) {
	tree := New(0.05)
	a := tree.Insert(mathf.V3(0, 0, 0), mathf.V3(1, 1, 1), Leaf{Index: 1})
	b := tree.Insert(mathf.V3(0.5, 0.5, 0.5), mathf.V3(1.5, 1.5, 1.5), Leaf{Index: 2})
	tree.Insert(mathf.V3(100, 100, 100), mathf.V3(101, 101, 101), Leaf{Index: 3}) // far away.

	pairs := tree.Pairs()
	if len(pairs) != 1 {
		t.Fatalf("expected exactly 1 overlapping pair, got %d: %v", len(pairs), pairs)
	}
	p := pairs[0]
	if !((p.A == a && p.B == b) || (p.A == b && p.B == a)) {
		t.Fatalf("expected the overlapping pair to be (a,b), got %v", p)
	}
}

func TestQueryReturnsOverlapping(t *testing.T) {
	tree := New(0.05)
	tree.Insert(mathf.V3(0, 0, 0), mathf.V3(1, 1, 1), Leaf{Index: 1})
	tree.Insert(mathf.V3(50, 50, 50), mathf.V3(51, 51, 51), Leaf{Index: 2})

	results := tree.Query(mathf.V3(-1, -1, -1), mathf.V3(2, 2, 2))
	if len(results) != 1 || results[0].Index != 1 {
		t.Fatalf("expected query to find only leaf 1, got %v", results)
	}
}

func TestRaycastHitsNearest(t *testing.T) {
	tree := New(0.05)
	tree.Insert(mathf.V3(4, -0.5, -0.5), mathf.V3(5, 0.5, 0.5), Leaf{Index: 1})
	tree.Insert(mathf.V3(9, -0.5, -0.5), mathf.V3(10, 0.5, 0.5), Leaf{Index: 2})

	hit, ok := tree.Raycast(mathf.V3(0, 0, 0), mathf.V3(1, 0, 0))
	if !ok {
		t.Fatal("expected a hit")
	}
	if hit.Leaf.Index != 1 {
		t.Fatalf("expected nearest hit to be leaf 1, got %v", hit.Leaf)
	}
}

func TestRaycastMisses(t *testing.T) {
	tree := New(0.05)
	tree.Insert(mathf.V3(4, 10, 10), mathf.V3(5, 11, 11), Leaf{Index: 1})
	_, ok := tree.Raycast(mathf.V3(0, 0, 0), mathf.V3(1, 0, 0))
	if ok {
		t.Fatal("expected no hit for a box well off the ray's path")
	}
}
