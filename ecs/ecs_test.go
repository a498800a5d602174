package ecs

import "testing"

func TestCreateIsAlive(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	if !r.IsAlive(id) {
		t.Fatal("freshly created entity should be alive")
	}
	if id.Generation() != 0 {
		t.Fatalf("first use of an index should have generation 0, got %d", id.Generation())
	}
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	if err := r.Remove(id); err != nil {
		t.Fatalf("unexpected error removing live entity: %v", err)
	}
	if r.IsAlive(id) {
		t.Fatal("removed entity should not be alive")
	}
	if err := r.Remove(id); err == nil {
		t.Fatal("removing an already-removed entity should return a Liveness error")
	}
}

func TestFreeListThresholdDelaysReuse(t *testing.T) {
	r := NewRegistry()
	var ids []ID
	for i := 0; i < maxFree+10; i++ {
		ids = append(ids, r.Create())
	}
	for _, id := range ids[:maxFree] {
		r.Remove(id)
	}
	// Before the threshold is exceeded, new creates must not reuse a
	// just-freed index (stale handles would silently start matching).
	fresh := r.Create()
	for _, freed := range ids[:maxFree] {
		if fresh.Index() == freed.Index() {
			t.Fatalf("fresh id reused freed index %d with only %d entries queued", fresh.Index(), maxFree)
		}
	}
}

func TestEntityChurnScenario(t *testing.T) {
	// Mirrors spec scenario 6: create 1000, remove in reverse order,
	// create 1000 more; all liveness checks pass on live ids, all
	// checks on freed ids return a Liveness error.
	r := NewRegistry()
	const n = 1000
	ids := make([]ID, n)
	for i := 0; i < n; i++ {
		ids[i] = r.Create()
	}
	for i := n - 1; i >= 0; i-- {
		if err := r.Remove(ids[i]); err != nil {
			t.Fatalf("remove %d: %v", i, err)
		}
	}
	for i := 0; i < n; i++ {
		if r.IsAlive(ids[i]) {
			t.Fatalf("id %d should no longer be alive", ids[i])
		}
	}
	more := make([]ID, n)
	for i := 0; i < n; i++ {
		more[i] = r.Create()
	}
	for i := 0; i < n; i++ {
		if !r.IsAlive(more[i]) {
			t.Fatalf("freshly created id %d should be alive", more[i])
		}
	}
	if r.Len() != n {
		t.Fatalf("expected exactly %d alive entities, got %d", n, r.Len())
	}
}

func TestStoreSwapErase(t *testing.T) {
	r := NewRegistry()
	a, b, c := r.Create(), r.Create(), r.Create()
	s := NewStore[int]()
	s.Insert(a, 1)
	s.Insert(b, 2)
	s.Insert(c, 3)

	if err := s.Remove(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 components remaining, got %d", s.Len())
	}
	if s.Has(a) {
		t.Fatal("a should no longer have a component")
	}
	vb, ok := s.Get(b)
	if !ok || *vb != 2 {
		t.Fatalf("b's component should survive swap-erase unchanged, got %v ok=%v", vb, ok)
	}
	vc, ok := s.Get(c)
	if !ok || *vc != 3 {
		t.Fatalf("c's component should survive swap-erase (possibly relocated), got %v ok=%v", vc, ok)
	}
}

func TestStoreRemoveMissingIsLivenessError(t *testing.T) {
	r := NewRegistry()
	id := r.Create()
	s := NewStore[int]()
	if err := s.Remove(id); err == nil {
		t.Fatal("expected a Liveness error removing a component that was never inserted")
	}
}
