package ecs

import "github.com/quadrocore/dynamics/errs"

// Store is a generic dense-array component store keyed by entity ID.
// It holds a sparse id->dense-index map plus the dense value and id
// slices side by side, and keeps the dense arrays compact by
// swap-erasing on Remove: the last element takes the removed slot and
// the sparse map entry for the displaced id is rewritten. This is the
// pattern gazed-vu uses for its body/simulation component managers
// (root body.go, simulation.go), generalized here to any component
// type T via Go generics instead of the teacher's one-struct-per-
// component duplication.
type Store[T any] struct {
	sparse map[ID]int
	dense  []T
	ids    []ID
}

// NewStore returns an empty component store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{sparse: make(map[ID]int)}
}

// Insert adds or replaces the component for id.
func (s *Store[T]) Insert(id ID, value T) {
	if idx, ok := s.sparse[id]; ok {
		s.dense[idx] = value
		return
	}
	s.sparse[id] = len(s.dense)
	s.dense = append(s.dense, value)
	s.ids = append(s.ids, id)
}

// Get returns a pointer to id's component and true, or nil and false if
// id has no component in this store.
func (s *Store[T]) Get(id ID) (*T, bool) {
	idx, ok := s.sparse[id]
	if !ok {
		return nil, false
	}
	return &s.dense[idx], true
}

// Has reports whether id has a component in this store.
func (s *Store[T]) Has(id ID) bool {
	_, ok := s.sparse[id]
	return ok
}

// Remove deletes id's component, swap-erasing with the last dense
// element and remapping the displaced id's index. Removing an id with
// no component is a Liveness error.
func (s *Store[T]) Remove(id ID) error {
	idx, ok := s.sparse[id]
	if !ok {
		return errs.New(errs.Liveness, 2, "remove: entity %d has no component in this store", id)
	}
	last := len(s.dense) - 1
	if idx != last {
		s.dense[idx] = s.dense[last]
		s.ids[idx] = s.ids[last]
		s.sparse[s.ids[idx]] = idx
	}
	s.dense = s.dense[:last]
	s.ids = s.ids[:last]
	delete(s.sparse, id)
	return nil
}

// Len returns the number of components currently stored.
func (s *Store[T]) Len() int { return len(s.dense) }

// Dense returns the backing dense slice of components, in no
// particular order relative to entity creation (swap-erase reorders
// it). Callers that need the id paired with each component should use
// IDs() alongside this, indexed identically.
func (s *Store[T]) Dense() []T { return s.dense }

// IDs returns the ids backing the dense slice, index-aligned with
// Dense().
func (s *Store[T]) IDs() []ID { return s.ids }

// Each calls fn for every (id, *component) pair currently stored.
func (s *Store[T]) Each(fn func(ID, *T)) {
	for i := range s.dense {
		fn(s.ids[i], &s.dense[i])
	}
}
