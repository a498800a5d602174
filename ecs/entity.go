// Package ecs implements the generational entity registry: a packed
// 32-bit id (generation + index), a free list that only recycles
// indices once a threshold of deleted entities has built up, and a
// generic dense-array component store that keeps itself compact via
// swap-erase.
package ecs

import "github.com/quadrocore/dynamics/errs"

// Bit layout for the packed entity id: an index field in the low bits
// and a generation field in the high bits. This mirrors the teacher's
// idBits/edBits split (entity.go, eid.go).
const (
	idBits = 20
	edBits = 32 - idBits

	idMask = 1<<idBits - 1
	edMask = 1<<edBits - 1

	// maxFree is the minimum number of queued free indices before an
	// index is eligible for reuse. This delays reuse long enough that
	// stale handles are very unlikely to collide with a freshly
	// recycled id carrying a wrapped-around generation.
	maxFree = 1 << (edBits - 1)

	// maxGeneration is the last generation value before an index is
	// retired permanently instead of being recycled.
	maxGeneration = edMask
)

// ID is a generational entity handle: an index into the registry's
// per-component arrays plus a generation that must match the
// generation stored at that index for the handle to be considered
// live.
type ID uint32

// Index returns the index portion of id.
func (id ID) Index() uint32 { return uint32(id) & idMask }

// Generation returns the generation portion of id.
func (id ID) Generation() uint32 { return uint32(id) >> idBits }

func pack(index, generation uint32) ID {
	return ID(generation<<idBits | (index & idMask))
}

// Registry owns entity generations and the free-index queue. It does
// not itself own component data — component Stores are created
// separately and keyed by the same ID.
type Registry struct {
	generations []uint32
	retired     []bool
	free        []uint32
	alive       int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Create allocates a new entity id, reusing a freed index from the
// free queue only once that queue holds more than maxFree entries
// (otherwise a fresh index is appended with generation zero).
func (r *Registry) Create() ID {
	if len(r.free) > maxFree {
		index := r.free[0]
		r.free = r.free[1:]
		r.alive++
		return pack(index, r.generations[index])
	}
	index := uint32(len(r.generations))
	r.generations = append(r.generations, 0)
	r.retired = append(r.retired, false)
	r.alive++
	return pack(index, 0)
}

// IsAlive reports whether id's index is in range, not retired, and its
// generation matches the one currently stored at that index.
func (r *Registry) IsAlive(id ID) bool {
	idx := id.Index()
	if int(idx) >= len(r.generations) {
		return false
	}
	if r.retired[idx] {
		return false
	}
	return r.generations[idx] == id.Generation()
}

// Remove invalidates id. It is an error (Liveness) to remove an id that
// is not currently alive. The index's generation is bumped (or the
// index retired permanently, if the generation has saturated) and, if
// not retired, queued for eventual reuse.
func (r *Registry) Remove(id ID) error {
	if !r.IsAlive(id) {
		return errs.New(errs.Liveness, 1, "remove: entity %d is not alive", id)
	}
	idx := id.Index()
	if r.generations[idx] >= maxGeneration {
		r.retired[idx] = true
	} else {
		r.generations[idx]++
		r.free = append(r.free, idx)
	}
	r.alive--
	return nil
}

// ActiveEntities returns the ordered sequence of currently-alive ids,
// ordered by index.
func (r *Registry) ActiveEntities() []ID {
	out := make([]ID, 0, r.alive)
	for idx, gen := range r.generations {
		if r.retired[idx] {
			continue
		}
		// An index is alive iff it is not queued in the free list; we
		// track liveness implicitly via generation + a retired flag, so
		// scan the free list once to build a membership set.
		out = append(out, pack(uint32(idx), gen))
	}
	return r.liveOnly(out)
}

func (r *Registry) liveOnly(candidates []ID) []ID {
	freeSet := make(map[uint32]bool, len(r.free))
	for _, idx := range r.free {
		freeSet[idx] = true
	}
	out := candidates[:0]
	for _, id := range candidates {
		if !freeSet[id.Index()] {
			out = append(out, id)
		}
	}
	return out
}

// Len returns the number of currently-alive entities.
func (r *Registry) Len() int { return r.alive }
