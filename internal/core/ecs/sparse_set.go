package ecs

import (
	"iter"
	"slices"
)

// SparseSet is a paged set of entity identifiers with O(1) insert, remove
// and membership. Iteration follows the dense array, which is insertion
// order perturbed by swap-and-pop removals, not identifier order.
//
// Slots are keyed by entity index: while a key occupies an index, inserting
// another generation of the same index is a no-op.
type SparseSet[E Identifier[E]] struct {
	sparse pager[E]
	packed []E
}

// NewSparseSet creates an empty set. pageSize <= 0 selects DefaultPageSize.
func NewSparseSet[E Identifier[E]](pageSize int) *SparseSet[E] {
	return &SparseSet[E]{sparse: newPager[E](pageSize)}
}

func (s *SparseSet[E]) Len() int    { return len(s.packed) }
func (s *SparseSet[E]) Empty() bool { return len(s.packed) == 0 }
func (s *SparseSet[E]) Cap() int    { return cap(s.packed) }

// Contains checks the trampoline and that the dense slot holds exactly e,
// so a stale generation of a reused index is reported absent.
func (s *SparseSet[E]) Contains(e E) bool {
	pos, ok := s.sparse.lookup(e)
	return ok && pos < uint32(len(s.packed)) && s.packed[pos] == e
}

// Insert adds e and reports whether it was added.
func (s *SparseSet[E]) Insert(e E) bool {
	if s.sparse.occupied(e) {
		return false
	}
	s.sparse.point(e, uint32(len(s.packed)))
	s.packed = append(s.packed, e)
	return true
}

// Remove deletes e by moving the last dense element into its slot.
func (s *SparseSet[E]) Remove(e E) bool {
	if !s.Contains(e) {
		return false
	}
	pos, _ := s.sparse.lookup(e)
	last := len(s.packed) - 1
	moved := s.packed[last]
	s.packed[pos] = moved
	s.packed = s.packed[:last]
	if moved != e {
		s.sparse.point(moved, pos)
	}
	s.sparse.reset(e)
	return true
}

// Reserve pre-allocates pages and dense capacity for count indices.
func (s *SparseSet[E]) Reserve(count int) {
	s.sparse.reserve(count)
	if n := count - len(s.packed); n > 0 {
		s.packed = slices.Grow(s.packed, n)
	}
}

func (s *SparseSet[E]) Clear() {
	s.sparse.clear()
	s.packed = s.packed[:0]
}

// ShrinkToFit releases spare dense capacity, and all pages when empty.
func (s *SparseSet[E]) ShrinkToFit() {
	if s.Empty() {
		s.sparse.clear()
	}
	s.packed = slices.Clip(s.packed)
}

// Keys returns the dense array. It is invalidated by the next mutation.
func (s *SparseSet[E]) Keys() []E {
	return s.packed
}

// All yields the members in dense order.
func (s *SparseSet[E]) All() iter.Seq[E] {
	return func(yield func(E) bool) {
		for _, e := range s.packed {
			if !yield(e) {
				return
			}
		}
	}
}

// Equal reports whether both sets hold the same members, in any order.
func (s *SparseSet[E]) Equal(other *SparseSet[E]) bool {
	if s.Len() != other.Len() {
		return false
	}
	for _, e := range s.packed {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}
