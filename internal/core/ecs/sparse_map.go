package ecs

import (
	"iter"
	"slices"
)

// SparseMap is a SparseSet with a value array kept in lockstep with the
// dense key array. Values live contiguously and are the fastest thing in
// the registry to iterate.
type SparseMap[E Identifier[E], V any] struct {
	sparse pager[E]
	packed []E
	values []V
}

// NewSparseMap creates an empty map. pageSize <= 0 selects DefaultPageSize.
func NewSparseMap[E Identifier[E], V any](pageSize int) *SparseMap[E, V] {
	return &SparseMap[E, V]{sparse: newPager[E](pageSize)}
}

func (m *SparseMap[E, V]) Len() int    { return len(m.packed) }
func (m *SparseMap[E, V]) Empty() bool { return len(m.packed) == 0 }
func (m *SparseMap[E, V]) Cap() int    { return cap(m.packed) }

func (m *SparseMap[E, V]) position(key E) (uint32, bool) {
	pos, ok := m.sparse.lookup(key)
	if !ok || pos >= uint32(len(m.packed)) || m.packed[pos] != key {
		return 0, false
	}
	return pos, true
}

func (m *SparseMap[E, V]) Contains(key E) bool {
	_, ok := m.position(key)
	return ok
}

// Get returns a pointer into the value array without checking that key is
// present. For an absent key it panics or returns another key's value;
// use Lookup when presence is uncertain.
func (m *SparseMap[E, V]) Get(key E) *V {
	page := m.sparse.page(key)
	return &m.values[m.sparse.pages[page][m.sparse.offset(key)].Index()]
}

// Lookup returns the value for key, or nil and false.
func (m *SparseMap[E, V]) Lookup(key E) (*V, bool) {
	pos, ok := m.position(key)
	if !ok {
		return nil, false
	}
	return &m.values[pos], true
}

// Insert adds key with value unless the key's index is already held.
// The first write wins; it reports whether the pair was added.
func (m *SparseMap[E, V]) Insert(key E, value V) bool {
	if m.sparse.occupied(key) {
		return false
	}
	m.push(key, value)
	return true
}

// InsertOrReplace stores value for key and reports whether an existing
// value was overwritten. A stale generation holding key's index is evicted.
func (m *SparseMap[E, V]) InsertOrReplace(key E, value V) bool {
	pos, ok := m.sparse.lookup(key)
	if !ok {
		m.push(key, value)
		return false
	}
	replaced := m.packed[pos] == key
	m.packed[pos] = key
	m.values[pos] = value
	return replaced
}

// Replace overwrites the value of a present key and reports whether it did.
func (m *SparseMap[E, V]) Replace(key E, value V) bool {
	pos, ok := m.position(key)
	if !ok {
		return false
	}
	m.values[pos] = value
	return true
}

func (m *SparseMap[E, V]) Remove(key E) bool {
	pos, ok := m.position(key)
	if !ok {
		return false
	}
	m.removeAt(key, pos)
	return true
}

// RemoveFunc removes key only if match accepts its stored value.
func (m *SparseMap[E, V]) RemoveFunc(key E, match func(V) bool) bool {
	pos, ok := m.position(key)
	if !ok || !match(m.values[pos]) {
		return false
	}
	m.removeAt(key, pos)
	return true
}

func (m *SparseMap[E, V]) push(key E, value V) {
	m.sparse.point(key, uint32(len(m.packed)))
	m.packed = append(m.packed, key)
	m.values = append(m.values, value)
}

// removeAt swaps the last pair into pos on both arrays, then pops.
func (m *SparseMap[E, V]) removeAt(key E, pos uint32) {
	last := len(m.packed) - 1
	moved := m.packed[last]
	m.packed[pos] = moved
	m.values[pos] = m.values[last]

	var zero V
	m.values[last] = zero
	m.packed = m.packed[:last]
	m.values = m.values[:last]

	if moved != key {
		m.sparse.point(moved, pos)
	}
	m.sparse.reset(key)
}

func (m *SparseMap[E, V]) Reserve(count int) {
	m.sparse.reserve(count)
	if n := count - len(m.packed); n > 0 {
		m.packed = slices.Grow(m.packed, n)
		m.values = slices.Grow(m.values, n)
	}
}

func (m *SparseMap[E, V]) Clear() {
	m.sparse.clear()
	clear(m.values)
	m.packed = m.packed[:0]
	m.values = m.values[:0]
}

func (m *SparseMap[E, V]) ShrinkToFit() {
	if m.Empty() {
		m.sparse.clear()
	}
	m.packed = slices.Clip(m.packed)
	m.values = slices.Clip(m.values)
}

// Keys returns the dense key array. Invalidated by the next mutation.
func (m *SparseMap[E, V]) Keys() []E {
	return m.packed
}

// Values returns the dense value array; Values()[i] belongs to Keys()[i].
// Invalidated by the next mutation.
func (m *SparseMap[E, V]) Values() []V {
	return m.values
}

// All yields each key with a pointer to its value, in dense order.
func (m *SparseMap[E, V]) All() iter.Seq2[E, *V] {
	return func(yield func(E, *V) bool) {
		for i := range m.packed {
			if !yield(m.packed[i], &m.values[i]) {
				return
			}
		}
	}
}

func (m *SparseMap[E, V]) Each(fn func(E, *V)) {
	for i := range m.packed {
		fn(m.packed[i], &m.values[i])
	}
}

// ContainsValue reports whether key is present with a value equal to value.
func ContainsValue[E Identifier[E], V comparable](m *SparseMap[E, V], key E, value V) bool {
	v, ok := m.Lookup(key)
	return ok && *v == value
}

// RemoveValue removes key only if its stored value equals value.
func RemoveValue[E Identifier[E], V comparable](m *SparseMap[E, V], key E, value V) bool {
	return m.RemoveFunc(key, func(v V) bool { return v == value })
}

// EqualMaps reports whether a and b map the same keys to equal values.
// The comparison walks a's keys, so dense order does not matter.
func EqualMaps[E Identifier[E], V comparable](a, b *SparseMap[E, V]) bool {
	return EqualMapsFunc(a, b, func(x, y V) bool { return x == y })
}

func EqualMapsFunc[E Identifier[E], V any](a, b *SparseMap[E, V], eq func(V, V) bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i, key := range a.packed {
		v, ok := b.Lookup(key)
		if !ok || !eq(a.values[i], *v) {
			return false
		}
	}
	return true
}
