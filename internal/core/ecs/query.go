package ecs

import (
	"iter"

	"github.com/l1jgo/ecsreg/internal/core/typeid"
)

// ComponentView exposes the dense value array of one component type.
// It is the fastest way to touch every T and carries no entity filter.
type ComponentView[E Identifier[E], T any] struct {
	data *SparseMap[E, T]
}

// ComponentViewOf returns the view over all T, creating T's pool if needed.
func ComponentViewOf[T any, E Identifier[E]](r *Registry[E]) ComponentView[E, T] {
	return ComponentView[E, T]{data: poolOf[T](r).data}
}

func (v ComponentView[E, T]) Len() int { return v.data.Len() }

// Values returns the dense array itself; writes go straight to storage.
func (v ComponentView[E, T]) Values() []T { return v.data.Values() }

func (v ComponentView[E, T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		values := v.data.Values()
		for i := range values {
			if !yield(&values[i]) {
				return
			}
		}
	}
}

// EntityView walks live entities in ascending index order, skipping free
// slots by following the free list, and optionally filtering on component
// types. Nothing is cached: each traversal starts over from the registry's
// current state.
type EntityView[E Identifier[E]] struct {
	reg    *Registry[E]
	filter []typeid.ID
}

// EntityView returns a view over entities having all of ids.
// With no ids every live entity is yielded.
func (r *Registry[E]) EntityView(ids ...typeid.ID) EntityView[E] {
	return EntityView[E]{reg: r, filter: ids}
}

func (v EntityView[E]) All() iter.Seq[Handle[E]] {
	return func(yield func(Handle[E]) bool) {
		r := v.reg
		nextFree := r.freeHead
		for idx := uint32(0); idx < uint32(len(r.entities)); idx++ {
			if idx == nextFree {
				nextFree = r.entities[idx].Index()
				continue
			}
			e := r.entities[idx]
			if e.Index() != idx {
				continue // retired
			}
			h := Handle[E]{id: e, reg: r}
			if len(v.filter) > 0 && !r.Has(h, v.filter...) {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}

func (v EntityView[E]) Each(fn func(Handle[E])) {
	for h := range v.All() {
		fn(h)
	}
}

// Handles collects the current matches.
func (v EntityView[E]) Handles() []Handle[E] {
	var out []Handle[E]
	for h := range v.All() {
		out = append(out, h)
	}
	return out
}

func (v EntityView[E]) Count() int {
	n := 0
	for range v.All() {
		n++
	}
	return n
}

// Each1 calls fn for every entity with an A, in ascending index order.
func Each1[A any, E Identifier[E]](r *Registry[E], fn func(Handle[E], *A)) {
	pa, ok := findPool[A](r)
	if !ok {
		return
	}
	for h := range r.EntityView(pa.id).All() {
		fn(h, pa.data.Get(h.id))
	}
}

// Each2 iterates over entities that have both component A and B.
// It walks the smaller pool's dense keys and probes the other, so order
// follows that pool rather than entity index.
func Each2[A, B any, E Identifier[E]](r *Registry[E], fn func(Handle[E], *A, *B)) {
	pa, okA := findPool[A](r)
	pb, okB := findPool[B](r)
	if !okA || !okB {
		return
	}
	if pa.size() <= pb.size() {
		for e, a := range pa.data.All() {
			if b, ok := pb.data.Lookup(e); ok {
				fn(Handle[E]{id: e, reg: r}, a, b)
			}
		}
		return
	}
	for e, b := range pb.data.All() {
		if a, ok := pa.data.Lookup(e); ok {
			fn(Handle[E]{id: e, reg: r}, a, b)
		}
	}
}

// Each3 iterates over entities that have components A, B, and C.
func Each3[A, B, C any, E Identifier[E]](r *Registry[E], fn func(Handle[E], *A, *B, *C)) {
	pa, okA := findPool[A](r)
	pb, okB := findPool[B](r)
	pc, okC := findPool[C](r)
	if !okA || !okB || !okC {
		return
	}

	// Iterate the smallest store
	keys := pa.data.Keys()
	if pb.size() < len(keys) {
		keys = pb.data.Keys()
	}
	if pc.size() < len(keys) {
		keys = pc.data.Keys()
	}
	for _, e := range keys {
		a, ok := pa.data.Lookup(e)
		if !ok {
			continue
		}
		b, ok := pb.data.Lookup(e)
		if !ok {
			continue
		}
		c, ok := pc.data.Lookup(e)
		if !ok {
			continue
		}
		fn(Handle[E]{id: e, reg: r}, a, b, c)
	}
}
