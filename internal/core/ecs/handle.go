package ecs

import (
	"fmt"

	"github.com/l1jgo/ecsreg/internal/core/typeid"
)

// Handle pairs an entity identifier with the Registry that issued it.
// It is a value with no lifecycle of its own: it stays usable after the
// entity is deallocated, and every query through it then reports absence.
//
// The mutating methods take component values as any and return the handle
// so calls chain:
//
//	reg.Allocate().Assign(Velocity{X: 1}, Sprite{Name: "ship"})
//
// Their component types must be registered first (Register[T]); typed
// access goes through the package functions Get, TryGet and Contains.
type Handle[E Identifier[E]] struct {
	id  E
	reg *Registry[E]
}

func (h Handle[E]) Entity() E              { return h.id }
func (h Handle[E]) Registry() *Registry[E] { return h.reg }

// Valid reports whether h still names a live entity.
func (h Handle[E]) Valid() bool { return h.reg.Valid(h) }

func (h Handle[E]) IsTombstone() bool { return h.id == Tombstone[E]() }

func (h Handle[E]) String() string {
	return fmt.Sprint(h.id)
}

// Assign adds each value whose type h does not already have.
func (h Handle[E]) Assign(values ...any) Handle[E] {
	if !h.Valid() {
		return h
	}
	for _, v := range values {
		h.reg.poolFor(v).assignAny(h, v)
	}
	return h
}

// AssignOrReplace stores each value, overwriting existing ones.
func (h Handle[E]) AssignOrReplace(values ...any) Handle[E] {
	if !h.Valid() {
		return h
	}
	for _, v := range values {
		h.reg.poolFor(v).assignOrReplaceAny(h, v)
	}
	return h
}

// Replace overwrites each value h already has; others are skipped.
func (h Handle[E]) Replace(values ...any) Handle[E] {
	if !h.Valid() {
		return h
	}
	for _, v := range values {
		h.reg.poolFor(v).replaceAny(h, v)
	}
	return h
}

// Emplace assigns the zero value of each listed component type.
func (h Handle[E]) Emplace(ids ...typeid.ID) Handle[E] {
	if !h.Valid() {
		return h
	}
	for _, id := range ids {
		if p := h.reg.poolByID(id); p != nil {
			p.assignAny(h, p.zero())
		}
	}
	return h
}

// Remove deletes each listed component type from h.
func (h Handle[E]) Remove(ids ...typeid.ID) Handle[E] {
	for _, id := range ids {
		if p := h.reg.poolByID(id); p != nil {
			p.remove(h)
		}
	}
	return h
}

// Has reports whether h has all listed component types.
func (h Handle[E]) Has(ids ...typeid.ID) bool {
	return h.reg.Has(h, ids...)
}

// Component returns a copy of the component with type id, if present.
func (h Handle[E]) Component(id typeid.ID) (any, bool) {
	p := h.reg.poolByID(id)
	if p == nil {
		return nil, false
	}
	return p.lookupAny(h.id)
}

// Deallocate is shorthand for h.Registry().Deallocate(h).
func (h Handle[E]) Deallocate() bool {
	return h.reg.Deallocate(h)
}
