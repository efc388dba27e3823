package ecs

import (
	"reflect"

	"github.com/l1jgo/ecsreg/internal/core/event"
	"github.com/l1jgo/ecsreg/internal/core/typeid"
)

// componentPool is implemented by every component store so the Registry
// can hold heterogeneous SparseMaps in one slice and bulk-remove an
// entity's data on deallocate.
type componentPool[E Identifier[E]] interface {
	componentType() reflect.Type
	contains(e E) bool
	remove(h Handle[E]) bool
	size() int
	zero() any
	lookupAny(e E) (any, bool)
	assignAny(h Handle[E], v any) bool
	assignOrReplaceAny(h Handle[E], v any) bool
	replaceAny(h Handle[E], v any) bool
	release()
}

// pool is the one concrete componentPool, generic over the component type.
// It emits lifecycle events only when the underlying map changed.
type pool[E Identifier[E], T any] struct {
	id   typeid.ID
	data *SparseMap[E, T]
	bus  *event.Bus
}

func newPool[E Identifier[E], T any](id typeid.ID, pageSize int, bus *event.Bus) *pool[E, T] {
	return &pool[E, T]{
		id:   id,
		data: NewSparseMap[E, T](pageSize),
		bus:  bus,
	}
}

func (p *pool[E, T]) componentType() reflect.Type { return reflect.TypeFor[T]() }
func (p *pool[E, T]) contains(e E) bool           { return p.data.Contains(e) }
func (p *pool[E, T]) size() int                   { return p.data.Len() }
func (p *pool[E, T]) release()                    { p.data.Clear() }

func (p *pool[E, T]) zero() any {
	var v T
	return v
}

func (p *pool[E, T]) lookupAny(e E) (any, bool) {
	v, ok := p.data.Lookup(e)
	if !ok {
		return nil, false
	}
	return *v, true
}

func (p *pool[E, T]) assign(h Handle[E], v T) bool {
	if !p.data.Insert(h.id, v) {
		return false
	}
	event.Emit(p.bus, ComponentAdded[T, E]{Entity: h, Value: v})
	return true
}

func (p *pool[E, T]) assignOrReplace(h Handle[E], v T) bool {
	if p.data.InsertOrReplace(h.id, v) {
		event.Emit(p.bus, ComponentReplaced[T, E]{Entity: h, Value: v})
		return true
	}
	event.Emit(p.bus, ComponentAdded[T, E]{Entity: h, Value: v})
	return false
}

func (p *pool[E, T]) replace(h Handle[E], v T) bool {
	if !p.data.Replace(h.id, v) {
		return false
	}
	event.Emit(p.bus, ComponentReplaced[T, E]{Entity: h, Value: v})
	return true
}

func (p *pool[E, T]) remove(h Handle[E]) bool {
	if !p.data.Remove(h.id) {
		return false
	}
	event.Emit(p.bus, ComponentRemoved[T, E]{Entity: h})
	return true
}

func (p *pool[E, T]) assignAny(h Handle[E], v any) bool {
	return p.assign(h, v.(T))
}

func (p *pool[E, T]) assignOrReplaceAny(h Handle[E], v any) bool {
	return p.assignOrReplace(h, v.(T))
}

func (p *pool[E, T]) replaceAny(h Handle[E], v any) bool {
	return p.replace(h, v.(T))
}
