package ecs

import "github.com/l1jgo/ecsreg/internal/core/event"

// ComponentAdded fires when an entity gains a component of type T.
type ComponentAdded[T any, E Identifier[E]] struct {
	Entity Handle[E]
	Value  T
}

// ComponentRemoved fires when an entity loses its T, including during
// Deallocate.
type ComponentRemoved[T any, E Identifier[E]] struct {
	Entity Handle[E]
}

// ComponentReplaced fires when an existing T is overwritten.
type ComponentReplaced[T any, E Identifier[E]] struct {
	Entity Handle[E]
	Value  T
}

// OnAdd subscribes fn to ComponentAdded[T] on r's bus.
func OnAdd[T any, E Identifier[E]](r *Registry[E], fn func(Handle[E], T)) {
	event.Subscribe(r.events, func(ev ComponentAdded[T, E]) { fn(ev.Entity, ev.Value) })
}

func OnRemove[T any, E Identifier[E]](r *Registry[E], fn func(Handle[E])) {
	event.Subscribe(r.events, func(ev ComponentRemoved[T, E]) { fn(ev.Entity) })
}

func OnReplace[T any, E Identifier[E]](r *Registry[E], fn func(Handle[E], T)) {
	event.Subscribe(r.events, func(ev ComponentReplaced[T, E]) { fn(ev.Entity, ev.Value) })
}
