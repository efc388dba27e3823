package typeid

import "reflect"

// ID is a small sequential integer naming one Go type within a Table.
type ID uint32

// None marks an unassigned slot.
const None ID = ^ID(0)

// Table assigns sequential IDs to Go types in first-seen order.
// Each registry and event bus owns its own Table, so two registries in one
// process never share or race on IDs. Not safe for concurrent use.
type Table struct {
	ids   map[reflect.Type]ID
	types []reflect.Type
}

func New() *Table {
	return &Table{
		ids:   make(map[reflect.Type]ID, 32),
		types: make([]reflect.Type, 0, 32),
	}
}

// Of returns the ID of T, assigning the next free ID on first use.
func Of[T any](t *Table) ID {
	return t.assign(reflect.TypeFor[T]())
}

// Lookup returns the ID of T without assigning one.
func Lookup[T any](t *Table) (ID, bool) {
	return t.LookupType(reflect.TypeFor[T]())
}

// LookupType returns the ID already assigned to rt.
func (t *Table) LookupType(rt reflect.Type) (ID, bool) {
	id, ok := t.ids[rt]
	return id, ok
}

// Type returns the Go type behind id, or nil if id was never assigned.
func (t *Table) Type(id ID) reflect.Type {
	if int(id) >= len(t.types) {
		return nil
	}
	return t.types[id]
}

// Len returns the number of assigned IDs.
func (t *Table) Len() int {
	return len(t.types)
}

func (t *Table) assign(rt reflect.Type) ID {
	if id, ok := t.ids[rt]; ok {
		return id
	}
	id := ID(len(t.types))
	t.ids[rt] = id
	t.types = append(t.types, rt)
	return id
}
