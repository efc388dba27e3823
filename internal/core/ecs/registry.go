package ecs

import (
	"fmt"
	"reflect"

	"github.com/l1jgo/ecsreg/internal/core/event"
	"github.com/l1jgo/ecsreg/internal/core/typeid"
	"go.uber.org/zap"
)

// Options configures a Registry. Zero values select defaults.
type Options struct {
	PageSize        int         // trampolines per sparse page, default DefaultPageSize
	InitialCapacity int         // entity slots reserved up front
	Logger          *zap.Logger // nil means no logging
	Events          *event.Bus  // nil creates a private bus
}

// Registry owns the entity table, one pool per component type and the
// event bus that reports component lifecycle changes.
//
// The entity table doubles as the free list: a live slot at index i holds
// (i, generation); a free slot holds (next free index, generation to hand
// out on reuse). The list is kept in ascending index order so entity views
// can skip holes with a single forward cursor.
//
// Single-goroutine access only. Handles, views and component pointers are
// invalidated by any mutation that grows or compacts storage.
type Registry[E Identifier[E]] struct {
	types    *typeid.Table
	pools    []componentPool[E] // indexed by typeid.ID; nil means no pool yet
	entities []E
	freeHead uint32
	active   int
	retired  int
	pageSize int
	events   *event.Bus
	pending  []Handle[E]
	log      *zap.Logger
}

func NewRegistry[E Identifier[E]](opts Options) *Registry[E] {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Events == nil {
		opts.Events = event.NewBus(opts.Logger)
	}
	r := &Registry[E]{
		types:    typeid.New(),
		pools:    make([]componentPool[E], 0, 16),
		entities: make([]E, 0, max(opts.InitialCapacity, 0)),
		freeHead: maxIndex[E](),
		pageSize: opts.PageSize,
		events:   opts.Events,
		pending:  make([]Handle[E], 0, 64),
		log:      opts.Logger,
	}
	Register[Transform](r)
	Register[Relationship[E]](r)
	return r
}

// Register creates the pool for T if needed and returns T's type ID.
// Types used only through the type-erased Handle API must be registered
// before first use; the generic functions register on demand.
func Register[T any, E Identifier[E]](r *Registry[E]) typeid.ID {
	poolOf[T](r)
	id, _ := typeid.Lookup[T](r.types)
	return id
}

// TypeOf is an alias of Register, read better at filter call sites.
func TypeOf[T any, E Identifier[E]](r *Registry[E]) typeid.ID {
	return Register[T](r)
}

func poolOf[T any, E Identifier[E]](r *Registry[E]) *pool[E, T] {
	id := typeid.Of[T](r.types)
	for int(id) >= len(r.pools) {
		r.pools = append(r.pools, nil)
	}
	if r.pools[id] == nil {
		r.pools[id] = newPool[E, T](id, r.pageSize, r.events)
		r.log.Debug("component pool created",
			zap.Stringer("type", reflect.TypeFor[T]()),
			zap.Uint32("type_id", uint32(id)))
	}
	return r.pools[id].(*pool[E, T])
}

// findPool returns T's pool without creating it.
func findPool[T any, E Identifier[E]](r *Registry[E]) (*pool[E, T], bool) {
	id, ok := typeid.Lookup[T](r.types)
	if !ok || int(id) >= len(r.pools) || r.pools[id] == nil {
		return nil, false
	}
	return r.pools[id].(*pool[E, T]), true
}

// poolFor resolves the pool of a dynamic component value.
func (r *Registry[E]) poolFor(v any) componentPool[E] {
	rt := reflect.TypeOf(v)
	id, ok := r.types.LookupType(rt)
	if !ok || int(id) >= len(r.pools) || r.pools[id] == nil {
		panic(fmt.Sprintf("ecs: component type %v is not registered", rt))
	}
	return r.pools[id]
}

func (r *Registry[E]) poolByID(id typeid.ID) componentPool[E] {
	if int(id) >= len(r.pools) {
		return nil
	}
	return r.pools[id]
}

// Active returns the number of live entities.
func (r *Registry[E]) Active() int { return r.active }

// Allocated returns the number of entity slots ever created, live or free.
func (r *Registry[E]) Allocated() int { return len(r.entities) }

func (r *Registry[E]) Capacity() int { return cap(r.entities) }

// Retired returns the number of slots withdrawn after their generation
// counter ran out.
func (r *Registry[E]) Retired() int { return r.retired }

// Pools returns the number of constructed component pools.
func (r *Registry[E]) Pools() int {
	n := 0
	for _, p := range r.pools {
		if p != nil {
			n++
		}
	}
	return n
}

func (r *Registry[E]) Events() *event.Bus { return r.events }

// Handle wraps a raw identifier, for example one decoded with FromType.
func (r *Registry[E]) Handle(e E) Handle[E] {
	return Handle[E]{id: e, reg: r}
}

// Valid reports whether h names a live entity of this registry with the
// current generation of its slot.
func (r *Registry[E]) Valid(h Handle[E]) bool {
	if r == nil || h.reg != r {
		return false
	}
	idx := h.id.Index()
	return idx < uint32(len(r.entities)) && r.entities[idx] == h.id
}

// Allocate creates an entity, reusing the lowest free index if any, and
// assigns it an identity Transform.
func (r *Registry[E]) Allocate() Handle[E] {
	var zero E
	var id E
	if r.freeHead == maxIndex[E]() {
		idx := uint32(len(r.entities))
		if idx >= maxIndex[E]() {
			r.log.Error("entity index space exhausted", zap.Uint32("max_index", maxIndex[E]()))
			panic("ecs: entity index space exhausted")
		}
		id = zero.With(idx, 0)
		r.entities = append(r.entities, id)
	} else {
		idx := r.freeHead
		slot := r.entities[idx]
		r.freeHead = slot.Index()
		id = zero.With(idx, slot.Generation())
		r.entities[idx] = id
	}
	r.active++

	h := Handle[E]{id: id, reg: r}
	Assign(h, NewTransform())
	return h
}

// Deallocate removes every component of h, returns its index to the free
// list and bumps the slot generation so h and its copies go stale. A slot
// whose generation cannot grow any further is retired instead of reused.
// Stale or foreign handles are ignored; it reports whether h was live.
func (r *Registry[E]) Deallocate(h Handle[E]) bool {
	if !r.Valid(h) {
		r.log.Debug("deallocate ignored for invalid handle", zap.Stringer("entity", h))
		return false
	}
	r.unlink(h)
	for _, p := range r.pools {
		if p != nil {
			p.remove(h)
		}
	}
	r.active--
	gen := h.id.Generation()
	if gen == maxGeneration[E]() {
		r.retire(h.id.Index())
		return true
	}
	r.release(h.id.Index(), gen+1)
	return true
}

// retire takes idx out of circulation once its generation is exhausted, so
// no later identifier can collide with a handle issued for that slot.
func (r *Registry[E]) retire(idx uint32) {
	r.entities[idx] = Tombstone[E]()
	r.retired++
	r.log.Debug("entity slot retired", zap.Uint32("index", idx))
}

// release threads idx into the free list in ascending position.
func (r *Registry[E]) release(idx, generation uint32) {
	var zero E
	if r.freeHead == maxIndex[E]() || idx < r.freeHead {
		r.entities[idx] = zero.With(r.freeHead, generation)
		r.freeHead = idx
		return
	}
	prev := r.freeHead
	for {
		next := r.entities[prev].Index()
		if next == maxIndex[E]() || idx < next {
			r.entities[idx] = zero.With(next, generation)
			r.entities[prev] = zero.With(idx, r.entities[prev].Generation())
			return
		}
		prev = next
	}
}

// At converts a raw slot index to a handle. Out-of-range or free slots
// yield a tombstone handle.
func (r *Registry[E]) At(idx int) Handle[E] {
	if idx >= 0 && idx < len(r.entities) {
		if e := r.entities[idx]; e.Index() == uint32(idx) {
			return Handle[E]{id: e, reg: r}
		}
	}
	return Handle[E]{id: Tombstone[E](), reg: r}
}

// Has reports whether h has every listed component type. It stops at the
// first missing type; with no types it reports true.
func (r *Registry[E]) Has(h Handle[E], ids ...typeid.ID) bool {
	for _, id := range ids {
		p := r.poolByID(id)
		if p == nil || !p.contains(h.id) {
			return false
		}
	}
	return true
}

// Defer queues h for deallocation at the next Flush. Use it to destroy
// entities while a view is being iterated.
func (r *Registry[E]) Defer(h Handle[E]) {
	r.pending = append(r.pending, h)
}

// Flush deallocates all deferred handles, including those deferred by
// event handlers during the flush, and returns how many were live.
func (r *Registry[E]) Flush() int {
	n := 0
	// Removal handlers may Defer more handles; drain until empty.
	for i := 0; i < len(r.pending); i++ {
		if r.Deallocate(r.pending[i]) {
			n++
		}
	}
	clear(r.pending)
	r.pending = r.pending[:0]
	return n
}

// Pending returns the number of deferred deallocations.
func (r *Registry[E]) Pending() int { return len(r.pending) }

// Clear drops every entity and component without emitting events.
// Generations restart at zero, so all outstanding handles must be discarded.
func (r *Registry[E]) Clear() {
	for _, p := range r.pools {
		if p != nil {
			p.release()
		}
	}
	r.entities = r.entities[:0]
	r.freeHead = maxIndex[E]()
	r.active = 0
	r.retired = 0
	clear(r.pending)
	r.pending = r.pending[:0]
}

// Assign adds value to h unless h already has a T; the first write wins.
// Fires ComponentAdded[T] when it adds. Invalid handles are ignored.
func Assign[T any, E Identifier[E]](h Handle[E], value T) bool {
	r := h.reg
	if !r.Valid(h) {
		return false
	}
	return poolOf[T](r).assign(h, value)
}

// AssignOrReplace stores value on h, firing ComponentReplaced[T] if h
// already had a T and ComponentAdded[T] otherwise. It reports whether a
// value was replaced.
func AssignOrReplace[T any, E Identifier[E]](h Handle[E], value T) bool {
	r := h.reg
	if !r.Valid(h) {
		return false
	}
	return poolOf[T](r).assignOrReplace(h, value)
}

// Replace overwrites h's T if present, firing ComponentReplaced[T].
func Replace[T any, E Identifier[E]](h Handle[E], value T) bool {
	p, ok := findPool[T](h.reg)
	if !ok || !h.reg.Valid(h) {
		return false
	}
	return p.replace(h, value)
}

// Remove deletes h's T if present, firing ComponentRemoved[T].
func Remove[T any, E Identifier[E]](h Handle[E]) bool {
	p, ok := findPool[T](h.reg)
	if !ok {
		return false
	}
	return p.remove(h)
}

// Contains reports whether h has a T. Stale handles report false.
func Contains[T any, E Identifier[E]](h Handle[E]) bool {
	p, ok := findPool[T](h.reg)
	return ok && p.contains(h.id)
}

// Get returns h's T without checking presence. If h lacks a T it panics
// or returns another entity's component; use TryGet when unsure.
func Get[T any, E Identifier[E]](h Handle[E]) *T {
	p, _ := findPool[T](h.reg)
	return p.data.Get(h.id)
}

// TryGet returns h's T, or nil if absent.
func TryGet[T any, E Identifier[E]](h Handle[E]) *T {
	p, ok := findPool[T](h.reg)
	if !ok {
		return nil
	}
	v, _ := p.data.Lookup(h.id)
	return v
}
