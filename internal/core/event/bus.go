package event

import (
	"github.com/l1jgo/ecsreg/internal/core/typeid"
	"go.uber.org/zap"
)

// Bus is a type-keyed publish/subscribe manager. Emit delivers to every
// handler synchronously in subscription order. Post defers an event into
// the back buffer; events posted in tick N are delivered by DispatchAll
// after SwapBuffers at the start of tick N+1.
//
// Single-goroutine access only. There is no unsubscribe: handlers live as
// long as the Bus.
type Bus struct {
	types    *typeid.Table
	handlers [][]any
	front    []func()
	back     []func()
	log      *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		types:    typeid.New(),
		handlers: make([][]any, 0, 16),
		front:    make([]func(), 0, 64),
		back:     make([]func(), 0, 64),
		log:      log,
	}
}

// Subscribe registers a typed handler for events of type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	id := typeid.Of[T](b.types)
	for int(id) >= len(b.handlers) {
		b.handlers = append(b.handlers, nil)
	}
	b.handlers[id] = append(b.handlers[id], fn)
}

// Emit delivers event to every handler subscribed to T, now.
func Emit[T any](b *Bus, event T) {
	id, ok := typeid.Lookup[T](b.types)
	if !ok || int(id) >= len(b.handlers) {
		return
	}
	for _, h := range b.handlers[id] {
		h.(func(T))(event)
	}
}

// Post queues event into the back buffer.
func Post[T any](b *Bus, event T) {
	b.back = append(b.back, func() { Emit(b, event) })
}

// Subscribers returns the number of handlers registered for T.
func Subscribers[T any](b *Bus) int {
	id, ok := typeid.Lookup[T](b.types)
	if !ok || int(id) >= len(b.handlers) {
		return 0
	}
	return len(b.handlers[id])
}

// SwapBuffers rotates back→front and clears the new back buffer.
// Called once at tick start.
func (b *Bus) SwapBuffers() {
	b.front, b.back = b.back, b.front
	clear(b.back)
	b.back = b.back[:0]
}

// DispatchAll delivers all front-buffer events in posting order and
// empties the front buffer. Events posted by handlers land in the back
// buffer and wait for the next swap.
func (b *Bus) DispatchAll() int {
	n := len(b.front)
	for _, deliver := range b.front {
		deliver()
	}
	clear(b.front)
	b.front = b.front[:0]
	if n > 0 {
		b.log.Debug("dispatched deferred events", zap.Int("count", n))
	}
	return n
}

// Pending returns the number of events waiting in the back buffer.
func (b *Bus) Pending() int {
	return len(b.back)
}
