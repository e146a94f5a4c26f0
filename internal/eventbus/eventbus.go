// ABOUTME: Typed event bus carrying host notifications (layout changes) to the engine
// ABOUTME: Subscribe returns an unsubscribe func; delivery is synchronous and ordered

package eventbus

import "sync"

// Handler is a callback function for events.
type Handler[T any] func(T)

type subscriber[T any] struct {
	id int
	fn Handler[T]
}

// Bus is a typed event bus that delivers events to registered handlers
// in subscription order.
type Bus[T any] struct {
	mu     sync.Mutex
	subs   []subscriber[T]
	nextID int
}

// New creates a new event bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers a handler and returns an unsubscribe function.
func (b *Bus[T]) Subscribe(fn Handler[T]) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber[T]{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		for i, s := range b.subs {
			if s.id == id {
				b.subs = append(b.subs[:i], b.subs[i+1:]...)
				break
			}
		}
		b.mu.Unlock()
	}
}

// Publish sends an event to all registered handlers, synchronously, in
// subscription order. The lock is not held during callbacks so a handler
// may subscribe or unsubscribe.
func (b *Bus[T]) Publish(event T) {
	b.mu.Lock()
	snapshot := make([]Handler[T], len(b.subs))
	for i, s := range b.subs {
		snapshot[i] = s.fn
	}
	b.mu.Unlock()

	for _, fn := range snapshot {
		fn(event)
	}
}

// Count returns the number of registered handlers.
func (b *Bus[T]) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
