package events

import (
	"sync"
	"time"
)

// Handler processes a single event. Handlers run synchronously on the
// emitting goroutine, one emit at a time, and must not block.
type Handler func(Event)

// Bus provides event distribution across components
type Bus struct {
	mu       sync.Mutex
	handlers []Handler
	closed   bool
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a handler for all future events
func (b *Bus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Emit stamps the event with the current time and delivers it to every
// subscribed handler in subscription order. Concurrent emits are
// serialized.
func (b *Bus) Emit(e Event) {
	e.Time = time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, h := range b.handlers {
		h(e)
	}
}

// Close shuts down the event bus; subsequent emits are dropped
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}
