// Package event provides a small in-process event dispatcher.
//
// Order mutations fire order.created / order.updated / order.deleted;
// the websocket feed subscribes at startup.
package event

import "sync"

// Handler is a function that receives an event payload.
type Handler func(payload interface{})

// Bus is a named-topic dispatcher. The zero value is not usable; call New.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup
}

// New creates an empty Bus.
func New() *Bus {
	return &Bus{handlers: map[string][]Handler{}}
}

// Listen registers a handler for the given event name.
func (b *Bus) Listen(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func (b *Bus) Fire(event string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately.
func (b *Bus) FireAsync(event string, payload interface{}) {
	b.mu.RLock()
	hs := make([]Handler, len(b.handlers[event]))
	copy(hs, b.handlers[event])
	b.mu.RUnlock()

	for _, h := range hs {
		h := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			h(payload)
		}()
	}
}

// Wait blocks until every in-flight async dispatch has finished.
func (b *Bus) Wait() {
	b.wg.Wait()
}

// Flush removes all listeners (useful in tests).
func (b *Bus) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = map[string][]Handler{}
}
