package eventbus

import "sync"

// Handler consumes a published event payload.
type Handler func(interface{})

// Bus is a minimal in-process publish/subscribe bus. The engine uses it to
// hand terminal placement results to collaborators (certificate issuance,
// notification) without coupling to them.
type Bus struct {
	handlers map[string][]Handler
	mu       sync.RWMutex
}

func New() *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
	}
}

func (b *Bus) Subscribe(event string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

// Publish dispatches asynchronously; publishers never block on slow
// subscribers.
func (b *Bus) Publish(event string, data interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, handler := range b.handlers[event] {
		go handler(data)
	}
}
