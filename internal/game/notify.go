package game

import "sync"

// Listener is called after every table mutation. It carries no payload;
// listeners pull whatever they need from the table.
type Listener func()

type subscription struct {
	id int
	fn Listener
}

// ChangeBus is a synchronous, in-memory publish mechanism. Listeners are
// called in subscription order on the publishing goroutine.
type ChangeBus struct {
	mu        sync.Mutex
	nextID    int
	listeners []subscription
}

// NewChangeBus creates an empty bus.
func NewChangeBus() *ChangeBus {
	return &ChangeBus{}
}

// Subscribe adds a listener and returns a function that removes it again.
// Calling the returned function more than once is harmless.
func (b *ChangeBus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, sub := range b.listeners {
			if sub.id == id {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every listener once.
func (b *ChangeBus) Publish() {
	b.mu.Lock()
	listeners := make([]subscription, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.Unlock()

	for _, sub := range listeners {
		sub.fn()
	}
}

// Len returns the number of listeners.
func (b *ChangeBus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
