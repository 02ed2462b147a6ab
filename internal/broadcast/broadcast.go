// Package broadcast fans outbound events out to connection queues.
package broadcast

import (
	"cinequiz/internal/events"
	"sync"
)

const DefaultBuffer = 32

type Broadcaster struct {
	mu      sync.RWMutex
	clients map[string]chan events.Event
	buffer  int

	// OnDrop, when set, is called for every event skipped because the
	// connection queue was full.
	OnDrop func(connID string, ev events.Event)
}

func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		clients: make(map[string]chan events.Event),
		buffer:  buffer,
	}
}

// Subscribe registers a connection and returns its outbound queue.
// Subscribing an id twice replaces and closes the previous queue.
func (b *Broadcaster) Subscribe(connID string) <-chan events.Event {
	ch := make(chan events.Event, b.buffer)
	b.mu.Lock()
	if old, ok := b.clients[connID]; ok {
		close(old)
	}
	b.clients[connID] = ch
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the connection and closes its queue. Unknown ids are
// ignored.
func (b *Broadcaster) Unsubscribe(connID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.clients[connID]; ok {
		delete(b.clients, connID)
		close(ch)
	}
}

func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) Send(connID string, ev events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if ch, ok := b.clients[connID]; ok {
		b.push(connID, ch, ev)
	}
}

func (b *Broadcaster) SendMany(connIDs []string, ev events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, id := range connIDs {
		if ch, ok := b.clients[id]; ok {
			b.push(id, ch, ev)
		}
	}
}

func (b *Broadcaster) SendAll(ev events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.clients {
		b.push(id, ch, ev)
	}
}

func (b *Broadcaster) push(connID string, ch chan events.Event, ev events.Event) {
	select {
	case ch <- ev:
	default:
		// skip clients with full queues
		if b.OnDrop != nil {
			b.OnDrop(connID, ev)
		}
	}
}
