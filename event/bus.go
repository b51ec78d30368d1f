package event

import "sync"

// Bus fans events out to subscribers in emission order
// Subscribe and Unsubscribe may be called from any goroutine; Emit runs handlers on the caller
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscription
}

type subscription struct {
	id    int
	types map[EventType]struct{} // nil means all types
	sink  Sink
}

// NewBus creates a bus with no subscribers
func NewBus() *Bus {
	return &Bus{nextID: 1}
}

// Subscribe registers sink for the listed types, or for all types when none are listed
// Returns a handle for Unsubscribe
func (b *Bus) Subscribe(sink Sink, types ...EventType) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	var filter map[EventType]struct{}
	if len(types) > 0 {
		filter = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			filter[t] = struct{}{}
		}
	}

	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscription{id: id, types: filter, sink: sink})
	return id
}

// Unsubscribe removes a subscription, unknown handles are ignored
func (b *Bus) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Emit implements Sink
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	subs := b.subs
	b.mu.RUnlock()

	for _, s := range subs {
		if s.types != nil {
			if _, ok := s.types[ev.Type]; !ok {
				continue
			}
		}
		s.sink.Emit(ev)
	}
}

// Len returns the number of active subscriptions
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
