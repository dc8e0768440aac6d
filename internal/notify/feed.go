package notify

import (
	"context"
	"sync"
)

// Feed buffers the most recent events per owner until they are drained.
type Feed struct {
	mu       sync.Mutex
	capacity int
	events   map[string][]Event
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = 50
	}
	return &Feed{capacity: capacity, events: make(map[string][]Event)}
}

func (f *Feed) Notify(ctx context.Context, e Event) {
	f.mu.Lock()
	defer f.mu.Unlock()

	queue := append(f.events[e.OwnerID], e)
	if len(queue) > f.capacity {
		queue = queue[len(queue)-f.capacity:]
	}
	f.events[e.OwnerID] = queue
}

// Drain returns and removes the owner's buffered events, oldest first.
func (f *Feed) Drain(ownerID string) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.events[ownerID]
	delete(f.events, ownerID)
	return out
}
