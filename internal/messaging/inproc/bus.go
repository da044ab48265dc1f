package inproc

import (
	"sync"

	"formicarium/internal/domain"
)

// Bus broadcasts simulation snapshots to in-process subscribers. Slow
// subscribers drop frames instead of stalling the runner.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]chan domain.Snapshot
	buffer int
}

func New(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 8
	}
	return &Bus{
		subs:   make(map[string]chan domain.Snapshot),
		buffer: buffer,
	}
}

func (b *Bus) Subscribe(name string) <-chan domain.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subs[name]; ok {
		return ch
	}
	ch := make(chan domain.Snapshot, b.buffer)
	b.subs[name] = ch
	return ch
}

func (b *Bus) Unsubscribe(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch, ok := b.subs[name]
	if !ok {
		return
	}
	delete(b.subs, name)
	close(ch)
}

func (b *Bus) Publish(snapshot domain.Snapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs {
		select {
		case ch <- snapshot:
		default:
			// subscriber lagging, frame dropped
		}
	}
}
