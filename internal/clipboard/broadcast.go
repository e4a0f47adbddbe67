package clipboard

import (
	"sync"
	"sync/atomic"
)

// Broadcaster fans values out to any number of subscribers. Publish never
// blocks: a subscriber whose buffer is full misses the value and the drop
// counter is incremented.
type Broadcaster[T any] struct {
	mu      sync.RWMutex
	subs    map[uint64]chan T
	next    uint64
	closed  bool
	dropped atomic.Int64
}

func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[uint64]chan T)}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; it is safe to call more than once.
func (b *Broadcaster[T]) Subscribe(buffer int) (<-chan T, func()) {
	ch := make(chan T, max(buffer, 0))

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Publish delivers v to every subscriber with room and returns how many received it
func (b *Broadcaster[T]) Publish(v T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- v:
			delivered++
		default:
			b.dropped.Add(1)
		}
	}
	return delivered
}

// Subscribers returns the number of registered listeners
func (b *Broadcaster[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because a buffer was full
func (b *Broadcaster[T]) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel; later subscribers receive a closed channel
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
