package clipboard

import (
	"container/ring"
	"sync"
)

// NoveltyTracker remembers recently dispatched hashes. Observe reports
// whether hash is new and, when it is, records it.
type NoveltyTracker interface {
	Observe(hash string) bool
	Reset()
}

// NewNoveltyTracker returns a single-slot tracker for window <= 1 and a
// bounded recency set otherwise
func NewNoveltyTracker(window int) NoveltyTracker {
	if window > 1 {
		return NewRecencySet(window)
	}
	return &LastHash{}
}

// LastHash suppresses only an immediate repeat. A payload seen again after a
// different one is reported as new.
type LastHash struct {
	mu   sync.Mutex
	last string
}

func (l *LastHash) Observe(hash string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if hash == l.last {
		return false
	}
	l.last = hash
	return true
}

func (l *LastHash) Reset() {
	l.mu.Lock()
	l.last = ""
	l.mu.Unlock()
}

// RecencySet suppresses any of the last size distinct hashes
type RecencySet struct {
	mu      sync.Mutex
	history *ring.Ring
	seen    map[string]struct{}
	size    int
}

func NewRecencySet(size int) *RecencySet {
	return &RecencySet{
		history: ring.New(size),
		seen:    make(map[string]struct{}, size),
		size:    size,
	}
}

func (r *RecencySet) Observe(hash string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.seen[hash]; ok {
		return false
	}

	// evict the oldest slot before overwriting it
	if old, ok := r.history.Value.(string); ok {
		delete(r.seen, old)
	}
	r.history.Value = hash
	r.history = r.history.Next()
	r.seen[hash] = struct{}{}
	return true
}

func (r *RecencySet) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.history = ring.New(r.size)
	r.seen = make(map[string]struct{}, r.size)
}

// Len returns the number of remembered hashes
func (r *RecencySet) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}
