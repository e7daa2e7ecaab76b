package readinglist

import (
	"sync"
	"time"
)

// Registry keeps one Store per reading list id, in memory only.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	now    func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make(map[string]*Store),
		now:    time.Now,
	}
}

// Get returns the store for id, creating an empty one on first use.
// Fetching counts as access, so Prune never drops a store just handed out.
func (r *Registry) Get(id string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	store, ok := r.stores[id]
	if !ok {
		store = newStoreWithClock(r.now)
		r.stores[id] = store
		return store
	}
	store.markUsed()
	return store
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Prune drops stores untouched for longer than maxIdle and returns how many were removed.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	removed := 0
	for id, store := range r.stores {
		if store.IdleSince().Before(cutoff) {
			delete(r.stores, id)
			removed++
		}
	}
	return removed
}
