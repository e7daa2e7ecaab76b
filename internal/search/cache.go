package search

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// Cache maps an exact query string to its normalized results.
// Implementations must be safe for concurrent use.
type Cache interface {
	Get(query string) ([]entities.Book, bool)
	Put(query string, books []entities.Book)
	Len() int
}

// NewCache returns an unbounded MemoryCache for size <= 0,
// otherwise an LRUCache holding at most size queries.
func NewCache(size int) (Cache, error) {
	if size <= 0 {
		return NewMemoryCache(), nil
	}
	return NewLRUCache(size)
}

// MemoryCache never evicts; entries live as long as the process.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]entities.Book
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]entities.Book)}
}

func (c *MemoryCache) Get(query string) ([]entities.Book, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	books, ok := c.entries[query]
	return books, ok
}

func (c *MemoryCache) Put(query string, books []entities.Book) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[query] = books
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LRUCache evicts the least recently used query once full.
type LRUCache struct {
	entries *lru.Cache[string, []entities.Book]
}

func NewLRUCache(size int) (*LRUCache, error) {
	entries, err := lru.New[string, []entities.Book](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &LRUCache{entries: entries}, nil
}

func (c *LRUCache) Get(query string) ([]entities.Book, bool) {
	return c.entries.Get(query)
}

func (c *LRUCache) Put(query string, books []entities.Book) {
	c.entries.Add(query, books)
}

func (c *LRUCache) Len() int {
	return c.entries.Len()
}
