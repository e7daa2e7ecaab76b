// Package search turns user queries into normalized book results, with an
// exact-match query cache in front of the catalog and a closed set of
// failure kinds.
package search

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/entities"
)

// Catalog is the remote search service.
type Catalog interface {
	SearchByTitle(ctx context.Context, title string) ([]catalog.SearchDoc, error)
}

// FetchHook is called after a successful catalog fetch, before the result is returned.
type FetchHook func(query string, books []entities.Book)

// Result is the outcome of one Search call.
type Result struct {
	// Seq increases with every call, including failed ones. Compare with
	// Orchestrator.IsLatest to drop results of superseded queries.
	Seq    uint64
	Query  string
	Books  []entities.Book
	Cached bool
}

// Orchestrator owns the query cache and runs searches against the catalog.
// Overlapping searches are neither serialized nor deduplicated.
type Orchestrator struct {
	catalog    Catalog
	normalizer catalog.Normalizer
	cache      Cache

	seq atomic.Uint64

	hooksMu sync.RWMutex
	hooks   []FetchHook
}

func NewOrchestrator(c Catalog, normalizer catalog.Normalizer, cache Cache) *Orchestrator {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &Orchestrator{
		catalog:    c,
		normalizer: normalizer,
		cache:      cache,
	}
}

// OnFetched registers a hook run after each successful catalog fetch.
func (o *Orchestrator) OnFetched(hook FetchHook) {
	o.hooksMu.Lock()
	defer o.hooksMu.Unlock()
	o.hooks = append(o.hooks, hook)
}

// Search returns the books for query. The returned error, if any, is always *Error.
//
// The query is used verbatim as both the catalog title and the cache key.
// Cached slices are shared between callers and must not be modified.
func (o *Orchestrator) Search(ctx context.Context, query string) (Result, error) {
	result := Result{Seq: o.seq.Add(1), Query: query}
	books, cached, err := o.lookup(ctx, query)
	result.Books = books
	result.Cached = cached
	return result, err
}

// Warm populates the cache for query without returning the books.
// A query that is already cached causes no catalog call. Warm does not take
// a sequence number, so it never makes a caller's search stale.
func (o *Orchestrator) Warm(ctx context.Context, query string) error {
	_, _, err := o.lookup(ctx, query)
	return err
}

func (o *Orchestrator) lookup(ctx context.Context, query string) ([]entities.Book, bool, error) {
	if query == "" {
		return nil, false, &Error{Kind: KindEmptyQuery, Query: query}
	}

	if books, ok := o.cache.Get(query); ok {
		return books, true, nil
	}

	docs, err := o.catalog.SearchByTitle(ctx, query)
	if err != nil {
		searchErr := classify(ctx, query, err)
		log.Printf("[SEARCH] Error fetching books for %q (%s): %v", query, searchErr.Kind, err)
		return nil, false, searchErr
	}

	books := o.normalizer.NormalizeAll(docs)
	o.cache.Put(query, books)
	o.runHooks(query, books)
	return books, false, nil
}

// IsLatest reports whether seq belongs to the most recent Search call in the
// process. Servers with several clients track tokens per client with a Sequencer.
func (o *Orchestrator) IsLatest(seq uint64) bool {
	return seq == o.seq.Load()
}

// Cached returns the cached books for query without contacting the catalog.
func (o *Orchestrator) Cached(query string) ([]entities.Book, bool) {
	return o.cache.Get(query)
}

// CacheLen returns the number of cached queries.
func (o *Orchestrator) CacheLen() int {
	return o.cache.Len()
}

func (o *Orchestrator) runHooks(query string, books []entities.Book) {
	o.hooksMu.RLock()
	hooks := o.hooks
	o.hooksMu.RUnlock()

	for _, hook := range hooks {
		hook(query, books)
	}
}
