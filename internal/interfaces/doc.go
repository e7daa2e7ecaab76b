// Package interfaces documents the abstractions the application is wired through.
//
// # Interface Categories
//
// ## Search
//
//   - search.Catalog: remote title search (internal/search/orchestrator.go)
//   - search.Cache: query cache, unbounded or LRU (internal/search/cache.go)
//   - http.SearchService, cli.Searcher: consumers of the orchestrator
//
// ## Reading Lists
//
//   - scheduler.ListPruner: drops idle per-session lists (internal/scheduler/janitor.go)
//
// ## Covers
//
//   - http.CoverSource: serves cached cover files (internal/http/covers.go)
//   - tasks.CoverPrefetcher: warms the cover cache after fresh searches
//   - scheduler.CoverPruner: deletes stale cover files
//
// ## Background Work
//
//   - http.TaskQueue: enqueues cache warms and reports task status
//   - tasks.SearchWarmer: runs a warm search inside a worker
//
// # Adding a New Catalog
//
// To search a different book catalog:
//
//  1. Implement a client whose SearchByTitle returns []catalog.SearchDoc.
//     Non-2xx responses must surface as *catalog.StatusError so they are
//     classified as server errors.
//
//     var _ search.Catalog = (*MyCatalogClient)(nil)
//
//  2. Pass it to search.NewOrchestrator in entrypoint.NewSearch.
//
// # Compile-Time Interface Checks
//
// Implementations are checked at compile time in checks.go:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
