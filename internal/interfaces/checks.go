package interfaces

// This file contains compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/cli"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/http"
	"github.com/mrlokans/bookfinder/internal/readinglist"
	"github.com/mrlokans/bookfinder/internal/scheduler"
	"github.com/mrlokans/bookfinder/internal/search"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// =============================================================================
// Search
// =============================================================================

var _ search.Catalog = (*catalog.Client)(nil)

var _ search.Cache = (*search.MemoryCache)(nil)
var _ search.Cache = (*search.LRUCache)(nil)

var _ http.SearchService = (*search.Orchestrator)(nil)
var _ cli.Searcher = (*search.Orchestrator)(nil)
var _ tasks.SearchWarmer = (*search.Orchestrator)(nil)

// =============================================================================
// Reading Lists
// =============================================================================

var _ scheduler.ListPruner = (*readinglist.Registry)(nil)
var _ http.ListCounter = (*readinglist.Registry)(nil)

// =============================================================================
// Covers
// =============================================================================

var _ http.CoverSource = (*covers.Cache)(nil)
var _ tasks.CoverPrefetcher = (*covers.Cache)(nil)
var _ scheduler.CoverPruner = (*covers.Cache)(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
