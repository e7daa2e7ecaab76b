package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/search"
)

// CoverPrefetcher downloads cover images ahead of display.
type CoverPrefetcher interface {
	Prefetch(ctx context.Context, coverIDs []int) int
}

// PrefetchCoversTask downloads the covers of one search result page.
type PrefetchCoversTask struct {
	Query    string `json:"query"`
	CoverIDs []int  `json:"cover_ids"`
}

// Config returns the queue configuration for cover prefetch tasks.
func (t PrefetchCoversTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prefetch_covers",
		MaxAttempts: 1,
		Backoff:     10 * time.Second,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
		},
	}
}

// PrefetchCoversProcessor creates a processor function for PrefetchCoversTask.
func PrefetchCoversProcessor(prefetcher CoverPrefetcher) backlite.QueueProcessor[PrefetchCoversTask] {
	return func(ctx context.Context, task PrefetchCoversTask) error {
		if prefetcher == nil {
			return fmt.Errorf("cover cache not configured")
		}

		fetched := prefetcher.Prefetch(ctx, task.CoverIDs)
		log.Printf("[TASK] Prefetched %d/%d covers for %q", fetched, len(task.CoverIDs), task.Query)
		return nil
	}
}

// NewPrefetchCoversQueue creates a backlite queue for cover prefetch tasks.
func NewPrefetchCoversQueue(prefetcher CoverPrefetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchCoversProcessor(prefetcher))
}

// CoverIDs returns the distinct non-zero cover ids of books, in order.
func CoverIDs(books []entities.Book) []int {
	seen := make(map[int]struct{}, len(books))
	ids := make([]int, 0, len(books))
	for _, b := range books {
		if b.CoverID <= 0 {
			continue
		}
		if _, ok := seen[b.CoverID]; ok {
			continue
		}
		seen[b.CoverID] = struct{}{}
		ids = append(ids, b.CoverID)
	}
	return ids
}

// PrefetchCoversHook enqueues a PrefetchCoversTask for every fresh search result.
func PrefetchCoversHook(client *Client) search.FetchHook {
	return func(query string, books []entities.Book) {
		ids := CoverIDs(books)
		if len(ids) == 0 {
			return
		}
		if _, err := client.Add(PrefetchCoversTask{Query: query, CoverIDs: ids}).Save(); err != nil {
			log.Printf("[TASK] Failed to enqueue cover prefetch for %q: %v", query, err)
		}
	}
}
