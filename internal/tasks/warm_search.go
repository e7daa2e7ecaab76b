package tasks

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookfinder/internal/search"
)

// SearchWarmer fills the search cache for a query.
type SearchWarmer interface {
	Warm(ctx context.Context, query string) error
}

// WarmSearchTask runs a search in the background so later lookups hit the cache.
type WarmSearchTask struct {
	Query string `json:"query"`
}

// Config returns the queue configuration for cache warm tasks.
func (t WarmSearchTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "warm_search",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     time.Minute,
		Retention: &backlite.Retention{
			Duration:   time.Hour,
			OnlyFailed: true,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// WarmSearchProcessor creates a processor function for WarmSearchTask.
// Server and network failures are returned so backlite retries them.
func WarmSearchProcessor(warmer SearchWarmer) backlite.QueueProcessor[WarmSearchTask] {
	return func(ctx context.Context, task WarmSearchTask) error {
		if warmer == nil {
			return fmt.Errorf("search not configured")
		}

		err := warmer.Warm(ctx, task.Query)
		switch {
		case err == nil:
			log.Printf("[TASK] Warmed search cache for %q", task.Query)
			return nil
		case errors.Is(err, search.ErrEmptyQuery):
			log.Printf("[TASK] Skipping cache warm for empty query")
			return nil
		default:
			return fmt.Errorf("warm search %q: %w", task.Query, err)
		}
	}
}

// NewWarmSearchQueue creates a backlite queue for cache warm tasks.
func NewWarmSearchQueue(warmer SearchWarmer) backlite.Queue {
	return backlite.NewQueue(WarmSearchProcessor(warmer))
}

// EnqueueWarm schedules a cache warm for query and returns the task id.
func (c *Client) EnqueueWarm(query string) (string, error) {
	ids, err := c.Add(WarmSearchTask{Query: query}).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue warm search: %w", err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue warm search: no task id returned")
	}
	return ids[0], nil
}
