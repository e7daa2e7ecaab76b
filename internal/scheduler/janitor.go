package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// ListPruner drops reading lists nobody has touched for a while.
type ListPruner interface {
	Prune(maxIdle time.Duration) int
}

// CoverPruner drops cached cover files older than a given age.
type CoverPruner interface {
	Prune(maxAge time.Duration) (int, error)
}

// JanitorConfig configures the periodic cleanup job.
type JanitorConfig struct {
	Schedule    string        // Cron format: "*/15 * * * *" = every 15 minutes
	ListIdleTTL time.Duration // Reading lists idle longer than this are dropped
	CoverMaxAge time.Duration // Cached covers older than this are deleted
}

// JanitorResult reports what one cleanup run removed.
type JanitorResult struct {
	ListsPruned  int
	CoversPruned int
}

// Janitor periodically releases memory held by abandoned reading lists and
// disk held by stale cover images.
type Janitor struct {
	lists  ListPruner
	covers CoverPruner
	config JanitorConfig

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewJanitor creates a new janitor. Either pruner may be nil.
func NewJanitor(lists ListPruner, covers CoverPruner, cfg JanitorConfig) *Janitor {
	return &Janitor{
		lists:  lists,
		covers: covers,
		config: cfg,
		cron:   cron.New(cron.WithParser(newParser())),
	}
}

func newParser() cron.Parser {
	return cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
}

// ValidateCronSchedule checks a five-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := newParser().Parse(schedule)
	return err
}

// Start schedules the cleanup job. It stops on Stop, or when ctx is cancelled
// if ctx can be cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(j.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", j.config.Schedule, err)
	}

	entryID, err := j.cron.AddFunc(j.config.Schedule, func() {
		j.RunOnce()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule janitor job: %w", err)
	}
	j.entryID = entryID

	j.cron.Start()
	j.isRunning = true
	log.Printf("[JANITOR] started with schedule '%s'", j.config.Schedule)

	if done := ctx.Done(); done != nil {
		go func() {
			<-done
			j.Stop()
		}()
	}

	return nil
}

// Stop waits for a running cleanup to finish and stops the schedule.
func (j *Janitor) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if !j.isRunning {
		return
	}

	<-j.cron.Stop().Done()
	j.cron.Remove(j.entryID)
	j.isRunning = false

	log.Printf("[JANITOR] stopped")
}

// IsRunning returns whether the schedule is active.
func (j *Janitor) IsRunning() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.isRunning
}

// NextRun returns when the next cleanup will occur, or nil if not running.
func (j *Janitor) NextRun() *time.Time {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if !j.isRunning {
		return nil
	}
	entry := j.cron.Entry(j.entryID)
	if entry.ID == 0 {
		return nil
	}
	t := entry.Next
	return &t
}

// RunOnce performs one cleanup pass immediately.
func (j *Janitor) RunOnce() JanitorResult {
	var result JanitorResult

	if j.lists != nil && j.config.ListIdleTTL > 0 {
		result.ListsPruned = j.lists.Prune(j.config.ListIdleTTL)
	}

	if j.covers != nil && j.config.CoverMaxAge > 0 {
		removed, err := j.covers.Prune(j.config.CoverMaxAge)
		if err != nil {
			log.Printf("[JANITOR] cover pruning failed: %v", err)
		}
		result.CoversPruned = removed
	}

	if result.ListsPruned > 0 || result.CoversPruned > 0 {
		log.Printf("[JANITOR] pruned %d reading lists, %d covers", result.ListsPruned, result.CoversPruned)
	}
	return result
}
