package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs the background queues on a scratch SQLite file. The file only
// lives as long as the process: Shutdown deletes it.
type Client struct {
	queue   *backlite.Client
	db      *sql.DB
	dbPath  string
	workers int

	mu     sync.Mutex
	cancel context.CancelFunc // set while workers run
}

// NewClient opens the queue database at dbPath and installs the backlite schema.
func NewClient(dbPath string, cfg Config) (*Client, error) {
	db, err := openQueueDB(dbPath, cfg.Workers)
	if err != nil {
		return nil, err
	}

	queue, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          &stdLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task queue: %w", err)
	}

	if err := queue.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task queue schema: %w", err)
	}

	return &Client{
		queue:   queue,
		db:      db,
		dbPath:  dbPath,
		workers: cfg.Workers,
	}, nil
}

func openQueueDB(dbPath string, workers int) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create task queue directory: %w", err)
	}

	// WAL lets workers read while the HTTP handlers enqueue
	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open task queue database: %w", err)
	}
	db.SetMaxOpenConns(workers + 5)
	db.SetMaxIdleConns(workers + 2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

// Register adds queues. Must be called before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.queue.Register(q)
	}
}

// Start launches the workers and returns. They stop on Stop or when ctx is done.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.queue.Start(runCtx)
	log.Printf("[TASK] Queue started with %d workers", c.workers)
}

// Running reports whether Start has been called without a matching Stop.
func (c *Client) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancel != nil
}

// Stop waits for running tasks until ctx expires.
// Returns true if all workers finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel == nil {
		return true
	}
	defer cancel()

	success := c.queue.Stop(ctx)
	if success {
		log.Println("[TASK] Queue stopped")
	} else {
		log.Println("[TASK] Queue stopped before all tasks finished")
	}
	return success
}

// Close releases the database handle. Call after Stop.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Shutdown stops the workers, closes the database and deletes its files.
func (c *Client) Shutdown(ctx context.Context) error {
	c.Stop(ctx)

	var errs []error
	if err := c.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close task queue: %w", err))
	}
	for _, p := range []string{c.dbPath, c.dbPath + "-wal", c.dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.queue.Add(tasks...)
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.queue.Status(ctx, taskID)
}

// stdLogger routes backlite logs through the standard logger.
type stdLogger struct{}

func (l *stdLogger) Info(message string, params ...any) {
	log.Printf("[TASK] "+message, params...)
}

func (l *stdLogger) Error(message string, params ...any) {
	log.Printf("[TASK ERROR] "+message, params...)
}
