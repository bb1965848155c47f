package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mikestefanello/backlite"
)

// Client runs the fee reconciliation queue on backlite.
type Client struct {
	client *backlite.Client
	db     *sql.DB
	path   string

	mu      sync.Mutex
	started bool
	workers int
}

// QueuePath returns the SQLite file that holds the queue for a school
// database path: "school.db" becomes "school-tasks.db" in the same
// directory. "file:" prefixes and DSN query strings are ignored.
func QueuePath(databasePath string) string {
	p := strings.TrimPrefix(databasePath, "file:")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		p = "school.db"
	}
	ext := filepath.Ext(p)
	return strings.TrimSuffix(p, ext) + "-tasks" + ext
}

// queueDSN matches the main store's sqlite settings: writers wait for the
// lock and start with BEGIN IMMEDIATE. WAL lets status reads run while a
// worker holds the write lock.
func queueDSN(path string) string {
	return path + "?_journal_mode=WAL&_busy_timeout=5000&_txlock=immediate"
}

// NewClient opens the queue database next to databasePath (see QueuePath)
// and installs the backlite schema. The queue always lives in SQLite,
// whichever engine holds the school data.
func NewClient(databasePath string, cfg Config) (*Client, error) {
	path := QueuePath(databasePath)

	db, err := sql.Open("sqlite3", queueDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open task queue database %s: %w", path, err)
	}
	db.SetMaxOpenConns(cfg.maxOpenConns())
	db.SetMaxIdleConns(cfg.maxOpenConns())
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	client, err := backlite.NewClient(backlite.ClientConfig{
		DB:              db,
		NumWorkers:      cfg.Workers,
		ReleaseAfter:    cfg.ReleaseAfter,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          queueLogger{},
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create task queue: %w", err)
	}

	if err := client.Install(); err != nil {
		db.Close()
		return nil, fmt.Errorf("install task queue schema: %w", err)
	}

	return &Client{client: client, db: db, path: path, workers: cfg.Workers}, nil
}

// Path is the queue database file.
func (c *Client) Path() string {
	return c.path
}

// Register adds queues. Call before Start.
func (c *Client) Register(queues ...backlite.Queue) {
	for _, q := range queues {
		c.client.Register(q)
	}
}

// Start runs the workers until ctx is cancelled or Stop is called.
// A second call is a no-op.
func (c *Client) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	log.Printf("[TASK] Queue started at %s with %d workers", c.path, c.workers)
	c.client.Start(ctx)
}

// Stop waits for running tasks until ctx expires. It reports whether every
// worker finished in time.
func (c *Client) Stop(ctx context.Context) bool {
	c.mu.Lock()
	started := c.started
	c.mu.Unlock()
	if !started {
		return true
	}

	log.Println("[TASK] Stopping queue...")
	if !c.client.Stop(ctx) {
		log.Println("[TASK] Queue stopped before all tasks completed")
		return false
	}
	log.Println("[TASK] Queue stopped")
	return true
}

// Close releases the queue database. Call after Stop.
func (c *Client) Close() error {
	return c.db.Close()
}

// Add starts an operation to enqueue one or more tasks.
func (c *Client) Add(tasks ...backlite.Task) *backlite.TaskAddOp {
	return c.client.Add(tasks...)
}

// Enqueue adds a single task and returns its id.
func (c *Client) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	ids, err := c.client.Add(task).Ctx(ctx).Save()
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", task.Config().Name, err)
	}
	if len(ids) == 0 {
		return "", fmt.Errorf("enqueue %s: no task id returned", task.Config().Name)
	}
	return ids[0], nil
}

// Status returns the status of a task by ID.
func (c *Client) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	return c.client.Status(ctx, taskID)
}

// queueLogger routes backlite's messages through the standard logger.
type queueLogger struct{}

func (queueLogger) Info(message string, params ...any) {
	log.Println(append([]any{"[TASK]", message}, params...)...)
}

func (queueLogger) Error(message string, params ...any) {
	log.Println(append([]any{"[TASK ERROR]", message}, params...)...)
}
