package tasks

import "time"

// Config holds configuration for the fee reconciliation queue.
type Config struct {
	// Workers is the number of concurrent task workers. Default: 1
	Workers int

	// ReleaseAfter is when stuck tasks are released back to queue. Default: 15m
	ReleaseAfter time.Duration

	// CleanupInterval is how often expired tasks are purged. Default: 1h
	CleanupInterval time.Duration

	// MaxOpenConns caps the queue database pool. Zero means Workers+2:
	// one connection per worker plus the dispatcher and enqueuers.
	MaxOpenConns int

	// ConnMaxLifetime recycles pooled connections. Zero keeps them open.
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         1,
		ReleaseAfter:    15 * time.Minute,
		CleanupInterval: 1 * time.Hour,
	}
}

func (c Config) maxOpenConns() int {
	if c.MaxOpenConns > 0 {
		return c.MaxOpenConns
	}
	workers := c.Workers
	if workers < 1 {
		workers = 1
	}
	return workers + 2
}
