package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the work a scheduler fires on every tick.
type Job func(ctx context.Context) error

// FeeReconcileScheduler periodically triggers fee ledger reconciliation.
type FeeReconcileScheduler struct {
	schedule string
	job      Job
	timeout  time.Duration

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	isWorking  bool
	cancelFunc context.CancelFunc
}

// NewFeeReconcileScheduler creates a new scheduler instance
func NewFeeReconcileScheduler(schedule string, job Job) *FeeReconcileScheduler {
	return &FeeReconcileScheduler{
		schedule: schedule,
		job:      job,
		timeout:  10 * time.Minute,
		cron:     cron.New(cron.WithParser(scheduleParser)),
	}
}

// Start registers the job and starts the cron loop. It stops on its own when
// ctx is cancelled.
func (s *FeeReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if s.job == nil {
		return fmt.Errorf("fee reconcile scheduler: no job configured")
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.run)
	if err != nil {
		return fmt.Errorf("failed to schedule reconcile job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("[SCHEDULER] Fee reconcile: started with schedule '%s' (%s). Next run: %v",
		s.schedule, GetCronDescription(s.schedule), nextRun)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a job that is already
// running.
func (s *FeeReconcileScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancelFunc
	s.cancelFunc = nil
	s.mu.Unlock()

	// The lock is released first: a running job takes it when it finishes.
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.cron.Remove(s.entryID)

	if cancel != nil {
		cancel()
	}
	log.Printf("[SCHEDULER] Fee reconcile: stopped")
}

// RunNow triggers the job immediately in the background.
func (s *FeeReconcileScheduler) RunNow() {
	go s.run()
}

// IsRunning returns whether the scheduler is active
func (s *FeeReconcileScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the job fires next, or nil when stopped.
func (s *FeeReconcileScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *FeeReconcileScheduler) run() {
	s.mu.Lock()
	if s.isWorking {
		s.mu.Unlock()
		log.Printf("[SCHEDULER] Fee reconcile: skipped (previous run still active)")
		return
	}
	s.isWorking = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.isWorking = false
		s.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job(ctx); err != nil {
		log.Printf("[SCHEDULER] Fee reconcile: failed: %v", err)
		return
	}
	log.Printf("[SCHEDULER] Fee reconcile: triggered in %v", time.Since(start).Round(time.Millisecond))
}
