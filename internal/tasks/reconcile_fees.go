package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/schooldesk/internal/database/fees"
)

// FeeReconciler recomputes denormalized paid_fee totals from the fee ledger.
type FeeReconciler interface {
	Reconcile(ctx context.Context) (fees.ReconcileResult, error)
}

// ReconcileFeesTask re-derives every student's paid fee from the ledger.
type ReconcileFeesTask struct {
	// Trigger records what enqueued the run (scheduler, api, cli).
	Trigger string `json:"trigger,omitempty"`
}

// Config returns the queue configuration for reconciliation tasks.
func (t ReconcileFeesTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "reconcile_fees",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ReconcileFeesProcessor creates a processor function for ReconcileFeesTask.
func ReconcileFeesProcessor(reconciler FeeReconciler) backlite.QueueProcessor[ReconcileFeesTask] {
	return func(ctx context.Context, task ReconcileFeesTask) error {
		if reconciler == nil {
			return fmt.Errorf("fee reconciler not configured")
		}

		result, err := reconciler.Reconcile(ctx)
		if err != nil {
			return fmt.Errorf("reconcile fees: %w", err)
		}

		log.Printf("[TASK] Fee reconciliation (%s): %d students checked, %d corrected",
			triggerName(task.Trigger), result.Checked, result.Corrected)
		return nil
	}
}

// NewReconcileFeesQueue creates a backlite queue for reconciliation tasks.
func NewReconcileFeesQueue(reconciler FeeReconciler) backlite.Queue {
	return backlite.NewQueue(ReconcileFeesProcessor(reconciler))
}

func triggerName(trigger string) string {
	if trigger == "" {
		return "manual"
	}
	return trigger
}
