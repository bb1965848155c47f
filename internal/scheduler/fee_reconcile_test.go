package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCronSchedule(t *testing.T) {
	tests := []struct {
		schedule string
		valid    bool
	}{
		{"0 2 * * *", true},
		{"*/30 * * * *", true},
		{"0 0 * * 0", true},
		{"", false},
		{"0 2 * *", false},
		{"61 * * * *", false},
		{"every day", false},
	}

	for _, tt := range tests {
		t.Run(tt.schedule, func(t *testing.T) {
			err := ValidateCronSchedule(tt.schedule)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestGetCronDescription(t *testing.T) {
	assert.Equal(t, "Daily at 02:00", GetCronDescription("0 2 * * *"))
	assert.Equal(t, "Every hour at :00", GetCronDescription("0 * * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * 1", GetCronDescription("5 4 * * 1"))
}

func TestGetNextRunTime(t *testing.T) {
	from := time.Date(2024, 1, 15, 3, 0, 0, 0, time.UTC)

	next, err := GetNextRunTime("0 2 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 16, 2, 0, 0, 0, time.UTC), *next)

	_, err = GetNextRunTime("bogus", from)
	assert.Error(t, err)
}

func TestFeeReconcileScheduler_StartStop(t *testing.T) {
	s := NewFeeReconcileScheduler("0 2 * * *", func(ctx context.Context) error { return nil })

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.GetNextRunTime())

	// Second start is a no-op.
	require.NoError(t, s.Start(context.Background()))

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())

	// Stopping twice is safe.
	s.Stop()
}

func TestFeeReconcileScheduler_StopsWithContext(t *testing.T) {
	s := NewFeeReconcileScheduler("0 2 * * *", func(ctx context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, 2*time.Second, 10*time.Millisecond)
}

func TestFeeReconcileScheduler_InvalidSchedule(t *testing.T) {
	s := NewFeeReconcileScheduler("not a schedule", func(ctx context.Context) error { return nil })

	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}

func TestFeeReconcileScheduler_NoJob(t *testing.T) {
	s := NewFeeReconcileScheduler("0 2 * * *", nil)

	assert.Error(t, s.Start(context.Background()))
}

func TestFeeReconcileScheduler_RunNow(t *testing.T) {
	var calls atomic.Int32
	done := make(chan struct{}, 1)
	s := NewFeeReconcileScheduler("0 2 * * *", func(ctx context.Context) error {
		calls.Add(1)
		done <- struct{}{}
		return nil
	})

	s.RunNow()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job was not run")
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestFeeReconcileScheduler_JobErrorIsContained(t *testing.T) {
	done := make(chan struct{})
	s := NewFeeReconcileScheduler("0 2 * * *", func(ctx context.Context) error {
		defer close(done)
		return errors.New("queue unavailable")
	})

	s.run()

	select {
	case <-done:
	default:
		t.Fatal("job was not invoked")
	}
}
