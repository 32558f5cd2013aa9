package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"internship-tracker/backend/config"
)

type fakeAllocator struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
	ctxOK bool
}

func (f *fakeAllocator) RunScheduledAssignment(ctx context.Context, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, hasDeadline := ctx.Deadline()
	f.ctxOK = hasDeadline
	f.calls = append(f.calls, now)
	return f.err
}

func TestNew_InvalidSpec(t *testing.T) {
	_, err := New(&config.SchedulerConfig{AllocationSpec: "every now and then"}, time.UTC, &fakeAllocator{}, zap.NewNop())
	if err == nil {
		t.Fatal("expected an error for an invalid cron spec")
	}
}

func TestRunAllocation(t *testing.T) {
	alloc := &fakeAllocator{}
	s, err := New(&config.SchedulerConfig{AllocationSpec: "@every 1m", JobTimeout: time.Second}, time.UTC, alloc, zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	fixed := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.runAllocation()
	if len(alloc.calls) != 1 || !alloc.calls[0].Equal(fixed) {
		t.Fatalf("expected one call at the current time, got %v", alloc.calls)
	}
	if !alloc.ctxOK {
		t.Error("expected the job to run under a deadline")
	}

	// failures are logged, never panic
	alloc.err = errors.New("db down")
	s.runAllocation()
	if len(alloc.calls) != 2 {
		t.Errorf("expected a second call, got %d", len(alloc.calls))
	}
}

func TestStartStop(t *testing.T) {
	s, err := New(&config.SchedulerConfig{AllocationSpec: "@every 1h"}, time.UTC, &fakeAllocator{}, zap.NewNop())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if s.timeout != 5*time.Minute {
		t.Errorf("expected default timeout, got %v", s.timeout)
	}

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
