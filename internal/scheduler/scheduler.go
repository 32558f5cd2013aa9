package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"internship-tracker/backend/config"
)

// Allocator the scheduled allocation entry point
type Allocator interface {
	RunScheduledAssignment(ctx context.Context, now time.Time) error
}

// Scheduler periodic background jobs
type Scheduler struct {
	engine    *cron.Cron
	allocator Allocator
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// New registers the allocation job. An overlapping tick is skipped, not queued.
func New(cfg *config.SchedulerConfig, loc *time.Location, allocator Allocator, logger *zap.Logger) (*Scheduler, error) {
	cl := cronLogger{logger.Sugar()}
	s := &Scheduler{
		engine: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		allocator: allocator,
		timeout:   cfg.JobTimeout,
		logger:    logger,
		now:       time.Now,
	}
	if s.timeout <= 0 {
		s.timeout = 5 * time.Minute
	}

	if _, err := s.engine.AddFunc(cfg.AllocationSpec, s.runAllocation); err != nil {
		return nil, fmt.Errorf("add allocation job %q: %w", cfg.AllocationSpec, err)
	}
	return s, nil
}

// Start runs the jobs in the background
func (s *Scheduler) Start() {
	s.engine.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.engine.Entries())))
}

// Stop waits for running jobs up to ctx's deadline
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.engine.Stop()
	select {
	case <-done.Done():
		s.logger.Info("scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out, jobs still running")
	}
}

func (s *Scheduler) runAllocation() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := s.now()
	if err := s.allocator.RunScheduledAssignment(ctx, start); err != nil {
		s.logger.Error("scheduled allocation failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled allocation finished", zap.Duration("took", time.Since(start)))
}

// cronLogger routes cron's own logging through zap
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
