package usecase

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers a reconciliation pass on a fixed interval. Passes are
// serialized: if one is still running when the ticker fires, the tick is
// dropped rather than queued.
type Scheduler struct {
	reconciler *Reconciler
	interval   time.Duration
	logger     *zap.Logger
	running    atomic.Bool
}

func NewScheduler(reconciler *Reconciler, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{reconciler: reconciler, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled. The first pass starts immediately.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("price check scheduler started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("price check scheduler stopping")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce runs a single guarded pass. Safe to call concurrently with Run: a
// pass in flight makes it a no-op.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous reconciliation pass still running, skipping")
		return
	}
	defer s.running.Store(false)

	start := time.Now()
	summary, err := s.reconciler.RunPass(ctx)
	if err != nil {
		s.logger.Error("reconciliation pass failed", zap.Error(err))
		return
	}

	s.logger.Info(
		"reconciliation pass complete",
		zap.Int("products", summary.Products),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("changed", summary.Changed),
		zap.Int("notified", summary.Notified),
		zap.Duration("duration", time.Since(start)),
	)
}
