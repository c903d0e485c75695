package worker

import (
	"context"
	"time"

	"farmstore/internal/config"

	"go.uber.org/zap"
)

// Reconciler re-checks payments that are still waiting on the gateway.
type Reconciler interface {
	ReconcileStale(ctx context.Context, before time.Time, limit int) (int, error)
}

// ReconciliationWorker periodically asks the gateway about stuck payments.
// Callbacks can get lost, so this is how those payments eventually settle.
type ReconciliationWorker struct {
	reconciler Reconciler
	interval   time.Duration
	olderThan  time.Duration
	batchSize  int
	log        *zap.Logger
	now        func() time.Time
}

func NewReconciliationWorker(reconciler Reconciler, cfg config.ReconcileConfig, log *zap.Logger) *ReconciliationWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationWorker{
		reconciler: reconciler,
		interval:   cfg.Interval,
		olderThan:  cfg.OlderThan,
		batchSize:  cfg.BatchSize,
		log:        log.Named("reconciliation"),
		now:        time.Now,
	}
}

// Run ticks until ctx is done. A non-positive interval disables the worker.
func (w *ReconciliationWorker) Run(ctx context.Context) error {
	if w.interval <= 0 {
		w.log.Info("reconciliation worker disabled")
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("reconciliation worker started", zap.Duration("interval", w.interval))
	for {
		select {
		case <-ctx.Done():
			w.log.Info("reconciliation worker stopped")
			return nil
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single reconciliation pass.
func (w *ReconciliationWorker) RunOnce(ctx context.Context) {
	cutoff := w.now().Add(-w.olderThan)
	checked, err := w.reconciler.ReconcileStale(ctx, cutoff, w.batchSize)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		w.log.Error("reconciliation failed", zap.Error(err))
		return
	}
	if checked > 0 {
		w.log.Info("reconciled stale payments", zap.Int("count", checked))
	}
}
