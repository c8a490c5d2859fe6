package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// SweeperConfig configures retention-based deletion.
type SweeperConfig struct {
	// Retention is how long a record survives in Store before it becomes
	// eligible for deletion. Zero or negative disables the sweeper
	// entirely: Start becomes a no-op.
	Retention time.Duration
	// Schedule is a six-field (seconds-enabled) cron expression.
	Schedule string
}

// DefaultSweeperConfig matches the configuration surface defaults.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{
		Retention: 30 * 24 * time.Hour,
		Schedule:  "0 0 3 * * *",
	}
}

// Sweeper deletes records from Store older than the configured retention
// period, on a cron schedule. The cutoff is computed against the local
// wall clock at sweep time; clock skew across a fleet of instances can
// shift the effective retention window by that skew.
type Sweeper struct {
	store   Store
	logger  *slog.Logger
	metrics Metrics
	tracer  Tracer
	cfg     SweeperConfig

	cr *cron.Cron
}

// NewSweeper builds a Sweeper. metrics/tracer may be nil.
func NewSweeper(store Store, logger *slog.Logger, metrics Metrics, tracer Tracer, cfg SweeperConfig) *Sweeper {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if tracer == nil {
		tracer = noopTracer{}
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSweeperConfig().Schedule
	}
	return &Sweeper{store: store, logger: logger, metrics: metrics, tracer: tracer, cfg: cfg}
}

// Sweep runs a single deletion pass immediately, independent of the cron
// schedule. Used both by the scheduled trigger and by the admin API's
// manual-trigger endpoint.
func (s *Sweeper) Sweep(ctx context.Context) {
	if s.cfg.Retention <= 0 {
		s.logger.Debug("sweeper: retention disabled, skipping sweep")
		return
	}

	ctx, endSpan := s.tracer.StartSpan(ctx, "audit.sweep")
	defer endSpan()

	cutoff := time.Now().Add(-s.cfg.Retention)
	start := time.Now()

	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	elapsed := time.Since(start)

	if err != nil {
		s.metrics.ObserveSweep(0, elapsed, false)
		s.logger.Error("sweeper: delete failed", "cutoff", cutoff, "error", err)
		return
	}

	s.metrics.ObserveSweep(deleted, elapsed, true)
	s.logger.Info("sweeper: swept records", "deleted", deleted, "cutoff", cutoff, "elapsed", elapsed)
}

// Start schedules Sweep on the configured cron expression. A retention of
// zero or less makes Start a no-op — there is nothing to schedule.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.cfg.Retention <= 0 {
		return nil
	}

	cr := cron.New(cron.WithSeconds())
	_, err := cr.AddFunc(s.cfg.Schedule, func() { s.Sweep(ctx) })
	if err != nil {
		return err
	}
	s.cr = cr
	cr.Start()
	return nil
}

// Stop halts the cron scheduler and waits for any in-flight sweep to
// finish.
func (s *Sweeper) Stop() {
	if s.cr == nil {
		return
	}
	stopCtx := s.cr.Stop()
	<-stopCtx.Done()
}
