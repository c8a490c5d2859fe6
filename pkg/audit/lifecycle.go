package audit

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

// Config bundles the tuning knobs for a full engine instance. The
// concrete Store, Notifier, and Metrics implementations are supplied by
// the caller (internal/platform/*) so this package never depends on
// them.
type Config struct {
	WALPath            string
	WALSyncOnAppend    bool
	BufferCapacityHint int

	Flusher  FlusherConfig
	Sweeper  SweeperConfig
	Executor ExecutorConfig

	AwaitTerminationSeconds int
}

// DefaultConfig returns the engine defaults from the configuration
// surface.
func DefaultConfig() Config {
	return Config{
		WALPath:                 "audit.wal",
		BufferCapacityHint:      1000,
		Flusher:                 DefaultFlusherConfig(),
		Sweeper:                 DefaultSweeperConfig(),
		Executor:                DefaultExecutorConfig(),
		AwaitTerminationSeconds: 30,
	}
}

// Engine is the fully wired audit ingestion service: a WAL-backed Buffer,
// a scheduled Flusher, a scheduled retention Sweeper, a bounded ingestion
// Executor, and the Ingestion API surface over all of it.
type Engine struct {
	Ingestion *Ingestion

	buffer   *Buffer
	wal      *WAL
	flusher  *Flusher
	sweeper  *Sweeper
	executor *Executor
	logger   *slog.Logger
	metrics  Metrics
	cfg      Config

	extra []func(context.Context) error // extra lifecycle members (admin API, notifier)
	stops []func()
}

// NewEngine constructs an Engine without starting any goroutines.
// Extras (e.g. an admin API server, a notifier with its own background
// connection) can be registered with RegisterStartable before Start.
// tracer may be nil.
func NewEngine(store Store, logger *slog.Logger, metrics Metrics, notify Notifier, tracer Tracer, cfg Config) *Engine {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	buffer := NewBuffer()
	wal := NewWAL(cfg.WALPath, logger, WithSyncOnAppend(cfg.WALSyncOnAppend))
	executor := NewExecutor(logger, cfg.Executor)
	flusher := NewFlusher(buffer, wal, store, logger, metrics, notify, tracer, cfg.Flusher)
	sweeper := NewSweeper(store, logger, metrics, tracer, cfg.Sweeper)
	ingestion := NewIngestion(buffer, wal, store, executor, flusher, logger, metrics, cfg.BufferCapacityHint)

	return &Engine{
		Ingestion: ingestion,
		buffer:    buffer,
		wal:       wal,
		flusher:   flusher,
		sweeper:   sweeper,
		executor:  executor,
		logger:    logger,
		metrics:   metrics,
		cfg:       cfg,
	}
}

// Sweeper exposes the engine's retention sweeper so an admin API can
// trigger a manual sweep on demand.
func (e *Engine) Sweeper() *Sweeper {
	return e.sweeper
}

// RegisterStartable adds an extra component (admin API, notifier) whose
// lifecycle should be tied to the Engine's. start runs during Start and
// should block until ctx is cancelled; stop runs during Shutdown.
func (e *Engine) RegisterStartable(start func(context.Context) error, stop func()) {
	e.extra = append(e.extra, start)
	e.stops = append(e.stops, stop)
}

// Start replays the WAL into the Buffer, then starts the Flusher,
// Sweeper, and any registered extras concurrently. It returns once
// startup work (WAL replay, sweeper cron registration) completes; the
// scheduled loops keep running in the background until ctx is cancelled
// or Shutdown is called.
func (e *Engine) Start(ctx context.Context) error {
	if e.wal.Disabled() {
		e.metrics.ObserveWALDisabled()
	} else {
		result, err := e.wal.Replay()
		if err != nil {
			e.logger.Error("engine: WAL replay failed", "error", err)
		} else {
			e.buffer.AddAll(result.Records)
			e.logger.Info("engine: WAL replay complete", "recovered", len(result.Records), "skipped", result.Skipped)
		}
	}

	e.flusher.Start(ctx)

	if err := e.sweeper.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, start := range e.extra {
		start := start
		g.Go(func() error { return start(gctx) })
	}

	// extras run in the background; don't block Start on them.
	go func() {
		if err := g.Wait(); err != nil && ctx.Err() == nil {
			e.logger.Error("engine: a background component exited with error", "error", err)
		}
	}()

	return nil
}

// Shutdown stops accepting new scheduled work, drains the ingestion
// executor, performs one final flush, closes the WAL, and stops all
// registered extras. It blocks up to AwaitTerminationSeconds for the
// executor to drain in-flight work.
func (e *Engine) Shutdown(ctx context.Context) {
	e.flusher.Stop()
	e.sweeper.Stop()

	timeout := time.Duration(e.cfg.AwaitTerminationSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	e.executor.Shutdown(timeout)

	e.flusher.Flush(ctx)

	if err := e.wal.Close(); err != nil {
		e.logger.Error("engine: WAL close failed", "error", err)
	}

	for _, stop := range e.stops {
		stop()
	}
}
