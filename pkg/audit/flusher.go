package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// FlusherConfig configures scheduled flushing.
type FlusherConfig struct {
	// FlushInterval is the fixed-rate scheduled flush cadence.
	FlushInterval time.Duration
	// BreakerThreshold is the number of consecutive store failures before
	// the breaker opens and skips store calls for BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
}

// DefaultFlusherConfig matches the defaults from the configuration surface.
func DefaultFlusherConfig() FlusherConfig {
	return FlusherConfig{
		FlushInterval:    60 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  time.Minute,
	}
}

// Flusher drains the Buffer into Store.AddAudits in batches and truncates
// the WAL on success. Two flushes never run concurrently: a tryLock guards
// the critical section, and a contended caller (a scheduler tick that
// finds a flush already in progress) simply skips that tick.
type Flusher struct {
	buffer  *Buffer
	wal     *WAL
	store   Store
	logger  *slog.Logger
	metrics Metrics
	notify  Notifier
	tracer  Tracer

	cfg     FlusherConfig
	breaker *breaker

	mu      sync.Mutex // guards the flush critical section (tryLock semantics)
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
}

// NewFlusher builds a Flusher. metrics/notify/tracer may be nil.
func NewFlusher(buffer *Buffer, wal *WAL, store Store, logger *slog.Logger, metrics Metrics, notify Notifier, tracer Tracer, cfg FlusherConfig) *Flusher {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if notify == nil {
		notify = noopNotifier{}
	}
	if tracer == nil {
		tracer = noopTracer{}
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultFlusherConfig().FlushInterval
	}
	return &Flusher{
		buffer:  buffer,
		wal:     wal,
		store:   store,
		logger:  logger,
		metrics: metrics,
		notify:  notify,
		tracer:  tracer,
		cfg:     cfg,
		breaker: newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
	}
}

// Flush attempts a single drain of the Buffer. If the buffer is empty it
// returns immediately without acquiring the critical section. If a flush
// is already in progress, Flush returns immediately (the tick is skipped)
// rather than waiting.
func (f *Flusher) Flush(ctx context.Context) {
	if f.buffer.Size() == 0 {
		return
	}

	if !f.mu.TryLock() {
		f.logger.Debug("flusher: flush already in progress, skipping this trigger")
		return
	}
	defer f.mu.Unlock()

	ctx, endSpan := f.tracer.StartSpan(ctx, "audit.flush")
	defer endSpan()

	snapshot := f.buffer.Snapshot()
	f.drain(ctx, snapshot)
}

// FlushSnapshot drains a snapshot taken by the caller ahead of time, under
// the same non-reentrant critical section as the scheduled Flush. The
// ingestion capacity trigger uses this: it takes the buffer snapshot
// synchronously, before the record that crossed the trigger is appended, so
// the triggering record is never part of what gets drained here, then hands
// the snapshot off so the store round-trip doesn't block the producer.
func (f *Flusher) FlushSnapshot(ctx context.Context, snapshot []Record) {
	if len(snapshot) == 0 {
		return
	}

	if !f.mu.TryLock() {
		f.logger.Debug("flusher: flush already in progress, skipping capacity-triggered drain")
		return
	}
	defer f.mu.Unlock()

	ctx, endSpan := f.tracer.StartSpan(ctx, "audit.flush")
	defer endSpan()

	f.drain(ctx, snapshot)
}

func (f *Flusher) drain(ctx context.Context, snapshot []Record) {
	if len(snapshot) == 0 {
		return
	}

	start := time.Now()

	if !f.breaker.allow() {
		f.logger.Warn("flusher: circuit open, skipping store call", "count", len(snapshot))
		f.metrics.ObserveFlush(len(snapshot), time.Since(start), false)
		return
	}

	ok, err := f.callStore(ctx, snapshot)
	elapsed := time.Since(start)

	if err != nil || !ok {
		f.breaker.recordFailure()
		f.metrics.ObserveFlush(len(snapshot), elapsed, false)
		if err != nil {
			f.logger.Error("flusher: store call failed, retaining buffer and WAL", "count", len(snapshot), "error", err)
		} else {
			f.logger.Error("flusher: store reported failure, retaining buffer and WAL", "count", len(snapshot))
		}
		return
	}

	f.breaker.recordSuccess()

	f.buffer.RemoveDrained(snapshot)
	if err := f.wal.Truncate(); err != nil {
		f.logger.Error("flusher: WAL truncate failed after successful flush", "error", err)
	}

	f.metrics.ObserveFlush(len(snapshot), elapsed, true)
	f.metrics.SetBufferSize(f.buffer.Size())
	f.logger.Info("flusher: flushed batch", "count", len(snapshot), "elapsed", elapsed)

	f.notifyFlushed(ctx, snapshot)
}

func (f *Flusher) callStore(ctx context.Context, snapshot []Record) (bool, error) {
	return f.store.AddAudits(ctx, snapshot)
}

func (f *Flusher) notifyFlushed(ctx context.Context, snapshot []Record) {
	batch := FlushedBatch{Count: len(snapshot)}
	for i, r := range snapshot {
		if i == 0 || r.ActionTimeStamp.Before(batch.FirstSeen) {
			batch.FirstSeen = r.ActionTimeStamp
		}
		if r.ActionTimeStamp.After(batch.LastSeen) {
			batch.LastSeen = r.ActionTimeStamp
		}
	}
	if err := f.notify.NotifyFlushed(ctx, batch); err != nil {
		f.logger.Warn("flusher: flush notification failed", "error", err)
	}
}

// Start runs the fixed-rate scheduler loop until Stop is called or ctx is
// cancelled.
func (f *Flusher) Start(ctx context.Context) {
	f.mu.Lock()
	if f.started {
		f.mu.Unlock()
		return
	}
	f.started = true
	f.stopCh = make(chan struct{})
	f.doneCh = make(chan struct{})
	f.mu.Unlock()

	go func() {
		defer close(f.doneCh)
		ticker := time.NewTicker(f.cfg.FlushInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-f.stopCh:
				return
			case <-ticker.C:
				f.Flush(ctx)
			}
		}
	}()
}

// Stop signals the scheduler loop to exit and waits for it to do so.
func (f *Flusher) Stop() {
	f.mu.Lock()
	if !f.started {
		f.mu.Unlock()
		return
	}
	f.started = false
	close(f.stopCh)
	doneCh := f.doneCh
	f.mu.Unlock()

	<-doneCh
}
