package audit

import (
	"context"
	"log/slog"
)

// Ingestion is the entry point producers call to record audit events. The
// synchronous methods bypass the WAL and Buffer entirely and delegate
// straight to Store, trading durability for an immediate outcome. The
// asynchronous add methods are WAL+Buffer durable: the record survives a
// process crash between acceptance and the next flush. UpdateAuditsAsync
// is not; it goes straight to Store.
type Ingestion struct {
	buffer   *Buffer
	wal      *WAL
	store    Store
	executor *Executor
	flusher  *Flusher
	logger   *slog.Logger
	metrics  Metrics

	// capacityTrigger is the buffer size at or above which an async
	// accept triggers an out-of-band flush attempt in addition to the
	// scheduled one.
	capacityTrigger int
}

// NewIngestion wires the ingestion API on top of an already-constructed
// Buffer/WAL/Store/Executor/Flusher. metrics may be nil.
func NewIngestion(buffer *Buffer, wal *WAL, store Store, executor *Executor, flusher *Flusher, logger *slog.Logger, metrics Metrics, capacityTrigger int) *Ingestion {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &Ingestion{
		buffer:          buffer,
		wal:             wal,
		store:           store,
		executor:        executor,
		flusher:         flusher,
		logger:          logger,
		metrics:         metrics,
		capacityTrigger: capacityTrigger,
	}
}

// AddAudit persists a single record synchronously via Store, bypassing
// WAL and Buffer.
func (i *Ingestion) AddAudit(ctx context.Context, record Record) (bool, error) {
	if err := Validate(record); err != nil {
		i.metrics.ObserveValidationRejected()
		return false, err
	}
	return i.store.AddAudit(ctx, record)
}

// AddAudits persists a batch synchronously via Store, bypassing WAL and
// Buffer.
func (i *Ingestion) AddAudits(ctx context.Context, records []Record) (bool, error) {
	valid, err := i.validateBatch(records)
	if err != nil {
		return false, err
	}
	return i.store.AddAudits(ctx, valid)
}

// UpdateAudits applies updates synchronously via Store, keyed on eventId.
func (i *Ingestion) UpdateAudits(ctx context.Context, records []Record) (bool, error) {
	valid, err := i.validateBatch(records)
	if err != nil {
		return false, err
	}
	return i.store.UpdateAudits(ctx, valid)
}

// AddAuditAsync validates and, on success, appends record to the WAL and
// the in-memory Buffer, returning as soon as both are durable. A
// validation failure never reaches the WAL. If the buffer is already at
// capacityTrigger, an immediate flush is triggered before record is
// appended or buffered, so the triggering record is never part of the
// flushed batch.
func (i *Ingestion) AddAuditAsync(record Record) error {
	if err := Validate(record); err != nil {
		i.metrics.ObserveValidationRejected()
		return err
	}

	i.maybeTriggerFlush(0)

	if err := i.wal.AppendOne(record); err != nil {
		i.metrics.ObserveWALAppendFailure()
		i.logger.Error("ingestion: WAL append failed", "event_id", record.EventID, "error", err)
	}

	i.buffer.Add(record)
	i.metrics.SetBufferSize(i.buffer.Size())
	return nil
}

// AddAuditsAsync is the batch form of AddAuditAsync. Records that fail
// validation are dropped from the batch (and never reach the WAL); the
// remainder is appended and buffered as one durable unit. If the buffer
// would reach capacityTrigger once the batch is added, an immediate flush
// is triggered first, so the incoming batch is never part of the flushed
// snapshot.
func (i *Ingestion) AddAuditsAsync(records []Record) error {
	valid, err := i.validateBatch(records)
	if err != nil {
		return err
	}
	if len(valid) == 0 {
		return nil
	}

	i.maybeTriggerFlush(len(valid))

	if err := i.wal.AppendMany(valid); err != nil {
		i.metrics.ObserveWALAppendFailure()
		i.logger.Error("ingestion: WAL append failed", "count", len(valid), "error", err)
	}

	i.buffer.AddAll(valid)
	i.metrics.SetBufferSize(i.buffer.Size())
	return nil
}

// UpdateAuditsAsync is not durable: updates are not appended to the WAL
// because replay would incorrectly re-apply them as new inserts. Updates
// always go straight to Store.
func (i *Ingestion) UpdateAuditsAsync(ctx context.Context, records []Record) (bool, error) {
	return i.UpdateAudits(ctx, records)
}

func (i *Ingestion) validateBatch(records []Record) ([]Record, error) {
	var msgs []string
	valid := make([]Record, 0, len(records))
	for _, r := range records {
		if err := Validate(r); err != nil {
			i.metrics.ObserveValidationRejected()
			if ve, ok := err.(*ValidationError); ok {
				msgs = append(msgs, ve.Messages...)
			} else {
				msgs = append(msgs, err.Error())
			}
			continue
		}
		valid = append(valid, r)
	}
	if len(msgs) > 0 && len(valid) == 0 {
		return nil, &ValidationError{Messages: msgs}
	}
	return valid, nil
}

// maybeTriggerFlush checks whether the buffer, plus pending records about
// to be added, has reached capacityTrigger, and if so snapshots whatever is
// currently buffered before the caller appends pending, then hands the
// snapshot to the executor to drain. Pending is 0 for a single-record add
// (the check is against the buffer as it stands) and len(records) for a
// batch add. The snapshot is taken synchronously, on the caller's
// goroutine, so it is always strictly older than the pending records -
// guaranteeing the record that crossed the trigger is excluded from it -
// but the store round-trip itself runs on the executor, so a slow or
// stuck store never blocks the caller's enqueue.
func (i *Ingestion) maybeTriggerFlush(pending int) {
	if i.capacityTrigger <= 0 || i.buffer.Size()+pending < i.capacityTrigger {
		return
	}
	snapshot := i.buffer.Snapshot()
	if len(snapshot) == 0 {
		return
	}
	i.metrics.ObserveCapacityTrigger()
	i.logger.Warn("ingestion: buffer at capacity, flushing before enqueue", "buffer_size", len(snapshot), "pending", pending)
	i.executor.Submit(func() {
		i.flusher.FlushSnapshot(context.Background(), snapshot)
	})
}
