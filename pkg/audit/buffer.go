package audit

import "sync"

// Buffer holds records that are durable in the WAL but not yet confirmed
// in the AuditStore. It is not hard-bounded: add and addAll never block or
// reject. bufferSize (see Config) is only ever used by the Ingestion API as
// a flush trigger, never as a rejection threshold here.
type Buffer struct {
	mu      sync.Mutex
	records []Record
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Add appends one record.
func (b *Buffer) Add(record Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, record)
}

// AddAll appends a batch atomically with respect to other Add/AddAll
// calls: no interleaving within the batch.
func (b *Buffer) AddAll(records []Record) {
	if len(records) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, records...)
}

// Size returns the current number of pending records.
func (b *Buffer) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Snapshot returns a consistent point-in-time copy of the buffer. Concurrent
// producers may continue to append while the caller works with the result.
func (b *Buffer) Snapshot() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) == 0 {
		return nil
	}
	out := make([]Record, len(b.records))
	copy(out, b.records)
	return out
}

// RemoveDrained removes exactly the records of a prior snapshot,
// identified by EventID, preserving any records that arrived afterward.
// It is safe to call even if the buffer has grown since the snapshot was
// taken.
func (b *Buffer) RemoveDrained(drained []Record) {
	if len(drained) == 0 {
		return
	}

	drainedIDs := make(map[string]struct{}, len(drained))
	for _, r := range drained {
		drainedIDs[r.EventID] = struct{}{}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	remaining := b.records[:0:0]
	for _, r := range b.records {
		if _, ok := drainedIDs[r.EventID]; ok {
			continue
		}
		remaining = append(remaining, r)
	}
	b.records = remaining
}
