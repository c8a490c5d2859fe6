// Package memory provides an in-memory audit.Store for local development
// and tests. Records are kept in a map keyed on eventId until
// DeleteOlderThan removes them, and are lost on process restart.
package memory

import (
	"context"
	"sync"
	"time"

	"auditengine/pkg/audit"
)

// Store is a map-backed audit.Store. It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]audit.Record
}

// New creates an empty Store.
func New() *Store {
	return &Store{records: make(map[string]audit.Record)}
}

// AddAudit upserts a single record keyed on EventID.
func (s *Store) AddAudit(_ context.Context, record audit.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(record)
	return true, nil
}

// AddAudits upserts a batch keyed on EventID.
func (s *Store) AddAudits(_ context.Context, records []audit.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.put(r)
	}
	return true, nil
}

// UpdateAudits upserts a batch keyed on EventID, same semantics as
// AddAudits: this store does not distinguish insert from update.
func (s *Store) UpdateAudits(ctx context.Context, records []audit.Record) (bool, error) {
	return s.AddAudits(ctx, records)
}

// DeleteOlderThan removes every record whose CreatedAt precedes cutoff. A
// zero CreatedAt (never stamped) is treated as never eligible.
func (s *Store) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, r := range s.records {
		if r.CreatedAt.IsZero() {
			continue
		}
		if r.CreatedAt.Before(cutoff) {
			delete(s.records, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *Store) put(r audit.Record) {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.records[r.EventID] = r
}

// Len reports the number of records currently held. Test-only helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
