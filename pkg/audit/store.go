package audit

import (
	"context"
	"time"
)

// Store is the external persistence collaborator. Its SQL schema,
// connection pooling, and ORM mapping are out of scope for this engine —
// only this interface is depended on. Implementations must tolerate
// at-least-once delivery: the Flusher may retry a batch after a partial
// failure, so addAudits/updateAudits must be idempotent on eventId (a
// primary-key uniqueness constraint or an upsert is sufficient).
type Store interface {
	// AddAudit persists a single record synchronously.
	AddAudit(ctx context.Context, record Record) (bool, error)
	// AddAudits persists a batch. Implementations key idempotency on
	// eventId, not the business-subject id field (see DESIGN.md).
	AddAudits(ctx context.Context, records []Record) (bool, error)
	// UpdateAudits applies updates keyed on eventId.
	UpdateAudits(ctx context.Context, records []Record) (bool, error)
	// DeleteOlderThan removes records with createdAt before cutoff and
	// returns the count deleted. A count of zero is not an error.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}
