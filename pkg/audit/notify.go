package audit

import (
	"context"
	"time"
)

// FlushedBatch describes a batch that was durably persisted by a
// successful flush, for downstream fan-out.
type FlushedBatch struct {
	Count     int
	FirstSeen time.Time
	LastSeen  time.Time
}

// Notifier is a best-effort fan-out of flush completions. Notification
// failures are logged by the implementation and never affect the
// Flusher's success/failure outcome.
type Notifier interface {
	NotifyFlushed(ctx context.Context, batch FlushedBatch) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyFlushed(context.Context, FlushedBatch) error { return nil }

var _ Notifier = noopNotifier{}
