package notify

import (
	"context"
	"errors"

	"auditengine/pkg/audit"
)

// MultiNotifier fans a single flush notification out to every configured
// backend. A failure on one backend does not prevent the others from
// being tried; all errors are joined and returned to the caller, which
// (per audit.Notifier's contract) only logs them.
type MultiNotifier struct {
	notifiers []audit.Notifier
}

// NewMultiNotifier combines zero or more notifiers. With zero notifiers
// it behaves as a no-op.
func NewMultiNotifier(notifiers ...audit.Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// NotifyFlushed calls every backend and joins their errors.
func (m *MultiNotifier) NotifyFlushed(ctx context.Context, batch audit.FlushedBatch) error {
	var errs []error
	for _, n := range m.notifiers {
		if err := n.NotifyFlushed(ctx, batch); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ audit.Notifier = (*MultiNotifier)(nil)
