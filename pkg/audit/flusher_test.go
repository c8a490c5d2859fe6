package audit_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"auditengine/pkg/audit"
	"auditengine/pkg/audit/mocks"
)

func newTestWAL(t *testing.T) *audit.WAL {
	t.Helper()
	return audit.NewWAL(filepath.Join(t.TempDir(), "audit.wal"), discardLogger())
}

func TestFlusher_EmptyBufferSkipsStoreCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	buffer := audit.NewBuffer()
	wal := newTestWAL(t)
	flusher := audit.NewFlusher(buffer, wal, store, discardLogger(), nil, nil, nil, audit.DefaultFlusherConfig())

	// No AddAudits expectation set: the mock controller fails the test if
	// it is called.
	flusher.Flush(context.Background())
}

func TestFlusher_SuccessfulFlushDrainsBufferAndTruncatesWAL(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	buffer := audit.NewBuffer()
	wal := newTestWAL(t)
	r := validRecord()
	buffer.Add(r)
	require.NoError(t, wal.AppendOne(r))

	store.EXPECT().AddAudits(gomock.Any(), gomock.Any()).Return(true, nil)

	flusher := audit.NewFlusher(buffer, wal, store, discardLogger(), nil, nil, nil, audit.DefaultFlusherConfig())
	flusher.Flush(context.Background())

	require.Equal(t, 0, buffer.Size())
	result, err := wal.Replay()
	require.NoError(t, err)
	require.Empty(t, result.Records)
}

func TestFlusher_FailedFlushRetainsBufferAndWAL(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	buffer := audit.NewBuffer()
	wal := newTestWAL(t)
	r := validRecord()
	buffer.Add(r)
	require.NoError(t, wal.AppendOne(r))

	store.EXPECT().AddAudits(gomock.Any(), gomock.Any()).Return(false, errors.New("store unavailable"))

	flusher := audit.NewFlusher(buffer, wal, store, discardLogger(), nil, nil, nil, audit.DefaultFlusherConfig())
	flusher.Flush(context.Background())

	require.Equal(t, 1, buffer.Size())
	result, err := wal.Replay()
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
}

func TestFlusher_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	buffer := audit.NewBuffer()
	wal := newTestWAL(t)

	cfg := audit.DefaultFlusherConfig()
	cfg.BreakerThreshold = 2
	cfg.BreakerCooldown = time.Hour

	flusher := audit.NewFlusher(buffer, wal, store, discardLogger(), nil, nil, nil, cfg)

	store.EXPECT().AddAudits(gomock.Any(), gomock.Any()).Return(false, errors.New("boom")).Times(2)

	buffer.Add(validRecord())
	flusher.Flush(context.Background())
	buffer.Add(validRecord())
	flusher.Flush(context.Background())

	// Third attempt: breaker is open, store must not be called again.
	buffer.Add(validRecord())
	flusher.Flush(context.Background())

	require.Equal(t, 3, buffer.Size())
}

func TestFlusher_NotifierFiresOnlyOnSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	buffer := audit.NewBuffer()
	wal := newTestWAL(t)
	buffer.Add(validRecord())

	store.EXPECT().AddAudits(gomock.Any(), gomock.Any()).Return(true, nil)

	notified := make(chan audit.FlushedBatch, 1)
	notifier := notifierFunc(func(_ context.Context, batch audit.FlushedBatch) error {
		notified <- batch
		return nil
	})

	flusher := audit.NewFlusher(buffer, wal, store, discardLogger(), nil, notifier, nil, audit.DefaultFlusherConfig())
	flusher.Flush(context.Background())

	select {
	case batch := <-notified:
		require.Equal(t, 1, batch.Count)
	default:
		t.Fatal("expected NotifyFlushed to be called")
	}
}

type notifierFunc func(ctx context.Context, batch audit.FlushedBatch) error

func (f notifierFunc) NotifyFlushed(ctx context.Context, batch audit.FlushedBatch) error {
	return f(ctx, batch)
}
