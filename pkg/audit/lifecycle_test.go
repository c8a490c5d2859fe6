package audit_test

import (
	"context"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"auditengine/pkg/audit"
	"auditengine/pkg/audit/store/memory"
)

// countingMetrics is a bare-bones Metrics double that only tracks how many
// times ObserveWALDisabled was called; every other method is a no-op.
type countingMetrics struct {
	walDisabled atomic.Int64
}

func (m *countingMetrics) SetBufferSize(int)                    {}
func (m *countingMetrics) ObserveFlush(int, time.Duration, bool) {}
func (m *countingMetrics) ObserveWALAppendFailure()              {}
func (m *countingMetrics) ObserveWALDisabled()                   { m.walDisabled.Add(1) }
func (m *countingMetrics) ObserveSweep(int, time.Duration, bool) {}
func (m *countingMetrics) ObserveValidationRejected()             {}
func (m *countingMetrics) ObserveCapacityTrigger()                {}

func TestEngine_ReplaysWALOnStart(t *testing.T) {
	walPath := filepath.Join(t.TempDir(), "audit.wal")

	// Simulate a crash: append to a WAL directly, then close it, before
	// any Engine exists.
	crashedWAL := audit.NewWAL(walPath, discardLogger())
	require.NoError(t, crashedWAL.AppendOne(validRecord()))
	require.NoError(t, crashedWAL.Close())

	store := memory.New()
	cfg := audit.DefaultConfig()
	cfg.WALPath = walPath
	cfg.Flusher.FlushInterval = time.Hour // don't race the scheduled flush
	cfg.Sweeper.Retention = 0

	engine := audit.NewEngine(store, discardLogger(), nil, nil, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, engine.Start(ctx))

	engine.Shutdown(context.Background())

	require.Equal(t, 1, store.Len(), "recovered record must reach the store on final shutdown flush")
}

func TestEngine_StartObservesWALDisabledMetric(t *testing.T) {
	unwritable := filepath.Join(t.TempDir(), "no-such-dir", "audit.wal")

	store := memory.New()
	cfg := audit.DefaultConfig()
	cfg.WALPath = unwritable
	cfg.Flusher.FlushInterval = time.Hour
	cfg.Sweeper.Retention = 0

	metrics := &countingMetrics{}
	engine := audit.NewEngine(store, discardLogger(), metrics, nil, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, engine.Start(ctx))
	engine.Shutdown(context.Background())

	require.EqualValues(t, 1, metrics.walDisabled.Load())
}

func TestEngine_EndToEndAsyncIngestFlushesOnShutdown(t *testing.T) {
	walPath := filepath.Join(t.TempDir(), "audit.wal")
	store := memory.New()

	cfg := audit.DefaultConfig()
	cfg.WALPath = walPath
	cfg.Flusher.FlushInterval = time.Hour
	cfg.Sweeper.Retention = 0

	engine := audit.NewEngine(store, discardLogger(), nil, nil, nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, engine.Start(ctx))

	require.NoError(t, engine.Ingestion.AddAuditAsync(validRecord()))
	engine.Shutdown(context.Background())

	require.Equal(t, 1, store.Len())
}
