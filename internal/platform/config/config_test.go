package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_UsesDefaultsWhenUnset(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, "audit.wal", cfg.WALFilePath)
	assert.False(t, cfg.WALSyncOnAppend)
	assert.Equal(t, 1000, cfg.BufferCapacityTrigger)
	assert.Equal(t, "0 0 3 * * *", cfg.ClearCron)
	assert.Equal(t, 2_592_000_000, cfg.RetentionPeriodMillis)
	assert.Equal(t, 8, cfg.ExecutorCorePoolSize)
	assert.Equal(t, 12, cfg.ExecutorMaxPoolSize)
	assert.Equal(t, 500, cfg.ExecutorQueueCapacity)
}

func TestFromEnv_ReadsOverrides(t *testing.T) {
	t.Setenv("AUDIT_WAL_FILE_PATH", "/tmp/custom.wal")
	t.Setenv("AUDIT_WAL_SYNC_ON_APPEND", "true")
	t.Setenv("AUDIT_BUFFER_CAPACITY_TRIGGER", "250")
	t.Setenv("AUDIT_RETENTION_PERIOD_MILLIS", "86400000")

	cfg := FromEnv()

	assert.Equal(t, "/tmp/custom.wal", cfg.WALFilePath)
	assert.True(t, cfg.WALSyncOnAppend)
	assert.Equal(t, 250, cfg.BufferCapacityTrigger)
	assert.Equal(t, 86400000, cfg.RetentionPeriodMillis)
}

func TestFromEnv_IgnoresUnparseableOverrides(t *testing.T) {
	t.Setenv("AUDIT_BUFFER_CAPACITY_TRIGGER", "not-a-number")

	cfg := FromEnv()

	assert.Equal(t, 1000, cfg.BufferCapacityTrigger)
}

func TestEngineConfig_TranslatesMillisToDuration(t *testing.T) {
	cfg := Config{
		FlushIntervalMillis:   60_000,
		BreakerThreshold:      5,
		BreakerCooldownMS:     60_000,
		ExecutorKeepAliveSecs: 60,
	}

	ec := cfg.EngineConfig()

	assert.Equal(t, 60*time.Second, ec.Flusher.FlushInterval)
	assert.Equal(t, 5, ec.Flusher.BreakerThreshold)
	assert.Equal(t, time.Minute, ec.Flusher.BreakerCooldown)
	assert.Equal(t, 60*time.Second, ec.Executor.KeepAlive)
}
