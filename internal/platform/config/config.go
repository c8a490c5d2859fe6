// Package config loads engine configuration from the environment so
// cmd/server/main.go stays a thin wiring layer.
package config

import (
	"os"
	"strconv"
	"time"

	"auditengine/pkg/audit"
)

// Config is the full set of environment-driven settings for the audit
// ingestion service.
type Config struct {
	WALFilePath     string
	WALSyncOnAppend bool

	BufferCapacityTrigger int

	FlushIntervalMillis int
	BreakerThreshold    int
	BreakerCooldownMS   int

	RetentionPeriodMillis int
	ClearCron             string

	ExecutorCorePoolSize  int
	ExecutorMaxPoolSize   int
	ExecutorQueueCapacity int
	ExecutorKeepAliveSecs int

	AwaitTerminationSeconds int

	NotifierKafkaBrokers string
	NotifierKafkaTopic   string
	NotifierRedisAddr    string
	NotifierRedisChannel string

	AdminAddr          string
	AdminJWTSigningKey string

	PostgresDSN string
}

// FromEnv builds a Config from environment variables, falling back to the
// documented defaults for anything unset.
func FromEnv() Config {
	return Config{
		WALFilePath:     getString("AUDIT_WAL_FILE_PATH", "audit.wal"),
		WALSyncOnAppend: getBool("AUDIT_WAL_SYNC_ON_APPEND", false),

		BufferCapacityTrigger: getInt("AUDIT_BUFFER_CAPACITY_TRIGGER", 1000),

		FlushIntervalMillis: getInt("AUDIT_FLUSH_INTERVAL_MILLIS", 60_000),
		BreakerThreshold:    getInt("AUDIT_BREAKER_THRESHOLD", 5),
		BreakerCooldownMS:   getInt("AUDIT_BREAKER_COOLDOWN_MILLIS", 60_000),

		RetentionPeriodMillis: getInt("AUDIT_RETENTION_PERIOD_MILLIS", 2_592_000_000),
		ClearCron:             getString("AUDIT_CLEAR_CRON", "0 0 3 * * *"),

		ExecutorCorePoolSize:  getInt("AUDIT_EXECUTOR_CORE_POOL_SIZE", 8),
		ExecutorMaxPoolSize:   getInt("AUDIT_EXECUTOR_MAX_POOL_SIZE", 12),
		ExecutorQueueCapacity: getInt("AUDIT_EXECUTOR_QUEUE_CAPACITY", 500),
		ExecutorKeepAliveSecs: getInt("AUDIT_EXECUTOR_KEEPALIVE_SECONDS", 60),

		AwaitTerminationSeconds: getInt("AUDIT_AWAIT_TERMINATION_SECONDS", 30),

		NotifierKafkaBrokers: getString("AUDIT_NOTIFIER_KAFKA_BROKERS", ""),
		NotifierKafkaTopic:   getString("AUDIT_NOTIFIER_KAFKA_TOPIC", "audit.flushed"),
		NotifierRedisAddr:    getString("AUDIT_NOTIFIER_REDIS_ADDR", ""),
		NotifierRedisChannel: getString("AUDIT_NOTIFIER_REDIS_CHANNEL", "audit:flushed"),

		AdminAddr:          getString("AUDIT_ADMIN_ADDR", ":9090"),
		AdminJWTSigningKey: getString("AUDIT_ADMIN_JWT_SIGNING_KEY", ""),

		PostgresDSN: getString("AUDIT_POSTGRES_DSN", ""),
	}
}

// EngineConfig translates Config into the pkg/audit.Config the engine
// constructor expects.
func (c Config) EngineConfig() audit.Config {
	return audit.Config{
		WALPath:                 c.WALFilePath,
		WALSyncOnAppend:         c.WALSyncOnAppend,
		BufferCapacityHint:      c.BufferCapacityTrigger,
		AwaitTerminationSeconds: c.AwaitTerminationSeconds,
		Flusher: audit.FlusherConfig{
			FlushInterval:    time.Duration(c.FlushIntervalMillis) * time.Millisecond,
			BreakerThreshold: c.BreakerThreshold,
			BreakerCooldown:  time.Duration(c.BreakerCooldownMS) * time.Millisecond,
		},
		Sweeper: audit.SweeperConfig{
			Retention: time.Duration(c.RetentionPeriodMillis) * time.Millisecond,
			Schedule:  c.ClearCron,
		},
		Executor: audit.ExecutorConfig{
			CorePoolSize:  c.ExecutorCorePoolSize,
			MaxPoolSize:   c.ExecutorMaxPoolSize,
			QueueCapacity: c.ExecutorQueueCapacity,
			KeepAlive:     time.Duration(c.ExecutorKeepAliveSecs) * time.Second,
		},
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
