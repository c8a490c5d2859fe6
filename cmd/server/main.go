package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"auditengine/internal/jwt_token"
	"auditengine/internal/platform/adminapi"
	"auditengine/internal/platform/config"
	"auditengine/internal/platform/httpmiddleware"
	"auditengine/internal/platform/httpserver"
	"auditengine/internal/platform/logger"
	"auditengine/internal/platform/metrics"
	"auditengine/internal/platform/notify"
	"auditengine/internal/platform/tracing"
	"auditengine/pkg/audit"
	"auditengine/pkg/audit/store/memory"
	"auditengine/pkg/audit/store/postgres"
)

// main wires the audit ingestion engine's storage, observability, and
// notification adapters, starts it, and serves the admin API until an
// interrupt or termination signal arrives.
func main() {
	cfg := config.FromEnv()
	log := logger.New(os.Getenv("LOG_LEVEL"))

	store, closeStore := buildStore(cfg, log)
	defer closeStore()

	m := metrics.New()
	tracerProvider := tracing.New("auditengine")
	engineTracer := tracerProvider.NewEngineTracer("audit")

	notifier, closeNotifier := buildNotifier(cfg, log)
	defer closeNotifier()

	engine := audit.NewEngine(store, log, m, notifier, engineTracer, cfg.EngineConfig())

	admin := adminapi.New(engine.Sweeper(), log)
	adminSrv := httpserver.New(cfg.AdminAddr, admin.Router(buildTokenValidator(cfg)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.Start(ctx); err != nil {
		log.Error("engine failed to start", "error", err)
		os.Exit(1)
	}

	go func() {
		log.Info("admin API listening", "addr", cfg.AdminAddr)
		if err := adminSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("admin API server error", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := adminSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("admin API shutdown failed", "error", err)
	}

	engine.Shutdown(shutdownCtx)

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
}

// buildTokenValidator returns a nil interface (admin auth disabled) unless
// an admin signing key is configured. jwttoken.Service already satisfies
// httpmiddleware.TokenValidator, so no adapter is needed — but a typed nil
// *jwttoken.Service assigned directly to the interface would not compare
// equal to nil, so the empty case is returned as a bare nil.
func buildTokenValidator(cfg config.Config) httpmiddleware.TokenValidator {
	if cfg.AdminJWTSigningKey == "" {
		return nil
	}
	return jwttoken.NewService(cfg.AdminJWTSigningKey, "auditengine")
}

func buildStore(cfg config.Config, log *slog.Logger) (audit.Store, func()) {
	if cfg.PostgresDSN == "" {
		log.Info("postgres DSN unset, using in-memory audit store")
		return memory.New(), func() {}
	}

	db, err := postgres.Open(cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to open postgres store, falling back to in-memory", "error", err)
		return memory.New(), func() {}
	}
	return postgres.New(db), func() { closeDB(db, log) }
}

func closeDB(db *sql.DB, log *slog.Logger) {
	if err := db.Close(); err != nil {
		log.Error("failed to close postgres connection", "error", err)
	}
}

func buildNotifier(cfg config.Config, log *slog.Logger) (audit.Notifier, func()) {
	var notifiers []audit.Notifier
	var closers []func()

	if cfg.NotifierKafkaBrokers != "" {
		kafkaNotifier, err := notify.NewKafkaNotifier(context.Background(), cfg.NotifierKafkaBrokers, cfg.NotifierKafkaTopic, log)
		if err != nil {
			log.Error("failed to build kafka notifier, skipping", "error", err)
		} else {
			notifiers = append(notifiers, kafkaNotifier)
			closers = append(closers, kafkaNotifier.Close)
		}
	}

	if cfg.NotifierRedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.NotifierRedisAddr})
		notifiers = append(notifiers, notify.NewRedisNotifier(client, cfg.NotifierRedisChannel))
		closers = append(closers, func() { _ = client.Close() })
	}

	multi := notify.NewMultiNotifier(notifiers...)
	return multi, func() {
		for _, c := range closers {
			c()
		}
	}
}
