//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

const auditRecordsSchema = `
CREATE TABLE audit_records (
	event_id          TEXT PRIMARY KEY,
	event_name        TEXT NOT NULL,
	event_type        TEXT NOT NULL,
	action_timestamp  TIMESTAMPTZ NOT NULL,
	host_name         TEXT NOT NULL,
	host_ip           TEXT NOT NULL,
	application_id    TEXT NOT NULL,
	application_name  TEXT NOT NULL,
	session_user_id   TEXT NOT NULL,
	session_user_name TEXT,
	created_by        TEXT NOT NULL,
	id                TEXT,
	id_type           TEXT,
	module_name       TEXT,
	module_id         TEXT,
	description       TEXT,
	created_at        TIMESTAMPTZ NOT NULL
)`

// NewPostgresContainer starts a PostgreSQL container and creates the
// audit_records table.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("audit"),
		tcpostgres.WithUsername("audit"),
		tcpostgres.WithPassword("audit"),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, auditRecordsSchema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to create audit_records table: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}
