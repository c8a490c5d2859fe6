// Package postgres provides a PostgreSQL-backed audit.Store, driven by
// database/sql and github.com/lib/pq. It expects an audit_records table
// with an eventId primary key; DDL/migrations are out of scope.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"auditengine/pkg/audit"

	_ "github.com/lib/pq"
)

// Store implements audit.Store against a PostgreSQL audit_records table.
// AddAudit/AddAudits/UpdateAudits key idempotency on eventId via
// INSERT ... ON CONFLICT (event_id) DO UPDATE, so a redelivered batch
// after a partial flush failure never double-inserts.
type Store struct {
	db *sql.DB
}

// New wraps an already-opened *sql.DB. The caller owns its lifecycle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens a PostgreSQL connection pool for dsn using the lib/pq driver.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}
	return db, nil
}

const upsertQuery = `
INSERT INTO audit_records (
	event_id, event_name, event_type, action_timestamp, host_name, host_ip,
	application_id, application_name, session_user_id, session_user_name,
	created_by, id, id_type, module_name, module_id, description, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (event_id) DO UPDATE SET
	event_name = EXCLUDED.event_name,
	event_type = EXCLUDED.event_type,
	action_timestamp = EXCLUDED.action_timestamp,
	host_name = EXCLUDED.host_name,
	host_ip = EXCLUDED.host_ip,
	application_id = EXCLUDED.application_id,
	application_name = EXCLUDED.application_name,
	session_user_id = EXCLUDED.session_user_id,
	session_user_name = EXCLUDED.session_user_name,
	created_by = EXCLUDED.created_by,
	id = EXCLUDED.id,
	id_type = EXCLUDED.id_type,
	module_name = EXCLUDED.module_name,
	module_id = EXCLUDED.module_id,
	description = EXCLUDED.description
`

// AddAudit upserts a single record within its own transaction.
func (s *Store) AddAudit(ctx context.Context, record audit.Record) (bool, error) {
	return s.AddAudits(ctx, []audit.Record{record})
}

// AddAudits upserts a batch inside a single transaction: either the whole
// batch commits or none of it does, so a Flusher retry after a failure
// never leaves a partially-applied batch behind.
func (s *Store) AddAudits(ctx context.Context, records []audit.Record) (bool, error) {
	if len(records) == 0 {
		return true, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("postgres: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertQuery)
	if err != nil {
		return false, fmt.Errorf("postgres: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(ctx,
			r.EventID, r.EventName, r.EventType, r.ActionTimeStamp, r.HostName, r.HostIP,
			r.ApplicationID, r.ApplicationName, r.SessionUserID, nullable(r.SessionUserName),
			r.CreatedBy, nullable(r.ID), nullable(r.IDType), nullable(r.ModuleName),
			nullable(r.ModuleID), nullable(r.Description), createdAt,
		); err != nil {
			return false, fmt.Errorf("postgres: upsert record %s: %w", r.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("postgres: commit: %w", err)
	}
	return true, nil
}

// UpdateAudits shares the upsert path: keying on eventId makes update and
// insert the same statement.
func (s *Store) UpdateAudits(ctx context.Context, records []audit.Record) (bool, error) {
	return s.AddAudits(ctx, records)
}

// DeleteOlderThan removes rows whose created_at precedes cutoff and
// reports the number deleted.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_records WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("postgres: delete older than %s: %w", cutoff, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("postgres: rows affected: %w", err)
	}
	return int(n), nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
