// Package postgres implements a durable Postgres store for archived audit
// events.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gantryhq/gantry/pkg/types"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS audit_events (
    id            BIGSERIAL PRIMARY KEY,
    kind          TEXT NOT NULL,
    asset_id      TEXT,
    work_order_id TEXT,
    technician_id TEXT,
    message       TEXT,
    details       JSONB,
    occurred_at   TIMESTAMPTZ NOT NULL,
    archived_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_audit_events_kind ON audit_events (kind);
CREATE INDEX IF NOT EXISTS idx_audit_events_asset ON audit_events (asset_id);
CREATE INDEX IF NOT EXISTS idx_audit_events_occurred_at ON audit_events (occurred_at);
`

// Store is a Postgres-backed archival store for audit events.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new Postgres Store and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Migrate runs the schema DDL to create tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// InsertEvents writes a batch of audit events in one transaction.
func (s *Store) InsertEvents(ctx context.Context, events []types.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, ev := range events {
		detailsJSON, err := json.Marshal(ev.Details)
		if err != nil {
			return fmt.Errorf("marshal event details: %w", err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO audit_events (kind, asset_id, work_order_id, technician_id, message, details, occurred_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, string(ev.Kind), ev.AssetID, ev.OrderID, ev.TechnicianID, ev.Message, detailsJSON, ev.Timestamp)
		if err != nil {
			return fmt.Errorf("insert audit event: %w", err)
		}
	}
	return tx.Commit(ctx)
}
