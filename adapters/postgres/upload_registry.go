// Package postgres holds the optional upload audit registry. The
// filesystem store remains the source of truth for workbook listing; the
// registry only records upload and delete events for audit queries.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// UploadEvent is one recorded upload or delete.
type UploadEvent struct {
	ID         int64     `db:"id" json:"id"`
	Workbook   string    `db:"workbook" json:"workbook"`
	Action     string    `db:"action" json:"action"`
	SizeBytes  int64     `db:"size_bytes" json:"size_bytes"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// uploadRegistry implements the audit registry on Postgres.
type uploadRegistry struct {
	db *sqlx.DB
}

// UploadRegistry records workbook lifecycle events.
type UploadRegistry interface {
	RecordUpload(ctx context.Context, workbook string, sizeBytes int64) error
	RecordDelete(ctx context.Context, workbook string) error
	RecentEvents(ctx context.Context, limit int) ([]UploadEvent, error)
}

// NewUploadRegistry connects to Postgres and ensures the events table
// exists.
func NewUploadRegistry(databaseURL string) (UploadRegistry, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to registry database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS upload_events (
		id BIGSERIAL PRIMARY KEY,
		workbook TEXT NOT NULL,
		action TEXT NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		occurred_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to ensure upload_events table: %w", err)
	}

	return &uploadRegistry{db: db}, nil
}

// RecordUpload records a stored workbook.
func (r *uploadRegistry) RecordUpload(ctx context.Context, workbook string, sizeBytes int64) error {
	query := `INSERT INTO upload_events (workbook, action, size_bytes) VALUES ($1, 'upload', $2)`
	if _, err := r.db.ExecContext(ctx, query, workbook, sizeBytes); err != nil {
		return fmt.Errorf("failed to record upload: %w", err)
	}
	return nil
}

// RecordDelete records a workbook deletion.
func (r *uploadRegistry) RecordDelete(ctx context.Context, workbook string) error {
	query := `INSERT INTO upload_events (workbook, action) VALUES ($1, 'delete')`
	if _, err := r.db.ExecContext(ctx, query, workbook); err != nil {
		return fmt.Errorf("failed to record delete: %w", err)
	}
	return nil
}

// RecentEvents returns the newest events first.
func (r *uploadRegistry) RecentEvents(ctx context.Context, limit int) ([]UploadEvent, error) {
	query := `SELECT id, workbook, action, size_bytes, occurred_at
		FROM upload_events ORDER BY occurred_at DESC, id DESC LIMIT $1`

	var events []UploadEvent
	if err := r.db.SelectContext(ctx, &events, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list upload events: %w", err)
	}
	return events, nil
}
