package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	audit "candilib/pkg/platform/audit"
)

// Store writes audit entries to the audit_log table.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL audit sink.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Write inserts a batch in a single transaction.
func (s *Store) Write(ctx context.Context, entries []audit.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin audit batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO audit_log (id, timestamp, actor, action, subject, detail, request_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("prepare audit insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			uuid.New(),
			e.Timestamp,
			e.Actor,
			string(e.Action),
			e.Subject,
			e.Detail,
			e.RequestID,
		); err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit batch: %w", err)
	}
	return nil
}

// ListRecent returns the N most recent entries.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, actor, action, subject, detail, request_id
		FROM audit_log
		ORDER BY timestamp DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var (
			e      audit.Entry
			action string
		)
		if err := rows.Scan(&e.Timestamp, &e.Actor, &action, &e.Subject, &e.Detail, &e.RequestID); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Action = audit.Action(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}
