package tx

import (
	"context"
	"database/sql"
	"sync"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Executor is the subset of *sql.DB and *sql.Tx used by Postgres stores.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ExecutorFrom returns the transaction bound to ctx, or db when there is none.
func ExecutorFrom(ctx context.Context, db *sql.DB) Executor {
	if tx, ok := From(ctx); ok {
		return tx
	}
	return db
}

type journalKey struct{}

// Journal collects undo steps for in-memory stores so that an in-memory
// transaction can be rolled back like a SQL one.
type Journal struct {
	mu   sync.Mutex
	undo []func()
}

// WithJournal binds j to ctx.
func WithJournal(ctx context.Context, j *Journal) context.Context {
	return context.WithValue(ctx, journalKey{}, j)
}

// RecordUndo registers fn on the journal bound to ctx. Outside a transaction
// it is a no-op: the mutation is final.
func RecordUndo(ctx context.Context, fn func()) {
	j, ok := ctx.Value(journalKey{}).(*Journal)
	if !ok || j == nil {
		return
	}
	j.mu.Lock()
	j.undo = append(j.undo, fn)
	j.mu.Unlock()
}

// Rollback runs recorded undo steps in reverse order and clears the journal.
func (j *Journal) Rollback() {
	j.mu.Lock()
	steps := j.undo
	j.undo = nil
	j.mu.Unlock()
	for i := len(steps) - 1; i >= 0; i-- {
		steps[i]()
	}
}

// Len returns the number of pending undo steps.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.undo)
}
