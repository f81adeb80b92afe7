package service

import (
	"context"
	"database/sql"
	"hash/fnv"
	"sync"
	"time"

	"candilib/internal/platform/database"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/tx"
)

// defaultTxTimeout bounds a booking transaction when the caller set no
// deadline.
const defaultTxTimeout = 5 * time.Second

// numTxShards is the number of per-candidate lock shards of the in-memory
// runner.
const numTxShards = 128

// ShardedTx is the in-memory StoreTx. Work on one candidate is serialized by
// a sharded mutex; store mutations register undo steps on a journal that is
// replayed when fn fails. The deadline is checked before fn runs, never after.
type ShardedTx struct {
	shards  [numTxShards]sync.Mutex
	timeout time.Duration
}

// NewShardedTx returns an in-memory runner. A zero timeout uses the default.
func NewShardedTx(timeout time.Duration) *ShardedTx {
	return &ShardedTx{timeout: timeout}
}

func (t *ShardedTx) RunInTx(ctx context.Context, key string, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	shard := &t.shards[shardOf(key)]
	shard.Lock()
	defer shard.Unlock()

	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	// In-memory mutations are visible to other shards as soon as they are
	// made, so fn returning nil is the commit point. A deadline that passes
	// afterwards must not replay the journal over state others now own.
	journal := &tx.Journal{}
	if err := fn(tx.WithJournal(ctx, journal)); err != nil {
		journal.Rollback()
		return err
	}
	return nil
}

func shardOf(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % numTxShards
}

// PostgresTx runs fn inside a SQL transaction bound to the context, where the
// Postgres stores pick it up.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

// NewPostgresTx returns a SQL runner. A zero timeout uses the default.
func NewPostgresTx(db *sql.DB, timeout time.Duration) *PostgresTx {
	return &PostgresTx{db: db, timeout: timeout}
}

func (t *PostgresTx) RunInTx(ctx context.Context, _ string, fn func(txCtx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	ctx, cancel := withTimeout(ctx, t.timeout)
	defer cancel()

	sqlTx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeStorageFailure, "failed to begin transaction")
	}
	defer func() {
		_ = sqlTx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		// uq_places_candidat is deferred: a second slot for one candidate
		// surfaces here.
		if database.IsUniqueViolation(err) {
			return dErrors.Wrap(err, dErrors.CodeConflict, "candidate booking changed concurrently")
		}
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeStorageFailure, "failed to commit transaction")
	}
	return nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
