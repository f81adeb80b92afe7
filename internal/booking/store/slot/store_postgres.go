package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"candilib/internal/booking/models"
	"candilib/internal/platform/database"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

const defaultPageSize = 100

// PostgresStore persists slots in the places table. Methods use the
// transaction bound to ctx when there is one.
type PostgresStore struct {
	db       *sql.DB
	pageSize int
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, pageSize: defaultPageSize}
}

const slotColumns = `id, centre_id, inspector_id, date, candidat_id, booked_at, created_at`

func (s *PostgresStore) Create(ctx context.Context, slot *models.Slot) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO places (id, centre_id, inspector_id, date, candidat_id, booked_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.UUID(slot.ID), uuid.UUID(slot.CentreID), uuid.UUID(slot.InspectorID), slot.Date,
		nullCandidate(slot.CandidateID), slot.BookedAt, slot.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert slot: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, slotID id.SlotID) (*models.Slot, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+slotColumns+` FROM places WHERE id = $1`, uuid.UUID(slotID))
	slot, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find slot: %w", err)
	}
	return slot, nil
}

// FindFree pages through free slots with keyset pagination on (date, id), so
// a consumer that stops early never loads the remaining pages.
func (s *PostgresStore) FindFree(ctx context.Context, criteria models.SlotCriteria) iter.Seq2[*models.Slot, error] {
	return func(yield func(*models.Slot, error) bool) {
		var (
			afterDate time.Time
			afterID   uuid.UUID
			first     = true
		)
		for {
			page, err := s.freePage(ctx, criteria, first, afterDate, afterID)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, slot := range page {
				if !yield(slot, nil) {
					return
				}
			}
			if len(page) < s.pageSize {
				return
			}
			last := page[len(page)-1]
			first, afterDate, afterID = false, last.Date, uuid.UUID(last.ID)
		}
	}
}

func (s *PostgresStore) freePage(ctx context.Context, c models.SlotCriteria, first bool, afterDate time.Time, afterID uuid.UUID) ([]*models.Slot, error) {
	centreIDs := make([]string, 0, len(c.CentreIDs))
	for _, cid := range c.CentreIDs {
		centreIDs = append(centreIDs, cid.String())
	}
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT `+slotColumns+`
		FROM places
		WHERE candidat_id IS NULL
		  AND ($1::timestamptz IS NULL OR date > $1)
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date < $3)
		  AND ($4::timestamptz IS NULL OR date < $4)
		  AND (cardinality($5::uuid[]) = 0 OR centre_id = ANY($5::uuid[]))
		  AND ($6 OR (date, id) > ($7, $8))
		ORDER BY date, id
		LIMIT $9
	`, nullTime(c.Now), nullTime(c.From), nullTime(c.To), nullTime(c.VisibleBefore),
		pq.Array(centreIDs), first, afterDate, afterID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("query free slots: %w", err)
	}
	defer rows.Close()

	page := make([]*models.Slot, 0, s.pageSize)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		page = append(page, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate free slots: %w", err)
	}
	return page, nil
}

// Reserve is a single conditional UPDATE: it only matches a free slot, so
// exactly one of any number of concurrent callers wins.
func (s *PostgresStore) Reserve(ctx context.Context, slotID id.SlotID, candidateID id.CandidateID, at time.Time) (*models.Slot, error) {
	exec := tx.ExecutorFrom(ctx, s.db)
	row := exec.QueryRowContext(ctx, `
		UPDATE places SET candidat_id = $2, booked_at = $3
		WHERE id = $1 AND candidat_id IS NULL
		RETURNING `+slotColumns,
		uuid.UUID(slotID), uuid.UUID(candidateID), at)
	slot, err := scanSlot(row)
	if err == nil {
		return slot, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM places WHERE id = $1)`, uuid.UUID(slotID)).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check slot: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return nil, sentinel.ErrConflict
}

func (s *PostgresStore) Release(ctx context.Context, slotID id.SlotID) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE places SET candidat_id = NULL, booked_at = NULL WHERE id = $1
	`, uuid.UUID(slotID))
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release slot: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountFutureByCentre(ctx context.Context, centreID id.CentreID, now time.Time) (int, error) {
	var n int
	err := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM places WHERE centre_id = $1 AND date > $2
	`, uuid.UUID(centreID), now).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count future slots: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSlot(row scanner) (*models.Slot, error) {
	var (
		slotID, centreID, inspectorID uuid.UUID
		candidateID                   uuid.NullUUID
		bookedAt                      sql.NullTime
		slot                          models.Slot
	)
	if err := row.Scan(&slotID, &centreID, &inspectorID, &slot.Date, &candidateID, &bookedAt, &slot.CreatedAt); err != nil {
		return nil, err
	}
	slot.ID = id.SlotID(slotID)
	slot.CentreID = id.CentreID(centreID)
	slot.InspectorID = id.InspectorID(inspectorID)
	if candidateID.Valid {
		c := id.CandidateID(candidateID.UUID)
		slot.CandidateID = &c
	}
	if bookedAt.Valid {
		t := bookedAt.Time
		slot.BookedAt = &t
	}
	return &slot, nil
}

func nullCandidate(c *id.CandidateID) uuid.NullUUID {
	if c == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*c), Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
