package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"candilib/internal/booking/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

// PostgresStore appends to the archived_places table. The table also carries
// a CHECK constraint on reason.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Append(ctx context.Context, e *models.ArchivedBooking) error {
	if !e.Reason.IsValid() {
		return sentinel.ErrInvalidState
	}
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO archived_places (id, place_id, centre_id, inspector_id, date, candidat_id,
			reason, archived_at, acting_user, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, uuid.UUID(e.ID), uuid.UUID(e.SlotID), uuid.UUID(e.CentreID), uuid.UUID(e.InspectorID), e.Date,
		uuid.UUID(e.CandidateID), string(e.Reason), e.ArchivedAt, e.ActingUser, e.BookedAt)
	if err != nil {
		return fmt.Errorf("append archive: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.ArchivedBooking, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT id, place_id, centre_id, inspector_id, date, candidat_id, reason, archived_at, acting_user, booked_at
		FROM archived_places
		WHERE candidat_id = $1
		ORDER BY archived_at, id
	`, uuid.UUID(candidateID))
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ArchivedBooking, 0)
	for rows.Next() {
		var (
			e                                        models.ArchivedBooking
			archiveID, slotID, centreID, inspectorID uuid.UUID
			candID                                   uuid.UUID
			reason                                   string
			bookedAt                                 sql.NullTime
		)
		if err := rows.Scan(&archiveID, &slotID, &centreID, &inspectorID, &e.Date, &candID,
			&reason, &e.ArchivedAt, &e.ActingUser, &bookedAt); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		e.ID = id.ArchiveID(archiveID)
		e.SlotID = id.SlotID(slotID)
		e.CentreID = id.CentreID(centreID)
		e.InspectorID = id.InspectorID(inspectorID)
		e.CandidateID = id.CandidateID(candID)
		e.Reason = models.ArchiveReason(reason)
		if bookedAt.Valid {
			t := bookedAt.Time
			e.BookedAt = &t
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archives: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) CountByReasonAndPeriod(ctx context.Context, from, to time.Time) ([]models.ReasonCount, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT reason, COUNT(*)
		FROM archived_places
		WHERE archived_at >= $1 AND archived_at < $2
		GROUP BY reason
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("count archives by reason: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ArchiveReason]int)
	for rows.Next() {
		var (
			reason string
			n      int
		)
		if err := rows.Scan(&reason, &n); err != nil {
			return nil, fmt.Errorf("scan reason count: %w", err)
		}
		counts[models.ArchiveReason(reason)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reason counts: %w", err)
	}
	out := make([]models.ReasonCount, 0, len(counts))
	for _, r := range models.ArchiveReasons() {
		if n := counts[r]; n > 0 {
			out = append(out, models.ReasonCount{Reason: r, Count: n})
		}
	}
	return out, nil
}

func (s *PostgresStore) CountByOutcomeAndCentre(ctx context.Context, from, to time.Time) ([]models.CentreOutcomeCount, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx, `
		SELECT centre_id, reason, COUNT(*)
		FROM archived_places
		WHERE date >= $1 AND date < $2
		  AND reason IN ('exam-passed', 'exam-failed', 'absent')
		GROUP BY centre_id, reason
		ORDER BY centre_id, reason
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("count outcomes by centre: %w", err)
	}
	defer rows.Close()

	out := make([]models.CentreOutcomeCount, 0)
	for rows.Next() {
		var (
			centreID uuid.UUID
			reason   string
			n        int
		)
		if err := rows.Scan(&centreID, &reason, &n); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		out = append(out, models.CentreOutcomeCount{CentreID: id.CentreID(centreID), Reason: models.ArchiveReason(reason), Count: n})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcome counts: %w", err)
	}
	return out, nil
}
