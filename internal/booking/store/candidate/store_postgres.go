package candidate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"candilib/internal/booking/models"
	"candilib/internal/platform/database"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

// PostgresStore persists candidates in the candidats table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const candidateColumns = `id, code_neph, nom_naissance, email, theory_passed_at, aurige_validated,
	failures, can_book_from, place_id, passed_at, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Candidate) error {
	failures, err := json.Marshal(c.Failures)
	if err != nil {
		return fmt.Errorf("encode failures: %w", err)
	}
	_, err = tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO candidats (`+candidateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, uuid.UUID(c.ID), c.CodeNEPH, c.BirthName, c.Email, c.TheoryPassedAt, c.AurigeValidated,
		failures, c.CanBookFrom, nullSlot(c.PlaceID), c.PassedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert candidate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	return s.findOne(ctx, `SELECT `+candidateColumns+` FROM candidats WHERE id = $1`, uuid.UUID(candidateID))
}

// FindByIDForUpdate locks the candidate row until the surrounding transaction
// ends. Concurrent bookings for the same candidate queue here.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	if _, ok := tx.From(ctx); !ok {
		return nil, fmt.Errorf("find candidate for update: %w", sentinel.ErrInvalidState)
	}
	return s.findOne(ctx, `SELECT `+candidateColumns+` FROM candidats WHERE id = $1 FOR UPDATE`, uuid.UUID(candidateID))
}

func (s *PostgresStore) FindByNEPH(ctx context.Context, codeNEPH string) (*models.Candidate, error) {
	return s.findOne(ctx, `SELECT `+candidateColumns+` FROM candidats WHERE code_neph = $1`, codeNEPH)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.Candidate, error) {
	c, err := scanCandidate(tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	return c, nil
}

// Update writes every mutable column. Identity keys are immutable.
func (s *PostgresStore) Update(ctx context.Context, c *models.Candidate) error {
	failures, err := json.Marshal(c.Failures)
	if err != nil {
		return fmt.Errorf("encode failures: %w", err)
	}
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE candidats SET
			theory_passed_at = $2,
			aurige_validated = $3,
			failures = $4,
			can_book_from = $5,
			place_id = $6,
			passed_at = $7,
			updated_at = $8
		WHERE id = $1
	`, uuid.UUID(c.ID), c.TheoryPassedAt, c.AurigeValidated, failures, c.CanBookFrom,
		nullSlot(c.PlaceID), c.PassedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update candidate: %w", err)
	}
	return requireOneRow(res)
}

// SetPlace is a compare-and-set on place_id.
func (s *PostgresStore) SetPlace(ctx context.Context, candidateID id.CandidateID, expected, next *id.SlotID, now time.Time) error {
	exec := tx.ExecutorFrom(ctx, s.db)
	res, err := exec.ExecContext(ctx, `
		UPDATE candidats SET place_id = $3, updated_at = $4
		WHERE id = $1 AND place_id IS NOT DISTINCT FROM $2
	`, uuid.UUID(candidateID), nullSlot(expected), nullSlot(next), now)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("set candidate place: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set candidate place: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists bool
	if err := exec.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM candidats WHERE id = $1)`, uuid.UUID(candidateID)).Scan(&exists); err != nil {
		return fmt.Errorf("check candidate: %w", err)
	}
	if !exists {
		return sentinel.ErrNotFound
	}
	return sentinel.ErrConflict
}

func (s *PostgresStore) ListBooked(ctx context.Context) ([]*models.Candidate, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+candidateColumns+` FROM candidats WHERE place_id IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list booked candidates: %w", err)
	}
	defer rows.Close()
	var out []*models.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCandidate(row scanner) (*models.Candidate, error) {
	var (
		c            models.Candidate
		candidateID  uuid.UUID
		placeID      uuid.NullUUID
		failures     []byte
		theoryPassed sql.NullTime
		canBookFrom  sql.NullTime
		passedAt     sql.NullTime
	)
	if err := row.Scan(&candidateID, &c.CodeNEPH, &c.BirthName, &c.Email, &theoryPassed, &c.AurigeValidated,
		&failures, &canBookFrom, &placeID, &passedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CandidateID(candidateID)
	if err := json.Unmarshal(failures, &c.Failures); err != nil {
		return nil, fmt.Errorf("decode failures: %w", err)
	}
	if c.Failures == nil {
		c.Failures = []models.Failure{}
	}
	c.TheoryPassedAt = timePtr(theoryPassed)
	c.CanBookFrom = timePtr(canBookFrom)
	c.PassedAt = timePtr(passedAt)
	if placeID.Valid {
		p := id.SlotID(placeID.UUID)
		c.PlaceID = &p
	}
	return &c, nil
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullSlot(p *id.SlotID) uuid.NullUUID {
	if p == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: uuid.UUID(*p), Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
