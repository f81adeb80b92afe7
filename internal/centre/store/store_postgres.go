package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"candilib/internal/centre/models"
	"candilib/internal/platform/database"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

// PostgresStore persists centres in the centres table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const centreColumns = `id, name, address, department, latitude, longitude, active, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, c *models.Centre) error {
	_, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		INSERT INTO centres (`+centreColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, uuid.UUID(c.ID), c.Name, c.Address, c.Department, c.Geo.Latitude, c.Geo.Longitude,
		c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert centre: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	return s.findOne(ctx, `SELECT `+centreColumns+` FROM centres WHERE id = $1`, centreID)
}

// FindByIDForUpdate locks the centre row until the transaction bound to ctx
// ends. Slot creation and deactivation both take it.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	return s.findOne(ctx, `SELECT `+centreColumns+` FROM centres WHERE id = $1 FOR UPDATE`, centreID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, centreID id.CentreID) (*models.Centre, error) {
	row := tx.ExecutorFrom(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(centreID))
	c, err := scanCentre(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find centre: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error) {
	rows, err := tx.ExecutorFrom(ctx, s.db).QueryContext(ctx,
		`SELECT `+centreColumns+` FROM centres WHERE department = $1 ORDER BY name`, department)
	if err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Centre, 0)
	for rows.Next() {
		c, err := scanCentre(rows)
		if err != nil {
			return nil, fmt.Errorf("scan centre: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list centres: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, c *models.Centre) error {
	res, err := tx.ExecutorFrom(ctx, s.db).ExecContext(ctx, `
		UPDATE centres
		SET name = $2, address = $3, department = $4, latitude = $5, longitude = $6,
		    active = $7, updated_at = $8
		WHERE id = $1
	`, uuid.UUID(c.ID), c.Name, c.Address, c.Department, c.Geo.Latitude, c.Geo.Longitude,
		c.Active, c.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("update centre: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update centre: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCentre(row scanner) (*models.Centre, error) {
	var (
		c     models.Centre
		rawID uuid.UUID
	)
	if err := row.Scan(&rawID, &c.Name, &c.Address, &c.Department, &c.Geo.Latitude, &c.Geo.Longitude,
		&c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.ID = id.CentreID(rawID)
	return &c, nil
}
