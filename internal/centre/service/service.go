// Package service manages exam centres and answers the booking engine's
// questions about them (which centres serve a department, whether a centre
// still accepts slots).
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juju/clock"

	"candilib/internal/centre/models"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/audit"
	"candilib/pkg/platform/sentinel"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store SlotCounter Auditor

type Store interface {
	Create(ctx context.Context, c *models.Centre) error
	FindByID(ctx context.Context, centreID id.CentreID) (*models.Centre, error)
	FindByIDForUpdate(ctx context.Context, centreID id.CentreID) (*models.Centre, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error)
	Update(ctx context.Context, c *models.Centre) error
}

// SlotCounter reports how many slots a centre still has ahead of now.
type SlotCounter interface {
	CountFutureByCentre(ctx context.Context, centreID id.CentreID, now time.Time) (int, error)
}

type Auditor interface {
	Record(ctx context.Context, entry audit.Entry)
}

// TxRunner is the booking StoreTx. Sharing one runner with the booking
// service is what makes slot creation and deactivation exclusive.
type TxRunner interface {
	RunInTx(ctx context.Context, key string, fn func(txCtx context.Context) error) error
}

type inline struct{}

func (inline) RunInTx(ctx context.Context, _ string, fn func(context.Context) error) error {
	return fn(ctx)
}

type Service struct {
	store   Store
	slots   SlotCounter
	clock   clock.Clock
	auditor Auditor
	tx      TxRunner
	logger  *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

func WithTx(t TxRunner) Option {
	return func(s *Service) { s.tx = t }
}

func New(store Store, slots SlotCounter, clk clock.Clock, opts ...Option) *Service {
	s := &Service{store: store, slots: slots, clock: clk, tx: inline{}, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, d models.Details, actingUser string) (*models.Centre, error) {
	c, err := models.NewCentre(id.NewCentreID(), d, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, c); err != nil {
		return nil, translate(err, "failed to create centre")
	}
	s.record(ctx, actingUser, audit.ActionCentreCreated, c)
	return c, nil
}

func (s *Service) Get(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	c, err := s.store.FindByID(ctx, centreID)
	if err != nil {
		return nil, translate(err, "failed to load centre")
	}
	return c, nil
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error) {
	centres, err := s.store.ListByDepartment(ctx, department)
	if err != nil {
		return nil, translate(err, "failed to list centres")
	}
	return centres, nil
}

func (s *Service) Update(ctx context.Context, centreID id.CentreID, d models.Details, actingUser string) (*models.Centre, error) {
	c, err := s.Get(ctx, centreID)
	if err != nil {
		return nil, err
	}
	if err := c.Apply(d, s.clock.Now()); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, c); err != nil {
		return nil, translate(err, "failed to update centre")
	}
	s.record(ctx, actingUser, audit.ActionCentreUpdated, c)
	return c, nil
}

// Deactivate hides a centre from searches and slot creation. It is refused
// while the centre still has future slots. The centre row stays locked from
// the count to the update, so no slot can be created in between.
func (s *Service) Deactivate(ctx context.Context, centreID id.CentreID, actingUser string) (*models.Centre, error) {
	var (
		c       *models.Centre
		changed bool
	)
	err := s.tx.RunInTx(ctx, lockKey(centreID), func(txCtx context.Context) error {
		var err error
		c, err = s.store.FindByIDForUpdate(txCtx, centreID)
		if err != nil {
			return translate(err, "failed to load centre")
		}
		if !c.Active {
			return nil
		}
		now := s.clock.Now()
		n, err := s.slots.CountFutureByCentre(txCtx, centreID, now)
		if err != nil {
			return translate(err, "failed to count centre slots")
		}
		if n > 0 {
			return dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("centre still has %d future slots", n))
		}
		c.SetActive(false, now)
		if err := s.store.Update(txCtx, c); err != nil {
			return translate(err, "failed to deactivate centre")
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.record(ctx, actingUser, audit.ActionCentreDeactivated, c)
	}
	return c, nil
}

// WithActiveCentre runs fn while holding the centre, provided it exists and
// is active. Otherwise it returns a validation error and fn is not called.
func (s *Service) WithActiveCentre(ctx context.Context, centreID id.CentreID, fn func(txCtx context.Context) error) error {
	return s.tx.RunInTx(ctx, lockKey(centreID), func(txCtx context.Context) error {
		c, err := s.store.FindByIDForUpdate(txCtx, centreID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeValidation, "centre is not active")
		}
		if err != nil {
			return translate(err, "failed to load centre")
		}
		if !c.Active {
			return dErrors.New(dErrors.CodeValidation, "centre is not active")
		}
		return fn(txCtx)
	})
}

func lockKey(centreID id.CentreID) string {
	return "centre:" + centreID.String()
}

func (s *Service) Reactivate(ctx context.Context, centreID id.CentreID, actingUser string) (*models.Centre, error) {
	c, err := s.Get(ctx, centreID)
	if err != nil {
		return nil, err
	}
	if c.Active {
		return c, nil
	}
	c.SetActive(true, s.clock.Now())
	if err := s.store.Update(ctx, c); err != nil {
		return nil, translate(err, "failed to reactivate centre")
	}
	s.record(ctx, actingUser, audit.ActionCentreReactivated, c)
	return c, nil
}

// ActiveCentreIDs lists the active centres of a department.
func (s *Service) ActiveCentreIDs(ctx context.Context, department string) ([]id.CentreID, error) {
	centres, err := s.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	ids := make([]id.CentreID, 0, len(centres))
	for _, c := range centres {
		if c.Active {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (s *Service) record(ctx context.Context, actor string, action audit.Action, c *models.Centre) {
	s.logger.InfoContext(ctx, "centre changed",
		"action", string(action),
		"centre_id", c.ID.String(),
		"department", c.Department,
	)
	if s.auditor == nil {
		return
	}
	s.auditor.Record(ctx, audit.Entry{
		Actor:   actor,
		Action:  action,
		Subject: c.ID.String(),
		Detail:  c.Name + " (" + c.Department + ")",
	})
}

func translate(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "centre not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "a centre with this name already exists in the department")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeStorageFailure, msg)
	}
}
