package service

import (
	"context"
	"iter"
	"time"

	"candilib/internal/booking/models"
	"candilib/internal/notification"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/audit"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

// SlotStore persists exam slots. Reserve is the single serialization point
// for slot contention: of N concurrent reservations of one free slot exactly
// one succeeds.
type SlotStore interface {
	Create(ctx context.Context, slot *models.Slot) error
	FindByID(ctx context.Context, slotID id.SlotID) (*models.Slot, error)
	FindFree(ctx context.Context, criteria models.SlotCriteria) iter.Seq2[*models.Slot, error]
	Reserve(ctx context.Context, slotID id.SlotID, candidateID id.CandidateID, at time.Time) (*models.Slot, error)
	Release(ctx context.Context, slotID id.SlotID) error
}

// CandidateStore persists candidates. SetPlace is a compare-and-set on the
// candidate's slot reference.
type CandidateStore interface {
	Create(ctx context.Context, c *models.Candidate) error
	FindByID(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)
	FindByIDForUpdate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error)
	FindByNEPH(ctx context.Context, codeNEPH string) (*models.Candidate, error)
	Update(ctx context.Context, c *models.Candidate) error
	SetPlace(ctx context.Context, candidateID id.CandidateID, expected, next *id.SlotID, now time.Time) error
}

// ArchiveStore is the append-only ledger of ended bookings.
type ArchiveStore interface {
	Append(ctx context.Context, entry *models.ArchivedBooking) error
	ListByCandidate(ctx context.Context, candidateID id.CandidateID) ([]*models.ArchivedBooking, error)
	CountByReasonAndPeriod(ctx context.Context, from, to time.Time) ([]models.ReasonCount, error)
	CountByOutcomeAndCentre(ctx context.Context, from, to time.Time) ([]models.CentreOutcomeCount, error)
}

// CentreDirectory answers the centre questions booking depends on.
// WithActiveCentre runs fn while the centre cannot be deactivated, and
// fails with a validation error when it is unknown or inactive.
type CentreDirectory interface {
	ActiveCentreIDs(ctx context.Context, department string) ([]id.CentreID, error)
	WithActiveCentre(ctx context.Context, centreID id.CentreID, fn func(txCtx context.Context) error) error
}

// Notifier publishes booking events. Publish must not block.
type Notifier interface {
	Publish(ctx context.Context, ev notification.Event)
}

// Auditor records operator audit entries. Record must not block.
type Auditor interface {
	Record(ctx context.Context, entry audit.Entry)
}

// StoreTx runs fn so that every store mutation made through txCtx commits or
// rolls back together. key names the candidate the transaction is about.
type StoreTx interface {
	RunInTx(ctx context.Context, key string, fn func(txCtx context.Context) error) error
}
