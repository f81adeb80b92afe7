package service

import (
	"context"
	"iter"
	"slices"
	"time"

	"candilib/internal/booking/models"
	"candilib/internal/eligibility"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/audit"
)

// SlotQuery selects free slots. Department and CentreIDs intersect when both
// are set. From and To bound the slot date, To exclusive.
type SlotQuery struct {
	Department string
	CentreIDs  []id.CentreID
	From       time.Time
	To         time.Time
	// IncludeUndisclosed lifts the daily disclosure cutoff (administrators).
	IncludeUndisclosed bool
}

// FindFreeSlots returns a lazy, restartable sequence of free future slots in
// date order. Candidates only see slots past their disclosure time.
func (s *Service) FindFreeSlots(ctx context.Context, q SlotQuery) iter.Seq2[*models.Slot, error] {
	return func(yield func(*models.Slot, error) bool) {
		now := s.calendar.Now()
		criteria := models.SlotCriteria{
			CentreIDs: q.CentreIDs,
			From:      q.From,
			To:        q.To,
			Now:       now,
		}
		if !q.IncludeUndisclosed {
			criteria.VisibleBefore = s.calendar.VisibleUntil(now)
		}
		if q.Department != "" {
			ids, err := s.centresOf(ctx, q.Department, q.CentreIDs)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(ids) == 0 {
				return
			}
			criteria.CentreIDs = ids
		}
		for slot, err := range s.slots.FindFree(ctx, criteria) {
			if err != nil {
				yield(nil, storageError(err, "failed to list free slots"))
				return
			}
			if !yield(slot, nil) {
				return
			}
		}
	}
}

func (s *Service) centresOf(ctx context.Context, department string, within []id.CentreID) ([]id.CentreID, error) {
	if s.centres == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "department filter is not available")
	}
	ids, err := s.centres.ActiveCentreIDs(ctx, department)
	if err != nil {
		return nil, storageError(err, "failed to resolve department centres")
	}
	if len(within) == 0 {
		return ids, nil
	}
	return slices.DeleteFunc(ids, func(c id.CentreID) bool {
		return !slices.Contains(within, c)
	}), nil
}

// CreateSlot adds a free slot. Slots must start in the future, on a business
// day, at an active centre.
func (s *Service) CreateSlot(ctx context.Context, centreID id.CentreID, inspectorID id.InspectorID, date time.Time, actingUser string) (*models.Slot, error) {
	now := s.calendar.Now()
	slot, err := models.NewSlot(id.NewSlotID(), centreID, inspectorID, date, now)
	if err != nil {
		return nil, err
	}
	if !date.After(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "slot date must be in the future")
	}
	if !s.calendar.IsBusinessDay(date) {
		return nil, dErrors.New(dErrors.CodeValidation, "slot date is not a business day")
	}
	create := func(txCtx context.Context) error {
		if err := s.slots.Create(txCtx, slot); err != nil {
			return slotError(err, "failed to create slot")
		}
		return nil
	}
	if s.centres != nil {
		err = s.centres.WithActiveCentre(ctx, centreID, create)
	} else {
		err = create(ctx)
	}
	if err != nil {
		return nil, storageError(err, "failed to create slot")
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionSlotCreated,
			Subject: slot.ID.String(),
			Detail:  centreID.String() + " " + date.Format(time.RFC3339),
		})
	}
	return slot, nil
}

// RegisterRequest carries a new candidate's identity.
type RegisterRequest struct {
	CodeNEPH  string `json:"codeNeph"`
	BirthName string `json:"nomNaissance"`
	Email     string `json:"email"`
}

// RegisterCandidate creates an unvalidated candidate. The registry sync
// validates it later.
func (s *Service) RegisterCandidate(ctx context.Context, req RegisterRequest) (*models.Candidate, error) {
	c, err := models.NewCandidate(id.NewCandidateID(), req.CodeNEPH, req.BirthName, req.Email, s.calendar.Now())
	if err != nil {
		return nil, err
	}
	if err := s.candidates.Create(ctx, c); err != nil {
		return nil, candidateError(err, "failed to create candidate")
	}
	if s.auditor != nil {
		s.auditor.Record(ctx, audit.Entry{
			Actor:   c.Email,
			Action:  audit.ActionCandidateAdded,
			Subject: c.ID.String(),
		})
	}
	return c, nil
}

// RegistryStatus is the registry's view of one candidate.
type RegistryStatus struct {
	CodeNEPH       string
	Validated      bool
	TheoryPassedAt *time.Time
}

// RegistryResult reports what ApplyRegistryStatus changed. Cancelled is set
// when the update made a booked candidate ineligible.
type RegistryResult struct {
	Candidate *models.Candidate
	Cancelled *models.ArchivedBooking
}

// ApplyRegistryStatus stores the registry verdict for a candidate. A booked
// candidate who stops being validated, or whose theory pass expired, loses
// the booking with reason admin-removed in the same transaction.
func (s *Service) ApplyRegistryStatus(ctx context.Context, st RegistryStatus, actingUser string) (res RegistryResult, err error) {
	known, err := s.candidates.FindByNEPH(ctx, st.CodeNEPH)
	if err != nil {
		return RegistryResult{}, candidateError(err, "failed to load candidate")
	}
	ctx, finish := s.start(ctx, "apply_registry_status", known.ID)
	defer finish(&err)

	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, known.ID.String(), func(txCtx context.Context) error {
		fx.reset()
		res = RegistryResult{}
		c, err := s.candidates.FindByIDForUpdate(txCtx, known.ID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		c.ApplyRegistryStatus(st.Validated, st.TheoryPassedAt, now)
		if err := s.candidates.Update(txCtx, c); err != nil {
			return candidateError(err, "failed to save candidate")
		}
		fx.record(audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionAurigeApplied,
			Subject: c.ID.String(),
		})
		if c.HasBooking() && lostRegistryStanding(s.evaluator.Evaluate(c, now)) {
			res.Cancelled, err = s.cancelLocked(txCtx, c, models.ReasonAdminRemoved, actingUser, now, &fx)
			if err != nil {
				return err
			}
			c.ClearBooking(now)
		}
		res.Candidate = c
		return nil
	})
	if err != nil {
		return RegistryResult{}, err
	}
	s.publish(ctx, &fx)
	return res, nil
}

func lostRegistryStanding(v eligibility.Verdict) bool {
	return v.Reason == eligibility.ReasonNotValidated || v.Reason == eligibility.ReasonTheoryExpired
}

// ArchiveStats counts ledger entries archived in [from, to) by reason.
func (s *Service) ArchiveStats(ctx context.Context, from, to time.Time) ([]models.ReasonCount, error) {
	if !from.Before(to) {
		return nil, dErrors.New(dErrors.CodeValidation, "from must be before to")
	}
	counts, err := s.archive.CountByReasonAndPeriod(ctx, from, to)
	if err != nil {
		return nil, storageError(err, "failed to count archived bookings")
	}
	return counts, nil
}

// OutcomeStats counts exam outcomes for slots dated in [from, to) by centre.
func (s *Service) OutcomeStats(ctx context.Context, from, to time.Time) ([]models.CentreOutcomeCount, error) {
	if !from.Before(to) {
		return nil, dErrors.New(dErrors.CodeValidation, "from must be before to")
	}
	counts, err := s.archive.CountByOutcomeAndCentre(ctx, from, to)
	if err != nil {
		return nil, storageError(err, "failed to count exam outcomes")
	}
	return counts, nil
}
