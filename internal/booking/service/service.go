// Package service implements the booking orchestrator: the state machine that
// takes a candidate from NoBooking to Booked and on to a terminal archive
// entry (cancelled, completed or displaced).
//
// Every mutation runs inside a StoreTx so that its storage effects apply
// together or not at all. Slot contention is settled by SlotStore.Reserve;
// contention between two bookings of the same candidate is settled by the
// candidate row lock and the compare-and-set on the candidate's place.
// Conflicts are returned to the caller and never retried here.
package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	bookingmetrics "candilib/internal/booking/metrics"
	"candilib/internal/booking/models"
	"candilib/internal/calendar"
	"candilib/internal/eligibility"
	"candilib/internal/notification"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/audit"
)

const tracerName = "candilib/booking"

// Service orchestrates bookings.
type Service struct {
	slots      SlotStore
	candidates CandidateStore
	archive    ArchiveStore
	tx         StoreTx
	calendar   *calendar.Service
	evaluator  *eligibility.Evaluator

	centres  CentreDirectory
	notifier Notifier
	auditor  Auditor
	metrics  *bookingmetrics.Metrics
	tracer   trace.Tracer
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *bookingmetrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) { s.tracer = t }
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithCentreDirectory enables department filters in FindFreeSlots and
// centre checks in CreateSlot.
func WithCentreDirectory(d CentreDirectory) Option {
	return func(s *Service) { s.centres = d }
}

// WithStoreTx overrides the transaction runner. Without it the service uses
// an in-memory ShardedTx, which only fits the in-memory stores.
func WithStoreTx(t StoreTx) Option {
	return func(s *Service) { s.tx = t }
}

// New constructs a Service.
func New(
	slots SlotStore,
	candidates CandidateStore,
	archive ArchiveStore,
	cal *calendar.Service,
	evaluator *eligibility.Evaluator,
	opts ...Option,
) *Service {
	s := &Service{
		slots:      slots,
		candidates: candidates,
		archive:    archive,
		calendar:   cal,
		evaluator:  evaluator,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(0)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// effects collects what to publish once a transaction commits.
type effects struct {
	events  []notification.Event
	entries []audit.Entry
}

func (e *effects) reset() {
	e.events = e.events[:0]
	e.entries = e.entries[:0]
}

func (e *effects) notify(ev notification.Event) {
	e.events = append(e.events, ev)
}

func (e *effects) record(entry audit.Entry) {
	e.entries = append(e.entries, entry)
}

func (s *Service) publish(ctx context.Context, fx *effects) {
	if s.notifier != nil {
		for _, ev := range fx.events {
			s.notifier.Publish(ctx, ev)
		}
	}
	if s.auditor != nil {
		for _, entry := range fx.entries {
			s.auditor.Record(ctx, entry)
		}
	}
}

func (s *Service) start(ctx context.Context, op string, candidateID id.CandidateID) (context.Context, func(*error)) {
	ctx, span := s.tracer.Start(ctx, "booking."+op,
		trace.WithAttributes(attribute.String("candidate.id", candidateID.String())))
	began := time.Now()
	return ctx, func(errp *error) {
		err := *errp
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if dErrors.HasCode(err, dErrors.CodeSlotAlreadyBooked) {
				s.metrics.IncrementConflict()
			}
			if reason := dErrors.ReasonOf(err); reason != "" {
				s.metrics.IncrementDenial(reason)
			}
		}
		s.metrics.ObserveOperation(op, resultOf(err), time.Since(began))
		span.End()
	}
}

// BookSlot reserves slotID for the candidate. A candidate already holding a
// slot is moved: the new slot is reserved first, then the previous one is
// archived as replaced-by-new-booking and released. If the reservation fails
// nothing changes.
func (s *Service) BookSlot(ctx context.Context, candidateID id.CandidateID, slotID id.SlotID) (booked *models.Slot, err error) {
	ctx, finish := s.start(ctx, "book_slot", candidateID)
	defer finish(&err)

	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, candidateID.String(), func(txCtx context.Context) error {
		fx.reset()
		c, err := s.candidates.FindByIDForUpdate(txCtx, candidateID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		if verdict := s.evaluator.Evaluate(c, now); !verdict.Allowed {
			return verdict.Err()
		}
		if err := s.requireUpcomingBooking(txCtx, c, now); err != nil {
			return err
		}
		target, err := s.bookableSlot(txCtx, slotID, now)
		if err != nil {
			return err
		}
		if !s.calendar.IsDisclosed(target.Date, now) {
			return dErrors.New(dErrors.CodeSlotNotFound, "slot not found")
		}
		booked, err = s.switchSlot(txCtx, c, target.ID, models.ReasonReplacedByNewBooking, c.Email, now, &fx)
		if err != nil {
			return err
		}
		fx.notify(slotEvent(candidateID, notification.TypeBooked, booked, "", now))
		fx.record(audit.Entry{
			Actor:   c.Email,
			Action:  audit.ActionSlotBooked,
			Subject: candidateID.String(),
			Detail:  booked.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &fx)
	s.logger.InfoContext(ctx, "slot booked",
		"candidate_id", candidateID.String(),
		"slot_id", booked.ID.String(),
		"slot_date", booked.Date,
	)
	return booked, nil
}

// MoveBooking moves a booked candidate to newSlotID on an administrator's
// behalf. The new slot is reserved before the old one is archived as
// admin-moved; a failed reservation leaves the old booking untouched.
// Disclosure time does not apply to administrators.
func (s *Service) MoveBooking(ctx context.Context, candidateID id.CandidateID, newSlotID id.SlotID, actingUser string) (moved *models.Slot, err error) {
	ctx, finish := s.start(ctx, "move_booking", candidateID)
	defer finish(&err)

	if actingUser == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, candidateID.String(), func(txCtx context.Context) error {
		fx.reset()
		c, err := s.candidates.FindByIDForUpdate(txCtx, candidateID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		if !c.HasBooking() {
			return dErrors.New(dErrors.CodeNotFound, "candidate has no booking to move")
		}
		if verdict := s.evaluator.Evaluate(c, now); !verdict.Allowed {
			return verdict.Err()
		}
		if err := s.requireUpcomingBooking(txCtx, c, now); err != nil {
			return err
		}
		target, err := s.bookableSlot(txCtx, newSlotID, now)
		if err != nil {
			return err
		}
		moved, err = s.switchSlot(txCtx, c, target.ID, models.ReasonAdminMoved, actingUser, now, &fx)
		if err != nil {
			return err
		}
		fx.notify(slotEvent(candidateID, notification.TypeMoved, moved, string(models.ReasonAdminMoved), now))
		fx.record(audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionBookingMoved,
			Subject: candidateID.String(),
			Detail:  moved.ID.String(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &fx)
	s.logger.InfoContext(ctx, "booking moved",
		"candidate_id", candidateID.String(),
		"slot_id", moved.ID.String(),
		"acting_user", actingUser,
	)
	return moved, nil
}

// bookableSlot loads a slot that has not started yet.
func (s *Service) bookableSlot(ctx context.Context, slotID id.SlotID, now time.Time) (*models.Slot, error) {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return nil, slotError(err, "failed to load slot")
	}
	if !slot.Date.After(now) {
		return nil, dErrors.New(dErrors.CodeSlotNotFound, "slot not found")
	}
	return slot, nil
}

// switchSlot reserves target for c and, when c held a slot, archives the old
// one with reason and releases it. The release comes last so that a failure
// in any earlier step never has to restore a freed slot.
func (s *Service) switchSlot(
	ctx context.Context,
	c *models.Candidate,
	target id.SlotID,
	reason models.ArchiveReason,
	actingUser string,
	now time.Time,
	fx *effects,
) (*models.Slot, error) {
	reserved, err := s.slots.Reserve(ctx, target, c.ID, now)
	if err != nil {
		return nil, slotError(err, "failed to reserve slot")
	}
	if err := s.candidates.SetPlace(ctx, c.ID, c.PlaceID, &reserved.ID, now); err != nil {
		return nil, candidateError(err, "failed to update candidate booking")
	}
	if c.PlaceID != nil {
		if err := s.archiveAndRelease(ctx, c.ID, *c.PlaceID, reason, actingUser, now); err != nil {
			return nil, err
		}
		fx.record(audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionBookingCanceled,
			Subject: c.ID.String(),
			Detail:  string(reason) + " " + c.PlaceID.String(),
		})
	}
	return reserved, nil
}

// requireUpcomingBooking refuses to replace a booking whose exam has already
// started. That booking is closed by RecordOutcome only.
func (s *Service) requireUpcomingBooking(ctx context.Context, c *models.Candidate, now time.Time) error {
	if c.PlaceID == nil {
		return nil
	}
	held, err := s.slots.FindByID(ctx, *c.PlaceID)
	if err != nil {
		return slotError(err, "failed to load booked slot")
	}
	if !held.Date.After(now) {
		return dErrors.New(dErrors.CodeConflict, "current booking has already taken place, its outcome must be recorded first")
	}
	return nil
}

// archiveAndRelease writes the ledger entry for slotID and frees it.
func (s *Service) archiveAndRelease(ctx context.Context, candidateID id.CandidateID, slotID id.SlotID, reason models.ArchiveReason, actingUser string, now time.Time) error {
	slot, err := s.slots.FindByID(ctx, slotID)
	if err != nil {
		return slotError(err, "failed to load booked slot")
	}
	entry, err := models.NewArchivedBooking(slot, candidateID, reason, actingUser, now)
	if err != nil {
		return err
	}
	if err := s.archive.Append(ctx, entry); err != nil {
		return storageError(err, "failed to archive booking")
	}
	if err := s.slots.Release(ctx, slotID); err != nil {
		return slotError(err, "failed to release slot")
	}
	return nil
}

// CancelBooking ends the candidate's active booking with reason, which must
// be candidate-cancel or admin-removed. Without an active booking it is a
// no-op and returns nil.
func (s *Service) CancelBooking(ctx context.Context, candidateID id.CandidateID, reason models.ArchiveReason, actingUser string) (archived *models.ArchivedBooking, err error) {
	ctx, finish := s.start(ctx, "cancel_booking", candidateID)
	defer finish(&err)

	if reason != models.ReasonCandidateCancel && reason != models.ReasonAdminRemoved {
		return nil, dErrors.New(dErrors.CodeValidation, "cancellation reason must be candidate-cancel or admin-removed")
	}
	if actingUser == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, candidateID.String(), func(txCtx context.Context) error {
		fx.reset()
		archived = nil
		c, err := s.candidates.FindByIDForUpdate(txCtx, candidateID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		archived, err = s.cancelLocked(txCtx, c, reason, actingUser, now, &fx)
		return err
	})
	if err != nil {
		return nil, err
	}
	if archived == nil {
		return nil, nil
	}
	s.publish(ctx, &fx)
	s.logger.InfoContext(ctx, "booking cancelled",
		"candidate_id", candidateID.String(),
		"slot_id", archived.SlotID.String(),
		"reason", string(reason),
	)
	return archived, nil
}

// cancelLocked cancels c's booking inside a transaction that already holds
// the candidate. It returns nil when c has no booking.
func (s *Service) cancelLocked(ctx context.Context, c *models.Candidate, reason models.ArchiveReason, actingUser string, now time.Time, fx *effects) (*models.ArchivedBooking, error) {
	if !c.HasBooking() {
		return nil, nil
	}
	slot, err := s.slots.FindByID(ctx, *c.PlaceID)
	if err != nil {
		return nil, slotError(err, "failed to load booked slot")
	}
	if err := s.candidates.SetPlace(ctx, c.ID, c.PlaceID, nil, now); err != nil {
		return nil, candidateError(err, "failed to clear candidate booking")
	}
	entry, err := models.NewArchivedBooking(slot, c.ID, reason, actingUser, now)
	if err != nil {
		return nil, err
	}
	if err := s.archive.Append(ctx, entry); err != nil {
		return nil, storageError(err, "failed to archive booking")
	}
	if err := s.slots.Release(ctx, slot.ID); err != nil {
		return nil, slotError(err, "failed to release slot")
	}
	fx.notify(slotEvent(c.ID, notification.TypeCancelled, slot, string(reason), now))
	fx.record(audit.Entry{
		Actor:   actingUser,
		Action:  audit.ActionBookingCanceled,
		Subject: c.ID.String(),
		Detail:  string(reason) + " " + slot.ID.String(),
	})
	return entry, nil
}

// RecordOutcome records the result of the candidate's practical exam held on
// outcomeDate. Failed and absent outcomes append to the failure history and
// push canBookFrom to outcomeDate plus the retry delay; a pass blocks any
// further booking. The active booking, if any, is archived with the matching
// reason and its slot released.
func (s *Service) RecordOutcome(ctx context.Context, candidateID id.CandidateID, outcome models.Outcome, outcomeDate time.Time, actingUser string) (updated *models.Candidate, err error) {
	ctx, finish := s.start(ctx, "record_outcome", candidateID)
	defer finish(&err)

	if _, err := models.ParseOutcome(string(outcome)); err != nil {
		return nil, err
	}
	if outcomeDate.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "outcome date is required")
	}
	if actingUser == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, candidateID.String(), func(txCtx context.Context) error {
		fx.reset()
		c, err := s.candidates.FindByIDForUpdate(txCtx, candidateID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		if c.HasPassed() {
			return dErrors.New(dErrors.CodeInvariantViolation, "candidate already passed the practical exam")
		}

		var booked *models.Slot
		if c.HasBooking() {
			booked, err = s.slots.FindByID(txCtx, *c.PlaceID)
			if err != nil {
				return slotError(err, "failed to load booked slot")
			}
		}

		if outcome.IsFailure() {
			c.ApplyFailure(outcome, outcomeDate, s.evaluator.NextBookableFrom(outcomeDate), now)
		} else {
			c.ApplyPass(outcomeDate, now)
		}
		c.ClearBooking(now)
		if err := s.candidates.Update(txCtx, c); err != nil {
			return candidateError(err, "failed to save candidate")
		}

		if booked != nil {
			entry, err := models.NewArchivedBooking(booked, candidateID, outcome.ArchiveReason(), actingUser, now)
			if err != nil {
				return err
			}
			if err := s.archive.Append(txCtx, entry); err != nil {
				return storageError(err, "failed to archive booking")
			}
			if err := s.slots.Release(txCtx, booked.ID); err != nil {
				return slotError(err, "failed to release slot")
			}
		}
		fx.notify(slotEvent(candidateID, notification.TypeOutcome, booked, string(outcome.ArchiveReason()), now))
		fx.record(audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionOutcomeRecorded,
			Subject: candidateID.String(),
			Detail:  string(outcome) + " " + outcomeDate.Format(time.DateOnly),
		})
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &fx)
	s.logger.InfoContext(ctx, "exam outcome recorded",
		"candidate_id", candidateID.String(),
		"outcome", string(outcome),
		"failures", updated.FailureCount(),
	)
	return updated, nil
}

// ResetFailures clears the candidate's failure history and retry delay.
func (s *Service) ResetFailures(ctx context.Context, candidateID id.CandidateID, actingUser string) (updated *models.Candidate, err error) {
	ctx, finish := s.start(ctx, "reset_failures", candidateID)
	defer finish(&err)

	if actingUser == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	now := s.calendar.Now()
	var fx effects
	err = s.tx.RunInTx(ctx, candidateID.String(), func(txCtx context.Context) error {
		fx.reset()
		c, err := s.candidates.FindByIDForUpdate(txCtx, candidateID)
		if err != nil {
			return candidateError(err, "failed to load candidate")
		}
		if err := c.CanResetFailures(); err != nil {
			return err
		}
		c.ApplyResetFailures(now)
		if err := s.candidates.Update(txCtx, c); err != nil {
			return candidateError(err, "failed to save candidate")
		}
		fx.record(audit.Entry{
			Actor:   actingUser,
			Action:  audit.ActionFailuresReset,
			Subject: candidateID.String(),
		})
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, &fx)
	return updated, nil
}

// CheckEligibility evaluates the candidate at the current instant.
func (s *Service) CheckEligibility(ctx context.Context, candidateID id.CandidateID) (eligibility.Verdict, error) {
	c, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return eligibility.Verdict{}, candidateError(err, "failed to load candidate")
	}
	return s.evaluator.Evaluate(c, s.calendar.Now()), nil
}

// CurrentBooking returns the candidate's active slot, or nil.
func (s *Service) CurrentBooking(ctx context.Context, candidateID id.CandidateID) (*models.Slot, error) {
	c, err := s.candidates.FindByID(ctx, candidateID)
	if err != nil {
		return nil, candidateError(err, "failed to load candidate")
	}
	if !c.HasBooking() {
		return nil, nil
	}
	slot, err := s.slots.FindByID(ctx, *c.PlaceID)
	if err != nil {
		return nil, slotError(err, "failed to load booked slot")
	}
	return slot, nil
}

// History lists the candidate's archived bookings, oldest first.
func (s *Service) History(ctx context.Context, candidateID id.CandidateID) ([]*models.ArchivedBooking, error) {
	if _, err := s.candidates.FindByID(ctx, candidateID); err != nil {
		return nil, candidateError(err, "failed to load candidate")
	}
	entries, err := s.archive.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, storageError(err, "failed to list archived bookings")
	}
	return entries, nil
}

func slotEvent(candidateID id.CandidateID, typ notification.Type, slot *models.Slot, reason string, now time.Time) notification.Event {
	ev := notification.Event{
		CandidateID: candidateID,
		Type:        typ,
		Reason:      reason,
		OccurredAt:  now,
	}
	if slot != nil {
		ev.Slot = &notification.Slot{
			ID:          slot.ID,
			CentreID:    slot.CentreID,
			InspectorID: slot.InspectorID,
			Date:        slot.Date,
		}
	}
	return ev
}
