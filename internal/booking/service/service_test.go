package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/suite"

	"candilib/internal/booking/models"
	"candilib/internal/booking/service"
	"candilib/internal/booking/store/archive"
	"candilib/internal/booking/store/candidate"
	"candilib/internal/booking/store/slot"
	"candilib/internal/calendar"
	"candilib/internal/eligibility"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

const admin = "admin@candilib.fr"

type BookingServiceSuite struct {
	suite.Suite
	ctx        context.Context
	paris      *time.Location
	clk        *testclock.Clock
	cal        *calendar.Service
	slots      *slot.InMemory
	candidates *candidate.InMemory
	archive    *archive.InMemory
	svc        *service.Service
	centre     id.CentreID
}

func TestBookingServiceSuite(t *testing.T) {
	suite.Run(t, new(BookingServiceSuite))
}

func (s *BookingServiceSuite) SetupTest() {
	loc, err := time.LoadLocation("Europe/Paris")
	s.Require().NoError(err)
	s.paris = loc
	s.ctx = context.Background()
	// Monday afternoon: Tuesday's slots are disclosed, Wednesday's are not.
	s.clk = testclock.NewClock(s.at(2026, 3, 2, 14, 0))
	s.cal = calendar.New(s.clk, calendar.WithLocation(loc), calendar.WithVisibility(1, 12))
	s.slots = slot.NewInMemory()
	s.candidates = candidate.NewInMemory()
	s.archive = archive.NewInMemory()
	s.centre = id.NewCentreID()
	s.svc = s.newService(s.slots)
}

func (s *BookingServiceSuite) newService(slots service.SlotStore, opts ...service.Option) *service.Service {
	opts = append([]service.Option{
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	return service.New(slots, s.candidates, s.archive, s.cal,
		eligibility.NewEvaluator(eligibility.DefaultPolicy()), opts...)
}

func (s *BookingServiceSuite) at(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, s.paris)
}

func (s *BookingServiceSuite) addSlot(date time.Time) *models.Slot {
	sl, err := models.NewSlot(id.NewSlotID(), s.centre, id.NewInspectorID(), date, s.cal.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.slots.Create(s.ctx, sl))
	return sl
}

func (s *BookingServiceSuite) addCandidate(neph string) *models.Candidate {
	c, err := models.NewCandidate(id.NewCandidateID(), neph, "DUPONT", neph+"@example.fr", s.cal.Now())
	s.Require().NoError(err)
	theory := s.at(2024, 6, 1, 10, 0)
	c.TheoryPassedAt = &theory
	c.AurigeValidated = true
	s.Require().NoError(s.candidates.Create(s.ctx, c))
	return c
}

func (s *BookingServiceSuite) reload(cid id.CandidateID) *models.Candidate {
	c, err := s.candidates.FindByID(s.ctx, cid)
	s.Require().NoError(err)
	return c
}

func (s *BookingServiceSuite) slotState(sid id.SlotID) *models.Slot {
	sl, err := s.slots.FindByID(s.ctx, sid)
	s.Require().NoError(err)
	return sl
}

func (s *BookingServiceSuite) history(cid id.CandidateID) []*models.ArchivedBooking {
	entries, err := s.archive.ListByCandidate(s.ctx, cid)
	s.Require().NoError(err)
	return entries
}

func (s *BookingServiceSuite) freeSlotIDs(q service.SlotQuery) []id.SlotID {
	var ids []id.SlotID
	for sl, err := range s.svc.FindFreeSlots(s.ctx, q) {
		s.Require().NoError(err)
		ids = append(ids, sl.ID)
	}
	return ids
}

func (s *BookingServiceSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "want %s, got %v", code, err)
}

func (s *BookingServiceSuite) TestBookSlot() {
	c := s.addCandidate("0001")
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))

	booked, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)
	s.Equal(sl.ID, booked.ID)
	s.True(booked.IsHeldBy(c.ID))
	s.Equal(s.cal.Now(), *booked.BookedAt)

	got := s.reload(c.ID)
	s.Require().NotNil(got.PlaceID)
	s.Equal(sl.ID, *got.PlaceID)
	s.Empty(s.history(c.ID))
	s.NotContains(s.freeSlotIDs(service.SlotQuery{}), sl.ID)

	current, err := s.svc.CurrentBooking(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(sl.ID, current.ID)
}

func (s *BookingServiceSuite) TestBookSlotDeniedByEligibility() {
	c := s.addCandidate("0002")
	c.AurigeValidated = false
	s.Require().NoError(s.candidates.Update(s.ctx, c))
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))

	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.requireCode(err, dErrors.CodeEligibilityDenied)
	s.Equal(string(eligibility.ReasonNotValidated), dErrors.ReasonOf(err))
	s.True(s.slotState(sl.ID).IsFree())
	s.False(s.reload(c.ID).HasBooking())
}

func (s *BookingServiceSuite) TestBookSlotRejectsUnbookableSlots() {
	c := s.addCandidate("0003")
	undisclosed := s.addSlot(s.at(2026, 3, 4, 10, 0))
	past := s.addSlot(s.at(2026, 3, 2, 8, 0))

	_, err := s.svc.BookSlot(s.ctx, c.ID, undisclosed.ID)
	s.requireCode(err, dErrors.CodeSlotNotFound)

	_, err = s.svc.BookSlot(s.ctx, c.ID, past.ID)
	s.requireCode(err, dErrors.CodeSlotNotFound)

	_, err = s.svc.BookSlot(s.ctx, c.ID, id.NewSlotID())
	s.requireCode(err, dErrors.CodeSlotNotFound)

	_, err = s.svc.BookSlot(s.ctx, id.NewCandidateID(), undisclosed.ID)
	s.requireCode(err, dErrors.CodeNotFound)

	// Disclosure happens at noon the day before.
	s.clk.Advance(22 * time.Hour)
	_, err = s.svc.BookSlot(s.ctx, c.ID, undisclosed.ID)
	s.Require().NoError(err)
}

func (s *BookingServiceSuite) TestRebookArchivesPreviousBooking() {
	c := s.addCandidate("0004")
	first := s.addSlot(s.at(2026, 3, 3, 9, 0))
	second := s.addSlot(s.at(2026, 3, 3, 11, 0))

	_, err := s.svc.BookSlot(s.ctx, c.ID, first.ID)
	s.Require().NoError(err)
	_, err = s.svc.BookSlot(s.ctx, c.ID, second.ID)
	s.Require().NoError(err)

	s.Equal(second.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(first.ID).IsFree())
	s.True(s.slotState(second.ID).IsHeldBy(c.ID))

	entries := s.history(c.ID)
	s.Require().Len(entries, 1)
	s.Equal(first.ID, entries[0].SlotID)
	s.Equal(models.ReasonReplacedByNewBooking, entries[0].Reason)
	s.Equal(c.Email, entries[0].ActingUser)
	s.NotNil(entries[0].BookedAt)
}

func (s *BookingServiceSuite) TestFailedRebookLeavesExistingBooking() {
	c := s.addCandidate("0005")
	other := s.addCandidate("0006")
	mine := s.addSlot(s.at(2026, 3, 3, 9, 0))
	taken := s.addSlot(s.at(2026, 3, 3, 11, 0))

	_, err := s.svc.BookSlot(s.ctx, c.ID, mine.ID)
	s.Require().NoError(err)
	_, err = s.svc.BookSlot(s.ctx, other.ID, taken.ID)
	s.Require().NoError(err)

	_, err = s.svc.BookSlot(s.ctx, c.ID, taken.ID)
	s.requireCode(err, dErrors.CodeSlotAlreadyBooked)

	s.Equal(mine.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(mine.ID).IsHeldBy(c.ID))
	s.True(s.slotState(taken.ID).IsHeldBy(other.ID))
	s.Empty(s.history(c.ID))
}

func (s *BookingServiceSuite) TestConcurrentBookingsOfOneSlot() {
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))
	const n = 20
	candidates := make([]*models.Candidate, n)
	for i := range candidates {
		candidates[i] = s.addCandidate("C" + string(rune('A'+i)))
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   []id.CandidateID
		conflicts int
	)
	for _, c := range candidates {
		wg.Add(1)
		go func(cid id.CandidateID) {
			defer wg.Done()
			_, err := s.svc.BookSlot(context.Background(), cid, sl.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners = append(winners, cid)
			case dErrors.HasCode(err, dErrors.CodeSlotAlreadyBooked):
				conflicts++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}(c.ID)
	}
	wg.Wait()

	s.Require().Len(winners, 1)
	s.Equal(n-1, conflicts)
	s.True(s.slotState(sl.ID).IsHeldBy(winners[0]))
	for _, c := range candidates {
		got := s.reload(c.ID)
		if c.ID == winners[0] {
			s.Equal(sl.ID, *got.PlaceID)
		} else {
			s.False(got.HasBooking())
		}
	}
}

func (s *BookingServiceSuite) TestConcurrentBookingsOfOneCandidate() {
	c := s.addCandidate("0007")
	const n = 10
	slots := make([]*models.Slot, n)
	for i := range slots {
		slots[i] = s.addSlot(s.at(2026, 3, 3, 8, i*5))
	}

	var wg sync.WaitGroup
	for _, sl := range slots {
		wg.Add(1)
		go func(sid id.SlotID) {
			defer wg.Done()
			_, _ = s.svc.BookSlot(context.Background(), c.ID, sid)
		}(sl.ID)
	}
	wg.Wait()

	held := 0
	for _, sl := range slots {
		if s.slotState(sl.ID).IsHeldBy(c.ID) {
			held++
		}
	}
	s.Equal(1, held)
	got := s.reload(c.ID)
	s.Require().NotNil(got.PlaceID)
	s.True(s.slotState(*got.PlaceID).IsHeldBy(c.ID))
	s.Len(s.history(c.ID), n-1)
}

func (s *BookingServiceSuite) TestCancelBookingRoundTrip() {
	c := s.addCandidate("0008")
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)

	archived, err := s.svc.CancelBooking(s.ctx, c.ID, models.ReasonCandidateCancel, c.Email)
	s.Require().NoError(err)
	s.Require().NotNil(archived)
	s.Equal(sl.ID, archived.SlotID)
	s.Equal(models.ReasonCandidateCancel, archived.Reason)

	s.False(s.reload(c.ID).HasBooking())
	s.Contains(s.freeSlotIDs(service.SlotQuery{}), sl.ID)
	s.Len(s.history(c.ID), 1)
}

func (s *BookingServiceSuite) TestCancelBookingIsIdempotent() {
	c := s.addCandidate("0009")

	for range 2 {
		archived, err := s.svc.CancelBooking(s.ctx, c.ID, models.ReasonCandidateCancel, c.Email)
		s.Require().NoError(err)
		s.Nil(archived)
	}
	s.Empty(s.history(c.ID))
}

func (s *BookingServiceSuite) TestCancelBookingValidatesInput() {
	c := s.addCandidate("0010")

	_, err := s.svc.CancelBooking(s.ctx, c.ID, models.ReasonExamFailed, admin)
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.svc.CancelBooking(s.ctx, c.ID, models.ReasonAdminRemoved, "")
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.svc.CancelBooking(s.ctx, id.NewCandidateID(), models.ReasonAdminRemoved, admin)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *BookingServiceSuite) TestBookingThatTookPlaceCannotBeReplaced() {
	c := s.addCandidate("0005")
	held := s.addSlot(s.at(2026, 3, 3, 9, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, held.ID)
	s.Require().NoError(err)

	// Tuesday 13:00: the exam is over and Wednesday is disclosed.
	s.clk.Advance(23 * time.Hour)
	next := s.addSlot(s.at(2026, 3, 4, 10, 0))

	_, err = s.svc.BookSlot(s.ctx, c.ID, next.ID)
	s.requireCode(err, dErrors.CodeConflict)
	_, err = s.svc.MoveBooking(s.ctx, c.ID, next.ID, admin)
	s.requireCode(err, dErrors.CodeConflict)

	s.Equal(held.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(held.ID).IsHeldBy(c.ID))
	s.True(s.slotState(next.ID).IsFree())
	s.Empty(s.history(c.ID))

	_, err = s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomePassed, held.Date, admin)
	s.Require().NoError(err)
	entries := s.history(c.ID)
	s.Require().Len(entries, 1)
	s.Equal(models.ReasonExamPassed, entries[0].Reason)
}

func (s *BookingServiceSuite) TestRecordOutcomeFailedSetsRetryDelay() {
	c := s.addCandidate("0011")
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)

	examDate := s.at(2026, 3, 3, 10, 0)
	s.clk.Advance(24 * time.Hour)
	updated, err := s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomeFailed, examDate, admin)
	s.Require().NoError(err)

	s.Require().NotNil(updated.CanBookFrom)
	s.Equal(s.at(2026, 4, 17, 10, 0), *updated.CanBookFrom)
	s.Equal(1, updated.FailureCount())
	s.False(updated.HasBooking())
	s.True(s.slotState(sl.ID).IsFree())

	entries := s.history(c.ID)
	s.Require().Len(entries, 1)
	s.Equal(models.ReasonExamFailed, entries[0].Reason)
	s.Equal(admin, entries[0].ActingUser)

	other := s.addSlot(s.at(2026, 3, 5, 9, 0))
	_, err = s.svc.BookSlot(s.ctx, c.ID, other.ID)
	s.requireCode(err, dErrors.CodeEligibilityDenied)
	s.Equal(string(eligibility.ReasonRetryTooSoon), dErrors.ReasonOf(err))
}

func (s *BookingServiceSuite) TestRecordOutcomeAbsent() {
	c := s.addCandidate("0012")
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)

	updated, err := s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomeAbsent, sl.Date, admin)
	s.Require().NoError(err)
	s.Equal(models.OutcomeAbsent, updated.Failures[0].Reason)
	s.Equal(models.ReasonAbsent, s.history(c.ID)[0].Reason)
}

func (s *BookingServiceSuite) TestRecordOutcomePassedBlocksBooking() {
	c := s.addCandidate("0013")
	sl := s.addSlot(s.at(2026, 3, 3, 10, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)

	updated, err := s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomePassed, sl.Date, admin)
	s.Require().NoError(err)
	s.True(updated.HasPassed())
	s.Equal(models.ReasonExamPassed, s.history(c.ID)[0].Reason)

	next := s.addSlot(s.at(2026, 3, 3, 15, 0))
	_, err = s.svc.BookSlot(s.ctx, c.ID, next.ID)
	s.requireCode(err, dErrors.CodeEligibilityDenied)
	s.Equal(string(eligibility.ReasonAlreadyPassed), dErrors.ReasonOf(err))

	_, err = s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomeFailed, sl.Date, admin)
	s.requireCode(err, dErrors.CodeInvariantViolation)
}

func (s *BookingServiceSuite) TestMaxFailuresUntilReset() {
	c := s.addCandidate("0014")
	examDate := s.at(2025, 1, 6, 10, 0)
	for range 5 {
		_, err := s.svc.RecordOutcome(s.ctx, c.ID, models.OutcomeFailed, examDate, admin)
		s.Require().NoError(err)
	}
	verdict, err := s.svc.CheckEligibility(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(eligibility.ReasonMaxFailuresReached, verdict.Reason)

	updated, err := s.svc.ResetFailures(s.ctx, c.ID, admin)
	s.Require().NoError(err)
	s.Zero(updated.FailureCount())
	s.Nil(updated.CanBookFrom)

	verdict, err = s.svc.CheckEligibility(s.ctx, c.ID)
	s.Require().NoError(err)
	s.True(verdict.Allowed)

	_, err = s.svc.ResetFailures(s.ctx, c.ID, admin)
	s.requireCode(err, dErrors.CodeInvariantViolation)
}

func (s *BookingServiceSuite) TestMoveBooking() {
	c := s.addCandidate("0015")
	from := s.addSlot(s.at(2026, 3, 3, 10, 0))
	to := s.addSlot(s.at(2026, 3, 10, 10, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, from.ID)
	s.Require().NoError(err)

	moved, err := s.svc.MoveBooking(s.ctx, c.ID, to.ID, admin)
	s.Require().NoError(err)
	s.Equal(to.ID, moved.ID)
	s.Equal(to.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(from.ID).IsFree())

	entries := s.history(c.ID)
	s.Require().Len(entries, 1)
	s.Equal(models.ReasonAdminMoved, entries[0].Reason)
	s.Equal(admin, entries[0].ActingUser)
}

func (s *BookingServiceSuite) TestMoveBookingFailureKeepsOldBooking() {
	c := s.addCandidate("0016")
	other := s.addCandidate("0017")
	from := s.addSlot(s.at(2026, 3, 3, 10, 0))
	taken := s.addSlot(s.at(2026, 3, 3, 11, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, from.ID)
	s.Require().NoError(err)
	_, err = s.svc.BookSlot(s.ctx, other.ID, taken.ID)
	s.Require().NoError(err)

	_, err = s.svc.MoveBooking(s.ctx, c.ID, taken.ID, admin)
	s.requireCode(err, dErrors.CodeSlotAlreadyBooked)
	s.Equal(from.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(from.ID).IsHeldBy(c.ID))
	s.Empty(s.history(c.ID))

	_, err = s.svc.MoveBooking(s.ctx, other.ID, id.NewSlotID(), admin)
	s.requireCode(err, dErrors.CodeSlotNotFound)

	lonely := s.addCandidate("0018")
	_, err = s.svc.MoveBooking(s.ctx, lonely.ID, from.ID, admin)
	s.requireCode(err, dErrors.CodeNotFound)
}

// failingRelease lets every step of a rebooking succeed except the final
// release of the old slot.
type failingRelease struct {
	*slot.InMemory
}

func (f failingRelease) Release(context.Context, id.SlotID) error {
	return errors.New("connection reset")
}

func (s *BookingServiceSuite) TestFailedStepRollsBackWholeOperation() {
	c := s.addCandidate("0019")
	first := s.addSlot(s.at(2026, 3, 3, 9, 0))
	second := s.addSlot(s.at(2026, 3, 3, 11, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, first.ID)
	s.Require().NoError(err)

	broken := s.newService(failingRelease{s.slots})
	_, err = broken.BookSlot(s.ctx, c.ID, second.ID)
	s.requireCode(err, dErrors.CodeStorageFailure)

	s.Equal(first.ID, *s.reload(c.ID).PlaceID)
	s.True(s.slotState(first.ID).IsHeldBy(c.ID))
	s.True(s.slotState(second.ID).IsFree())
	s.Empty(s.history(c.ID))
}

// releaseHook runs after each successful release, while the releasing
// transaction is still open.
type releaseHook struct {
	*slot.InMemory
	after func(id.SlotID)
}

func (h releaseHook) Release(ctx context.Context, slotID id.SlotID) error {
	if err := h.InMemory.Release(ctx, slotID); err != nil {
		return err
	}
	h.after(slotID)
	return nil
}

func (s *BookingServiceSuite) TestDeadlineAfterRebookKeepsCommittedState() {
	a := s.addCandidate("0023")
	b := s.addCandidate("0024")
	first := s.addSlot(s.at(2026, 3, 3, 9, 0))
	second := s.addSlot(s.at(2026, 3, 3, 11, 0))
	_, err := s.svc.BookSlot(s.ctx, a.ID, first.ID)
	s.Require().NoError(err)

	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	svc := s.newService(releaseHook{InMemory: s.slots, after: func(freed id.SlotID) {
		// Another candidate takes the freed slot, then the caller gives up.
		_, err := s.slots.Reserve(s.ctx, freed, b.ID, s.cal.Now())
		s.Require().NoError(err)
		s.Require().NoError(s.candidates.SetPlace(s.ctx, b.ID, nil, &freed, s.cal.Now()))
		cancel()
	}})

	booked, err := svc.BookSlot(ctx, a.ID, second.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, booked.ID)

	s.Equal(second.ID, *s.reload(a.ID).PlaceID)
	s.Equal(first.ID, *s.reload(b.ID).PlaceID)
	s.True(s.slotState(first.ID).IsHeldBy(b.ID))
	s.True(s.slotState(second.ID).IsHeldBy(a.ID))
	s.Require().Len(s.history(a.ID), 1)
	s.Equal(models.ReasonReplacedByNewBooking, s.history(a.ID)[0].Reason)
}

func (s *BookingServiceSuite) TestCancelledContextHasNoEffect() {
	c := s.addCandidate("0020")
	sl := s.addSlot(s.at(2026, 3, 3, 9, 0))
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.svc.BookSlot(ctx, c.ID, sl.ID)
	s.requireCode(err, dErrors.CodeTimeout)
	s.True(s.slotState(sl.ID).IsFree())
	s.False(s.reload(c.ID).HasBooking())
}

func (s *BookingServiceSuite) TestFindFreeSlotsFilters() {
	tuesday := s.addSlot(s.at(2026, 3, 3, 9, 0))
	later := s.addSlot(s.at(2026, 3, 3, 15, 0))
	hidden := s.addSlot(s.at(2026, 3, 4, 9, 0))

	s.Equal([]id.SlotID{tuesday.ID, later.ID}, s.freeSlotIDs(service.SlotQuery{}))
	s.Equal([]id.SlotID{tuesday.ID, later.ID, hidden.ID}, s.freeSlotIDs(service.SlotQuery{IncludeUndisclosed: true}))
	s.Equal([]id.SlotID{later.ID}, s.freeSlotIDs(service.SlotQuery{From: s.at(2026, 3, 3, 12, 0)}))
	s.Empty(s.freeSlotIDs(service.SlotQuery{CentreIDs: []id.CentreID{id.NewCentreID()}}))

	// Restartable: ranging twice yields the same sequence.
	seq := s.svc.FindFreeSlots(s.ctx, service.SlotQuery{})
	var first, second []id.SlotID
	for sl, err := range seq {
		s.Require().NoError(err)
		first = append(first, sl.ID)
	}
	for sl, err := range seq {
		s.Require().NoError(err)
		second = append(second, sl.ID)
	}
	s.Equal(first, second)
}

func (s *BookingServiceSuite) TestHistoryAndStats() {
	c := s.addCandidate("0021")
	sl := s.addSlot(s.at(2026, 3, 3, 9, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)
	_, err = s.svc.CancelBooking(s.ctx, c.ID, models.ReasonCandidateCancel, c.Email)
	s.Require().NoError(err)

	entries, err := s.svc.History(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Len(entries, 1)

	_, err = s.svc.History(s.ctx, id.NewCandidateID())
	s.requireCode(err, dErrors.CodeNotFound)

	counts, err := s.svc.ArchiveStats(s.ctx, s.at(2026, 3, 1, 0, 0), s.at(2026, 4, 1, 0, 0))
	s.Require().NoError(err)
	for _, rc := range counts {
		if rc.Reason == models.ReasonCandidateCancel {
			s.Equal(1, rc.Count)
		}
	}

	_, err = s.svc.ArchiveStats(s.ctx, s.at(2026, 4, 1, 0, 0), s.at(2026, 3, 1, 0, 0))
	s.requireCode(err, dErrors.CodeValidation)
}

func (s *BookingServiceSuite) TestRegisterCandidate() {
	c, err := s.svc.RegisterCandidate(s.ctx, service.RegisterRequest{
		CodeNEPH:  "123456789012",
		BirthName: "MARTIN",
		Email:     "Camille.Martin@Example.fr",
	})
	s.Require().NoError(err)
	s.Equal("camille.martin@example.fr", c.Email)
	s.False(c.AurigeValidated)

	_, err = s.svc.RegisterCandidate(s.ctx, service.RegisterRequest{
		CodeNEPH:  "123456789012",
		BirthName: "MARTIN",
		Email:     "other@example.fr",
	})
	s.requireCode(err, dErrors.CodeConflict)

	_, err = s.svc.RegisterCandidate(s.ctx, service.RegisterRequest{CodeNEPH: "1", BirthName: "X", Email: "nope"})
	s.requireCode(err, dErrors.CodeValidation)
}

func (s *BookingServiceSuite) TestCreateSlot() {
	inspector := id.NewInspectorID()

	created, err := s.svc.CreateSlot(s.ctx, s.centre, inspector, s.at(2026, 3, 9, 9, 0), admin)
	s.Require().NoError(err)
	s.True(created.IsFree())

	_, err = s.svc.CreateSlot(s.ctx, s.centre, inspector, s.at(2026, 3, 9, 9, 0), admin)
	s.requireCode(err, dErrors.CodeConflict)

	// Easter Monday 2026.
	_, err = s.svc.CreateSlot(s.ctx, s.centre, inspector, s.at(2026, 4, 6, 9, 0), admin)
	s.requireCode(err, dErrors.CodeValidation)

	// Saturday.
	_, err = s.svc.CreateSlot(s.ctx, s.centre, inspector, s.at(2026, 3, 7, 9, 0), admin)
	s.requireCode(err, dErrors.CodeValidation)

	_, err = s.svc.CreateSlot(s.ctx, s.centre, inspector, s.at(2026, 3, 2, 9, 0), admin)
	s.requireCode(err, dErrors.CodeValidation)
}

func (s *BookingServiceSuite) TestApplyRegistryStatusCancelsInvalidatedBooking() {
	c := s.addCandidate("0022")
	sl := s.addSlot(s.at(2026, 3, 3, 9, 0))
	_, err := s.svc.BookSlot(s.ctx, c.ID, sl.ID)
	s.Require().NoError(err)

	res, err := s.svc.ApplyRegistryStatus(s.ctx, service.RegistryStatus{
		CodeNEPH:       c.CodeNEPH,
		Validated:      false,
		TheoryPassedAt: c.TheoryPassedAt,
	}, "aurige")
	s.Require().NoError(err)
	s.Require().NotNil(res.Cancelled)
	s.Equal(models.ReasonAdminRemoved, res.Cancelled.Reason)
	s.False(res.Candidate.AurigeValidated)
	s.False(s.reload(c.ID).HasBooking())
	s.True(s.slotState(sl.ID).IsFree())

	res, err = s.svc.ApplyRegistryStatus(s.ctx, service.RegistryStatus{
		CodeNEPH:       c.CodeNEPH,
		Validated:      true,
		TheoryPassedAt: c.TheoryPassedAt,
	}, "aurige")
	s.Require().NoError(err)
	s.Nil(res.Cancelled)
	s.True(s.reload(c.ID).AurigeValidated)

	_, err = s.svc.ApplyRegistryStatus(s.ctx, service.RegistryStatus{CodeNEPH: "unknown"}, "aurige")
	s.requireCode(err, dErrors.CodeNotFound)
}
