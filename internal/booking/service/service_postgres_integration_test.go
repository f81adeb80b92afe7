//go:build integration

package service_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
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
	"candilib/pkg/testutil/containers"
)

type PostgresBookingSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	cal        *calendar.Service
	slots      *slot.PostgresStore
	candidates *candidate.PostgresStore
	archive    *archive.PostgresStore
	svc        *service.Service
	centre     id.CentreID
}

func TestPostgresBookingSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresBookingSuite))
}

func (s *PostgresBookingSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.slots = slot.NewPostgres(s.postgres.DB)
	s.candidates = candidate.NewPostgres(s.postgres.DB)
	s.archive = archive.NewPostgres(s.postgres.DB)
}

func (s *PostgresBookingSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "archived_places", "candidats", "places", "centres"))

	loc, err := time.LoadLocation("Europe/Paris")
	s.Require().NoError(err)
	s.cal = calendar.New(testclock.NewClock(time.Date(2026, 3, 2, 14, 0, 0, 0, loc)), calendar.WithLocation(loc))
	s.svc = service.New(s.slots, s.candidates, s.archive, s.cal,
		eligibility.NewEvaluator(eligibility.DefaultPolicy()),
		service.WithStoreTx(service.NewPostgresTx(s.postgres.DB, 5*time.Second)),
		service.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	s.centre = id.NewCentreID()
	s.Require().NoError(s.postgres.Exec(ctx, `
		INSERT INTO centres (id, name, department, created_at, updated_at) VALUES ($1, 'Rungis', '94', now(), now())
	`, uuid.UUID(s.centre)))
}

func (s *PostgresBookingSuite) addSlot(hoursAhead int) *models.Slot {
	sl, err := models.NewSlot(id.NewSlotID(), s.centre, id.NewInspectorID(),
		s.cal.Now().Add(time.Duration(hoursAhead)*time.Hour).Truncate(time.Microsecond), s.cal.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.slots.Create(context.Background(), sl))
	return sl
}

func (s *PostgresBookingSuite) addCandidate() *models.Candidate {
	neph := uuid.NewString()[:12]
	c, err := models.NewCandidate(id.NewCandidateID(), neph, "LEROY", neph+"@example.fr", s.cal.Now())
	s.Require().NoError(err)
	theory := s.cal.Now().AddDate(-1, 0, 0).Truncate(time.Microsecond)
	c.TheoryPassedAt = &theory
	c.AurigeValidated = true
	s.Require().NoError(s.candidates.Create(context.Background(), c))
	return c
}

func (s *PostgresBookingSuite) TestRebookIsAtomic() {
	ctx := context.Background()
	c := s.addCandidate()
	first, second := s.addSlot(19), s.addSlot(20)

	_, err := s.svc.BookSlot(ctx, c.ID, first.ID)
	s.Require().NoError(err)
	_, err = s.svc.BookSlot(ctx, c.ID, second.ID)
	s.Require().NoError(err)

	got, err := s.candidates.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(second.ID, *got.PlaceID)

	freed, err := s.slots.FindByID(ctx, first.ID)
	s.Require().NoError(err)
	s.True(freed.IsFree())

	entries, err := s.archive.ListByCandidate(ctx, c.ID)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(models.ReasonReplacedByNewBooking, entries[0].Reason)
}

func (s *PostgresBookingSuite) TestConcurrentBookingsOfOneSlot() {
	sl := s.addSlot(20)
	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for range n {
		c := s.addCandidate()
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.BookSlot(context.Background(), c.ID, sl.ID)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
				return
			}
			s.True(dErrors.HasCode(err, dErrors.CodeSlotAlreadyBooked), "unexpected error: %v", err)
		}()
	}
	wg.Wait()
	s.Equal(1, winners)
}

func (s *PostgresBookingSuite) TestConcurrentBookingsOfOneCandidate() {
	c := s.addCandidate()
	slots := []*models.Slot{s.addSlot(19), s.addSlot(20), s.addSlot(21), s.addSlot(22)}

	var wg sync.WaitGroup
	for _, sl := range slots {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.svc.BookSlot(context.Background(), c.ID, sl.ID)
		}()
	}
	wg.Wait()

	held := 0
	for _, sl := range slots {
		got, err := s.slots.FindByID(context.Background(), sl.ID)
		s.Require().NoError(err)
		if got.IsHeldBy(c.ID) {
			held++
		}
	}
	s.Equal(1, held)
}

func (s *PostgresBookingSuite) TestCancelAndOutcome() {
	ctx := context.Background()
	c := s.addCandidate()
	sl := s.addSlot(20)

	_, err := s.svc.BookSlot(ctx, c.ID, sl.ID)
	s.Require().NoError(err)
	archived, err := s.svc.CancelBooking(ctx, c.ID, models.ReasonCandidateCancel, c.Email)
	s.Require().NoError(err)
	s.NotNil(archived)

	again, err := s.svc.CancelBooking(ctx, c.ID, models.ReasonCandidateCancel, c.Email)
	s.Require().NoError(err)
	s.Nil(again)

	examDate := s.cal.Now().Truncate(time.Microsecond)
	updated, err := s.svc.RecordOutcome(ctx, c.ID, models.OutcomeFailed, examDate, "admin@candilib.fr")
	s.Require().NoError(err)
	s.True(updated.CanBookFrom.Equal(examDate.AddDate(0, 0, 45)))

	stored, err := s.candidates.FindByID(ctx, c.ID)
	s.Require().NoError(err)
	s.Equal(1, stored.FailureCount())
	s.True(stored.CanBookFrom.Equal(examDate.AddDate(0, 0, 45)))
}
