//go:build integration

package archive_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"candilib/internal/booking/models"
	"candilib/internal/booking/store/archive"
	id "candilib/pkg/domain"
	"candilib/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *archive.PostgresStore
	now      time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = archive.NewPostgres(s.postgres.DB)
	s.now = time.Now().UTC().Truncate(time.Microsecond)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "archived_places"))
}

func (s *PostgresStoreSuite) appendEntry(centre id.CentreID, cand id.CandidateID, reason models.ArchiveReason, examDate, at time.Time) {
	sl, err := models.NewSlot(id.NewSlotID(), centre, id.NewInspectorID(), examDate, s.now)
	s.Require().NoError(err)
	e, err := models.NewArchivedBooking(sl, cand, reason, "admin@candilib.fr", at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(context.Background(), e))
}

func (s *PostgresStoreSuite) TestLedgerQueries() {
	ctx := context.Background()
	centre := id.NewCentreID()
	cand := id.NewCandidateID()
	s.appendEntry(centre, cand, models.ReasonReplacedByNewBooking, s.now, s.now)
	s.appendEntry(centre, cand, models.ReasonExamFailed, s.now, s.now.Add(time.Minute))
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonExamPassed, s.now, s.now.Add(time.Minute))
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonExamPassed, s.now.AddDate(0, 0, -10), s.now.AddDate(0, 0, -10))

	list, err := s.store.ListByCandidate(ctx, cand)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(models.ReasonReplacedByNewBooking, list[0].Reason)

	byReason, err := s.store.CountByReasonAndPeriod(ctx, s.now, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal([]models.ReasonCount{
		{Reason: models.ReasonExamFailed, Count: 1},
		{Reason: models.ReasonExamPassed, Count: 1},
		{Reason: models.ReasonReplacedByNewBooking, Count: 1},
	}, byReason)

	byCentre, err := s.store.CountByOutcomeAndCentre(ctx, s.now, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.ElementsMatch([]models.CentreOutcomeCount{
		{CentreID: centre, Reason: models.ReasonExamFailed, Count: 1},
		{CentreID: centre, Reason: models.ReasonExamPassed, Count: 1},
	}, byCentre)
}

func (s *PostgresStoreSuite) TestCheckConstraintRejectsUnknownReason() {
	err := s.postgres.Exec(context.Background(), `
		INSERT INTO archived_places (id, place_id, centre_id, inspector_id, date, candidat_id, reason, archived_at, acting_user)
		VALUES (gen_random_uuid(), gen_random_uuid(), gen_random_uuid(), gen_random_uuid(), now(), gen_random_uuid(), 'gone', now(), 'x')
	`)
	s.Error(err)
}
