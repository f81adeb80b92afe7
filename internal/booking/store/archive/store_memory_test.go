package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"candilib/internal/booking/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

type ArchiveStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestArchiveStoreSuite(t *testing.T) {
	suite.Run(t, new(ArchiveStoreSuite))
}

func (s *ArchiveStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
}

func (s *ArchiveStoreSuite) appendEntry(centre id.CentreID, cand id.CandidateID, reason models.ArchiveReason, examDate, archivedAt time.Time) {
	slot, err := models.NewSlot(id.NewSlotID(), centre, id.NewInspectorID(), examDate, s.now)
	s.Require().NoError(err)
	e, err := models.NewArchivedBooking(slot, cand, reason, "admin@candilib.fr", archivedAt)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Append(s.ctx, e))
}

func (s *ArchiveStoreSuite) TestListByCandidate() {
	cand := id.NewCandidateID()
	s.appendEntry(id.NewCentreID(), cand, models.ReasonCandidateCancel, s.now, s.now)
	s.appendEntry(id.NewCentreID(), cand, models.ReasonReplacedByNewBooking, s.now, s.now.Add(time.Hour))
	s.appendEntry(id.NewCentreID(), id.NewCandidateID(), models.ReasonAbsent, s.now, s.now)

	got, err := s.store.ListByCandidate(s.ctx, cand)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(models.ReasonCandidateCancel, got[0].Reason)
	s.Equal(models.ReasonReplacedByNewBooking, got[1].Reason)
}

func (s *ArchiveStoreSuite) TestRejectsUnknownReason() {
	e := &models.ArchivedBooking{ID: id.NewArchiveID(), Reason: "gone"}
	s.ErrorIs(s.store.Append(s.ctx, e), sentinel.ErrInvalidState)
}

func (s *ArchiveStoreSuite) TestCountByReasonAndPeriod() {
	day := 24 * time.Hour
	s.appendEntry(id.NewCentreID(), id.NewCandidateID(), models.ReasonCandidateCancel, s.now, s.now)
	s.appendEntry(id.NewCentreID(), id.NewCandidateID(), models.ReasonCandidateCancel, s.now, s.now.Add(day))
	s.appendEntry(id.NewCentreID(), id.NewCandidateID(), models.ReasonExamFailed, s.now, s.now.Add(day))
	s.appendEntry(id.NewCentreID(), id.NewCandidateID(), models.ReasonAbsent, s.now, s.now.Add(10*day))

	got, err := s.store.CountByReasonAndPeriod(s.ctx, s.now, s.now.Add(2*day))
	s.Require().NoError(err)
	s.Equal([]models.ReasonCount{
		{Reason: models.ReasonCandidateCancel, Count: 2},
		{Reason: models.ReasonExamFailed, Count: 1},
	}, got)
}

func (s *ArchiveStoreSuite) TestCountByOutcomeAndCentre() {
	centre := id.NewCentreID()
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonExamPassed, s.now, s.now)
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonExamPassed, s.now, s.now)
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonAbsent, s.now, s.now)
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonCandidateCancel, s.now, s.now)
	s.appendEntry(centre, id.NewCandidateID(), models.ReasonExamFailed, s.now.AddDate(0, 1, 0), s.now)

	got, err := s.store.CountByOutcomeAndCentre(s.ctx, s.now, s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.ElementsMatch([]models.CentreOutcomeCount{
		{CentreID: centre, Reason: models.ReasonExamPassed, Count: 2},
		{CentreID: centre, Reason: models.ReasonAbsent, Count: 1},
	}, got)
}

func (s *ArchiveStoreSuite) TestUndoRemovesAppend() {
	j := &tx.Journal{}
	cand := id.NewCandidateID()
	slot, err := models.NewSlot(id.NewSlotID(), id.NewCentreID(), id.NewInspectorID(), s.now, s.now)
	s.Require().NoError(err)
	e, err := models.NewArchivedBooking(slot, cand, models.ReasonAdminMoved, "admin", s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Append(tx.WithJournal(s.ctx, j), e))
	j.Rollback()

	got, err := s.store.ListByCandidate(s.ctx, cand)
	s.Require().NoError(err)
	s.Empty(got)
}
