package aurige_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"candilib/internal/aurige"
	"candilib/internal/aurige/mocks"
	"candilib/internal/booking/models"
	"candilib/internal/booking/service"
	"candilib/internal/booking/store/archive"
	"candilib/internal/booking/store/candidate"
	"candilib/internal/booking/store/slot"
	"candilib/internal/calendar"
	"candilib/internal/eligibility"
	"candilib/internal/notification"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestApplyCountsOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	syncer := aurige.NewSyncer(registry, aurige.WithLogger(discard), aurige.WithConcurrency(2))

	known := &models.Candidate{ID: id.NewCandidateID()}
	registry.EXPECT().ApplyRegistryStatus(gomock.Any(), gomock.Any(), "aurige-sync").DoAndReturn(
		func(_ context.Context, st service.RegistryStatus, _ string) (service.RegistryResult, error) {
			switch st.CodeNEPH {
			case "known":
				assert.True(t, st.Validated)
				assert.NotNil(t, st.TheoryPassedAt)
				return service.RegistryResult{Candidate: known}, nil
			case "booked":
				assert.False(t, st.Validated)
				return service.RegistryResult{Candidate: known, Cancelled: &models.ArchivedBooking{SlotID: id.NewSlotID()}}, nil
			case "ghost":
				return service.RegistryResult{}, dErrors.New(dErrors.CodeNotFound, "candidate not found")
			default:
				return service.RegistryResult{}, dErrors.New(dErrors.CodeStorageFailure, "failed to save candidate")
			}
		}).Times(4)

	report, err := syncer.Apply(context.Background(), []aurige.Record{
		{CodeNEPH: "known", Existing: "OK", TheoryPassedOn: "2025-09-12"},
		{CodeNEPH: "booked", Existing: "NOK"},
		{CodeNEPH: "ghost", Existing: "OK"},
		{CodeNEPH: "broken", Existing: "OK"},
		{CodeNEPH: "", Existing: "OK"},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Total)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Cancelled)
	assert.Equal(t, 1, report.Unknown)
	assert.Equal(t, 2, report.Failed)
	assert.Len(t, report.Failures, 2)
}

func TestApplySkipsUnchangedRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	cache := mocks.NewMockVerdictCache(ctrl)
	syncer := aurige.NewSyncer(registry, aurige.WithCache(cache), aurige.WithLogger(discard))

	cache.EXPECT().Unchanged(gomock.Any(), "same", "ok").Return(true, nil)
	cache.EXPECT().Unchanged(gomock.Any(), "new", "ok|2025-09-12").Return(false, nil)
	cache.EXPECT().Unchanged(gomock.Any(), "flaky", "nok").Return(false, errors.New("i/o timeout"))
	registry.EXPECT().ApplyRegistryStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(service.RegistryResult{Candidate: &models.Candidate{}}, nil).Times(2)
	cache.EXPECT().Remember(gomock.Any(), "new", "ok|2025-09-12").Return(nil)
	cache.EXPECT().Remember(gomock.Any(), "flaky", "nok").Return(errors.New("i/o timeout"))

	report, err := syncer.Apply(context.Background(), []aurige.Record{
		{CodeNEPH: "same", Existing: "OK"},
		{CodeNEPH: "new", Existing: "OK", TheoryPassedOn: "2025-09-12"},
		{CodeNEPH: "flaky", Existing: "NOK"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Unchanged)
	assert.Equal(t, 2, report.Updated)
	assert.Zero(t, report.Failed)
}

func TestApplyStopsOnCancellation(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockRegistry(ctrl)
	syncer := aurige.NewSyncer(registry, aurige.WithLogger(discard))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := syncer.Apply(ctx, []aurige.Record{{CodeNEPH: "1", Existing: "OK"}})
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
}

type capturedEvents struct {
	events []notification.Event
}

func (c *capturedEvents) Deliver(_ context.Context, events []notification.Event) error {
	c.events = append(c.events, events...)
	return nil
}

// The registry withdrawing validation from a booked candidate frees the slot.
func TestApplyCancelsBookingOfInvalidatedCandidate(t *testing.T) {
	ctx := context.Background()
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)
	clk := testclock.NewClock(time.Date(2026, 3, 2, 14, 0, 0, 0, paris))
	cal := calendar.New(clk, calendar.WithLocation(paris))
	slots, candidates, ledger := slot.NewInMemory(), candidate.NewInMemory(), archive.NewInMemory()
	sink := &capturedEvents{}
	notifier := notification.NewDispatcher(sink, notification.WithLogger(discard))
	booking := service.New(slots, candidates, ledger, cal,
		eligibility.NewEvaluator(eligibility.DefaultPolicy()),
		service.WithLogger(discard), service.WithNotifier(notifier))

	c, err := booking.RegisterCandidate(ctx, service.RegisterRequest{CodeNEPH: "0123456789", BirthName: "DURAND", Email: "durand@example.fr"})
	require.NoError(t, err)
	syncer := aurige.NewSyncer(booking, aurige.WithLocation(paris), aurige.WithLogger(discard))

	report, err := syncer.Apply(ctx, []aurige.Record{{CodeNEPH: "0123456789", Existing: "OK", TheoryPassedOn: "2025-09-12"}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	sl, err := models.NewSlot(id.NewSlotID(), id.NewCentreID(), id.NewInspectorID(), cal.Now().Add(20*time.Hour), cal.Now())
	require.NoError(t, err)
	require.NoError(t, slots.Create(ctx, sl))
	_, err = booking.BookSlot(ctx, c.ID, sl.ID)
	require.NoError(t, err)

	report, err = syncer.Apply(ctx, []aurige.Record{{CodeNEPH: "0123456789", Existing: "NOK"}})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Cancelled)

	freed, err := slots.FindByID(ctx, sl.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsFree())
	history, err := booking.History(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.ReasonAdminRemoved, history[0].Reason)

	require.NoError(t, notifier.Flush(ctx))
	require.Len(t, sink.events, 2)
	assert.Equal(t, notification.TypeBooked, sink.events[0].Type)
	cancelled := sink.events[1]
	assert.Equal(t, notification.TypeCancelled, cancelled.Type)
	assert.Equal(t, c.ID, cancelled.CandidateID)
	assert.Equal(t, string(models.ReasonAdminRemoved), cancelled.Reason)
	require.NotNil(t, cancelled.Slot)
	assert.Equal(t, sl.ID, cancelled.Slot.ID)
}
