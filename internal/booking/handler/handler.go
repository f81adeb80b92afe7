package handler

import (
	"context"
	"iter"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"candilib/internal/booking/models"
	"candilib/internal/booking/service"
	"candilib/internal/eligibility"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/httputil"
	authmw "candilib/pkg/platform/middleware/auth"
	"candilib/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/booking-mocks.go -package=mocks Service

// Service is the booking orchestrator as seen by HTTP.
type Service interface {
	RegisterCandidate(ctx context.Context, req service.RegisterRequest) (*models.Candidate, error)
	FindFreeSlots(ctx context.Context, q service.SlotQuery) iter.Seq2[*models.Slot, error]
	BookSlot(ctx context.Context, candidateID id.CandidateID, slotID id.SlotID) (*models.Slot, error)
	CancelBooking(ctx context.Context, candidateID id.CandidateID, reason models.ArchiveReason, actingUser string) (*models.ArchivedBooking, error)
	CurrentBooking(ctx context.Context, candidateID id.CandidateID) (*models.Slot, error)
	CheckEligibility(ctx context.Context, candidateID id.CandidateID) (eligibility.Verdict, error)
	History(ctx context.Context, candidateID id.CandidateID) ([]*models.ArchivedBooking, error)
	RecordOutcome(ctx context.Context, candidateID id.CandidateID, outcome models.Outcome, outcomeDate time.Time, actingUser string) (*models.Candidate, error)
	MoveBooking(ctx context.Context, candidateID id.CandidateID, newSlotID id.SlotID, actingUser string) (*models.Slot, error)
	ResetFailures(ctx context.Context, candidateID id.CandidateID, actingUser string) (*models.Candidate, error)
	CreateSlot(ctx context.Context, centreID id.CentreID, inspectorID id.InspectorID, date time.Time, actingUser string) (*models.Slot, error)
	ArchiveStats(ctx context.Context, from, to time.Time) ([]models.ReasonCount, error)
	OutcomeStats(ctx context.Context, from, to time.Time) ([]models.CentreOutcomeCount, error)
}

// defaultPageSize caps a free-slot listing when the caller sets no limit.
const defaultPageSize = 200

const maxPageSize = 1000

// Handler serves the candidate and admin booking routes.
type Handler struct {
	booking   Service
	validator authmw.TokenValidator
	logger    *slog.Logger
	location  *time.Location
}

type Option func(*Handler)

// WithLocation sets the zone plain YYYY-MM-DD query dates are read in.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) { h.location = loc }
}

func New(booking Service, validator authmw.TokenValidator, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{booking: booking, validator: validator, logger: logger, location: time.UTC}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the booking routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/candidat/register", h.HandleRegister)

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.validator, h.logger))
		r.Use(authmw.RequireLevel(requestcontext.LevelCandidate, h.logger))
		r.Get("/candidat/places", h.HandleListFreeSlots)
		r.Get("/candidat/places/current", h.HandleCurrentBooking)
		r.Post("/candidat/places/{slotID}", h.HandleBookSlot)
		r.Delete("/candidat/places", h.HandleCancelOwnBooking)
		r.Get("/candidat/eligibility", h.HandleEligibility)
		r.Get("/candidat/history", h.HandleOwnHistory)
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.validator, h.logger))
		r.Use(authmw.RequireLevel(requestcontext.LevelAdmin, h.logger))
		r.Get("/admin/places", h.HandleAdminListSlots)
		r.Post("/admin/places", h.HandleCreateSlot)
		r.Post("/admin/candidats/{candidateID}/outcome", h.HandleRecordOutcome)
		r.Put("/admin/candidats/{candidateID}/place", h.HandleMoveBooking)
		r.Delete("/admin/candidats/{candidateID}/place", h.HandleRemoveBooking)
		r.Post("/admin/candidats/{candidateID}/reset", h.HandleResetFailures)
		r.Get("/admin/candidats/{candidateID}/history", h.HandleCandidateHistory)
		r.Get("/admin/stats/archives", h.HandleArchiveStats)
		r.Get("/admin/stats/outcomes", h.HandleOutcomeStats)
	})
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	c, err := h.booking.RegisterCandidate(ctx, req.toService())
	if err != nil {
		h.fail(ctx, w, "failed to register candidate", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) HandleListFreeSlots(w http.ResponseWriter, r *http.Request) {
	h.listSlots(w, r, false)
}

func (h *Handler) HandleAdminListSlots(w http.ResponseWriter, r *http.Request) {
	h.listSlots(w, r, true)
}

func (h *Handler) listSlots(w http.ResponseWriter, r *http.Request, admin bool) {
	ctx := r.Context()
	q, limit, err := h.parseSlotQuery(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q.IncludeUndisclosed = admin

	slots := make([]*models.Slot, 0)
	for slot, err := range h.booking.FindFreeSlots(ctx, q) {
		if err != nil {
			h.fail(ctx, w, "failed to list free slots", err)
			return
		}
		slots = append(slots, slot)
		if len(slots) == limit {
			break
		}
	}
	httputil.WriteJSON(w, http.StatusOK, slots)
}

func (h *Handler) HandleCurrentBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := h.self(w, r)
	if !ok {
		return
	}
	slot, err := h.booking.CurrentBooking(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "failed to load current booking", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BookingResponse{Place: slot})
}

func (h *Handler) HandleBookSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := h.self(w, r)
	if !ok {
		return
	}
	slotID, err := id.ParseSlotID(chi.URLParam(r, "slotID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid slot identifier"))
		return
	}
	slot, err := h.booking.BookSlot(ctx, candidateID, slotID)
	if err != nil {
		h.fail(ctx, w, "failed to book slot", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BookingResponse{Place: slot})
}

func (h *Handler) HandleCancelOwnBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := h.self(w, r)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	if _, err := h.booking.CancelBooking(ctx, candidateID, models.ReasonCandidateCancel, actor); err != nil {
		h.fail(ctx, w, "failed to cancel booking", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleEligibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := h.self(w, r)
	if !ok {
		return
	}
	verdict, err := h.booking.CheckEligibility(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "failed to check eligibility", err)
		return
	}
	resp := EligibilityResponse{Allowed: verdict.Allowed, Reason: string(verdict.Reason)}
	if !verdict.AllowedFrom.IsZero() {
		resp.AllowedFrom = &verdict.AllowedFrom
	}
	if !verdict.ExpiredAt.IsZero() {
		resp.ExpiredAt = &verdict.ExpiredAt
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleOwnHistory(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := h.self(w, r)
	if !ok {
		return
	}
	h.writeHistory(w, r, candidateID)
}

func (h *Handler) HandleCandidateHistory(w http.ResponseWriter, r *http.Request) {
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	h.writeHistory(w, r, candidateID)
}

func (h *Handler) writeHistory(w http.ResponseWriter, r *http.Request, candidateID id.CandidateID) {
	ctx := r.Context()
	entries, err := h.booking.History(ctx, candidateID)
	if err != nil {
		h.fail(ctx, w, "failed to list booking history", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entries)
}

func (h *Handler) HandleCreateSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateSlotRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	slot, err := h.booking.CreateSlot(ctx, req.centreID, req.inspectorID, req.Date, actor)
	if err != nil {
		h.fail(ctx, w, "failed to create slot", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, slot)
}

func (h *Handler) HandleRecordOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[OutcomeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	c, err := h.booking.RecordOutcome(ctx, candidateID, req.parsed, req.Date, actor)
	if err != nil {
		h.fail(ctx, w, "failed to record outcome", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleMoveBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[MoveRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	slot, err := h.booking.MoveBooking(ctx, candidateID, req.slotID, actor)
	if err != nil {
		h.fail(ctx, w, "failed to move booking", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, BookingResponse{Place: slot})
}

func (h *Handler) HandleRemoveBooking(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	if _, err := h.booking.CancelBooking(ctx, candidateID, models.ReasonAdminRemoved, actor); err != nil {
		h.fail(ctx, w, "failed to remove booking", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleResetFailures(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	candidateID, ok := candidateParam(w, r)
	if !ok {
		return
	}
	actor := requestcontext.CurrentPrincipal(ctx).Actor()
	c, err := h.booking.ResetFailures(ctx, candidateID, actor)
	if err != nil {
		h.fail(ctx, w, "failed to reset failures", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleArchiveStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := h.parsePeriod(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	counts, err := h.booking.ArchiveStats(ctx, from, to)
	if err != nil {
		h.fail(ctx, w, "failed to compute archive statistics", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{From: from, To: to, Counts: counts})
}

func (h *Handler) HandleOutcomeStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	from, to, err := h.parsePeriod(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	counts, err := h.booking.OutcomeStats(ctx, from, to)
	if err != nil {
		h.fail(ctx, w, "failed to compute outcome statistics", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatsResponse{From: from, To: to, Counts: counts})
}

// self returns the candidate ID of the authenticated candidate.
func (h *Handler) self(w http.ResponseWriter, r *http.Request) (id.CandidateID, bool) {
	ctx := r.Context()
	candidateID, err := id.ParseCandidateID(requestcontext.CurrentPrincipal(ctx).Subject)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate token with malformed subject",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
		return id.CandidateID{}, false
	}
	return candidateID, true
}

// fail logs unexpected errors and writes the error response. Expected
// domain failures are logged at info level only.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	requestID := requestcontext.RequestID(ctx)
	de, ok := dErrors.As(err)
	if ok && httputil.StatusFor(de.Code) < http.StatusInternalServerError {
		h.logger.InfoContext(ctx, msg,
			"request_id", requestID,
			"code", string(de.Code),
			"reason", de.Reason,
		)
	} else {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestID,
			"error", err,
		)
	}
	httputil.WriteError(w, err)
}

func candidateParam(w http.ResponseWriter, r *http.Request) (id.CandidateID, bool) {
	candidateID, err := id.ParseCandidateID(chi.URLParam(r, "candidateID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid candidate identifier"))
		return id.CandidateID{}, false
	}
	return candidateID, true
}

func (h *Handler) parseSlotQuery(r *http.Request) (service.SlotQuery, int, error) {
	values := r.URL.Query()
	q := service.SlotQuery{Department: strings.TrimSpace(values.Get("departement"))}
	for _, raw := range values["centre"] {
		centreID, err := id.ParseCentreID(raw)
		if err != nil {
			return q, 0, dErrors.New(dErrors.CodeBadRequest, "invalid centre identifier")
		}
		q.CentreIDs = append(q.CentreIDs, centreID)
	}
	var err error
	if q.From, err = h.parseTime(values.Get("from"), "from"); err != nil {
		return q, 0, err
	}
	if q.To, err = h.parseTime(values.Get("to"), "to"); err != nil {
		return q, 0, err
	}
	limit := defaultPageSize
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxPageSize {
			return q, 0, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and "+strconv.Itoa(maxPageSize))
		}
		limit = n
	}
	return q, limit, nil
}

func (h *Handler) parsePeriod(r *http.Request) (time.Time, time.Time, error) {
	values := r.URL.Query()
	from, err := h.parseTime(values.Get("from"), "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := h.parseTime(values.Get("to"), "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.IsZero() || to.IsZero() {
		return time.Time{}, time.Time{}, dErrors.New(dErrors.CodeBadRequest, "from and to are required")
	}
	return from, to, nil
}

// parseTime accepts RFC 3339 instants and plain dates. A plain date is
// midnight in the handler's location.
func (h *Handler) parseTime(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(time.DateOnly, raw, h.location); err == nil {
		return t, nil
	}
	return time.Time{}, dErrors.New(dErrors.CodeBadRequest, field+" must be an RFC 3339 instant or a YYYY-MM-DD date")
}
