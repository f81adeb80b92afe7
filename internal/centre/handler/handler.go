package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"candilib/internal/centre/models"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
	"candilib/pkg/platform/httputil"
	authmw "candilib/pkg/platform/middleware/auth"
	"candilib/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, d models.Details, actingUser string) (*models.Centre, error)
	Get(ctx context.Context, centreID id.CentreID) (*models.Centre, error)
	ListByDepartment(ctx context.Context, department string) ([]*models.Centre, error)
	Update(ctx context.Context, centreID id.CentreID, d models.Details, actingUser string) (*models.Centre, error)
	Deactivate(ctx context.Context, centreID id.CentreID, actingUser string) (*models.Centre, error)
	Reactivate(ctx context.Context, centreID id.CentreID, actingUser string) (*models.Centre, error)
}

type Handler struct {
	centres   Service
	validator authmw.TokenValidator
	logger    *slog.Logger
}

func New(centres Service, validator authmw.TokenValidator, logger *slog.Logger) *Handler {
	return &Handler{centres: centres, validator: validator, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin/centres", func(r chi.Router) {
		r.Use(authmw.RequireAuth(h.validator, h.logger))
		r.Use(authmw.RequireLevel(requestcontext.LevelAdmin, h.logger))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/{centreID}", h.handleGet)
		r.Put("/{centreID}", h.handleUpdate)
		r.Post("/{centreID}/deactivate", h.handleDeactivate)
		r.Post("/{centreID}/reactivate", h.handleReactivate)
	})
}

// CentreRequest is the body of create and update calls.
type CentreRequest struct {
	Name       string        `json:"nom"`
	Address    string        `json:"adresse"`
	Department string        `json:"departement"`
	Geo        models.GeoLoc `json:"geoloc"`
}

func (r *CentreRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Department = strings.TrimSpace(r.Department)
	if r.Name == "" || r.Department == "" {
		return dErrors.New(dErrors.CodeValidation, "nom and departement are required")
	}
	return nil
}

func (r *CentreRequest) details() models.Details {
	return models.Details{Name: r.Name, Address: r.Address, Department: r.Department, Geo: r.Geo}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	department := strings.TrimSpace(r.URL.Query().Get("departement"))
	if department == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "departement is required"))
		return
	}
	centres, err := h.centres.ListByDepartment(r.Context(), department)
	if err != nil {
		h.fail(r.Context(), w, "failed to list centres", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, centres)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CentreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.centres.Create(ctx, req.details(), requestcontext.CurrentPrincipal(ctx).Actor())
	if err != nil {
		h.fail(ctx, w, "failed to create centre", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	centreID, ok := centreParam(w, r)
	if !ok {
		return
	}
	c, err := h.centres.Get(r.Context(), centreID)
	if err != nil {
		h.fail(r.Context(), w, "failed to load centre", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	centreID, ok := centreParam(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CentreRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}
	c, err := h.centres.Update(ctx, centreID, req.details(), requestcontext.CurrentPrincipal(ctx).Actor())
	if err != nil {
		h.fail(ctx, w, "failed to update centre", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.centres.Deactivate, "failed to deactivate centre")
}

func (h *Handler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.centres.Reactivate, "failed to reactivate centre")
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request,
	op func(context.Context, id.CentreID, string) (*models.Centre, error), msg string) {
	ctx := r.Context()
	centreID, ok := centreParam(w, r)
	if !ok {
		return
	}
	c, err := op(ctx, centreID, requestcontext.CurrentPrincipal(ctx).Actor())
	if err != nil {
		h.fail(ctx, w, msg, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	h.logger.ErrorContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	httputil.WriteError(w, err)
}

func centreParam(w http.ResponseWriter, r *http.Request) (id.CentreID, bool) {
	centreID, err := id.ParseCentreID(chi.URLParam(r, "centreID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid centre identifier"))
		return id.CentreID{}, false
	}
	return centreID, true
}
