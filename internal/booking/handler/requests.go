package handler

import (
	"strings"
	"time"

	"candilib/internal/booking/models"
	"candilib/internal/booking/service"
	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

type RegisterRequest struct {
	CodeNEPH  string `json:"codeNeph"`
	BirthName string `json:"nomNaissance"`
	Email     string `json:"email"`
}

func (r *RegisterRequest) Validate() error {
	r.CodeNEPH = strings.TrimSpace(r.CodeNEPH)
	r.BirthName = strings.TrimSpace(r.BirthName)
	r.Email = strings.TrimSpace(r.Email)
	if r.CodeNEPH == "" || r.BirthName == "" || r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "codeNeph, nomNaissance and email are required")
	}
	return nil
}

func (r *RegisterRequest) toService() service.RegisterRequest {
	return service.RegisterRequest{CodeNEPH: r.CodeNEPH, BirthName: r.BirthName, Email: r.Email}
}

type OutcomeRequest struct {
	Outcome string    `json:"outcome"`
	Date    time.Time `json:"date"`

	parsed models.Outcome
}

func (r *OutcomeRequest) Validate() error {
	outcome, err := models.ParseOutcome(strings.TrimSpace(r.Outcome))
	if err != nil {
		return err
	}
	if r.Date.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "date is required")
	}
	r.parsed = outcome
	return nil
}

type MoveRequest struct {
	PlaceID string `json:"placeId"`

	slotID id.SlotID
}

func (r *MoveRequest) Validate() error {
	slotID, err := id.ParseSlotID(r.PlaceID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "placeId must be a valid identifier")
	}
	r.slotID = slotID
	return nil
}

type CreateSlotRequest struct {
	CentreID    string    `json:"centre"`
	InspectorID string    `json:"inspecteur"`
	Date        time.Time `json:"date"`

	centreID    id.CentreID
	inspectorID id.InspectorID
}

func (r *CreateSlotRequest) Validate() error {
	centreID, err := id.ParseCentreID(r.CentreID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "centre must be a valid identifier")
	}
	inspectorID, err := id.ParseInspectorID(r.InspectorID)
	if err != nil {
		return dErrors.New(dErrors.CodeValidation, "inspecteur must be a valid identifier")
	}
	if r.Date.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "date is required")
	}
	r.centreID = centreID
	r.inspectorID = inspectorID
	return nil
}

// EligibilityResponse is the JSON form of a verdict.
type EligibilityResponse struct {
	Allowed     bool       `json:"allowed"`
	Reason      string     `json:"reason,omitempty"`
	AllowedFrom *time.Time `json:"allowedFrom,omitempty"`
	ExpiredAt   *time.Time `json:"expiredAt,omitempty"`
}

// BookingResponse wraps the current booking, which may be absent.
type BookingResponse struct {
	Place *models.Slot `json:"place"`
}

type StatsResponse struct {
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
	Counts any       `json:"counts"`
}
