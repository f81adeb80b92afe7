package models

import (
	"time"

	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

// Slot is a bookable (centre, inspector, date) triple. CandidateID is a
// back-reference to the holder, not ownership.
type Slot struct {
	ID          id.SlotID       `json:"id"`
	CentreID    id.CentreID     `json:"centre"`
	InspectorID id.InspectorID  `json:"inspecteur"`
	Date        time.Time       `json:"date"`
	CandidateID *id.CandidateID `json:"candidat,omitempty"`
	BookedAt    *time.Time      `json:"bookedAt,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewSlot(slotID id.SlotID, centreID id.CentreID, inspectorID id.InspectorID, date, now time.Time) (*Slot, error) {
	if centreID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "centre is required")
	}
	if inspectorID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "inspecteur is required")
	}
	if date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "date is required")
	}
	return &Slot{
		ID:          slotID,
		CentreID:    centreID,
		InspectorID: inspectorID,
		Date:        date,
		CreatedAt:   now,
	}, nil
}

func (s *Slot) IsFree() bool {
	return s.CandidateID == nil
}

// IsHeldBy reports whether candidateID holds the slot.
func (s *Slot) IsHeldBy(candidateID id.CandidateID) bool {
	return s.CandidateID != nil && *s.CandidateID == candidateID
}

func (s *Slot) Clone() *Slot {
	if s == nil {
		return nil
	}
	cp := *s
	if s.CandidateID != nil {
		c := *s.CandidateID
		cp.CandidateID = &c
	}
	cp.BookedAt = cloneTime(s.BookedAt)
	return &cp
}
