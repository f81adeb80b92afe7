// Package notification delivers booking events to candidates' downstream
// channels. Producers never block: events go through a bounded queue that a
// background worker drains into a Sink.
package notification

import (
	"time"

	id "candilib/pkg/domain"
)

// Type names the booking transition an event reports.
type Type string

const (
	TypeBooked    Type = "booked"
	TypeCancelled Type = "cancelled"
	TypeMoved     Type = "moved"
	TypeOutcome   Type = "outcome"
)

// Slot is the slot snapshot carried by an event.
type Slot struct {
	ID          id.SlotID      `json:"id"`
	CentreID    id.CentreID    `json:"centre"`
	InspectorID id.InspectorID `json:"inspecteur"`
	Date        time.Time      `json:"date"`
}

// Event is published after a booking transaction commits.
type Event struct {
	CandidateID id.CandidateID `json:"candidat"`
	Type        Type           `json:"type"`
	Slot        *Slot          `json:"place,omitempty"`
	// Reason is the archive reason for cancellations and outcomes.
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}
