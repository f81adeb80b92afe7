package models

import (
	"time"

	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

// ArchiveReason says why a booking ended. The set is closed: every value is
// listed in archiveReasons and anything else is rejected at write time.
type ArchiveReason string

const (
	ReasonCandidateCancel      ArchiveReason = "candidate-cancel"
	ReasonExamFailed           ArchiveReason = "exam-failed"
	ReasonExamPassed           ArchiveReason = "exam-passed"
	ReasonAbsent               ArchiveReason = "absent"
	ReasonAdminRemoved         ArchiveReason = "admin-removed"
	ReasonReplacedByNewBooking ArchiveReason = "replaced-by-new-booking"
	ReasonAdminMoved           ArchiveReason = "admin-moved"
)

var archiveReasons = []ArchiveReason{
	ReasonCandidateCancel,
	ReasonExamFailed,
	ReasonExamPassed,
	ReasonAbsent,
	ReasonAdminRemoved,
	ReasonReplacedByNewBooking,
	ReasonAdminMoved,
}

// ArchiveReasons lists every reason in a stable order.
func ArchiveReasons() []ArchiveReason {
	return append([]ArchiveReason{}, archiveReasons...)
}

func (r ArchiveReason) IsValid() bool {
	switch r {
	case ReasonCandidateCancel, ReasonExamFailed, ReasonExamPassed, ReasonAbsent,
		ReasonAdminRemoved, ReasonReplacedByNewBooking, ReasonAdminMoved:
		return true
	}
	return false
}

// IsOutcome reports whether the reason records an exam result.
func (r ArchiveReason) IsOutcome() bool {
	switch r {
	case ReasonExamFailed, ReasonExamPassed, ReasonAbsent:
		return true
	}
	return false
}

func (r ArchiveReason) String() string { return string(r) }

// ParseArchiveReason validates a reason from an untrusted source.
func ParseArchiveReason(s string) (ArchiveReason, error) {
	r := ArchiveReason(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, "unknown archive reason: "+s)
	}
	return r, nil
}

// ArchivedBooking is an immutable snapshot of a slot at the moment it stopped
// being active for a candidate.
type ArchivedBooking struct {
	ID          id.ArchiveID   `json:"id"`
	SlotID      id.SlotID      `json:"placeId"`
	CentreID    id.CentreID    `json:"centre"`
	InspectorID id.InspectorID `json:"inspecteur"`
	Date        time.Time      `json:"date"`
	CandidateID id.CandidateID `json:"candidat"`
	Reason      ArchiveReason  `json:"archiveReason"`
	ArchivedAt  time.Time      `json:"archivedAt"`
	ActingUser  string         `json:"byUser"`
	BookedAt    *time.Time     `json:"bookedAt,omitempty"`
}

// NewArchivedBooking snapshots slot for candidateID.
func NewArchivedBooking(slot *Slot, candidateID id.CandidateID, reason ArchiveReason, actingUser string, now time.Time) (*ArchivedBooking, error) {
	if !reason.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown archive reason: "+string(reason))
	}
	if actingUser == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "acting user is required")
	}
	return &ArchivedBooking{
		ID:          id.NewArchiveID(),
		SlotID:      slot.ID,
		CentreID:    slot.CentreID,
		InspectorID: slot.InspectorID,
		Date:        slot.Date,
		CandidateID: candidateID,
		Reason:      reason,
		ArchivedAt:  now,
		ActingUser:  actingUser,
		BookedAt:    cloneTime(slot.BookedAt),
	}, nil
}
