package audit

import "time"

// Action labels what happened. Keep values stable: they are stored and
// queried by operators.
type Action string

const (
	ActionSlotBooked      Action = "slot_booked"
	ActionBookingCanceled Action = "booking_cancelled"
	ActionBookingMoved    Action = "booking_moved"
	ActionOutcomeRecorded Action = "outcome_recorded"
	ActionFailuresReset   Action = "failures_reset"
	ActionCandidateAdded  Action = "candidate_registered"
	ActionSlotCreated     Action = "slot_created"

	ActionCentreCreated     Action = "centre_created"
	ActionCentreUpdated     Action = "centre_updated"
	ActionCentreDeactivated Action = "centre_deactivated"
	ActionCentreReactivated Action = "centre_reactivated"

	ActionAurigeApplied Action = "aurige_record_applied"
)

// Entry is one line of the operator audit trail. It replaces ad-hoc log
// accumulation: producers record entries, the Flusher persists them in batches.
type Entry struct {
	Timestamp time.Time
	Actor     string // acting user (candidate or admin email, "system" for jobs)
	Action    Action
	Subject   string // affected entity, usually a candidate or centre ID
	Detail    string
	RequestID string
}
