package models

import dErrors "candilib/pkg/domain-errors"

// Outcome is the result of a practical exam.
type Outcome string

const (
	OutcomePassed Outcome = "passed"
	OutcomeFailed Outcome = "failed"
	OutcomeAbsent Outcome = "absent"
)

func ParseOutcome(s string) (Outcome, error) {
	switch o := Outcome(s); o {
	case OutcomePassed, OutcomeFailed, OutcomeAbsent:
		return o, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "outcome must be one of passed, failed, absent")
}

// IsFailure reports whether the outcome counts against the candidate.
func (o Outcome) IsFailure() bool {
	return o == OutcomeFailed || o == OutcomeAbsent
}

// ArchiveReason maps the outcome to the reason its booking is archived with.
func (o Outcome) ArchiveReason() ArchiveReason {
	switch o {
	case OutcomePassed:
		return ReasonExamPassed
	case OutcomeAbsent:
		return ReasonAbsent
	default:
		return ReasonExamFailed
	}
}
