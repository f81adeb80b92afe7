package models

import (
	"net/mail"
	"strings"
	"time"

	id "candilib/pkg/domain"
	dErrors "candilib/pkg/domain-errors"
)

// Failure is one non-success practical exam outcome.
type Failure struct {
	Date   time.Time `json:"date"`
	Reason Outcome   `json:"reason"`
}

// Candidate is the aggregate root for a person booking practical exams.
//
// Invariants:
//   - CodeNEPH, BirthName and Email are non-empty; NEPH and Email are unique
//     across candidates (enforced by the store)
//   - PlaceID references at most one active slot
//   - Failures is append-only except for an administrative reset
//   - Once PassedAt is set the candidate never books again
type Candidate struct {
	ID              id.CandidateID `json:"id"`
	CodeNEPH        string         `json:"codeNeph"`
	BirthName       string         `json:"nomNaissance"`
	Email           string         `json:"email"`
	TheoryPassedAt  *time.Time     `json:"dateReussiteETG,omitempty"`
	AurigeValidated bool           `json:"isValidatedByAurige"`
	Failures        []Failure      `json:"noReussites"`
	CanBookFrom     *time.Time     `json:"canBookFrom,omitempty"`
	PlaceID         *id.SlotID     `json:"place,omitempty"`
	PassedAt        *time.Time     `json:"passedAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// NewCandidate validates identity fields and returns an unvalidated candidate
// with no booking.
func NewCandidate(candidateID id.CandidateID, codeNEPH, birthName, email string, now time.Time) (*Candidate, error) {
	codeNEPH = strings.TrimSpace(codeNEPH)
	birthName = strings.TrimSpace(birthName)
	email = strings.ToLower(strings.TrimSpace(email))
	if codeNEPH == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "codeNeph is required")
	}
	if birthName == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "nomNaissance is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "email is invalid")
	}
	return &Candidate{
		ID:        candidateID,
		CodeNEPH:  codeNEPH,
		BirthName: birthName,
		Email:     email,
		Failures:  []Failure{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// HasBooking reports whether the candidate holds an active slot.
func (c *Candidate) HasBooking() bool {
	return c.PlaceID != nil
}

// HasPassed reports whether the candidate already passed the practical exam.
func (c *Candidate) HasPassed() bool {
	return c.PassedAt != nil
}

func (c *Candidate) FailureCount() int {
	return len(c.Failures)
}

// ApplyBooking points the candidate at slotID.
func (c *Candidate) ApplyBooking(slotID id.SlotID, now time.Time) {
	c.PlaceID = &slotID
	c.UpdatedAt = now
}

// ClearBooking drops the active slot reference.
func (c *Candidate) ClearBooking(now time.Time) {
	c.PlaceID = nil
	c.UpdatedAt = now
}

// ApplyFailure appends a failure and moves canBookFrom to retryFrom.
func (c *Candidate) ApplyFailure(outcome Outcome, date, retryFrom, now time.Time) {
	c.Failures = append(c.Failures, Failure{Date: date, Reason: outcome})
	c.CanBookFrom = &retryFrom
	c.UpdatedAt = now
}

// ApplyPass records a passed exam.
func (c *Candidate) ApplyPass(date, now time.Time) {
	c.PassedAt = &date
	c.UpdatedAt = now
}

// ApplyRegistryStatus copies the registry's validation verdict and theory
// pass date.
func (c *Candidate) ApplyRegistryStatus(validated bool, theoryPassedAt *time.Time, now time.Time) {
	c.AurigeValidated = validated
	c.TheoryPassedAt = cloneTime(theoryPassedAt)
	c.UpdatedAt = now
}

// CanResetFailures checks that there is something to reset.
func (c *Candidate) CanResetFailures() error {
	if len(c.Failures) == 0 && c.CanBookFrom == nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "candidate has no failures to reset")
	}
	return nil
}

// ApplyResetFailures clears the failure history and retry delay.
func (c *Candidate) ApplyResetFailures(now time.Time) {
	c.Failures = []Failure{}
	c.CanBookFrom = nil
	c.UpdatedAt = now
}

// Clone returns a deep copy, so stores never share mutable state with callers.
func (c *Candidate) Clone() *Candidate {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Failures = append([]Failure{}, c.Failures...)
	cp.TheoryPassedAt = cloneTime(c.TheoryPassedAt)
	cp.CanBookFrom = cloneTime(c.CanBookFrom)
	cp.PassedAt = cloneTime(c.PassedAt)
	if c.PlaceID != nil {
		p := *c.PlaceID
		cp.PlaceID = &p
	}
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
