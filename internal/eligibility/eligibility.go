// Package eligibility decides whether a candidate may book an exam slot.
//
// Denials are checked in a fixed order and the first failing rule wins:
//
//  1. ALREADY_PASSED: the candidate passed the practical exam
//  2. MAX_FAILURES_REACHED: the failure count reached the policy threshold
//  3. NOT_VALIDATED: the registry has not validated the candidate
//  4. THEORY_EXPIRED: the theory pass is missing or too old
//  5. RETRY_TOO_SOON: canBookFrom is still in the future
package eligibility

import (
	"time"

	"candilib/internal/booking/models"
	dErrors "candilib/pkg/domain-errors"
)

// Reason is a denial sub-reason.
type Reason string

const (
	ReasonAlreadyPassed      Reason = "ALREADY_PASSED"
	ReasonMaxFailuresReached Reason = "MAX_FAILURES_REACHED"
	ReasonNotValidated       Reason = "NOT_VALIDATED"
	ReasonTheoryExpired      Reason = "THEORY_EXPIRED"
	ReasonRetryTooSoon       Reason = "RETRY_TOO_SOON"
)

// Policy holds the configurable eligibility thresholds.
type Policy struct {
	// TheoryValidityYears is how long a theory pass stays valid. Zero means
	// no theory requirement.
	TheoryValidityYears int
	RetryDelayDays      int
	MaxFailures         int
}

// DefaultPolicy returns the national defaults.
func DefaultPolicy() Policy {
	return Policy{
		TheoryValidityYears: 5,
		RetryDelayDays:      45,
		MaxFailures:         5,
	}
}

// Verdict is the result of an evaluation.
type Verdict struct {
	Allowed bool
	Reason  Reason
	// AllowedFrom is set for RETRY_TOO_SOON; ExpiredAt for THEORY_EXPIRED when
	// a pass date exists.
	AllowedFrom time.Time
	ExpiredAt   time.Time
}

// Err converts a denial into a typed domain error; it returns nil when the
// verdict allows booking.
func (v Verdict) Err() error {
	if v.Allowed {
		return nil
	}
	return dErrors.New(dErrors.CodeEligibilityDenied, v.message()).WithReason(string(v.Reason))
}

func (v Verdict) message() string {
	switch v.Reason {
	case ReasonAlreadyPassed:
		return "candidate already passed the practical exam"
	case ReasonMaxFailuresReached:
		return "maximum number of failed attempts reached"
	case ReasonNotValidated:
		return "candidate is not validated by the registry yet"
	case ReasonTheoryExpired:
		return "theory exam pass is missing or expired"
	case ReasonRetryTooSoon:
		return "booking allowed from " + v.AllowedFrom.Format(time.RFC3339)
	default:
		return "candidate is not eligible"
	}
}

// Evaluator applies a Policy. It has no state besides the policy and is safe
// for concurrent use.
type Evaluator struct {
	policy Policy
}

func NewEvaluator(policy Policy) *Evaluator {
	return &Evaluator{policy: policy}
}

func (e *Evaluator) Policy() Policy {
	return e.policy
}

// Evaluate decides whether c may book at now.
func (e *Evaluator) Evaluate(c *models.Candidate, now time.Time) Verdict {
	if c.HasPassed() {
		return deny(ReasonAlreadyPassed)
	}
	if e.policy.MaxFailures > 0 && c.FailureCount() >= e.policy.MaxFailures {
		return deny(ReasonMaxFailuresReached)
	}
	if !c.AurigeValidated {
		return deny(ReasonNotValidated)
	}
	if e.policy.TheoryValidityYears > 0 {
		if c.TheoryPassedAt == nil {
			return deny(ReasonTheoryExpired)
		}
		expiry := c.TheoryPassedAt.AddDate(e.policy.TheoryValidityYears, 0, 0)
		if !now.Before(expiry) {
			v := deny(ReasonTheoryExpired)
			v.ExpiredAt = expiry
			return v
		}
	}
	if c.CanBookFrom != nil && c.CanBookFrom.After(now) {
		v := deny(ReasonRetryTooSoon)
		v.AllowedFrom = *c.CanBookFrom
		return v
	}
	return Verdict{Allowed: true}
}

// NextBookableFrom returns the earliest booking instant after a failed or
// missed exam on outcomeDate, in calendar days and in outcomeDate's location.
func (e *Evaluator) NextBookableFrom(outcomeDate time.Time) time.Time {
	return outcomeDate.AddDate(0, 0, e.policy.RetryDelayDays)
}

func deny(r Reason) Verdict {
	return Verdict{Reason: r}
}
