package models

import (
	"slices"
	"time"

	id "candilib/pkg/domain"
)

// SlotCriteria filters free slots at the store level. Zero values leave a
// dimension unfiltered. Department filters are resolved to CentreIDs before
// reaching a store.
type SlotCriteria struct {
	CentreIDs []id.CentreID
	From      time.Time
	To        time.Time // exclusive
	// VisibleBefore hides slots whose date is not strictly before it.
	VisibleBefore time.Time
	// Now hides slots that already started.
	Now time.Time
}

// Matches reports whether s is free and passes every filter.
func (c SlotCriteria) Matches(s *Slot) bool {
	if !s.IsFree() {
		return false
	}
	if !c.Now.IsZero() && !s.Date.After(c.Now) {
		return false
	}
	if !c.From.IsZero() && s.Date.Before(c.From) {
		return false
	}
	if !c.To.IsZero() && !s.Date.Before(c.To) {
		return false
	}
	if !c.VisibleBefore.IsZero() && !s.Date.Before(c.VisibleBefore) {
		return false
	}
	if len(c.CentreIDs) > 0 && !slices.Contains(c.CentreIDs, s.CentreID) {
		return false
	}
	return true
}

// ReasonCount is one row of CountByReasonAndPeriod.
type ReasonCount struct {
	Reason ArchiveReason `json:"reason"`
	Count  int           `json:"count"`
}

// CentreOutcomeCount is one row of CountByOutcomeAndCentre.
type CentreOutcomeCount struct {
	CentreID id.CentreID   `json:"centre"`
	Reason   ArchiveReason `json:"reason"`
	Count    int           `json:"count"`
}
