package archive

import (
	"context"
	"sort"
	"sync"
	"time"

	"candilib/internal/booking/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

// InMemory is an append-only ledger. There is no update or delete; the only
// removal is the undo of an append inside a rolled-back transaction.
type InMemory struct {
	mu      sync.RWMutex
	entries []*models.ArchivedBooking
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (s *InMemory) Append(ctx context.Context, entry *models.ArchivedBooking) error {
	if !entry.Reason.IsValid() {
		return sentinel.ErrInvalidState
	}
	cp := *entry
	s.mu.Lock()
	s.entries = append(s.entries, &cp)
	s.mu.Unlock()
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i := len(s.entries) - 1; i >= 0; i-- {
			if s.entries[i].ID == cp.ID {
				s.entries = append(s.entries[:i], s.entries[i+1:]...)
				return
			}
		}
	})
	return nil
}

// ListByCandidate returns the candidate's entries, oldest first.
func (s *InMemory) ListByCandidate(_ context.Context, candidateID id.CandidateID) ([]*models.ArchivedBooking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ArchivedBooking, 0)
	for _, e := range s.entries {
		if e.CandidateID == candidateID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

// CountByReasonAndPeriod counts entries archived in [from, to) per reason.
func (s *InMemory) CountByReasonAndPeriod(_ context.Context, from, to time.Time) ([]models.ReasonCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[models.ArchiveReason]int)
	for _, e := range s.entries {
		if inPeriod(e.ArchivedAt, from, to) {
			counts[e.Reason]++
		}
	}
	out := make([]models.ReasonCount, 0, len(counts))
	for _, r := range models.ArchiveReasons() {
		if n := counts[r]; n > 0 {
			out = append(out, models.ReasonCount{Reason: r, Count: n})
		}
	}
	return out, nil
}

// CountByOutcomeAndCentre counts exam outcomes (passed, failed, absent) per
// centre for exams dated in [from, to).
func (s *InMemory) CountByOutcomeAndCentre(_ context.Context, from, to time.Time) ([]models.CentreOutcomeCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct {
		centre id.CentreID
		reason models.ArchiveReason
	}
	counts := make(map[key]int)
	for _, e := range s.entries {
		if e.Reason.IsOutcome() && inPeriod(e.Date, from, to) {
			counts[key{e.CentreID, e.Reason}]++
		}
	}
	out := make([]models.CentreOutcomeCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.CentreOutcomeCount{CentreID: k.centre, Reason: k.reason, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CentreID != out[j].CentreID {
			return out[i].CentreID.String() < out[j].CentreID.String()
		}
		return out[i].Reason < out[j].Reason
	})
	return out, nil
}

func inPeriod(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
