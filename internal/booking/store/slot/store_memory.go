package slot

import (
	"context"
	"iter"
	"sort"
	"sync"
	"time"

	"candilib/internal/booking/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

type slotKey struct {
	centre    id.CentreID
	inspector id.InspectorID
	date      int64
}

func keyOf(s *models.Slot) slotKey {
	return slotKey{centre: s.CentreID, inspector: s.InspectorID, date: s.Date.UnixNano()}
}

// InMemory is a mutex-guarded slot store. Every mutation is a single
// check-and-set under the write lock, which gives Reserve the same
// conditional-update semantics as the SQL implementation.
type InMemory struct {
	mu    sync.RWMutex
	slots map[id.SlotID]*models.Slot
	byKey map[slotKey]id.SlotID
}

func NewInMemory() *InMemory {
	return &InMemory{
		slots: make(map[id.SlotID]*models.Slot),
		byKey: make(map[slotKey]id.SlotID),
	}
}

func (s *InMemory) Create(ctx context.Context, slot *models.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.slots[slot.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	k := keyOf(slot)
	if _, ok := s.byKey[k]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.slots[slot.ID] = slot.Clone()
	s.byKey[k] = slot.ID
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.slots, slot.ID)
		delete(s.byKey, k)
	})
	return nil
}

func (s *InMemory) FindByID(_ context.Context, slotID id.SlotID) (*models.Slot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return slot.Clone(), nil
}

// FindFree yields free slots matching criteria ordered by date. Each range
// over the sequence takes a fresh snapshot.
func (s *InMemory) FindFree(ctx context.Context, criteria models.SlotCriteria) iter.Seq2[*models.Slot, error] {
	return func(yield func(*models.Slot, error) bool) {
		s.mu.RLock()
		matches := make([]*models.Slot, 0)
		for _, slot := range s.slots {
			if criteria.Matches(slot) {
				matches = append(matches, slot.Clone())
			}
		}
		s.mu.RUnlock()

		sort.Slice(matches, func(i, j int) bool {
			if matches[i].Date.Equal(matches[j].Date) {
				return matches[i].ID.String() < matches[j].ID.String()
			}
			return matches[i].Date.Before(matches[j].Date)
		})
		for _, slot := range matches {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(slot, nil) {
				return
			}
		}
	}
}

// Reserve sets the candidate on a free slot.
func (s *InMemory) Reserve(ctx context.Context, slotID id.SlotID, candidateID id.CandidateID, at time.Time) (*models.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if !slot.IsFree() {
		return nil, sentinel.ErrConflict
	}
	slot.CandidateID = &candidateID
	slot.BookedAt = &at
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.slots[slotID]; ok && cur.IsHeldBy(candidateID) {
			cur.CandidateID = nil
			cur.BookedAt = nil
		}
	})
	return slot.Clone(), nil
}

// Release clears the candidate reference. Releasing a free slot is a no-op.
func (s *InMemory) Release(ctx context.Context, slotID id.SlotID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.slots[slotID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if slot.IsFree() {
		return nil
	}
	prevCandidate, prevBookedAt := *slot.CandidateID, slot.BookedAt
	slot.CandidateID = nil
	slot.BookedAt = nil
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.slots[slotID]; ok && cur.IsFree() {
			cur.CandidateID = &prevCandidate
			cur.BookedAt = prevBookedAt
		}
	})
	return nil
}

// CountFutureByCentre counts slots of centreID dated after now, booked or not.
func (s *InMemory) CountFutureByCentre(_ context.Context, centreID id.CentreID, now time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, slot := range s.slots {
		if slot.CentreID == centreID && slot.Date.After(now) {
			n++
		}
	}
	return n, nil
}
