package candidate

import (
	"context"
	"strings"
	"sync"
	"time"

	"candilib/internal/booking/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

// InMemory stores candidates with NEPH and email uniqueness.
type InMemory struct {
	mu      sync.RWMutex
	byID    map[id.CandidateID]*models.Candidate
	byNEPH  map[string]id.CandidateID
	byEmail map[string]id.CandidateID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:    make(map[id.CandidateID]*models.Candidate),
		byNEPH:  make(map[string]id.CandidateID),
		byEmail: make(map[string]id.CandidateID),
	}
}

func (s *InMemory) Create(ctx context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(c.Email)
	if _, ok := s.byID[c.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	if _, ok := s.byNEPH[c.CodeNEPH]; ok {
		return sentinel.ErrAlreadyUsed
	}
	if _, ok := s.byEmail[email]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.byID[c.ID] = c.Clone()
	s.byNEPH[c.CodeNEPH] = c.ID
	s.byEmail[email] = c.ID
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byID, c.ID)
		delete(s.byNEPH, c.CodeNEPH)
		delete(s.byEmail, email)
	})
	return nil
}

func (s *InMemory) FindByID(_ context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[candidateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// FindByIDForUpdate is FindByID: the in-memory transaction runner already
// serializes work per candidate.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, candidateID id.CandidateID) (*models.Candidate, error) {
	return s.FindByID(ctx, candidateID)
}

func (s *InMemory) FindByNEPH(_ context.Context, codeNEPH string) (*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cid, ok := s.byNEPH[codeNEPH]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.byID[cid].Clone(), nil
}

// Update replaces the stored candidate. Identity keys are immutable.
func (s *InMemory) Update(ctx context.Context, c *models.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.byID[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.byID[c.ID] = c.Clone()
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.byID[prev.ID] = prev
	})
	return nil
}

// SetPlace moves the candidate's slot reference from expected to next. It
// fails with ErrConflict when the stored reference is not expected.
func (s *InMemory) SetPlace(ctx context.Context, candidateID id.CandidateID, expected, next *id.SlotID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[candidateID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if !samePlace(c.PlaceID, expected) {
		return sentinel.ErrConflict
	}
	prev := c.Clone()
	updated := c.Clone()
	if next == nil {
		updated.ClearBooking(now)
	} else {
		updated.ApplyBooking(*next, now)
	}
	s.byID[candidateID] = updated
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.byID[candidateID] = prev
	})
	return nil
}

// ListBooked returns the candidates holding a slot.
func (s *InMemory) ListBooked(_ context.Context) ([]*models.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Candidate, 0)
	for _, c := range s.byID {
		if c.HasBooking() {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func samePlace(a, b *id.SlotID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
