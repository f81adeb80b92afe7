package store

import (
	"context"
	"sort"
	"sync"

	"candilib/internal/centre/models"
	id "candilib/pkg/domain"
	"candilib/pkg/platform/sentinel"
	"candilib/pkg/platform/tx"
)

type nameKey struct {
	name       string
	department string
}

// InMemory keeps centres in maps guarded by a RWMutex.
type InMemory struct {
	mu      sync.RWMutex
	centres map[id.CentreID]*models.Centre
	names   map[nameKey]id.CentreID
}

func NewInMemory() *InMemory {
	return &InMemory{
		centres: make(map[id.CentreID]*models.Centre),
		names:   make(map[nameKey]id.CentreID),
	}
}

func (s *InMemory) Create(_ context.Context, c *models.Centre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := nameKey{c.Name, c.Department}
	if _, ok := s.centres[c.ID]; ok {
		return sentinel.ErrAlreadyUsed
	}
	if _, ok := s.names[k]; ok {
		return sentinel.ErrAlreadyUsed
	}
	s.centres[c.ID] = c.Clone()
	s.names[k] = c.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, centreID id.CentreID) (*models.Centre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.centres[centreID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c.Clone(), nil
}

// FindByIDForUpdate is FindByID; the in-memory transaction runner already
// serializes work keyed on the centre.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, centreID id.CentreID) (*models.Centre, error) {
	return s.FindByID(ctx, centreID)
}

// ListByDepartment returns the department's centres ordered by name.
func (s *InMemory) ListByDepartment(_ context.Context, department string) ([]*models.Centre, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Centre, 0)
	for _, c := range s.centres {
		if c.Department == department {
			out = append(out, c.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMemory) Update(ctx context.Context, c *models.Centre) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.centres[c.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	k := nameKey{c.Name, c.Department}
	if other, ok := s.names[k]; ok && other != c.ID {
		return sentinel.ErrAlreadyUsed
	}
	delete(s.names, nameKey{old.Name, old.Department})
	s.names[k] = c.ID
	s.centres[c.ID] = c.Clone()
	tx.RecordUndo(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.names, k)
		s.names[nameKey{old.Name, old.Department}] = old.ID
		s.centres[old.ID] = old
	})
	return nil
}
