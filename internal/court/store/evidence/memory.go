// Package evidence persists evidence items.
package evidence

import (
	"context"
	"sort"
	"sync"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemory keeps evidence in memory for unit tests and local runs.
type InMemory struct {
	mu    sync.RWMutex
	items map[id.EvidenceID]models.Evidence
}

func NewInMemory() *InMemory {
	return &InMemory{items: make(map[id.EvidenceID]models.Evidence)}
}

func (s *InMemory) Create(_ context.Context, e models.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[e.ID]; exists {
		return sentinel.ErrConflict
	}
	s.items[e.ID] = e
	return nil
}

func (s *InMemory) FindByID(_ context.Context, evidenceID id.EvidenceID) (models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[evidenceID]
	if !ok {
		return models.Evidence{}, sentinel.ErrNotFound
	}
	return e, nil
}

// ListByCase returns a case's evidence, newest submission first.
func (s *InMemory) ListByCase(_ context.Context, caseID id.CaseID) ([]models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Evidence
	for _, e := range s.items {
		if e.CaseID == caseID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return out, nil
}

// CountUnreviewed tallies unreviewed items across the given cases.
func (s *InMemory) CountUnreviewed(_ context.Context, caseIDs []id.CaseID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.CaseID]bool, len(caseIDs))
	for _, cid := range caseIDs {
		wanted[cid] = true
	}
	count := 0
	for _, e := range s.items {
		if wanted[e.CaseID] && !e.Reviewed() {
			count++
		}
	}
	return count, nil
}

func (s *InMemory) Update(_ context.Context, e models.Evidence) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.items[e.ID] = e
	return nil
}
