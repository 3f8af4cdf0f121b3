// Package cases persists court cases.
package cases

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows case listings. Zero values mean "no constraint".
type Filter struct {
	Status     models.CaseStatus
	JudgeID    *id.UserID
	ActiveOnly bool
}

// InMemory keeps cases in memory for unit tests and local runs.
type InMemory struct {
	mu    sync.RWMutex
	cases map[id.CaseID]models.Case
}

func NewInMemory() *InMemory {
	return &InMemory{cases: make(map[id.CaseID]models.Case)}
}

func (s *InMemory) Create(_ context.Context, c models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cases {
		if strings.EqualFold(existing.CaseNumber, c.CaseNumber) {
			return sentinel.ErrConflict
		}
	}
	s.cases[c.ID] = c
	return nil
}

func (s *InMemory) FindByID(_ context.Context, caseID id.CaseID) (models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return models.Case{}, sentinel.ErrNotFound
	}
	return c, nil
}

func (s *InMemory) FindByCaseNumber(_ context.Context, caseNumber string) (models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cases {
		if strings.EqualFold(c.CaseNumber, caseNumber) {
			return c, nil
		}
	}
	return models.Case{}, sentinel.ErrNotFound
}

// List returns matching cases, most recently filed first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Case
	for _, c := range s.cases {
		if filter.Status != "" && c.Status != filter.Status {
			continue
		}
		if filter.JudgeID != nil && !c.IsAssignedTo(*filter.JudgeID) {
			continue
		}
		if filter.ActiveOnly && !c.Active {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FilingDate.After(out[j].FilingDate) })
	return out, nil
}

// CountByStatus tallies cases per status, optionally restricted to one
// judge's assignments.
func (s *InMemory) CountByStatus(_ context.Context, judgeID *id.UserID) (map[models.CaseStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.CaseStatus]int)
	for _, c := range s.cases {
		if judgeID != nil && !c.IsAssignedTo(*judgeID) {
			continue
		}
		counts[c.Status]++
	}
	return counts, nil
}

func (s *InMemory) Update(_ context.Context, c models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.cases[c.ID] = c
	return nil
}
