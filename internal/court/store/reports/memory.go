// Package reports persists case reports.
package reports

import (
	"context"
	"sort"
	"sync"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows report listings. Zero values mean "no constraint".
type Filter struct {
	CaseID      *id.CaseID
	SubmittedBy *id.UserID
}

// InMemory keeps case reports in memory for unit tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	reports map[id.CaseReportID]models.CaseReport
}

func NewInMemory() *InMemory {
	return &InMemory{reports: make(map[id.CaseReportID]models.CaseReport)}
}

func (s *InMemory) Create(_ context.Context, r models.CaseReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reports[r.ID]; exists {
		return sentinel.ErrConflict
	}
	s.reports[r.ID] = r
	return nil
}

func (s *InMemory) FindByID(_ context.Context, reportID id.CaseReportID) (models.CaseReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return models.CaseReport{}, sentinel.ErrNotFound
	}
	return r, nil
}

// List returns matching reports, newest submission first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.CaseReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CaseReport
	for _, r := range s.reports {
		if filter.CaseID != nil && r.CaseID != *filter.CaseID {
			continue
		}
		if filter.SubmittedBy != nil && r.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, r models.CaseReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.reports[r.ID] = r
	return nil
}
