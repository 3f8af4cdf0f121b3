// Package inmatereports persists officer reports about inmates.
package inmatereports

import (
	"context"
	"sort"
	"sync"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows report listings. Zero values mean "no constraint".
type Filter struct {
	InmateID    *id.InmateID
	SubmittedBy *id.UserID
	Status      models.ReportStatus
	UrgentOnly  bool
}

// InMemory keeps inmate reports in memory for unit tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	reports map[id.InmateReportID]models.InmateReport
}

func NewInMemory() *InMemory {
	return &InMemory{reports: make(map[id.InmateReportID]models.InmateReport)}
}

func (s *InMemory) Create(_ context.Context, r models.InmateReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = r
	return nil
}

func (s *InMemory) FindByID(_ context.Context, reportID id.InmateReportID) (models.InmateReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportID]
	if !ok {
		return models.InmateReport{}, sentinel.ErrNotFound
	}
	return r, nil
}

// List returns matching reports, most recently submitted first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.InmateReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InmateReport
	for _, r := range s.reports {
		if filter.InmateID != nil && r.InmateID != *filter.InmateID {
			continue
		}
		if filter.SubmittedBy != nil && r.SubmittedBy != *filter.SubmittedBy {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.UrgentOnly && !r.Urgent() {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmissionDate.After(out[j].SubmissionDate) })
	return out, nil
}

// CountPendingUrgent counts urgent reports still awaiting review.
func (s *InMemory) CountPendingUrgent(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.reports {
		if r.Status == models.ReportPending && r.Urgent() {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, r models.InmateReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.reports[r.ID] = r
	return nil
}
