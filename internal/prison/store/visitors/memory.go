// Package visitors persists visitor logs.
package visitors

import (
	"context"
	"sort"
	"sync"
	"time"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows visitor log listings. Zero values mean "no constraint".
type Filter struct {
	InmateID  *id.InmateID
	VisitType models.VisitType
	From      time.Time
	To        time.Time
}

// InMemory keeps visitor logs in memory for unit tests and local runs.
type InMemory struct {
	mu   sync.RWMutex
	logs map[id.VisitorLogID]models.VisitorLog
}

func NewInMemory() *InMemory {
	return &InMemory{logs: make(map[id.VisitorLogID]models.VisitorLog)}
}

func (s *InMemory) Create(_ context.Context, v models.VisitorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[v.ID] = v
	return nil
}

func (s *InMemory) FindByID(_ context.Context, logID id.VisitorLogID) (models.VisitorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.logs[logID]
	if !ok {
		return models.VisitorLog{}, sentinel.ErrNotFound
	}
	return v, nil
}

// List returns matching visits, most recent first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.VisitorLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.VisitorLog
	for _, v := range s.logs {
		if filter.InmateID != nil && v.InmateID != *filter.InmateID {
			continue
		}
		if filter.VisitType != "" && v.VisitType != filter.VisitType {
			continue
		}
		if !filter.From.IsZero() && v.VisitAt.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && v.VisitAt.After(filter.To) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].VisitAt.After(out[j].VisitAt) })
	return out, nil
}

// CountSince counts visits at or after the cutoff.
func (s *InMemory) CountSince(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, v := range s.logs {
		if !v.VisitAt.Before(cutoff) {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, v models.VisitorLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.logs[v.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.logs[v.ID] = v
	return nil
}
