// Package hearings persists scheduled hearings.
package hearings

import (
	"context"
	"sort"
	"sync"
	"time"

	"gavel/internal/court/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows hearing listings. Zero values mean "no constraint".
type Filter struct {
	CaseID   *id.CaseID
	JudgeID  *id.UserID
	From     *time.Time
	To       *time.Time
	OpenOnly bool
}

// InMemory keeps hearings in memory for unit tests and local runs.
type InMemory struct {
	mu       sync.RWMutex
	hearings map[id.HearingID]models.Hearing
}

func NewInMemory() *InMemory {
	return &InMemory{hearings: make(map[id.HearingID]models.Hearing)}
}

func (s *InMemory) Create(_ context.Context, h models.Hearing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hearings[h.ID]; exists {
		return sentinel.ErrConflict
	}
	s.hearings[h.ID] = h
	return nil
}

func (s *InMemory) FindByID(_ context.Context, hearingID id.HearingID) (models.Hearing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hearings[hearingID]
	if !ok {
		return models.Hearing{}, sentinel.ErrNotFound
	}
	return h, nil
}

// List returns matching hearings ordered by scheduled time, soonest first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.Hearing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Hearing
	for _, h := range s.hearings {
		if filter.CaseID != nil && h.CaseID != *filter.CaseID {
			continue
		}
		if filter.JudgeID != nil && h.JudgeID != *filter.JudgeID {
			continue
		}
		if filter.From != nil && h.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !h.ScheduledAt.Before(*filter.To) {
			continue
		}
		if filter.OpenOnly && !h.Open() {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScheduledAt.Before(out[j].ScheduledAt) })
	return out, nil
}

func (s *InMemory) Update(_ context.Context, h models.Hearing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hearings[h.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.hearings[h.ID] = h
	return nil
}
