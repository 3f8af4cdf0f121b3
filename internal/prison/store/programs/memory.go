// Package programs persists rehabilitation program enrollments.
package programs

import (
	"context"
	"sort"
	"sync"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows program listings. Zero values mean "no constraint".
type Filter struct {
	InmateID *id.InmateID
	Type     models.ProgramType
	Status   models.ProgramStatus
}

// InMemory keeps program enrollments in memory for unit tests and local runs.
type InMemory struct {
	mu       sync.RWMutex
	programs map[id.ProgramID]models.InmateProgram
}

func NewInMemory() *InMemory {
	return &InMemory{programs: make(map[id.ProgramID]models.InmateProgram)}
}

func (s *InMemory) Create(_ context.Context, p models.InmateProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs[p.ID] = p
	return nil
}

func (s *InMemory) FindByID(_ context.Context, programID id.ProgramID) (models.InmateProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[programID]
	if !ok {
		return models.InmateProgram{}, sentinel.ErrNotFound
	}
	return p, nil
}

// List returns matching enrollments, most recently started first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.InmateProgram, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.InmateProgram
	for _, p := range s.programs {
		if filter.InmateID != nil && p.InmateID != *filter.InmateID {
			continue
		}
		if filter.Type != "" && p.Type != filter.Type {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

// CountActive counts enrollments currently in progress.
func (s *InMemory) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, p := range s.programs {
		if p.Status == models.ProgramActive {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, p models.InmateProgram) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[p.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.programs[p.ID] = p
	return nil
}
