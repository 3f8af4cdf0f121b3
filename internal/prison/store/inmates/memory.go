// Package inmates persists inmate records.
package inmates

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"gavel/internal/prison/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// Filter narrows inmate listings. Zero values mean "no constraint".
type Filter struct {
	Status    models.InmateStatus
	OfficerID *id.UserID
	Search    string
}

// InMemory keeps inmates in memory for unit tests and local runs.
type InMemory struct {
	mu      sync.RWMutex
	inmates map[id.InmateID]models.Inmate
}

func NewInMemory() *InMemory {
	return &InMemory{inmates: make(map[id.InmateID]models.Inmate)}
}

func (s *InMemory) Create(_ context.Context, i models.Inmate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.inmates {
		if strings.EqualFold(existing.InmateNumber, i.InmateNumber) ||
			strings.EqualFold(existing.IdentificationNumber, i.IdentificationNumber) {
			return sentinel.ErrConflict
		}
	}
	s.inmates[i.ID] = i
	return nil
}

func (s *InMemory) FindByID(_ context.Context, inmateID id.InmateID) (models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.inmates[inmateID]
	if !ok {
		return models.Inmate{}, sentinel.ErrNotFound
	}
	return i, nil
}

func (s *InMemory) FindByInmateNumber(_ context.Context, inmateNumber string) (models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, i := range s.inmates {
		if strings.EqualFold(i.InmateNumber, inmateNumber) {
			return i, nil
		}
	}
	return models.Inmate{}, sentinel.ErrNotFound
}

// List returns matching inmates, most recently admitted first.
func (s *InMemory) List(_ context.Context, filter Filter) ([]models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(filter.Search))
	var out []models.Inmate
	for _, i := range s.inmates {
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.OfficerID != nil && !i.IsAssignedTo(*filter.OfficerID) {
			continue
		}
		if needle != "" && !matchesSearch(i, needle) {
			continue
		}
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].AdmissionDate.After(out[b].AdmissionDate) })
	return out, nil
}

func matchesSearch(i models.Inmate, needle string) bool {
	return strings.Contains(strings.ToLower(i.FullName()), needle) ||
		strings.Contains(strings.ToLower(i.InmateNumber), needle) ||
		strings.Contains(strings.ToLower(i.IdentificationNumber), needle)
}

// UpcomingReleases returns active inmates whose expected release falls within
// the window, soonest first.
func (s *InMemory) UpcomingReleases(_ context.Context, now time.Time, withinDays int) ([]models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Inmate
	for _, i := range s.inmates {
		if i.ReleaseApproaching(now, withinDays) {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		return out[a].ExpectedReleaseDate.Before(*out[b].ExpectedReleaseDate)
	})
	return out, nil
}

// CountByStatus tallies inmates per custody status.
func (s *InMemory) CountByStatus(_ context.Context) (map[models.InmateStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.InmateStatus]int)
	for _, i := range s.inmates {
		counts[i.Status]++
	}
	return counts, nil
}

func (s *InMemory) Update(_ context.Context, i models.Inmate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inmates[i.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.inmates[i.ID] = i
	return nil
}
