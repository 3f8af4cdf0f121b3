// Package user provides user persistence: an in-memory implementation for
// unit tests and development, and a PostgreSQL implementation for
// production.
package user

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gavel/internal/identity/models"
	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemory is a thread-safe in-memory user store.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]models.User
}

// NewInMemory constructs an empty in-memory user store.
func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]models.User)}
}

// Create inserts a user, enforcing username and employee-id uniqueness.
func (s *InMemory) Create(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return sentinel.ErrConflict
		}
		if strings.EqualFold(existing.EmployeeID, u.EmployeeID) {
			return sentinel.ErrConflict
		}
	}
	s.users[u.ID] = u
	return nil
}

// FindByID returns the user with the given ID.
func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return models.User{}, sentinel.ErrNotFound
	}
	return u, nil
}

// FindByUsername returns the user with the given username,
// case-insensitively.
func (s *InMemory) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			return u, nil
		}
	}
	return models.User{}, sentinel.ErrNotFound
}

// ListByRole returns active users holding the given role, ordered by name.
func (s *InMemory) ListByRole(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.User
	for _, u := range s.users {
		if u.Role == role && u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FirstName != out[j].FirstName {
			return out[i].FirstName < out[j].FirstName
		}
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

// Update persists changes to an existing user.
func (s *InMemory) Update(_ context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.users[u.ID] = u
	return nil
}
