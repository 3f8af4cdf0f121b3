package notification

import (
	"context"
	"sort"
	"sync"

	id "gavel/pkg/domain"
	"gavel/pkg/platform/sentinel"
)

// InMemoryStore keeps notifications in memory for unit tests and local runs.
type InMemoryStore struct {
	mu            sync.RWMutex
	notifications map[id.NotificationID]Notification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{notifications: make(map[id.NotificationID]Notification)}
}

func (s *InMemoryStore) Create(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.notifications[n.ID]; exists {
		return sentinel.ErrConflict
	}
	s.notifications[n.ID] = n
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, notificationID id.NotificationID) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[notificationID]
	if !ok {
		return Notification{}, sentinel.ErrNotFound
	}
	return n, nil
}

// ListByRecipient returns the recipient's notifications, newest first,
// capped at limit when limit is positive.
func (s *InMemoryStore) ListByRecipient(_ context.Context, recipientID id.UserID, unreadOnly bool, limit int) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Notification
	for _, n := range s.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) CountUnread(_ context.Context, recipientID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryStore) Update(_ context.Context, n Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.notifications[n.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.notifications[n.ID] = n
	return nil
}
