package notification

import (
	"context"
	"errors"
	"log/slog"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/sentinel"
	"gavel/pkg/requestcontext"
)

// Store is the persistence contract for notifications.
type Store interface {
	Create(ctx context.Context, n Notification) error
	FindByID(ctx context.Context, notificationID id.NotificationID) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, recipientID id.UserID) (int, error)
	Update(ctx context.Context, n Notification) error
}

// defaultListLimit bounds the notification list endpoint.
const defaultListLimit = 50

type Service struct {
	store  Store
	logger *slog.Logger
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Notify delivers a notification. Delivery failures are logged, not
// returned: the triggering operation must not fail because a notification
// could not be stored.
func (s *Service) Notify(ctx context.Context, n Notification) {
	if n.RecipientID.IsNil() {
		return
	}
	if n.ID.IsNil() {
		n.ID = id.NewNotificationID()
	}
	if n.SenderID.IsNil() {
		n.SenderID = requestcontext.UserID(ctx)
	}
	if n.Priority == "" {
		n.Priority = PriorityMedium
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = requestcontext.Now(ctx)
	}

	if err := s.store.Create(ctx, n); err != nil {
		s.logger.ErrorContext(ctx, "failed to deliver notification",
			"error", err,
			"recipient_id", n.RecipientID.String(),
			"type", n.Type,
		)
	}
}

// NotifyAll delivers a copy of the notification to each recipient.
func (s *Service) NotifyAll(ctx context.Context, recipients []id.UserID, n Notification) {
	for _, recipient := range recipients {
		copied := n
		copied.ID = id.NotificationID{}
		copied.RecipientID = recipient
		s.Notify(ctx, copied)
	}
}

// List returns the caller's notifications, newest first.
func (s *Service) List(ctx context.Context, unreadOnly bool, limit int) ([]Notification, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	notifications, err := s.store.ListByRecipient(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "listing notifications", err)
	}
	return notifications, nil
}

// UnreadCount reports how many unread notifications the caller has.
func (s *Service) UnreadCount(ctx context.Context) (int, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return 0, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}
	count, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return 0, dErrors.Wrap(dErrors.CodeInternal, "counting notifications", err)
	}
	return count, nil
}

// MarkRead marks one of the caller's notifications as read. Marking an
// already-read notification is a no-op.
func (s *Service) MarkRead(ctx context.Context, notificationID id.NotificationID) (Notification, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return Notification{}, dErrors.New(dErrors.CodeUnauthorized, "not authenticated")
	}

	n, err := s.store.FindByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Notification{}, dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return Notification{}, dErrors.Wrap(dErrors.CodeInternal, "loading notification", err)
	}
	if n.RecipientID != userID {
		// Do not reveal that the notification exists.
		return Notification{}, dErrors.New(dErrors.CodeNotFound, "notification not found")
	}
	if n.Read {
		return n, nil
	}

	now := requestcontext.Now(ctx)
	n.Read = true
	n.ReadAt = &now
	if err := s.store.Update(ctx, n); err != nil {
		return Notification{}, dErrors.Wrap(dErrors.CodeInternal, "marking notification read", err)
	}
	return n, nil
}
