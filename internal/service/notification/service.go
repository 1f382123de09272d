package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/workbridge/erp-backend-go/internal/domain/notification"
	"github.com/workbridge/erp-backend-go/internal/pkg/sse"
)

// Service persists notifications and pushes them to connected clients.
type Service interface {
	Notify(ctx context.Context, n notification.Notification)
	List(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) ([]notification.Notification, int64, error)
	MarkRead(ctx context.Context, id, recipientID string) error
	MarkAllRead(ctx context.Context, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

type NotificationServiceImpl struct {
	notification.Repository
	hub *sse.Hub
}

func NewNotificationService(repo notification.Repository, hub *sse.Hub) Service {
	return &NotificationServiceImpl{Repository: repo, hub: hub}
}

// Notify implements Service. Persist first, then push. A failure to
// persist is logged and the push skipped; callers treat notifications
// as best effort and never fail their own operation over one.
func (s *NotificationServiceImpl) Notify(ctx context.Context, n notification.Notification) {
	created, err := s.Repository.Create(ctx, n)
	if err != nil {
		slog.Error("Failed to persist notification",
			"recipient_id", n.RecipientID, "type", n.Type, "error", err)
		return
	}

	s.hub.Publish(created.RecipientID, sse.Event{
		UserID: created.RecipientID,
		Event:  sse.EventNotification,
		Data:   created,
	})
}

// List implements Service.
func (s *NotificationServiceImpl) List(ctx context.Context, recipientID string, unreadOnly bool, page, limit int) ([]notification.Notification, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.Repository.ListByRecipient(ctx, recipientID, unreadOnly, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead implements Service.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.Repository.MarkRead(ctx, id, recipientID)
}

// MarkAllRead implements Service.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, recipientID string) error {
	return s.Repository.MarkAllRead(ctx, recipientID)
}

// UnreadCount implements Service.
func (s *NotificationServiceImpl) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	return s.Repository.UnreadCount(ctx, recipientID)
}
