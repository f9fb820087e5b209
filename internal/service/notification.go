package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

// NotificationPage extends the standard list envelope with the user's
// unread count.
type NotificationPage struct {
	pagination.Page[models.Notification]
	UnreadCount int64 `json:"unread_count"`
}

type NotificationService struct {
	notifications *repository.NotificationRepository
}

func NewNotificationService(notifications *repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, p pagination.Params) (*NotificationPage, error) {
	unread, err := s.notifications.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, total, err := s.notifications.ListByUser(ctx, userID, unreadOnly, p.Offset(), p.Limit())
	if err != nil {
		return nil, err
	}

	return &NotificationPage{
		Page:        pagination.NewPage(items, total, p),
		UnreadCount: unread,
	}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, callerID, notificationID uuid.UUID) error {
	affected, err := s.notifications.MarkAsRead(ctx, notificationID, callerID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: notification", ErrNotFound)
	}

	return nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, callerID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllAsRead(ctx, callerID)
}
