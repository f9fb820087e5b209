package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
)

type NotificationRepository struct {
	db *storage.Postgres
}

func NewNotificationRepository(db *storage.Postgres) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []models.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	return r.db.DB.WithContext(ctx).Create(&notifications).Error
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, unreadOnly bool, offset, limit int) ([]models.Notification, int64, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID)

	if unreadOnly {
		query = query.Where("status = ?", models.NotificationUnread)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		Count(&count).Error

	return count, err
}

// MarkAsRead is scoped to the owning user so one user cannot flip another
// user's notifications. Returns the number of rows touched.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", models.NotificationRead)

	return result.RowsAffected, result.Error
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ? AND status = ?", userID, models.NotificationUnread).
		Update("status", models.NotificationRead)

	return result.RowsAffected, result.Error
}
