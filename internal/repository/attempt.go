package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
	"gorm.io/gorm"
)

type AttemptRepository struct {
	db *storage.Postgres
}

func NewAttemptRepository(db *storage.Postgres) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create persists a completed attempt together with its per-question
// answers in one transaction.
func (r *AttemptRepository) Create(ctx context.Context, attempt *models.QuizAttempt) error {
	return r.db.DB.WithContext(ctx).Create(attempt).Error
}

func (r *AttemptRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.DB.WithContext(ctx).
		Preload("UserAnswers").
		Where("id = ?", id).
		First(&attempt).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &attempt, err
}

func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID, companyID, quizID *uuid.UUID, offset, limit int) ([]models.QuizAttempt, int64, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ?", userID)

	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}
	if quizID != nil {
		query = query.Where("quiz_id = ?", *quizID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []models.QuizAttempt
	err := query.
		Order("started_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&attempts).Error

	return attempts, total, err
}

// GlobalAverage is the user's mean fraction of correct answers across all
// completed attempts, 0 when there are none.
func (r *AttemptRepository) GlobalAverage(ctx context.Context, userID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.db.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("AVG(score::float / NULLIF(total_questions, 0))").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Scan(&avg).Error

	if err != nil || avg == nil {
		return 0, err
	}

	return *avg, nil
}

func (r *AttemptRepository) CompanyAverage(ctx context.Context, userID, companyID uuid.UUID) (float64, error) {
	var avg *float64
	err := r.db.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("AVG(score::float / NULLIF(total_questions, 0))").
		Where("user_id = ? AND company_id = ? AND completed_at IS NOT NULL", userID, companyID).
		Scan(&avg).Error

	if err != nil || avg == nil {
		return 0, err
	}

	return *avg, nil
}

func (r *AttemptRepository) CountCompleted(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) (int64, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND completed_at IS NOT NULL", userID)

	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	}

	var count int64
	err := query.Count(&count).Error

	return count, err
}

func (r *AttemptRepository) LastAttemptAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var last *time.Time
	err := r.db.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Select("MAX(completed_at)").
		Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Scan(&last).Error

	return last, err
}
