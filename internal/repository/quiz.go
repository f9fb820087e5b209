package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
	"gorm.io/gorm"
)

type QuizRepository struct {
	db *storage.Postgres
}

func NewQuizRepository(db *storage.Postgres) *QuizRepository {
	return &QuizRepository{db: db}
}

// Create inserts the quiz together with its questions and answer options.
// gorm cascades the nested slices in one transaction.
func (r *QuizRepository) Create(ctx context.Context, quiz *models.Quiz) error {
	return r.db.DB.WithContext(ctx).Create(quiz).Error
}

func (r *QuizRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Quiz, error) {
	var quiz models.Quiz
	err := r.db.DB.WithContext(ctx).
		Preload("Questions.Answers").
		Where("id = ?", id).
		First(&quiz).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &quiz, err
}

func (r *QuizRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]models.Quiz, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []models.Quiz
	err := r.db.DB.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&quizzes).Error

	return quizzes, total, err
}

func (r *QuizRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Quiz{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// ReplaceQuestions swaps a quiz's question set for a new one.
func (r *QuizRepository) ReplaceQuestions(ctx context.Context, quizID uuid.UUID, questions []models.QuizQuestion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Where("quiz_id = ?", quizID).
			Delete(&models.QuizQuestion{}).Error; err != nil {
			return err
		}

		for i := range questions {
			questions[i].QuizID = quizID
		}

		return tx.WithContext(ctx).Create(&questions).Error
	})
}

func (r *QuizRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Quiz{}).Error
}
