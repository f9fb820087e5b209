package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
	"gorm.io/gorm"
)

type CompanyRepository struct {
	db *storage.Postgres
}

func NewCompanyRepository(db *storage.Postgres) *CompanyRepository {
	return &CompanyRepository{db: db}
}

// Create inserts the company and its owner membership in one transaction.
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).Create(company).Error; err != nil {
			return err
		}

		member := models.CompanyMember{
			CompanyID: company.ID,
			UserID:    company.OwnerID,
			Role:      models.RoleOwner,
		}

		return tx.WithContext(ctx).Create(&member).Error
	})
}

func (r *CompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&company).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &company, err
}

// ListVisible returns publicly visible companies plus any the given user
// is a member of.
func (r *CompanyRepository) ListVisible(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Company, int64, error) {
	query := r.db.DB.WithContext(ctx).
		Model(&models.Company{}).
		Where("is_visible = ? OR id IN (?)",
			true,
			r.db.DB.Model(&models.CompanyMember{}).
				Select("company_id").
				Where("user_id = ?", userID),
		)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []models.Company
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&companies).Error

	return companies, total, err
}

func (r *CompanyRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Company{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Company{}).Error
}
