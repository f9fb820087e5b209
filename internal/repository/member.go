package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
	"gorm.io/gorm"
)

type MemberRepository struct {
	db *storage.Postgres
}

func NewMemberRepository(db *storage.Postgres) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) Find(ctx context.Context, companyID, userID uuid.UUID) (*models.CompanyMember, error) {
	var member models.CompanyMember
	err := r.db.DB.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &member, err
}

func (r *MemberRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]models.CompanyMember, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).
		Model(&models.CompanyMember{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []models.CompanyMember
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&members).Error

	return members, total, err
}

func (r *MemberRepository) ListUserIDsByCompany(ctx context.Context, companyID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.DB.WithContext(ctx).
		Model(&models.CompanyMember{}).
		Where("company_id = ?", companyID).
		Pluck("user_id", &ids).Error

	return ids, err
}

func (r *MemberRepository) UpdateRole(ctx context.Context, companyID, userID uuid.UUID, role string) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.CompanyMember{}).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Update("role", role).Error
}

func (r *MemberRepository) Delete(ctx context.Context, companyID, userID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("company_id = ? AND user_id = ?", companyID, userID).
		Delete(&models.CompanyMember{}).Error
}
