package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
	"gorm.io/gorm"
)

type InvitationRepository struct {
	db *storage.Postgres
}

func NewInvitationRepository(db *storage.Postgres) *InvitationRepository {
	return &InvitationRepository{db: db}
}

func (r *InvitationRepository) Create(ctx context.Context, invitation *models.Invitation) error {
	return r.db.DB.WithContext(ctx).Create(invitation).Error
}

func (r *InvitationRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&invitation).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &invitation, err
}

func (r *InvitationRepository) FindPending(ctx context.Context, companyID, userID uuid.UUID) (*models.Invitation, error) {
	var invitation models.Invitation
	err := r.db.DB.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND status = ?", companyID, userID, models.StatusPending).
		First(&invitation).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &invitation, err
}

func (r *InvitationRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.Invitation, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var invitations []models.Invitation
	err := r.db.DB.WithContext(ctx).
		Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&invitations).Error

	return invitations, total, err
}

func (r *InvitationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.Invitation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Accept flips the invitation to accepted and records the membership in
// one transaction, so a partial failure never leaves a member row behind
// a still-pending invitation.
func (r *InvitationRepository) Accept(ctx context.Context, id uuid.UUID, member *models.CompanyMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Model(&models.Invitation{}).
			Where("id = ?", id).
			Update("status", models.StatusAccepted).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Create(member).Error
	})
}

func (r *InvitationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Invitation{}).Error
}

type JoinRequestRepository struct {
	db *storage.Postgres
}

func NewJoinRequestRepository(db *storage.Postgres) *JoinRequestRepository {
	return &JoinRequestRepository{db: db}
}

func (r *JoinRequestRepository) Create(ctx context.Context, request *models.JoinRequest) error {
	return r.db.DB.WithContext(ctx).Create(request).Error
}

func (r *JoinRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&request).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &request, err
}

func (r *JoinRequestRepository) FindPending(ctx context.Context, companyID, userID uuid.UUID) (*models.JoinRequest, error) {
	var request models.JoinRequest
	err := r.db.DB.WithContext(ctx).
		Where("company_id = ? AND user_id = ? AND status = ?", companyID, userID, models.StatusPending).
		First(&request).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}

	return &request, err
}

func (r *JoinRequestRepository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.JoinRequest, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.JoinRequest
	err := r.db.DB.WithContext(ctx).
		Preload("Company").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

func (r *JoinRequestRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]models.JoinRequest, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("company_id = ? AND status = ?", companyID, models.StatusPending).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []models.JoinRequest
	err := r.db.DB.WithContext(ctx).
		Preload("User").
		Where("company_id = ? AND status = ?", companyID, models.StatusPending).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error

	return requests, total, err
}

func (r *JoinRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.DB.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Accept flips the request to accepted and records the membership in one
// transaction. See InvitationRepository.Accept.
func (r *JoinRequestRepository) Accept(ctx context.Context, id uuid.UUID, member *models.CompanyMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.WithContext(ctx).
			Model(&models.JoinRequest{}).
			Where("id = ?", id).
			Update("status", models.StatusAccepted).Error; err != nil {
			return err
		}

		return tx.WithContext(ctx).Create(member).Error
	})
}

func (r *JoinRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.JoinRequest{}).Error
}
