package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

type CompanyService struct {
	companies *repository.CompanyRepository
	members   *repository.MemberRepository
}

func NewCompanyService(companies *repository.CompanyRepository, members *repository.MemberRepository) *CompanyService {
	return &CompanyService{
		companies: companies,
		members:   members,
	}
}

func (s *CompanyService) Create(ctx context.Context, ownerID uuid.UUID, name, description string, isVisible bool) (*models.Company, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalid)
	}

	company := &models.Company{
		Name:        name,
		Description: description,
		IsVisible:   isVisible,
		OwnerID:     ownerID,
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// Get returns the company if it is visible to the caller: public, owned,
// or joined.
func (s *CompanyService) Get(ctx context.Context, callerID, companyID uuid.UUID) (*models.Company, error) {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company", ErrNotFound)
	}

	if !company.IsVisible {
		member, err := s.members.Find(ctx, companyID, callerID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, fmt.Errorf("%w: company", ErrNotFound)
		}
	}

	return company, nil
}

func (s *CompanyService) List(ctx context.Context, callerID uuid.UUID, p pagination.Params) (pagination.Page[models.Company], error) {
	companies, total, err := s.companies.ListVisible(ctx, callerID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.Company]{}, err
	}

	return pagination.NewPage(companies, total, p), nil
}

// Update mutates company fields. Owner only.
func (s *CompanyService) Update(ctx context.Context, callerID, companyID uuid.UUID, updates map[string]interface{}) (*models.Company, error) {
	if err := s.requireOwner(ctx, callerID, companyID); err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalid)
	}

	if err := s.companies.Update(ctx, companyID, updates); err != nil {
		return nil, err
	}

	return s.companies.FindByID(ctx, companyID)
}

// Delete removes the company and everything cascading from it. Owner only.
func (s *CompanyService) Delete(ctx context.Context, callerID, companyID uuid.UUID) error {
	if err := s.requireOwner(ctx, callerID, companyID); err != nil {
		return err
	}

	return s.companies.Delete(ctx, companyID)
}

func (s *CompanyService) requireOwner(ctx context.Context, callerID, companyID uuid.UUID) error {
	company, err := s.companies.FindByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return fmt.Errorf("%w: company", ErrNotFound)
	}
	if company.OwnerID != callerID {
		return fmt.Errorf("%w: only the company owner may do this", ErrForbidden)
	}

	return nil
}
