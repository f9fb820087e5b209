package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users *repository.UserRepository
}

func NewUserService(users *repository.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}

	return user, nil
}

func (s *UserService) List(ctx context.Context, p pagination.Params) (pagination.Page[models.User], error) {
	users, total, err := s.users.List(ctx, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.User]{}, err
	}

	return pagination.NewPage(users, total, p), nil
}

// UpdateProfile lets a user change their own name or password. Only the
// account owner may call this.
func (s *UserService) UpdateProfile(ctx context.Context, callerID, targetID uuid.UUID, fullName, password *string) (*models.User, error) {
	if callerID != targetID {
		return nil, fmt.Errorf("%w: can only update your own profile", ErrForbidden)
	}

	updates := make(map[string]interface{})
	if fullName != nil {
		updates["full_name"] = *fullName
	}
	if password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = string(hashed)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalid)
	}

	if err := s.users.Update(ctx, targetID, updates); err != nil {
		return nil, err
	}

	return s.Get(ctx, targetID)
}

// Deactivate soft-disables the account. Only the account owner may call
// this.
func (s *UserService) Deactivate(ctx context.Context, callerID, targetID uuid.UUID) error {
	if callerID != targetID {
		return fmt.Errorf("%w: can only deactivate your own account", ErrForbidden)
	}

	return s.users.Update(ctx, targetID, map[string]interface{}{"is_active": false})
}
