package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

// AnalyticsService exposes the aggregate queries. User-scoped analytics
// are always about the caller; company-scoped analytics are gated behind
// owner/admin membership.
type AnalyticsService struct {
	analytics   *repository.AnalyticsRepository
	memberships *MembershipService
}

func NewAnalyticsService(analytics *repository.AnalyticsRepository, memberships *MembershipService) *AnalyticsService {
	return &AnalyticsService{
		analytics:   analytics,
		memberships: memberships,
	}
}

func (s *AnalyticsService) MyOverallRating(ctx context.Context, userID uuid.UUID) (repository.OverallRating, error) {
	return s.analytics.UserOverallRating(ctx, userID)
}

func (s *AnalyticsService) MyQuizAverages(ctx context.Context, userID uuid.UUID, from, to time.Time, p pagination.Params) (pagination.Page[repository.QuizAverage], error) {
	if from.After(to) {
		return pagination.Page[repository.QuizAverage]{}, fmt.Errorf("%w: from_date must not be after to_date", ErrInvalid)
	}

	averages, total, err := s.analytics.UserQuizAverages(ctx, userID, from, to, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[repository.QuizAverage]{}, err
	}

	return pagination.NewPage(averages, total, p), nil
}

func (s *AnalyticsService) MyLastCompletions(ctx context.Context, userID uuid.UUID, p pagination.Params) (pagination.Page[repository.QuizCompletion], error) {
	completions, total, err := s.analytics.UserLastCompletions(ctx, userID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[repository.QuizCompletion]{}, err
	}

	return pagination.NewPage(completions, total, p), nil
}

func (s *AnalyticsService) CompanyWeeklyAverages(ctx context.Context, callerID, companyID uuid.UUID, p pagination.Params) (pagination.Page[repository.WeeklyAverage], error) {
	if err := s.memberships.RequireAdmin(ctx, companyID, callerID); err != nil {
		return pagination.Page[repository.WeeklyAverage]{}, err
	}

	averages, total, err := s.analytics.CompanyWeeklyAverages(ctx, companyID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[repository.WeeklyAverage]{}, err
	}

	return pagination.NewPage(averages, total, p), nil
}

func (s *AnalyticsService) CompanyUserWeeklyAverages(ctx context.Context, callerID, companyID, targetUserID uuid.UUID, p pagination.Params) (pagination.Page[repository.WeeklyAverage], error) {
	if err := s.memberships.RequireAdmin(ctx, companyID, callerID); err != nil {
		return pagination.Page[repository.WeeklyAverage]{}, err
	}

	averages, total, err := s.analytics.CompanyUserWeeklyAverages(ctx, companyID, targetUserID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[repository.WeeklyAverage]{}, err
	}

	return pagination.NewPage(averages, total, p), nil
}

func (s *AnalyticsService) CompanyMembersLastAttempts(ctx context.Context, callerID, companyID uuid.UUID, p pagination.Params) (pagination.Page[repository.MemberLastAttempt], error) {
	if err := s.memberships.RequireAdmin(ctx, companyID, callerID); err != nil {
		return pagination.Page[repository.MemberLastAttempt]{}, err
	}

	attempts, total, err := s.analytics.CompanyMembersLastAttempts(ctx, companyID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[repository.MemberLastAttempt]{}, err
	}

	return pagination.NewPage(attempts, total, p), nil
}
