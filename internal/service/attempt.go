package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

// AnswerSubmission is one answered question in a quiz attempt.
type AnswerSubmission struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	AnswerID   uuid.UUID `json:"answer_id" binding:"required"`
}

// UserStatistics summarizes a user's quiz performance.
type UserStatistics struct {
	GlobalAverage     float64    `json:"global_average"`
	CompanyAverage    *float64   `json:"company_average,omitempty"`
	TotalQuizzesTaken int64      `json:"total_quizzes_taken"`
	LastAttemptAt     *time.Time `json:"last_attempt_at,omitempty"`
}

type AttemptService struct {
	quizzes     *repository.QuizRepository
	companies   *repository.CompanyRepository
	attempts    *repository.AttemptRepository
	memberships *MembershipService
	answerCache *AnswerCacheService
}

func NewAttemptService(
	quizzes *repository.QuizRepository,
	companies *repository.CompanyRepository,
	attempts *repository.AttemptRepository,
	memberships *MembershipService,
	answerCache *AnswerCacheService,
) *AttemptService {
	return &AttemptService{
		quizzes:     quizzes,
		companies:   companies,
		attempts:    attempts,
		memberships: memberships,
		answerCache: answerCache,
	}
}

// Submit records a completed quiz attempt. The score is computed
// server-side from the stored correct flags; the submission only says
// which option was picked per question.
func (s *AttemptService) Submit(ctx context.Context, callerID, quizID uuid.UUID, answers []AnswerSubmission) (*models.QuizAttempt, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}

	company, err := s.companies.FindByID(ctx, quiz.CompanyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, fmt.Errorf("%w: company", ErrNotFound)
	}
	if !company.IsVisible {
		if err := s.memberships.RequireAdmin(ctx, quiz.CompanyID, callerID); err != nil {
			return nil, err
		}
	}

	graded, err := gradeAnswers(quiz, answers)
	if err != nil {
		return nil, err
	}

	score := 0
	for _, g := range graded {
		if g.IsCorrect {
			score++
		}
	}

	now := time.Now().UTC()
	attempt := &models.QuizAttempt{
		UserID:         callerID,
		QuizID:         quizID,
		CompanyID:      quiz.CompanyID,
		Score:          score,
		TotalQuestions: len(quiz.Questions),
		StartedAt:      now,
		CompletedAt:    &now,
		UserAnswers:    graded,
	}

	if err := s.attempts.Create(ctx, attempt); err != nil {
		return nil, err
	}

	// Mirror to Redis best-effort; the attempt is already durable.
	if s.answerCache != nil {
		if err := s.answerCache.SaveAttempt(ctx, attempt); err != nil {
			log.Printf("Failed to cache answers for attempt %s: %v", attempt.ID, err)
		}
	}

	return attempt, nil
}

func (s *AttemptService) Statistics(ctx context.Context, userID uuid.UUID, companyID *uuid.UUID) (*UserStatistics, error) {
	globalAvg, err := s.attempts.GlobalAverage(ctx, userID)
	if err != nil {
		return nil, err
	}

	var companyAvg *float64
	if companyID != nil {
		avg, err := s.attempts.CompanyAverage(ctx, userID, *companyID)
		if err != nil {
			return nil, err
		}
		companyAvg = &avg
	}

	total, err := s.attempts.CountCompleted(ctx, userID, companyID)
	if err != nil {
		return nil, err
	}

	last, err := s.attempts.LastAttemptAt(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserStatistics{
		GlobalAverage:     globalAvg,
		CompanyAverage:    companyAvg,
		TotalQuizzesTaken: total,
		LastAttemptAt:     last,
	}, nil
}

func (s *AttemptService) History(ctx context.Context, userID uuid.UUID, companyID, quizID *uuid.UUID, p pagination.Params) (pagination.Page[models.QuizAttempt], error) {
	attempts, total, err := s.attempts.ListByUser(ctx, userID, companyID, quizID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.QuizAttempt]{}, err
	}

	return pagination.NewPage(attempts, total, p), nil
}

// gradeAnswers validates a submission against the quiz and converts it
// into scored user answers. Rules: every question answered exactly once,
// every referenced question and answer must belong to this quiz.
func gradeAnswers(quiz *models.Quiz, answers []AnswerSubmission) ([]models.QuizUserAnswer, error) {
	if len(answers) != len(quiz.Questions) {
		return nil, fmt.Errorf("%w: must answer all %d questions, received %d",
			ErrInvalid, len(quiz.Questions), len(answers))
	}

	questions := make(map[uuid.UUID]*models.QuizQuestion, len(quiz.Questions))
	for i := range quiz.Questions {
		questions[quiz.Questions[i].ID] = &quiz.Questions[i]
	}

	seen := make(map[uuid.UUID]bool, len(answers))
	graded := make([]models.QuizUserAnswer, 0, len(answers))

	for _, sub := range answers {
		if seen[sub.QuestionID] {
			return nil, fmt.Errorf("%w: question %s answered more than once", ErrInvalid, sub.QuestionID)
		}
		seen[sub.QuestionID] = true

		question, ok := questions[sub.QuestionID]
		if !ok {
			return nil, fmt.Errorf("%w: question %s does not belong to this quiz", ErrInvalid, sub.QuestionID)
		}

		var selected *models.QuizAnswer
		for i := range question.Answers {
			if question.Answers[i].ID == sub.AnswerID {
				selected = &question.Answers[i]
				break
			}
		}
		if selected == nil {
			return nil, fmt.Errorf("%w: answer %s does not belong to question %s",
				ErrInvalid, sub.AnswerID, sub.QuestionID)
		}

		graded = append(graded, models.QuizUserAnswer{
			QuestionID: sub.QuestionID,
			AnswerID:   sub.AnswerID,
			IsCorrect:  selected.IsCorrect,
		})
	}

	return graded, nil
}
