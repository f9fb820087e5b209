package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/pagination"
	"github.com/qoach/quiz-backend/internal/repository"
)

// QuestionInput is one authored question with its answer options.
type QuestionInput struct {
	Title   string        `json:"title" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required"`
}

type AnswerInput struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// QuizTakeView is a quiz rendered for the person taking it. It carries no
// IsCorrect fields at all, so the answer key cannot leak through it.
type QuizTakeView struct {
	ID          uuid.UUID          `json:"id"`
	CompanyID   uuid.UUID          `json:"company_id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []QuestionTakeView `json:"questions"`
}

type QuestionTakeView struct {
	ID      uuid.UUID        `json:"id"`
	Title   string           `json:"title"`
	Answers []AnswerTakeView `json:"answers"`
}

type AnswerTakeView struct {
	ID   uuid.UUID `json:"id"`
	Text string    `json:"text"`
}

type QuizService struct {
	quizzes       *repository.QuizRepository
	memberships   *MembershipService
	members       *repository.MemberRepository
	notifications *repository.NotificationRepository
}

func NewQuizService(
	quizzes *repository.QuizRepository,
	memberships *MembershipService,
	members *repository.MemberRepository,
	notifications *repository.NotificationRepository,
) *QuizService {
	return &QuizService{
		quizzes:       quizzes,
		memberships:   memberships,
		members:       members,
		notifications: notifications,
	}
}

// Create authors a quiz with its questions. Owner/admin only. Every
// company member gets an unread notification about the new quiz.
func (s *QuizService) Create(ctx context.Context, callerID, companyID uuid.UUID, title, description string, questions []QuestionInput) (*models.Quiz, error) {
	if err := s.memberships.RequireAdmin(ctx, companyID, callerID); err != nil {
		return nil, err
	}

	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	quiz := &models.Quiz{
		CompanyID:   companyID,
		Title:       title,
		Description: description,
		CreatedBy:   &callerID,
		Questions:   buildQuestions(questions),
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}

	s.notifyCompanyMembers(ctx, companyID, quiz.Title, callerID)

	return quiz, nil
}

// Get returns the full quiz including the correct-answer flags. Owner/admin
// only; quiz takers use GetForTaking instead.
func (s *QuizService) Get(ctx context.Context, callerID, quizID uuid.UUID) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}

	if err := s.memberships.RequireAdmin(ctx, quiz.CompanyID, callerID); err != nil {
		return nil, err
	}

	return quiz, nil
}

// GetForTaking returns the quiz as a taker sees it: questions and answer
// options only, the correct flags never leave the server.
func (s *QuizService) GetForTaking(ctx context.Context, quizID uuid.UUID) (*QuizTakeView, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}

	return takeView(quiz), nil
}

func (s *QuizService) ListByCompany(ctx context.Context, callerID, companyID uuid.UUID, p pagination.Params) (pagination.Page[models.Quiz], error) {
	quizzes, total, err := s.quizzes.ListByCompany(ctx, companyID, p.Offset(), p.Limit())
	if err != nil {
		return pagination.Page[models.Quiz]{}, err
	}

	return pagination.NewPage(quizzes, total, p), nil
}

// Update changes quiz metadata and optionally replaces the question set.
// Owner/admin only.
func (s *QuizService) Update(ctx context.Context, callerID, quizID uuid.UUID, title, description *string, questions []QuestionInput) (*models.Quiz, error) {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, fmt.Errorf("%w: quiz", ErrNotFound)
	}

	if err := s.memberships.RequireAdmin(ctx, quiz.CompanyID, callerID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if title != nil {
		updates["title"] = *title
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.quizzes.Update(ctx, quizID, updates); err != nil {
			return nil, err
		}
	}

	if questions != nil {
		if err := validateQuestions(questions); err != nil {
			return nil, err
		}
		if err := s.quizzes.ReplaceQuestions(ctx, quizID, buildQuestions(questions)); err != nil {
			return nil, err
		}
	}

	return s.quizzes.FindByID(ctx, quizID)
}

// Delete removes the quiz and its attempts. Owner/admin only.
func (s *QuizService) Delete(ctx context.Context, callerID, quizID uuid.UUID) error {
	quiz, err := s.quizzes.FindByID(ctx, quizID)
	if err != nil {
		return err
	}
	if quiz == nil {
		return fmt.Errorf("%w: quiz", ErrNotFound)
	}

	if err := s.memberships.RequireAdmin(ctx, quiz.CompanyID, callerID); err != nil {
		return err
	}

	return s.quizzes.Delete(ctx, quizID)
}

// notifyCompanyMembers fans an unread notification out to every member
// except the quiz author. Best effort: a failure is logged, the quiz is
// already created.
func (s *QuizService) notifyCompanyMembers(ctx context.Context, companyID uuid.UUID, quizTitle string, excludeUserID uuid.UUID) {
	userIDs, err := s.members.ListUserIDsByCompany(ctx, companyID)
	if err != nil {
		log.Printf("Failed to list members for quiz notification: %v", err)
		return
	}

	message := QuizCreatedMessage(quizTitle)
	notifications := make([]models.Notification, 0, len(userIDs))
	for _, id := range userIDs {
		if id == excludeUserID {
			continue
		}
		notifications = append(notifications, models.Notification{
			UserID:  id,
			Message: message,
			Status:  models.NotificationUnread,
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		log.Printf("Failed to create %d quiz notifications: %v", len(notifications), err)
		return
	}

	log.Printf("Created %d notifications for quiz %q in company %s", len(notifications), quizTitle, companyID)
}

// QuizCreatedMessage is the notification text members receive when a quiz
// appears in their company.
func QuizCreatedMessage(title string) string {
	return fmt.Sprintf("New quiz %q has been created in your company.", title)
}

func validateQuestions(questions []QuestionInput) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: a quiz needs at least one question", ErrInvalid)
	}

	for i, q := range questions {
		if q.Title == "" {
			return fmt.Errorf("%w: question %d has no title", ErrInvalid, i+1)
		}
		if len(q.Answers) < 2 {
			return fmt.Errorf("%w: question %d needs at least two answer options", ErrInvalid, i+1)
		}

		hasCorrect := false
		for _, a := range q.Answers {
			if a.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return fmt.Errorf("%w: question %d has no correct answer", ErrInvalid, i+1)
		}
	}

	return nil
}

func takeView(quiz *models.Quiz) *QuizTakeView {
	questions := make([]QuestionTakeView, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		answers := make([]AnswerTakeView, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, AnswerTakeView{
				ID:   a.ID,
				Text: a.Text,
			})
		}
		questions = append(questions, QuestionTakeView{
			ID:      q.ID,
			Title:   q.Title,
			Answers: answers,
		})
	}

	return &QuizTakeView{
		ID:          quiz.ID,
		CompanyID:   quiz.CompanyID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   questions,
	}
}

func buildQuestions(inputs []QuestionInput) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, 0, len(inputs))
	for _, q := range inputs {
		answers := make([]models.QuizAnswer, 0, len(q.Answers))
		for _, a := range q.Answers {
			answers = append(answers, models.QuizAnswer{
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
			})
		}
		questions = append(questions, models.QuizQuestion{
			Title:   q.Title,
			Answers: answers,
		})
	}

	return questions
}
