package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttempt is one completed run of a quiz by a user. This is the main
// table analytics aggregates over.
type QuizAttempt struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_user_completed" json:"user_id"`
	QuizID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_quiz_completed" json:"quiz_id"`
	CompanyID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_company_completed" json:"company_id"`
	Score          int              `gorm:"default:0;not null" json:"score"`
	TotalQuestions int              `gorm:"not null" json:"total_questions"`
	StartedAt      time.Time        `gorm:"not null" json:"started_at"`
	CompletedAt    *time.Time       `gorm:"index:idx_user_completed;index:idx_quiz_completed;index:idx_company_completed" json:"completed_at,omitempty"`
	UserAnswers    []QuizUserAnswer `gorm:"foreignKey:AttemptID;constraint:OnDelete:CASCADE" json:"user_answers,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.StartedAt.IsZero() {
		a.StartedAt = time.Now().UTC()
	}
	return nil
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) PercentageScore() float64 {
	if a.TotalQuestions == 0 {
		return 0.0
	}
	return float64(a.Score) / float64(a.TotalQuestions) * 100.0
}

func (a *QuizAttempt) IsCompleted() bool {
	return a.CompletedAt != nil
}

type QuizUserAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	AttemptID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attempt_question" json:"attempt_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_attempt_question" json:"question_id"`
	AnswerID   uuid.UUID `gorm:"type:uuid;not null" json:"answer_id"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	AnsweredAt time.Time `gorm:"not null" json:"answered_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *QuizUserAnswer) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.AnsweredAt.IsZero() {
		u.AnsweredAt = time.Now().UTC()
	}
	return nil
}

func (QuizUserAnswer) TableName() string {
	return "quiz_user_answers"
}
