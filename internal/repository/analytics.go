package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/storage"
)

// WeeklyAverage is one ISO-week bucket of attempt scores.
type WeeklyAverage struct {
	WeekStart    time.Time `json:"week_start"`
	AverageScore float64   `json:"average_score"`
	AttemptCount int64     `json:"attempt_count"`
}

// QuizAverage is a per-quiz mean score over a date range.
type QuizAverage struct {
	QuizID       uuid.UUID `json:"quiz_id"`
	QuizTitle    string    `json:"quiz_title"`
	AverageScore float64   `json:"average_score"`
	AttemptCount int64     `json:"attempt_count"`
}

// QuizCompletion is the most recent completion of one quiz by a user.
type QuizCompletion struct {
	QuizID      uuid.UUID `json:"quiz_id"`
	QuizTitle   string    `json:"quiz_title"`
	CompletedAt time.Time `json:"completed_at"`
}

// MemberLastAttempt pairs a company member with their most recent attempt.
type MemberLastAttempt struct {
	UserID        uuid.UUID  `json:"user_id"`
	Email         string     `json:"email"`
	FullName      string     `json:"full_name"`
	LastAttemptAt *time.Time `json:"last_attempt_at"`
}

// OverallRating is correct/total answer counts across everything a user
// has answered.
type OverallRating struct {
	CorrectAnswers int64 `json:"correct_answers"`
	TotalAnswers   int64 `json:"total_answers"`
}

type AnalyticsRepository struct {
	db *storage.Postgres
}

func NewAnalyticsRepository(db *storage.Postgres) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

func (r *AnalyticsRepository) UserOverallRating(ctx context.Context, userID uuid.UUID) (OverallRating, error) {
	var rating OverallRating
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE ua.is_correct) AS correct_answers,
			COUNT(*) AS total_answers
		FROM quiz_user_answers ua
		JOIN quiz_attempts a ON a.id = ua.attempt_id
		WHERE a.user_id = ? AND a.completed_at IS NOT NULL`,
		userID,
	).Scan(&rating).Error

	return rating, err
}

func (r *AnalyticsRepository) UserQuizAverages(ctx context.Context, userID uuid.UUID, from, to time.Time, offset, limit int) ([]QuizAverage, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT a.quiz_id)
		FROM quiz_attempts a
		WHERE a.user_id = ?
		  AND a.completed_at IS NOT NULL
		  AND a.completed_at >= ? AND a.completed_at < ?`,
		userID, from, to,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var averages []QuizAverage
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			a.quiz_id,
			q.title AS quiz_title,
			AVG(a.score::float / NULLIF(a.total_questions, 0)) AS average_score,
			COUNT(*) AS attempt_count
		FROM quiz_attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = ?
		  AND a.completed_at IS NOT NULL
		  AND a.completed_at >= ? AND a.completed_at < ?
		GROUP BY a.quiz_id, q.title
		ORDER BY q.title
		OFFSET ? LIMIT ?`,
		userID, from, to, offset, limit,
	).Scan(&averages).Error

	return averages, total, err
}

func (r *AnalyticsRepository) UserLastCompletions(ctx context.Context, userID uuid.UUID, offset, limit int) ([]QuizCompletion, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT quiz_id)
		FROM quiz_attempts
		WHERE user_id = ? AND completed_at IS NOT NULL`,
		userID,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var completions []QuizCompletion
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			a.quiz_id,
			q.title AS quiz_title,
			MAX(a.completed_at) AS completed_at
		FROM quiz_attempts a
		JOIN quizzes q ON q.id = a.quiz_id
		WHERE a.user_id = ? AND a.completed_at IS NOT NULL
		GROUP BY a.quiz_id, q.title
		ORDER BY MAX(a.completed_at) DESC
		OFFSET ? LIMIT ?`,
		userID, offset, limit,
	).Scan(&completions).Error

	return completions, total, err
}

// CompanyWeeklyAverages buckets all completed attempts against a company's
// quizzes by week.
func (r *AnalyticsRepository) CompanyWeeklyAverages(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]WeeklyAverage, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT date_trunc('week', completed_at))
		FROM quiz_attempts
		WHERE company_id = ? AND completed_at IS NOT NULL`,
		companyID,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var averages []WeeklyAverage
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			date_trunc('week', completed_at) AS week_start,
			AVG(score::float / NULLIF(total_questions, 0)) AS average_score,
			COUNT(*) AS attempt_count
		FROM quiz_attempts
		WHERE company_id = ? AND completed_at IS NOT NULL
		GROUP BY date_trunc('week', completed_at)
		ORDER BY week_start DESC
		OFFSET ? LIMIT ?`,
		companyID, offset, limit,
	).Scan(&averages).Error

	return averages, total, err
}

// CompanyUserWeeklyAverages is the same bucketing narrowed to one member.
func (r *AnalyticsRepository) CompanyUserWeeklyAverages(ctx context.Context, companyID, userID uuid.UUID, offset, limit int) ([]WeeklyAverage, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT date_trunc('week', completed_at))
		FROM quiz_attempts
		WHERE company_id = ? AND user_id = ? AND completed_at IS NOT NULL`,
		companyID, userID,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var averages []WeeklyAverage
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			date_trunc('week', completed_at) AS week_start,
			AVG(score::float / NULLIF(total_questions, 0)) AS average_score,
			COUNT(*) AS attempt_count
		FROM quiz_attempts
		WHERE company_id = ? AND user_id = ? AND completed_at IS NOT NULL
		GROUP BY date_trunc('week', completed_at)
		ORDER BY week_start DESC
		OFFSET ? LIMIT ?`,
		companyID, userID, offset, limit,
	).Scan(&averages).Error

	return averages, total, err
}

func (r *AnalyticsRepository) CompanyMembersLastAttempts(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]MemberLastAttempt, int64, error) {
	var total int64
	if err := r.db.DB.WithContext(ctx).Raw(`
		SELECT COUNT(*)
		FROM company_members
		WHERE company_id = ?`,
		companyID,
	).Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []MemberLastAttempt
	err := r.db.DB.WithContext(ctx).Raw(`
		SELECT
			m.user_id,
			u.email,
			u.full_name,
			MAX(a.completed_at) AS last_attempt_at
		FROM company_members m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN quiz_attempts a
			ON a.user_id = m.user_id
			AND a.company_id = m.company_id
			AND a.completed_at IS NOT NULL
		WHERE m.company_id = ?
		GROUP BY m.user_id, u.email, u.full_name
		ORDER BY u.email
		OFFSET ? LIMIT ?`,
		companyID, offset, limit,
	).Scan(&attempts).Error

	return attempts, total, err
}
