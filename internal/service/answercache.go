package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
)

// AnswerCacheService mirrors submitted quiz answers into Redis for 48
// hours so recent activity can be inspected without hitting Postgres.
type AnswerCacheService struct {
	redis *storage.RedisClient
}

const answerTTL = 48 * time.Hour

func NewAnswerCacheService(redis *storage.RedisClient) *AnswerCacheService {
	return &AnswerCacheService{redis: redis}
}

func answerKey(userID, quizID, questionID, attemptID uuid.UUID) string {
	return fmt.Sprintf("quiz-answer:%s:%s:%s:%s", userID, quizID, questionID, attemptID)
}

// SaveAttempt writes one hash per answered question, all in a single
// pipeline round-trip.
func (s *AnswerCacheService) SaveAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	if len(attempt.UserAnswers) == 0 {
		return nil
	}

	entries := make(map[string]map[string]interface{}, len(attempt.UserAnswers))
	for _, ua := range attempt.UserAnswers {
		key := answerKey(attempt.UserID, attempt.QuizID, ua.QuestionID, attempt.ID)
		entries[key] = map[string]interface{}{
			"user_id":     attempt.UserID.String(),
			"company_id":  attempt.CompanyID.String(),
			"quiz_id":     attempt.QuizID.String(),
			"question_id": ua.QuestionID.String(),
			"answer_id":   ua.AnswerID.String(),
			"is_correct":  boolField(ua.IsCorrect),
			"attempt_id":  attempt.ID.String(),
			"answered_at": ua.AnsweredAt.UTC().Format(time.RFC3339),
		}
	}

	return s.redis.HSetBulk(ctx, entries, answerTTL)
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
