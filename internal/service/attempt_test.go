package service

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildQuiz(t *testing.T) *models.Quiz {
	t.Helper()

	quiz := &models.Quiz{ID: uuid.New()}
	for i := 0; i < 3; i++ {
		question := models.QuizQuestion{
			ID:     uuid.New(),
			QuizID: quiz.ID,
			Title:  "question",
			Answers: []models.QuizAnswer{
				{ID: uuid.New(), Text: "right", IsCorrect: true},
				{ID: uuid.New(), Text: "wrong", IsCorrect: false},
			},
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	return quiz
}

func correctSubmission(quiz *models.Quiz) []AnswerSubmission {
	subs := make([]AnswerSubmission, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		subs = append(subs, AnswerSubmission{QuestionID: q.ID, AnswerID: q.Answers[0].ID})
	}
	return subs
}

func TestGradeAnswersAllCorrect(t *testing.T) {
	quiz := buildQuiz(t)

	graded, err := gradeAnswers(quiz, correctSubmission(quiz))
	require.NoError(t, err)
	require.Len(t, graded, 3)

	for _, g := range graded {
		assert.True(t, g.IsCorrect)
	}
}

func TestGradeAnswersScoringMixed(t *testing.T) {
	quiz := buildQuiz(t)
	subs := correctSubmission(quiz)
	// Pick the wrong option for the last question.
	subs[2].AnswerID = quiz.Questions[2].Answers[1].ID

	graded, err := gradeAnswers(quiz, subs)
	require.NoError(t, err)

	score := 0
	for _, g := range graded {
		if g.IsCorrect {
			score++
		}
	}
	assert.Equal(t, 2, score)
}

func TestGradeAnswersWrongCount(t *testing.T) {
	quiz := buildQuiz(t)
	subs := correctSubmission(quiz)[:2]

	_, err := gradeAnswers(quiz, subs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "must answer all 3 questions")
}

func TestGradeAnswersDuplicateQuestion(t *testing.T) {
	quiz := buildQuiz(t)
	subs := correctSubmission(quiz)
	subs[1] = subs[0]

	_, err := gradeAnswers(quiz, subs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "more than once")
}

func TestGradeAnswersForeignQuestion(t *testing.T) {
	quiz := buildQuiz(t)
	subs := correctSubmission(quiz)
	subs[0].QuestionID = uuid.New()

	_, err := gradeAnswers(quiz, subs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "does not belong to this quiz")
}

func TestGradeAnswersForeignAnswer(t *testing.T) {
	quiz := buildQuiz(t)
	subs := correctSubmission(quiz)
	subs[0].AnswerID = uuid.New()

	_, err := gradeAnswers(quiz, subs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "does not belong to question")
}
