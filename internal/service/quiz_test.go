package service

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validQuestions() []QuestionInput {
	return []QuestionInput{
		{
			Title: "What does SELECT 1 do?",
			Answers: []AnswerInput{
				{Text: "Returns 1", IsCorrect: true},
				{Text: "Drops the table"},
			},
		},
	}
}

func TestValidateQuestionsOK(t *testing.T) {
	assert.NoError(t, validateQuestions(validQuestions()))
}

func TestValidateQuestionsEmpty(t *testing.T) {
	err := validateQuestions(nil)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestValidateQuestionsTooFewAnswers(t *testing.T) {
	qs := validQuestions()
	qs[0].Answers = qs[0].Answers[:1]

	err := validateQuestions(qs)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "at least two answer options")
}

func TestValidateQuestionsNoCorrectAnswer(t *testing.T) {
	qs := validQuestions()
	qs[0].Answers[0].IsCorrect = false

	err := validateQuestions(qs)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "no correct answer")
}

func TestValidateQuestionsMissingTitle(t *testing.T) {
	qs := validQuestions()
	qs[0].Title = ""

	err := validateQuestions(qs)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestQuizCreatedMessage(t *testing.T) {
	msg := QuizCreatedMessage("Security Basics")
	assert.Equal(t, `New quiz "Security Basics" has been created in your company.`, msg)
}

func TestTakeViewHidesCorrectFlags(t *testing.T) {
	quiz := buildQuiz(t)

	view := takeView(quiz)

	body, err := json.Marshal(view)
	require.NoError(t, err)

	// The rendered body must not carry the answer key in any form.
	assert.NotContains(t, string(body), "is_correct")
	assert.NotContains(t, string(body), "IsCorrect")
}

func TestTakeViewKeepsQuestionsAndOptions(t *testing.T) {
	quiz := buildQuiz(t)

	view := takeView(quiz)

	require.Len(t, view.Questions, len(quiz.Questions))
	for i, q := range view.Questions {
		assert.Equal(t, quiz.Questions[i].ID, q.ID)
		assert.Equal(t, quiz.Questions[i].Title, q.Title)
		require.Len(t, q.Answers, len(quiz.Questions[i].Answers))
		for j, a := range q.Answers {
			assert.Equal(t, quiz.Questions[i].Answers[j].ID, a.ID)
			assert.Equal(t, quiz.Questions[i].Answers[j].Text, a.Text)
		}
	}
}

func TestBuildQuestionsPreservesOptions(t *testing.T) {
	built := buildQuestions(validQuestions())

	assert.Len(t, built, 1)
	assert.Len(t, built[0].Answers, 2)
	assert.True(t, built[0].Answers[0].IsCorrect)
	assert.False(t, built[0].Answers[1].IsCorrect)
}
