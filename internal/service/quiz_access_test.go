package service

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/repository"
	"github.com/qoach/quiz-backend/internal/storage"
)

type quizFixture struct {
	quizzes *QuizService
	owner   *models.User
	member  *models.User
	quiz    *models.Quiz
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Invitation{},
		&models.JoinRequest{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.QuizAnswer{},
		&models.Notification{},
	))

	pg := &storage.Postgres{DB: db}

	owner := &models.User{Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(owner).Error)
	member := &models.User{Email: "member@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(member).Error)

	companyRepo := repository.NewCompanyRepository(pg)
	company := &models.Company{Name: "Acme", Description: "test", OwnerID: owner.ID}
	require.NoError(t, companyRepo.Create(context.Background(), company))

	require.NoError(t, db.Create(&models.CompanyMember{
		CompanyID: company.ID,
		UserID:    member.ID,
		Role:      models.RoleMember,
	}).Error)

	memberRepo := repository.NewMemberRepository(pg)
	memberships := NewMembershipService(
		companyRepo,
		memberRepo,
		repository.NewInvitationRepository(pg),
		repository.NewJoinRequestRepository(pg),
		repository.NewUserRepository(pg),
	)

	quizRepo := repository.NewQuizRepository(pg)
	quizzes := NewQuizService(quizRepo, memberships, memberRepo, repository.NewNotificationRepository(pg))

	quiz, err := quizzes.Create(context.Background(), owner.ID, company.ID, "Onboarding", "basics", validQuestions())
	require.NoError(t, err)

	return &quizFixture{
		quizzes: quizzes,
		owner:   owner,
		member:  member,
		quiz:    quiz,
	}
}

func TestQuizGetRequiresAdmin(t *testing.T) {
	f := newQuizFixture(t)
	ctx := context.Background()

	// The owner sees everything, correct flags included.
	full, err := f.quizzes.Get(ctx, f.owner.ID, f.quiz.ID)
	require.NoError(t, err)
	require.NotEmpty(t, full.Questions)
	require.NotEmpty(t, full.Questions[0].Answers)

	// A plain member is refused the full quiz.
	_, err = f.quizzes.Get(ctx, f.member.ID, f.quiz.ID)
	assert.True(t, errors.Is(err, ErrForbidden))
}

func TestQuizGetForTakingServesMembers(t *testing.T) {
	f := newQuizFixture(t)

	view, err := f.quizzes.GetForTaking(context.Background(), f.quiz.ID)
	require.NoError(t, err)

	require.Len(t, view.Questions, len(f.quiz.Questions))
	for _, q := range view.Questions {
		assert.NotEmpty(t, q.Answers)
	}
}
