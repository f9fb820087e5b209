package repository

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qoach/quiz-backend/internal/models"
	"github.com/qoach/quiz-backend/internal/storage"
)

func newTestDB(t *testing.T) *storage.Postgres {
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
	))

	return &storage.Postgres{DB: db}
}

func seedCompanyAndUser(t *testing.T, db *storage.Postgres) (*models.Company, *models.User) {
	t.Helper()

	owner := &models.User{Email: "owner@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(owner).Error)

	invitee := &models.User{Email: "invitee@example.com", PasswordHash: "x"}
	require.NoError(t, db.DB.Create(invitee).Error)

	company := &models.Company{Name: "Acme", Description: "test", OwnerID: owner.ID}
	require.NoError(t, db.DB.Create(company).Error)

	return company, invitee
}

func TestInvitationAccept(t *testing.T) {
	db := newTestDB(t)
	company, invitee := seedCompanyAndUser(t, db)
	ctx := context.Background()

	repo := NewInvitationRepository(db)
	invitation := &models.Invitation{
		CompanyID: company.ID,
		UserID:    invitee.ID,
		Status:    models.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, invitation))

	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    invitee.ID,
		Role:      models.RoleMember,
	}
	require.NoError(t, repo.Accept(ctx, invitation.ID, member))

	updated, err := repo.FindByID(ctx, invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)

	found, err := NewMemberRepository(db).Find(ctx, company.ID, invitee.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, models.RoleMember, found.Role)
}

// A failing member insert must roll the status flip back, so the
// invitation stays pending and a retry starts from a clean state.
func TestInvitationAcceptRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	company, invitee := seedCompanyAndUser(t, db)
	ctx := context.Background()

	// The user is already a member; the unique (company, user) index will
	// reject the membership insert inside Accept.
	existing := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    invitee.ID,
		Role:      models.RoleMember,
	}
	require.NoError(t, db.DB.Create(existing).Error)

	repo := NewInvitationRepository(db)
	invitation := &models.Invitation{
		CompanyID: company.ID,
		UserID:    invitee.ID,
		Status:    models.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, invitation))

	duplicate := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    invitee.ID,
		Role:      models.RoleMember,
	}
	require.Error(t, repo.Accept(ctx, invitation.ID, duplicate))

	updated, err := repo.FindByID(ctx, invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}

func TestJoinRequestAccept(t *testing.T) {
	db := newTestDB(t)
	company, requester := seedCompanyAndUser(t, db)
	ctx := context.Background()

	repo := NewJoinRequestRepository(db)
	request := &models.JoinRequest{
		CompanyID: company.ID,
		UserID:    requester.ID,
		Status:    models.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, request))

	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    requester.ID,
		Role:      models.RoleMember,
	}
	require.NoError(t, repo.Accept(ctx, request.ID, member))

	updated, err := repo.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, updated.Status)
}

func TestJoinRequestAcceptRollsBackOnFailure(t *testing.T) {
	db := newTestDB(t)
	company, requester := seedCompanyAndUser(t, db)
	ctx := context.Background()

	existing := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    requester.ID,
		Role:      models.RoleMember,
	}
	require.NoError(t, db.DB.Create(existing).Error)

	repo := NewJoinRequestRepository(db)
	request := &models.JoinRequest{
		CompanyID: company.ID,
		UserID:    requester.ID,
		Status:    models.StatusPending,
	}
	require.NoError(t, repo.Create(ctx, request))

	duplicate := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    requester.ID,
		Role:      models.RoleMember,
	}
	require.Error(t, repo.Accept(ctx, request.ID, duplicate))

	updated, err := repo.FindByID(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, updated.Status)
}
