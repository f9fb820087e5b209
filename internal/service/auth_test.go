package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/qoach/quiz-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", 1)
	user := &models.User{ID: uuid.New(), Email: "dev@example.com"}

	token, err := svc.IssueToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a", 1)
	verifier := NewAuthService(nil, "secret-b", 1)

	token, err := issuer.IssueToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", 1)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestValidateTokenExpired(t *testing.T) {
	svc := NewAuthService(nil, "test-secret", -1)

	token, err := svc.IssueToken(&models.User{ID: uuid.New()})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
