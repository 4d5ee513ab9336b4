package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supperchat/backend/internal/auth"
	"supperchat/backend/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	service := auth.NewService("test-secret")
	identity := models.Identity{UserID: "user_123", Username: "alice"}

	token, err := service.IssueToken(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	service := auth.NewService("test-secret")

	_, err := service.Verify("")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = service.Verify("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := auth.NewService("secret-one")
	verifier := auth.NewService("secret-two")

	token, err := issuer.IssueToken(models.Identity{UserID: "user_123", Username: "alice"})
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	service := auth.NewService("test-secret")

	hash, err := service.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, service.CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, service.CheckPassword(hash, "wrong password"))
}
