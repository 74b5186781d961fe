package service

import (
	"testing"
	"time"

	"github.com/emzola/bookworm/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAuthenticationToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)

	token, err := svc.CreateAuthenticationToken(alice.Email, "pa55word1234")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, token.UserID)
	assert.Equal(t, data.ScopeAuthentication, token.Scope)
	assert.NotEmpty(t, token.Plaintext)

	// The token authenticates its user.
	user, err := svc.GetUserForToken(data.ScopeAuthentication, token.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)
}

func TestCreateAuthenticationTokenBadCredentials(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)

	_, err := svc.CreateAuthenticationToken(alice.Email, "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CreateAuthenticationToken("nobody@example.com", "pa55word1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.CreateAuthenticationToken("not-an-email", "pa55word1234")
	assert.ErrorIs(t, err, ErrFailedValidation)
}

func TestDeleteAuthenticationToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)

	token, err := svc.CreateAuthenticationToken(alice.Email, "pa55word1234")
	require.NoError(t, err)

	err = svc.DeleteAuthenticationToken(alice.ID)
	require.NoError(t, err)

	_, err = svc.GetUserForToken(data.ScopeAuthentication, token.Plaintext)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestResetUserPassword(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)

	err := svc.CreatePasswordResetToken(alice.Email)
	require.NoError(t, err)

	// The mock repository issues a fixed token plaintext.
	token, err := repo.CreateNewToken(alice.ID, time.Hour, data.ScopePasswordReset)
	require.NoError(t, err)

	err = svc.ResetUserPassword("newpa55word", token.Plaintext)
	require.NoError(t, err)

	_, err = svc.CreateAuthenticationToken(alice.Email, "pa55word1234")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	authToken, err := svc.CreateAuthenticationToken(alice.Email, "newpa55word")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, authToken.UserID)
}

func TestResetUserPasswordInvalidToken(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	seedUser(repo, "alice", false)

	err := svc.ResetUserPassword("newpa55word", "UNKNOWNTOKENUNKNOWNTOKENXX")
	assert.ErrorIs(t, err, ErrFailedValidation)

	err = svc.ResetUserPassword("newpa55word", "tooshort")
	assert.ErrorIs(t, err, ErrFailedValidation)
}
