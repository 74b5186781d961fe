package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterUser(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	user, err := svc.RegisterUser("Alice", "alice@example.com", "pa55word1234")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsAdmin)

	match, err := user.Password.Matches("pa55word1234")
	require.NoError(t, err)
	assert.True(t, match)

	// Email addresses are unique.
	_, err = svc.RegisterUser("Imposter", "alice@example.com", "pa55word1234")
	assert.ErrorIs(t, err, ErrDuplicateRecord)
}

func TestRegisterUserValidation(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)

	tests := []struct {
		name     string
		userName string
		email    string
		password string
	}{
		{"missing name", "", "alice@example.com", "pa55word1234"},
		{"invalid email", "Alice", "not-an-email", "pa55word1234"},
		{"short password", "Alice", "alice@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RegisterUser(tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrFailedValidation)
		})
	}
}

func TestUpdateUserPermissions(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)
	bob := seedUser(repo, "bob", false)
	admin := seedUser(repo, "carol", true)

	name := "Alice Cooper"
	bio := "Reads mostly fiction."

	// A user may update their own profile.
	updated, err := svc.UpdateUser(alice, alice.ID, &name, &bio)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "Reads mostly fiction.", updated.Bio)

	// But not someone else's.
	_, err = svc.UpdateUser(bob, alice.ID, &name, nil)
	assert.ErrorIs(t, err, ErrNotPermitted)

	// Admins may update any profile.
	moderated := "Moderated bio."
	updated, err = svc.UpdateUser(admin, alice.ID, nil, &moderated)
	require.NoError(t, err)
	assert.Equal(t, "Alice Cooper", updated.Name)
	assert.Equal(t, "Moderated bio.", updated.Bio)

	_, err = svc.UpdateUser(admin, 999, &name, nil)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetUser(t *testing.T) {
	repo := newMockRepository()
	svc := newTestService(repo)
	alice := seedUser(repo, "alice", false)

	user, err := svc.GetUser(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, user.Email)

	_, err = svc.GetUser(999)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}
