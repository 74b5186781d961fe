package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReviewCanMutate(t *testing.T) {
	owner := &User{ID: 1}
	stranger := &User{ID: 2}
	admin := &User{ID: 3, IsAdmin: true}
	review := &Review{ID: 10, UserID: owner.ID}

	assert.True(t, review.CanMutate(owner))
	assert.False(t, review.CanMutate(stranger))
	assert.True(t, review.CanMutate(admin))
	assert.False(t, review.CanMutate(AnonymousUser))
}

func TestCanMutateCatalog(t *testing.T) {
	assert.False(t, (&User{ID: 1}).CanMutateCatalog())
	assert.True(t, (&User{ID: 2, IsAdmin: true}).CanMutateCatalog())
	assert.False(t, AnonymousUser.CanMutateCatalog())
}

func TestCanMutateProfile(t *testing.T) {
	self := &User{ID: 1}
	other := &User{ID: 2}
	admin := &User{ID: 3, IsAdmin: true}

	assert.True(t, self.CanMutateProfile(self))
	assert.False(t, other.CanMutateProfile(self))
	assert.True(t, admin.CanMutateProfile(self))
}
