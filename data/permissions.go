package data

// Authorization policy. These are pure decision functions with no side
// effects; services must consult them before performing any write.

// CanMutate reports whether user may update or delete the review.
// A review may be mutated by its author or by any admin.
func (r *Review) CanMutate(user *User) bool {
	return user.IsAdmin || r.UserID == user.ID
}

// CanMutateCatalog reports whether user may create, update or delete books.
func (u *User) CanMutateCatalog() bool {
	return u.IsAdmin
}

// CanMutateProfile reports whether u may update the profile of target.
// Profiles may be mutated by their owner or by any admin.
func (u *User) CanMutateProfile(target *User) bool {
	return u.IsAdmin || u.ID == target.ID
}
