package service

import (
	"errors"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/repository"
)

type users interface {
	RegisterUser(name, email, password string) (*data.User, error)
	GetUser(userID int64) (*data.User, error)
	UpdateUser(caller *data.User, userID int64, name *string, bio *string) (*data.User, error)
	ResetUserPassword(password, tokenPlaintext string) error
	GetUserForToken(tokenScope, tokenPlaintext string) (*data.User, error)
}

// RegisterUser service adds a new user record and sends a welcome email in a
// background goroutine.
func (s *service) RegisterUser(name, email, password string) (*data.User, error) {
	user := &data.User{
		Name:  name,
		Email: email,
	}
	err := user.Password.Set(password)
	if err != nil {
		return nil, err
	}
	v := validator.New()
	if data.ValidateUser(v, user); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.RegisterUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		default:
			return nil, err
		}
	}
	s.background(func() {
		mailData := map[string]string{
			"userName": user.Name,
		}
		err := s.mailer.Send(user.Email, "user_welcome.tmpl", mailData)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return user, nil
}

// GetUser service retrieves the details of a user.
func (s *service) GetUser(userID int64) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}

// UpdateUser service updates a user's profile. A user may only update their
// own profile unless they are an admin. Omitted fields are left unchanged.
func (s *service) UpdateUser(caller *data.User, userID int64, name *string, bio *string) (*data.User, error) {
	user, err := s.repo.GetUserByID(userID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if !caller.CanMutateProfile(user) {
		return nil, ErrNotPermitted
	}
	if name != nil {
		user.Name = *name
	}
	if bio != nil {
		user.Bio = *bio
	}
	v := validator.New()
	if data.ValidateName(v, user.Name); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return nil, ErrDuplicateRecord
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return user, nil
}

// ResetUserPassword service sets a new password for the user associated with
// a valid password reset token, then deletes all of the user's reset tokens.
func (s *service) ResetUserPassword(password, tokenPlaintext string) error {
	v := validator.New()
	data.ValidatePasswordPlaintext(v, password)
	data.ValidateTokenPlaintext(v, tokenPlaintext)
	if !v.Valid() {
		return failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserForToken(data.ScopePasswordReset, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("token", "invalid or expired password reset token")
			return failedValidation(v.Errors)
		default:
			return err
		}
	}
	err = user.Password.Set(password)
	if err != nil {
		return err
	}
	err = s.repo.UpdateUser(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return ErrEditConflict
		default:
			return err
		}
	}
	return s.repo.DeleteAllTokensForUser(data.ScopePasswordReset, user.ID)
}

// GetUserForToken service retrieves the user associated with an unexpired
// token of the given scope.
func (s *service) GetUserForToken(tokenScope, tokenPlaintext string) (*data.User, error) {
	v := validator.New()
	if data.ValidateTokenPlaintext(v, tokenPlaintext); !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserForToken(tokenScope, tokenPlaintext)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return user, nil
}
