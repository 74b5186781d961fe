package service

import (
	"errors"
	"time"

	"github.com/emzola/bookworm/data"
	"github.com/emzola/bookworm/internal/validator"
	"github.com/emzola/bookworm/repository"
)

type tokens interface {
	CreateAuthenticationToken(email, password string) (*data.Token, error)
	DeleteAuthenticationToken(userID int64) error
	CreatePasswordResetToken(email string) error
}

// CreateAuthenticationToken service verifies a user's credentials and issues
// a new authentication token with a 24 hour expiry.
func (s *service) CreateAuthenticationToken(email, password string) (*data.Token, error) {
	v := validator.New()
	data.ValidateEmail(v, email)
	data.ValidatePasswordPlaintext(v, password)
	if !v.Valid() {
		return nil, failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrInvalidCredentials
		default:
			return nil, err
		}
	}
	match, err := user.Password.Matches(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, ErrInvalidCredentials
	}
	token, err := s.repo.CreateNewToken(user.ID, 24*time.Hour, data.ScopeAuthentication)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// DeleteAuthenticationToken service deletes all authentication tokens for a
// user, logging them out everywhere.
func (s *service) DeleteAuthenticationToken(userID int64) error {
	return s.repo.DeleteAllTokensForUser(data.ScopeAuthentication, userID)
}

// CreatePasswordResetToken service issues a short-lived password reset token
// for the user with the given email and mails it to them in a background
// goroutine. The token expires after 45 minutes.
func (s *service) CreatePasswordResetToken(email string) error {
	v := validator.New()
	if data.ValidateEmail(v, email); !v.Valid() {
		return failedValidation(v.Errors)
	}
	user, err := s.repo.GetUserByEmail(email)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			v.AddError("email", "no matching email address found")
			return failedValidation(v.Errors)
		default:
			return err
		}
	}
	token, err := s.repo.CreateNewToken(user.ID, 45*time.Minute, data.ScopePasswordReset)
	if err != nil {
		return err
	}
	s.background(func() {
		mailData := map[string]string{
			"passwordResetToken": token.Plaintext,
		}
		err := s.mailer.Send(user.Email, "token_password_reset.tmpl", mailData)
		if err != nil {
			s.logger.PrintError(err, nil)
		}
	})
	return nil
}
