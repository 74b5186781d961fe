package data

import (
	"time"

	"github.com/emzola/bookworm/internal/validator"
)

// Token scopes.
const (
	ScopeAuthentication = "authentication"
	ScopePasswordReset  = "password-reset"
)

// Token defines a stateful bearer token. Only the SHA-256 hash of the
// plaintext is persisted.
type Token struct {
	Plaintext string    `json:"token"`
	Hash      []byte    `json:"-"`
	UserID    int64     `json:"-"`
	Expiry    time.Time `json:"expiry"`
	Scope     string    `json:"-"`
}

func ValidateTokenPlaintext(v *validator.Validator, tokenPlaintext string) {
	v.Check(tokenPlaintext != "", "token", "must be provided")
	v.Check(len(tokenPlaintext) == 26, "token", "must be 26 bytes long")
}
