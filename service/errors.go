package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrFailedValidation     = errors.New("failed validation")
	ErrRecordNotFound       = errors.New("record not found")
	ErrEditConflict         = errors.New("edit conflict")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrContentTooLarge      = errors.New("content too large")
	ErrBadRequest           = errors.New("bad request")
	ErrDuplicateRecord      = errors.New("duplicate record")
	ErrNotPermitted         = errors.New("not permitted")
)

// failedValidation flattens a validation error map into a single error which
// wraps ErrFailedValidation, so callers can match it with errors.Is while
// the response still carries the per-field messages.
func failedValidation(errorMap map[string]string) error {
	messages := make([]string, 0, len(errorMap))
	for k, v := range errorMap {
		messages = append(messages, fmt.Sprintf("%q %s", k, v))
	}
	sort.Strings(messages)
	return fmt.Errorf("%w: %s", ErrFailedValidation, strings.Join(messages, "; "))
}
