package service

import (
	"errors"
	"strings"

	"github.com/expensio/expensio/internal/transport"
)

var (
	ErrValidation          = errors.New("validation")
	ErrConflict            = errors.New("already exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrNotFound            = errors.New("not found")
)

// ValidationError rejects malformed input before any data access, one entry
// per invalid field.
type ValidationError struct {
	Fields []transport.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func newValidationError(fields []transport.FieldError) error {
	return &ValidationError{Fields: fields}
}
