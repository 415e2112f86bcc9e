package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for handler status mapping
var (
	// ErrNotFound means a single-record lookup matched nothing
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller is not allowed to mutate the record
	ErrForbidden = errors.New("forbidden")
	// ErrEmailTaken means the registration email is already in use
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials means login failed; it does not say why
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrResetInvalid covers every reset-confirmation failure (unknown
	// account, wrong code, expired code) with a single outward signal
	ErrResetInvalid = errors.New("password reset failed")
)

// ValidationError carries field-level validation failures
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}
