package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the service layer wraps exactly one
// of these, and the HTTP layer maps them to status codes.
var (
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)

var (
	ErrUserNotFound    = fmt.Errorf("%w: user not found", ErrNotFound)
	ErrPostNotFound    = fmt.Errorf("%w: post not found", ErrNotFound)
	ErrCommentNotFound = fmt.Errorf("%w: comment not found", ErrNotFound)
	ErrParentNotFound  = fmt.Errorf("%w: parent comment not found", ErrNotFound)
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrNotOwner           = fmt.Errorf("%w: not the owner of this resource", ErrForbidden)
	ErrEmptyBody          = fmt.Errorf("%w: content is required", ErrValidation)
	ErrEmptyTitle         = fmt.Errorf("%w: title is required", ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
)

// Kind returns the taxonomy error err belongs to, or nil for errors that
// should be treated as internal failures.
func Kind(err error) error {
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
