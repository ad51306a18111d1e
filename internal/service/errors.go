// Package service orchestrates signup, login and profile fetch on top of
// the repositories, the schema inspector and the department resolver.
package service

import "errors"

// Domain errors surfaced to the handler boundary.  Validation and domain
// errors render as direct user-facing text; anything else is logged with
// full detail and rendered as a generic failure.
var (
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidDepartment covers an unknown department id, an unknown name
	// when creation is not permitted, and an unusable department reference.
	ErrInvalidDepartment = errors.New("invalid department")

	// ErrInvalidCredentials merges the no-such-account and wrong-password
	// cases.  The two are intentionally indistinguishable to the caller so a
	// login response never reveals which part of the credential was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserNotFound is returned by profile fetch when the session's user
	// id no longer resolves, e.g. the row was deleted after login.
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError names the first missing or malformed input field.  Its
// message is user-correctable and surfaced verbatim.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func required(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is required"}
}
