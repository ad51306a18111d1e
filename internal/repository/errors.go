// Package repository defines error helpers shared across repositories.
// These sentinel values let higher layers such as the auth service
// distinguish failure scenarios without parsing driver messages, e.g.
// ErrEmailExists maps a MySQL duplicate-entry violation on the unique email
// column to the user-facing "already registered" outcome.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when an insert violates the unique constraint
// on auth_users.email.  Email uniqueness is global: it does not matter that
// the second registration carries a different role or department.
var ErrEmailExists = errors.New("email already exists")

// IsDuplicate reports whether err is a MySQL duplicate-entry error (1062).
// The department resolver uses this to detect that a concurrent signup won
// the race for a new department name or manual id and re-resolves instead
// of failing.
func IsDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
