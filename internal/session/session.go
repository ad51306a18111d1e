// Package session holds the server-side session state and the Identity
// Cache: each authenticated user's public profile, memoized per session so
// that /api/me answers without a repeat join after the first fetch.
package session

import (
	"context"
	"errors"
)

// CookieName is the name of the HTTP cookie carrying the signed session id.
const CookieName = "campus_session"

// ErrNotFound is returned by Get when no session exists for the id, either
// because it never did or because it expired or was destroyed.
var ErrNotFound = errors.New("session not found")

// Identity is the authenticated user's public projection, cached on the
// session after login or first profile fetch.  The json tags match the
// /api/me payload.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone_no"`
	Role     string `json:"role"`
	DeptID   int64  `json:"dept_id"`
	DeptName string `json:"department"`
}

// Session is one authenticated browser session.  UserID is always set;
// User is the cached identity and may be nil until the first profile fetch
// hydrates it.
type Session struct {
	SID    string    `json:"sid"`
	UserID int64     `json:"user_id"`
	User   *Identity `json:"user,omitempty"`
}

// Store persists sessions.  Each session is owned exclusively by its
// browser session; there is no cross-session sharing.  Destroy is
// idempotent: destroying an unknown id is not an error.
type Store interface {
	Create(ctx context.Context, userID int64) (*Session, error)
	Get(ctx context.Context, sid string) (*Session, error)
	SaveIdentity(ctx context.Context, sid string, id Identity) error
	Destroy(ctx context.Context, sid string) error
}
