package middleware

// session.go loads the caller's session from the signed session cookie and
// stashes it in the Echo context.  It never rejects a request: a missing,
// forged or expired cookie simply leaves the request unauthenticated, and
// handlers decide between a redirect (pages) and a 401 (API).

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuskit/identity/internal/session"
	"github.com/campuskit/identity/internal/utils"
)

// contextKey under which the loaded *session.Session is stored.
const sessionKey = "session"

// LoadSession returns an Echo middleware that verifies the session cookie's
// signature, fetches the referenced session from the store and injects it
// into the request context.  Lookup runs under a short timeout so a slow
// session store cannot stall every request.
func LoadSession(store session.Store, secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(session.CookieName)
			if err != nil || cookie.Value == "" {
				return next(c)
			}
			sid, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				// Forged or expired cookie: treat as guest.
				return next(c)
			}
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			sess, err := store.Get(ctx, sid)
			cancel()
			if err == nil {
				c.Set(sessionKey, sess)
			}
			return next(c)
		}
	}
}

// SessionFrom extracts the session loaded by LoadSession, or nil when the
// request is unauthenticated.
func SessionFrom(c echo.Context) *session.Session {
	if v, ok := c.Get(sessionKey).(*session.Session); ok {
		return v
	}
	return nil
}
