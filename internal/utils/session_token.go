package utils // package utils provides helper functions for hashing and session cookie tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// The session cookie does not carry the session state itself, only the
// session id, signed so a client cannot forge or splice ids.  This mirrors
// how express-style session middleware signs its sid cookie; the state
// lives server-side in the session store.

// ErrBadSessionToken is returned when the cookie value fails signature or
// claim validation for any reason.  Callers treat the request as
// unauthenticated; the detail is never surfaced.
var ErrBadSessionToken = errors.New("invalid session token")

// NewSessionToken builds and signs an HS256 JWT wrapping the session id.
// The ttl bounds the cookie's useful life; the server-side session has its
// own TTL and whichever expires first ends the session.
func NewSessionToken(secret, sid string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": now.Add(ttl).Unix(),
		"iat": now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseSessionToken verifies a session cookie value and returns the session
// id it wraps.  Tokens signed with a different method or secret, expired
// tokens and tokens without a sid claim all yield ErrBadSessionToken.
func ParseSessionToken(secret, raw string) (string, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		// Type assert the signing method to HMAC; reject others.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadSessionToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", ErrBadSessionToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrBadSessionToken
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrBadSessionToken
	}
	return sid, nil
}
