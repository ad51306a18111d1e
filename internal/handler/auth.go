package handler

import (
	"context"              // provides context with cancellation for store calls
	"errors"               // sentinel error matching
	"net/http"             // HTTP status codes and cookie primitives
	"time"                 // timeouts for store calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing
	"github.com/rs/zerolog"       // structured server-side logging

	"github.com/campuskit/identity/internal/config"     // app configuration
	"github.com/campuskit/identity/internal/middleware" // session extraction
	"github.com/campuskit/identity/internal/repository" // store sentinel errors
	"github.com/campuskit/identity/internal/service"    // auth orchestration
	"github.com/campuskit/identity/internal/session"    // session store and identity cache
	"github.com/campuskit/identity/internal/utils"      // session cookie tokens
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Svc      *service.AuthService
	Sessions session.Store
	Log      zerolog.Logger
}

func NewAuthHandler(cfg config.Config, svc *service.AuthService, sessions session.Store, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc, Sessions: sessions, Log: log}
}

// ----- DTOs -----

// The forms post urlencoded bodies; the struct tags also accept JSON so the
// endpoints can be driven programmatically.
type signupReq struct {
	Username        string `json:"username" form:"username"`
	Email           string `json:"email" form:"email"`
	Phone           string `json:"phone_no" form:"phone_no"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword"`
	Role            string `json:"role" form:"role"`
	Department      string `json:"department" form:"department"`
	DeptID          int64  `json:"dept_id" form:"dept_id"`
}

// loginReq's username field carries the email; the login form has always
// labeled it that way and the field name is preserved.
type loginReq struct {
	Username   string `json:"username" form:"username"`
	Password   string `json:"password" form:"password"`
	Role       string `json:"role" form:"role"`
	Department string `json:"department" form:"department"`
	DeptID     int64  `json:"dept_id" form:"dept_id"`
}

// Signup: create the account, then send the caller to the login page.
// Signup never establishes a session.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusBadRequest, "Invalid request body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	err := h.Svc.Signup(ctx, service.SignupRequest{
		Username:        req.Username,
		Email:           req.Email,
		Phone:           req.Phone,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Role:            req.Role,
		DeptID:          req.DeptID,
		Department:      req.Department,
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve):
			return c.String(http.StatusBadRequest, ve.Error())
		case errors.Is(err, service.ErrPasswordMismatch):
			return c.String(http.StatusBadRequest, "Passwords do not match")
		case errors.Is(err, repository.ErrEmailExists):
			return c.String(http.StatusBadRequest, "Email already registered")
		case errors.Is(err, service.ErrInvalidDepartment):
			return c.String(http.StatusBadRequest, "Invalid department")
		default:
			// Schema or store failure: full detail server-side, generic text out.
			h.Log.Error().Err(err).Msg("signup failed")
			return c.String(http.StatusInternalServerError, "Error during registration")
		}
	}

	return c.Redirect(http.StatusFound, "/login.html")
}

// Login: verify the (email, role, department) triple, establish the
// session and set the signed cookie.  Failure responses deliberately answer
// HTTP 200 with a plain-text body, matching the long-standing behavior the
// login page depends on.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.String(http.StatusOK, "Invalid email or password")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ident, err := h.Svc.Login(ctx, service.LoginRequest{
		Email:      req.Username,
		Password:   req.Password,
		Role:       req.Role,
		DeptID:     req.DeptID,
		Department: req.Department,
	})
	if err != nil {
		var ve *service.ValidationError
		switch {
		case errors.As(err, &ve),
			errors.Is(err, service.ErrInvalidCredentials),
			errors.Is(err, service.ErrInvalidDepartment):
			return c.String(http.StatusOK, "Invalid email or password")
		default:
			h.Log.Error().Err(err).Msg("login failed")
			return c.String(http.StatusOK, "Error during login")
		}
	}

	sess, err := h.Sessions.Create(ctx, ident.ID)
	if err != nil {
		h.Log.Error().Err(err).Msg("session create failed")
		return c.String(http.StatusOK, "Error during login")
	}
	// Populate the identity cache right away so /api/me answers without a
	// store round-trip.
	if err := h.Sessions.SaveIdentity(ctx, sess.SID, ident); err != nil {
		h.Log.Warn().Err(err).Msg("session identity save failed")
	}

	ttl := time.Duration(h.Cfg.SessionTTLMin) * time.Minute
	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, sess.SID, ttl)
	if err != nil {
		h.Log.Error().Err(err).Msg("session token sign failed")
		return c.String(http.StatusOK, "Error during login")
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    tok,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusFound, "/dashboard")
}

// Me: return the authenticated user's public profile.  The session's cached
// identity answers directly; a cold cache triggers the joined lookup and is
// hydrated for the next call.
func (h *AuthHandler) Me(c echo.Context) error {
	sess := middleware.SessionFrom(c)
	if sess == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Not authenticated"})
	}
	if sess.User != nil {
		return c.JSON(http.StatusOK, sess.User)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ident, err := h.Svc.Profile(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "User not found"})
		}
		h.Log.Error().Err(err).Int64("user_id", sess.UserID).Msg("profile fetch failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to fetch user profile"})
	}
	if err := h.Sessions.SaveIdentity(ctx, sess.SID, ident); err != nil {
		h.Log.Warn().Err(err).Msg("session identity save failed")
	}
	return c.JSON(http.StatusOK, ident)
}

// Logout: destroy the session and its cached identity unconditionally.
// Idempotent; logging out twice is fine.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := h.Sessions.Destroy(ctx, sess.SID); err != nil {
			h.Log.Warn().Err(err).Msg("session destroy failed")
		}
	}
	// Expire the cookie regardless of whether a session existed.
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.Redirect(http.StatusFound, "/login.html")
}
