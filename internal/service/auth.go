package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/identity/internal/model"
	"github.com/campuskit/identity/internal/queue"
	"github.com/campuskit/identity/internal/schema"
	"github.com/campuskit/identity/internal/session"
	"github.com/campuskit/identity/internal/utils"
)

// UserStore is the slice of the user repository the auth service needs.
// Implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, u model.NewUser) (int64, error)
	FindByEmailRoleDept(ctx context.Context, email, role string, deptID int64) (model.User, error)
	FindByIDWithDeptName(ctx context.Context, id int64, d schema.Descriptor) (model.User, string, error)
}

// DeptResolver resolves a caller-supplied department reference to its
// canonical row.  Implemented by Resolver.
type DeptResolver interface {
	Resolve(ctx context.Context, ref DeptRef) (model.Department, error)
}

// EventPublisher publishes registration events.  Implemented by
// queue.Publisher; may be nil to disable publishing.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// AuthService orchestrates signup, login and profile fetch.  It owns no
// HTTP concerns: handlers translate its error taxonomy into statuses and
// bodies.
type AuthService struct {
	users  UserStore
	depts  DeptResolver
	schema SchemaSource
	cost   int
	events EventPublisher
	log    zerolog.Logger
}

func NewAuthService(users UserStore, depts DeptResolver, sch SchemaSource, cost int, events EventPublisher, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, depts: depts, schema: sch, cost: cost, events: events, log: log}
}

// SignupRequest carries the raw signup form fields.  Department may be
// referenced by id or by free-text name.
type SignupRequest struct {
	Username        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            string
	DeptID          int64
	Department      string
}

// LoginRequest carries the raw login form fields.  The original form posts
// the email under the "username" field; the handler maps it before calling.
type LoginRequest struct {
	Email      string
	Password   string
	Role       string
	DeptID     int64
	Department string
}

// Signup validates the payload, hashes the password, resolves the
// department (creating it when absent) and inserts the user row.  Signup
// never establishes a session; the handler redirects the caller to log in.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	switch {
	case req.Username == "":
		return required("username")
	case req.Email == "":
		return required("email")
	case req.Phone == "":
		return required("phone_no")
	case !validPhone(req.Phone):
		return &ValidationError{Field: "phone_no", Reason: "must be exactly 10 digits"}
	case req.Password == "":
		return required("password")
	case req.ConfirmPassword == "":
		return required("confirmPassword")
	case !model.ValidRole(req.Role):
		return &ValidationError{Field: "role", Reason: "must be student or teacher"}
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := utils.HashPassword(req.Password, s.cost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	dept, err := s.depts.Resolve(ctx, DeptRef{
		ID:              req.DeptID,
		Name:            req.Department,
		CreateIfMissing: true,
	})
	if err != nil {
		return err
	}

	uid, err := s.users.Create(ctx, model.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		DeptID:       dept.ID,
		PasswordHash: hash,
	})
	if err != nil {
		return err
	}

	s.publishRegistered(ctx, uid, req, dept)
	return nil
}

// publishRegistered emits the user.registered event.  Best effort: a broker
// outage is logged and swallowed, never surfaced to the registering user.
func (s *AuthService) publishRegistered(ctx context.Context, uid int64, req SignupRequest, dept model.Department) {
	if s.events == nil {
		return
	}
	ev := queue.UserRegisteredEvent{
		UserID:       uid,
		Username:     req.Username,
		Email:        req.Email,
		Role:         req.Role,
		DeptID:       dept.ID,
		DeptName:     dept.Name,
		RegisteredAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishUserRegistered(ctx, ev); err != nil {
		s.log.Warn().Err(err).Int64("user_id", uid).Msg("publish user.registered failed")
	}
}

// Login validates the payload, resolves the department (never creating
// one), looks up the (email, role, department) triple and verifies the
// password.  A missing row and a wrong password both come back as
// ErrInvalidCredentials so the response does not leak which was wrong.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (session.Identity, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))

	switch {
	case req.Email == "":
		return session.Identity{}, required("email")
	case req.Password == "":
		return session.Identity{}, required("password")
	case !model.ValidRole(req.Role):
		return session.Identity{}, &ValidationError{Field: "role", Reason: "must be student or teacher"}
	}

	dept, err := s.depts.Resolve(ctx, DeptRef{
		ID:              req.DeptID,
		Name:            req.Department,
		CreateIfMissing: false,
	})
	if err != nil {
		return session.Identity{}, err
	}

	u, err := s.users.FindByEmailRoleDept(ctx, req.Email, req.Role, dept.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Identity{}, ErrInvalidCredentials
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("credential lookup: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return session.Identity{}, ErrInvalidCredentials
	}

	return session.Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		DeptID:   u.DeptID,
		DeptName: dept.Name,
	}, nil
}

// Profile performs the joined lookup used when the session's identity cache
// is cold.  ErrUserNotFound means the id no longer resolves, e.g. the row
// was deleted between login and fetch.
func (s *AuthService) Profile(ctx context.Context, userID int64) (session.Identity, error) {
	desc, err := s.schema.Describe(ctx)
	if err != nil {
		return session.Identity{}, err
	}
	u, deptName, err := s.users.FindByIDWithDeptName(ctx, userID, desc)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Identity{}, ErrUserNotFound
	}
	if err != nil {
		return session.Identity{}, fmt.Errorf("profile lookup: %w", err)
	}
	return session.Identity{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
		Role:     u.Role,
		DeptID:   u.DeptID,
		DeptName: deptName,
	}, nil
}

// validPhone reports whether s is exactly ten ASCII digits.
func validPhone(s string) bool {
	if len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
