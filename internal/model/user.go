package model

import "time"

// Role values accepted by signup and login.  A credential is only valid for
// the exact (email, role, department) triple it was registered with, so the
// role is part of the lookup key rather than a post-login permission flag.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// ValidRole reports whether s is one of the two accepted account roles.
func ValidRole(s string) bool {
	return s == RoleStudent || s == RoleTeacher
}

// User represents an account record as stored in the `auth_users` table.
// Each field corresponds to a column.  The json tags are omitted here
// because these structs are used by the repository layer; handlers and the
// session package define separate projections with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user (store-assigned).
//  Username     – display name, not unique.
//  Email        – unique email address, stored case-sensitively.
//  Phone        – exactly ten digits.
//  Role         – "student" or "teacher".
//  DeptID       – canonical department id; zero only while a row is being
//                 resolved, never for a persisted account.
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation (store-assigned).
type User struct {
	ID           int64     // auth_users.id
	Username     string    // auth_users.username
	Email        string    // auth_users.email
	Phone        string    // auth_users.phone_no
	Role         string    // auth_users.role
	DeptID       int64     // auth_users.dept_id
	PasswordHash string    // auth_users.password
	CreatedAt    time.Time // auth_users.created_at
}

// NewUser carries the fields of a user row about to be inserted.  The
// department id is the canonical id returned by the resolver and the
// password is already hashed by the time this struct exists.
type NewUser struct {
	Username     string
	Email        string
	Phone        string
	Role         string
	DeptID       int64
	PasswordHash string
}

// Department is a row of the department lookup table after resolution.  The
// physical column names behind ID and Name vary between deployments and are
// discovered at runtime; see the schema package.
type Department struct {
	ID   int64
	Name string
}
