// Package queue defines message payloads exchanged over the message broker
// and the background consumer for the registration log.
package queue

// UserRegisteredEvent is published when a signup completes.  It carries
// enough for downstream consumers to log, notify, or feed analytics without
// querying the primary database.  The password hash is deliberately absent.
type UserRegisteredEvent struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	DeptID       int64  `json:"dept_id"`
	DeptName     string `json:"department"`
	RegisteredAt string `json:"registered_at"`
}
