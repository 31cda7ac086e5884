package domain

import (
	"errors"
	"time"
)

// Role is the authorization role bound to a user identity.
type Role string

const (
	// RoleSurgeon operates the simulator and owns the sessions it records.
	RoleSurgeon Role = "SURGEON"
	// RoleAI is the analyzing party; it may attach analysis to any session.
	RoleAI Role = "AI"
)

// User is the authenticated principal. Immutable once registered; looked up
// by username for authentication.
type User struct {
	ID           string
	Username     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
}

// Validate checks structural invariants before persistence.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("user: id is required")
	}
	if u.Username == "" {
		return errors.New("user: username is required")
	}
	if u.Role != RoleSurgeon && u.Role != RoleAI {
		return errors.New("user: unknown role")
	}
	if u.PasswordHash == "" {
		return errors.New("user: password hash is required")
	}
	return nil
}
