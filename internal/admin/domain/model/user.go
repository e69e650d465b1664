package model

import (
	"strings"

	"github.com/lhpaul/finadmin/internal/shared/errors"
)

// UserRole scopes what an authenticated user may do.
type UserRole string

const (
	UserRoleAdmin  UserRole = "admin"
	UserRoleViewer UserRole = "viewer"
)

// User is an operator of the admin backend. PasswordHash is a bcrypt hash
// and never serializes into API responses.
type User struct {
	Email        string   `json:"email"`
	PasswordHash string   `json:"passwordHash"`
	Role         UserRole `json:"role"`
	CompanyID    string   `json:"companyId,omitempty"`
}

// Validate checks the entity's own invariants.
func (u User) Validate() error {
	if !strings.Contains(u.Email, "@") {
		return errors.NewValidationError("user email is invalid")
	}
	if u.PasswordHash == "" {
		return errors.NewValidationError("user password hash is required")
	}
	if u.Role != UserRoleAdmin && u.Role != UserRoleViewer {
		return errors.NewValidationError("user role is invalid")
	}
	return nil
}
