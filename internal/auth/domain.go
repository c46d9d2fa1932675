package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
)

// User represents a stored user account.
type User struct {
	ID           int64
	PublicID     uuid.UUID
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	Roles        rbac.RoleMask
	Permissions  rbac.PermissionMask
	CreatedAt    *time.Time
	UpdatedAt    *time.Time
}

// DirectPermissions implements rbac.Grantee.
func (u User) DirectPermissions() rbac.PermissionMask { return u.Permissions }

// AssignedRoles implements rbac.Grantee.
func (u User) AssignedRoles() rbac.RoleMask { return u.Roles }

// NewUser is the insert shape of a registration. Email must already be
// normalized and the password hashed.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
}

// Registration is the raw registration input.
type Registration struct {
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string
}
