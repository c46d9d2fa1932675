package rbac

import (
	"fmt"
	"strings"

	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Role is a catalog entry granting a set of permissions.
type Role struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Permissions PermissionMask `json:"permission"`
}

// Permission is a catalog entry for an atomic capability.
type Permission struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// NewPermission describes a permission to add to the catalog. A zero ID lets
// storage pick the next free id.
type NewPermission struct {
	ID          int64
	Name        string
	Description *string
}

// NewRole describes a role to add to the catalog. A zero ID lets storage pick
// the next free id.
type NewRole struct {
	ID          int64
	Name        string
	Description *string
	Permissions PermissionMask
}

// PermissionView is the display shape of a permission.
type PermissionView struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// ValidatePermissionID rejects ids the permission mask cannot represent.
func ValidatePermissionID(id int64) error {
	if id < 1 || id > MaxPermissionID {
		return fmt.Errorf("%w: permission id %d outside 1..%d", shared.ErrCatalogRange, id, MaxPermissionID)
	}
	return nil
}

// ValidateRoleID rejects ids the role mask cannot represent.
func ValidateRoleID(id int64) error {
	if id < 1 || id > MaxRoleID {
		return fmt.Errorf("%w: role id %d outside 1..%d", shared.ErrCatalogRange, id, MaxRoleID)
	}
	return nil
}

func (p NewPermission) validate() (NewPermission, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return p, fmt.Errorf("%w: permission name required", shared.ErrValidation)
	}
	if p.ID != 0 {
		if err := ValidatePermissionID(p.ID); err != nil {
			return p, err
		}
	}
	p.Description = trimOptional(p.Description)
	return p, nil
}

func (r NewRole) validate() (NewRole, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return r, fmt.Errorf("%w: role name required", shared.ErrValidation)
	}
	if r.ID != 0 {
		if err := ValidateRoleID(r.ID); err != nil {
			return r, err
		}
	}
	r.Description = trimOptional(r.Description)
	return r, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
