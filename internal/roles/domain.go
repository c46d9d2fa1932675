package roles

import "github.com/odyssey-erp/odyssey-auth/internal/rbac"

// View is the public shape of a role.
type View struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// TableView is the administrative shape of a role with its permission mask
// expanded to catalog entries.
type TableView struct {
	Name        string                `json:"name"`
	Description *string               `json:"description"`
	Permission  []rbac.PermissionView `json:"permission"`
}
