package shared

// Core permissions checked by the HTTP surface.
const (
	PermViewUserTable       = "can_view_user_table"
	PermViewRoleTable       = "can_view_role_table"
	PermViewPermissionTable = "can_view_permission_table"
)

// CoreScopes lists the permissions the service itself checks.
func CoreScopes() []string {
	return []string{
		PermViewUserTable,
		PermViewRoleTable,
		PermViewPermissionTable,
	}
}
