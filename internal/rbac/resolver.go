package rbac

// Grantee is anything holding direct permissions and role assignments.
type Grantee interface {
	DirectPermissions() PermissionMask
	AssignedRoles() RoleMask
}

// Resolve returns the effective permission set: the direct mask OR the masks
// of every catalog role whose id is set in the grantee's role mask. Roles
// with ids the role mask cannot hold never match.
func Resolve(g Grantee, roles []Role) PermissionMask {
	effective := g.DirectPermissions()
	assigned := g.AssignedRoles()
	for _, role := range roles {
		if assigned.Has(role.ID) {
			effective |= role.Permissions
		}
	}
	return effective
}

// HasPermission reports whether the grantee effectively holds perm. A nil
// perm means the name is not in the catalog and the check fails closed.
func HasPermission(g Grantee, roles []Role, perm *Permission) bool {
	if perm == nil {
		return false
	}
	return Resolve(g, roles).Has(perm.ID)
}

// HasPermissionNamed looks the name up in the permission catalog before
// checking it. Unknown names are never granted.
func HasPermissionNamed(g Grantee, roles []Role, catalog []Permission, name string) bool {
	for i := range catalog {
		if catalog[i].Name == name {
			return HasPermission(g, roles, &catalog[i])
		}
	}
	return false
}

// PermissionViews maps every set bit to its catalog entry. Bits without a
// catalog row are dropped.
func PermissionViews(mask PermissionMask, catalog []Permission) []PermissionView {
	byID := make(map[int64]Permission, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}
	views := make([]PermissionView, 0)
	for _, id := range mask.IDs() {
		if p, ok := byID[id]; ok {
			views = append(views, PermissionView{Name: p.Name, Description: p.Description})
		}
	}
	return views
}

// RoleNames maps every set role bit to the role's name, dropping bits with
// no catalog row.
func RoleNames(mask RoleMask, catalog []Role) []string {
	byID := make(map[int64]string, len(catalog))
	for _, r := range catalog {
		byID[r.ID] = r.Name
	}
	names := make([]string, 0)
	for _, id := range mask.IDs() {
		if name, ok := byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}
