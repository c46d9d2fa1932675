package rbac_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
)

type grantee struct {
	direct rbac.PermissionMask
	roles  rbac.RoleMask
}

func (g grantee) DirectPermissions() rbac.PermissionMask { return g.direct }
func (g grantee) AssignedRoles() rbac.RoleMask          { return g.roles }

func strPtr(s string) *string { return &s }

func TestResolveUnionsDirectAndRoleGrants(t *testing.T) {
	roles := []rbac.Role{
		{ID: 1, Name: "admin", Permissions: rbac.PermissionMask(0b0100)},
		{ID: 2, Name: "viewer", Permissions: rbac.PermissionMask(0b0010)},
	}
	g := grantee{direct: rbac.PermissionMask(0b0001), roles: rbac.RoleBit(1)}

	assert.Equal(t, rbac.PermissionMask(0b0101), rbac.Resolve(g, roles))
	assert.True(t, rbac.HasPermission(g, roles, &rbac.Permission{ID: 3, Name: "p3"}))
	assert.False(t, rbac.HasPermission(g, roles, &rbac.Permission{ID: 2, Name: "p2"}))
	assert.False(t, rbac.HasPermission(g, roles, &rbac.Permission{ID: 4, Name: "p4"}))
}

func TestResolveIgnoresRolesOutsideMask(t *testing.T) {
	roles := []rbac.Role{
		{ID: 17, Name: "overflow", Permissions: ^rbac.PermissionMask(0)},
		{ID: 0, Name: "zero", Permissions: ^rbac.PermissionMask(0)},
	}
	g := grantee{roles: ^rbac.RoleMask(0)}
	assert.Zero(t, rbac.Resolve(g, roles))
}

func TestResolveUnionProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for i := 0; i < 500; i++ {
		roles := make([]rbac.Role, 0, rbac.MaxRoleID)
		for id := int64(1); id <= rbac.MaxRoleID; id++ {
			roles = append(roles, rbac.Role{ID: id, Permissions: rbac.PermissionMask(rng.Uint64())})
		}
		g := grantee{
			direct: rbac.PermissionMask(rng.Uint64()),
			roles:  rbac.RoleMask(rng.Uint32()),
		}

		want := g.direct
		for _, role := range roles {
			if uint16(g.roles)&(1<<uint(role.ID-1)) != 0 {
				want |= role.Permissions
			}
		}
		require.Equal(t, want, rbac.Resolve(g, roles))

		// Every permission held directly stays held whatever the roles say.
		for _, id := range g.direct.IDs() {
			require.True(t, rbac.HasPermission(g, roles, &rbac.Permission{ID: id}))
		}
	}
}

func TestHasPermissionFailsClosedOnUnknownName(t *testing.T) {
	g := grantee{direct: ^rbac.PermissionMask(0), roles: ^rbac.RoleMask(0)}
	catalog := []rbac.Permission{{ID: 1, Name: "can_view_user_table"}}

	assert.False(t, rbac.HasPermission(g, nil, nil))
	assert.False(t, rbac.HasPermissionNamed(g, nil, catalog, "can_launch_rockets"))
	assert.True(t, rbac.HasPermissionNamed(g, nil, catalog, "can_view_user_table"))
}

func TestPermissionViewsDropsUnknownBits(t *testing.T) {
	catalog := []rbac.Permission{
		{ID: 1, Name: "can_view_user_table", Description: strPtr("users")},
		{ID: 3, Name: "can_view_permission_table"},
	}
	mask := rbac.PermissionMask(0).With(1).With(2).With(3)

	views := rbac.PermissionViews(mask, catalog)
	require.Len(t, views, 2)
	assert.Equal(t, "can_view_user_table", views[0].Name)
	assert.Equal(t, "users", *views[0].Description)
	assert.Equal(t, "can_view_permission_table", views[1].Name)
	assert.Nil(t, views[1].Description)

	empty := rbac.PermissionViews(0, catalog)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestRoleNamesMapsIDToBit(t *testing.T) {
	catalog := []rbac.Role{{ID: 1, Name: "admin"}, {ID: 2, Name: "editor"}}

	assert.Equal(t, []string{"admin"}, rbac.RoleNames(rbac.RoleMask(0b01), catalog))
	assert.Equal(t, []string{"editor"}, rbac.RoleNames(rbac.RoleMask(0b10), catalog))
	assert.Equal(t, []string{"admin", "editor"}, rbac.RoleNames(rbac.RoleMask(0b1011), catalog))
	assert.Equal(t, []string{}, rbac.RoleNames(0, catalog))
}
