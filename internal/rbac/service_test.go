package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

type fakeCatalog struct {
	roles       []rbac.Role
	perms       []rbac.Permission
	nextID      int64
	committed   int
	rolledBack  int
	pendingPerm []rbac.Permission
	pendingRole []rbac.Role
}

func (f *fakeCatalog) ListRoles(context.Context) ([]rbac.Role, error) { return f.roles, nil }

func (f *fakeCatalog) ListPermissions(context.Context) ([]rbac.Permission, error) {
	return f.perms, nil
}

func (f *fakeCatalog) FindPermissionByName(_ context.Context, name string) (*rbac.Permission, error) {
	for i := range f.perms {
		if f.perms[i].Name == name {
			return &f.perms[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeCatalog) WithTx(ctx context.Context, fn func(context.Context, rbac.TxRepository) error) error {
	f.pendingPerm, f.pendingRole = nil, nil
	if err := fn(ctx, f); err != nil {
		f.rolledBack++
		return err
	}
	f.perms = append(f.perms, f.pendingPerm...)
	f.roles = append(f.roles, f.pendingRole...)
	f.committed++
	return nil
}

func (f *fakeCatalog) InsertPermission(_ context.Context, in rbac.NewPermission) (rbac.Permission, error) {
	id := in.ID
	if id == 0 {
		id = f.nextID
	}
	p := rbac.Permission{ID: id, Name: in.Name, Description: in.Description}
	f.pendingPerm = append(f.pendingPerm, p)
	return p, nil
}

func (f *fakeCatalog) InsertRole(_ context.Context, in rbac.NewRole) (rbac.Role, error) {
	id := in.ID
	if id == 0 {
		id = f.nextID
	}
	r := rbac.Role{ID: id, Name: in.Name, Description: in.Description, Permissions: in.Permissions}
	f.pendingRole = append(f.pendingRole, r)
	return r, nil
}

func TestCreatePermissionTrimsAndCommits(t *testing.T) {
	repo := &fakeCatalog{}
	svc := rbac.NewService(repo)

	perm, err := svc.CreatePermission(context.Background(), rbac.NewPermission{
		ID:          3,
		Name:        "  can_view_permission_table ",
		Description: strPtr("   "),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), perm.ID)
	assert.Equal(t, "can_view_permission_table", perm.Name)
	assert.Nil(t, perm.Description)
	assert.Equal(t, 1, repo.committed)

	found, err := svc.FindPermissionByName(context.Background(), "can_view_permission_table")
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.ID)
}

func TestCreatePermissionRejectsOutOfRangeID(t *testing.T) {
	repo := &fakeCatalog{}
	svc := rbac.NewService(repo)

	_, err := svc.CreatePermission(context.Background(), rbac.NewPermission{ID: 65, Name: "too_far"})
	require.ErrorIs(t, err, shared.ErrCatalogRange)
	assert.Zero(t, repo.committed)
	assert.Zero(t, repo.rolledBack)
}

func TestCreatePermissionRollsBackStorageAssignedOverflow(t *testing.T) {
	repo := &fakeCatalog{nextID: 65}
	svc := rbac.NewService(repo)

	_, err := svc.CreatePermission(context.Background(), rbac.NewPermission{Name: "sixty_fifth"})
	require.ErrorIs(t, err, shared.ErrCatalogRange)
	assert.Equal(t, 1, repo.rolledBack)
	assert.Empty(t, repo.perms)
}

func TestCreateRoleRespectsRoleWidth(t *testing.T) {
	repo := &fakeCatalog{nextID: 17}
	svc := rbac.NewService(repo)

	_, err := svc.CreateRole(context.Background(), rbac.NewRole{ID: 17, Name: "x"})
	require.ErrorIs(t, err, shared.ErrCatalogRange)

	_, err = svc.CreateRole(context.Background(), rbac.NewRole{Name: "auto"})
	require.ErrorIs(t, err, shared.ErrCatalogRange)
	assert.Equal(t, 1, repo.rolledBack)

	role, err := svc.CreateRole(context.Background(), rbac.NewRole{ID: 16, Name: "last", Permissions: rbac.PermissionBit(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(16), role.ID)
	roles, err := svc.ListRoles(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 1)
}

func TestCreateRequiresName(t *testing.T) {
	svc := rbac.NewService(&fakeCatalog{})

	_, err := svc.CreatePermission(context.Background(), rbac.NewPermission{ID: 1, Name: " "})
	require.ErrorIs(t, err, shared.ErrValidation)
	_, err = svc.CreateRole(context.Background(), rbac.NewRole{ID: 1})
	require.ErrorIs(t, err, shared.ErrValidation)
	require.False(t, errors.Is(err, shared.ErrCatalogRange))
}
