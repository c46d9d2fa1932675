package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
	"github.com/odyssey-erp/odyssey-auth/internal/users"
)

type stubUsers struct {
	users []auth.User
	err   error
}

func (s *stubUsers) ListUsers(context.Context) ([]auth.User, error) { return s.users, s.err }

type stubRoles struct {
	roles []rbac.Role
	err   error
}

func (s *stubRoles) ListRoles(context.Context) ([]rbac.Role, error) { return s.roles, s.err }

type stubRegistrar struct {
	got auth.Registration
	err error
}

func (s *stubRegistrar) Register(_ context.Context, in auth.Registration) (*auth.User, error) {
	s.got = in
	if s.err != nil {
		return nil, s.err
	}
	return &auth.User{Email: auth.NormalizeEmail(in.Email)}, nil
}

func catalogRoles() []rbac.Role {
	return []rbac.Role{{ID: 1, Name: "admin"}, {ID: 2, Name: "editor"}}
}

func sampleUsers() []auth.User {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return []auth.User{
		{ID: 1, PublicID: uuid.New(), Email: "a@example.com", Username: "a", Roles: rbac.RoleBit(1), Permissions: rbac.PermissionBit(2), IsActive: true, CreatedAt: &created},
		{ID: 2, PublicID: uuid.New(), Email: "b@example.com", Username: "b", Roles: rbac.RoleBit(2).With(5)},
	}
}

func TestListPublicResolvesRoleNames(t *testing.T) {
	svc := users.NewService(&stubUsers{users: sampleUsers()}, &stubRoles{roles: catalogRoles()}, &stubRegistrar{}, time.UTC)

	views, err := svc.ListPublic(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, []string{"admin"}, views[0].Roles)
	assert.Equal(t, "2026-01-02 03:04:05", views[0].CreatedAt)
	assert.Equal(t, []string{"editor"}, views[1].Roles)
	assert.Equal(t, "Unknown", views[1].CreatedAt)
}

func TestListPublicPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	svc := users.NewService(&stubUsers{users: sampleUsers()}, &stubRoles{err: boom}, &stubRegistrar{}, time.UTC)
	_, err := svc.ListPublic(context.Background())
	require.ErrorIs(t, err, boom)

	svc = users.NewService(&stubUsers{err: boom}, &stubRoles{roles: catalogRoles()}, &stubRegistrar{}, time.UTC)
	_, err = svc.ListPublic(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestListTableKeepsMasks(t *testing.T) {
	svc := users.NewService(&stubUsers{users: sampleUsers()}, &stubRoles{}, &stubRegistrar{}, nil)

	rows, err := svc.ListTable(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, uint16(1), rows[0].Roles)
	assert.Equal(t, uint64(2), rows[0].Permissions)
	assert.Equal(t, uint16(0b10010), rows[1].Roles)
}

func TestRegisterReturnsStoredEmail(t *testing.T) {
	reg := &stubRegistrar{}
	svc := users.NewService(&stubUsers{}, &stubRoles{}, reg, nil)

	email, err := svc.Register(context.Background(), auth.Registration{Email: "Bob@Example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", email)
	assert.Equal(t, "pw", reg.got.Password)

	reg.err = shared.ErrDuplicate
	_, err = svc.Register(context.Background(), auth.Registration{Email: "bob@example.com"})
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestNewPublicViewDefaults(t *testing.T) {
	view := users.NewPublicView(&auth.User{Email: "x@example.com"}, nil, nil)
	assert.Equal(t, []string{}, view.Roles)
	assert.Equal(t, "Unknown", view.CreatedAt)
}
