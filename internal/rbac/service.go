package rbac

import (
	"context"
)

// RepositoryPort defines catalog storage used by Service.
type RepositoryPort interface {
	ListRoles(ctx context.Context) ([]Role, error)
	ListPermissions(ctx context.Context) ([]Permission, error)
	FindPermissionByName(ctx context.Context, name string) (*Permission, error)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// Service orchestrates catalog reads and the seed-time catalog writes.
// Nothing is cached: every call reads storage so grant changes apply to the
// next request.
type Service struct {
	repo RepositoryPort
}

// NewService constructs a Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListRoles returns the role catalog.
func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	return s.repo.ListRoles(ctx)
}

// ListPermissions returns the permission catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// FindPermissionByName returns shared.ErrNotFound for unknown names.
func (s *Service) FindPermissionByName(ctx context.Context, name string) (*Permission, error) {
	return s.repo.FindPermissionByName(ctx, name)
}

// CreatePermission inserts a catalog entry. Ids the permission mask cannot
// hold are rejected, including ids picked by storage, in which case the
// insert is rolled back.
func (s *Service) CreatePermission(ctx context.Context, in NewPermission) (Permission, error) {
	in, err := in.validate()
	if err != nil {
		return Permission{}, err
	}
	var created Permission
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		perm, err := tx.InsertPermission(ctx, in)
		if err != nil {
			return err
		}
		if err := ValidatePermissionID(perm.ID); err != nil {
			return err
		}
		created = perm
		return nil
	})
	if err != nil {
		return Permission{}, err
	}
	return created, nil
}

// CreateRole inserts a catalog entry with the same id rules as
// CreatePermission, bounded by the role mask width.
func (s *Service) CreateRole(ctx context.Context, in NewRole) (Role, error) {
	in, err := in.validate()
	if err != nil {
		return Role{}, err
	}
	var created Role
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		role, err := tx.InsertRole(ctx, in)
		if err != nil {
			return err
		}
		if err := ValidateRoleID(role.ID); err != nil {
			return err
		}
		created = role
		return nil
	})
	if err != nil {
		return Role{}, err
	}
	return created, nil
}
