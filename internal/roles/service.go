package roles

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
)

// Catalog reads roles and permissions.
type Catalog interface {
	ListRoles(ctx context.Context) ([]rbac.Role, error)
	ListPermissions(ctx context.Context) ([]rbac.Permission, error)
}

// Service exposes role listings.
type Service struct {
	catalog Catalog
}

// NewService builds Service instance.
func NewService(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// ListViews returns every role with its name and description.
func (s *Service) ListViews(ctx context.Context) ([]View, error) {
	roles, err := s.catalog.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(roles))
	for _, role := range roles {
		views = append(views, View{Name: role.Name, Description: role.Description})
	}
	return views, nil
}

// ListTable returns every role with its granted permissions resolved.
func (s *Service) ListTable(ctx context.Context) ([]TableView, error) {
	var (
		roles []rbac.Role
		perms []rbac.Permission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = s.catalog.ListRoles(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		perms, err = s.catalog.ListPermissions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	views := make([]TableView, 0, len(roles))
	for _, role := range roles {
		views = append(views, TableView{
			Name:        role.Name,
			Description: role.Description,
			Permission:  rbac.PermissionViews(role.Permissions, perms),
		})
	}
	return views, nil
}
