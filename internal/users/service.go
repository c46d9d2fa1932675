package users

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context) ([]auth.User, error)
}

// RoleCatalog reads the role catalog.
type RoleCatalog interface {
	ListRoles(ctx context.Context) ([]rbac.Role, error)
}

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, in auth.Registration) (*auth.User, error)
}

// Service handles user business logic.
type Service struct {
	repo     RepositoryPort
	roles    RoleCatalog
	accounts Registrar
	location *time.Location
}

// NewService builds Service instance. Public views render times in loc
// (time.Local when nil).
func NewService(repo RepositoryPort, roles RoleCatalog, accounts Registrar, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{repo: repo, roles: roles, accounts: accounts, location: loc}
}

// Register creates an account and returns its stored (lowercased) email.
func (s *Service) Register(ctx context.Context, in auth.Registration) (string, error) {
	user, err := s.accounts.Register(ctx, in)
	if err != nil {
		return "", err
	}
	return user.Email, nil
}

// ListTable returns administrative rows for every user.
func (s *Service) ListTable(ctx context.Context) ([]TableView, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]TableView, 0, len(users))
	for i := range users {
		views = append(views, NewTableView(&users[i]))
	}
	return views, nil
}

// ListPublic returns public views for every user with role names resolved
// against the current catalog.
func (s *Service) ListPublic(ctx context.Context) ([]PublicView, error) {
	var (
		users []auth.User
		roles []rbac.Role
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.repo.ListUsers(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		roles, err = s.roles.ListRoles(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	views := make([]PublicView, 0, len(users))
	for i := range users {
		views = append(views, NewPublicView(&users[i], rbac.RoleNames(users[i].Roles, roles), s.location))
	}
	return views, nil
}

// Profile returns the public view of an already loaded user.
func (s *Service) Profile(ctx context.Context, user *auth.User) (PublicView, error) {
	roles, err := s.roles.ListRoles(ctx)
	if err != nil {
		return PublicView{}, err
	}
	return NewPublicView(user, rbac.RoleNames(user.Roles, roles), s.location), nil
}
