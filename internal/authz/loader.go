package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/db"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// UserFinder looks users up by public identifier.
type UserFinder interface {
	FindByPublicID(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

// Catalog reads the role catalog and single permissions.
type Catalog interface {
	ListRoles(ctx context.Context) ([]rbac.Role, error)
	FindPermissionByName(ctx context.Context, name string) (*rbac.Permission, error)
}

// StoreLoader reads subjects from PostgreSQL. By default the user row is
// read first and the role catalog and permission row are then read
// concurrently on separate pool connections, accepting read skew between
// them. In snapshot mode all reads share one read-only REPEATABLE READ
// transaction.
type StoreLoader struct {
	pool     *pgxpool.Pool
	snapshot bool
	users    UserFinder
	catalog  Catalog
}

// NewStoreLoader constructs a loader over the pool.
func NewStoreLoader(pool *pgxpool.Pool, snapshot bool) *StoreLoader {
	return &StoreLoader{
		pool:     pool,
		snapshot: snapshot,
		users:    auth.NewRepository(pool),
		catalog:  rbac.NewRepository(pool),
	}
}

// LoadSubject implements SubjectLoader.
func (l *StoreLoader) LoadSubject(ctx context.Context, publicID uuid.UUID, permission string) (Subject, error) {
	if !l.snapshot {
		return loadSubject(ctx, l.users, l.catalog, publicID, permission, true)
	}
	var subject Subject
	err := db.WithReadOnlyTx(ctx, l.pool, func(tx pgx.Tx) error {
		var err error
		// a single connection cannot run queries concurrently
		subject, err = loadSubject(ctx, auth.NewRepository(tx), rbac.NewQuerierRepository(tx), publicID, permission, false)
		return err
	})
	return subject, err
}

func loadSubject(ctx context.Context, users UserFinder, catalog Catalog, publicID uuid.UUID, permission string, concurrent bool) (Subject, error) {
	user, err := users.FindByPublicID(ctx, publicID)
	if err != nil {
		return Subject{}, err
	}
	subject := Subject{User: user}
	if permission == "" {
		return subject, nil
	}

	loadRoles := func(ctx context.Context) error {
		roles, err := catalog.ListRoles(ctx)
		if err != nil {
			return err
		}
		subject.Roles = roles
		return nil
	}
	loadPermission := func(ctx context.Context) error {
		perm, err := catalog.FindPermissionByName(ctx, permission)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil
			}
			return err
		}
		subject.Permission = perm
		return nil
	}

	if !concurrent {
		if err := loadRoles(ctx); err != nil {
			return Subject{}, err
		}
		if err := loadPermission(ctx); err != nil {
			return Subject{}, err
		}
		return subject, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return loadRoles(gctx) })
	g.Go(func() error { return loadPermission(gctx) })
	if err := g.Wait(); err != nil {
		return Subject{}, err
	}
	return subject, nil
}
