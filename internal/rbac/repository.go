package rbac

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/odyssey-auth/internal/platform/db"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// TxRepository exposes the catalog writes available inside a transaction.
type TxRepository interface {
	InsertPermission(ctx context.Context, in NewPermission) (Permission, error)
	InsertRole(ctx context.Context, in NewRole) (Role, error)
}

// Repository provides PostgreSQL backed catalog persistence.
type Repository struct {
	pool *pgxpool.Pool
	q    db.Querier
}

// NewRepository constructs a repository on the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, q: pool}
}

// NewQuerierRepository constructs a repository bound to q, typically an
// open transaction. It cannot start transactions of its own.
func NewQuerierRepository(q db.Querier) *Repository {
	return &Repository{q: q}
}

// WithTx runs fn with a transactional repository.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	if r.pool == nil {
		return errors.New("rbac: repository has no pool for transactions")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, NewQuerierRepository(tx))
	})
}

// ListRoles returns the full role catalog ordered by id.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description, permission FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("rbac: list roles: %w", err)
	}
	defer rows.Close()
	roles := make([]Role, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("rbac: scan role: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rbac: list roles: %w", err)
	}
	return roles, nil
}

// ListPermissions returns the full permission catalog ordered by id.
func (r *Repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.q.Query(ctx, `SELECT id, name, description FROM permissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("rbac: list permissions: %w", err)
	}
	defer rows.Close()
	perms := make([]Permission, 0)
	for rows.Next() {
		perm, err := scanPermission(rows)
		if err != nil {
			return nil, fmt.Errorf("rbac: scan permission: %w", err)
		}
		perms = append(perms, perm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rbac: list permissions: %w", err)
	}
	return perms, nil
}

// FindPermissionByName fetches one permission. Returns shared.ErrNotFound
// when the name is not in the catalog.
func (r *Repository) FindPermissionByName(ctx context.Context, name string) (*Permission, error) {
	row := r.q.QueryRow(ctx, `SELECT id, name, description FROM permissions WHERE name = $1`, name)
	perm, err := scanPermission(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("rbac: find permission: %w", err)
	}
	return &perm, nil
}

// InsertPermission adds a catalog row. A zero id takes max(id)+1.
func (r *Repository) InsertPermission(ctx context.Context, in NewPermission) (Permission, error) {
	var row pgx.Row
	if in.ID != 0 {
		row = r.q.QueryRow(ctx, `INSERT INTO permissions (id, name, description) VALUES ($1, $2, $3)
			RETURNING id, name, description`, in.ID, in.Name, in.Description)
	} else {
		row = r.q.QueryRow(ctx, `INSERT INTO permissions (id, name, description)
			SELECT COALESCE(MAX(id), 0) + 1, $1, $2 FROM permissions
			RETURNING id, name, description`, in.Name, in.Description)
	}
	perm, err := scanPermission(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Permission{}, fmt.Errorf("rbac: permission %q: %w", in.Name, shared.ErrDuplicate)
		}
		return Permission{}, fmt.Errorf("rbac: insert permission: %w", err)
	}
	return perm, nil
}

// InsertRole adds a catalog row. A zero id takes max(id)+1.
func (r *Repository) InsertRole(ctx context.Context, in NewRole) (Role, error) {
	var row pgx.Row
	if in.ID != 0 {
		row = r.q.QueryRow(ctx, `INSERT INTO roles (id, name, description, permission) VALUES ($1, $2, $3, $4)
			RETURNING id, name, description, permission`, in.ID, in.Name, in.Description, int64(in.Permissions))
	} else {
		row = r.q.QueryRow(ctx, `INSERT INTO roles (id, name, description, permission)
			SELECT COALESCE(MAX(id), 0) + 1, $1, $2, $3 FROM roles
			RETURNING id, name, description, permission`, in.Name, in.Description, int64(in.Permissions))
	}
	role, err := scanRole(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Role{}, fmt.Errorf("rbac: role %q: %w", in.Name, shared.ErrDuplicate)
		}
		return Role{}, fmt.Errorf("rbac: insert role: %w", err)
	}
	return role, nil
}

func scanRole(row pgx.Row) (Role, error) {
	var (
		role        Role
		description pgtype.Text
		permission  int64
	)
	if err := row.Scan(&role.ID, &role.Name, &description, &permission); err != nil {
		return Role{}, err
	}
	role.Description = textPtr(description)
	role.Permissions = PermissionMask(uint64(permission))
	return role, nil
}

func scanPermission(row pgx.Row) (Permission, error) {
	var (
		perm        Permission
		description pgtype.Text
	)
	if err := row.Scan(&perm.ID, &perm.Name, &description); err != nil {
		return Permission{}, err
	}
	perm.Description = textPtr(description)
	return perm, nil
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

var (
	_ RepositoryPort = (*Repository)(nil)
	_ TxRepository   = (*Repository)(nil)
)
