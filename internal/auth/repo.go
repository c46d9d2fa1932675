package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odyssey-erp/odyssey-auth/internal/platform/db"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Repository defines persistence operations for auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByPublicID(ctx context.Context, id uuid.UUID) (*User, error)
	InsertUser(ctx context.Context, in NewUser) (*User, error)
}

// UserColumns is the column list scanned by ScanUser.
const UserColumns = `id, temp_id, email, username, password_hash, first_name, last_name,
	is_active, roles, permissions, created_at, updated_at`

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	q db.Querier
}

// NewRepository constructs a PostgreSQL repository on a pool or transaction.
func NewRepository(q db.Querier) *PGRepository {
	return &PGRepository{q: q}
}

// FindByEmail fetches a user by normalized email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+UserColumns+` FROM users WHERE email = $1`, email)
	return r.scanOne(row, "find by email")
}

// FindByPublicID fetches a user by temp_id.
func (r *PGRepository) FindByPublicID(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.q.QueryRow(ctx, `SELECT `+UserColumns+` FROM users WHERE temp_id = $1`, id)
	return r.scanOne(row, "find by public id")
}

// InsertUser stores a new account with a fresh public identifier.
func (r *PGRepository) InsertUser(ctx context.Context, in NewUser) (*User, error) {
	row := r.q.QueryRow(ctx, `INSERT INTO users (temp_id, email, username, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+UserColumns,
		uuid.New(), in.Email, in.Username, in.PasswordHash, in.FirstName, in.LastName)
	user, err := ScanUser(row)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, fmt.Errorf("auth: email %q: %w", in.Email, shared.ErrDuplicate)
		}
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}
	return user, nil
}

func (r *PGRepository) scanOne(row pgx.Row, op string) (*User, error) {
	user, err := ScanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: %s: %w", op, err)
	}
	return user, nil
}

// ScanUser reads one row selected with UserColumns.
func ScanUser(row pgx.Row) (*User, error) {
	var (
		user        User
		roles       int16
		permissions int64
		createdAt   pgtype.Timestamptz
		updatedAt   pgtype.Timestamptz
	)
	if err := row.Scan(
		&user.ID, &user.PublicID, &user.Email, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.IsActive, &roles, &permissions,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	user.Roles = rbac.RoleMask(uint16(roles))
	user.Permissions = rbac.PermissionMask(uint64(permissions))
	user.CreatedAt = timePtr(createdAt)
	user.UpdatedAt = timePtr(updatedAt)
	return &user, nil
}

func timePtr(ts pgtype.Timestamptz) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time
	return &t
}

var _ Repository = (*PGRepository)(nil)
