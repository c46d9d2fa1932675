package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
)

// createdAtLayout is the display format of PublicView.CreatedAt.
const createdAtLayout = "2006-01-02 15:04:05"

// TableView is the full administrative row, without credentials.
type TableView struct {
	ID          int64      `json:"id"`
	PublicID    uuid.UUID  `json:"temp_id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	IsActive    bool       `json:"is_active"`
	Roles       uint16     `json:"roles"`
	Permissions uint64     `json:"permissions"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

// PublicView is the user as other callers see it: role names instead of
// bitmasks and no identifiers.
type PublicView struct {
	Email     string   `json:"email"`
	Username  string   `json:"username"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"created_at"`
}

// NewTableView projects a stored user.
func NewTableView(u *auth.User) TableView {
	return TableView{
		ID:          u.ID,
		PublicID:    u.PublicID,
		Email:       u.Email,
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		Roles:       uint16(u.Roles),
		Permissions: uint64(u.Permissions),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// NewPublicView projects a stored user with already resolved role names.
// A missing creation time renders as "Unknown".
func NewPublicView(u *auth.User, roleNames []string, loc *time.Location) PublicView {
	created := "Unknown"
	if u.CreatedAt != nil {
		if loc == nil {
			loc = time.Local
		}
		created = u.CreatedAt.In(loc).Format(createdAtLayout)
	}
	if roleNames == nil {
		roleNames = []string{}
	}
	return PublicView{
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roleNames,
		CreatedAt: created,
	}
}
