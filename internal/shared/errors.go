package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountInactive indicates a deactivated account.
	ErrAccountInactive = errors.New("account is inactive")
	// ErrUnauthorized indicates a missing, malformed, expired or mis-signed
	// token, or a token whose user no longer exists.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden indicates a verified identity lacking a permission.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate indicates a unique constraint hit.
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation indicates rejected input.
	ErrValidation = errors.New("validation failed")
	// ErrCatalogRange indicates a catalog id the bitmasks cannot represent.
	ErrCatalogRange = errors.New("catalog id out of range")
	// ErrRateLimited indicates too many failed attempts.
	ErrRateLimited = errors.New("too many attempts")
)
