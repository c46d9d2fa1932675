// Package authz is the authorization gate every protected route passes
// through: bearer token, identity, current user record, permission check.
package authz

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// TokenValidator recovers claims from a session token.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Subject is the storage state one decision is made from.
type Subject struct {
	User *auth.User
	// Roles is the full role catalog.
	Roles []rbac.Role
	// Permission is nil when the required name is not in the catalog.
	Permission *rbac.Permission
}

// SubjectLoader reads a Subject. An empty permission loads only the user.
// A missing user is reported as shared.ErrNotFound.
type SubjectLoader interface {
	LoadSubject(ctx context.Context, publicID uuid.UUID, permission string) (Subject, error)
}

// Identity is the verified caller attached to an allowed request.
type Identity struct {
	User   *auth.User
	Claims *auth.Claims
}

// MissingPermissionError is the Forbidden outcome; it names the permission.
type MissingPermissionError struct {
	Permission string
}

func (e *MissingPermissionError) Error() string {
	return "Missing permission: " + e.Permission
}

// Unwrap lets errors.Is match shared.ErrForbidden.
func (e *MissingPermissionError) Unwrap() error {
	return shared.ErrForbidden
}

// Options toggles behaviour left open by the stateless token contract.
type Options struct {
	// EnforceActive denies tokens of deactivated accounts with
	// shared.ErrAccountInactive instead of honouring them until expiry.
	EnforceActive bool
}

// Gate decides allow/deny for one request. It holds no per-request state.
type Gate struct {
	tokens TokenValidator
	loader SubjectLoader
	opts   Options
}

// NewGate constructs a Gate.
func NewGate(tokens TokenValidator, loader SubjectLoader, opts Options) *Gate {
	return &Gate{tokens: tokens, loader: loader, opts: opts}
}

var errInvalidToken = fmt.Errorf("%w: invalid token", shared.ErrUnauthorized)

// Authorize runs the gate. An empty permission stops after the identity is
// verified against storage.
//
// Failures: missing/bad scheme, bad token or unknown user wrap
// shared.ErrUnauthorized; a missing permission is *MissingPermissionError;
// any storage failure is returned wrapped and maps to an internal error.
func (g *Gate) Authorize(ctx context.Context, header http.Header, permission string) (*Identity, error) {
	raw, ok := BearerToken(header)
	if !ok {
		return nil, fmt.Errorf("%w: missing or malformed token", shared.ErrUnauthorized)
	}

	claims, err := g.tokens.Validate(raw)
	if err != nil {
		return nil, errInvalidToken
	}
	publicID, err := claims.PublicID()
	if err != nil {
		return nil, errInvalidToken
	}

	subject, err := g.loader.LoadSubject(ctx, publicID, permission)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			// same answer as a bad token
			return nil, errInvalidToken
		}
		return nil, fmt.Errorf("authz: load subject: %w", err)
	}
	if subject.User == nil {
		return nil, errInvalidToken
	}
	if g.opts.EnforceActive && !subject.User.IsActive {
		return nil, shared.ErrAccountInactive
	}

	identity := &Identity{User: subject.User, Claims: claims}
	if permission == "" {
		return identity, nil
	}
	if !rbac.HasPermission(subject.User, subject.Roles, subject.Permission) {
		return nil, &MissingPermissionError{Permission: permission}
	}
	return identity, nil
}

// BearerToken extracts the credential of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(header http.Header) (string, bool) {
	value := header.Get("Authorization")
	scheme, token, found := strings.Cut(value, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
