package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/odyssey-erp/odyssey-auth/internal/observability"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Middleware wires the gate into HTTP handlers.
type Middleware struct {
	Gate    *Gate
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Require admits only callers effectively holding permission.
func (m Middleware) Require(permission string) func(http.Handler) http.Handler {
	return m.guard(permission)
}

// Authenticated admits any caller with a valid token for an existing user.
func (m Middleware) Authenticated() func(http.Handler) http.Handler {
	return m.guard("")
}

func (m Middleware) guard(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := m.Gate.Authorize(r.Context(), r.Header, permission)
			if err != nil {
				m.deny(w, r, permission, err)
				return
			}
			m.Metrics.ObserveAuthz(permission, observability.OutcomeAllowed)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func (m Middleware) deny(w http.ResponseWriter, r *http.Request, permission string, err error) {
	var missing *MissingPermissionError
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		m.Metrics.ObserveAuthz(permission, observability.OutcomeUnauthorized)
		httpx.Text(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &missing):
		m.Metrics.ObserveAuthz(permission, observability.OutcomeForbidden)
		httpx.Text(w, http.StatusForbidden, missing.Error())
	case errors.Is(err, shared.ErrAccountInactive):
		m.Metrics.ObserveAuthz(permission, observability.OutcomeForbidden)
		httpx.Text(w, http.StatusForbidden, "Account is inactive")
	default:
		m.Metrics.ObserveAuthz(permission, observability.OutcomeError)
		if m.Logger != nil {
			m.Logger.Error("authz", slog.String("path", r.URL.Path), slog.String("permission", permission), slog.Any("error", err))
		}
		httpx.RespondError(w, err)
	}
}
