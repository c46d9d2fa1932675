package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-auth/internal/observability"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Authenticator is the login side of Service.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger     *slog.Logger
	service    Authenticator
	metrics    *observability.Metrics
	validator  *validator.Validate
	loginLimit int
}

// NewHandler constructs a Handler instance. loginLimit caps login requests
// per client IP per minute; zero disables the cap.
func NewHandler(logger *slog.Logger, service Authenticator, metrics *observability.Metrics, loginLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:     logger,
		service:    service,
		metrics:    metrics,
		validator:  validator.New(),
		loginLimit: loginLimit,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	if h.loginLimit > 0 {
		r = r.With(httprate.Limit(h.loginLimit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}
	r.Post("/", h.handleLogin)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Text(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.metrics.ObserveLogin(loginOutcome(err))
		switch {
		case errors.Is(err, shared.ErrInvalidCredentials):
			httpx.Text(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, shared.ErrAccountInactive):
			httpx.Text(w, http.StatusForbidden, "Account is inactive")
		case errors.Is(err, shared.ErrRateLimited):
			httpx.Text(w, http.StatusTooManyRequests, "Too many failed login attempts")
		default:
			h.logger.Error("login", slog.String("path", r.URL.Path), slog.Any("error", err))
			httpx.RespondError(w, err)
		}
		return
	}
	h.metrics.ObserveLogin(observability.OutcomeSuccess)
	httpx.JSON(w, http.StatusOK, token)
}

func loginOutcome(err error) string {
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		return observability.OutcomeInvalid
	case errors.Is(err, shared.ErrAccountInactive):
		return observability.OutcomeInactive
	case errors.Is(err, shared.ErrRateLimited):
		return observability.OutcomeRateLimited
	default:
		return observability.OutcomeError
	}
}
