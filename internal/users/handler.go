package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/odyssey-auth/internal/auth"
	"github.com/odyssey-erp/odyssey-auth/internal/authz"
	"github.com/odyssey-erp/odyssey-auth/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Handler manages user endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, mw authz.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, authz: mw, validator: validator.New()}
}

// MountRoutes registers /users routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Get("/", h.listUsers)
	r.With(h.authz.Authenticated()).Get("/profile", h.viewProfile)
}

// MountDevRoutes registers the administrative table under /dev.
func (h *Handler) MountDevRoutes(r chi.Router) {
	r.With(h.authz.Require(shared.PermViewUserTable)).Get("/users", h.listUserTable)
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Text(w, http.StatusBadRequest, validationMessage(err))
		return
	}
	email, err := h.service.Register(r.Context(), auth.Registration{
		Email:     req.Email,
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, shared.ErrDuplicate) {
			httpx.Text(w, http.StatusConflict, "Email already registered")
			return
		}
		h.fail(w, r, "register user", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, email)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListPublic(r.Context())
	if err != nil {
		h.fail(w, r, "list users", err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) listUserTable(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListTable(r.Context())
	if err != nil {
		h.fail(w, r, "list user table", err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) viewProfile(w http.ResponseWriter, r *http.Request) {
	identity := authz.IdentityFromContext(r.Context())
	if identity == nil || identity.User == nil {
		httpx.Text(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	view, err := h.service.Profile(r.Context(), identity.User)
	if err != nil {
		h.fail(w, r, "view profile", err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	if httpx.StatusFor(err) == http.StatusInternalServerError {
		h.logger.Error(op, slog.String("path", r.URL.Path), slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	return "invalid field " + fe.Field() + ": " + fe.Tag()
}
