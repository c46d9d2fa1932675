package roles

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-auth/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-auth/internal/rbac"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

// Handler manages role endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	guard   rbac.Guard
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, guard rbac.Guard) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, guard: guard}
}

// MountRoutes registers the public /roles listing.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listRoles)
}

// MountDevRoutes registers the administrative role table under /dev.
func (h *Handler) MountDevRoutes(r chi.Router) {
	r.With(h.guard.Require(shared.PermViewRoleTable)).Get("/roles", h.listRoleTable)
}

func (h *Handler) listRoles(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListViews(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}

func (h *Handler) listRoleTable(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListTable(r.Context())
	if err != nil {
		h.logger.Error("list role table", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, views)
}
