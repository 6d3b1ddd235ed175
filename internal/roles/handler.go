package roles

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/meridian-web/console-core/internal/activity"
	"github.com/meridian-web/console-core/internal/authz"
	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/platform/httpx"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/internal/shared"
)

// Handler wires HTTP endpoints for role management.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	recorder  *activity.Recorder
	authz     authz.Middleware
	validator *validator.Validate
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, recorder *activity.Recorder, mw authz.Middleware) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:    logger,
		service:   service,
		recorder:  recorder,
		authz:     mw,
		validator: validator.New(),
	}
}

// MountRoutes registers role routes. Every route requires the roles
// permission; the authenticated session is already in context.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.authz.RequirePermission(permissions.PermRoles))
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Put("/{roleID}", h.handleUpdate)
		r.Delete("/{roleID}", h.handleDelete)
	})
}

type createRoleRequest struct {
	Name        string   `json:"name" validate:"required,min=2,max=100"`
	DisplayName string   `json:"displayName"`
	Description string   `json:"description"`
	Permissions []string `json:"permissions"`
}

type updateRoleRequest struct {
	DisplayName *string   `json:"displayName"`
	Description *string   `json:"description"`
	Permissions *[]string `json:"permissions"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list roles", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if list == nil {
		list = []Role{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"roles":       list,
		"permissions": permissions.List(),
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.SessionFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	var req createRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "role name is required")
		return
	}
	role, err := h.service.Create(r.Context(), CreateInput{
		Name:        req.Name,
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: req.Permissions,
	}, actor.Username)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, actor, "role.create", "Created role "+role.Name, map[string]any{
		"role":        role.Name,
		"permissions": role.Permissions,
	})
	httpx.Success(w, http.StatusCreated, role)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.SessionFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var req updateRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Failure(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, err := h.service.Update(r.Context(), id, UpdateInput{
		DisplayName: req.DisplayName,
		Description: req.Description,
		Permissions: req.Permissions,
	}, actor.Username)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, actor, "role.update", "Updated role "+role.Name, map[string]any{
		"role":        role.Name,
		"permissions": role.Permissions,
	})
	httpx.Success(w, http.StatusOK, role)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	actor, ok := shared.SessionFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthenticated)
		return
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	role, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.record(r, actor, "role.delete", "Deleted role "+role.Name, map[string]any{
		"role": role.Name,
	})
	httpx.Success(w, http.StatusOK, nil)
}

// record writes the audit trail. A failed write never fails the
// primary action; the recorder already surfaced it to monitoring.
func (h *Handler) record(r *http.Request, actor session.Session, action, label string, details map[string]any) {
	if _, err := h.recorder.Record(r.Context(), actor, action, label, details); err != nil {
		h.logger.Warn("record activity", slog.String("action", action), slog.Any("error", err))
	}
}
