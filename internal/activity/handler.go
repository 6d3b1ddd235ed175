package activity

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/meridian-web/console-core/internal/platform/httpx"
)

// Handler exposes the activity log query endpoint.
type Handler struct {
	logger   *slog.Logger
	recorder *Recorder
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, recorder *Recorder) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, recorder: recorder}
}

// MountRoutes registers activity routes. The router mounting these is
// responsible for wrapping them in the super-admin middleware.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleQuery)
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	filter := Filter{
		ActionPrefix: strings.TrimSpace(r.URL.Query().Get("action")),
		Search:       strings.TrimSpace(r.URL.Query().Get("q")),
	}
	if v := strings.TrimSpace(r.URL.Query().Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			httpx.Failure(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		filter.Limit = limit
	}
	logs, err := h.recorder.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("query activity log", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if logs == nil {
		logs = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"logs": logs})
}
