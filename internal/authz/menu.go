package authz

import (
	"log/slog"
	"net/http"

	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/platform/httpx"
	"github.com/meridian-web/console-core/internal/shared"
)

// ConsoleActions is the full admin menu. Entries the session cannot
// perform are filtered out by the same gate that enforces the API.
var ConsoleActions = []Action{
	{ID: "banners", Label: "Banners", Permission: permissions.PermBanners},
	{ID: "seo", Label: "SEO", Permission: permissions.PermSEO},
	{ID: "pages", Label: "Pages", Permission: permissions.PermPages},
	{ID: "calculators", Label: "Calculators", Permission: permissions.PermCalculators},
	{ID: "games", Label: "Games", Permission: permissions.PermGames},
	{ID: "users", Label: "Users", Permission: permissions.PermUsers},
	{ID: "roles", Label: "Roles", Permission: permissions.PermRoles},
	{ID: "activity", Label: "Activity Log", SuperAdminOnly: true},
}

// MenuHandler returns the actions visible to the current session.
func MenuHandler(gate *Gate, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shared.SessionFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		visible, err := gate.VisibleActions(r.Context(), sess, ConsoleActions)
		if err != nil {
			if logger != nil {
				logger.Error("filter menu actions", slog.Any("error", err))
			}
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"actions": visible})
	}
}
