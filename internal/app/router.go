package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-web/console-core/internal/activity"
	"github.com/meridian-web/console-core/internal/auth"
	"github.com/meridian-web/console-core/internal/authz"
	"github.com/meridian-web/console-core/internal/observability"
	"github.com/meridian-web/console-core/internal/roles"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger          *slog.Logger
	Config          *Config
	Gate            *authz.Gate
	AuthzMiddleware authz.Middleware
	AuthHandler     *auth.Handler
	RolesHandler    *roles.Handler
	ActivityHandler *activity.Handler
	Metrics         *observability.Metrics
}

// NewRouter constructs the chi.Router with console defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Route("/auth", params.AuthHandler.MountRoutes)

		// Everything below requires a live session.
		r.Group(func(r chi.Router) {
			r.Use(params.AuthzMiddleware.RequireAuth)

			r.Get("/menu", authz.MenuHandler(params.Gate, params.Logger))
			r.Route("/roles", params.RolesHandler.MountRoutes)

			r.Route("/activity", func(r chi.Router) {
				r.Use(params.AuthzMiddleware.RequireSuperAdmin)
				params.ActivityHandler.MountRoutes(r)
			})
		})
	})

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
