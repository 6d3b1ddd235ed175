package authz

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/meridian-web/console-core/internal/platform/httpx"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/internal/shared"
)

// Middleware wires the gate into chi handler chains.
type Middleware struct {
	Gate         *Gate
	Logger       *slog.Logger
	SecureCookie bool
}

// RequireAuth resolves the session cookie and stores the session in
// context. Anonymous, invalid, expired and revoked sessions get 401
// and the cookie cleared; no protected action is reachable without
// passing through here.
func (m Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		sess, err := m.Gate.Authenticate(r.Context(), cookie.Value)
		if err != nil {
			session.ClearCookie(w, m.SecureCookie)
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithSession(r.Context(), sess)))
	})
}

// RequirePermission rejects sessions whose role lacks the permission.
// Storage failures are 503, never silently mapped to a denial.
func (m Middleware) RequirePermission(permissionID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := shared.SessionFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, shared.ErrUnauthenticated)
				return
			}
			granted, err := m.Gate.HasPermission(r.Context(), sess, permissionID)
			if err != nil {
				m.logError("permission check", err)
				httpx.RespondError(w, err)
				return
			}
			if !granted {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin rejects everything but the wildcard role.
func (m Middleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := shared.SessionFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthenticated)
			return
		}
		isSuper, err := m.Gate.RequireSuperAdmin(r.Context(), sess)
		if err != nil {
			m.logError("super admin check", err)
			httpx.RespondError(w, err)
			return
		}
		if !isSuper {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m Middleware) logError(msg string, err error) {
	if m.Logger == nil || errors.Is(err, shared.ErrUnauthorized) {
		return
	}
	m.Logger.Error(msg, slog.Any("error", err))
}
