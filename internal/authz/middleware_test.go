package authz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/internal/shared"
)

func newTestMiddleware(t *testing.T, resolver *stubResolver) (Middleware, *session.Codec) {
	t.Helper()
	codec := session.NewCodec()
	gate := NewGate(codec, resolver, nil, nil)
	gate.now = func() time.Time { return time.Unix(1_758_000_000, 0).Add(time.Minute) }
	return Middleware{Gate: gate}, codec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth(t *testing.T) {
	mw, codec := newTestMiddleware(t, testResolver())

	var captured session.Session
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = shared.SessionFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	// No cookie at all.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid session lands in context.
	token, err := codec.Encode(testSession("editor"))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "jane", captured.Username)
}

func TestRequireAuthClearsBadCookie(t *testing.T) {
	mw, _ := newTestMiddleware(t, testResolver())
	handler := mw.RequireAuth(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.CookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequirePermission(t *testing.T) {
	mw, _ := newTestMiddleware(t, testResolver())
	handler := mw.RequirePermission(permissions.PermRoles)(okHandler())

	// No session in context.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Editor lacks the roles permission.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("editor")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Wildcard role passes.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("super_admin")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequirePermissionStorageUnavailable(t *testing.T) {
	resolver := &stubResolver{err: shared.ErrStorageUnavailable}
	mw, _ := newTestMiddleware(t, resolver)
	handler := mw.RequirePermission(permissions.PermRoles)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("editor")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Retryable, never a silent denial.
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRequireSuperAdminMiddleware(t *testing.T) {
	mw, _ := newTestMiddleware(t, testResolver())
	handler := mw.RequireSuperAdmin(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("editor")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("super_admin")))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMenuHandler(t *testing.T) {
	gate := NewGate(session.NewCodec(), testResolver(), nil, nil)
	handler := MenuHandler(gate, nil)

	req := httptest.NewRequest(http.MethodGet, "/menu", nil)
	req = req.WithContext(shared.ContextWithSession(req.Context(), testSession("editor")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Actions []Action `json:"actions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Actions, 2)
	assert.Equal(t, "banners", body.Actions[0].ID)
	assert.Equal(t, "seo", body.Actions[1].ID)
}
