package roles

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-web/console-core/internal/activity"
	"github.com/meridian-web/console-core/internal/authz"
	"github.com/meridian-web/console-core/internal/permissions"
	"github.com/meridian-web/console-core/internal/session"
	"github.com/meridian-web/console-core/internal/shared"
)

type memoryActivityRepo struct {
	entries []activity.Entry
}

func (m *memoryActivityRepo) Insert(ctx context.Context, entry activity.Entry) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter activity.Filter) ([]activity.Entry, error) {
	return m.entries, nil
}

type rolesFixture struct {
	router  http.Handler
	service *Service
	repo    *mockRepository
	log     *memoryActivityRepo
}

func newRolesFixture(t *testing.T) *rolesFixture {
	t.Helper()

	repo := newMockRepository()
	service := NewService(repo, nil)
	require.NoError(t, service.Seed(context.Background()))

	gate := authz.NewGate(session.NewCodec(), service, nil, nil)
	mw := authz.Middleware{Gate: gate}
	log := &memoryActivityRepo{}
	recorder := activity.NewRecorder(log, nil, nil, nil)

	handler := NewHandler(nil, service, recorder, mw)
	r := chi.NewRouter()
	r.Route("/roles", func(r chi.Router) { handler.MountRoutes(r) })

	return &rolesFixture{router: r, service: service, repo: repo, log: log}
}

func (f *rolesFixture) do(t *testing.T, actorRole, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	actor := session.New("sess-1", "1", "admin", "admin@example.com", actorRole, "Admin", time.Now(), time.Hour)
	req = req.WithContext(shared.ContextWithSession(req.Context(), actor))
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestListRolesWithCatalog(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodGet, "/roles", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Roles       []Role                   `json:"roles"`
		Permissions []permissions.Permission `json:"permissions"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body.Roles, 2)
	assert.Equal(t, SuperAdminRoleName, body.Roles[0].Name)
	assert.Equal(t, "Super Admin", body.Roles[0].DisplayName)
	assert.Equal(t, permissions.List(), body.Permissions)
}

func TestCreateRequiresRolesPermission(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, ContentAdminRoleName, http.MethodPost, "/roles", `{"name":"sneaky","permissions":["banners"]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Nothing was created and nothing was logged.
	_, err := f.repo.GetByName(context.Background(), "sneaky")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, f.log.entries)
}

func TestCreateUpdateDeleteLifecycle(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodPost, "/roles",
		`{"name":"Content Editor 2","description":"second-tier editors","permissions":["banners","seo"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Success bool `json:"success"`
		Data    Role `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.True(t, created.Success)
	assert.Equal(t, "content_editor_2", created.Data.Name)
	assert.Equal(t, "Content Editor 2", created.Data.DisplayName)
	assert.False(t, created.Data.IsSystem)
	assert.Equal(t, []string{permissions.PermBanners, permissions.PermSEO}, created.Data.Permissions)

	id := created.Data.ID
	rec = f.do(t, SuperAdminRoleName, http.MethodPut, "/roles/"+strconv.FormatInt(id, 10),
		`{"permissions":["pages"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated struct {
		Data Role `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&updated))
	assert.Equal(t, []string{permissions.PermPages}, updated.Data.Permissions)

	rec = f.do(t, SuperAdminRoleName, http.MethodDelete, "/roles/"+strconv.FormatInt(id, 10), "")
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := f.service.Get(context.Background(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// One activity entry per mutation, actor role snapshotted.
	require.Len(t, f.log.entries, 3)
	assert.Equal(t, "role.create", f.log.entries[0].Action)
	assert.Equal(t, "role.update", f.log.entries[1].Action)
	assert.Equal(t, "role.delete", f.log.entries[2].Action)
	for _, entry := range f.log.entries {
		assert.Equal(t, SuperAdminRoleName, entry.UserRole)
		assert.Equal(t, "admin", entry.UserName)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodPost, "/roles", `{"name":"Marketing Manager"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, SuperAdminRoleName, http.MethodPost, "/roles", `{"name":"marketing_manager"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.Len(t, f.log.entries, 1)
}

func TestCreateInvalidPermission(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodPost, "/roles", `{"name":"reporting","permissions":["bogus"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.log.entries)
}

func TestCreateValidation(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodPost, "/roles", `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, SuperAdminRoleName, http.MethodPost, "/roles", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteSystemRoleConflict(t *testing.T) {
	f := newRolesFixture(t)

	super, err := f.repo.GetByName(context.Background(), SuperAdminRoleName)
	require.NoError(t, err)

	rec := f.do(t, SuperAdminRoleName, http.MethodDelete, "/roles/"+strconv.FormatInt(super.ID, 10), "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, f.log.entries)
}

func TestUpdateWildcardRoleConflict(t *testing.T) {
	f := newRolesFixture(t)

	super, err := f.repo.GetByName(context.Background(), SuperAdminRoleName)
	require.NoError(t, err)

	rec := f.do(t, SuperAdminRoleName, http.MethodPut, "/roles/"+strconv.FormatInt(super.ID, 10), `{"description":"edited"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUpdateUnknownRole(t *testing.T) {
	f := newRolesFixture(t)

	rec := f.do(t, SuperAdminRoleName, http.MethodPut, "/roles/9999", `{"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, SuperAdminRoleName, http.MethodPut, "/roles/not-a-number", `{"description":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
