package roles_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/odyssey-auth/internal/roles"
	"github.com/odyssey-erp/odyssey-auth/internal/shared"
)

type permitGuard struct {
	allow    bool
	required []string
}

func (g *permitGuard) Require(permission string) func(http.Handler) http.Handler {
	g.required = append(g.required, permission)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !g.allow {
				http.Error(w, "Missing permission: "+permission, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func newRolesRouter(cat *stubCatalog, guard *permitGuard) http.Handler {
	h := roles.NewHandler(nil, roles.NewService(cat), guard)
	r := chi.NewRouter()
	r.Route("/roles", h.MountRoutes)
	r.Route("/dev", h.MountDevRoutes)
	return r
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestPublicRolesNeedNoPermission(t *testing.T) {
	guard := &permitGuard{}
	rec := get(newRolesRouter(sampleCatalog(), guard), "/roles")

	require.Equal(t, http.StatusOK, rec.Code)
	var views []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 2)
	assert.Equal(t, "admin", views[0]["name"])
	assert.NotContains(t, views[0], "permission")
}

func TestDevRolesGuarded(t *testing.T) {
	guard := &permitGuard{}
	router := newRolesRouter(sampleCatalog(), guard)
	assert.Equal(t, []string{shared.PermViewRoleTable}, guard.required)

	rec := get(router, "/dev/roles")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	guard.allow = true
	rec = get(router, "/dev/roles")
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []roles.TableView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Len(t, rows[0].Permission, 3)
}

func TestRolesStorageFailure(t *testing.T) {
	cat := sampleCatalog()
	cat.rolesErr = errors.New("timeout talking to 10.1.2.3")
	rec := get(newRolesRouter(cat, &permitGuard{allow: true}), "/roles")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.1.2.3")
}
