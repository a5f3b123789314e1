package routes

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"tourdesk/auth"
	"tourdesk/bookings"
	"tourdesk/excursions"
	"tourdesk/groups"
	"tourdesk/livefeed"
	"tourdesk/middleware"
	"tourdesk/products"
	"tourdesk/ratelim"
	"tourdesk/taxonomy"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, uploadDir string) *httprouter.Router {
	t.Helper()
	tokens := middleware.NewAuth("test-secret", time.Hour)
	rl := ratelim.NewRateLimiter(60, 3)
	t.Cleanup(rl.Stop)

	router := httprouter.New()
	RoutesWrapper(router, Deps{
		Auth:             tokens,
		RateLimiter:      rl,
		Hub:              livefeed.NewHub(),
		AllowedOrigins:   []string{"*"},
		UploadDir:        uploadDir,
		AuthHandler:      auth.NewHandler(nil, tokens),
		TaxonomyHandler:  taxonomy.NewHandler(nil),
		ExcursionHandler: excursions.NewHandler(nil, nil),
		ProductHandler:   products.NewHandler(nil),
		GroupHandler:     groups.NewHandler(nil),
		BookingHandler:   bookings.NewHandler(nil),
	})
	return router
}

func TestHealth(t *testing.T) {
	router := newRouter(t, t.TempDir())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "200", rec.Body.String())
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newRouter(t, t.TempDir())

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/excursions"},
		{http.MethodPost, "/api/tags"},
		{http.MethodDelete, "/api/filter-groups/abc"},
		{http.MethodPut, "/api/excursion-products/abc"},
		{http.MethodPost, "/api/groups/abc/tourists"},
		{http.MethodGet, "/api/groups/abc/manifest.pdf"},
		{http.MethodGet, "/api/bookings"},
		{http.MethodPut, "/api/bookings/abc"},
		{http.MethodGet, "/api/admin/live"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestAdminRoutesRejectForeignToken(t *testing.T) {
	router := newRouter(t, t.TempDir())

	other := middleware.NewAuth("another-secret", time.Hour)
	token, _, err := other.Issue("admin-1", "a@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestStaticUploads(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "excursions"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "excursions", "a.txt"), []byte("hello"), 0o644))
	router := newRouter(t, dir)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/uploads/excursions/a.txt", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}
