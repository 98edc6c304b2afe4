package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/yamdb/app"
	"github.com/upb/yamdb/config"
	"github.com/upb/yamdb/repositories/postgres"
	"go.uber.org/zap"
)

func newRouter(t *testing.T, authPerMinute int) (http.Handler, *app.Dependencies) {
	t.Helper()
	conn, _, err := sqlmock.New()
	require.NoError(t, err)
	mr := miniredis.RunT(t)

	cfg := &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			RequestTimeout: time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: config.AuthConfig{
			JWTSecret:           "routes-secret-routes-secret-routes",
			Issuer:              "yamdb-test",
			AccessTokenTTL:      time.Hour,
			ConfirmationCodeTTL: time.Minute,
		},
		RateLimit: config.RateLimitConfig{AuthRequestsPerMinute: authPerMinute},
	}

	logger := zap.NewNop()
	factory := postgres.NewRepositoryFactoryFromDB(postgres.NewDBFromConn(conn, logger), logger)
	deps, err := app.Wire(cfg, logger, factory, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = deps.Audit.Stop(time.Second) })

	return SetupRoutes(deps), deps
}

func do(h http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthzAndHeaders(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := do(router, http.MethodGet, "/healthz", http.Header{"X-Request-Id": {"trace-1"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := do(router, http.MethodGet, "/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"not_found"`)

	w = do(router, http.MethodPost, "/api/v1/groups/", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequestLevelPermissions(t *testing.T) {
	router, _ := newRouter(t, 0)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"anonymous category create", http.MethodPost, "/api/v1/categories/", http.StatusUnauthorized},
		{"anonymous genre delete", http.MethodDelete, "/api/v1/genres/rock", http.StatusUnauthorized},
		{"anonymous title update", http.MethodPatch, "/api/v1/titles/00000000-0000-0000-0000-000000000001", http.StatusUnauthorized},
		{"anonymous review create", http.MethodPost, "/api/v1/titles/00000000-0000-0000-0000-000000000001/reviews/", http.StatusUnauthorized},
		{"anonymous user list", http.MethodGet, "/api/v1/users/", http.StatusUnauthorized},
		{"anonymous me", http.MethodGet, "/api/v1/users/me", http.StatusUnauthorized},
		{"anonymous follow list", http.MethodGet, "/api/v1/follow/", http.StatusUnauthorized},
		{"anonymous post delete", http.MethodDelete, "/api/v1/posts/00000000-0000-0000-0000-000000000001", http.StatusUnauthorized},
		{"anonymous audit log", http.MethodGet, "/api/v1/audit/logs", http.StatusUnauthorized},
		{"malformed group id", http.MethodGet, "/api/v1/groups/not-a-uuid", http.StatusNotFound},
		{"malformed title id", http.MethodGet, "/api/v1/titles/not-a-uuid", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.target, nil)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
			}
		})
	}
}

func TestTrailingSlashForms(t *testing.T) {
	router, _ := newRouter(t, 0)

	const (
		title   = "/api/v1/titles/00000000-0000-0000-0000-000000000001"
		review  = title + "/reviews/00000000-0000-0000-0000-000000000002"
		post    = "/api/v1/posts/00000000-0000-0000-0000-000000000003"
		comment = "00000000-0000-0000-0000-000000000004"
	)

	paths := []string{
		"/api/v1/posts",
		title + "/reviews",
		review + "/comments",
		review + "/comments/" + comment,
		post,
		post + "/comments",
		post + "/comments/" + comment,
		"/api/v1/groups",
	}

	for _, path := range paths {
		for _, target := range []string{path, path + "/"} {
			t.Run(target, func(t *testing.T) {
				w := do(router, http.MethodGet, target, nil)
				assert.NotContains(t, w.Body.String(), "endpoint not found")
				assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code)
			})
		}
	}
}

func TestMalformedTokenRejected(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := do(router, http.MethodGet, "/api/v1/groups/not-a-uuid", http.Header{"Authorization": {"Bearer garbage"}})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRateLimit(t *testing.T) {
	router, _ := newRouter(t, 1)

	first := do(router, http.MethodPost, "/api/v1/auth/signup", nil)
	assert.Equal(t, http.StatusBadRequest, first.Code)

	second := do(router, http.MethodPost, "/api/v1/auth/signup", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "rate_limit_exceeded")
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newRouter(t, 0)

	w := do(router, http.MethodOptions, "/api/v1/posts/", http.Header{
		"Origin":                        {"http://localhost:3000"},
		"Access-Control-Request-Method": {"POST"},
	})

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPMetricsRecorded(t *testing.T) {
	router, deps := newRouter(t, 0)

	do(router, http.MethodGet, "/healthz", nil)

	count, err := testutil.GatherAndCount(deps.Metrics, "yamdb_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
