package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/yamdb/config"
	"github.com/upb/yamdb/repositories/postgres"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Port:            8080,
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
			AllowedOrigins:  []string{"http://localhost:3000"},
		},
		Database: config.DatabaseConfig{
			Host:         "invalid-host-that-does-not-exist",
			Port:         5432,
			User:         "yamdb",
			Database:     "yamdb",
			SSLMode:      "disable",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret-test-secret-test-secret",
			Issuer:              "yamdb-test",
			AccessTokenTTL:      time.Hour,
			ConfirmationCodeTTL: time.Minute,
		},
		RateLimit: config.RateLimitConfig{RequestsPerMinute: 100, AuthRequestsPerMinute: 10},
		Mail:      config.MailConfig{From: "noreply@example.com"},
		Observability: config.ObservabilityConfig{
			LogLevel:  "debug",
			LogFormat: "console",
		},
	}
}

// wired builds Dependencies over sqlmock and miniredis
func wired(t *testing.T) (*Dependencies, sqlmock.Sqlmock, *miniredis.Miniredis) {
	t.Helper()
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mr := miniredis.RunT(t)

	logger := zap.NewNop()
	factory := postgres.NewRepositoryFactoryFromDB(postgres.NewDBFromConn(conn, logger), logger)
	deps, err := Wire(testConfig(), logger, factory, redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	return deps, mock, mr
}

func TestWire(t *testing.T) {
	deps, mock, _ := wired(t)

	assert.NotNil(t, deps.Repos.Users)
	assert.NotNil(t, deps.Repos.AuditLogs)
	assert.NotNil(t, deps.TxManager)
	assert.NotNil(t, deps.Guard)
	assert.NotNil(t, deps.AuthMiddleware)
	assert.NotNil(t, deps.PermissionMiddleware)
	assert.NotNil(t, deps.AuthHandler)
	assert.NotNil(t, deps.UserHandler)
	assert.NotNil(t, deps.CatalogHandler)
	assert.NotNil(t, deps.ReviewHandler)
	assert.NotNil(t, deps.BlogHandler)
	assert.NotNil(t, deps.FollowHandler)
	assert.NotNil(t, deps.AuditHandler)
	assert.True(t, deps.Audit.GetStats().Started)

	families, err := deps.Metrics.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	mock.ExpectClose()
	require.NoError(t, deps.Close(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWireReadiness(t *testing.T) {
	t.Run("all dependencies reachable", func(t *testing.T) {
		deps, mock, _ := wired(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		w := httptest.NewRecorder()
		deps.HealthHandler.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis down", func(t *testing.T) {
		deps, mock, mr := wired(t)
		mock.ExpectPing()
		mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
		mr.Close()

		w := httptest.NewRecorder()
		deps.HealthHandler.HandleReadiness(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "redis")
	})
}

func TestNewDependenciesDatabaseFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	deps, err := NewDependencies(ctx, testConfig(), zaptest.NewLogger(t))
	assert.Error(t, err)
	assert.Nil(t, deps)
	assert.Contains(t, err.Error(), "failed to initialize database")
}
