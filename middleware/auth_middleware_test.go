package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/services"
	"github.com/upb/yamdb/utils"
	"go.uber.org/zap"
)

// MockAuthenticator is a mock implementation of Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newUser(username string, role authz.Role) *models.User {
	u := models.NewUser(username, username+"@example.com")
	u.Role = role
	return u
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.ErrorResponse {
	t.Helper()
	var body utils.ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestAuthenticate(t *testing.T) {
	logger := zap.NewNop()

	t.Run("valid token puts the user in context", func(t *testing.T) {
		authenticator := new(MockAuthenticator)
		user := newUser("alice", authz.RoleModerator)
		authenticator.On("Authenticate", mock.Anything, "valid-token").Return(user, nil)

		var seen authz.Principal
		handler := NewAuthMiddleware(authenticator, logger).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, user, GetUserFromContext(r.Context()))
			seen = PrincipalFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, seen.IsModerator())
		assert.Equal(t, user.ID, seen.ID())
		authenticator.AssertExpectations(t)
	})

	t.Run("missing token continues as anonymous", func(t *testing.T) {
		authenticator := new(MockAuthenticator)
		handler := NewAuthMiddleware(authenticator, logger).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Nil(t, GetUserFromContext(r.Context()))
			assert.False(t, PrincipalFromContext(r.Context()).IsAuthenticated())
			w.WriteHeader(http.StatusNoContent)
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		authenticator.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("other schemes are ignored", func(t *testing.T) {
		authenticator := new(MockAuthenticator)
		handler := NewAuthMiddleware(authenticator, logger).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		authenticator.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		authenticator := new(MockAuthenticator)
		authenticator.On("Authenticate", mock.Anything, "bad").Return(nil, services.ErrInvalidToken)

		called := false
		handler := NewAuthMiddleware(authenticator, logger).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "bearer bad")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		body := decodeError(t, w)
		assert.Equal(t, "unauthorized", body.Error)
		assert.Equal(t, "invalid authentication token", body.Message)
	})

	t.Run("lookup failure is a server error", func(t *testing.T) {
		authenticator := new(MockAuthenticator)
		authenticator.On("Authenticate", mock.Anything, "tok").
			Return(nil, services.WrapInternal("database error", errors.New("down")))

		handler := NewAuthMiddleware(authenticator, logger).Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestRequireAuth(t *testing.T) {
	m := NewAuthMiddleware(new(MockAuthenticator), zap.NewNop())
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("anonymous", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req = req.WithContext(WithUser(req.Context(), newUser("bob", authz.RoleUser)))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc", "abc"},
		{"BEARER  abc ", "abc"},
		{"Token abc", ""},
		{"Bearer", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		assert.Equal(t, tt.want, extractBearerToken(req), tt.header)
	}
}
