package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to the user it was issued to
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware provides authentication middleware functionality
type AuthMiddleware struct {
	authenticator Authenticator
	logger        *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authenticator Authenticator, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
		logger:        logger,
	}
}

// Authenticate resolves the caller from a Bearer token. Requests without a
// token continue as anonymous; a token that does not validate is rejected
// with 401 rather than downgraded to anonymous.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := GetRequestIDFromContext(ctx)

		token := extractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.authenticator.Authenticate(ctx, token)
		if err != nil {
			m.logger.Warn("token authentication failed",
				zap.String("request_id", requestID),
				zap.Error(err))
			writeError(w, r, err, m.logger)
			return
		}

		m.logger.Debug("authentication successful",
			zap.String("request_id", requestID),
			zap.String("username", user.Username),
			zap.String("role", string(user.Role)))

		next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
	})
}

// RequireAuth rejects anonymous requests with 401
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserFromContext(r.Context()) == nil {
			writeError(w, r, services.ErrUnauthorized, m.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// extractBearerToken extracts the Bearer token from the Authorization header.
// Other schemes are ignored.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
