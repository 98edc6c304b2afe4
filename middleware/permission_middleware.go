package middleware

import (
	"net/http"

	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// PermissionMiddleware runs the request-level half of an authorization
// policy before the handler. Object-level checks happen in the services once
// the resource is loaded.
type PermissionMiddleware struct {
	guard  *authz.Guard
	logger *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(guard *authz.Guard, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{guard: guard, logger: logger}
}

// Require rejects requests that p does not admit: 401 for anonymous callers,
// 403 for everyone else. Run it after AuthMiddleware.Authenticate.
func (m *PermissionMiddleware) Require(p authz.Predicate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.guard.CheckRequest(p, AuthzRequest(r)); err != nil {
				writeError(w, r, services.FromAuthz(err), m.logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
