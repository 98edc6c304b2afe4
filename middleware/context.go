package middleware

import (
	"context"
	"net/http"

	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
)

// Context key type to avoid collisions
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"

	// UserKey is the context key for the authenticated user
	UserKey contextKey = "user"
)

// GetRequestIDFromContext retrieves the request ID from context
func GetRequestIDFromContext(ctx context.Context) string {
	if val := ctx.Value(RequestIDKey); val != nil {
		if requestID, ok := val.(string); ok {
			return requestID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetUserFromContext returns the authenticated user, or nil for anonymous requests
func GetUserFromContext(ctx context.Context) *models.User {
	if val := ctx.Value(UserKey); val != nil {
		if user, ok := val.(*models.User); ok {
			return user
		}
	}
	return nil
}

// WithUser adds the authenticated user to the context
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, UserKey, user)
}

// PrincipalFromContext returns the caller's principal. Requests without a
// user resolve to the anonymous principal.
func PrincipalFromContext(ctx context.Context) authz.Principal {
	return GetUserFromContext(ctx).Principal()
}

// AuthzRequest describes r for the authorization engine
func AuthzRequest(r *http.Request) authz.Request {
	return authz.Request{
		Principal: PrincipalFromContext(r.Context()),
		Method:    r.Method,
	}
}
