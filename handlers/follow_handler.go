package handlers

import (
	"context"
	"net/http"

	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// FollowManager manages the caller's subscriptions
type FollowManager interface {
	List(ctx context.Context, user *models.User, params repositories.ListParams) ([]*models.Follow, int, error)
	Follow(ctx context.Context, user *models.User, input services.FollowInput) (*models.Follow, error)
}

// FollowHandler handles /follow
type FollowHandler struct {
	follows FollowManager
	logger  *zap.Logger
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(follows FollowManager, logger *zap.Logger) *FollowHandler {
	return &FollowHandler{follows: follows, logger: logger}
}

// HandleList handles GET /follow?search=
func (h *FollowHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	follows, total, err := h.follows.List(r.Context(), middleware.GetUserFromContext(r.Context()), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, follows, h.logger)
}

// HandleFollow handles POST /follow
func (h *FollowHandler) HandleFollow(w http.ResponseWriter, r *http.Request) {
	var input services.FollowInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	follow, err := h.follows.Follow(r.Context(), middleware.GetUserFromContext(r.Context()), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, follow, h.logger)
}
