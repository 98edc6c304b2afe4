package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// UserManager is the account administration surface
type UserManager interface {
	List(ctx context.Context, params repositories.ListParams) ([]*models.User, int, error)
	Get(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, input services.CreateUserInput) (*models.User, error)
	Update(ctx context.Context, actor authz.Principal, username string, input services.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, actor authz.Principal, username string) error
	Me(ctx context.Context, p authz.Principal) (*models.User, error)
	UpdateMe(ctx context.Context, p authz.Principal, input services.UpdateUserInput) (*models.User, error)
}

// UserHandler handles /users
type UserHandler struct {
	users  UserManager
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users UserManager, logger *zap.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList handles GET /users
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	users, total, err := h.users.List(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, users, h.logger)
}

// HandleCreate handles POST /users
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input services.CreateUserInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	user, err := h.users.Create(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, user, h.logger)
}

// HandleGet handles GET /users/{username}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}

// HandleUpdate handles PATCH /users/{username}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateUserInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	actor := middleware.PrincipalFromContext(r.Context())
	user, err := h.users.Update(r.Context(), actor, chi.URLParam(r, "username"), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}

// HandleDelete handles DELETE /users/{username}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := middleware.PrincipalFromContext(r.Context())
	if err := h.users.Delete(r.Context(), actor, chi.URLParam(r, "username")); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /users/me
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), middleware.PrincipalFromContext(r.Context()))
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}

// HandleUpdateMe handles PATCH /users/me
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateUserInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	user, err := h.users.UpdateMe(r.Context(), middleware.PrincipalFromContext(r.Context()), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, user, h.logger)
}
