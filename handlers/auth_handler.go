package handlers

import (
	"context"
	"net/http"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// Registrar performs the confirmation code signup flow
type Registrar interface {
	Signup(ctx context.Context, input services.SignupInput) (*models.User, error)
	Token(ctx context.Context, input services.TokenInput) (string, error)
}

// SignupResponse echoes the identity a confirmation code was sent for
type SignupResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenResponse carries an access token
type TokenResponse struct {
	Token string `json:"token"`
}

// AuthHandler handles the public signup and token endpoints
type AuthHandler struct {
	registrar Registrar
	logger    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(registrar Registrar, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{registrar: registrar, logger: logger}
}

// HandleSignup handles POST /auth/signup
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var input services.SignupInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}

	user, err := h.registrar.Signup(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOK(w, SignupResponse{Email: user.Email, Username: user.Username}, h.logger)
}

// HandleToken handles POST /auth/token
func (h *AuthHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var input services.TokenInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}

	token, err := h.registrar.Token(r.Context(), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	writeOK(w, TokenResponse{Token: token}, h.logger)
}
