package services

import (
	"context"
	"errors"
	"strings"

	"github.com/upb/yamdb/auth"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// CodeStore keeps pending confirmation codes
type CodeStore interface {
	Save(ctx context.Context, username, code string) error
	Consume(ctx context.Context, username, code string) error
}

// TokenService issues and validates access tokens
type TokenService interface {
	Issue(user *models.User) (string, error)
	Validate(token string) (*auth.Claims, error)
}

// SignupInput is the body of a signup request
type SignupInput struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

// TokenInput is the body of a token request
type TokenInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" validate:"required"`
}

// AuthService implements passwordless signup with emailed confirmation codes
type AuthService struct {
	users    repositories.UserRepository
	codes    CodeStore
	mailer   auth.Mailer
	tokens   TokenService
	generate func() (string, error)
	logger   *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, codes CodeStore, mailer auth.Mailer, tokens TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		codes:    codes,
		mailer:   mailer,
		tokens:   tokens,
		generate: auth.GenerateCode,
		logger:   logger,
	}
}

// Signup registers the user if needed and mails a fresh confirmation code.
// Repeating a signup with the same username and email re-issues the code.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if input.Username == models.ReservedUsername {
		return nil, ErrReservedUsername
	}

	user, err := s.findOrCreate(ctx, input.Username, input.Email)
	if err != nil {
		return nil, err
	}

	code, err := s.generate()
	if err != nil {
		return nil, WrapInternal("failed to generate confirmation code", err)
	}
	if err := s.codes.Save(ctx, user.Username, code); err != nil {
		s.logger.Error("failed to store confirmation code", zap.String("username", user.Username), zap.Error(err))
		return nil, wrap(ErrCacheFailed, err)
	}
	if err := s.mailer.SendConfirmationCode(ctx, user.Email, user.Username, code); err != nil {
		s.logger.Error("failed to send confirmation code", zap.String("username", user.Username), zap.Error(err))
		return nil, wrap(ErrMailDelivery, err)
	}

	return user, nil
}

func (s *AuthService) findOrCreate(ctx context.Context, username, email string) (*models.User, error) {
	matches, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	for _, u := range matches {
		if u.Username == username && u.Email == email {
			return u, nil
		}
	}
	if err := checkIdentityClash(matches, username, email, nil); err != nil {
		return nil, err
	}

	user := models.NewUser(username, email)
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fromRepository(err, nil, ErrUsernameTaken)
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()), zap.String("username", username))
	return user, nil
}

// Token exchanges a confirmation code for an access token
func (s *AuthService) Token(ctx context.Context, input TokenInput) (string, error) {
	if err := validateInput(&input); err != nil {
		return "", err
	}

	user, err := s.users.GetByUsername(ctx, input.Username)
	if err != nil {
		return "", fromRepository(err, ErrUserNotFound, nil)
	}

	if err := s.codes.Consume(ctx, user.Username, input.ConfirmationCode); err != nil {
		if errors.Is(err, auth.ErrCodeNotFound) || errors.Is(err, auth.ErrCodeMismatch) {
			return "", wrap(ErrInvalidConfirmationCode, err)
		}
		return "", wrap(ErrCacheFailed, err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", WrapInternal("failed to issue token", err)
	}
	return token, nil
}

// Authenticate resolves the user behind a bearer token
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, wrap(ErrTokenExpired, err)
		}
		return nil, wrap(ErrInvalidToken, err)
	}

	id, err := claims.UserID()
	if err != nil {
		return nil, wrap(ErrInvalidToken, err)
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		// token for a deleted account
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, wrap(ErrInvalidToken, err)
		}
		return nil, wrap(ErrDatabaseError, err)
	}
	return user, nil
}

// checkIdentityClash reports which identifier is held by another account.
// self, when set, is ignored.
func checkIdentityClash(matches []*models.User, username, email string, self *models.User) error {
	for _, u := range matches {
		if self != nil && u.ID == self.ID {
			continue
		}
		if u.Username == username {
			return ErrUsernameTaken
		}
		if u.Email == email {
			return ErrEmailTaken
		}
	}
	return nil
}
