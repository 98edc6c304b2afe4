package services

import (
	"context"
	"strings"
	"time"

	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// CreateUserInput is the body of an admin user creation request
type CreateUserInput struct {
	Username  string `json:"username" validate:"required,max=150,username"`
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
	Bio       string `json:"bio"`
	Role      string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UpdateUserInput is a partial update; nil fields are left unchanged
type UpdateUserInput struct {
	Username  *string `json:"username" validate:"omitempty,max=150,username"`
	Email     *string `json:"email" validate:"omitempty,email,max=254"`
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Bio       *string `json:"bio"`
	Role      *string `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

// UserService manages accounts
type UserService struct {
	users  repositories.UserRepository
	audit  AuditRecorder
	logger *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, audit AuditRecorder, logger *zap.Logger) *UserService {
	return &UserService{users: users, audit: audit, logger: logger}
}

// List returns a page of users matching the username search
func (s *UserService) List(ctx context.Context, params repositories.ListParams) ([]*models.User, int, error) {
	users, total, err := s.users.List(ctx, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return users, total, nil
}

// Get returns a user by username
func (s *UserService) Get(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fromRepository(err, ErrUserNotFound, nil)
	}
	return user, nil
}

// Create adds a user on behalf of an administrator
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if input.Username == models.ReservedUsername {
		return nil, ErrReservedUsername
	}

	matches, err := s.users.FindByUsernameOrEmail(ctx, input.Username, input.Email)
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	if err := checkIdentityClash(matches, input.Username, input.Email, nil); err != nil {
		return nil, err
	}

	user := models.NewUser(input.Username, input.Email)
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Bio = input.Bio
	if input.Role != "" {
		role, err := authz.ParseRole(input.Role)
		if err != nil {
			return nil, WrapValidation("invalid role", err)
		}
		user.Role = role
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fromRepository(err, nil, ErrUsernameTaken)
	}
	return user, nil
}

// Update applies an administrator's changes to the named user
func (s *UserService) Update(ctx context.Context, actor authz.Principal, username string, input UpdateUserInput) (*models.User, error) {
	user, err := s.Get(ctx, username)
	if err != nil {
		return nil, err
	}

	previousRole := user.Role
	if err := s.apply(ctx, user, input); err != nil {
		return nil, err
	}

	if user.Role != previousRole {
		entry := models.NewAuditLog(actor, models.AuditActionUserRoleChanged, "user", user.ID).
			WithOwner(user.ID).
			WithDetails(map[string]string{"from": string(previousRole), "to": string(user.Role)})
		recordAudit(ctx, s.audit, s.logger, entry)
	}
	return user, nil
}

// Delete removes the named user
func (s *UserService) Delete(ctx context.Context, actor authz.Principal, username string) error {
	user, err := s.Get(ctx, username)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return fromRepository(err, ErrUserNotFound, nil)
	}

	entry := models.NewAuditLog(actor, models.AuditActionUserDeleted, "user", user.ID).
		WithOwner(user.ID).
		WithDetails(map[string]string{"username": user.Username})
	recordAudit(ctx, s.audit, s.logger, entry)
	return nil
}

// Me returns the caller's own account
func (s *UserService) Me(ctx context.Context, p authz.Principal) (*models.User, error) {
	if err := requireAuthenticated(p); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, p.ID())
	if err != nil {
		return nil, fromRepository(err, ErrUserNotFound, nil)
	}
	return user, nil
}

// UpdateMe applies the caller's changes to their own account. The role is
// never changed through this path.
func (s *UserService) UpdateMe(ctx context.Context, p authz.Principal, input UpdateUserInput) (*models.User, error) {
	user, err := s.Me(ctx, p)
	if err != nil {
		return nil, err
	}
	input.Role = nil
	if err := s.apply(ctx, user, input); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) apply(ctx context.Context, user *models.User, input UpdateUserInput) error {
	if err := validateInput(&input); err != nil {
		return err
	}

	username, email := user.Username, user.Email
	if input.Username != nil {
		username = strings.TrimSpace(*input.Username)
		if username == models.ReservedUsername {
			return ErrReservedUsername
		}
	}
	if input.Email != nil {
		email = strings.TrimSpace(*input.Email)
	}
	if username != user.Username || email != user.Email {
		matches, err := s.users.FindByUsernameOrEmail(ctx, username, email)
		if err != nil {
			return wrap(ErrDatabaseError, err)
		}
		if err := checkIdentityClash(matches, username, email, user); err != nil {
			return err
		}
	}

	user.Username = username
	user.Email = email
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.Role != nil {
		role, err := authz.ParseRole(*input.Role)
		if err != nil {
			return WrapValidation("invalid role", err)
		}
		user.Role = role
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return fromRepository(err, ErrUserNotFound, ErrUsernameTaken)
	}
	return nil
}
