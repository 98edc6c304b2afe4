package services

import (
	"context"
	"strings"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// FollowInput names the user to subscribe to
type FollowInput struct {
	Following string `json:"following" validate:"required,max=150"`
}

// FollowService manages the caller's subscriptions
type FollowService struct {
	users   repositories.UserRepository
	follows repositories.FollowRepository
	logger  *zap.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(users repositories.UserRepository, follows repositories.FollowRepository, logger *zap.Logger) *FollowService {
	return &FollowService{users: users, follows: follows, logger: logger}
}

// List returns the caller's follows, searching the followed username
func (s *FollowService) List(ctx context.Context, user *models.User, params repositories.ListParams) ([]*models.Follow, int, error) {
	if err := requireAuthenticated(user.Principal()); err != nil {
		return nil, 0, err
	}
	follows, total, err := s.follows.ListByUser(ctx, user.ID, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return follows, total, nil
}

// Follow subscribes user to the named account
func (s *FollowService) Follow(ctx context.Context, user *models.User, input FollowInput) (*models.Follow, error) {
	if err := requireAuthenticated(user.Principal()); err != nil {
		return nil, err
	}
	input.Following = strings.TrimSpace(input.Following)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	following, err := s.users.GetByUsername(ctx, input.Following)
	if err != nil {
		return nil, fromRepository(err, wrap(ErrInvalidInput, nil).WithDetail("following", "user does not exist"), nil)
	}
	if following.ID == user.ID {
		return nil, ErrSelfFollow
	}

	exists, err := s.follows.Exists(ctx, user.ID, following.ID)
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	if exists {
		return nil, ErrDuplicateFollow
	}

	follow := models.NewFollow(user, following)
	if err := s.follows.Create(ctx, follow); err != nil {
		return nil, fromRepository(err, nil, ErrDuplicateFollow)
	}

	s.logger.Debug("follow created", zap.String("user", user.Username), zap.String("following", following.Username))
	return follow, nil
}
