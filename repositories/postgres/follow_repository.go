package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// FollowRepository implements the repositories.FollowRepository interface
type FollowRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(db *DB, logger *zap.Logger) repositories.FollowRepository {
	return &FollowRepository{db: db, logger: logger}
}

// Create subscribes follow.UserID to follow.FollowingID
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	query := `INSERT INTO follows (id, user_id, following_id) VALUES ($1, $2, $3)`

	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, follow.ID, follow.UserID, follow.FollowingID); err != nil {
		return wrapError(err, "create", "follow")
	}

	r.logger.Debug("follow created",
		zap.String("user_id", follow.UserID.String()),
		zap.String("following_id", follow.FollowingID.String()))
	return nil
}

// ListByUser retrieves the follows of userID, searching the followed username
func (r *FollowRepository) ListByUser(ctx context.Context, userID uuid.UUID, params repositories.ListParams) ([]*models.Follow, int, error) {
	query := `
		SELECT f.id, f.user_id, u.username, f.following_id, fu.username, COUNT(*) OVER()
		FROM follows f
		JOIN users u ON u.id = f.user_id
		JOIN users fu ON fu.id = f.following_id
		WHERE f.user_id = $1
		  AND ($2 = '' OR fu.username ILIKE $3)
		ORDER BY fu.username
		LIMIT $4 OFFSET $5
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query,
		userID, params.Search, likePattern(params.Search), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "follows")
	}
	defer rows.Close()

	follows := []*models.Follow{}
	total := 0
	for rows.Next() {
		f := &models.Follow{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.User, &f.FollowingID, &f.Following, &total); err != nil {
			return nil, 0, wrapError(err, "scan", "follow")
		}
		follows = append(follows, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "follow rows")
	}

	return follows, total, nil
}

// Exists reports whether userID already follows followingID
func (r *FollowRepository) Exists(ctx context.Context, userID, followingID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE user_id = $1 AND following_id = $2)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, userID, followingID).Scan(&exists); err != nil {
		return false, wrapError(err, "check", "follow")
	}
	return exists, nil
}
