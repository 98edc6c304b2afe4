package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// GroupRepository implements the repositories.GroupRepository interface
type GroupRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *DB, logger *zap.Logger) repositories.GroupRepository {
	return &GroupRepository{db: db, logger: logger}
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	query := `SELECT id, title, slug, description FROM groups WHERE id = $1`

	group := &models.Group{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&group.ID,
		&group.Title,
		&group.Slug,
		&group.Description,
	)
	if err != nil {
		return nil, wrapError(err, "get", "group")
	}
	return group, nil
}

// List retrieves a page of groups ordered by title
func (r *GroupRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Group, int, error) {
	query := `
		SELECT id, title, slug, description, COUNT(*) OVER()
		FROM groups
		ORDER BY title
		LIMIT $1 OFFSET $2
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "groups")
	}
	defer rows.Close()

	groups := []*models.Group{}
	total := 0
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Title, &group.Slug, &group.Description, &total); err != nil {
			return nil, 0, wrapError(err, "scan", "group")
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "group rows")
	}

	return groups, total, nil
}
