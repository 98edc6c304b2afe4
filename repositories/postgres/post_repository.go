package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// PostRepository implements the repositories.PostRepository interface
type PostRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *DB, logger *zap.Logger) repositories.PostRepository {
	return &PostRepository{db: db, logger: logger}
}

// Create creates a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, author_id, text, group_id, image, pub_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		post.ID,
		post.CreatedBy,
		post.Text,
		post.GroupID,
		post.Image,
		post.PubDate,
	)
	if err != nil {
		return wrapError(err, "create", "post")
	}

	r.logger.Debug("post created", zap.String("id", post.ID.String()))
	return nil
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	query := `
		SELECT p.id, p.author_id, u.username, p.text, p.group_id, p.image, p.pub_date
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	post := &models.Post{}
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id).Scan(postFields(post)...); err != nil {
		return nil, wrapError(err, "get", "post")
	}
	return post, nil
}

// List retrieves a page of posts, newest first
func (r *PostRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Post, int, error) {
	query := `
		SELECT p.id, p.author_id, u.username, p.text, p.group_id, p.image, p.pub_date, COUNT(*) OVER()
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.pub_date DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "posts")
	}
	defer rows.Close()

	posts := []*models.Post{}
	total := 0
	for rows.Next() {
		post := &models.Post{}
		if err := rows.Scan(postFields(post, &total)...); err != nil {
			return nil, 0, wrapError(err, "scan", "post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "post rows")
	}

	return posts, total, nil
}

// Update updates text, group and image of a post
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `UPDATE posts SET text = $2, group_id = $3, image = $4 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, post.ID, post.Text, post.GroupID, post.Image)
	if err != nil {
		return wrapError(err, "update", "post")
	}
	if err := expectAffected(result, "post"); err != nil {
		return err
	}

	r.logger.Debug("post updated", zap.String("id", post.ID.String()))
	return nil
}

// Delete deletes a post and its comments
func (r *PostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "post")
	}
	return expectAffected(result, "post")
}

func postFields(post *models.Post, extra ...interface{}) []interface{} {
	fields := []interface{}{
		&post.ID,
		&post.CreatedBy,
		&post.Author,
		&post.Text,
		&post.GroupID,
		&post.Image,
		&post.PubDate,
	}
	return append(fields, extra...)
}
