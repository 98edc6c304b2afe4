package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// PostCommentRepository implements the repositories.PostCommentRepository interface
type PostCommentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPostCommentRepository creates a new post comment repository
func NewPostCommentRepository(db *DB, logger *zap.Logger) repositories.PostCommentRepository {
	return &PostCommentRepository{db: db, logger: logger}
}

// Create creates a new post comment
func (r *PostCommentRepository) Create(ctx context.Context, comment *models.PostComment) error {
	query := `
		INSERT INTO post_comments (id, post_id, author_id, text, created)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		comment.ID,
		comment.PostID,
		comment.CreatedBy,
		comment.Text,
		comment.Created,
	)
	if err != nil {
		return wrapError(err, "create", "post comment")
	}
	return nil
}

// GetByID retrieves a comment belonging to postID
func (r *PostCommentRepository) GetByID(ctx context.Context, postID, id uuid.UUID) (*models.PostComment, error) {
	query := `
		SELECT pc.id, pc.post_id, pc.author_id, u.username, pc.text, pc.created
		FROM post_comments pc
		JOIN users u ON u.id = pc.author_id
		WHERE pc.post_id = $1 AND pc.id = $2
	`

	comment := &models.PostComment{}
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, postID, id).Scan(postCommentFields(comment)...); err != nil {
		return nil, wrapError(err, "get", "post comment")
	}
	return comment, nil
}

// List retrieves a page of comments for a post
func (r *PostCommentRepository) List(ctx context.Context, postID uuid.UUID, params repositories.ListParams) ([]*models.PostComment, int, error) {
	query := `
		SELECT pc.id, pc.post_id, pc.author_id, u.username, pc.text, pc.created, COUNT(*) OVER()
		FROM post_comments pc
		JOIN users u ON u.id = pc.author_id
		WHERE pc.post_id = $1
		ORDER BY pc.created
		LIMIT $2 OFFSET $3
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, postID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "post comments")
	}
	defer rows.Close()

	comments := []*models.PostComment{}
	total := 0
	for rows.Next() {
		comment := &models.PostComment{}
		if err := rows.Scan(postCommentFields(comment, &total)...); err != nil {
			return nil, 0, wrapError(err, "scan", "post comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "post comment rows")
	}

	return comments, total, nil
}

// Update updates the comment text
func (r *PostCommentRepository) Update(ctx context.Context, comment *models.PostComment) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE post_comments SET text = $2 WHERE id = $1`, comment.ID, comment.Text)
	if err != nil {
		return wrapError(err, "update", "post comment")
	}
	return expectAffected(result, "post comment")
}

// Delete deletes a post comment
func (r *PostCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM post_comments WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "post comment")
	}
	return expectAffected(result, "post comment")
}

func postCommentFields(comment *models.PostComment, extra ...interface{}) []interface{} {
	fields := []interface{}{
		&comment.ID,
		&comment.PostID,
		&comment.CreatedBy,
		&comment.Author,
		&comment.Text,
		&comment.Created,
	}
	return append(fields, extra...)
}
