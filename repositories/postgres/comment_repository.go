package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// CommentRepository implements the repositories.CommentRepository interface
type CommentRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewCommentRepository creates a new review comment repository
func NewCommentRepository(db *DB, logger *zap.Logger) repositories.CommentRepository {
	return &CommentRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, review_id, author_id, text, pub_date)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		comment.ID,
		comment.ReviewID,
		comment.CreatedBy,
		comment.Text,
		comment.PubDate,
	)
	if err != nil {
		return wrapError(err, "create", "comment")
	}

	r.logger.Debug("comment created", zap.String("id", comment.ID.String()))
	return nil
}

// GetByID retrieves a comment belonging to reviewID
func (r *CommentRepository) GetByID(ctx context.Context, reviewID, id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT cm.id, cm.review_id, cm.author_id, u.username, cm.text, cm.pub_date
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.review_id = $1 AND cm.id = $2
	`

	comment := &models.Comment{}
	err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, reviewID, id).Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.CreatedBy,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
	)
	if err != nil {
		return nil, wrapError(err, "get", "comment")
	}
	return comment, nil
}

// List retrieves a page of comments for a review in posting order
func (r *CommentRepository) List(ctx context.Context, reviewID uuid.UUID, params repositories.ListParams) ([]*models.Comment, int, error) {
	query := `
		SELECT cm.id, cm.review_id, cm.author_id, u.username, cm.text, cm.pub_date, COUNT(*) OVER()
		FROM comments cm
		JOIN users u ON u.id = cm.author_id
		WHERE cm.review_id = $1
		ORDER BY cm.pub_date
		LIMIT $2 OFFSET $3
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, reviewID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "comments")
	}
	defer rows.Close()

	comments := []*models.Comment{}
	total := 0
	for rows.Next() {
		comment := &models.Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.ReviewID,
			&comment.CreatedBy,
			&comment.Author,
			&comment.Text,
			&comment.PubDate,
			&total,
		)
		if err != nil {
			return nil, 0, wrapError(err, "scan", "comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "comment rows")
	}

	return comments, total, nil
}

// Update updates the comment text
func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, comment.ID, comment.Text)
	if err != nil {
		return wrapError(err, "update", "comment")
	}
	return expectAffected(result, "comment")
}

// Delete deletes a comment
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "comment")
	}
	if err := expectAffected(result, "comment"); err != nil {
		return err
	}

	r.logger.Debug("comment deleted", zap.String("id", id.String()))
	return nil
}
