package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

const reviewSelect = `
	SELECT rv.id, rv.title_id, rv.author_id, u.username, rv.text, rv.score, rv.pub_date`

// ReviewRepository implements the repositories.ReviewRepository interface
type ReviewRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *DB, logger *zap.Logger) repositories.ReviewRepository {
	return &ReviewRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new review. A second review by the same author on the
// same title fails with repositories.ErrDuplicate.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (id, title_id, author_id, text, score, pub_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		review.ID,
		review.TitleID,
		review.CreatedBy,
		review.Text,
		review.Score,
		review.PubDate,
	)
	if err != nil {
		return wrapError(err, "create", "review")
	}

	r.logger.Debug("review created", zap.String("id", review.ID.String()), zap.String("title_id", review.TitleID.String()))
	return nil
}

// GetByID retrieves a review belonging to titleID
func (r *ReviewRepository) GetByID(ctx context.Context, titleID, id uuid.UUID) (*models.Review, error) {
	query := reviewSelect + `
		FROM reviews rv
		JOIN users u ON u.id = rv.author_id
		WHERE rv.title_id = $1 AND rv.id = $2
	`

	review := &models.Review{}
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, titleID, id).Scan(reviewFields(review)...); err != nil {
		return nil, wrapError(err, "get", "review")
	}
	return review, nil
}

// List retrieves a page of reviews for a title, newest first
func (r *ReviewRepository) List(ctx context.Context, titleID uuid.UUID, params repositories.ListParams) ([]*models.Review, int, error) {
	query := reviewSelect + `, COUNT(*) OVER()
		FROM reviews rv
		JOIN users u ON u.id = rv.author_id
		WHERE rv.title_id = $1
		ORDER BY rv.pub_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, titleID, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "reviews")
	}
	defer rows.Close()

	reviews := []*models.Review{}
	total := 0
	for rows.Next() {
		review := &models.Review{}
		if err := rows.Scan(reviewFields(review, &total)...); err != nil {
			return nil, 0, wrapError(err, "scan", "review")
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "review rows")
	}

	return reviews, total, nil
}

// ExistsForAuthor reports whether authorID already reviewed titleID
func (r *ReviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM reviews WHERE title_id = $1 AND author_id = $2)`

	var exists bool
	if err := GetExecutor(ctx, r.db).QueryRowContext(ctx, query, titleID, authorID).Scan(&exists); err != nil {
		return false, wrapError(err, "check", "review")
	}
	return exists, nil
}

// Update updates the text and score. Author and title never change.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	query := `UPDATE reviews SET text = $2, score = $3 WHERE id = $1`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, review.ID, review.Text, review.Score)
	if err != nil {
		return wrapError(err, "update", "review")
	}
	if err := expectAffected(result, "review"); err != nil {
		return err
	}

	r.logger.Debug("review updated", zap.String("id", review.ID.String()))
	return nil
}

// Delete deletes a review and its comments
func (r *ReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "review")
	}
	if err := expectAffected(result, "review"); err != nil {
		return err
	}

	r.logger.Debug("review deleted", zap.String("id", id.String()))
	return nil
}

func reviewFields(review *models.Review, extra ...interface{}) []interface{} {
	fields := []interface{}{
		&review.ID,
		&review.TitleID,
		&review.CreatedBy,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
	}
	return append(fields, extra...)
}
