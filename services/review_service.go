package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// ReviewInput is the body for creating a review
type ReviewInput struct {
	Text  string `json:"text" validate:"required"`
	Score int    `json:"score" validate:"required,gte=1,lte=10"`
}

// ReviewUpdateInput is a partial review update
type ReviewUpdateInput struct {
	Text  *string `json:"text"`
	Score *int    `json:"score" validate:"omitempty,gte=1,lte=10"`
}

// CommentInput is the body for creating or editing a comment
type CommentInput struct {
	Text string `json:"text" validate:"required"`
}

// ReviewService manages reviews of titles and the comments under them.
// Changes to existing objects are checked against authz.ContentPolicy.
type ReviewService struct {
	titles   repositories.TitleRepository
	reviews  repositories.ReviewRepository
	comments repositories.CommentRepository
	guard    *authz.Guard
	audit    AuditRecorder
	logger   *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	titles repositories.TitleRepository,
	reviews repositories.ReviewRepository,
	comments repositories.CommentRepository,
	guard *authz.Guard,
	audit AuditRecorder,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		titles:   titles,
		reviews:  reviews,
		comments: comments,
		guard:    guard,
		audit:    audit,
		logger:   logger,
	}
}

func (s *ReviewService) requireTitle(ctx context.Context, titleID uuid.UUID) error {
	if _, err := s.titles.GetByID(ctx, titleID); err != nil {
		return fromRepository(err, ErrTitleNotFound, nil)
	}
	return nil
}

// ListReviews returns a page of reviews of a title
func (s *ReviewService) ListReviews(ctx context.Context, titleID uuid.UUID, params repositories.ListParams) ([]*models.Review, int, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	reviews, total, err := s.reviews.List(ctx, titleID, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return reviews, total, nil
}

// GetReview returns a review of a title
func (s *ReviewService) GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*models.Review, error) {
	review, err := s.reviews.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, fromRepository(err, ErrReviewNotFound, nil)
	}
	return review, nil
}

// CreateReview adds author's review of a title. A second review by the same
// author is rejected.
func (s *ReviewService) CreateReview(ctx context.Context, author *models.User, titleID uuid.UUID, input ReviewInput) (*models.Review, error) {
	if err := requireAuthenticated(author.Principal()); err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviews.ExistsForAuthor(ctx, titleID, author.ID)
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := models.NewReview(titleID, author, input.Text, input.Score)
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, fromRepository(err, nil, ErrDuplicateReview)
	}

	s.logger.Debug("review created",
		zap.String("review_id", review.ID.String()),
		zap.String("title_id", titleID.String()))
	return review, nil
}

// UpdateReview edits a review's text or score
func (s *ReviewService) UpdateReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID, input ReviewUpdateInput) (*models.Review, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckObject(authz.ContentPolicy, req, review); err != nil {
		return nil, FromAuthz(err)
	}

	if input.Text != nil {
		text := strings.TrimSpace(*input.Text)
		if text == "" {
			return nil, wrap(ErrInvalidInput, nil).WithDetail("text", "text cannot be blank")
		}
		review.Text = text
	}
	if input.Score != nil {
		review.Score = *input.Score
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, fromRepository(err, ErrReviewNotFound, nil)
	}

	entry := models.NewAuditLog(req.Principal, models.AuditActionReviewUpdated, "review", review.ID).
		WithDetails(map[string]interface{}{"title_id": titleID, "score": review.Score})
	recordModeration(ctx, s.audit, s.logger, req.Principal, review, entry)
	return review, nil
}

// DeleteReview removes a review with its comments
func (s *ReviewService) DeleteReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID) error {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckObject(authz.ContentPolicy, req, review); err != nil {
		return FromAuthz(err)
	}

	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return fromRepository(err, ErrReviewNotFound, nil)
	}

	entry := models.NewAuditLog(req.Principal, models.AuditActionReviewDeleted, "review", review.ID).
		WithDetails(map[string]interface{}{"title_id": titleID, "text": review.Text, "score": review.Score})
	recordModeration(ctx, s.audit, s.logger, req.Principal, review, entry)
	return nil
}

// ListComments returns a page of comments under a review
func (s *ReviewService) ListComments(ctx context.Context, titleID, reviewID uuid.UUID, params repositories.ListParams) ([]*models.Comment, int, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.comments.List(ctx, reviewID, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return comments, total, nil
}

// GetComment returns a comment under a review of a title
func (s *ReviewService) GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.comments.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, fromRepository(err, ErrCommentNotFound, nil)
	}
	return comment, nil
}

// CreateComment adds author's comment to a review
func (s *ReviewService) CreateComment(ctx context.Context, author *models.User, titleID, reviewID uuid.UUID, input CommentInput) (*models.Comment, error) {
	if err := requireAuthenticated(author.Principal()); err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if _, err := s.GetReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := models.NewComment(reviewID, author, input.Text)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	return comment, nil
}

// UpdateComment edits a comment's text
func (s *ReviewService) UpdateComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID, input CommentInput) (*models.Comment, error) {
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckObject(authz.ContentPolicy, req, comment); err != nil {
		return nil, FromAuthz(err)
	}

	comment.Text = input.Text
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fromRepository(err, ErrCommentNotFound, nil)
	}

	entry := models.NewAuditLog(req.Principal, models.AuditActionCommentUpdated, "comment", comment.ID).
		WithDetails(map[string]interface{}{"review_id": reviewID})
	recordModeration(ctx, s.audit, s.logger, req.Principal, comment, entry)
	return comment, nil
}

// DeleteComment removes a comment
func (s *ReviewService) DeleteComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID) error {
	comment, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckObject(authz.ContentPolicy, req, comment); err != nil {
		return FromAuthz(err)
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fromRepository(err, ErrCommentNotFound, nil)
	}

	entry := models.NewAuditLog(req.Principal, models.AuditActionCommentDeleted, "comment", comment.ID).
		WithDetails(map[string]interface{}{"review_id": reviewID, "text": comment.Text})
	recordModeration(ctx, s.audit, s.logger, req.Principal, comment, entry)
	return nil
}
