package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/middleware"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
	"go.uber.org/zap"
)

// ReviewManager manages reviews and review comments
type ReviewManager interface {
	ListReviews(ctx context.Context, titleID uuid.UUID, params repositories.ListParams) ([]*models.Review, int, error)
	GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*models.Review, error)
	CreateReview(ctx context.Context, author *models.User, titleID uuid.UUID, input services.ReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID, input services.ReviewUpdateInput) (*models.Review, error)
	DeleteReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID) error

	ListComments(ctx context.Context, titleID, reviewID uuid.UUID, params repositories.ListParams) ([]*models.Comment, int, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*models.Comment, error)
	CreateComment(ctx context.Context, author *models.User, titleID, reviewID uuid.UUID, input services.CommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID, input services.CommentInput) (*models.Comment, error)
	DeleteComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID) error
}

// ReviewHandler handles /titles/{titleID}/reviews and the comments under them
type ReviewHandler struct {
	reviews ReviewManager
	logger  *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviews ReviewManager, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, logger: logger}
}

// HandleListReviews handles GET /titles/{titleID}/reviews
func (h *ReviewHandler) HandleListReviews(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathID(r, titleParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	reviews, total, err := h.reviews.ListReviews(r.Context(), titleID, params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, reviews, h.logger)
}

// HandleCreateReview handles POST /titles/{titleID}/reviews
func (h *ReviewHandler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	titleID, err := pathID(r, titleParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.ReviewInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	review, err := h.reviews.CreateReview(r.Context(), middleware.GetUserFromContext(r.Context()), titleID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, review, h.logger)
}

// HandleGetReview handles GET /titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	review, err := h.reviews.GetReview(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, review, h.logger)
}

// HandleUpdateReview handles PATCH /titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) HandleUpdateReview(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.ReviewUpdateInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	review, err := h.reviews.UpdateReview(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1], input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, review, h.logger)
}

// HandleDeleteReview handles DELETE /titles/{titleID}/reviews/{reviewID}
func (h *ReviewHandler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.reviews.DeleteReview(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1]); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListComments handles GET .../reviews/{reviewID}/comments
func (h *ReviewHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	comments, total, err := h.reviews.ListComments(r.Context(), ids[0], ids[1], params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, comments, h.logger)
}

// HandleCreateComment handles POST .../reviews/{reviewID}/comments
func (h *ReviewHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.CommentInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	comment, err := h.reviews.CreateComment(r.Context(), middleware.GetUserFromContext(r.Context()), ids[0], ids[1], input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, comment, h.logger)
}

// HandleGetComment handles GET .../comments/{commentID}
func (h *ReviewHandler) HandleGetComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam, commentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	comment, err := h.reviews.GetComment(r.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, comment, h.logger)
}

// HandleUpdateComment handles PATCH .../comments/{commentID}
func (h *ReviewHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam, commentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.CommentInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	comment, err := h.reviews.UpdateComment(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1], ids[2], input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, comment, h.logger)
}

// HandleDeleteComment handles DELETE .../comments/{commentID}
func (h *ReviewHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, titleParam, reviewParam, commentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.reviews.DeleteComment(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1], ids[2]); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
