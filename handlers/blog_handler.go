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

// BlogManager manages groups, posts and post comments
type BlogManager interface {
	ListGroups(ctx context.Context, params repositories.ListParams) ([]*models.Group, int, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*models.Group, error)

	ListPosts(ctx context.Context, params repositories.ListParams) ([]*models.Post, int, error)
	GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error)
	CreatePost(ctx context.Context, author *models.User, input services.PostInput) (*models.Post, error)
	ReplacePost(ctx context.Context, req authz.Request, id uuid.UUID, input services.PostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, req authz.Request, id uuid.UUID, input services.PostUpdateInput) (*models.Post, error)
	DeletePost(ctx context.Context, req authz.Request, id uuid.UUID) error

	ListPostComments(ctx context.Context, postID uuid.UUID, params repositories.ListParams) ([]*models.PostComment, int, error)
	GetPostComment(ctx context.Context, postID, commentID uuid.UUID) (*models.PostComment, error)
	CreatePostComment(ctx context.Context, author *models.User, postID uuid.UUID, input services.CommentInput) (*models.PostComment, error)
	UpdatePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID, input services.CommentInput) (*models.PostComment, error)
	DeletePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID) error
}

// BlogHandler handles /groups, /posts and the comments under posts
type BlogHandler struct {
	blog   BlogManager
	logger *zap.Logger
}

// NewBlogHandler creates a new BlogHandler
func NewBlogHandler(blog BlogManager, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{blog: blog, logger: logger}
}

// HandleListGroups handles GET /groups
func (h *BlogHandler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	groups, total, err := h.blog.ListGroups(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, groups, h.logger)
}

// HandleGetGroup handles GET /groups/{groupID}
func (h *BlogHandler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, groupParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	group, err := h.blog.GetGroup(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, group, h.logger)
}

// HandleListPosts handles GET /posts
func (h *BlogHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	posts, total, err := h.blog.ListPosts(r.Context(), params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, posts, h.logger)
}

// HandleCreatePost handles POST /posts
func (h *BlogHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var input services.PostInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	post, err := h.blog.CreatePost(r.Context(), middleware.GetUserFromContext(r.Context()), input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, post, h.logger)
}

// HandleGetPost handles GET /posts/{postID}
func (h *BlogHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	post, err := h.blog.GetPost(r.Context(), id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, post, h.logger)
}

// HandleReplacePost handles PUT /posts/{postID}
func (h *BlogHandler) HandleReplacePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.PostInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	post, err := h.blog.ReplacePost(r.Context(), middleware.AuthzRequest(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, post, h.logger)
}

// HandleUpdatePost handles PATCH /posts/{postID}
func (h *BlogHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.PostUpdateInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	post, err := h.blog.UpdatePost(r.Context(), middleware.AuthzRequest(r), id, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, post, h.logger)
}

// HandleDeletePost handles DELETE /posts/{postID}
func (h *BlogHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.blog.DeletePost(r.Context(), middleware.AuthzRequest(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleListComments handles GET /posts/{postID}/comments
func (h *BlogHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	params, err := listParams(r)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	comments, total, err := h.blog.ListPostComments(r.Context(), postID, params)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeList(w, total, comments, h.logger)
}

// HandleCreateComment handles POST /posts/{postID}/comments
func (h *BlogHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, postParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.CommentInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	comment, err := h.blog.CreatePostComment(r.Context(), middleware.GetUserFromContext(r.Context()), postID, input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeCreated(w, comment, h.logger)
}

// HandleGetComment handles GET /posts/{postID}/comments/{commentID}
func (h *BlogHandler) HandleGetComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, postParam, postCommentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	comment, err := h.blog.GetPostComment(r.Context(), ids[0], ids[1])
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, comment, h.logger)
}

// HandleUpdateComment handles PUT and PATCH /posts/{postID}/comments/{commentID}
func (h *BlogHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, postParam, postCommentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	var input services.CommentInput
	if !decodeBody(w, r, &input, h.logger) {
		return
	}
	comment, err := h.blog.UpdatePostComment(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1], input)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	writeOK(w, comment, h.logger)
}

// HandleDeleteComment handles DELETE /posts/{postID}/comments/{commentID}
func (h *BlogHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ids, err := pathIDs(r, postParam, postCommentParam)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	if err := h.blog.DeletePostComment(r.Context(), middleware.AuthzRequest(r), ids[0], ids[1]); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
