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

// PostInput is the full representation of a post accepted on create and replace
type PostInput struct {
	Text  string     `json:"text" validate:"required"`
	Group *uuid.UUID `json:"group"`
	Image *string    `json:"image" validate:"omitempty,url,max=2048"`
}

// PostUpdateInput is a partial post update. Absent fields are left
// unchanged; an explicit null group or image clears it.
type PostUpdateInput struct {
	Text  *string             `json:"text"`
	Group Optional[uuid.UUID] `json:"group"`
	Image Optional[string]    `json:"image"`
}

type postImage struct {
	Image string `json:"image" validate:"omitempty,url,max=2048"`
}

// BlogService manages groups, posts and post comments. Changes to existing
// posts and comments are checked against authz.OwnContentPolicy.
type BlogService struct {
	groups       repositories.GroupRepository
	posts        repositories.PostRepository
	postComments repositories.PostCommentRepository
	guard        *authz.Guard
	logger       *zap.Logger
}

// NewBlogService creates a new BlogService
func NewBlogService(
	groups repositories.GroupRepository,
	posts repositories.PostRepository,
	postComments repositories.PostCommentRepository,
	guard *authz.Guard,
	logger *zap.Logger,
) *BlogService {
	return &BlogService{
		groups:       groups,
		posts:        posts,
		postComments: postComments,
		guard:        guard,
		logger:       logger,
	}
}

// ListGroups returns a page of groups
func (s *BlogService) ListGroups(ctx context.Context, params repositories.ListParams) ([]*models.Group, int, error) {
	groups, total, err := s.groups.List(ctx, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return groups, total, nil
}

// GetGroup returns a group
func (s *BlogService) GetGroup(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err, ErrGroupNotFound, nil)
	}
	return group, nil
}

// ListPosts returns a page of posts, newest first
func (s *BlogService) ListPosts(ctx context.Context, params repositories.ListParams) ([]*models.Post, int, error) {
	posts, total, err := s.posts.List(ctx, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return posts, total, nil
}

// GetPost returns a post
func (s *BlogService) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err, ErrPostNotFound, nil)
	}
	return post, nil
}

// CreatePost publishes a post by author
func (s *BlogService) CreatePost(ctx context.Context, author *models.User, input PostInput) (*models.Post, error) {
	if err := requireAuthenticated(author.Principal()); err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.checkGroup(ctx, input.Group); err != nil {
		return nil, err
	}

	post := models.NewPost(author, input.Text)
	post.GroupID = input.Group
	post.Image = input.Image
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	return post, nil
}

// ReplacePost overwrites every editable field of a post
func (s *BlogService) ReplacePost(ctx context.Context, req authz.Request, id uuid.UUID, input PostInput) (*models.Post, error) {
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	return s.modifyPost(ctx, req, id, func(post *models.Post) error {
		if err := s.checkGroup(ctx, input.Group); err != nil {
			return err
		}
		post.Text = input.Text
		post.GroupID = input.Group
		post.Image = input.Image
		return nil
	})
}

// UpdatePost applies a partial update to a post
func (s *BlogService) UpdatePost(ctx context.Context, req authz.Request, id uuid.UUID, input PostUpdateInput) (*models.Post, error) {
	if input.Image.Value != nil {
		if err := validateInput(&postImage{Image: *input.Image.Value}); err != nil {
			return nil, err
		}
	}
	return s.modifyPost(ctx, req, id, func(post *models.Post) error {
		if input.Text != nil {
			text := strings.TrimSpace(*input.Text)
			if text == "" {
				return wrap(ErrInvalidInput, nil).WithDetail("text", "text cannot be blank")
			}
			post.Text = text
		}
		if input.Group.Set {
			if err := s.checkGroup(ctx, input.Group.Value); err != nil {
				return err
			}
			post.GroupID = input.Group.Value
		}
		if input.Image.Set {
			post.Image = input.Image.Value
		}
		return nil
	})
}

func (s *BlogService) modifyPost(ctx context.Context, req authz.Request, id uuid.UUID, apply func(*models.Post) error) (*models.Post, error) {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckObject(authz.OwnContentPolicy, req, post); err != nil {
		return nil, FromAuthz(err)
	}
	if err := apply(post); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fromRepository(err, ErrPostNotFound, nil)
	}
	return post, nil
}

// DeletePost removes a post with its comments
func (s *BlogService) DeletePost(ctx context.Context, req authz.Request, id uuid.UUID) error {
	post, err := s.GetPost(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.CheckObject(authz.OwnContentPolicy, req, post); err != nil {
		return FromAuthz(err)
	}
	if err := s.posts.Delete(ctx, post.ID); err != nil {
		return fromRepository(err, ErrPostNotFound, nil)
	}
	return nil
}

// ListPostComments returns a page of comments on a post
func (s *BlogService) ListPostComments(ctx context.Context, postID uuid.UUID, params repositories.ListParams) ([]*models.PostComment, int, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, 0, err
	}
	comments, total, err := s.postComments.List(ctx, postID, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return comments, total, nil
}

// GetPostComment returns a comment on a post
func (s *BlogService) GetPostComment(ctx context.Context, postID, commentID uuid.UUID) (*models.PostComment, error) {
	comment, err := s.postComments.GetByID(ctx, postID, commentID)
	if err != nil {
		return nil, fromRepository(err, ErrPostCommentNotFound, nil)
	}
	return comment, nil
}

// CreatePostComment adds author's comment to a post
func (s *BlogService) CreatePostComment(ctx context.Context, author *models.User, postID uuid.UUID, input CommentInput) (*models.PostComment, error) {
	if err := requireAuthenticated(author.Principal()); err != nil {
		return nil, err
	}
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := models.NewPostComment(postID, author, input.Text)
	if err := s.postComments.Create(ctx, comment); err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}
	return comment, nil
}

// UpdatePostComment edits a comment's text
func (s *BlogService) UpdatePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID, input CommentInput) (*models.PostComment, error) {
	input.Text = strings.TrimSpace(input.Text)
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	comment, err := s.GetPostComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.CheckObject(authz.OwnContentPolicy, req, comment); err != nil {
		return nil, FromAuthz(err)
	}

	comment.Text = input.Text
	if err := s.postComments.Update(ctx, comment); err != nil {
		return nil, fromRepository(err, ErrPostCommentNotFound, nil)
	}
	return comment, nil
}

// DeletePostComment removes a comment from a post
func (s *BlogService) DeletePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID) error {
	comment, err := s.GetPostComment(ctx, postID, commentID)
	if err != nil {
		return err
	}
	if err := s.guard.CheckObject(authz.OwnContentPolicy, req, comment); err != nil {
		return FromAuthz(err)
	}
	if err := s.postComments.Delete(ctx, comment.ID); err != nil {
		return fromRepository(err, ErrPostCommentNotFound, nil)
	}
	return nil
}

func (s *BlogService) checkGroup(ctx context.Context, groupID *uuid.UUID) error {
	if groupID == nil {
		return nil
	}
	if _, err := s.groups.GetByID(ctx, *groupID); err != nil {
		return fromRepository(err, wrap(ErrUnknownGroup, nil).WithDetail("group", groupID.String()), nil)
	}
	return nil
}
