package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/services"
)

type MockRegistrar struct{ mock.Mock }

func (m *MockRegistrar) Signup(ctx context.Context, input services.SignupInput) (*models.User, error) {
	args := m.Called(ctx, input)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRegistrar) Token(ctx context.Context, input services.TokenInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

type MockUserManager struct{ mock.Mock }

func (m *MockUserManager) List(ctx context.Context, params repositories.ListParams) ([]*models.User, int, error) {
	args := m.Called(ctx, params)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Int(1), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockUserManager) Get(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserManager) Create(ctx context.Context, input services.CreateUserInput) (*models.User, error) {
	args := m.Called(ctx, input)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserManager) Update(ctx context.Context, actor authz.Principal, username string, input services.UpdateUserInput) (*models.User, error) {
	args := m.Called(ctx, actor, username, input)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserManager) Delete(ctx context.Context, actor authz.Principal, username string) error {
	return m.Called(ctx, actor, username).Error(0)
}

func (m *MockUserManager) Me(ctx context.Context, p authz.Principal) (*models.User, error) {
	args := m.Called(ctx, p)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserManager) UpdateMe(ctx context.Context, p authz.Principal, input services.UpdateUserInput) (*models.User, error) {
	args := m.Called(ctx, p, input)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v interface{}) *models.User {
	if v == nil {
		return nil
	}
	return v.(*models.User)
}

type MockCatalogManager struct{ mock.Mock }

func (m *MockCatalogManager) ListCategories(ctx context.Context, params repositories.ListParams) ([]*models.Category, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*models.Category), args.Int(1), args.Error(2)
}

func (m *MockCatalogManager) CreateCategory(ctx context.Context, input services.SlugInput) (*models.Category, error) {
	args := m.Called(ctx, input)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogManager) DeleteCategory(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

func (m *MockCatalogManager) ListGenres(ctx context.Context, params repositories.ListParams) ([]*models.Genre, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*models.Genre), args.Int(1), args.Error(2)
}

func (m *MockCatalogManager) CreateGenre(ctx context.Context, input services.SlugInput) (*models.Genre, error) {
	args := m.Called(ctx, input)
	if g := args.Get(0); g != nil {
		return g.(*models.Genre), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogManager) DeleteGenre(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type MockTitleManager struct{ mock.Mock }

func (m *MockTitleManager) List(ctx context.Context, filter models.TitleFilter, params repositories.ListParams) ([]*models.Title, int, error) {
	args := m.Called(ctx, filter, params)
	return args.Get(0).([]*models.Title), args.Int(1), args.Error(2)
}

func (m *MockTitleManager) Get(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	args := m.Called(ctx, id)
	return titleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTitleManager) Create(ctx context.Context, input services.TitleInput) (*models.Title, error) {
	args := m.Called(ctx, input)
	return titleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTitleManager) Update(ctx context.Context, id uuid.UUID, input services.TitleUpdateInput) (*models.Title, error) {
	args := m.Called(ctx, id, input)
	return titleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockTitleManager) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func titleOrNil(v interface{}) *models.Title {
	if v == nil {
		return nil
	}
	return v.(*models.Title)
}

type MockReviewManager struct{ mock.Mock }

func (m *MockReviewManager) ListReviews(ctx context.Context, titleID uuid.UUID, params repositories.ListParams) ([]*models.Review, int, error) {
	args := m.Called(ctx, titleID, params)
	if r := args.Get(0); r != nil {
		return r.([]*models.Review), args.Int(1), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockReviewManager) GetReview(ctx context.Context, titleID, reviewID uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, titleID, reviewID)
	return reviewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) CreateReview(ctx context.Context, author *models.User, titleID uuid.UUID, input services.ReviewInput) (*models.Review, error) {
	args := m.Called(ctx, author, titleID, input)
	return reviewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) UpdateReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID, input services.ReviewUpdateInput) (*models.Review, error) {
	args := m.Called(ctx, req, titleID, reviewID, input)
	return reviewOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) DeleteReview(ctx context.Context, req authz.Request, titleID, reviewID uuid.UUID) error {
	return m.Called(ctx, req, titleID, reviewID).Error(0)
}

func (m *MockReviewManager) ListComments(ctx context.Context, titleID, reviewID uuid.UUID, params repositories.ListParams) ([]*models.Comment, int, error) {
	args := m.Called(ctx, titleID, reviewID, params)
	if c := args.Get(0); c != nil {
		return c.([]*models.Comment), args.Int(1), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockReviewManager) GetComment(ctx context.Context, titleID, reviewID, commentID uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) CreateComment(ctx context.Context, author *models.User, titleID, reviewID uuid.UUID, input services.CommentInput) (*models.Comment, error) {
	args := m.Called(ctx, author, titleID, reviewID, input)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) UpdateComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID, input services.CommentInput) (*models.Comment, error) {
	args := m.Called(ctx, req, titleID, reviewID, commentID, input)
	return commentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockReviewManager) DeleteComment(ctx context.Context, req authz.Request, titleID, reviewID, commentID uuid.UUID) error {
	return m.Called(ctx, req, titleID, reviewID, commentID).Error(0)
}

func reviewOrNil(v interface{}) *models.Review {
	if v == nil {
		return nil
	}
	return v.(*models.Review)
}

func commentOrNil(v interface{}) *models.Comment {
	if v == nil {
		return nil
	}
	return v.(*models.Comment)
}

type MockBlogManager struct{ mock.Mock }

func (m *MockBlogManager) ListGroups(ctx context.Context, params repositories.ListParams) ([]*models.Group, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*models.Group), args.Int(1), args.Error(2)
}

func (m *MockBlogManager) GetGroup(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBlogManager) ListPosts(ctx context.Context, params repositories.ListParams) ([]*models.Post, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]*models.Post), args.Int(1), args.Error(2)
}

func (m *MockBlogManager) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) CreatePost(ctx context.Context, author *models.User, input services.PostInput) (*models.Post, error) {
	args := m.Called(ctx, author, input)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) ReplacePost(ctx context.Context, req authz.Request, id uuid.UUID, input services.PostInput) (*models.Post, error) {
	args := m.Called(ctx, req, id, input)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) UpdatePost(ctx context.Context, req authz.Request, id uuid.UUID, input services.PostUpdateInput) (*models.Post, error) {
	args := m.Called(ctx, req, id, input)
	return postOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) DeletePost(ctx context.Context, req authz.Request, id uuid.UUID) error {
	return m.Called(ctx, req, id).Error(0)
}

func (m *MockBlogManager) ListPostComments(ctx context.Context, postID uuid.UUID, params repositories.ListParams) ([]*models.PostComment, int, error) {
	args := m.Called(ctx, postID, params)
	return args.Get(0).([]*models.PostComment), args.Int(1), args.Error(2)
}

func (m *MockBlogManager) GetPostComment(ctx context.Context, postID, commentID uuid.UUID) (*models.PostComment, error) {
	args := m.Called(ctx, postID, commentID)
	return postCommentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) CreatePostComment(ctx context.Context, author *models.User, postID uuid.UUID, input services.CommentInput) (*models.PostComment, error) {
	args := m.Called(ctx, author, postID, input)
	return postCommentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) UpdatePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID, input services.CommentInput) (*models.PostComment, error) {
	args := m.Called(ctx, req, postID, commentID, input)
	return postCommentOrNil(args.Get(0)), args.Error(1)
}

func (m *MockBlogManager) DeletePostComment(ctx context.Context, req authz.Request, postID, commentID uuid.UUID) error {
	return m.Called(ctx, req, postID, commentID).Error(0)
}

func postOrNil(v interface{}) *models.Post {
	if v == nil {
		return nil
	}
	return v.(*models.Post)
}

func postCommentOrNil(v interface{}) *models.PostComment {
	if v == nil {
		return nil
	}
	return v.(*models.PostComment)
}

type MockFollowManager struct{ mock.Mock }

func (m *MockFollowManager) List(ctx context.Context, user *models.User, params repositories.ListParams) ([]*models.Follow, int, error) {
	args := m.Called(ctx, user, params)
	if f := args.Get(0); f != nil {
		return f.([]*models.Follow), args.Int(1), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockFollowManager) Follow(ctx context.Context, user *models.User, input services.FollowInput) (*models.Follow, error) {
	args := m.Called(ctx, user, input)
	if f := args.Get(0); f != nil {
		return f.(*models.Follow), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAuditLister struct{ mock.Mock }

func (m *MockAuditLister) List(ctx context.Context, params repositories.ListParams) ([]*models.AuditLog, int, error) {
	args := m.Called(ctx, params)
	if l := args.Get(0); l != nil {
		return l.([]*models.AuditLog), args.Int(1), args.Error(2)
	}
	return nil, 0, args.Error(2)
}
