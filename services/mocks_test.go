package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/upb/yamdb/auth"
	"github.com/upb/yamdb/internal/authz"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// fakeTxManager runs fn inline and records the outcome
type fakeTxManager struct {
	commits   int
	rollbacks int
	beginErr  error
}

func (m *fakeTxManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	return nil, m.beginErr
}

func (m *fakeTxManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	if err := fn(ctx, nil); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error) {
	args := m.Called(ctx, username, email)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.User, int, error) {
	args := m.Called(ctx, params)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	args := m.Called(ctx, slug)
	if c := args.Get(0); c != nil {
		return c.(*models.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Category, int, error) {
	args := m.Called(ctx, params)
	if c := args.Get(0); c != nil {
		return c.([]*models.Category), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockCategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type MockGenreRepository struct {
	mock.Mock
}

func (m *MockGenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return m.Called(ctx, genre).Error(0)
}

func (m *MockGenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	args := m.Called(ctx, slug)
	if g := args.Get(0); g != nil {
		return g.(*models.Genre), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]*models.Genre, error) {
	args := m.Called(ctx, slugs)
	if g := args.Get(0); g != nil {
		return g.([]*models.Genre), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGenreRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Genre, int, error) {
	args := m.Called(ctx, params)
	if g := args.Get(0); g != nil {
		return g.([]*models.Genre), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockGenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return m.Called(ctx, slug).Error(0)
}

type MockTitleRepository struct {
	mock.Mock
}

func (m *MockTitleRepository) Create(ctx context.Context, title *models.Title) error {
	return m.Called(ctx, title).Error(0)
}

func (m *MockTitleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.Title), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTitleRepository) List(ctx context.Context, filter models.TitleFilter, params repositories.ListParams) ([]*models.Title, int, error) {
	args := m.Called(ctx, filter, params)
	if t := args.Get(0); t != nil {
		return t.([]*models.Title), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockTitleRepository) Update(ctx context.Context, title *models.Title) error {
	return m.Called(ctx, title).Error(0)
}

func (m *MockTitleRepository) SetGenres(ctx context.Context, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	return m.Called(ctx, titleID, genreIDs).Error(0)
}

func (m *MockTitleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) Create(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, titleID, id uuid.UUID) (*models.Review, error) {
	args := m.Called(ctx, titleID, id)
	if r := args.Get(0); r != nil {
		return r.(*models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockReviewRepository) List(ctx context.Context, titleID uuid.UUID, params repositories.ListParams) ([]*models.Review, int, error) {
	args := m.Called(ctx, titleID, params)
	if r := args.Get(0); r != nil {
		return r.([]*models.Review), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockReviewRepository) ExistsForAuthor(ctx context.Context, titleID, authorID uuid.UUID) (bool, error) {
	args := m.Called(ctx, titleID, authorID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) Update(ctx context.Context, review *models.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, reviewID, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, reviewID, id)
	if c := args.Get(0); c != nil {
		return c.(*models.Comment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCommentRepository) List(ctx context.Context, reviewID uuid.UUID, params repositories.ListParams) ([]*models.Comment, int, error) {
	args := m.Called(ctx, reviewID, params)
	if c := args.Get(0); c != nil {
		return c.([]*models.Comment), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockCommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	args := m.Called(ctx, id)
	if g := args.Get(0); g != nil {
		return g.(*models.Group), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockGroupRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Group, int, error) {
	args := m.Called(ctx, params)
	if g := args.Get(0); g != nil {
		return g.([]*models.Group), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Post), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Post, int, error) {
	args := m.Called(ctx, params)
	if p := args.Get(0); p != nil {
		return p.([]*models.Post), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockPostCommentRepository struct {
	mock.Mock
}

func (m *MockPostCommentRepository) Create(ctx context.Context, comment *models.PostComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockPostCommentRepository) GetByID(ctx context.Context, postID, id uuid.UUID) (*models.PostComment, error) {
	args := m.Called(ctx, postID, id)
	if c := args.Get(0); c != nil {
		return c.(*models.PostComment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPostCommentRepository) List(ctx context.Context, postID uuid.UUID, params repositories.ListParams) ([]*models.PostComment, int, error) {
	args := m.Called(ctx, postID, params)
	if c := args.Get(0); c != nil {
		return c.([]*models.PostComment), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockPostCommentRepository) Update(ctx context.Context, comment *models.PostComment) error {
	return m.Called(ctx, comment).Error(0)
}

func (m *MockPostCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	return m.Called(ctx, follow).Error(0)
}

func (m *MockFollowRepository) ListByUser(ctx context.Context, userID uuid.UUID, params repositories.ListParams) ([]*models.Follow, int, error) {
	args := m.Called(ctx, userID, params)
	if f := args.Get(0); f != nil {
		return f.([]*models.Follow), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockFollowRepository) Exists(ctx context.Context, userID, followingID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, followingID)
	return args.Bool(0), args.Error(1)
}

type MockCodeStore struct {
	mock.Mock
}

func (m *MockCodeStore) Save(ctx context.Context, username, code string) error {
	return m.Called(ctx, username, code).Error(0)
}

func (m *MockCodeStore) Consume(ctx context.Context, username, code string) error {
	return m.Called(ctx, username, code).Error(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(user *models.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(token string) (*auth.Claims, error) {
	args := m.Called(token)
	if c := args.Get(0); c != nil {
		return c.(*auth.Claims), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	return m.Called(ctx, email, username, code).Error(0)
}

// recordingAuditor keeps entries in memory
type recordingAuditor struct {
	entries []*models.AuditLog
	err     error
}

func (r *recordingAuditor) Record(ctx context.Context, entry *models.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, entry)
	return nil
}

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, repositories.ErrNotFound)
}

func duplicate(entity string) error {
	return fmt.Errorf("create %s (unique): %w", entity, repositories.ErrDuplicate)
}

func newGuard() *authz.Guard {
	return authz.NewGuard(nil, zap.NewNop())
}

func userWithRole(username string, role authz.Role) *models.User {
	u := models.NewUser(username, username+"@example.com")
	u.Role = role
	return u
}

func defaultParams() repositories.ListParams {
	return repositories.ListParams{Limit: DefaultPageSize}
}
