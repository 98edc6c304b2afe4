package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
)

var (
	// ErrNotFound is wrapped by repositories when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is wrapped when a unique constraint rejects a write
	ErrDuplicate = errors.New("duplicate record")
)

// ListParams carries pagination and an optional free-text search term
type ListParams struct {
	Limit  int
	Offset int
	Search string
}

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Repositories called with the ctx passed to fn run on the transaction.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	Commit() error
	Rollback() error
	Context() context.Context
}

// UserRepository handles user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// FindByUsernameOrEmail returns every user whose username or email matches
	FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error)

	// List returns a page of users ordered by username, filtered by username search
	List(ctx context.Context, params ListParams) ([]*models.User, int, error)

	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepository handles category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context, params ListParams) ([]*models.Category, int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// GenreRepository handles genre data operations
type GenreRepository interface {
	Create(ctx context.Context, genre *models.Genre) error
	GetBySlug(ctx context.Context, slug string) (*models.Genre, error)

	// GetBySlugs resolves every slug; unknown slugs are simply absent from the result
	GetBySlugs(ctx context.Context, slugs []string) ([]*models.Genre, error)

	List(ctx context.Context, params ListParams) ([]*models.Genre, int, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

// TitleRepository handles title data operations. Reads populate
// category, genres and rating.
type TitleRepository interface {
	Create(ctx context.Context, title *models.Title) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Title, error)
	List(ctx context.Context, filter models.TitleFilter, params ListParams) ([]*models.Title, int, error)
	Update(ctx context.Context, title *models.Title) error

	// SetGenres replaces the genre links of a title
	SetGenres(ctx context.Context, titleID uuid.UUID, genreIDs []uuid.UUID) error

	Delete(ctx context.Context, id uuid.UUID) error
}

// ReviewRepository handles review data operations, always scoped to a title
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, titleID, id uuid.UUID) (*models.Review, error)
	List(ctx context.Context, titleID uuid.UUID, params ListParams) ([]*models.Review, int, error)
	ExistsForAuthor(ctx context.Context, titleID, authorID uuid.UUID) (bool, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepository handles review comment data operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, reviewID, id uuid.UUID) (*models.Comment, error)
	List(ctx context.Context, reviewID uuid.UUID, params ListParams) ([]*models.Comment, int, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// GroupRepository handles read-only group data
type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	List(ctx context.Context, params ListParams) ([]*models.Group, int, error)
}

// PostRepository handles post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	List(ctx context.Context, params ListParams) ([]*models.Post, int, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PostCommentRepository handles post comment data operations
type PostCommentRepository interface {
	Create(ctx context.Context, comment *models.PostComment) error
	GetByID(ctx context.Context, postID, id uuid.UUID) (*models.PostComment, error)
	List(ctx context.Context, postID uuid.UUID, params ListParams) ([]*models.PostComment, int, error)
	Update(ctx context.Context, comment *models.PostComment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FollowRepository handles subscriptions between users
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error

	// ListByUser returns the follows of userID, searching the followed username
	ListByUser(ctx context.Context, userID uuid.UUID, params ListParams) ([]*models.Follow, int, error)

	Exists(ctx context.Context, userID, followingID uuid.UUID) (bool, error)
}

// AuditRepository handles moderation audit log data operations
type AuditRepository interface {
	Insert(ctx context.Context, log *models.AuditLog) error
	List(ctx context.Context, params ListParams) ([]*models.AuditLog, int, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users        UserRepository
	Categories   CategoryRepository
	Genres       GenreRepository
	Titles       TitleRepository
	Reviews      ReviewRepository
	Comments     CommentRepository
	Groups       GroupRepository
	Posts        PostRepository
	PostComments PostCommentRepository
	Follows      FollowRepository
	AuditLogs    AuditRepository
}
