package services

import (
	"context"
	"strings"

	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"github.com/upb/yamdb/utils"
	"go.uber.org/zap"
)

// SlugInput is the body for creating a category or genre
type SlugInput struct {
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

// CatalogService manages categories and genres
type CatalogService struct {
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	logger     *zap.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(categories repositories.CategoryRepository, genres repositories.GenreRepository, logger *zap.Logger) *CatalogService {
	return &CatalogService{categories: categories, genres: genres, logger: logger}
}

func normalizeSlugInput(input *SlugInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	return validateInput(input)
}

// ListCategories returns a page of categories matching the name search
func (s *CatalogService) ListCategories(ctx context.Context, params repositories.ListParams) ([]*models.Category, int, error) {
	items, total, err := s.categories.List(ctx, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return items, total, nil
}

// CreateCategory adds a category
func (s *CatalogService) CreateCategory(ctx context.Context, input SlugInput) (*models.Category, error) {
	if err := normalizeSlugInput(&input); err != nil {
		return nil, err
	}

	category := models.NewCategory(input.Name, input.Slug)
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fromRepository(err, nil, ErrDuplicateSlug)
	}

	s.logger.Info("category created", zap.String("slug", category.Slug))
	return category, nil
}

// DeleteCategory removes a category; its titles keep existing without one
func (s *CatalogService) DeleteCategory(ctx context.Context, slug string) error {
	if err := utils.ValidateSlug(slug); err != nil {
		return wrap(ErrInvalidSlug, err)
	}
	if err := s.categories.DeleteBySlug(ctx, slug); err != nil {
		return fromRepository(err, ErrCategoryNotFound, nil)
	}
	return nil
}

// ListGenres returns a page of genres matching the name search
func (s *CatalogService) ListGenres(ctx context.Context, params repositories.ListParams) ([]*models.Genre, int, error) {
	items, total, err := s.genres.List(ctx, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return items, total, nil
}

// CreateGenre adds a genre
func (s *CatalogService) CreateGenre(ctx context.Context, input SlugInput) (*models.Genre, error) {
	if err := normalizeSlugInput(&input); err != nil {
		return nil, err
	}

	genre := models.NewGenre(input.Name, input.Slug)
	if err := s.genres.Create(ctx, genre); err != nil {
		return nil, fromRepository(err, nil, ErrDuplicateSlug)
	}

	s.logger.Info("genre created", zap.String("slug", genre.Slug))
	return genre, nil
}

// DeleteGenre removes a genre and its title links
func (s *CatalogService) DeleteGenre(ctx context.Context, slug string) error {
	if err := utils.ValidateSlug(slug); err != nil {
		return wrap(ErrInvalidSlug, err)
	}
	if err := s.genres.DeleteBySlug(ctx, slug); err != nil {
		return fromRepository(err, ErrGenreNotFound, nil)
	}
	return nil
}
