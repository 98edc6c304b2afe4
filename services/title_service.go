package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// TitleInput is the body for creating a title. Category and genres are referenced by slug.
type TitleInput struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Year        int      `json:"year" validate:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" validate:"omitempty,max=50,slug"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
}

// TitleUpdateInput is a partial update. A nil Genre leaves links unchanged;
// an empty one clears them. An empty Category clears the category.
type TitleUpdateInput struct {
	Name        *string  `json:"name" validate:"omitempty,max=256"`
	Year        *int     `json:"year"`
	Description *string  `json:"description"`
	Category    *string  `json:"category" validate:"omitempty,max=50"`
	Genre       []string `json:"genre" validate:"omitempty,dive,max=50,slug"`
}

// TitleService manages titles and their genre links
type TitleService struct {
	titles     repositories.TitleRepository
	categories repositories.CategoryRepository
	genres     repositories.GenreRepository
	txManager  repositories.TransactionManager
	now        func() time.Time
	logger     *zap.Logger
}

// NewTitleService creates a new TitleService
func NewTitleService(
	titles repositories.TitleRepository,
	categories repositories.CategoryRepository,
	genres repositories.GenreRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *TitleService {
	return &TitleService{
		titles:     titles,
		categories: categories,
		genres:     genres,
		txManager:  txManager,
		now:        time.Now,
		logger:     logger,
	}
}

// List returns a page of titles matching the filter
func (s *TitleService) List(ctx context.Context, filter models.TitleFilter, params repositories.ListParams) ([]*models.Title, int, error) {
	titles, total, err := s.titles.List(ctx, filter, NormalizeListParams(params))
	if err != nil {
		return nil, 0, wrap(ErrDatabaseError, err)
	}
	return titles, total, nil
}

// Get returns a title with its category, genres and rating
func (s *TitleService) Get(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	title, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, fromRepository(err, ErrTitleNotFound, nil)
	}
	return title, nil
}

// Create adds a title and links its genres in one transaction
func (s *TitleService) Create(ctx context.Context, input TitleInput) (*models.Title, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(&input); err != nil {
		return nil, err
	}
	if err := s.checkYear(input.Year); err != nil {
		return nil, err
	}

	title := models.NewTitle(input.Name, input.Year, input.Description)
	if err := s.setCategory(ctx, title, input.Category); err != nil {
		return nil, err
	}
	genres, err := s.resolveGenres(ctx, input.Genre)
	if err != nil {
		return nil, err
	}
	title.Genres = genres

	err = WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
		if err := s.titles.Create(txCtx, title); err != nil {
			return err
		}
		return s.titles.SetGenres(txCtx, title.ID, genreIDs(genres))
	})
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}

	s.logger.Info("title created", zap.String("title_id", title.ID.String()), zap.String("name", title.Name))
	return title, nil
}

// Update applies a partial update to a title
func (s *TitleService) Update(ctx context.Context, id uuid.UUID, input TitleUpdateInput) (*models.Title, error) {
	if err := validateInput(&input); err != nil {
		return nil, err
	}

	title, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, wrap(ErrInvalidInput, nil).WithDetail("name", "name cannot be blank")
		}
		title.Name = name
	}
	if input.Year != nil {
		if err := s.checkYear(*input.Year); err != nil {
			return nil, err
		}
		title.Year = *input.Year
	}
	if input.Description != nil {
		title.Description = *input.Description
	}
	if input.Category != nil {
		if err := s.setCategory(ctx, title, *input.Category); err != nil {
			return nil, err
		}
	}
	var genres []models.Genre
	if input.Genre != nil {
		if genres, err = s.resolveGenres(ctx, input.Genre); err != nil {
			return nil, err
		}
	}
	title.UpdatedAt = s.now().UTC()

	err = WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
		if err := s.titles.Update(txCtx, title); err != nil {
			return err
		}
		if input.Genre == nil {
			return nil
		}
		return s.titles.SetGenres(txCtx, title.ID, genreIDs(genres))
	})
	if err != nil {
		return nil, fromRepository(err, ErrTitleNotFound, nil)
	}
	if input.Genre != nil {
		title.Genres = genres
	}
	return title, nil
}

// Delete removes a title with its reviews
func (s *TitleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.titles.Delete(ctx, id); err != nil {
		return fromRepository(err, ErrTitleNotFound, nil)
	}
	s.logger.Info("title deleted", zap.String("title_id", id.String()))
	return nil
}

func (s *TitleService) checkYear(year int) error {
	if year > s.now().Year() {
		return wrap(ErrInvalidYear, nil).WithDetail("year", year)
	}
	return nil
}

func (s *TitleService) setCategory(ctx context.Context, title *models.Title, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		title.CategoryID = nil
		title.Category = nil
		return nil
	}

	category, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return fromRepository(err, wrap(ErrUnknownCategory, nil).WithDetail("category", slug), nil)
	}
	title.CategoryID = &category.ID
	title.Category = category
	return nil
}

// resolveGenres maps slugs to genres, failing on the first unknown slug
func (s *TitleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	if len(slugs) == 0 {
		return []models.Genre{}, nil
	}

	found, err := s.genres.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, wrap(ErrDatabaseError, err)
	}

	bySlug := make(map[string]*models.Genre, len(found))
	for _, g := range found {
		bySlug[g.Slug] = g
	}

	genres := make([]models.Genre, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		g, ok := bySlug[slug]
		if !ok {
			return nil, wrap(ErrUnknownGenre, nil).WithDetail("genre", slug)
		}
		if seen[slug] {
			continue
		}
		seen[slug] = true
		genres = append(genres, *g)
	}
	return genres, nil
}

func genreIDs(genres []models.Genre) []uuid.UUID {
	ids := make([]uuid.UUID, len(genres))
	for i, g := range genres {
		ids[i] = g.ID
	}
	return ids
}
