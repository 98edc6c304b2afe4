package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id, c.name, c.slug,
	       t.created_at, t.updated_at,
	       (SELECT AVG(r.score) FROM reviews r WHERE r.title_id = t.id)`

// TitleRepository implements the repositories.TitleRepository interface
type TitleRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db *DB, logger *zap.Logger) repositories.TitleRepository {
	return &TitleRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new title without genre links
func (r *TitleRepository) Create(ctx context.Context, title *models.Title) error {
	query := `
		INSERT INTO titles (id, name, year, description, category_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.CreatedAt,
		title.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "create", "title")
	}

	r.logger.Debug("title created", zap.String("id", title.ID.String()))
	return nil
}

// GetByID retrieves a title with its category, genres and rating
func (r *TitleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Title, error) {
	query := titleSelect + `
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE t.id = $1
	`

	title, err := scanTitle(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id), nil)
	if err != nil {
		return nil, wrapError(err, "get", "title")
	}

	if err := r.attachGenres(ctx, []*models.Title{title}); err != nil {
		return nil, err
	}
	return title, nil
}

// List retrieves a filtered page of titles
func (r *TitleRepository) List(ctx context.Context, filter models.TitleFilter, params repositories.ListParams) ([]*models.Title, int, error) {
	query := titleSelect + `, COUNT(*) OVER()
		FROM titles t
		LEFT JOIN categories c ON c.id = t.category_id
		WHERE ($1 = '' OR EXISTS (
		          SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
		          WHERE tg.title_id = t.id AND g.slug = $1))
		  AND ($2 = '' OR c.slug = $2)
		  AND ($3 = '' OR t.name ILIKE $4)
		  AND ($5 = 0 OR t.year = $5)
		ORDER BY t.name, t.id
		LIMIT $6 OFFSET $7
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query,
		filter.Genre,
		filter.Category,
		filter.Name,
		likePattern(filter.Name),
		filter.Year,
		params.Limit,
		params.Offset,
	)
	if err != nil {
		return nil, 0, wrapError(err, "query", "titles")
	}
	defer rows.Close()

	titles := []*models.Title{}
	total := 0
	for rows.Next() {
		title, err := scanTitle(rows, &total)
		if err != nil {
			return nil, 0, wrapError(err, "scan", "title")
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "title rows")
	}

	if err := r.attachGenres(ctx, titles); err != nil {
		return nil, 0, err
	}
	return titles, total, nil
}

// Update updates a title's own columns
func (r *TitleRepository) Update(ctx context.Context, title *models.Title) error {
	query := `
		UPDATE titles
		SET name = $2,
		    year = $3,
		    description = $4,
		    category_id = $5,
		    updated_at = $6
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		title.ID,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
		title.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "update", "title")
	}
	if err := expectAffected(result, "title"); err != nil {
		return err
	}

	r.logger.Debug("title updated", zap.String("id", title.ID.String()))
	return nil
}

// SetGenres replaces the genre links of a title
func (r *TitleRepository) SetGenres(ctx context.Context, titleID uuid.UUID, genreIDs []uuid.UUID) error {
	executor := GetExecutor(ctx, r.db)

	if _, err := executor.ExecContext(ctx, `DELETE FROM title_genres WHERE title_id = $1`, titleID); err != nil {
		return wrapError(err, "clear", "title genres")
	}
	if len(genreIDs) == 0 {
		return nil
	}

	query := `
		INSERT INTO title_genres (title_id, genre_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING
	`
	if _, err := executor.ExecContext(ctx, query, titleID, pq.Array(uuidStrings(genreIDs))); err != nil {
		return wrapError(err, "link", "title genres")
	}
	return nil
}

// Delete deletes a title with its reviews and genre links
func (r *TitleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "title")
	}
	if err := expectAffected(result, "title"); err != nil {
		return err
	}

	r.logger.Debug("title deleted", zap.String("id", id.String()))
	return nil
}

// attachGenres loads genres for all titles with a single query
func (r *TitleRepository) attachGenres(ctx context.Context, titles []*models.Title) error {
	if len(titles) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Title, len(titles))
	ids := make([]uuid.UUID, 0, len(titles))
	for _, t := range titles {
		t.Genres = []models.Genre{}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	query := `
		SELECT tg.title_id, g.id, g.name, g.slug
		FROM title_genres tg
		JOIN genres g ON g.id = tg.genre_id
		WHERE tg.title_id = ANY($1)
		ORDER BY g.name
	`
	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, pq.Array(uuidStrings(ids)))
	if err != nil {
		return wrapError(err, "query", "title genres")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID uuid.UUID
			genre   models.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			return wrapError(err, "scan", "title genre")
		}
		if t, ok := byID[titleID]; ok {
			t.Genres = append(t.Genres, genre)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapError(err, "iterate", "title genres")
	}
	return nil
}

func scanTitle(row rowScanner, total *int) (*models.Title, error) {
	var (
		title        models.Title
		categoryName sql.NullString
		categorySlug sql.NullString
		rating       sql.NullFloat64
	)
	dest := []interface{}{
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&categoryName,
		&categorySlug,
		&title.CreatedAt,
		&title.UpdatedAt,
		&rating,
	}
	if total != nil {
		dest = append(dest, total)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	if title.CategoryID != nil && categorySlug.Valid {
		title.Category = &models.Category{ID: *title.CategoryID, Name: categoryName.String, Slug: categorySlug.String}
	}
	if rating.Valid {
		value := rating.Float64
		title.Rating = &value
	}
	title.Genres = []models.Genre{}
	return &title, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
