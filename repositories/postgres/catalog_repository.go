package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

// slugRow is the shared shape of categories and genres
type slugRow struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// slugTable runs the queries common to name/slug lookup tables
type slugTable struct {
	db     *DB
	logger *zap.Logger
	table  string
	entity string
}

func (t *slugTable) create(ctx context.Context, row slugRow) error {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, slug) VALUES ($1, $2, $3)`, t.table)

	if _, err := GetExecutor(ctx, t.db).ExecContext(ctx, query, row.ID, row.Name, row.Slug); err != nil {
		return wrapError(err, "create", t.entity)
	}

	t.logger.Debug(t.entity+" created", zap.String("slug", row.Slug))
	return nil
}

func (t *slugTable) getBySlug(ctx context.Context, slug string) (slugRow, error) {
	query := fmt.Sprintf(`SELECT id, name, slug FROM %s WHERE slug = $1`, t.table)

	var row slugRow
	err := GetExecutor(ctx, t.db).QueryRowContext(ctx, query, slug).Scan(&row.ID, &row.Name, &row.Slug)
	if err != nil {
		return row, wrapError(err, "get", t.entity)
	}
	return row, nil
}

func (t *slugTable) getBySlugs(ctx context.Context, slugs []string) ([]slugRow, error) {
	query := fmt.Sprintf(`SELECT id, name, slug, 0 FROM %s WHERE slug = ANY($1) ORDER BY slug`, t.table)

	rows, _, err := t.query(ctx, query, pq.Array(slugs))
	return rows, err
}

func (t *slugTable) list(ctx context.Context, params repositories.ListParams) ([]slugRow, int, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, COUNT(*) OVER()
		FROM %s
		WHERE ($1 = '' OR name ILIKE $2)
		ORDER BY name
		LIMIT $3 OFFSET $4
	`, t.table)

	return t.query(ctx, query, params.Search, likePattern(params.Search), params.Limit, params.Offset)
}

func (t *slugTable) deleteBySlug(ctx context.Context, slug string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE slug = $1`, t.table)

	result, err := GetExecutor(ctx, t.db).ExecContext(ctx, query, slug)
	if err != nil {
		return wrapError(err, "delete", t.entity)
	}
	if err := expectAffected(result, t.entity); err != nil {
		return err
	}

	t.logger.Debug(t.entity+" deleted", zap.String("slug", slug))
	return nil
}

func (t *slugTable) query(ctx context.Context, query string, args ...interface{}) ([]slugRow, int, error) {
	rows, err := GetExecutor(ctx, t.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapError(err, "query", t.table)
	}
	defer rows.Close()

	var (
		out   []slugRow
		total int
	)
	for rows.Next() {
		var row slugRow
		if err := rows.Scan(&row.ID, &row.Name, &row.Slug, &total); err != nil {
			return nil, 0, wrapError(err, "scan", t.entity)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", t.table)
	}

	return out, total, nil
}

// CategoryRepository implements the repositories.CategoryRepository interface
type CategoryRepository struct {
	table slugTable
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB, logger *zap.Logger) repositories.CategoryRepository {
	return &CategoryRepository{table: slugTable{db: db, logger: logger, table: "categories", entity: "category"}}
}

// Create creates a new category
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.table.create(ctx, slugRow{ID: category.ID, Name: category.Name, Slug: category.Slug})
}

// GetBySlug retrieves a category by slug
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row, err := r.table.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &models.Category{ID: row.ID, Name: row.Name, Slug: row.Slug}, nil
}

// List retrieves a page of categories
func (r *CategoryRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Category, int, error) {
	rows, total, err := r.table.list(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*models.Category, len(rows))
	for i, row := range rows {
		out[i] = &models.Category{ID: row.ID, Name: row.Name, Slug: row.Slug}
	}
	return out, total, nil
}

// DeleteBySlug deletes a category; its titles keep existing without a category
func (r *CategoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.table.deleteBySlug(ctx, slug)
}

// GenreRepository implements the repositories.GenreRepository interface
type GenreRepository struct {
	table slugTable
}

// NewGenreRepository creates a new genre repository
func NewGenreRepository(db *DB, logger *zap.Logger) repositories.GenreRepository {
	return &GenreRepository{table: slugTable{db: db, logger: logger, table: "genres", entity: "genre"}}
}

// Create creates a new genre
func (r *GenreRepository) Create(ctx context.Context, genre *models.Genre) error {
	return r.table.create(ctx, slugRow{ID: genre.ID, Name: genre.Name, Slug: genre.Slug})
}

// GetBySlug retrieves a genre by slug
func (r *GenreRepository) GetBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	row, err := r.table.getBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return &models.Genre{ID: row.ID, Name: row.Name, Slug: row.Slug}, nil
}

// GetBySlugs retrieves all genres whose slug is in slugs
func (r *GenreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]*models.Genre, error) {
	if len(slugs) == 0 {
		return []*models.Genre{}, nil
	}
	rows, err := r.table.getBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	return toGenres(rows), nil
}

// List retrieves a page of genres
func (r *GenreRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.Genre, int, error) {
	rows, total, err := r.table.list(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	return toGenres(rows), total, nil
}

// DeleteBySlug deletes a genre and its title links
func (r *GenreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.table.deleteBySlug(ctx, slug)
}

func toGenres(rows []slugRow) []*models.Genre {
	out := make([]*models.Genre, len(rows))
	for i, row := range rows {
		out[i] = &models.Genre{ID: row.ID, Name: row.Name, Slug: row.Slug}
	}
	return out
}
