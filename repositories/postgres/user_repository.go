package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/upb/yamdb/models"
	"github.com/upb/yamdb/repositories"
	"go.uber.org/zap"
)

const userColumns = `id, username, email, first_name, last_name, bio, role, is_superuser, is_staff, created_at, updated_at`

// UserRepository implements the repositories.UserRepository interface
type UserRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB, logger *zap.Logger) repositories.UserRepository {
	return &UserRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
		user.IsStaff,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "create", "user")
	}

	r.logger.Debug("user created", zap.String("id", user.ID.String()), zap.String("username", user.Username))
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrapError(err, "get", "user")
	}
	return user, nil
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUser(GetExecutor(ctx, r.db).QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, wrapError(err, "get", "user")
	}
	return user, nil
}

// FindByUsernameOrEmail returns every user matching either field
func (r *UserRepository) FindByUsernameOrEmail(ctx context.Context, username, email string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query, username, email)
	if err != nil {
		return nil, wrapError(err, "query", "users")
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, wrapError(err, "scan", "user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(err, "iterate", "user rows")
	}

	return users, nil
}

// List retrieves a page of users, optionally filtered by username
func (r *UserRepository) List(ctx context.Context, params repositories.ListParams) ([]*models.User, int, error) {
	query := `
		SELECT ` + userColumns + `, COUNT(*) OVER()
		FROM users
		WHERE ($1 = '' OR username ILIKE $2)
		ORDER BY username
		LIMIT $3 OFFSET $4
	`

	rows, err := GetExecutor(ctx, r.db).QueryContext(ctx, query,
		params.Search, likePattern(params.Search), params.Limit, params.Offset)
	if err != nil {
		return nil, 0, wrapError(err, "query", "users")
	}
	defer rows.Close()

	users := []*models.User{}
	total := 0
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(userFields(user, &total)...); err != nil {
			return nil, 0, wrapError(err, "scan", "user")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, wrapError(err, "iterate", "user rows")
	}

	return users, total, nil
}

// Update updates a user's identity, profile and role
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $2,
		    email = $3,
		    first_name = $4,
		    last_name = $5,
		    bio = $6,
		    role = $7,
		    updated_at = $8
		WHERE id = $1
	`

	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.UpdatedAt,
	)
	if err != nil {
		return wrapError(err, "update", "user")
	}
	if err := expectAffected(result, "user"); err != nil {
		return err
	}

	r.logger.Debug("user updated", zap.String("id", user.ID.String()))
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return wrapError(err, "delete", "user")
	}
	if err := expectAffected(result, "user"); err != nil {
		return err
	}

	r.logger.Debug("user deleted", zap.String("id", id.String()))
	return nil
}

func userFields(user *models.User, extra ...interface{}) []interface{} {
	fields := []interface{}{
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.IsStaff,
		&user.CreatedAt,
		&user.UpdatedAt,
	}
	return append(fields, extra...)
}

func scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	if err := row.Scan(userFields(user)...); err != nil {
		return nil, err
	}
	return user, nil
}
