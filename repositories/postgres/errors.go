package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/upb/yamdb/repositories"
)

// uniqueViolation is the SQLSTATE for unique_violation
const uniqueViolation = "23505"

// wrapError translates driver errors into repository sentinels.
// entity names the table row kind, op the failed operation.
func wrapError(err error, op, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", entity, repositories.ErrNotFound)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%s %s (%s): %w", op, entity, pqErr.Constraint, repositories.ErrDuplicate)
	}

	return fmt.Errorf("failed to %s %s: %w", op, entity, err)
}

// expectAffected returns ErrNotFound when an update or delete touched no rows
func expectAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", entity, repositories.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds an ILIKE pattern for a contains search
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(search) + "%"
}
