package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error code for unique constraint violations
const uniqueViolationCode = "23505"

// IsUniqueViolation reports whether err is a unique-constraint violation.
// Repositories use this to translate collisions on the unique indexes
// (email, names, slugs) into conflict sentinels instead of opaque failures.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolationCode
	}
	return false
}
