package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgUniqueViolation SQLSTATE de clave única duplicada.
const pgUniqueViolation = "23505"

// isUniqueViolation true solo si err envuelve un *pgconn.PgError con SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
