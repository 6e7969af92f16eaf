package services

import (
	"errors"

	"clinicalfresh/internal/repositories"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = repositories.ErrNotFound
	ErrInvalidNode       = errors.New("invalid tree node")
	ErrInvalidRecipe     = errors.New("invalid recipe")
	ErrInvalidEmployee   = errors.New("invalid employee")
	ErrInvalidOperation  = errors.New("invalid stock operation")
	ErrFileTooLarge      = errors.New("file exceeds the 10MB limit")
	ErrMimeNotAllowed    = errors.New("file type not allowed")
	ErrEmptyFile         = errors.New("file is empty")
	ErrRateLimited       = errors.New("too many requests")
	ErrSearchTermTooLong = errors.New("search term too long")
)

// Postgres error codes surfaced to users.
const (
	pgUniqueViolation     = "23505"
	pgInvalidDatetime     = "22007"
	pgForeignKeyViolation = "23503"
)

// UserMessage translates a database error into a message fit for the client.
// ok is false when err carries no known Postgres code.
func UserMessage(err error) (msg string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	switch pgErr.Code {
	case pgUniqueViolation:
		return "Ya existe un registro con ese número de documento o código", true
	case pgInvalidDatetime:
		return "Formato de fecha inválido, use AAAA-MM-DD", true
	case pgForeignKeyViolation:
		return "El registro referenciado no existe", true
	}
	return "", false
}
