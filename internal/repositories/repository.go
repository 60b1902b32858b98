package repositories

import (
	"errors"

	apperrors "equipment-system/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError переводит инфраструктурные коды Postgres в доменные ошибки,
// чтобы вызывающий код не зависел от деталей хранилища.
func translatePgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.ErrConflict
		case pgForeignKeyViolation:
			return apperrors.ErrBadRequest
		}
	}
	return err
}
