package service

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// mapStoreError converts driver-level failures into the domain taxonomy.
// Missing rows become NotFound, constraint violations become Conflict with
// the pq error kept in the chain, and anything already typed passes through.
func mapStoreError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFoundMessage)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "duplicate value violates a unique constraint")
		case pqForeignKeyViolation:
			return appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "referenced record does not exist")
		}
	}

	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return err
	}

	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
}
