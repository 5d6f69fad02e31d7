// Package repository provides PostgreSQL persistence for users, posts and comments.
package repository

import (
	"database/sql"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/atinyakov/quill/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// translate maps driver errors onto model errors and annotates the rest.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrap(models.ErrNotFound, op)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return errors.Wrapf(models.ErrDuplicate, "%s: %s", op, pqErr.Constraint)
	}
	return errors.Wrap(err, op)
}

// affectedOne turns a zero-row write into models.ErrNotFound.
func affectedOne(res sql.Result, op string) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if rows == 0 {
		return errors.Wrap(models.ErrNotFound, op)
	}
	return nil
}
