// Package repository holds the Postgres access layer. Services depend on
// the small store interfaces they declare themselves; these types are the
// production implementations.
package repository

import (
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("row not found")
	ErrDuplicate = errors.New("duplicate row")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
