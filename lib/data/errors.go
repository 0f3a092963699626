package data

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes the workflow reacts to
const (
	pqInsufficientPrivilege = "42501"
	pqUniqueViolation       = "23505"
)

var (
	// ErrNotFound is returned when a lookup by id matches no row
	ErrNotFound = errors.New("record not found")

	// ErrPermissionDenied means the database role lacks a grant; retrying will not help
	ErrPermissionDenied = errors.New("database permission denied")

	// ErrDuplicateMatch means a match request for the same project and contractor already exists
	ErrDuplicateMatch = errors.New("match request already exists")
)

// classifyError maps driver errors onto the sentinel errors above. Unknown errors yield nil.
func classifyError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	case pqInsufficientPrivilege:
		return ErrPermissionDenied
	case pqUniqueViolation:
		return ErrDuplicateMatch
	default:
		return nil
	}
}
