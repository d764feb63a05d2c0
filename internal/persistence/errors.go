package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist, or when
	// an owner- or parent-filtered query matches nothing.
	ErrNotFound = errors.New("persistence: not found")
	// ErrDuplicate is returned when an insert collides with an existing primary key.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrForeignKeyViolation is returned when a child row references a missing parent.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
	// ErrConstraintViolation is returned when a stored value breaks a schema check.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
)
