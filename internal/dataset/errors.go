package dataset

import "errors"

var (
	// ErrColumnNotFound is returned when a column name does not exist in the table.
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn is returned when adding a column whose name is already taken.
	ErrDuplicateColumn = errors.New("duplicate column name")

	// ErrLengthMismatch is returned when a column's length does not match the table.
	ErrLengthMismatch = errors.New("column length mismatch")

	// ErrTypeMismatch is returned when a column is accessed as the wrong type.
	ErrTypeMismatch = errors.New("column type mismatch")

	// ErrRowOutOfRange is returned when a row index is outside the table.
	ErrRowOutOfRange = errors.New("row index out of range")

	// ErrSchemaMismatch is returned when two tables do not share a schema.
	ErrSchemaMismatch = errors.New("table schema mismatch")
)
