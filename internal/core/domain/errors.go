package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrFileNotFound indicates the document to import does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrEmptyText indicates text extraction produced nothing usable.
	// An import cannot proceed without text.
	ErrEmptyText = errors.New("no text extracted")

	// ErrUnsupportedType indicates an unknown document or storage type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNotImplemented indicates a service was built without the port it needs.
	ErrNotImplemented = errors.New("not implemented")

	// ErrNotRoman indicates a string is not a roman numeral.
	ErrNotRoman = errors.New("not a roman numeral")
)

// LawExistsError is returned when an import targets a law code that is
// already registered and replace was not requested. No writes happen.
type LawExistsError struct {
	Code      string
	LawID     int64
	NodeCount int
}

func (e *LawExistsError) Error() string {
	return fmt.Sprintf("law code %q already exists (id=%d, %d nodes); use --replace to overwrite nodes",
		e.Code, e.LawID, e.NodeCount)
}

// Is reports ErrAlreadyExists so callers can match with errors.Is.
func (e *LawExistsError) Is(target error) bool {
	return target == ErrAlreadyExists
}
