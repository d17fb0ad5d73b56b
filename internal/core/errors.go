package core

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrAmountTooLarge      = errors.New("amount exceeds maximum limit of 1,000,000")
	ErrEmptyCategoryName   = errors.New("empty category name")
	ErrCategoryNameTooLong = errors.New("category name too long (max 50 characters)")
	ErrNoteTooLong         = errors.New("note too long (max 255 characters)")

	// ErrNotFound marks a lookup for a transaction, category, or report
	// that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation: duplicate report week or
	// duplicate category name.
	ErrConflict = errors.New("conflict")
)

// ValidationError carries the offending field alongside the reason, so the
// caller can surface precise feedback. It wraps the underlying sentinel and
// therefore matches errors.Is checks against it.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
