package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the engine and the repositories.
// Callers match them with errors.Is.
var (
	ErrItemNotFound          = errors.New("item not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrDuplicateItem         = errors.New("an item with this category, type and purity already exists")
	ErrInsufficientInventory = errors.New("insufficient inventory for sale")
)

// ValidationError reports malformed or out-of-range input. It is always
// detected before any mutation and never leaves partial state behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
