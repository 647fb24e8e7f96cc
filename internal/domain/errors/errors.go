package errors

import "errors"

var (
	// NotFound 系
	ErrItemNotFound     = errors.New("item not found")
	ErrCategoryNotFound = errors.New("category not found")

	// ValidationError 系
	ErrInvalidInput = errors.New("invalid input")

	ErrDatabaseError = errors.New("database error")
)

// IsNotFoundError reports whether err refers to a missing item or category.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrItemNotFound) || errors.Is(err, ErrCategoryNotFound)
}

// IsValidationError reports whether err was caused by a malformed request.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
