// Package errors provides custom error types for product-related operations.
package errors

import "errors"

var ErrProductNotFound = errors.New("not found")

// Field validation failures, reported to clients verbatim.
var (
	ErrNameRequired    = errors.New("name required")
	ErrNameBlank       = errors.New("name must not be blank")
	ErrPriceRequired   = errors.New("price required and numeric")
	ErrPriceNotNumeric = errors.New("price must be numeric")
	ErrPriceNegative   = errors.New("price must not be negative")
)

// ValidationError reports the product field that failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Invalid wraps err as a ValidationError for field.
func Invalid(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
