package validator

import "errors"

// Common validation errors that can be used across the application.
var (
	// ErrValidationFailed is returned when validation fails but no specific error is provided.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidNumber is returned by the parse helpers for malformed numeric text.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrEmptyValue is returned by the parse helpers for blank input.
	ErrEmptyValue = errors.New("empty value")
)
