package domain

import (
	"errors"
	"fmt"
)

// Error codes for different failure scenarios
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeDatabaseError = "DATABASE_ERROR"
	ErrCodeScoring       = "SCORING_ERROR"
	ErrCodeRateLimit     = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal      = "INTERNAL_SERVER_ERROR"
)

// ValidationError represents a malformed input field: wrong type, an
// unparseable numeric string, an enum value outside its set, or a value
// beyond physiological plausibility. It is fatal to the scoring run; no
// partial result is returned. Absent fields are not validation errors.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidationError unwraps err to its ValidationError, if any.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
