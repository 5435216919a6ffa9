package services

import (
	"errors"

	apperrors "github.com/medbank-platform/question-engine/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")

	// Question specific errors
	ErrQuestionNotFound  = errors.New("question not found")
	ErrQuestionPoolEmpty = errors.New("no questions matched the requested filters")

	// Similarity specific errors
	ErrEmbeddingUnavailable = errors.New("embedding could not be computed")
	ErrGroupNotFound        = errors.New("similarity group not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrGroupNotFound)
}

// IsValidation checks if error represents a request validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) {
		return true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	var ves ValidationErrors
	return errors.As(err, &ves)
}
