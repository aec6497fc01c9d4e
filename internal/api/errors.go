package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ali-aktas/hocalingo-api/internal/domain"
	"github.com/ali-aktas/hocalingo-api/internal/generation"
	"github.com/ali-aktas/hocalingo-api/internal/service"
	"github.com/ali-aktas/hocalingo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, store.ErrItemNotFound),
		errors.Is(err, store.ErrSessionNotFound),
		errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrPackageNotFound),
		errors.Is(err, service.ErrNothingToStudy):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrSessionFinished),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Rate limiting
	case errors.Is(err, service.ErrQuotaExceeded):
		return http.StatusTooManyRequests

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidGrade),
		errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidSessionType),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Not found errors
	case errors.Is(err, store.ErrItemNotFound):
		return "Item not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Generation request not found"

	case errors.Is(err, store.ErrPackageNotFound):
		return "Package not found"

	case errors.Is(err, service.ErrNothingToStudy):
		return "Nothing studied yet"

	// Conflict errors
	case errors.Is(err, store.ErrSessionFinished):
		return "Session already finished"

	// Rate limiting
	case errors.Is(err, service.ErrQuotaExceeded):
		return "Daily generation quota exceeded"

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidGrade):
		return "Grade must be between 0 and 5"

	case errors.Is(err, domain.ErrInvalidDirection):
		return "Invalid study direction"

	case errors.Is(err, domain.ErrInvalidSessionType):
		return "Invalid session type"

	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid generation request"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	// Default case for unknown errors
	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	if strings.Contains(errMsg, "Field validation") {
		// Example format: "Key: 'GradeRequest.Grade' Error:Field validation
		// for 'Grade' failed on the 'required' tag"
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages.
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
