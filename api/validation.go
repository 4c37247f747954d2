// Package api provides the HTTP interface of the recommender.
package api

import (
	"strings"

	"github.com/gcbaptista/assessment-recommender/services"
)

// MaxQueryLength bounds the query text accepted by the recommend endpoint.
const MaxQueryLength = 2000

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Code    ErrorCode `json:"code,omitempty"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string, code ErrorCode) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
		Code:    code,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateRecommendRequest checks that a query is present and non-blank.
// A missing field is an INVALID_REQUEST, a blank or oversized one an INVALID_QUERY.
func ValidateRecommendRequest(req *services.RecommendRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req == nil || req.Query == nil {
		result.AddError("query", "Missing query", ErrorCodeInvalidRequest)
		return result
	}

	if strings.TrimSpace(*req.Query) == "" {
		result.AddError("query", "Query must not be empty", ErrorCodeInvalidQuery)
		return result
	}

	if len(*req.Query) > MaxQueryLength {
		result.AddError("query", "Query is too long", ErrorCodeInvalidQuery)
	}

	return result
}
