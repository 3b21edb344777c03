// Package dto provides Data Transfer Objects for API responses.
package dto

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Error codes returned by the API.
const (
	CodeDatabaseUnavailable = "DATABASE_UNAVAILABLE"
	CodeQueryFailed         = "QUERY_FAILED"
	CodeInternalError       = "INTERNAL_ERROR"
)
