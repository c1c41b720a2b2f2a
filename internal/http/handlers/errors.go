// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic ones mirror the HTTP status; the
// domain ones name the operation that failed so clients can branch on them
// without parsing messages.
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeGenerateFailed     = "generate_failed"
	ErrCodeListFailed         = "list_failed"
	ErrCodeUpdateFailed       = "update_failed"
	ErrCodeInvalidFeedback    = "invalid_feedback"
	ErrCodeInvalidSettings    = "invalid_settings"
	ErrCodeInvalidPreferences = "invalid_preferences"
	ErrCodeNotTracked         = "not_tracked"
)
