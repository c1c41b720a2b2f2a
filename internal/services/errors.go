// Package services implements the use-cases of the recommendation service:
// interaction tracking, profile building, generation and the recommendation
// store, feedback and engine settings.
//
// This file centralizes the service-level error values. Handlers translate
// them into HTTP status codes and stable error codes; everything else is
// treated as an internal failure.
package services

import "errors"

// Recommendation errors.
var (
	// ErrRecommendationNotFound indicates that the recommendation does not
	// exist or belongs to another user.
	ErrRecommendationNotFound = errors.New("recommendation not found")

	// ErrInvalidFeedbackKind is returned for a feedback kind outside
	// helpful, not_helpful, irrelevant and misleading.
	ErrInvalidFeedbackKind = errors.New("invalid feedback kind")
)

// Interaction errors. Track wraps every failure in ErrNotTracked, so callers
// can treat them all as "not tracked" while still inspecting the cause.
var (
	ErrNotTracked = errors.New("interaction not tracked")

	ErrInvalidInteractionType = errors.New("invalid interaction type")
	ErrInvalidRating          = errors.New("rating must be between 1 and 5")
	ErrInvalidTimeSpent       = errors.New("time spent must not be negative")
	ErrCourseNotFound         = errors.New("course not found")
)

// Profile and settings errors.
var (
	// ErrInvalidPreferences is returned when a preference update names an
	// unknown difficulty level or an empty value.
	ErrInvalidPreferences = errors.New("invalid preferences")

	// ErrInvalidSettings wraps every settings validation failure.
	ErrInvalidSettings = errors.New("invalid engine settings")
)
