// Package services – InteractionService
//
// InteractionService is the single write path for interaction events. Track
// never panics and never returns anything but ErrNotTracked-wrapped errors,
// so callers can degrade to "not tracked" without failing their own work.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

// TrackInput is one interaction event.
type TrackInput struct {
	UserID    string
	CourseID  string
	Type      domain.InteractionType
	Rating    *int
	TimeSpent int
	Metadata  map[string]any
}

// InteractionService records interaction events and keeps the profile of
// the acting user fresh.
type InteractionService struct {
	DB       *gorm.DB
	Profiles *ProfileService
	Settings *SettingsService
	Logger   zerolog.Logger
	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NewInteractionService wires an InteractionService.
func NewInteractionService(db *gorm.DB, profiles *ProfileService, settings *SettingsService, logger zerolog.Logger) *InteractionService {
	return &InteractionService{
		DB:       db,
		Profiles: profiles,
		Settings: settings,
		Logger:   logger.With().Str("component", "interactions").Logger(),
	}
}

func (s *InteractionService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Track validates and upserts an interaction on (user, course, type). After
// a successful write the user's profile is refreshed when auto refresh is
// on and the last refresh is older than the configured interval. A failed
// refresh is logged and does not affect the result.
func (s *InteractionService) Track(ctx context.Context, in TrackInput) (it *domain.Interaction, err error) {
	tr := otel.Tracer("services/InteractionService")
	ctx, span := tr.Start(ctx, "Track",
		trace.WithAttributes(
			attribute.String("user.id", in.UserID),
			attribute.String("course.id", in.CourseID),
			attribute.String("interaction.type", string(in.Type)),
		),
	)
	defer span.End()

	log := s.Logger.With().Str("user_id", in.UserID).Str("course_id", in.CourseID).Str("type", string(in.Type)).Logger()
	defer func() {
		if r := recover(); r != nil {
			it, err = nil, fmt.Errorf("%w: panic: %v", ErrNotTracked, r)
		}
		if err != nil {
			span.RecordError(err)
			log.Error().Err(err).Msg("interaction not tracked")
		}
	}()

	if err := validateTrack(in); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTracked, err)
	}
	if _, err := repo.GetCourse(ctx, s.DB, in.CourseID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrNotTracked, ErrCourseNotFound)
		}
		return nil, fmt.Errorf("%w: %w", ErrNotTracked, err)
	}

	rec := &domain.Interaction{
		UserID:     in.UserID,
		CourseID:   in.CourseID,
		Type:       in.Type,
		Rating:     in.Rating,
		TimeSpent:  in.TimeSpent,
		OccurredAt: s.now(),
		Metadata:   datatypes.JSONMap(in.Metadata),
	}
	if rec.Metadata == nil {
		rec.Metadata = datatypes.JSONMap{}
	}
	stored, err := repo.UpsertInteraction(ctx, s.DB, rec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotTracked, err)
	}

	s.maybeRefresh(ctx, in.UserID, log)
	return stored, nil
}

func validateTrack(in TrackInput) error {
	switch {
	case in.UserID == "":
		return errors.New("user id is required")
	case in.CourseID == "":
		return errors.New("course id is required")
	case !in.Type.Valid():
		return ErrInvalidInteractionType
	case in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5):
		return ErrInvalidRating
	case in.TimeSpent < 0:
		return ErrInvalidTimeSpent
	}
	return nil
}

// maybeRefresh applies the auto-refresh throttle. The last refresh time is
// persisted on the profile, so the throttle holds across processes.
func (s *InteractionService) maybeRefresh(ctx context.Context, userID string, log zerolog.Logger) {
	if s.Profiles == nil || s.Settings == nil {
		return
	}
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("settings unavailable, skipping profile refresh")
		return
	}
	if !settings.AutoRefreshEnabled {
		return
	}
	p, err := repo.GetProfile(ctx, s.DB, userID)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		log.Warn().Err(err).Msg("profile lookup failed, skipping profile refresh")
		return
	}
	if !refreshDue(p, settings.RefreshIntervalHours, s.now()) {
		return
	}
	if _, err := s.Profiles.Refresh(ctx, userID); err != nil {
		log.Warn().Err(err).Msg("profile refresh after interaction failed")
		return
	}
	log.Info().Msg("profile refreshed after interaction")
}

func refreshDue(p *domain.UserProfile, intervalHours int, now time.Time) bool {
	if p == nil || p.LastRefreshedAt == nil {
		return true
	}
	return now.Sub(*p.LastRefreshedAt) >= time.Duration(intervalHours)*time.Hour
}

// List returns the interactions of userID, most recent first.
func (s *InteractionService) List(ctx context.Context, userID string) ([]domain.Interaction, error) {
	return repo.ListInteractions(ctx, s.DB, userID)
}
