// Package services – RecommendationService
//
// RecommendationService runs the generation state machine for a user:
//
//	no_active_recs ─generate→ active ─(expiry passes)→ expired ─generate→ active
//
// Expiry is never written; it is derived at read time from expires_at. A
// generate call holds the user's lock for its whole duration, so two calls
// for the same user never interleave their delete and insert.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

// State is the derived generation state of a user.
type State string

const (
	StateNoActive State = "no_active_recs"
	StateActive   State = "active"
	StateExpired  State = "expired"
)

// GenerateResult is the batch returned by Generate.
type GenerateResult struct {
	Items []domain.Recommendation
	// Regenerated is false when an active batch was returned unchanged.
	Regenerated bool
	// FailedAlgorithms lists generators that contributed nothing.
	FailedAlgorithms []domain.Algorithm
}

// RecommendationService orchestrates generation and serves the
// recommendation store.
type RecommendationService struct {
	DB       *gorm.DB
	Engine   *recommend.Engine
	Profiles *ProfileService
	Settings *SettingsService
	Locker   recommend.Locker
	Logger   zerolog.Logger
	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NewRecommendationService wires a RecommendationService. A nil locker
// means an in-process LocalLocker.
func NewRecommendationService(db *gorm.DB, engine *recommend.Engine, profiles *ProfileService, settings *SettingsService, locker recommend.Locker, logger zerolog.Logger) *RecommendationService {
	if locker == nil {
		locker = recommend.NewLocalLocker()
	}
	return &RecommendationService{
		DB:       db,
		Engine:   engine,
		Profiles: profiles,
		Settings: settings,
		Locker:   locker,
		Logger:   logger.With().Str("component", "recommendations").Logger(),
	}
}

func (s *RecommendationService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Generate returns the active batch of userID unchanged when one exists and
// force is false. Otherwise it refreshes the profile, runs the engine and
// replaces the user's batch atomically. Generator failures never fail the
// call; an empty batch is a valid result.
func (s *RecommendationService) Generate(ctx context.Context, userID string, force bool) (*GenerateResult, error) {
	tr := otel.Tracer("services/RecommendationService")
	ctx, span := tr.Start(ctx, "Generate",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Bool("force", force),
		),
	)
	defer span.End()

	res, err := s.generate(ctx, userID, force)
	switch {
	case err != nil:
		recommend.RecordGeneration(recommend.OutcomeError)
		span.RecordError(err)
		span.SetStatus(codes.Error, "generate failed")
		return nil, err
	case !res.Regenerated:
		recommend.RecordGeneration(recommend.OutcomeReused)
	case len(res.Items) == 0:
		recommend.RecordGeneration(recommend.OutcomeEmpty)
	default:
		recommend.RecordGeneration(recommend.OutcomeGenerated)
	}
	span.SetAttributes(
		attribute.Int("recs.count", len(res.Items)),
		attribute.Bool("recs.regenerated", res.Regenerated),
	)
	return res, nil
}

func (s *RecommendationService) generate(ctx context.Context, userID string, force bool) (*GenerateResult, error) {
	unlock, err := s.Locker.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	log := s.Logger.With().Str("user_id", userID).Logger()
	now := s.now()

	if !force {
		active, err := repo.ListActiveRecommendations(ctx, s.DB, userID, now)
		if err != nil {
			return nil, err
		}
		if len(active) > 0 {
			return &GenerateResult{Items: active}, nil
		}
	}

	settings, err := s.Settings.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("settings unavailable, generating with defaults")
		settings = recommend.DefaultSettings()
	}
	profile, err := s.Profiles.Refresh(ctx, userID)
	if err != nil {
		return nil, err
	}

	run := s.Engine.Run(ctx, recommend.Input{
		UserID:   userID,
		Profile:  profile,
		Settings: settings,
		Now:      now,
	})

	expires := now.Add(time.Duration(settings.RecommendationExpiryDays) * 24 * time.Hour)
	batch := make([]domain.Recommendation, 0, len(run.Items))
	for _, r := range run.Items {
		algs := make(datatypes.JSONSlice[string], 0, len(r.Algorithms))
		for _, a := range r.Algorithms {
			algs = append(algs, string(a))
		}
		batch = append(batch, domain.Recommendation{
			ID:          uuid.NewString(),
			UserID:      userID,
			CourseID:    r.CourseID,
			Score:       r.Score,
			Algorithms:  algs,
			Reason:      r.Reason(),
			ReasonData:  datatypes.JSONMap(r.ReasonData),
			GeneratedAt: now,
			ExpiresAt:   expires,
		})
	}
	if err := repo.ReplaceRecommendations(ctx, s.DB, userID, batch); err != nil {
		return nil, err
	}

	stored, err := repo.ListActiveRecommendations(ctx, s.DB, userID, now)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("count", len(stored)).
		Int("failed_generators", len(run.Failed)).
		Msg("recommendations generated")
	return &GenerateResult{Items: stored, Regenerated: true, FailedAlgorithms: run.Failed}, nil
}

// Active returns the non-expired recommendations of userID, best first.
func (s *RecommendationService) Active(ctx context.Context, userID string) ([]domain.Recommendation, error) {
	return repo.ListActiveRecommendations(ctx, s.DB, userID, s.now())
}

// ActiveStats summarizes the active batch for conditional responses.
func (s *RecommendationService) ActiveStats(ctx context.Context, userID string) (repo.RecommendationStats, error) {
	return repo.ActiveRecommendationsStats(ctx, s.DB, userID, s.now())
}

// Get returns one recommendation owned by userID, expired or not.
func (s *RecommendationService) Get(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	r, err := repo.GetRecommendation(ctx, s.DB, id, userID)
	return r, notFoundAs(err, ErrRecommendationNotFound)
}

// Click marks the recommendation as clicked. Clicking an expired
// recommendation is allowed; the first click time is kept.
func (s *RecommendationService) Click(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	r, err := repo.MarkClicked(ctx, s.DB, id, userID, s.now())
	return r, notFoundAs(err, ErrRecommendationNotFound)
}

// Dismiss marks the recommendation as dismissed.
func (s *RecommendationService) Dismiss(ctx context.Context, userID, id string) (*domain.Recommendation, error) {
	r, err := repo.MarkDismissed(ctx, s.DB, id, userID, s.now())
	return r, notFoundAs(err, ErrRecommendationNotFound)
}

// State derives the generation state of userID at the current time.
func (s *RecommendationService) State(ctx context.Context, userID string) (State, error) {
	now := s.now()
	latest, err := repo.LatestExpiry(ctx, s.DB, userID)
	if err != nil {
		return "", err
	}
	switch {
	case latest == nil:
		return StateNoActive, nil
	case latest.After(now):
		return StateActive, nil
	}
	return StateExpired, nil
}

func notFoundAs(err, target error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return target
	}
	return err
}
