package services

import (
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/recommend"
)

// Bundle is the full set of services sharing one database and one engine.
// The HTTP server and the CLI both build theirs through NewBundle so they
// agree on locking and settings defaults.
type Bundle struct {
	Profiles        *ProfileService
	Settings        *SettingsService
	Interactions    *InteractionService
	Recommendations *RecommendationService
	Feedback        *FeedbackService
	Idempotency     *IdempotencyService
}

// BundleOptions are the optional collaborators of NewBundle.
type BundleOptions struct {
	// Engine defaults to the standard engine over a GormSource on db.
	Engine *recommend.Engine
	// Locker defaults to an in-process LocalLocker.
	Locker recommend.Locker
	// Defaults are the settings served while none are stored.
	Defaults recommend.Settings
	// IdempotencyTTL defaults to DefaultIdempotencyTTL.
	IdempotencyTTL time.Duration
}

// NewBundle wires every service over db.
func NewBundle(db *gorm.DB, logger zerolog.Logger, opts BundleOptions) *Bundle {
	engine := opts.Engine
	if engine == nil {
		engine = recommend.NewEngine(recommend.NewGormSource(db), logger)
	}

	profiles := NewProfileService(db)
	settings := NewSettingsService(db, opts.Defaults)
	return &Bundle{
		Profiles:        profiles,
		Settings:        settings,
		Interactions:    NewInteractionService(db, profiles, settings, logger),
		Recommendations: NewRecommendationService(db, engine, profiles, settings, opts.Locker, logger),
		Feedback:        &FeedbackService{DB: db},
		Idempotency:     NewIdempotencyService(db, opts.IdempotencyTTL),
	}
}
