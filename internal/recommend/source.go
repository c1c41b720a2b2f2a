package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

// Source is the engine's read-only view of the catalog, interaction and
// enrollment stores. Generators only read through it.
type Source interface {
	// Courses returns the whole catalog, published or not.
	Courses(ctx context.Context) ([]domain.Course, error)
	// InteractionSets maps every user with interactions to the IDs of the
	// courses they interacted with.
	InteractionSets(ctx context.Context) (map[string][]string, error)
	// UserInteractions returns every interaction record of userID.
	UserInteractions(ctx context.Context, userID string) ([]domain.Interaction, error)
	// ActiveEnrollments returns the IDs of courses userID is currently
	// enrolled in (not yet completed).
	ActiveEnrollments(ctx context.Context, userID string) ([]string, error)
}

// GormSource reads through the repo package.
type GormSource struct {
	DB *gorm.DB
}

// NewGormSource returns a Source backed by db.
func NewGormSource(db *gorm.DB) *GormSource { return &GormSource{DB: db} }

func (s *GormSource) Courses(ctx context.Context) ([]domain.Course, error) {
	return repo.ListCourses(ctx, s.DB)
}

func (s *GormSource) InteractionSets(ctx context.Context) (map[string][]string, error) {
	return repo.InteractionSets(ctx, s.DB)
}

func (s *GormSource) UserInteractions(ctx context.Context, userID string) ([]domain.Interaction, error) {
	return repo.ListInteractions(ctx, s.DB, userID)
}

func (s *GormSource) ActiveEnrollments(ctx context.Context, userID string) ([]string, error) {
	return repo.ListEnrolledCourseIDs(ctx, s.DB, userID, domain.EnrollmentActive)
}

// BreakerConfig tunes the circuit breaker of a BreakerSource.
type BreakerConfig struct {
	// ConsecutiveFailures opens the circuit; zero means 5.
	ConsecutiveFailures uint32
	// Timeout is how long the circuit stays open before probing; zero means 30s.
	Timeout time.Duration
}

// BreakerSource guards another Source with a circuit breaker. While the
// circuit is open every read fails fast with gobreaker.ErrOpenState, which
// generators treat like any other read failure.
type BreakerSource struct {
	next Source
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerSource wraps next. State transitions are logged on logger and
// exported as the recs_source_breaker_state gauge.
func NewBreakerSource(next Source, cfg BreakerConfig, logger zerolog.Logger) *BreakerSource {
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	log := logger.With().Str("component", "source_breaker").Logger()
	sourceBreakerState.Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "recommend-source",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFailures
		},
		// cancellations belong to the caller, not to the store
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, repo.ErrNotFound)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("source circuit state change")
			sourceBreakerState.Set(float64(to))
		},
	})
	return &BreakerSource{next: next, cb: cb}
}

// State reports the current breaker state.
func (s *BreakerSource) State() gobreaker.State { return s.cb.State() }

func (s *BreakerSource) Courses(ctx context.Context) ([]domain.Course, error) {
	v, err := s.cb.Execute(func() (any, error) { return s.next.Courses(ctx) })
	if err != nil {
		return nil, err
	}
	return v.([]domain.Course), nil
}

func (s *BreakerSource) InteractionSets(ctx context.Context) (map[string][]string, error) {
	v, err := s.cb.Execute(func() (any, error) { return s.next.InteractionSets(ctx) })
	if err != nil {
		return nil, err
	}
	return v.(map[string][]string), nil
}

func (s *BreakerSource) UserInteractions(ctx context.Context, userID string) ([]domain.Interaction, error) {
	v, err := s.cb.Execute(func() (any, error) { return s.next.UserInteractions(ctx, userID) })
	if err != nil {
		return nil, err
	}
	return v.([]domain.Interaction), nil
}

func (s *BreakerSource) ActiveEnrollments(ctx context.Context, userID string) ([]string, error) {
	v, err := s.cb.Execute(func() (any, error) { return s.next.ActiveEnrollments(ctx, userID) })
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
