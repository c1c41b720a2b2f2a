// Package handlers exposes the recommendation API over HTTP.
//
// Handlers are transport-thin: they bind and check input, call a service
// and translate the result or the service's sentinel errors into HTTP
// responses. The caller identity comes from middleware.UserID.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/http/middleware"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// RecommendationService generates and serves a user's recommendations.
type RecommendationService interface {
	Generate(ctx context.Context, userID string, force bool) (*services.GenerateResult, error)
	Active(ctx context.Context, userID string) ([]domain.Recommendation, error)
	ActiveStats(ctx context.Context, userID string) (repo.RecommendationStats, error)
	State(ctx context.Context, userID string) (services.State, error)
	Get(ctx context.Context, userID, id string) (*domain.Recommendation, error)
	Click(ctx context.Context, userID, id string) (*domain.Recommendation, error)
	Dismiss(ctx context.Context, userID, id string) (*domain.Recommendation, error)
}

// FeedbackService records and lists feedback on recommendations.
type FeedbackService interface {
	Submit(ctx context.Context, userID, recommendationID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Feedback, int64, error)
}

// ProfileService reads profiles and updates explicit preferences.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*domain.UserProfile, error)
	UpdatePreferences(ctx context.Context, userID string, in services.PreferencesInput) (*domain.UserProfile, error)
}

// InteractionService records and lists interaction events.
type InteractionService interface {
	Track(ctx context.Context, in services.TrackInput) (*domain.Interaction, error)
	List(ctx context.Context, userID string) ([]domain.Interaction, error)
}

// SettingsService reads and updates the engine settings.
type SettingsService interface {
	Get(ctx context.Context) (recommend.Settings, error)
	Update(ctx context.Context, in services.SettingsInput) (recommend.Settings, error)
}

// IdempotencyStore remembers completed requests for replay detection.
type IdempotencyStore interface {
	Remember(ctx context.Context, userID, scope, key string, status int) error
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Idempotency may be nil,
// in which case keys are validated but never stored.
type Services struct {
	Recommendations RecommendationService
	Feedback        FeedbackService
	Profiles        ProfileService
	Interactions    InteractionService
	Settings        SettingsService
	Idempotency     IdempotencyStore
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	recSvc      RecommendationService
	fbSvc       FeedbackService
	profileSvc  ProfileService
	trackSvc    InteractionService
	settingsSvc SettingsService
	idem        IdempotencyStore
}

// New constructs a Handlers bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		recSvc:      s.Recommendations,
		fbSvc:       s.Feedback,
		profileSvc:  s.Profiles,
		trackSvc:    s.Interactions,
		settingsSvc: s.Settings,
		idem:        s.Idempotency,
	}
}

func userID(c *gin.Context) string { return middleware.UserID(c) }

// remember stores the idempotency key of a successful unsafe request, if
// one was sent. Failures are logged and otherwise ignored: the request
// already succeeded.
func (h *Handlers) remember(c *gin.Context, status int) {
	key, ok := middleware.GetIdempotencyKey(c)
	if !ok || h.idem == nil || middleware.IsReplay(c) {
		return
	}
	scope := middleware.IdempotencyScope(c)
	if err := h.idem.Remember(c.Request.Context(), userID(c), scope, key, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Str("scope", scope).Msg("store idempotency key")
	}
}
