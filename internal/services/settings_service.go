// Package services – SettingsService
//
// The engine settings are a singleton row. When no row has been stored the
// service serves its configured defaults (built in, or loaded from a YAML
// file at startup), so generation never fails for lack of settings.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

// SettingsInput is a settings update. Nil fields keep their current value;
// AlgorithmWeights, when present, replaces the whole weight map.
type SettingsInput struct {
	AlgorithmWeights          map[string]float64 `json:"algorithm_weights"            validate:"omitempty,dive,keys,oneof=collaborative content_based popularity knowledge_based,endkeys,gte=0,lte=100"`
	MaxRecommendationsPerUser *int               `json:"max_recommendations_per_user" validate:"omitempty,min=1,max=100"`
	RecommendationExpiryDays  *int               `json:"recommendation_expiry_days"   validate:"omitempty,min=1,max=365"`
	AutoRefreshEnabled        *bool              `json:"auto_refresh_enabled"`
	RefreshIntervalHours      *int               `json:"refresh_interval_hours"       validate:"omitempty,min=0,max=8760"`
	ExcludeCompletedItems     *bool              `json:"exclude_completed_items"`
	ExcludeEnrolledItems      *bool              `json:"exclude_enrolled_items"`
}

// SettingsService reads and updates the engine settings.
type SettingsService struct {
	DB       *gorm.DB
	Defaults recommend.Settings

	validate *validator.Validate
}

// NewSettingsService returns a SettingsService serving defaults while no
// settings are stored. A zero defaults value means recommend.DefaultSettings.
func NewSettingsService(db *gorm.DB, defaults recommend.Settings) *SettingsService {
	if defaults.Weights == nil {
		defaults = recommend.DefaultSettings()
	}
	return &SettingsService{DB: db, Defaults: defaults, validate: validator.New()}
}

// Get returns the stored settings, or the defaults when none are stored.
func (s *SettingsService) Get(ctx context.Context) (recommend.Settings, error) {
	m, err := repo.GetSettings(ctx, s.DB)
	if errors.Is(err, repo.ErrNotFound) {
		return s.defaults(), nil
	}
	if err != nil {
		return recommend.Settings{}, err
	}
	return recommend.SettingsFromModel(m), nil
}

// Update applies in on top of the current settings, validates the result
// and stores it. Validation failures wrap ErrInvalidSettings.
func (s *SettingsService) Update(ctx context.Context, in SettingsInput) (recommend.Settings, error) {
	if s.validate == nil {
		s.validate = validator.New()
	}
	if err := s.validate.Struct(in); err != nil {
		return recommend.Settings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, describeValidation(err))
	}

	cur, err := s.Get(ctx)
	if err != nil {
		return recommend.Settings{}, err
	}
	if in.AlgorithmWeights != nil {
		cur.Weights = make(map[domain.Algorithm]float64, len(in.AlgorithmWeights))
		for k, v := range in.AlgorithmWeights {
			cur.Weights[domain.Algorithm(k)] = v
		}
	}
	if in.MaxRecommendationsPerUser != nil {
		cur.MaxRecommendationsPerUser = *in.MaxRecommendationsPerUser
	}
	if in.RecommendationExpiryDays != nil {
		cur.RecommendationExpiryDays = *in.RecommendationExpiryDays
	}
	if in.AutoRefreshEnabled != nil {
		cur.AutoRefreshEnabled = *in.AutoRefreshEnabled
	}
	if in.RefreshIntervalHours != nil {
		cur.RefreshIntervalHours = *in.RefreshIntervalHours
	}
	if in.ExcludeCompletedItems != nil {
		cur.ExcludeCompletedItems = *in.ExcludeCompletedItems
	}
	if in.ExcludeEnrolledItems != nil {
		cur.ExcludeEnrolledItems = *in.ExcludeEnrolledItems
	}
	if err := cur.Validate(); err != nil {
		return recommend.Settings{}, fmt.Errorf("%w: %s", ErrInvalidSettings, err)
	}

	if err := repo.SaveSettings(ctx, s.DB, cur.Model()); err != nil {
		return recommend.Settings{}, err
	}
	return cur, nil
}

// defaults returns a copy so callers cannot mutate the shared weight map.
func (s *SettingsService) defaults() recommend.Settings {
	d := s.Defaults
	if d.Weights == nil {
		return recommend.DefaultSettings()
	}
	w := make(map[domain.Algorithm]float64, len(d.Weights))
	for k, v := range d.Weights {
		w[k] = v
	}
	d.Weights = w
	return d
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("field %s failed %q", fe.Namespace(), fe.Tag())
}
