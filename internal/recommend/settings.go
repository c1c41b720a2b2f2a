package recommend

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// FallbackWeight is applied to a candidate whose algorithm has no
// configured weight.
const FallbackWeight = 0.2

// Settings is the engine configuration for one generation run. It is loaded
// once at the start of the run and passed by value, so a concurrent update
// of the stored settings never affects a run in progress.
type Settings struct {
	Weights                   map[domain.Algorithm]float64 `json:"algorithm_weights" yaml:"algorithm_weights"`
	MaxRecommendationsPerUser int                          `json:"max_recommendations_per_user" yaml:"max_recommendations_per_user"`
	RecommendationExpiryDays  int                          `json:"recommendation_expiry_days" yaml:"recommendation_expiry_days"`
	AutoRefreshEnabled        bool                         `json:"auto_refresh_enabled" yaml:"auto_refresh_enabled"`
	RefreshIntervalHours      int                          `json:"refresh_interval_hours" yaml:"refresh_interval_hours"`
	ExcludeCompletedItems     bool                         `json:"exclude_completed_items" yaml:"exclude_completed_items"`
	ExcludeEnrolledItems      bool                         `json:"exclude_enrolled_items" yaml:"exclude_enrolled_items"`
}

// DefaultSettings returns the built-in settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Weights: map[domain.Algorithm]float64{
			domain.AlgorithmCollaborative: 0.30,
			domain.AlgorithmContentBased:  0.25,
			domain.AlgorithmPopularity:    0.20,
			domain.AlgorithmKnowledge:     0.25,
		},
		MaxRecommendationsPerUser: 10,
		RecommendationExpiryDays:  7,
		AutoRefreshEnabled:        true,
		RefreshIntervalHours:      24,
		ExcludeCompletedItems:     true,
		ExcludeEnrolledItems:      true,
	}
}

// Validate checks that weights name at least one known algorithm and are
// non-negative, and that the numeric limits are positive.
func (s Settings) Validate() error {
	if len(s.Weights) == 0 {
		return errors.New("algorithm_weights must name at least one algorithm")
	}
	for alg, w := range s.Weights {
		if !alg.Valid() {
			return fmt.Errorf("unknown algorithm %q in weights", alg)
		}
		if w < 0 {
			return fmt.Errorf("weight for %q must be non-negative", alg)
		}
	}
	if s.MaxRecommendationsPerUser < 1 {
		return errors.New("max_recommendations_per_user must be at least 1")
	}
	if s.RecommendationExpiryDays < 1 {
		return errors.New("recommendation_expiry_days must be at least 1")
	}
	if s.RefreshIntervalHours < 0 {
		return errors.New("refresh_interval_hours must be non-negative")
	}
	return nil
}

// Weight returns the configured weight of alg, or FallbackWeight when alg
// has none.
func (s Settings) Weight(alg domain.Algorithm) float64 {
	if w, ok := s.Weights[alg]; ok {
		return w
	}
	return FallbackWeight
}

// SettingsFromModel converts the stored row into Settings. Weight keys that
// do not name a known algorithm are dropped.
func SettingsFromModel(m *domain.EngineSettings) Settings {
	raw := m.AlgorithmWeights.Data()
	weights := make(map[domain.Algorithm]float64, len(raw))
	for k, v := range raw {
		if alg := domain.Algorithm(k); alg.Valid() {
			weights[alg] = v
		}
	}
	return Settings{
		Weights:                   weights,
		MaxRecommendationsPerUser: m.MaxRecommendationsPerUser,
		RecommendationExpiryDays:  m.RecommendationExpiryDays,
		AutoRefreshEnabled:        m.AutoRefreshEnabled,
		RefreshIntervalHours:      m.RefreshIntervalHours,
		ExcludeCompletedItems:     m.ExcludeCompletedItems,
		ExcludeEnrolledItems:      m.ExcludeEnrolledItems,
	}
}

// Model converts s into its stored form.
func (s Settings) Model() *domain.EngineSettings {
	raw := make(map[string]float64, len(s.Weights))
	for k, v := range s.Weights {
		raw[string(k)] = v
	}
	return &domain.EngineSettings{
		ID:                        domain.SettingsID,
		AlgorithmWeights:          datatypes.NewJSONType(raw),
		MaxRecommendationsPerUser: s.MaxRecommendationsPerUser,
		RecommendationExpiryDays:  s.RecommendationExpiryDays,
		AutoRefreshEnabled:        s.AutoRefreshEnabled,
		RefreshIntervalHours:      s.RefreshIntervalHours,
		ExcludeCompletedItems:     s.ExcludeCompletedItems,
		ExcludeEnrolledItems:      s.ExcludeEnrolledItems,
	}
}

// LoadDefaultsFile reads settings from a YAML file. Keys missing from the
// file keep their built-in default; the result is validated.
func LoadDefaultsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("read engine defaults: %w", err)
	}
	s := DefaultSettings()
	// a weights map in the file replaces the default map instead of merging into it
	s.Weights = nil
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("parse engine defaults: %w", err)
	}
	if s.Weights == nil {
		s.Weights = DefaultSettings().Weights
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("engine defaults: %w", err)
	}
	return s, nil
}
