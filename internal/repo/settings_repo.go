// Package repo: the EngineSettings singleton.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// GetSettings returns the settings row, or ErrNotFound when it was never
// written.
func GetSettings(ctx context.Context, db *gorm.DB) (*domain.EngineSettings, error) {
	var s domain.EngineSettings
	if err := db.WithContext(ctx).Where("id = ?", domain.SettingsID).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings writes s as the singleton row, inserting it on first use.
func SaveSettings(ctx context.Context, db *gorm.DB, s *domain.EngineSettings) error {
	s.ID = domain.SettingsID
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(s).Error
}
