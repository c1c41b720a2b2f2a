// Package repo: persistence for user profiles and their viewed-course set.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// GetProfile returns the profile of userID (without the viewed set), or
// ErrNotFound.
func GetProfile(ctx context.Context, db *gorm.DB, userID string) (*domain.UserProfile, error) {
	var p domain.UserProfile
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreateProfile returns the profile of userID, creating an empty one
// first if none exists. Concurrent callers converge on the same row.
func GetOrCreateProfile(ctx context.Context, db *gorm.DB, userID string, now time.Time) (*domain.UserProfile, error) {
	fresh := domain.NewUserProfile(userID, now)
	err := db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(fresh).Error
	if err != nil {
		return nil, err
	}
	return GetProfile(ctx, db, userID)
}

// SaveProfile writes every column of p. The viewed set is not touched; use
// ReplaceViewedCourses for that.
func SaveProfile(ctx context.Context, db *gorm.DB, p *domain.UserProfile) error {
	return db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

// ReplaceViewedCourses swaps the viewed set of userID for rows in a single
// transaction.
func ReplaceViewedCourses(ctx context.Context, db *gorm.DB, userID string, rows []domain.ViewedCourse) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&domain.ViewedCourse{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].UserID = userID
		}
		return tx.Create(&rows).Error
	})
}

// ListViewedCourses returns the viewed set of userID, most recently viewed
// first.
func ListViewedCourses(ctx context.Context, db *gorm.DB, userID string) ([]domain.ViewedCourse, error) {
	var out []domain.ViewedCourse
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_viewed desc, course_id asc").
		Find(&out).Error
	return out, err
}
