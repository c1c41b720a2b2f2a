// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate queries used for
// conditional responses (ETag generation) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// RecommendationStats summarizes a user's active batch. Any change a client
// could observe in the list (new batch, expiry, click, dismiss) changes at
// least one field.
type RecommendationStats struct {
	Count int64
	// LatestGenerated is nil when Count is 0.
	LatestGenerated *time.Time
	// LatestTouched is the newest clicked_at or dismissed_at, nil when the
	// batch is untouched.
	LatestTouched *time.Time
}

// ActiveRecommendationsStats returns the stats of the non-expired
// recommendations of userID at now.
func ActiveRecommendationsStats(ctx context.Context, db *gorm.DB, userID string, now time.Time) (RecommendationStats, error) {
	var st RecommendationStats
	active := func() *gorm.DB {
		return db.WithContext(ctx).
			Model(&domain.Recommendation{}).
			Where("user_id = ? AND expires_at > ?", userID, now)
	}

	if err := active().Count(&st.Count).Error; err != nil {
		return RecommendationStats{}, err
	}
	if st.Count == 0 {
		return st, nil
	}

	// ORDER BY + LIMIT instead of MAX(), which comes back as TEXT in SQLite
	var err error
	if st.LatestGenerated, err = latestTime(active(), "generated_at"); err != nil {
		return RecommendationStats{}, err
	}
	clicked, err := latestTime(active(), "clicked_at")
	if err != nil {
		return RecommendationStats{}, err
	}
	dismissed, err := latestTime(active(), "dismissed_at")
	if err != nil {
		return RecommendationStats{}, err
	}
	st.LatestTouched = clicked
	if dismissed != nil && (clicked == nil || dismissed.After(*clicked)) {
		st.LatestTouched = dismissed
	}
	return st, nil
}

// latestTime returns the greatest non-null value of col in q, or nil.
func latestTime(q *gorm.DB, col string) (*time.Time, error) {
	var rows []time.Time
	err := q.Where(col+" IS NOT NULL").
		Order(col+" DESC").
		Limit(1).
		Pluck(col, &rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}
