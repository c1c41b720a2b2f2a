// Package repo: the recommendation store. A user's batch is always replaced
// as a whole; afterwards individual rows change only through click and
// dismiss.
//
// Error semantics:
//   - Lookups and mutations scoped by (id, user_id) return ErrNotFound when
//     the row is missing or belongs to another user.
//   - Other DB errors are propagated unchanged.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// ReplaceRecommendations deletes every recommendation of userID and inserts
// batch in the same transaction, so readers never observe a mixed or empty
// intermediate state. Feedback on the deleted rows is removed with them.
func ReplaceRecommendations(ctx context.Context, db *gorm.DB, userID string, batch []domain.Recommendation) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&domain.Recommendation{}).Select("id").Where("user_id = ?", userID)
		if err := tx.Where("recommendation_id IN (?)", owned).Delete(&domain.Feedback{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&domain.Recommendation{}).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		return tx.Create(&batch).Error
	})
}

// ListActiveRecommendations returns the non-expired recommendations of
// userID at now, highest score first.
func ListActiveRecommendations(ctx context.Context, db *gorm.DB, userID string, now time.Time) ([]domain.Recommendation, error) {
	var out []domain.Recommendation
	err := db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("score desc, id asc").
		Find(&out).Error
	return out, err
}

// LatestExpiry returns the greatest expires_at among all recommendations of
// userID (expired or not), or nil when the user has none.
func LatestExpiry(ctx context.Context, db *gorm.DB, userID string) (*time.Time, error) {
	var rows []domain.Recommendation
	err := db.WithContext(ctx).
		Select("expires_at").
		Where("user_id = ?", userID).
		Order("expires_at desc").
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0].ExpiresAt, nil
}

// GetRecommendation fetches a recommendation by ID and owner.
func GetRecommendation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Recommendation, error) {
	var r domain.Recommendation
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// MarkClicked flags the recommendation as clicked at now and returns the
// updated row. Clicking twice keeps the first click time.
func MarkClicked(ctx context.Context, db *gorm.DB, id, userID string, now time.Time) (*domain.Recommendation, error) {
	return markFlag(ctx, db, id, userID, "is_clicked", "clicked_at", now)
}

// MarkDismissed flags the recommendation as dismissed at now and returns the
// updated row.
func MarkDismissed(ctx context.Context, db *gorm.DB, id, userID string, now time.Time) (*domain.Recommendation, error) {
	return markFlag(ctx, db, id, userID, "is_dismissed", "dismissed_at", now)
}

func markFlag(ctx context.Context, db *gorm.DB, id, userID, flagCol, atCol string, now time.Time) (*domain.Recommendation, error) {
	rec, err := GetRecommendation(ctx, db, id, userID)
	if err != nil {
		return nil, err
	}
	res := db.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("id = ? AND user_id = ? AND "+flagCol+" = ?", id, userID, false).
		Updates(map[string]any{flagCol: true, atCol: now})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// already flagged
		return rec, nil
	}
	return GetRecommendation(ctx, db, id, userID)
}
