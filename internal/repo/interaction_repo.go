// Package repo: persistence for interaction records. An interaction is
// unique per (user_id, course_id, type); UpsertInteraction relies on that
// unique index to update in place instead of inserting a duplicate.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// UpsertInteraction inserts in, or updates rating, time spent, timestamp and
// metadata of the existing row with the same (user, course, type) and bumps
// its occurrence count. first_occurred_at is only written on insert. It
// returns the stored row.
func UpsertInteraction(ctx context.Context, db *gorm.DB, in *domain.Interaction) (*domain.Interaction, error) {
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	in.Occurrences = 1
	if in.FirstOccurredAt.IsZero() {
		in.FirstOccurredAt = in.OccurredAt
	}
	updates := append(
		clause.AssignmentColumns([]string{"rating", "time_spent", "occurred_at", "metadata"}),
		clause.Assignment{Column: clause.Column{Name: "occurrences"}, Value: gorm.Expr("occurrences + 1")},
	)
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}, {Name: "type"}},
			DoUpdates: updates,
		}).
		Create(in).Error
	if err != nil {
		return nil, err
	}

	var out domain.Interaction
	err = db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND type = ?", in.UserID, in.CourseID, in.Type).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListInteractions returns all interactions of userID, most recent first.
func ListInteractions(ctx context.Context, db *gorm.DB, userID string) ([]domain.Interaction, error) {
	var out []domain.Interaction
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at desc, id asc").
		Find(&out).Error
	return out, err
}

// InteractionSets returns, for every user with at least one interaction, the
// distinct course IDs they interacted with (any type), sorted.
func InteractionSets(ctx context.Context, db *gorm.DB) (map[string][]string, error) {
	var rows []struct {
		UserID   string
		CourseID string
	}
	err := db.WithContext(ctx).
		Model(&domain.Interaction{}).
		Distinct("user_id", "course_id").
		Order("user_id asc, course_id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string][]string)
	for _, r := range rows {
		out[r.UserID] = append(out[r.UserID], r.CourseID)
	}
	return out, nil
}
