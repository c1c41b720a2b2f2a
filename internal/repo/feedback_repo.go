// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Feedback
// model.
//
// Feedback is unique per (user_id, recommendation_id). UpsertFeedback relies
// on that unique index: a resubmission overwrites kind and comment of the
// existing row rather than failing. Ownership of the recommendation is a
// business rule and is checked by the services package before calling here.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// UpsertFeedback inserts or overwrites the feedback of userID on
// recommendationID and returns the stored row.
func UpsertFeedback(ctx context.Context, db *gorm.DB, userID, recommendationID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error) {
	now := time.Now().UTC()
	fb := &domain.Feedback{
		ID:               uuid.NewString(),
		UserID:           userID,
		RecommendationID: recommendationID,
		Kind:             kind,
		Comment:          comment,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "recommendation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "comment", "updated_at"}),
		}).
		Create(fb).Error
	if err != nil {
		return nil, err
	}

	var out domain.Feedback
	err = db.WithContext(ctx).
		Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
		First(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CountFeedback returns the number of feedback rows written by userID.
func CountFeedback(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Feedback{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListFeedbackPage returns a page of userID's feedback, newest first.
func ListFeedbackPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Feedback, error) {
	var out []domain.Feedback
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
