// Package services – FeedbackService
//
// FeedbackService records a user's verdict on a recommendation. Feedback is
// unique per (user, recommendation): submitting again overwrites kind and
// comment of the existing row. Ownership is enforced here; a recommendation
// that does not exist and one that belongs to someone else are both
// reported as ErrRecommendationNotFound so ids cannot be enumerated.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
	"github.com/tbourn/go-recs-backend/internal/utils"
)

// MaxCommentRunes caps the stored feedback comment.
const MaxCommentRunes = 2000

// FeedbackService implements the feedback use-cases.
type FeedbackService struct {
	// DB is the database handle used for all feedback operations.
	DB *gorm.DB
}

// Submit upserts the feedback of userID on recommendationID.
//
//   - kind must be one of helpful, not_helpful, irrelevant, misleading;
//     otherwise ErrInvalidFeedbackKind.
//   - the recommendation must exist and belong to userID; otherwise
//     ErrRecommendationNotFound.
//
// The ownership check and the upsert run in one transaction.
func (s *FeedbackService) Submit(ctx context.Context, userID, recommendationID string, kind domain.FeedbackKind, comment string) (*domain.Feedback, error) {
	if !kind.Valid() {
		return nil, ErrInvalidFeedbackKind
	}
	comment = clipRunes(strings.TrimSpace(comment), MaxCommentRunes)

	var out *domain.Feedback
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetRecommendation(ctx, tx, recommendationID, userID); err != nil {
			return notFoundAs(err, ErrRecommendationNotFound)
		}
		fb, err := repo.UpsertFeedback(ctx, tx, userID, recommendationID, kind, comment)
		if err != nil {
			return err
		}
		out = fb
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPage returns a page of the feedback written by userID, newest first,
// and the total count. Invalid paging falls back to page 1 of 20.
func (s *FeedbackService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Feedback, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	total, err := repo.CountFeedback(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Feedback{}, 0, nil
	}
	items, err := repo.ListFeedbackPage(ctx, s.DB, userID, utils.Offset(page, pageSize), pageSize)
	return items, total, err
}

func clipRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
