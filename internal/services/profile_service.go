// Package services – ProfileService
//
// ProfileService owns the UserProfile aggregate. Refresh rebuilds every
// derived field (completed courses, viewed set, feature snapshot) from the
// enrollment and interaction stores; the explicit preference fields are only
// ever changed by UpdatePreferences.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

// ProfileService builds and updates user profiles.
type ProfileService struct {
	DB *gorm.DB
	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NewProfileService returns a ProfileService on db.
func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

func (s *ProfileService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Get returns the profile of userID with its viewed set, creating an empty
// profile if none exists. It does not refresh derived fields.
func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p, err := repo.GetOrCreateProfile(ctx, s.DB, userID, s.now())
	if err != nil {
		return nil, err
	}
	viewed, err := repo.ListViewedCourses(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	p.ViewedCourses = viewed
	return p, nil
}

// Refresh recomputes the derived fields of userID's profile from scratch and
// stamps last_active and last_refreshed_at. Calling it repeatedly without new
// activity changes nothing but those timestamps.
func (s *ProfileService) Refresh(ctx context.Context, userID string) (*domain.UserProfile, error) {
	tr := otel.Tracer("services/ProfileService")
	ctx, span := tr.Start(ctx, "Refresh", trace.WithAttributes(attribute.String("user.id", userID)))
	defer span.End()

	now := s.now()
	p, err := repo.GetOrCreateProfile(ctx, s.DB, userID, now)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	enrollments, err := repo.ListEnrollments(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	interactions, err := repo.ListInteractions(ctx, s.DB, userID)
	if err != nil {
		return nil, fmt.Errorf("load interactions: %w", err)
	}
	courses, err := repo.ListCourses(ctx, s.DB)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	completed := make([]string, 0)
	active := 0
	for _, e := range enrollments {
		switch e.Status {
		case domain.EnrollmentCompleted:
			completed = append(completed, e.CourseID)
		case domain.EnrollmentActive:
			active++
		}
	}
	sort.Strings(completed)

	snap := buildSnapshot(interactions, courses)
	snap.CompletedCount = len(completed)
	snap.EnrolledCount = active

	p.CompletedCourses = datatypes.JSONSlice[string](completed)
	p.FeatureSnapshot = datatypes.NewJSONType(snap)
	p.TotalLearningTime = snap.TotalTime
	p.LastActive = now
	p.LastRefreshedAt = &now

	viewed := viewedSet(interactions)
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.SaveProfile(ctx, tx, p); err != nil {
			return err
		}
		return repo.ReplaceViewedCourses(ctx, tx, userID, viewed)
	})
	if err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}
	p.ViewedCourses = viewed
	span.SetAttributes(
		attribute.Int("profile.completed", len(completed)),
		attribute.Int("profile.viewed", len(viewed)),
	)
	return p, nil
}

func buildSnapshot(its []domain.Interaction, courses []domain.Course) domain.FeatureSnapshot {
	byID := make(map[string]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	cats := map[string]struct{}{}
	levels := map[string]struct{}{}
	var ratingSum, ratingN, total int
	for _, it := range its {
		total += it.TimeSpent
		if it.Type == domain.InteractionRated && it.Rating != nil {
			ratingSum += *it.Rating
			ratingN++
		}
		if c, ok := byID[it.CourseID]; ok {
			cats[c.Category] = struct{}{}
			levels[string(c.DifficultyLevel)] = struct{}{}
		}
	}
	snap := domain.FeatureSnapshot{
		TotalInteractions:       len(its),
		TotalTime:               total,
		CategoriesTouched:       sortedKeys(cats),
		DifficultyLevelsTouched: sortedKeys(levels),
	}
	if ratingN > 0 {
		snap.AvgRatingGiven = float64(ratingSum) / float64(ratingN)
	}
	return snap
}

// viewedSet derives the viewed set from the "viewed" interactions. Count and
// first view time are kept on the interaction row at write time.
func viewedSet(its []domain.Interaction) []domain.ViewedCourse {
	out := make([]domain.ViewedCourse, 0)
	for _, it := range its {
		if it.Type != domain.InteractionViewed {
			continue
		}
		first := it.FirstOccurredAt
		if first.IsZero() {
			first = it.OccurredAt
		}
		out = append(out, domain.ViewedCourse{
			CourseID:    it.CourseID,
			FirstViewed: first,
			LastViewed:  it.OccurredAt,
			ViewCount:   max(it.Occurrences, 1),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CourseID < out[j].CourseID })
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// PreferencesInput carries the explicit preference fields. A nil field is
// left unchanged; an empty slice clears it.
type PreferencesInput struct {
	Categories       *[]string
	DifficultyLevels *[]string
	LearningStyles   *[]string
}

// UpdatePreferences writes the explicit preference fields of userID's
// profile. Values are trimmed and deduplicated; difficulty levels must be
// known, otherwise ErrInvalidPreferences.
func (s *ProfileService) UpdatePreferences(ctx context.Context, userID string, in PreferencesInput) (*domain.UserProfile, error) {
	cats, err := cleanList(in.Categories, false)
	if err != nil {
		return nil, err
	}
	levels, err := cleanList(in.DifficultyLevels, true)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		if !domain.DifficultyLevel(l).Valid() {
			return nil, fmt.Errorf("%w: unknown difficulty level %q", ErrInvalidPreferences, l)
		}
	}
	styles, err := cleanList(in.LearningStyles, true)
	if err != nil {
		return nil, err
	}

	p, err := repo.GetOrCreateProfile(ctx, s.DB, userID, s.now())
	if err != nil {
		return nil, err
	}
	if in.Categories != nil {
		p.PreferredCategories = cats
	}
	if in.DifficultyLevels != nil {
		p.PreferredDifficultyLevels = levels
	}
	if in.LearningStyles != nil {
		p.PreferredLearningStyles = styles
	}
	if err := repo.SaveProfile(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

func cleanList(in *[]string, lower bool) (datatypes.JSONSlice[string], error) {
	if in == nil {
		return nil, nil
	}
	out := datatypes.JSONSlice[string]{}
	seen := map[string]struct{}{}
	for _, v := range *in {
		v = strings.TrimSpace(v)
		if lower {
			v = strings.ToLower(v)
		}
		if v == "" {
			return nil, fmt.Errorf("%w: empty value", ErrInvalidPreferences)
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}
