package services

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

func TestProfile_Get_CreatesEmpty(t *testing.T) {
	f := newFixture(t)
	p, err := f.profiles.Get(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if p.UserID != "new-user" || len(p.CompletedCourses) != 0 || p.LastRefreshedAt != nil {
		t.Fatalf("unexpected fresh profile: %+v", p)
	}
	if _, err := repo.GetProfile(context.Background(), f.db, "new-user"); err != nil {
		t.Fatalf("profile should be persisted: %v", err)
	}
}

func TestProfile_Refresh_RecomputesFromSources(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()
	seedCatalog(t, f.db, now)

	seedEnrollment(t, f.db, "u", "web-101", domain.EnrollmentCompleted, now.Add(-48*time.Hour))
	seedEnrollment(t, f.db, "u", "web-201", domain.EnrollmentActive, now.Add(-24*time.Hour))
	seedInteraction(t, f.db, "u", "data-01", domain.InteractionViewed, 0, now.Add(-3*time.Hour))
	seedInteraction(t, f.db, "u", "web-101", domain.InteractionRated, 4, now.Add(-2*time.Hour))
	seedInteraction(t, f.db, "u", "data-02", domain.InteractionRated, 2, now.Add(-time.Hour))

	p, err := f.profiles.Refresh(ctx, "u")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if !slices.Equal([]string(p.CompletedCourses), []string{"web-101"}) {
		t.Fatalf("completed = %v", p.CompletedCourses)
	}
	snap := p.FeatureSnapshot.Data()
	if snap.TotalInteractions != 3 || snap.CompletedCount != 1 || snap.EnrolledCount != 1 {
		t.Fatalf("snapshot counters = %+v", snap)
	}
	if snap.AvgRatingGiven != 3 {
		t.Fatalf("avg rating = %v", snap.AvgRatingGiven)
	}
	if !slices.Equal(snap.CategoriesTouched, []string{"data", "web"}) {
		t.Fatalf("categories = %v", snap.CategoriesTouched)
	}
	if len(p.ViewedCourses) != 1 || p.ViewedCourses[0].CourseID != "data-01" || p.ViewedCourses[0].ViewCount != 1 {
		t.Fatalf("viewed = %+v", p.ViewedCourses)
	}
	if p.LastRefreshedAt == nil || !p.LastRefreshedAt.Equal(now) || !p.LastActive.Equal(now) {
		t.Fatalf("timestamps not stamped: %+v", p)
	}
}

func TestProfile_Refresh_IdempotentAndCountsNewViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := f.clock.Now()
	seedCatalog(t, f.db, now)
	seedInteraction(t, f.db, "u", "data-01", domain.InteractionViewed, 0, now.Add(-time.Hour))

	first, err := f.profiles.Refresh(ctx, "u")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	second, err := f.profiles.Refresh(ctx, "u")
	if err != nil {
		t.Fatalf("Refresh again: %v", err)
	}
	if first.FeatureSnapshot.Data().TotalInteractions != second.FeatureSnapshot.Data().TotalInteractions {
		t.Fatalf("snapshot must not accumulate across refreshes")
	}
	if second.ViewedCourses[0].ViewCount != 1 {
		t.Fatalf("view count must not grow without new views: %+v", second.ViewedCourses)
	}

	seedInteraction(t, f.db, "u", "data-01", domain.InteractionViewed, 0, now.Add(time.Hour))
	third, err := f.profiles.Refresh(ctx, "u")
	if err != nil {
		t.Fatalf("Refresh after view: %v", err)
	}
	v := third.ViewedCourses[0]
	if v.ViewCount != 2 || !v.FirstViewed.Equal(now.Add(-time.Hour)) || !v.LastViewed.Equal(now.Add(time.Hour)) {
		t.Fatalf("viewed row = %+v", v)
	}

	// Several views between two refreshes all count.
	for i := 0; i < 3; i++ {
		f.clock.Advance(2 * time.Hour)
		if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "data-01", Type: domain.InteractionViewed}); err != nil {
			t.Fatalf("Track view %d: %v", i, err)
		}
	}
	fourth, err := f.profiles.Refresh(ctx, "u")
	if err != nil {
		t.Fatalf("Refresh after tracked views: %v", err)
	}
	v = fourth.ViewedCourses[0]
	if v.ViewCount != 5 || !v.FirstViewed.Equal(now.Add(-time.Hour)) || !v.LastViewed.Equal(f.clock.Now()) {
		t.Fatalf("viewed row after tracked views = %+v", v)
	}
}

func TestViewedSet_IgnoresOtherTypes(t *testing.T) {
	t0 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	got := viewedSet([]domain.Interaction{
		{CourseID: "b", Type: domain.InteractionViewed, Occurrences: 4, FirstOccurredAt: t0, OccurredAt: t0.Add(time.Hour)},
		{CourseID: "a", Type: domain.InteractionViewed, OccurredAt: t0},
		{CourseID: "c", Type: domain.InteractionRated, Occurrences: 2, OccurredAt: t0},
	})
	if len(got) != 2 || got[0].CourseID != "a" || got[1].CourseID != "b" {
		t.Fatalf("viewedSet = %+v", got)
	}
	if got[0].ViewCount != 1 || !got[0].FirstViewed.Equal(t0) {
		t.Fatalf("legacy row = %+v", got[0])
	}
	if got[1].ViewCount != 4 || !got[1].FirstViewed.Equal(t0) || !got[1].LastViewed.Equal(t0.Add(time.Hour)) {
		t.Fatalf("counted row = %+v", got[1])
	}
}

func TestProfile_UpdatePreferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cats := []string{" Data-Science ", "web", "web"}
	levels := []string{"Beginner"}
	p, err := f.profiles.UpdatePreferences(ctx, "u", PreferencesInput{Categories: &cats, DifficultyLevels: &levels})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if !slices.Equal([]string(p.PreferredCategories), []string{"Data-Science", "web"}) {
		t.Fatalf("categories = %v", p.PreferredCategories)
	}
	if !slices.Equal([]string(p.PreferredDifficultyLevels), []string{"beginner"}) {
		t.Fatalf("levels = %v", p.PreferredDifficultyLevels)
	}

	styles := []string{"video"}
	p, err = f.profiles.UpdatePreferences(ctx, "u", PreferencesInput{LearningStyles: &styles})
	if err != nil {
		t.Fatalf("UpdatePreferences styles: %v", err)
	}
	if len(p.PreferredCategories) != 2 {
		t.Fatalf("nil field must be left unchanged: %v", p.PreferredCategories)
	}

	bad := []string{"expert"}
	if _, err := f.profiles.UpdatePreferences(ctx, "u", PreferencesInput{DifficultyLevels: &bad}); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences, got %v", err)
	}
	empty := []string{"  "}
	if _, err := f.profiles.UpdatePreferences(ctx, "u", PreferencesInput{Categories: &empty}); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("expected ErrInvalidPreferences for blank value, got %v", err)
	}
}
