package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

func intp(v int) *int { return &v }

func TestTrack_UpsertsOnUserCourseType(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCatalog(t, f.db, f.clock.Now())

	first, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionRated, Rating: intp(3)})
	if err != nil {
		t.Fatalf("Track: %v", err)
	}
	second, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionRated, Rating: intp(5), TimeSpent: 30})
	if err != nil {
		t.Fatalf("Track again: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same (user, course, type) must update in place: %s vs %s", first.ID, second.ID)
	}
	if second.Rating == nil || *second.Rating != 5 || second.TimeSpent != 30 {
		t.Fatalf("second call values should win: %+v", second)
	}
	if second.Occurrences != 2 || !second.FirstOccurredAt.Equal(first.FirstOccurredAt) {
		t.Fatalf("occurrences/first time = %d/%v, first=%v", second.Occurrences, second.FirstOccurredAt, first.FirstOccurredAt)
	}

	if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionViewed}); err != nil {
		t.Fatalf("Track viewed: %v", err)
	}
	its, err := f.tracker.List(ctx, "u")
	if err != nil || len(its) != 2 {
		t.Fatalf("expected 2 interaction rows, got %d (%v)", len(its), err)
	}
}

func TestTrack_ValidationFailuresAreNotTracked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCatalog(t, f.db, f.clock.Now())

	cases := []struct {
		name  string
		in    TrackInput
		cause error
	}{
		{"bad type", TrackInput{UserID: "u", CourseID: "web-101", Type: "liked"}, ErrInvalidInteractionType},
		{"rating low", TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionRated, Rating: intp(0)}, ErrInvalidRating},
		{"rating high", TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionRated, Rating: intp(6)}, ErrInvalidRating},
		{"negative time", TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionViewed, TimeSpent: -1}, ErrInvalidTimeSpent},
		{"unknown course", TrackInput{UserID: "u", CourseID: "nope", Type: domain.InteractionViewed}, ErrCourseNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			it, err := f.tracker.Track(ctx, tc.in)
			if it != nil {
				t.Fatalf("expected no interaction, got %+v", it)
			}
			if !errors.Is(err, ErrNotTracked) || !errors.Is(err, tc.cause) {
				t.Fatalf("expected ErrNotTracked wrapping %v, got %v", tc.cause, err)
			}
		})
	}
	if its, _ := f.tracker.List(ctx, "u"); len(its) != 0 {
		t.Fatalf("nothing should be stored, got %d", len(its))
	}
}

func TestTrack_StoreFailureIsNotTracked(t *testing.T) {
	f := newFixture(t)
	seedCatalog(t, f.db, f.clock.Now())
	if err := f.db.Migrator().DropTable(&domain.Interaction{}); err != nil {
		t.Fatalf("drop: %v", err)
	}
	_, err := f.tracker.Track(context.Background(), TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionViewed})
	if !errors.Is(err, ErrNotTracked) {
		t.Fatalf("expected ErrNotTracked, got %v", err)
	}
}

func TestTrack_AutoRefreshIsThrottledByPersistedTimestamp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := f.clock.Now()
	seedCatalog(t, f.db, start)

	if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionViewed}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	p, err := repo.GetProfile(ctx, f.db, "u")
	if err != nil || p.LastRefreshedAt == nil || !p.LastRefreshedAt.Equal(start) {
		t.Fatalf("first interaction should refresh the profile: %+v, %v", p, err)
	}

	f.clock.Advance(time.Hour)
	if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-201", Type: domain.InteractionViewed}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	p, _ = repo.GetProfile(ctx, f.db, "u")
	if !p.LastRefreshedAt.Equal(start) {
		t.Fatalf("refresh within the interval must be skipped, last refresh %v", p.LastRefreshedAt)
	}
	if got := p.FeatureSnapshot.Data().TotalInteractions; got != 1 {
		t.Fatalf("snapshot should be stale (1), got %d", got)
	}

	f.clock.Advance(24 * time.Hour)
	if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-301", Type: domain.InteractionViewed}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	p, _ = repo.GetProfile(ctx, f.db, "u")
	if !p.LastRefreshedAt.Equal(f.clock.Now()) || p.FeatureSnapshot.Data().TotalInteractions != 3 {
		t.Fatalf("refresh after the interval expected: %+v", p)
	}
}

func TestTrack_AutoRefreshDisabled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedCatalog(t, f.db, f.clock.Now())
	off := false
	if _, err := f.settings.Update(ctx, SettingsInput{AutoRefreshEnabled: &off}); err != nil {
		t.Fatalf("Update settings: %v", err)
	}

	if _, err := f.tracker.Track(ctx, TrackInput{UserID: "u", CourseID: "web-101", Type: domain.InteractionViewed}); err != nil {
		t.Fatalf("Track: %v", err)
	}
	if _, err := repo.GetProfile(ctx, f.db, "u"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("no profile should be built when auto refresh is off, got %v", err)
	}
}
