package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recs-backend/internal/domain"
	"github.com/tbourn/go-recs-backend/internal/recommend"
	"github.com/tbourn/go-recs-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:services_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps concurrent writers from hitting SQLITE_LOCKED
	sqlDB.SetMaxOpenConns(1)
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// testClock is a settable clock shared by the services under test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seedCourse(t *testing.T, db *gorm.DB, id, category string, level domain.DifficultyLevel, rating float64, enrollments int, created time.Time) {
	t.Helper()
	c := &domain.Course{
		ID: id, Title: id, Category: category, DifficultyLevel: level,
		Status: domain.CoursePublished, AvgRating: rating, EnrollmentCount: enrollments, CreatedAt: created,
	}
	if err := repo.UpsertCourse(context.Background(), db, c); err != nil {
		t.Fatalf("seed course %s: %v", id, err)
	}
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID, courseID string, status domain.EnrollmentStatus, at time.Time) {
	t.Helper()
	e := &domain.Enrollment{ID: uuid.NewString(), UserID: userID, CourseID: courseID, Status: status, EnrolledAt: at}
	if status == domain.EnrollmentCompleted {
		e.CompletedAt = &at
	}
	if err := repo.UpsertEnrollment(context.Background(), db, e); err != nil {
		t.Fatalf("seed enrollment: %v", err)
	}
}

func seedInteraction(t *testing.T, db *gorm.DB, userID, courseID string, typ domain.InteractionType, rating int, at time.Time) {
	t.Helper()
	it := &domain.Interaction{UserID: userID, CourseID: courseID, Type: typ, OccurredAt: at}
	if rating > 0 {
		it.Rating = &rating
	}
	if _, err := repo.UpsertInteraction(context.Background(), db, it); err != nil {
		t.Fatalf("seed interaction: %v", err)
	}
}

// seedCatalog creates a small catalog: web-101..web-301 by tier, twelve
// "data" courses, and two recent "ml" courses.
func seedCatalog(t *testing.T, db *gorm.DB, now time.Time) {
	t.Helper()
	old := now.Add(-120 * 24 * time.Hour)
	seedCourse(t, db, "web-101", "web", domain.DifficultyBeginner, 4.5, 300, old)
	seedCourse(t, db, "web-201", "web", domain.DifficultyIntermediate, 4.2, 120, old)
	seedCourse(t, db, "web-301", "web", domain.DifficultyAdvanced, 4.8, 40, old)
	for i := 0; i < 12; i++ {
		seedCourse(t, db, fmt.Sprintf("data-%02d", i), "data", domain.DifficultyBeginner, 3.0+float64(i)/10, 10*i, old)
	}
	seedCourse(t, db, "ml-new", "ml", domain.DifficultyBeginner, 4.0, 90, now.Add(-2*24*time.Hour))
	seedCourse(t, db, "ml-newer", "ml", domain.DifficultyBeginner, 4.0, 30, now.Add(-24*time.Hour))
}

type fixture struct {
	db       *gorm.DB
	clock    *testClock
	profiles *ProfileService
	settings *SettingsService
	recs     *RecommendationService
	tracker  *InteractionService
	feedback *FeedbackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	clock := newTestClock()

	profiles := NewProfileService(db)
	profiles.Now = clock.Now
	settings := NewSettingsService(db, recommend.Settings{})
	engine := recommend.NewEngine(recommend.NewGormSource(db), zerolog.Nop())
	recs := NewRecommendationService(db, engine, profiles, settings, nil, zerolog.Nop())
	recs.Now = clock.Now
	tracker := NewInteractionService(db, profiles, settings, zerolog.Nop())
	tracker.Now = clock.Now

	return &fixture{
		db: db, clock: clock, profiles: profiles, settings: settings,
		recs: recs, tracker: tracker, feedback: &FeedbackService{DB: db},
	}
}
