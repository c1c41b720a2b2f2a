package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// newTestDB opens a private in-memory database with foreign keys on and the
// full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// newBareDB opens a private in-memory database without any tables.
func newBareDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:bare_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}

func TestOpenSQLite_ErrorOnBadPath(t *testing.T) {
	base := t.TempDir()
	bad := filepath.Join(base, "does-not-exist", "recs.db")

	db, err := OpenSQLite(bad)
	if err == nil || db != nil {
		t.Fatalf("expected error opening %q, got db=%v err=%v", bad, db, err)
	}
	lower := strings.ToLower(err.Error())
	if !(os.IsNotExist(err) ||
		strings.Contains(lower, "unable to open database file") ||
		strings.Contains(lower, "no such file or directory") ||
		strings.Contains(lower, "out of memory")) {
		t.Fatalf("unexpected error opening %q: %v", bad, err)
	}
}

func TestOpenSQLite_SetsPragmas_AndAutoMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	var journalMode string
	if err := db.Raw("PRAGMA journal_mode;").Row().Scan(&journalMode); err != nil {
		t.Fatalf("PRAGMA journal_mode: %v", err)
	}
	if strings.ToLower(journalMode) != "wal" {
		t.Fatalf("expected journal_mode=wal, got %q", journalMode)
	}
	var fkOn int
	if err := db.Raw("PRAGMA foreign_keys;").Row().Scan(&fkOn); err != nil {
		t.Fatalf("PRAGMA foreign_keys: %v", err)
	}
	if fkOn != 1 {
		t.Fatalf("expected foreign_keys=1, got %d", fkOn)
	}
	if stats := sqlDB.Stats(); stats.MaxOpenConnections != 10 {
		t.Fatalf("expected MaxOpenConnections=10, got %d", stats.MaxOpenConnections)
	}

	if err := WithTracing(db); err != nil {
		t.Fatalf("WithTracing: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	m := db.Migrator()
	for _, tbl := range Models() {
		if !m.HasTable(tbl) {
			t.Fatalf("expected table for %T to exist", tbl)
		}
	}

	now := time.Now().UTC()
	c := &domain.Course{ID: "c1", Title: "Go", Category: "programming", DifficultyLevel: domain.DifficultyBeginner, Status: domain.CoursePublished, CreatedAt: now}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("insert course: %v", err)
	}
	var got domain.Course
	if err := db.First(&got, "id = ?", "c1").Error; err != nil || got.Title != "Go" {
		t.Fatalf("readback course failed: err=%v got=%+v", err, got)
	}
}

func TestOpenSQLite_ForeignKeysOnEveryPooledConnection(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "recs.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	ctx := context.Background()
	now := time.Now().UTC()

	if err := ReplaceRecommendations(ctx, db, "u1", []domain.Recommendation{rec("r1", "u1", "a", 0.5, now, time.Hour)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := UpsertFeedback(ctx, db, "u1", "r1", domain.FeedbackHelpful, ""); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	// Pin a few connections so the replace below runs on a fresh one.
	var held []*sql.Conn
	for i := 0; i < 3; i++ {
		conn, err := sqlDB.Conn(ctx)
		if err != nil {
			t.Fatalf("conn: %v", err)
		}
		held = append(held, conn)
		var fk int
		if err := conn.QueryRowContext(ctx, "PRAGMA foreign_keys;").Scan(&fk); err != nil || fk != 1 {
			t.Fatalf("conn %d: foreign_keys=%d err=%v", i, fk, err)
		}
	}
	defer func() {
		for _, c := range held {
			_ = c.Close()
		}
	}()

	if err := ReplaceRecommendations(ctx, db, "u1", nil); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n, _ := CountFeedback(ctx, db, "u1"); n != 0 {
		t.Fatalf("feedback survived batch replacement: %d rows", n)
	}
}

func TestReplaceRecommendations_RemovesFeedbackWithoutForeignKeys(t *testing.T) {
	db := newBareDB(t)
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	ctx := context.Background()
	now := time.Now().UTC()

	if err := ReplaceRecommendations(ctx, db, "u1", []domain.Recommendation{rec("r1", "u1", "a", 0.5, now, time.Hour)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ReplaceRecommendations(ctx, db, "u2", []domain.Recommendation{rec("x1", "u2", "a", 0.5, now, time.Hour)}); err != nil {
		t.Fatalf("seed u2: %v", err)
	}
	for _, fb := range []struct{ user, rec string }{{"u1", "r1"}, {"u2", "x1"}} {
		if _, err := UpsertFeedback(ctx, db, fb.user, fb.rec, domain.FeedbackHelpful, ""); err != nil {
			t.Fatalf("feedback %s: %v", fb.user, err)
		}
	}

	if err := ReplaceRecommendations(ctx, db, "u1", []domain.Recommendation{rec("r2", "u1", "b", 0.6, now, time.Hour)}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n, _ := CountFeedback(ctx, db, "u1"); n != 0 {
		t.Fatalf("u1 feedback = %d, want 0", n)
	}
	if n, _ := CountFeedback(ctx, db, "u2"); n != 1 {
		t.Fatalf("u2 feedback = %d, want 1", n)
	}
}

func TestWithPragmas(t *testing.T) {
	if got := withPragmas("recs.db"); !strings.HasPrefix(got, "recs.db?_pragma=foreign_keys(1)&") {
		t.Fatalf("withPragmas = %q", got)
	}
	if got := withPragmas("file:x?mode=memory"); !strings.HasPrefix(got, "file:x?mode=memory&_pragma=") {
		t.Fatalf("withPragmas = %q", got)
	}
}

// Compile-time guard to ensure signature stability.
var _ func(string) (*gorm.DB, error) = OpenSQLite
