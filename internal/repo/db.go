// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver), optional OpenTelemetry instrumentation, and
// schema migrations.
//
// All repository functions in this package follow the "thin repository"
// approach: they accept a context and a *gorm.DB (which may be a
// transaction) and perform persistence and query composition only. Business
// rules live in the services and recommend packages.
package repo

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-recs-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound so callers can use errors.Is with either.
var ErrNotFound = gorm.ErrRecordNotFound

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(withPragmas(path)), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// sqlitePragmas are applied by the driver to every pooled connection.
// Foreign keys must be on for feedback to cascade with its recommendation.
var sqlitePragmas = []string{
	"_pragma=foreign_keys(1)",
	"_pragma=busy_timeout(5000)",
	"_pragma=journal_mode(WAL)",
	"_pragma=synchronous(NORMAL)",
}

// withPragmas appends sqlitePragmas to the DSN query string.
func withPragmas(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(sqlitePragmas, "&")
}

// WithTracing registers the GORM OpenTelemetry plugin so every query runs in
// a child span of the request context.
func WithTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}

// Models lists every persisted type, parents before children.
func Models() []any {
	return []any{
		&domain.Course{},
		&domain.Enrollment{},
		&domain.Interaction{},
		&domain.UserProfile{},
		&domain.ViewedCourse{},
		&domain.Recommendation{},
		&domain.Feedback{},
		&domain.EngineSettings{},
		&domain.Idempotency{},
	}
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
